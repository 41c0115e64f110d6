package repository

import (
	"context"
	"errors"
	"testing"

	"b2b-catalog/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStateStore lets tests fail persistence on demand.
type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) Load(ctx context.Context, key string, dst interface{}) (bool, error) {
	args := m.Called(ctx, key, dst)
	return args.Bool(0), args.Error(1)
}

func (m *MockStateStore) Save(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func newSeededCatalog(t *testing.T) (ICatalogRepository, *MemoryStateStore) {
	t.Helper()
	store := NewMemoryStateStore()
	repo, err := NewCatalogRepository(context.Background(), store)
	require.NoError(t, err)
	return repo, store
}

func TestCatalogRepository_SeedsAndPersists(t *testing.T) {
	repo, store := newSeededCatalog(t)
	ctx := context.Background()

	categories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 4)

	var saved catalogState
	found, err := store.Load(ctx, KeyCatalog, &saved)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, saved.Products, 1)

	// a second repository over the same store reads the saved record instead of reseeding
	again, err := NewCatalogRepository(ctx, store)
	require.NoError(t, err)
	products, _ := again.ListProducts(ctx)
	assert.Len(t, products, 1)
}

func TestCatalogRepository_DeleteCategoryCascades(t *testing.T) {
	repo, _ := newSeededCatalog(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateProduct(ctx, &models.Product{ID: "ball", Name: "Ball", Code: "B1", Price: 10, CategoryID: "1-1-2"}))
	require.NoError(t, repo.CreateProduct(ctx, &models.Product{ID: "other", Name: "Bag", Code: "G1", Price: 10, CategoryID: "1"}))

	categoryIDs, productIDs, err := repo.DeleteCategory(ctx, "1-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1-1", "1-1-1", "1-1-2"}, categoryIDs)
	assert.ElementsMatch(t, []string{"1", "ball"}, productIDs)

	categories, _ := repo.ListCategories(ctx)
	require.Len(t, categories, 1)
	assert.Equal(t, "1", categories[0].ID)

	products, _ := repo.ListProducts(ctx)
	require.Len(t, products, 1)
	assert.Equal(t, "other", products[0].ID)
}

func TestCatalogRepository_DeleteUnknownCategory(t *testing.T) {
	repo, _ := newSeededCatalog(t)
	_, _, err := repo.DeleteCategory(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogRepository_FailedSaveKeepsState(t *testing.T) {
	store := new(MockStateStore)
	store.On("Load", mock.Anything, KeyCatalog, mock.Anything).Return(false, nil)
	store.On("Save", mock.Anything, KeyCatalog, mock.Anything).Return(nil).Once()
	store.On("Save", mock.Anything, KeyCatalog, mock.Anything).Return(errors.New("disk full"))

	repo, err := NewCatalogRepository(context.Background(), store)
	require.NoError(t, err)

	err = repo.DeleteProduct(context.Background(), "1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	products, _ := repo.ListProducts(context.Background())
	assert.Len(t, products, 1)
	store.AssertExpectations(t)
}

func TestCatalogRepository_UpsertAndMutate(t *testing.T) {
	repo, _ := newSeededCatalog(t)
	ctx := context.Background()

	err := repo.UpsertProducts(ctx, []models.Product{
		{ID: "1", Name: "Renamed", Code: "VN001", Price: 990, CategoryID: "1-1-1"},
		{ID: "2", Name: "New", Code: "VN002", Price: 10, CategoryID: "1-1-1"},
	})
	require.NoError(t, err)

	p, err := repo.FindProductByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", p.Name)

	updated, err := repo.MutateProduct(ctx, "2", func(p *models.Product) error {
		p.Views++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Views)

	_, err = repo.MutateProduct(ctx, "2", func(p *models.Product) error {
		p.Views = 100
		return errors.New("rejected")
	})
	assert.Error(t, err)
	p, _ = repo.FindProductByID(ctx, "2")
	assert.Equal(t, 1, p.Views)
}
