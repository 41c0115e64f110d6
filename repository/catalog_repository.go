package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"b2b-catalog/models"
)

// ICatalogRepository defines the product and category collection operations.
type ICatalogRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategoryByID(ctx context.Context, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	// DeleteCategory removes the category, its descendants and every product
	// filed under one of them. It returns the removed category and product ids.
	DeleteCategory(ctx context.Context, id string) ([]string, []string, error)

	ListProducts(ctx context.Context) ([]models.Product, error)
	FindProductByID(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	// UpsertProducts replaces products with matching ids and appends the rest, in one write.
	UpsertProducts(ctx context.Context, products []models.Product) error
	// MutateProduct applies fn to the stored product and persists the result.
	MutateProduct(ctx context.Context, id string, fn func(*models.Product) error) (*models.Product, error)
}

type catalogState struct {
	Categories []models.Category `json:"categories"`
	Products   []models.Product  `json:"products"`
}

// CatalogRepository keeps the catalog in memory and rewrites the catalog record after every mutation.
type CatalogRepository struct {
	mu    sync.RWMutex
	store IStateStore
	state catalogState
}

// NewCatalogRepository loads the catalog record, seeding the demo catalog when none was saved yet.
func NewCatalogRepository(ctx context.Context, store IStateStore) (ICatalogRepository, error) {
	r := &CatalogRepository{store: store}
	found, err := store.Load(ctx, KeyCatalog, &r.state)
	if err != nil {
		return nil, err
	}
	if !found {
		r.state = seedCatalog(time.Now().UTC())
		if err := store.Save(ctx, KeyCatalog, r.state); err != nil {
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
	}
	return r, nil
}

func (r *CatalogRepository) snapshot() catalogState {
	return catalogState{
		Categories: append([]models.Category(nil), r.state.Categories...),
		Products:   append([]models.Product(nil), r.state.Products...),
	}
}

// commit persists next and only then makes it the current state.
func (r *CatalogRepository) commit(ctx context.Context, next catalogState) error {
	if err := r.store.Save(ctx, KeyCatalog, next); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	r.state = next
	return nil
}

func (r *CatalogRepository) ListCategories(_ context.Context) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Category(nil), r.state.Categories...), nil
}

func (r *CatalogRepository) FindCategoryByID(_ context.Context, id string) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.state.Categories {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.state.Categories {
		if c.ID == category.ID {
			return fmt.Errorf("category %s: %w", category.ID, ErrDuplicate)
		}
	}
	next := r.snapshot()
	stored := *category
	stored.Children = nil
	next.Categories = append(next.Categories, stored)
	return r.commit(ctx, next)
}

func (r *CatalogRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := r.snapshot()
	for i, c := range next.Categories {
		if c.ID == category.ID {
			stored := *category
			stored.Children = nil
			next.Categories[i] = stored
			return r.commit(ctx, next)
		}
	}
	return fmt.Errorf("category %s: %w", category.ID, ErrNotFound)
}

func (r *CatalogRepository) DeleteCategory(ctx context.Context, id string) ([]string, []string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exists := false
	for _, c := range r.state.Categories {
		if c.ID == id {
			exists = true
			break
		}
	}
	if !exists {
		return nil, nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}

	doomed := make(map[string]bool)
	categoryIDs := models.DescendantIDs(r.state.Categories, id)
	for _, cid := range categoryIDs {
		doomed[cid] = true
	}

	next := catalogState{}
	for _, c := range r.state.Categories {
		if !doomed[c.ID] {
			next.Categories = append(next.Categories, c)
		}
	}
	var productIDs []string
	for _, p := range r.state.Products {
		if doomed[p.CategoryID] {
			productIDs = append(productIDs, p.ID)
			continue
		}
		next.Products = append(next.Products, p)
	}

	if err := r.commit(ctx, next); err != nil {
		return nil, nil, err
	}
	return categoryIDs, productIDs, nil
}

func (r *CatalogRepository) ListProducts(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Product(nil), r.state.Products...), nil
}

func (r *CatalogRepository) FindProductByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.state.Products {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
}

func (r *CatalogRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.state.Products {
		if p.ID == product.ID {
			return fmt.Errorf("product %s: %w", product.ID, ErrDuplicate)
		}
	}
	next := r.snapshot()
	next.Products = append(next.Products, *product)
	return r.commit(ctx, next)
}

func (r *CatalogRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := r.snapshot()
	for i, p := range next.Products {
		if p.ID == product.ID {
			next.Products[i] = *product
			return r.commit(ctx, next)
		}
	}
	return fmt.Errorf("product %s: %w", product.ID, ErrNotFound)
}

func (r *CatalogRepository) DeleteProduct(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := catalogState{Categories: append([]models.Category(nil), r.state.Categories...)}
	found := false
	for _, p := range r.state.Products {
		if p.ID == id {
			found = true
			continue
		}
		next.Products = append(next.Products, p)
	}
	if !found {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return r.commit(ctx, next)
}

func (r *CatalogRepository) UpsertProducts(ctx context.Context, products []models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := r.snapshot()
	index := make(map[string]int, len(next.Products))
	for i, p := range next.Products {
		index[p.ID] = i
	}
	for _, p := range products {
		if i, ok := index[p.ID]; ok {
			next.Products[i] = p
			continue
		}
		index[p.ID] = len(next.Products)
		next.Products = append(next.Products, p)
	}
	return r.commit(ctx, next)
}

func (r *CatalogRepository) MutateProduct(ctx context.Context, id string, fn func(*models.Product) error) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := r.snapshot()
	for i := range next.Products {
		if next.Products[i].ID != id {
			continue
		}
		if err := fn(&next.Products[i]); err != nil {
			return nil, err
		}
		if err := r.commit(ctx, next); err != nil {
			return nil, err
		}
		updated := next.Products[i]
		return &updated, nil
	}
	return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
}

func strPtr(s string) *string { return &s }

// seedCatalog is the demo catalog shipped with a fresh installation.
func seedCatalog(now time.Time) catalogState {
	return catalogState{
		Categories: []models.Category{
			{ID: "1", Name: "Sports Equipment"},
			{ID: "1-1", Name: "Volleyball", ParentID: strPtr("1")},
			{ID: "1-1-1", Name: "Nets", ParentID: strPtr("1-1")},
			{ID: "1-1-2", Name: "Balls", ParentID: strPtr("1-1")},
		},
		Products: []models.Product{
			{
				ID:     "1",
				Name:   "Professional Volleyball Net",
				Code:   "VN001",
				Price:  975,
				Images: []string{"https://images.unsplash.com/photo-1612872087720-bb876e2e67d1?w=800&q=80"},
				Stock:  100,
				Details: models.ProductDetails{
					Dimensions:   "75*950 cm",
					Thread:       "Polyamide - 2mm - 100*100mm",
					Canvas:       "50mm - overlocked rope",
					StitchDetail: "2*2 polyester",
					Tensioning:   "4mm high strength polyester rope",
					Usage:        "Amateur",
					Content:      "Volleyball net and fixing lines",
				},
				CategoryID: "1-1-1",
				CreatedAt:  now,
				UpdatedAt:  now,
			},
		},
	}
}
