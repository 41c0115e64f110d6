package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"b2b-catalog/models"
	"b2b-catalog/pricing"
	"b2b-catalog/repository"

	"github.com/google/uuid"
)

// ProductFilter narrows product listings. CategoryID matches the category and
// every category below it.
type ProductFilter struct {
	CategoryID string
	Search     string
}

// ICatalogService defines the catalog business logic used by the storefront and the back-office.
type ICatalogService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CategoryTree(ctx context.Context) ([]*models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, category models.Category) (*models.Category, error)
	UpdateCategory(ctx context.Context, id string, category models.Category) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) (categoryIDs, productIDs []string, err error)
	CategoryStats(ctx context.Context, id string) (*models.CategoryStats, error)

	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	PricedProducts(ctx context.Context, filter ProductFilter, discount *float64) ([]models.PricedProduct, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	// ViewProduct returns the product and counts the visit.
	ViewProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, product models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, product models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, id string, delta int) (*models.Product, error)
	// ImportProducts validates every row before writing any; rows with a known id replace that product.
	ImportProducts(ctx context.Context, products []models.Product) (int, error)
}

// CatalogService implements ICatalogService.
type CatalogService struct {
	repo repository.ICatalogRepository
	now  func() time.Time
}

// NewCatalogService creates a new CatalogService instance.
func NewCatalogService(repo repository.ICatalogRepository) ICatalogService {
	return &CatalogService{repo: repo, now: time.Now}
}

func sortCategories(categories []models.Category) {
	sort.SliceStable(categories, func(i, j int) bool { return categories[i].Order < categories[j].Order })
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	sortCategories(categories)
	return categories, nil
}

func (s *CatalogService) CategoryTree(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return BuildCategoryTree(categories), nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	return s.repo.FindCategoryByID(ctx, id)
}

func normalizeParent(c *models.Category) {
	if c.ParentID != nil && strings.TrimSpace(*c.ParentID) == "" {
		c.ParentID = nil
	}
}

func (s *CatalogService) CreateCategory(ctx context.Context, category models.Category) (*models.Category, error) {
	category.Name = strings.TrimSpace(category.Name)
	normalizeParent(&category)
	category.Children = nil
	if err := ValidateStruct(category); err != nil {
		return nil, err
	}
	if category.ParentID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *category.ParentID); err != nil {
			return nil, newValidationError("parentId", "parent category %s does not exist", *category.ParentID)
		}
	}
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	if err := s.repo.CreateCategory(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, category models.Category) (*models.Category, error) {
	if _, err := s.repo.FindCategoryByID(ctx, id); err != nil {
		return nil, err
	}
	category.ID = id
	category.Name = strings.TrimSpace(category.Name)
	normalizeParent(&category)
	category.Children = nil
	if err := ValidateStruct(category); err != nil {
		return nil, err
	}
	if category.ParentID != nil {
		all, err := s.repo.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		if err := checkParent(all, id, *category.ParentID); err != nil {
			return nil, err
		}
	}
	if err := s.repo.UpdateCategory(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// checkParent rejects a parent that does not exist or that would close a cycle.
func checkParent(all []models.Category, id, parentID string) error {
	known := false
	for _, c := range all {
		if c.ID == parentID {
			known = true
			break
		}
	}
	if !known {
		return newValidationError("parentId", "parent category %s does not exist", parentID)
	}
	for _, d := range models.DescendantIDs(all, id) {
		if d == parentID {
			return newValidationError("parentId", "category %s cannot be moved below itself", id)
		}
	}
	return nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) ([]string, []string, error) {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *CatalogService) CategoryStats(ctx context.Context, id string) (*models.CategoryStats, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindCategoryByID(ctx, id); err != nil {
		return nil, err
	}
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	inTree := make(map[string]bool)
	for _, cid := range models.DescendantIDs(categories, id) {
		inTree[cid] = true
	}
	stats := &models.CategoryStats{CategoryID: id}
	for _, p := range products {
		if inTree[p.CategoryID] {
			stats.TotalProducts++
			stats.TotalViews += p.Views
		}
	}
	return stats, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	var inTree map[string]bool
	if filter.CategoryID != "" {
		categories, err := s.repo.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		inTree = make(map[string]bool)
		for _, cid := range models.DescendantIDs(categories, filter.CategoryID) {
			inTree[cid] = true
		}
	}
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	result := make([]models.Product, 0, len(products))
	for _, p := range products {
		if inTree != nil && !inTree[p.CategoryID] {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.Code), search) {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

func (s *CatalogService) PricedProducts(ctx context.Context, filter ProductFilter, discount *float64) ([]models.PricedProduct, error) {
	products, err := s.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}
	priced := make([]models.PricedProduct, 0, len(products))
	for _, p := range products {
		priced = append(priced, models.PricedProduct{Product: p, DisplayPrice: pricing.DiscountedPrice(p.Price, discount)})
	}
	return priced, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.FindProductByID(ctx, id)
}

func (s *CatalogService) ViewProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.MutateProduct(ctx, id, func(p *models.Product) error {
		p.Views++
		return nil
	})
}

func (s *CatalogService) prepareProduct(ctx context.Context, p *models.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Code = strings.TrimSpace(p.Code)
	if p.Images == nil {
		p.Images = []string{}
	}
	for i := range p.Variants {
		if p.Variants[i].ID == "" {
			p.Variants[i].ID = uuid.NewString()
		}
	}
	if err := ValidateStruct(*p); err != nil {
		return err
	}
	if _, err := s.repo.FindCategoryByID(ctx, p.CategoryID); err != nil {
		return newValidationError("categoryId", "category %s does not exist", p.CategoryID)
	}
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	if err := s.prepareProduct(ctx, &product); err != nil {
		return nil, err
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	now := s.now().UTC()
	product.Views = 0
	product.CreatedAt = now
	product.UpdatedAt = now
	if err := s.repo.CreateProduct(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, product models.Product) (*models.Product, error) {
	existing, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.ID = id
	if err := s.prepareProduct(ctx, &product); err != nil {
		return nil, err
	}
	product.Views = existing.Views
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateProduct(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.DeleteProduct(ctx, id)
}

func (s *CatalogService) AdjustStock(ctx context.Context, id string, delta int) (*models.Product, error) {
	return s.repo.MutateProduct(ctx, id, func(p *models.Product) error {
		if p.Stock+delta < 0 {
			return newValidationError("stock", "stock of %s cannot drop below zero (have %d, change %d)", id, p.Stock, delta)
		}
		p.Stock += delta
		p.UpdatedAt = s.now().UTC()
		return nil
	})
}

func (s *CatalogService) ImportProducts(ctx context.Context, products []models.Product) (int, error) {
	existing, err := s.repo.ListProducts(ctx)
	if err != nil {
		return 0, err
	}
	byID := make(map[string]models.Product, len(existing))
	for _, p := range existing {
		byID[p.ID] = p
	}

	now := s.now().UTC()
	seen := make(map[string]bool, len(products))
	prepared := make([]models.Product, 0, len(products))
	for i, p := range products {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if seen[p.ID] {
			return 0, newValidationError("id", "row %d: product %s appears twice", i+1, p.ID)
		}
		seen[p.ID] = true
		if err := s.prepareProduct(ctx, &p); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		if old, ok := byID[p.ID]; ok {
			p.Views = old.Views
			p.Stock = old.Stock
			p.Variants = old.Variants
			p.CreatedAt = old.CreatedAt
		} else {
			p.CreatedAt = now
		}
		p.UpdatedAt = now
		prepared = append(prepared, p)
	}
	if err := s.repo.UpsertProducts(ctx, prepared); err != nil {
		return 0, err
	}
	return len(prepared), nil
}
