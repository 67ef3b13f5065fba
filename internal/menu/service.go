package menu

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/bistro-backend/pkg/db"
	"github.com/angelmondragon/bistro-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/bistro-backend/pkg/errors"
	"github.com/angelmondragon/bistro-backend/pkg/types"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the public menu and its admin management.
type Service interface {
	Browse(ctx context.Context, params QueryParams) (*BrowseResult, error)
	GetItem(ctx context.Context, id uuid.UUID) (*MenuItemDTO, error)
	GetCatalogItem(ctx context.Context, id uuid.UUID) (types.CatalogItem, error)

	ListItems(ctx context.Context, filters ItemFilters) ([]MenuItemDTO, error)
	CreateItem(ctx context.Context, input ItemInput) (*MenuItemDTO, error)
	UpdateItem(ctx context.Context, id uuid.UUID, input ItemInput) (*MenuItemDTO, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     *Repository
	tx       txRunner
	pipeline *Pipeline
	cacheTTL time.Duration
	now      func() time.Time

	loads    singleflight.Group
	mu       sync.RWMutex
	cached   []types.CatalogItem
	cachedAt time.Time
}

// NewService wires the menu service. cacheTTL <= 0 disables catalog caching
// but concurrent loads are still collapsed into one query.
func NewService(repo *Repository, tx txRunner, pipeline *Pipeline, cacheTTL time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("menu repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if pipeline == nil {
		pipeline = defaultPipeline
	}
	return &service{repo: repo, tx: tx, pipeline: pipeline, cacheTTL: cacheTTL, now: time.Now}, nil
}

func (s *service) catalog(ctx context.Context) ([]types.CatalogItem, error) {
	if s.cacheTTL > 0 {
		s.mu.RLock()
		fresh := s.cached != nil && s.now().Sub(s.cachedAt) < s.cacheTTL
		items := s.cached
		s.mu.RUnlock()
		if fresh {
			return items, nil
		}
	}

	v, err, _ := s.loads.Do("catalog", func() (any, error) {
		rows, err := s.repo.ListCatalog(ctx, true)
		if err != nil {
			return nil, err
		}
		items := make([]types.CatalogItem, len(rows))
		for i, row := range rows {
			items[i] = toCatalogItem(row)
		}
		if s.cacheTTL > 0 {
			s.mu.Lock()
			s.cached, s.cachedAt = items, s.now()
			s.mu.Unlock()
		}
		return items, nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu")
	}
	return v.([]types.CatalogItem), nil
}

func (s *service) invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
	s.loads.Forget("catalog")
}

func (s *service) Browse(ctx context.Context, params QueryParams) (*BrowseResult, error) {
	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	extent := PriceExtent(catalog)
	items := s.pipeline.Query(catalog, params)
	return &BrowseResult{
		Items:            items,
		Categories:       Categories(catalog),
		PriceExtent:      extent,
		HasActiveFilters: HasActiveFilters(params, extent),
		Total:            len(items),
	}, nil
}

func (s *service) findItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item, err := s.repo.FindItem(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu item")
	}
	return item, nil
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*MenuItemDTO, error) {
	item, err := s.findItem(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toItemDTO(*item)
	return &dto, nil
}

func (s *service) GetCatalogItem(ctx context.Context, id uuid.UUID) (types.CatalogItem, error) {
	item, err := s.findItem(ctx, id)
	if err != nil {
		return types.CatalogItem{}, err
	}
	return toCatalogItem(*item), nil
}

func (s *service) ListItems(ctx context.Context, filters ItemFilters) ([]MenuItemDTO, error) {
	rows, err := s.repo.ListItems(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list menu items")
	}
	out := make([]MenuItemDTO, len(rows))
	for i, row := range rows {
		out[i] = toItemDTO(row)
	}
	return out, nil
}

func (s *service) validateItem(ctx context.Context, repo *Repository, input *ItemInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Category = strings.TrimSpace(input.Category)
	if input.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.Category == "" || input.Category == AllCategories {
		return pkgerrors.New(pkgerrors.CodeValidation, "a concrete category is required")
	}
	if input.Rating != nil && (*input.Rating < 0 || *input.Rating > 5) {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 0 and 5")
	}
	exists, err := repo.CategoryExists(ctx, input.Category)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check category")
	}
	if !exists {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "unknown category %q", input.Category)
	}
	return nil
}

func applyItemInput(m *models.MenuItem, input ItemInput) {
	m.Name = input.Name
	m.Description = strings.TrimSpace(input.Description)
	m.Price = input.Price
	m.Category = input.Category
	m.Image = strings.TrimSpace(input.Image)
	m.IsVeg = input.IsVeg
	m.IsFeatured = input.IsFeatured
	m.Rating = input.Rating
	m.SortOrder = input.SortOrder
	if m.ID == uuid.Nil {
		m.IsAvailable = true
	}
	if input.IsAvailable != nil {
		m.IsAvailable = *input.IsAvailable
	}
}

func (s *service) CreateItem(ctx context.Context, input ItemInput) (*MenuItemDTO, error) {
	if err := s.validateItem(ctx, s.repo, &input); err != nil {
		return nil, err
	}
	var item models.MenuItem
	applyItemInput(&item, input)
	if err := s.repo.CreateItem(ctx, &item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create menu item")
	}
	s.invalidate()
	dto := toItemDTO(item)
	return &dto, nil
}

func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, input ItemInput) (*MenuItemDTO, error) {
	item, err := s.findItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateItem(ctx, s.repo, &input); err != nil {
		return nil, err
	}
	applyItemInput(item, input)
	if err := s.repo.SaveItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update menu item")
	}
	s.invalidate()
	dto := toItemDTO(*item)
	return &dto, nil
}

func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.DeleteItem(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete menu item")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
	}
	s.invalidate()
	return nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	cats, counts, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]CategoryDTO, len(cats))
	for i, c := range cats {
		out[i] = toCategoryDTO(c, counts[c.Name])
	}
	return out, nil
}

func normalizeCategory(input *CategoryInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.EqualFold(input.Name, AllCategories) {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "%q is reserved", AllCategories)
	}
	return nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error) {
	if err := normalizeCategory(&input); err != nil {
		return nil, err
	}
	c := models.Category{
		Name:        input.Name,
		Description: strings.TrimSpace(input.Description),
		IsActive:    input.IsActive == nil || *input.IsActive,
		SortOrder:   input.SortOrder,
	}
	if err := s.repo.CreateCategory(ctx, &c); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	dto := toCategoryDTO(c, 0)
	return &dto, nil
}

// UpdateCategory renames carry over to the items filed under the category.
func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*CategoryDTO, error) {
	if err := normalizeCategory(&input); err != nil {
		return nil, err
	}
	var (
		out   CategoryDTO
		count int64
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		c, err := repo.FindCategory(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return err
		}
		previous := c.Name
		c.Name = input.Name
		c.Description = strings.TrimSpace(input.Description)
		c.SortOrder = input.SortOrder
		if input.IsActive != nil {
			c.IsActive = *input.IsActive
		}
		if err := repo.SaveCategory(ctx, c); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
			}
			return err
		}
		if previous != c.Name {
			if err := repo.RenameCategoryItems(ctx, previous, c.Name); err != nil {
				return err
			}
		}
		if count, err = repo.CountItemsInCategory(ctx, c.Name); err != nil {
			return err
		}
		out = toCategoryDTO(*c, count)
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	s.invalidate()
	return &out, nil
}

// DeleteCategory refuses to orphan menu items.
func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	n, err := s.repo.CountItemsInCategory(ctx, c.Name)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count category items")
	}
	if n > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category still has menu items").
			WithDetails(map[string]any{"item_count": n})
	}
	if _, err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}
