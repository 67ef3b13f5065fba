package menu

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/bistro-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists menu items and categories.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListCatalog returns items in catalog order. availableOnly hides items the
// kitchen has switched off.
func (r *Repository) ListCatalog(ctx context.Context, availableOnly bool) ([]models.MenuItem, error) {
	var items []models.MenuItem
	q := r.db.WithContext(ctx).Model(&models.MenuItem{})
	if availableOnly {
		q = q.Where("is_available = ?", true)
	}
	err := q.Order("sort_order ASC").Order("created_at ASC").Order("id ASC").Find(&items).Error
	return items, err
}

func (r *Repository) ListItems(ctx context.Context, f ItemFilters) ([]models.MenuItem, error) {
	q := r.db.WithContext(ctx).Model(&models.MenuItem{})
	if f.Category != "" && f.Category != AllCategories {
		q = q.Where("category = ?", f.Category)
	}
	if f.IsAvailable != nil {
		q = q.Where("is_available = ?", *f.IsAvailable)
	}
	if f.IsFeatured != nil {
		q = q.Where("is_featured = ?", *f.IsFeatured)
	}
	if term := strings.ToLower(strings.TrimSpace(f.Query)); term != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+term+"%")
	}
	var items []models.MenuItem
	err := q.Order("sort_order ASC").Order("created_at ASC").Find(&items).Error
	return items, err
}

// FindItem returns gorm.ErrRecordNotFound when absent.
func (r *Repository) FindItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) CreateItem(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *Repository) SaveItem(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteItem reports false when nothing was deleted.
func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MenuItem{})
	return res.RowsAffected > 0, res.Error
}

type categoryCount struct {
	Category string
	Count    int64
}

// ListCategories returns categories with the number of items filed under each.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, map[string]int64, error) {
	var cats []models.Category
	if err := r.db.WithContext(ctx).Order("sort_order ASC").Order("name ASC").Find(&cats).Error; err != nil {
		return nil, nil, err
	}
	var rows []categoryCount
	if err := r.db.WithContext(ctx).Model(&models.MenuItem{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Count
	}
	return cats, counts, nil
}

func (r *Repository) FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) CategoryExists(ctx context.Context, name string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Where("name = ?", name).Count(&n).Error
	return n > 0, err
}

func (r *Repository) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *Repository) SaveCategory(ctx context.Context, c *models.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// RenameCategoryItems moves items from one category name to another.
func (r *Repository) RenameCategoryItems(ctx context.Context, from, to string) error {
	return r.db.WithContext(ctx).Model(&models.MenuItem{}).
		Where("category = ?", from).
		Update("category", to).Error
}

func (r *Repository) CountItemsInCategory(ctx context.Context, name string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.MenuItem{}).Where("category = ?", name).Count(&n).Error
	return n, err
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{})
	return res.RowsAffected > 0, res.Error
}

// Counts powers the admin dashboard.
type Counts struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Featured int64 `json:"featured"`
}

func (r *Repository) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	base := func() *gorm.DB { return r.db.WithContext(ctx).Model(&models.MenuItem{}) }
	if err := base().Count(&c.Total).Error; err != nil {
		return c, err
	}
	if err := base().Where("is_available = ?", true).Count(&c.Active).Error; err != nil {
		return c, err
	}
	if err := base().Where("is_featured = ?", true).Count(&c.Featured).Error; err != nil {
		return c, err
	}
	return c, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
