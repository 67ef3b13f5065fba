package menu

import (
	"sort"
	"strings"

	"github.com/angelmondragon/bistro-backend/pkg/types"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// AllCategories disables the category filter.
const AllCategories = "all"

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	SortDefault   SortKey = "default"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
	SortRating    SortKey = "rating"
)

var validSortKeys = []SortKey{SortDefault, SortPriceLow, SortPriceHigh, SortNameAsc, SortNameDesc, SortRating}

func (s SortKey) IsValid() bool {
	for _, candidate := range validSortKeys {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSortKey maps raw input onto a SortKey; unknown values mean default.
func ParseSortKey(value string) SortKey {
	key := SortKey(strings.ToLower(strings.TrimSpace(value)))
	if key.IsValid() {
		return key
	}
	return SortDefault
}

// QueryParams drive one run of the pipeline. A nil bound leaves that side of
// the price range open.
type QueryParams struct {
	Search   string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     SortKey
}

// Pipeline filters and sorts a catalog. It holds no mutable state and is safe
// for concurrent use.
type Pipeline struct {
	tag language.Tag
}

// NewPipeline builds a pipeline that orders names by the given locale.
func NewPipeline(tag language.Tag) *Pipeline {
	return &Pipeline{tag: tag}
}

var defaultPipeline = NewPipeline(language.English)

// Query runs the pipeline with English collation.
func Query(catalog []types.CatalogItem, params QueryParams) []types.CatalogItem {
	return defaultPipeline.Query(catalog, params)
}

// Query applies search, category, price range and sort, in that order. The
// input slice is never modified.
func (p *Pipeline) Query(catalog []types.CatalogItem, params QueryParams) []types.CatalogItem {
	out := make([]types.CatalogItem, 0, len(catalog))
	needle := strings.ToLower(strings.TrimSpace(params.Search))
	for _, it := range catalog {
		if !matchesSearch(it, needle) || !matchesCategory(it, params.Category) || !inPriceRange(it, params.MinPrice, params.MaxPrice) {
			continue
		}
		out = append(out, it)
	}
	p.sort(out, params.Sort)
	return out
}

func matchesSearch(it types.CatalogItem, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(it.Name), needle) ||
		strings.Contains(strings.ToLower(it.Description), needle) ||
		strings.Contains(strings.ToLower(it.Category), needle)
}

func matchesCategory(it types.CatalogItem, category string) bool {
	if category == "" || category == AllCategories {
		return true
	}
	return it.Category == category
}

func inPriceRange(it types.CatalogItem, lo, hi *decimal.Decimal) bool {
	if lo != nil && it.Price.LessThan(*lo) {
		return false
	}
	if hi != nil && it.Price.GreaterThan(*hi) {
		return false
	}
	return true
}

func (p *Pipeline) sort(items []types.CatalogItem, key SortKey) {
	switch key {
	case SortPriceLow:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Price.LessThan(items[j].Price) })
	case SortPriceHigh:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Price.GreaterThan(items[j].Price) })
	case SortNameAsc, SortNameDesc:
		// a Collator keeps scratch buffers, so each call gets its own
		c := collate.New(p.tag)
		desc := key == SortNameDesc
		sort.SliceStable(items, func(i, j int) bool {
			cmp := c.CompareString(items[i].Name, items[j].Name)
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	case SortRating:
		sort.SliceStable(items, func(i, j int) bool { return items[i].RatingOrZero() > items[j].RatingOrZero() })
	}
}

// Categories lists "all" followed by each distinct category in first-seen order.
func Categories(catalog []types.CatalogItem) []string {
	seen := map[string]struct{}{}
	out := []string{AllCategories}
	for _, it := range catalog {
		if _, ok := seen[it.Category]; ok || it.Category == "" {
			continue
		}
		seen[it.Category] = struct{}{}
		out = append(out, it.Category)
	}
	return out
}

// PriceRange is an inclusive price interval.
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// DefaultPriceRange is used when the catalog is empty.
var DefaultPriceRange = PriceRange{Min: decimal.Zero, Max: decimal.NewFromInt(1000)}

// PriceExtent returns the lowest and highest price in the catalog.
func PriceExtent(catalog []types.CatalogItem) PriceRange {
	if len(catalog) == 0 {
		return DefaultPriceRange
	}
	r := PriceRange{Min: catalog[0].Price, Max: catalog[0].Price}
	for _, it := range catalog[1:] {
		r.Min = decimal.Min(r.Min, it.Price)
		r.Max = decimal.Max(r.Max, it.Price)
	}
	return r
}

// DefaultParams are the params of an untouched menu page.
func DefaultParams(extent PriceRange) QueryParams {
	lo, hi := extent.Min, extent.Max
	return QueryParams{Category: AllCategories, MinPrice: &lo, MaxPrice: &hi, Sort: SortDefault}
}

// HasActiveFilters reports whether params narrow or reorder the catalog
// compared to DefaultParams(extent).
func HasActiveFilters(params QueryParams, extent PriceRange) bool {
	if strings.TrimSpace(params.Search) != "" {
		return true
	}
	if params.Category != "" && params.Category != AllCategories {
		return true
	}
	if params.MinPrice != nil && params.MinPrice.GreaterThan(extent.Min) {
		return true
	}
	if params.MaxPrice != nil && params.MaxPrice.LessThan(extent.Max) {
		return true
	}
	return params.Sort != "" && params.Sort != SortDefault
}
