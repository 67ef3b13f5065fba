package menu

import (
	"testing"

	"github.com/angelmondragon/bistro-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func priced(name, category, price string) types.CatalogItem {
	return types.CatalogItem{
		ID:       uuid.New(),
		Name:     name,
		Category: category,
		Price:    decimal.RequireFromString(price),
	}
}

func rated(it types.CatalogItem, r float64) types.CatalogItem {
	it.Rating = &r
	return it
}

func bound(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func names(items []types.CatalogItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func sampleCatalog() []types.CatalogItem {
	soup := priced("Tomato Soup", "Starter", "4")
	soup.Description = "Slow roasted tomatoes"
	return []types.CatalogItem{
		rated(priced("Pizza", "Main", "10"), 4.5),
		rated(priced("Salad", "Starter", "5"), 4.8),
		soup,
		rated(priced("Steak", "Main", "25"), 4.5),
		priced("Brownie", "Dessert", "5"),
	}
}

func TestQuerySortsByPriceLow(t *testing.T) {
	catalog := []types.CatalogItem{priced("Pizza", "Main", "10"), priced("Salad", "Starter", "5")}
	got := Query(catalog, QueryParams{Category: AllCategories, MinPrice: bound("0"), MaxPrice: bound("1000"), Sort: SortPriceLow})
	assert.Equal(t, []string{"Salad", "Pizza"}, names(got))
}

func TestQuerySearchMatchesNameDescriptionOrCategory(t *testing.T) {
	catalog := sampleCatalog()

	assert.Equal(t, []string{"Tomato Soup"}, names(Query(catalog, QueryParams{Search: "  ROASTED "})))
	assert.Equal(t, []string{"Pizza", "Steak"}, names(Query(catalog, QueryParams{Search: "main"})))
	assert.Equal(t, []string{"Pizza"}, names(Query(catalog, QueryParams{Search: "izz"})))
	assert.Empty(t, Query(catalog, QueryParams{Search: "sushi"}))
}

func TestQueryWhitespaceSearchIsNoFilter(t *testing.T) {
	catalog := sampleCatalog()
	assert.Equal(t, names(catalog), names(Query(catalog, QueryParams{Search: " \t "})))
}

func TestQueryCategoryIsExactAndCaseSensitive(t *testing.T) {
	catalog := sampleCatalog()
	assert.Equal(t, []string{"Pizza", "Steak"}, names(Query(catalog, QueryParams{Category: "Main"})))
	assert.Empty(t, Query(catalog, QueryParams{Category: "main"}))
	assert.Len(t, Query(catalog, QueryParams{Category: AllCategories}), len(catalog))
}

func TestQueryPriceRangeIsInclusive(t *testing.T) {
	catalog := sampleCatalog()
	got := Query(catalog, QueryParams{MinPrice: bound("5"), MaxPrice: bound("10")})
	assert.Equal(t, []string{"Pizza", "Salad", "Brownie"}, names(got))
}

func TestQueryInvertedRangeIsEmpty(t *testing.T) {
	assert.Empty(t, Query(sampleCatalog(), QueryParams{MinPrice: bound("20"), MaxPrice: bound("5")}))
}

func TestQueryOpenBounds(t *testing.T) {
	catalog := sampleCatalog()
	assert.Equal(t, []string{"Steak"}, names(Query(catalog, QueryParams{MinPrice: bound("11")})))
	assert.Equal(t, []string{"Tomato Soup"}, names(Query(catalog, QueryParams{MaxPrice: bound("4")})))
}

func TestQuerySortsAreStable(t *testing.T) {
	catalog := sampleCatalog()

	// Salad and Brownie tie at 5
	assert.Equal(t, []string{"Tomato Soup", "Salad", "Brownie", "Pizza", "Steak"}, names(Query(catalog, QueryParams{Sort: SortPriceLow})))
	assert.Equal(t, []string{"Steak", "Pizza", "Salad", "Brownie", "Tomato Soup"}, names(Query(catalog, QueryParams{Sort: SortPriceHigh})))
	// Pizza and Steak tie at 4.5, unrated items tie at 0
	assert.Equal(t, []string{"Salad", "Pizza", "Steak", "Tomato Soup", "Brownie"}, names(Query(catalog, QueryParams{Sort: SortRating})))
	assert.Equal(t, names(catalog), names(Query(catalog, QueryParams{Sort: SortDefault})))
}

func TestQueryNameSortIsLocaleAware(t *testing.T) {
	catalog := []types.CatalogItem{
		priced("banana split", "Dessert", "3"),
		priced("Éclair", "Dessert", "3"),
		priced("Cherry Tart", "Dessert", "3"),
		priced("apple pie", "Dessert", "3"),
	}
	assert.Equal(t, []string{"apple pie", "banana split", "Cherry Tart", "Éclair"}, names(Query(catalog, QueryParams{Sort: SortNameAsc})))
	assert.Equal(t, []string{"Éclair", "Cherry Tart", "banana split", "apple pie"}, names(Query(catalog, QueryParams{Sort: SortNameDesc})))
}

func TestQueryIsIdempotent(t *testing.T) {
	catalog := sampleCatalog()
	params := QueryParams{Search: "s", Category: AllCategories, MinPrice: bound("0"), MaxPrice: bound("30"), Sort: SortNameAsc}
	once := Query(catalog, params)
	twice := Query(once, params)
	assert.Equal(t, names(once), names(twice))
}

func TestCategoryAndPriceFiltersCommute(t *testing.T) {
	catalog := sampleCatalog()
	byCategory := Query(Query(catalog, QueryParams{Category: "Main"}), QueryParams{MinPrice: bound("0"), MaxPrice: bound("12")})
	byPrice := Query(Query(catalog, QueryParams{MinPrice: bound("0"), MaxPrice: bound("12")}), QueryParams{Category: "Main"})
	assert.Equal(t, names(byCategory), names(byPrice))
	assert.Equal(t, []string{"Pizza"}, names(byCategory))
}

func TestQueryDoesNotMutateInput(t *testing.T) {
	catalog := sampleCatalog()
	before := names(catalog)
	_ = Query(catalog, QueryParams{Sort: SortPriceHigh})
	assert.Equal(t, before, names(catalog))
}

func TestPipelineWithOtherLocale(t *testing.T) {
	p := NewPipeline(language.Swedish)
	catalog := []types.CatalogItem{priced("Ö-kaka", "Dessert", "1"), priced("Zucchini", "Main", "1")}
	// Swedish sorts Ö after Z
	assert.Equal(t, []string{"Zucchini", "Ö-kaka"}, names(p.Query(catalog, QueryParams{Sort: SortNameAsc})))
	assert.Equal(t, []string{"Ö-kaka", "Zucchini"}, names(Query(catalog, QueryParams{Sort: SortNameAsc})))
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortPriceHigh, ParseSortKey(" Price-High "))
	assert.Equal(t, SortDefault, ParseSortKey("popularity"))
	assert.Equal(t, SortDefault, ParseSortKey(""))
}

func TestCategoriesAndExtent(t *testing.T) {
	catalog := sampleCatalog()
	assert.Equal(t, []string{"all", "Main", "Starter", "Dessert"}, Categories(catalog))

	extent := PriceExtent(catalog)
	assert.True(t, extent.Min.Equal(decimal.NewFromInt(4)))
	assert.True(t, extent.Max.Equal(decimal.NewFromInt(25)))

	empty := PriceExtent(nil)
	assert.True(t, empty.Max.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, []string{"all"}, Categories(nil))
}

func TestHasActiveFilters(t *testing.T) {
	extent := PriceExtent(sampleCatalog())
	params := DefaultParams(extent)
	require.False(t, HasActiveFilters(params, extent))

	withSearch := params
	withSearch.Search = "pizza"
	assert.True(t, HasActiveFilters(withSearch, extent))

	narrowed := params
	narrowed.MaxPrice = bound("20")
	assert.True(t, HasActiveFilters(narrowed, extent))

	sorted := params
	sorted.Sort = SortRating
	assert.True(t, HasActiveFilters(sorted, extent))

	assert.False(t, HasActiveFilters(QueryParams{}, extent))
}
