package menu

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/bistro-backend/pkg/db"
	"github.com/angelmondragon/bistro-backend/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/bistro-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, ttl time.Duration) (*service, *db.Client) {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(NewRepository(client.DB()), client, nil, ttl)
	require.NoError(t, err)
	return svc.(*service), client
}

func seedMenu(t *testing.T, svc Service) map[string]uuid.UUID {
	t.Helper()
	ctx := context.Background()
	for _, name := range []string{"Main", "Starter", "Dessert"} {
		_, err := svc.CreateCategory(ctx, CategoryInput{Name: name})
		require.NoError(t, err)
	}
	ids := map[string]uuid.UUID{}
	rating := 4.5
	off := false
	inputs := []ItemInput{
		{Name: "Pizza", Price: decimal.NewFromInt(10), Category: "Main", Rating: &rating, SortOrder: 1},
		{Name: "Salad", Price: decimal.NewFromInt(5), Category: "Starter", SortOrder: 2, IsVeg: true},
		{Name: "Brownie", Price: decimal.RequireFromString("3.5"), Category: "Dessert", SortOrder: 3, IsFeatured: true},
		{Name: "Lobster", Price: decimal.NewFromInt(60), Category: "Main", SortOrder: 4, IsAvailable: &off},
	}
	for _, in := range inputs {
		dto, err := svc.CreateItem(ctx, in)
		require.NoError(t, err)
		ids[in.Name] = dto.ID
	}
	return ids
}

func TestNewServiceRequiresDeps(t *testing.T) {
	_, err := NewService(nil, nil, nil, 0)
	require.Error(t, err)
}

func TestBrowseRunsPipelineOverAvailableItems(t *testing.T) {
	svc, _ := newTestService(t, 0)
	seedMenu(t, svc)

	res, err := svc.Browse(context.Background(), QueryParams{Sort: SortPriceLow})
	require.NoError(t, err)
	assert.Equal(t, []string{"Brownie", "Salad", "Pizza"}, names(res.Items))
	assert.Equal(t, []string{"all", "Main", "Starter", "Dessert"}, res.Categories)
	assert.True(t, res.PriceExtent.Min.Equal(decimal.RequireFromString("3.5")))
	assert.True(t, res.PriceExtent.Max.Equal(decimal.NewFromInt(10)))
	assert.True(t, res.HasActiveFilters)
	assert.Equal(t, 3, res.Total)

	res, err = svc.Browse(context.Background(), QueryParams{Category: "Main"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pizza"}, names(res.Items))
}

func TestGetCatalogItem(t *testing.T) {
	svc, _ := newTestService(t, 0)
	ids := seedMenu(t, svc)

	it, err := svc.GetCatalogItem(context.Background(), ids["Pizza"])
	require.NoError(t, err)
	assert.Equal(t, "Pizza", it.Name)
	assert.True(t, it.Price.Equal(decimal.NewFromInt(10)))
	require.NotNil(t, it.Rating)

	lobster, err := svc.GetCatalogItem(context.Background(), ids["Lobster"])
	require.NoError(t, err)
	assert.False(t, lobster.IsAvailable)

	_, err = svc.GetCatalogItem(context.Background(), uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCatalogCacheInvalidatesOnWrite(t *testing.T) {
	svc, _ := newTestService(t, time.Hour)
	ids := seedMenu(t, svc)
	ctx := context.Background()

	first, err := svc.Browse(ctx, QueryParams{})
	require.NoError(t, err)
	require.Len(t, first.Items, 3)

	require.NoError(t, svc.DeleteItem(ctx, ids["Salad"]))
	second, err := svc.Browse(ctx, QueryParams{})
	require.NoError(t, err)
	assert.Len(t, second.Items, 2)
}

func TestCatalogConcurrentLoads(t *testing.T) {
	svc, _ := newTestService(t, time.Minute)
	seedMenu(t, svc)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Browse(context.Background(), QueryParams{})
			assert.NoError(t, err)
			assert.Len(t, res.Items, 3)
		}()
	}
	wg.Wait()
}

func TestCreateItemValidation(t *testing.T) {
	svc, _ := newTestService(t, 0)
	seedMenu(t, svc)
	ctx := context.Background()

	_, err := svc.CreateItem(ctx, ItemInput{Name: "Ghost", Price: decimal.NewFromInt(1), Category: "Nope"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.CreateItem(ctx, ItemInput{Name: "Cheap", Price: decimal.NewFromInt(-1), Category: "Main"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.CreateItem(ctx, ItemInput{Name: "Any", Price: decimal.NewFromInt(1), Category: AllCategories})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateItemKeepsAvailabilityWhenOmitted(t *testing.T) {
	svc, _ := newTestService(t, 0)
	ids := seedMenu(t, svc)
	ctx := context.Background()

	updated, err := svc.UpdateItem(ctx, ids["Lobster"], ItemInput{Name: "Lobster Thermidor", Price: decimal.NewFromInt(65), Category: "Main"})
	require.NoError(t, err)
	assert.Equal(t, "Lobster Thermidor", updated.Name)
	assert.False(t, updated.IsAvailable)
}

func TestListItemsFilters(t *testing.T) {
	svc, _ := newTestService(t, 0)
	seedMenu(t, svc)
	ctx := context.Background()
	yes, no := true, false

	items, err := svc.ListItems(ctx, ItemFilters{Category: "Main"})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = svc.ListItems(ctx, ItemFilters{IsAvailable: &no})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Lobster", items[0].Name)

	items, err = svc.ListItems(ctx, ItemFilters{IsFeatured: &yes})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Brownie", items[0].Name)

	items, err = svc.ListItems(ctx, ItemFilters{Query: "PIZ"})
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestCategoryLifecycle(t *testing.T) {
	svc, _ := newTestService(t, 0)
	seedMenu(t, svc)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, CategoryInput{Name: "Main"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	_, err = svc.CreateCategory(ctx, CategoryInput{Name: "All"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 3)
	var mainID uuid.UUID
	for _, c := range cats {
		if c.Name == "Main" {
			mainID = c.ID
			assert.EqualValues(t, 2, c.ItemCount)
		}
	}

	err = svc.DeleteCategory(ctx, mainID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	renamed, err := svc.UpdateCategory(ctx, mainID, CategoryInput{Name: "Mains"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, renamed.ItemCount)

	items, err := svc.ListItems(ctx, ItemFilters{Category: "Mains"})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	empty, err := svc.CreateCategory(ctx, CategoryInput{Name: "Drinks"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteCategory(ctx, empty.ID))
	assert.True(t, pkgerrors.IsCode(svc.DeleteCategory(ctx, empty.ID), pkgerrors.CodeNotFound))

	_, err = svc.UpdateCategory(ctx, uuid.New(), CategoryInput{Name: "X"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestRepositoryCounts(t *testing.T) {
	svc, client := newTestService(t, 0)
	seedMenu(t, svc)

	counts, err := NewRepository(client.DB()).Counts(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 4, counts.Total)
	assert.EqualValues(t, 3, counts.Active)
	assert.EqualValues(t, 1, counts.Featured)
}
