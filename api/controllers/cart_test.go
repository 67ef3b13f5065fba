package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/bistro-backend/internal/cart"
	"github.com/angelmondragon/bistro-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bistro-backend/pkg/errors"
)

type stubCartService struct {
	cart.Service
	getFn    func(ctx context.Context, sessionID string, orderType enums.OrderType) (*cart.View, error)
	addFn    func(ctx context.Context, sessionID string, orderType enums.OrderType, itemID uuid.UUID, qty int) (*cart.View, error)
	updateFn func(ctx context.Context, sessionID string, orderType enums.OrderType, itemID uuid.UUID, qty int) (*cart.View, error)
	clearFn  func(ctx context.Context, sessionID string) error
}

func (s stubCartService) Get(ctx context.Context, sessionID string, orderType enums.OrderType) (*cart.View, error) {
	return s.getFn(ctx, sessionID, orderType)
}

func (s stubCartService) AddItem(ctx context.Context, sessionID string, orderType enums.OrderType, itemID uuid.UUID, qty int) (*cart.View, error) {
	return s.addFn(ctx, sessionID, orderType, itemID, qty)
}

func (s stubCartService) UpdateQuantity(ctx context.Context, sessionID string, orderType enums.OrderType, itemID uuid.UUID, qty int) (*cart.View, error) {
	return s.updateFn(ctx, sessionID, orderType, itemID, qty)
}

func (s stubCartService) Clear(ctx context.Context, sessionID string) error {
	return s.clearFn(ctx, sessionID)
}

func TestCartGetDefaultsToDelivery(t *testing.T) {
	var gotType enums.OrderType
	svc := stubCartService{getFn: func(_ context.Context, sessionID string, orderType enums.OrderType) (*cart.View, error) {
		gotType = orderType
		return &cart.View{SessionID: sessionID, OrderType: orderType, Summary: cart.Summary{Total: decimal.NewFromInt(150)}}, nil
	}}

	resp := httptest.NewRecorder()
	CartGet(svc, nil).ServeHTTP(resp, withCart(httptest.NewRequest(http.MethodGet, "/", nil), "cart-1"))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, enums.OrderTypeDelivery, gotType)
	var view cart.View
	decodeData(t, resp, &view)
	assert.Equal(t, "cart-1", view.SessionID)
	assert.True(t, view.Total.Equal(decimal.NewFromInt(150)))
}

func TestCartGetRejectsUnknownOrderType(t *testing.T) {
	svc := stubCartService{}
	resp := httptest.NewRecorder()
	CartGet(svc, nil).ServeHTTP(resp, withCart(httptest.NewRequest(http.MethodGet, "/?order_type=drone", nil), "cart-1"))

	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, string(pkgerrors.CodeValidation), decodeError(t, resp).Code)
}

func TestCartAddItem(t *testing.T) {
	itemID := uuid.New()
	svc := stubCartService{addFn: func(_ context.Context, sessionID string, orderType enums.OrderType, id uuid.UUID, qty int) (*cart.View, error) {
		assert.Equal(t, "cart-2", sessionID)
		assert.Equal(t, enums.OrderTypeDelivery, orderType)
		assert.Equal(t, itemID, id)
		assert.Equal(t, 3, qty)
		return &cart.View{SessionID: sessionID}, nil
	}}

	req := withCart(jsonRequest(t, http.MethodPost, "/", map[string]any{"item_id": itemID, "quantity": 3}), "cart-2")
	resp := httptest.NewRecorder()
	CartAddItem(svc, nil).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestCartAddItemValidatesQuantity(t *testing.T) {
	req := withCart(jsonRequest(t, http.MethodPost, "/", map[string]any{"item_id": uuid.New(), "quantity": 0}), "cart-2")
	resp := httptest.NewRecorder()
	CartAddItem(stubCartService{}, nil).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCartAddItemDefaultsQuantityToOne(t *testing.T) {
	var gotQty int
	svc := stubCartService{addFn: func(_ context.Context, _ string, _ enums.OrderType, _ uuid.UUID, qty int) (*cart.View, error) {
		gotQty = qty
		return &cart.View{}, nil
	}}
	req := withCart(jsonRequest(t, http.MethodPost, "/", map[string]any{"item_id": uuid.New()}), "cart-2")
	resp := httptest.NewRecorder()
	CartAddItem(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 1, gotQty)
}

func TestCartAddItemRejectsNegativeQuantity(t *testing.T) {
	req := withCart(jsonRequest(t, http.MethodPost, "/", map[string]any{"item_id": uuid.New(), "quantity": -2}), "cart-2")
	resp := httptest.NewRecorder()
	CartAddItem(stubCartService{}, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, string(pkgerrors.CodeValidation), decodeError(t, resp).Code)
}

func TestCartAddItemPricesForOrderType(t *testing.T) {
	var gotType enums.OrderType
	svc := stubCartService{addFn: func(_ context.Context, sessionID string, orderType enums.OrderType, _ uuid.UUID, _ int) (*cart.View, error) {
		gotType = orderType
		return &cart.View{SessionID: sessionID, OrderType: orderType}, nil
	}}
	req := withCart(jsonRequest(t, http.MethodPost, "/?order_type=takeaway", map[string]any{"item_id": uuid.New(), "quantity": 1}), "cart-2")
	resp := httptest.NewRecorder()
	CartAddItem(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, enums.OrderTypeTakeaway, gotType)
	var view cart.View
	decodeData(t, resp, &view)
	assert.Equal(t, enums.OrderTypeTakeaway, view.OrderType)
}

func TestCartAddItemRejectsUnknownOrderType(t *testing.T) {
	req := withCart(jsonRequest(t, http.MethodPost, "/?order_type=drone", map[string]any{"item_id": uuid.New()}), "cart-2")
	resp := httptest.NewRecorder()
	CartAddItem(stubCartService{}, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCartAddItemPropagatesNotFound(t *testing.T) {
	svc := stubCartService{addFn: func(context.Context, string, enums.OrderType, uuid.UUID, int) (*cart.View, error) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
	}}
	req := withCart(jsonRequest(t, http.MethodPost, "/", map[string]any{"item_id": uuid.New(), "quantity": 1}), "cart-2")
	resp := httptest.NewRecorder()
	CartAddItem(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "menu item not found", decodeError(t, resp).Message)
}

func TestCartUpdateItemPassesQuantityThrough(t *testing.T) {
	itemID := uuid.New()
	var gotQty int
	svc := stubCartService{updateFn: func(_ context.Context, _ string, _ enums.OrderType, id uuid.UUID, qty int) (*cart.View, error) {
		assert.Equal(t, itemID, id)
		gotQty = qty
		return &cart.View{}, nil
	}}
	req := withCart(jsonRequest(t, http.MethodPut, "/", map[string]any{"quantity": 0}), "cart-3")
	req = withURLParam(req, "itemId", itemID.String())
	resp := httptest.NewRecorder()
	CartUpdateItem(svc, nil).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Zero(t, gotQty)
}

func TestCartClearNoContent(t *testing.T) {
	cleared := ""
	svc := stubCartService{clearFn: func(_ context.Context, sessionID string) error {
		cleared = sessionID
		return nil
	}}
	resp := httptest.NewRecorder()
	CartClear(svc, nil).ServeHTTP(resp, withCart(httptest.NewRequest(http.MethodDelete, "/", nil), "cart-4"))

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "cart-4", cleared)
}

func TestCartRequiresSessionAndService(t *testing.T) {
	resp := httptest.NewRecorder()
	CartGet(stubCartService{}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = httptest.NewRecorder()
	CartGet(nil, nil).ServeHTTP(resp, withCart(httptest.NewRequest(http.MethodGet, "/", nil), "cart-5"))
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}
