package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/bistro-backend/internal/checkout"
	"github.com/angelmondragon/bistro-backend/internal/orders"
	"github.com/angelmondragon/bistro-backend/pkg/auth/session"
	"github.com/angelmondragon/bistro-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bistro-backend/pkg/errors"
)

type stubCheckout struct {
	fn func(ctx context.Context, sessionID string, input checkout.Input) (*checkout.Result, error)
}

func (s stubCheckout) Execute(ctx context.Context, sessionID string, input checkout.Input) (*checkout.Result, error) {
	return s.fn(ctx, sessionID, input)
}

func checkoutBody() map[string]any {
	return map[string]any{
		"customer": map[string]any{
			"name":    "Ayesha Khan",
			"email":   "ayesha@example.com",
			"phone":   "03001234567",
			"address": "12 Canal Road",
		},
		"order_type":     "delivery",
		"payment_method": "card",
	}
}

func TestCheckoutCreatesOrder(t *testing.T) {
	userID := uuid.New()
	orderID := uuid.New()
	svc := stubCheckout{fn: func(_ context.Context, sessionID string, input checkout.Input) (*checkout.Result, error) {
		assert.Equal(t, "cart-9", sessionID)
		require.NotNil(t, input.UserID)
		assert.Equal(t, userID, *input.UserID)
		assert.Equal(t, enums.OrderTypeDelivery, input.OrderType)
		assert.Equal(t, enums.PaymentMethodCard, input.PaymentMethod)
		assert.Equal(t, "Ayesha Khan", input.Customer.Name)
		return &checkout.Result{Order: orders.OrderDTO{ID: orderID}, PaymentRedirectRequired: true}, nil
	}}

	req := withCart(jsonRequest(t, http.MethodPost, "/", checkoutBody()), "cart-9")
	req = withSession(req, &session.Session{ID: "s1", UserID: userID, Role: enums.UserRoleCustomer})
	resp := httptest.NewRecorder()
	Checkout(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code)
	var result checkout.Result
	decodeData(t, resp, &result)
	assert.Equal(t, orderID, result.Order.ID)
	assert.True(t, result.PaymentRedirectRequired)
}

func TestCheckoutGuestHasNoUser(t *testing.T) {
	svc := stubCheckout{fn: func(_ context.Context, _ string, input checkout.Input) (*checkout.Result, error) {
		assert.Nil(t, input.UserID)
		return &checkout.Result{}, nil
	}}
	resp := httptest.NewRecorder()
	Checkout(svc, nil).ServeHTTP(resp, withCart(jsonRequest(t, http.MethodPost, "/", checkoutBody()), "cart-9"))

	assert.Equal(t, http.StatusCreated, resp.Code)
}

func TestCheckoutValidation(t *testing.T) {
	cases := map[string]func(map[string]any){
		"bad payment method": func(b map[string]any) { b["payment_method"] = "cheque" },
		"bad order type":     func(b map[string]any) { b["order_type"] = "drone" },
		"missing email": func(b map[string]any) {
			b["customer"].(map[string]any)["email"] = ""
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			body := checkoutBody()
			mutate(body)
			resp := httptest.NewRecorder()
			Checkout(stubCheckout{}, nil).ServeHTTP(resp, withCart(jsonRequest(t, http.MethodPost, "/", body), "cart-9"))
			require.Equal(t, http.StatusBadRequest, resp.Code)
			assert.Equal(t, string(pkgerrors.CodeValidation), decodeError(t, resp).Code)
		})
	}
}

func TestCheckoutEmptyCartIsValidationError(t *testing.T) {
	svc := stubCheckout{fn: func(context.Context, string, checkout.Input) (*checkout.Result, error) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}}
	resp := httptest.NewRecorder()
	Checkout(svc, nil).ServeHTTP(resp, withCart(jsonRequest(t, http.MethodPost, "/", checkoutBody()), "cart-9"))

	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "cart is empty", decodeError(t, resp).Message)
}
