package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"resty.dev/v3"

	"github.com/angelmondragon/bistro-backend/pkg/enums"
)

func (c *Client) Menu(ctx context.Context, q MenuQuery) (*Menu, error) {
	return call[*Menu](ctx, c, nil, http.MethodGet, "/api/v1/menu", func(r *resty.Request) {
		if q.Search != "" {
			r.SetQueryParam("q", q.Search)
		}
		if q.Category != "" {
			r.SetQueryParam("category", q.Category)
		}
		if q.MinPrice != nil {
			r.SetQueryParam("min_price", q.MinPrice.String())
		}
		if q.MaxPrice != nil {
			r.SetQueryParam("max_price", q.MaxPrice.String())
		}
		if q.Sort != "" {
			r.SetQueryParam("sort", q.Sort)
		}
	})
}

func (c *Client) MenuItem(ctx context.Context, id uuid.UUID) (*MenuItem, error) {
	return call[*MenuItem](ctx, c, nil, http.MethodGet, "/api/v1/menu/"+id.String(), nil)
}

// Cart prices the session cart for orderType; an empty orderType means delivery.
func (c *Client) Cart(ctx context.Context, sess *Session, orderType enums.OrderType) (*Cart, error) {
	return call[*Cart](ctx, c, sess, http.MethodGet, "/api/v1/cart", func(r *resty.Request) {
		if orderType != "" {
			r.SetQueryParam("order_type", string(orderType))
		}
	})
}

func (c *Client) AddToCart(ctx context.Context, sess *Session, itemID uuid.UUID, quantity int) (*Cart, error) {
	body := map[string]any{"item_id": itemID, "quantity": quantity}
	return call[*Cart](ctx, c, sess, http.MethodPost, "/api/v1/cart/items", withBody(body))
}

func (c *Client) UpdateCartItem(ctx context.Context, sess *Session, itemID uuid.UUID, quantity int) (*Cart, error) {
	body := map[string]any{"quantity": quantity}
	return call[*Cart](ctx, c, sess, http.MethodPatch, "/api/v1/cart/items/"+itemID.String(), withBody(body))
}

func (c *Client) RemoveCartItem(ctx context.Context, sess *Session, itemID uuid.UUID) (*Cart, error) {
	return call[*Cart](ctx, c, sess, http.MethodDelete, "/api/v1/cart/items/"+itemID.String(), nil)
}

func (c *Client) ClearCart(ctx context.Context, sess *Session) error {
	_, err := call[struct{}](ctx, c, sess, http.MethodDelete, "/api/v1/cart", nil)
	return err
}

// Checkout places an order from the session cart. An empty idempotencyKey
// gets a fresh one, so pass your own to make retries safe across calls.
func (c *Client) Checkout(ctx context.Context, sess *Session, req OrderRequest, idempotencyKey string) (*PlacedOrder, error) {
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}
	return call[*PlacedOrder](ctx, c, sess, http.MethodPost, "/api/v1/checkout", func(r *resty.Request) {
		r.SetBody(req).SetHeader(idempotencyHeader, idempotencyKey)
	})
}

func (c *Client) PlaceOrder(ctx context.Context, sess *Session, req DirectOrderRequest) (*PlacedOrder, error) {
	return call[*PlacedOrder](ctx, c, sess, http.MethodPost, "/api/v1/orders", withBody(req))
}

func (c *Client) TrackOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	return call[*Order](ctx, c, nil, http.MethodGet, "/api/v1/orders/track/"+id.String(), nil)
}

func (c *Client) OrderHistory(ctx context.Context, sess *Session) ([]Order, error) {
	return call[[]Order](ctx, c, sess, http.MethodGet, "/api/v1/orders/history", nil)
}

func (c *Client) Tables(ctx context.Context) (*TableLayout, error) {
	return call[*TableLayout](ctx, c, nil, http.MethodGet, "/api/v1/reservations/tables", nil)
}

func (c *Client) Reserve(ctx context.Context, sess *Session, req ReservationRequest) (*Reservation, error) {
	return call[*Reservation](ctx, c, sess, http.MethodPost, "/api/v1/reservations", withBody(req))
}

func (c *Client) MyReservations(ctx context.Context, sess *Session) ([]Reservation, error) {
	return call[[]Reservation](ctx, c, sess, http.MethodGet, "/api/v1/reservations/mine", nil)
}

func (c *Client) CancelReservation(ctx context.Context, sess *Session, id uuid.UUID) (*Reservation, error) {
	return call[*Reservation](ctx, c, sess, http.MethodPost, "/api/v1/reservations/"+id.String()+"/cancel", nil)
}

// Register creates an account and stores the returned token on sess.
func (c *Client) Register(ctx context.Context, sess *Session, req RegisterRequest) (*LoginResponse, error) {
	resp, err := call[*LoginResponse](ctx, c, sess, http.MethodPost, "/api/v1/auth/register", withBody(req))
	if err == nil && sess != nil && resp != nil {
		sess.Token = resp.AccessToken
	}
	return resp, err
}

// Login stores the returned token on sess.
func (c *Client) Login(ctx context.Context, sess *Session, email, password string) (*LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}
	resp, err := call[*LoginResponse](ctx, c, sess, http.MethodPost, "/api/v1/auth/login", withBody(body))
	if err == nil && sess != nil && resp != nil {
		sess.Token = resp.AccessToken
	}
	return resp, err
}

// Logout revokes the server session and clears the token on sess.
func (c *Client) Logout(ctx context.Context, sess *Session) error {
	if _, err := call[struct{}](ctx, c, sess, http.MethodPost, "/api/v1/auth/logout", nil); err != nil {
		return err
	}
	if sess != nil {
		sess.Token = ""
	}
	return nil
}

func (c *Client) Profile(ctx context.Context, sess *Session) (*User, error) {
	return call[*User](ctx, c, sess, http.MethodGet, "/api/v1/profile", nil)
}

func (c *Client) UpdateProfile(ctx context.Context, sess *Session, update ProfileUpdate) (*User, error) {
	return call[*User](ctx, c, sess, http.MethodPut, "/api/v1/profile", withBody(update))
}
