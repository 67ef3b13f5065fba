package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/bistro-backend/api/controllers"
	"github.com/angelmondragon/bistro-backend/api/middleware"
	"github.com/angelmondragon/bistro-backend/internal/admin"
	"github.com/angelmondragon/bistro-backend/internal/auth"
	"github.com/angelmondragon/bistro-backend/internal/cart"
	"github.com/angelmondragon/bistro-backend/internal/checkout"
	"github.com/angelmondragon/bistro-backend/internal/menu"
	"github.com/angelmondragon/bistro-backend/internal/orders"
	"github.com/angelmondragon/bistro-backend/internal/reservations"
	"github.com/angelmondragon/bistro-backend/internal/users"
	"github.com/angelmondragon/bistro-backend/pkg/auth/session"
	"github.com/angelmondragon/bistro-backend/pkg/config"
	"github.com/angelmondragon/bistro-backend/pkg/logger"
	"github.com/angelmondragon/bistro-backend/pkg/metrics"
)

// Params carries everything the HTTP surface is built from.
type Params struct {
	Config *config.Config
	Logger *logger.Logger

	Sessions    session.Store
	Idempotency middleware.IdempotencyStore
	Pingers     map[string]controllers.Pinger
	HTTPMetrics *metrics.HTTPMetrics
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler

	Menu         menu.Service
	Cart         cart.Service
	Checkout     checkout.Service
	Orders       orders.Service
	Reservations reservations.Service
	Users        users.Service
	Auth         auth.Service
	Admin        admin.Service
}

func NewRouter(p Params) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.Pingers))
	})
	if p.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", p.MetricsHandler)
	}

	// Guests are identified by their cart session, so every public route
	// carries one. Idempotency runs after both so it can scope by caller.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CartSession(logg))
		r.Use(middleware.OptionalAuth(cfg.JWT, p.Sessions, logg))
		r.Use(middleware.Idempotency(p.Idempotency, logg))

		r.Route("/menu", func(r chi.Router) {
			r.Get("/", controllers.MenuBrowse(p.Menu, logg))
			r.Get("/{itemId}", controllers.MenuItem(p.Menu, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(p.Cart, logg))
			r.Delete("/", controllers.CartClear(p.Cart, logg))
			r.Post("/items", controllers.CartAddItem(p.Cart, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(p.Cart, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(p.Cart, logg))
		})

		r.Post("/checkout", controllers.Checkout(p.Checkout, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderPlace(p.Orders, logg))
			r.Get("/track/{orderId}", controllers.OrderTrack(p.Orders, logg))
			r.With(middleware.Auth(cfg.JWT, p.Sessions, logg)).Get("/history", controllers.OrderHistory(p.Orders, logg))
		})

		r.Route("/reservations", func(r chi.Router) {
			r.Get("/tables", controllers.ReservationTables(p.Reservations, logg))
			r.Post("/", controllers.ReservationCreate(p.Reservations, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
				r.Get("/mine", controllers.ReservationMine(p.Reservations, logg))
				r.Post("/{reservationId}/cancel", controllers.ReservationCancel(p.Reservations, logg))
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.AuthRegister(p.Auth, logg))
			r.Post("/login", controllers.AuthLogin(p.Auth, logg))
			r.With(middleware.Auth(cfg.JWT, p.Sessions, logg)).Post("/logout", controllers.AuthLogout(p.Auth, logg))
		})

		r.Route("/profile", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
			r.Get("/", controllers.ProfileGet(p.Users, logg))
			r.Put("/", controllers.ProfileUpdate(p.Users, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Post("/auth/login", controllers.AdminAuthLogin(p.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
			r.Use(middleware.RequireAdmin(logg))
			r.Use(middleware.Idempotency(p.Idempotency, logg))

			r.Get("/dashboard/stats", controllers.AdminDashboard(p.Admin, logg))
			r.Get("/reports/sales", controllers.AdminSalesReport(p.Admin, logg))
			r.Get("/reports/popular-items", controllers.AdminPopularItems(p.Admin, logg))

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", controllers.AdminCategoriesList(p.Menu, logg))
				r.Post("/", controllers.AdminCategoryCreate(p.Menu, logg))
				r.Put("/{categoryId}", controllers.AdminCategoryUpdate(p.Menu, logg))
				r.Delete("/{categoryId}", controllers.AdminCategoryDelete(p.Menu, logg))
			})

			r.Route("/menu-items", func(r chi.Router) {
				r.Get("/", controllers.AdminMenuItemsList(p.Menu, logg))
				r.Post("/", controllers.AdminMenuItemCreate(p.Menu, logg))
				r.Get("/{itemId}", controllers.MenuItem(p.Menu, logg))
				r.Put("/{itemId}", controllers.AdminMenuItemUpdate(p.Menu, logg))
				r.Delete("/{itemId}", controllers.AdminMenuItemDelete(p.Menu, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminOrdersList(p.Orders, logg))
				r.Get("/{orderId}", controllers.AdminOrderDetail(p.Orders, logg))
				r.Patch("/{orderId}/status", controllers.AdminOrderStatus(p.Orders, logg))
				r.Delete("/{orderId}", controllers.AdminOrderDelete(p.Orders, logg))
			})

			r.Route("/reservations", func(r chi.Router) {
				r.Get("/", controllers.AdminReservationsList(p.Reservations, logg))
				r.Get("/{reservationId}", controllers.AdminReservationDetail(p.Reservations, logg))
				r.Patch("/{reservationId}/status", controllers.AdminReservationStatus(p.Reservations, logg))
				r.Delete("/{reservationId}", controllers.AdminReservationDelete(p.Reservations, logg))
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.AdminUsersList(p.Users, logg))
				r.Get("/{userId}", controllers.AdminUserDetail(p.Users, logg))
				r.Post("/{userId}/toggle-status", controllers.AdminUserToggleStatus(p.Users, logg))
			})
		})
	})

	return r
}
