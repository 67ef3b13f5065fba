package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/text/language"

	"github.com/angelmondragon/bistro-backend/api/controllers"
	"github.com/angelmondragon/bistro-backend/api/routes"
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
	"github.com/angelmondragon/bistro-backend/pkg/db"
	"github.com/angelmondragon/bistro-backend/pkg/instance"
	"github.com/angelmondragon/bistro-backend/pkg/logger"
	"github.com/angelmondragon/bistro-backend/pkg/metrics"
	"github.com/angelmondragon/bistro-backend/pkg/migrate"
	"github.com/angelmondragon/bistro-backend/pkg/redis"
	"github.com/angelmondragon/bistro-backend/pkg/security"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	orderMetrics := metrics.NewOrderMetrics(registry)

	params, err := buildServices(cfg, logg, dbClient, redisClient, orderMetrics)
	if err != nil {
		return err
	}
	params.Config = cfg
	params.Logger = logg
	params.Idempotency = redisClient
	params.Pingers = map[string]controllers.Pinger{"db": dbClient, "redis": redisClient}
	params.HTTPMetrics = metrics.NewHTTPMetrics(registry)
	params.MetricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(params),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "addr": addr, "instance": instance.ID()})
	logg.Info(logCtx, "starting api server")

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, orderMetrics *metrics.OrderMetrics) (routes.Params, error) {
	var p routes.Params

	tag, err := language.Parse(cfg.Menu.CollationLanguage)
	if err != nil {
		tag = language.English
	}
	menuRepo := menu.NewRepository(dbClient.DB())
	menuSvc, err := menu.NewService(menuRepo, dbClient, menu.NewPipeline(tag), cfg.Menu.CatalogCacheTTL)
	if err != nil {
		return p, err
	}

	cartStore, err := cart.NewRedisStore(redisClient, cfg.Cart.TTL)
	if err != nil {
		return p, err
	}
	fees := cart.NewFeeSchedule(cfg.Pricing)
	cartSvc, err := cart.NewService(cartStore, menuSvc, fees, cfg.Cart.MaxQuantity)
	if err != nil {
		return p, err
	}

	ordersSvc, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, menuSvc, fees, orderMetrics)
	if err != nil {
		return p, err
	}
	checkoutSvc, err := checkout.NewService(cartSvc, ordersSvc, menuSvc, logg, cfg.Cart.MaxQuantity)
	if err != nil {
		return p, err
	}
	reservationsSvc, err := reservations.NewService(reservations.NewRepository(dbClient.DB()), dbClient, cfg.Pricing.ReservationFee, orderMetrics)
	if err != nil {
		return p, err
	}

	usersRepo := users.NewRepository(dbClient.DB())
	usersSvc, err := users.NewService(usersRepo)
	if err != nil {
		return p, err
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return p, err
	}
	authSvc, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		Hasher:         security.NewHasher(cfg.Password),
		RateLimiter:    redisClient,
		JWTConfig:      cfg.JWT,
		RateLimit:      cfg.AuthRateLimit,
	})
	if err != nil {
		return p, err
	}

	adminSvc, err := admin.NewService(admin.NewRepository(dbClient.DB()), menuRepo, ordersSvc, reservationsSvc)
	if err != nil {
		return p, err
	}

	p.Sessions = sessionManager
	p.Menu = menuSvc
	p.Cart = cartSvc
	p.Checkout = checkoutSvc
	p.Orders = ordersSvc
	p.Reservations = reservationsSvc
	p.Users = usersSvc
	p.Auth = authSvc
	p.Admin = adminSvc
	return p, nil
}
