package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/shipshop/shipshop/internal"
	"github.com/shipshop/shipshop/internal/bootstrap"
	"github.com/shipshop/shipshop/internal/cookie"
	"github.com/shipshop/shipshop/internal/handler"
	"github.com/shipshop/shipshop/internal/handler/storefront"
	"github.com/shipshop/shipshop/internal/middleware"
	"github.com/shipshop/shipshop/internal/postgres"
	"github.com/shipshop/shipshop/internal/router"
	"github.com/shipshop/shipshop/internal/routes"
	"github.com/shipshop/shipshop/internal/service"
	"github.com/shipshop/shipshop/internal/session"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Initialize stores
	accountStore := postgres.NewAccountStore(pool)
	catalogStore := postgres.NewCatalogStore(pool)
	cartStore := postgres.NewCartStore(pool)
	sessionStore := postgres.NewSessionStore(pool)

	// Initialize services
	accountService := service.NewAccountService(accountStore)
	catalogService := service.NewCatalogService(catalogStore)
	cartService := service.NewCartService(cartStore, catalogStore)

	// Create the initial superuser if configured
	if err := bootstrap.EnsureSuperuser(ctx, accountService, accountStore, &bootstrap.SuperuserConfig{
		Email:     cfg.Admin.Email,
		Password:  cfg.Admin.Password,
		FirstName: cfg.Admin.FirstName,
		LastName:  cfg.Admin.LastName,
		Username:  cfg.Admin.Username,
	}, logger); err != nil {
		return fmt.Errorf("superuser bootstrap failed: %w", err)
	}

	// Session cookies
	cookies := cookie.NewConfig(cfg.SecureCookies, int(session.DefaultTTL.Seconds()))
	resolver := session.NewResolver(sessionStore, cookies, 0)

	// Load templates with renderer
	logger.Info("Loading templates...")
	renderer, err := handler.NewRenderer("web/templates")
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}
	logger.Info("Templates loaded successfully")

	// Build route dependencies
	base := storefront.NewBaseData(cartService, resolver)
	storefrontDeps := routes.StorefrontDeps{
		CatalogHandler: storefront.NewCatalogHandler(catalogService, cartService, resolver, renderer, base),
		CartHandler:    storefront.NewCartHandler(cartService, resolver, renderer, base),
		AuthHandler:    storefront.NewAuthHandler(accountService, sessionStore, resolver, renderer, base),
	}

	// Initialize Prometheus metrics
	metrics := middleware.NewMetrics("shipshop")

	// Create router and register routes
	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		router.Logger(logger),
		middleware.WithAccount(sessionStore, accountStore),
	)

	// Static files
	r.Static("/static/", "./web/static")

	// Metrics endpoint (protect via firewall in production)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	routes.RegisterStorefrontRoutes(r, storefrontDeps)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting server", "address", addr)

	if err := http.ListenAndServe(addr, r); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
