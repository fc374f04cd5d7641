// Package main is the entry point for the brandforge-api server.
// Note: User management, OAuth, sessions, and subscriptions are handled by
// Clerk. The API only sees verified JWTs.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/brandforge/brandforge-api/internal/auth"
	"github.com/brandforge/brandforge-api/internal/config"
	"github.com/brandforge/brandforge-api/internal/database"
	"github.com/brandforge/brandforge-api/internal/http/handlers"
	"github.com/brandforge/brandforge-api/internal/http/mw"
	"github.com/brandforge/brandforge-api/internal/logging"
	"github.com/brandforge/brandforge-api/internal/repository"
	"github.com/brandforge/brandforge-api/internal/service"
	"github.com/brandforge/brandforge-api/internal/version"
)

func main() {
	// Initialize logger with TTY detection and format control
	logger := logging.SetDefault()

	v := version.Get()
	logger.Info("starting brandforge-api",
		"version", v.Version,
		"commit", v.Commit,
		"built", v.Date,
		"go_version", v.GoVersion,
	)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := database.MigrateWithLogger(db, logger); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(cfg, repos, logger)

	// Clerk verifier for JWT validation
	clerkVerifier := auth.NewClerkVerifier(cfg.ClerkIssuerURL)
	logger.Info("clerk authentication enabled", "issuer", cfg.ClerkIssuerURL)

	if cfg.ScrapeEnabled() {
		logger.Info("scrape provider enabled", "base_url", cfg.ScrapeBaseURL)
	} else {
		logger.Info("scrape provider not configured, using raw fetch only")
	}

	// Create router
	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(mw.APIVersion())

	// Request timeout middleware. Pipeline endpoints get an extended budget:
	// a single analyze call covers a page fetch plus model inference.
	router.Use(mw.Timeout(mw.TimeoutConfig{
		Default:          30 * time.Second,
		Extended:         cfg.ScrapeTimeout + cfg.TextTimeout + cfg.ImageTimeout,
		ExtendedPatterns: []string{"/analyze", "/generate"},
	}))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Request size limit (1MB)
	router.Use(middleware.RequestSize(1 * 1024 * 1024))

	// Global rate limit by IP (fallback for unauthenticated requests)
	router.Use(mw.RateLimitByIP(100))

	// Global concurrency throttle
	router.Use(middleware.Throttle(100))

	// Huma config for the public API with OpenAPI docs
	humaConfig := huma.DefaultConfig("BrandForge API", v.Short())
	humaConfig.Info.Description = "Brand analysis and content generation API: analyze a website into a reusable brand bundle, then generate on-brand posts and images."
	humaConfig.Servers = []*huma.Server{
		{URL: cfg.BaseURL, Description: "API Server"},
	}
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearerAuth": {
			Type:        "http",
			Scheme:      "bearer",
			Description: "Clerk session JWT. Include it in the Authorization header as `Bearer <token>`.",
		},
	}

	api := humachi.New(router, humaConfig)

	// Config for hidden routes (K8s probes, no docs needed)
	hiddenConfig := huma.DefaultConfig("BrandForge API", v.Short())
	hiddenConfig.DocsPath = ""
	hiddenConfig.OpenAPIPath = ""
	hiddenConfig.SchemasPath = ""
	hiddenAPI := humachi.New(router, hiddenConfig)

	// Config for protected routes (docs are served by the main API)
	protectedConfig := huma.DefaultConfig("BrandForge API", v.Short())
	protectedConfig.Info.Description = humaConfig.Info.Description
	protectedConfig.Servers = humaConfig.Servers
	protectedConfig.DocsPath = ""
	protectedConfig.OpenAPIPath = ""
	protectedConfig.SchemasPath = ""

	// Health check (public, shown in docs)
	huma.Get(api, "/api/v1/health", handlers.HealthCheck)

	// Kubernetes probes (hidden from docs)
	huma.Get(hiddenAPI, "/healthz", handlers.Livez)
	readyzHandler := handlers.NewReadyzHandler(db)
	huma.Get(hiddenAPI, "/readyz", readyzHandler.Readyz)

	// Protected routes
	router.Group(func(r chi.Router) {
		r.Use(mw.Auth(clerkVerifier))
		r.Use(mw.RateLimitByUser(60))

		protectedAPI := humachi.New(r, protectedConfig)

		// Brand bundle routes
		brandsHandler := handlers.NewBrandsHandler(services.Brand)
		huma.Post(protectedAPI, "/api/v1/brands/analyze", brandsHandler.AnalyzeBrand)
		huma.Get(protectedAPI, "/api/v1/brands", brandsHandler.ListBrandBundles)
		huma.Get(protectedAPI, "/api/v1/brands/{id}", brandsHandler.GetBrandBundle)
		huma.Delete(protectedAPI, "/api/v1/brands/{id}", brandsHandler.DeleteBrandBundle)

		// Post routes
		postsHandler := handlers.NewPostsHandler(services.Post)
		huma.Post(protectedAPI, "/api/v1/posts/generate", postsHandler.GeneratePosts)
		huma.Post(protectedAPI, "/api/v1/posts", postsHandler.CreateManualPost)
		huma.Get(protectedAPI, "/api/v1/posts", postsHandler.ListPosts)
		huma.Delete(protectedAPI, "/api/v1/posts/{id}", postsHandler.DeletePost)

		// Image routes
		imagesHandler := handlers.NewImagesHandler(services.Image)
		huma.Post(protectedAPI, "/api/v1/images/generate", imagesHandler.GenerateImage)
	})

	// Create server. The write timeout must outlive the extended request
	// budget or long pipeline responses get cut off mid-write.
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ScrapeTimeout + cfg.TextTimeout + cfg.ImageTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
		<-sigChan

		logger.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
	}()

	logger.Info("starting server", "port", cfg.Port, "base_url", cfg.BaseURL)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
