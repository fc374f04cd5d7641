// Package service contains the business logic layer.
// Note: User management, OAuth, sessions, and subscriptions are handled by Clerk.
// The UserID in services references Clerk user IDs (e.g., "user_xxx").
package service

import (
	"log/slog"

	"github.com/brandforge/brandforge-api/internal/ai"
	"github.com/brandforge/brandforge-api/internal/config"
	"github.com/brandforge/brandforge-api/internal/repository"
	"github.com/brandforge/brandforge-api/internal/scrape"
)

// Services holds all service instances.
type Services struct {
	Brand *BrandService
	Post  *PostService
	Image *ImageService
}

// NewServices creates all service instances.
func NewServices(cfg *config.Config, repos *repository.Repositories, logger *slog.Logger) *Services {
	client := ai.NewClient(cfg.GatewayBaseURL, cfg.GatewayAPIKey, logger)

	fetcher := scrape.NewFetcher(scrape.Config{
		ProviderBaseURL: cfg.ScrapeBaseURL,
		ProviderAPIKey:  cfg.ScrapeAPIKey,
		WaitMs:          cfg.ScrapeWaitMs,
		MaxContentChars: cfg.MaxContentChars,
		ScrapeTimeout:   cfg.ScrapeTimeout,
		FetchTimeout:    cfg.FetchTimeout,
	}, logger)

	return &Services{
		Brand: NewBrandService(cfg, repos, client, fetcher, logger),
		Post:  NewPostService(cfg, repos, client, logger),
		Image: NewImageService(cfg, repos, client, logger),
	}
}
