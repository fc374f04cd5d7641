package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brandforge/brandforge-api/internal/ai"
	"github.com/brandforge/brandforge-api/internal/config"
	"github.com/brandforge/brandforge-api/internal/database/migrations"
	"github.com/brandforge/brandforge-api/internal/models"
	"github.com/brandforge/brandforge-api/internal/repository"
	"github.com/brandforge/brandforge-api/internal/scrape"
	_ "github.com/tursodatabase/go-libsql"
)

// testEnv wires services against an in-memory database and a fake gateway.
type testEnv struct {
	repos    *repository.Repositories
	cfg      *config.Config
	client   *ai.Client
	brand    *BrandService
	post     *PostService
	image    *ImageService
}

// setupTestEnv builds the service stack with the given fake gateway handler.
func setupTestEnv(t *testing.T, gatewayHandler http.HandlerFunc) *testEnv {
	t.Helper()

	db, err := sql.Open("libsql", ":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if err := migrations.Run(db, testLogger()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	gateway := httptest.NewServer(gatewayHandler)
	t.Cleanup(gateway.Close)

	cfg := &config.Config{
		GatewayBaseURL:  gateway.URL,
		GatewayAPIKey:   "test-key",
		TextModel:       "test/text-model",
		ImageModel:      "test/image-model",
		MaxContentChars: 15000,
		ScrapeTimeout:   5 * time.Second,
		FetchTimeout:    5 * time.Second,
		TextTimeout:     5 * time.Second,
		ImageTimeout:    5 * time.Second,
	}

	repos := repository.NewRepositories(db)
	client := ai.NewClient(gateway.URL, cfg.GatewayAPIKey, nil)
	fetcher := scrape.NewFetcher(scrape.Config{
		MaxContentChars: cfg.MaxContentChars,
		FetchTimeout:    cfg.FetchTimeout,
	}, testLogger())
	logger := testLogger()

	return &testEnv{
		repos:  repos,
		cfg:    cfg,
		client: client,
		brand:  NewBrandService(cfg, repos, client, fetcher, logger),
		post:   NewPostService(cfg, repos, client, logger),
		image:  NewImageService(cfg, repos, client, logger),
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seedBundle inserts a bundle directly for post/image tests.
func seedBundle(t *testing.T, repos *repository.Repositories, userID string) *models.BrandBundle {
	t.Helper()
	bundle := &models.BrandBundle{
		UserID:          userID,
		WebsiteURL:      "https://acme.example",
		BrandName:       "Acme",
		Mission:         "Ship rockets faster",
		Tone:            "confident",
		Style:           "direct",
		PrimaryAudience: "desert predators",
		PainPoints:      []string{"roadrunners are fast"},
		Offerings:       []models.Offering{{Name: "Rocket Skates", Description: "Fast"}},
		Proof:           []string{"10k customers"},
		Keywords:        []string{"rockets"},
	}
	if err := repos.BrandBundle.Create(context.Background(), bundle); err != nil {
		t.Fatalf("failed to seed bundle: %v", err)
	}
	return bundle
}

// toolCallReply builds a gateway reply carrying one tool call.
func toolCallReply(arguments string) string {
	reply, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{{
			"message": map[string]any{
				"tool_calls": []map[string]any{{
					"function": map[string]any{
						"name":      "tool",
						"arguments": arguments,
					},
				}},
			},
		}},
	})
	return string(reply)
}
