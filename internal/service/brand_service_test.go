package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/brandforge/brandforge-api/internal/ai"
	"github.com/brandforge/brandforge-api/internal/models"
	"github.com/brandforge/brandforge-api/internal/scrape"
)

const fullBundleArgs = `{
	"brand_name": "Acme Rockets",
	"mission": "Help coyotes catch roadrunners",
	"vision": "A rocket on every mesa",
	"brand_values": ["speed", " reliability ", ""],
	"tone": "confident",
	"style": "direct, playful",
	"offerings": [
		{"name": "Rocket Skates", "description": "Self-balancing"},
		{"name": "", "description": "dropped"}
	],
	"primary_audience": "desert predators",
	"pain_points": ["roadrunners are fast"],
	"proof": ["10k satisfied coyotes"],
	"cta_library": ["Order now"],
	"keywords": ["rockets", "skates"],
	"confidence_mission": 0.9,
	"confidence_voice": 1.5,
	"confidence_offerings": -0.2
}`

func TestAnalyzeHappyPath(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><h1>Acme Rockets</h1></body></html>`))
	}))
	defer site.Close()

	var gatewayBody []byte
	env := setupTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		gatewayBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(toolCallReply(fullBundleArgs)))
	})

	var steps []models.RunStep
	bundle, err := env.brand.Analyze(context.Background(), "user_1",
		AnalyzeInput{WebsiteURL: site.URL},
		func(p models.RunProgress) { steps = append(steps, p.Step) })
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if bundle.ID == "" {
		t.Error("bundle should have an ID after persistence")
	}
	if bundle.BrandName != "Acme Rockets" {
		t.Errorf("BrandName = %q", bundle.BrandName)
	}
	if len(bundle.Values) != 2 {
		t.Errorf("Values = %v, want trimmed non-empty entries", bundle.Values)
	}
	if len(bundle.Offerings) != 1 {
		t.Errorf("Offerings = %v, want nameless entry dropped", bundle.Offerings)
	}
	if bundle.ConfidenceVoice == nil || *bundle.ConfidenceVoice != 1 {
		t.Errorf("ConfidenceVoice = %v, want clamped to 1", bundle.ConfidenceVoice)
	}
	if bundle.ConfidenceOfferings == nil || *bundle.ConfidenceOfferings != 0 {
		t.Errorf("ConfidenceOfferings = %v, want clamped to 0", bundle.ConfidenceOfferings)
	}

	// The extraction prompt must carry the fetched site text.
	var req struct {
		Messages []ai.Message `json:"messages"`
	}
	if err := json.Unmarshal(gatewayBody, &req); err != nil {
		t.Fatalf("gateway request did not decode: %v", err)
	}
	if len(req.Messages) != 2 || !strings.Contains(req.Messages[1].Content, "Acme Rockets") {
		t.Error("extraction prompt should include fetched website text")
	}

	wantSteps := []models.RunStep{
		models.StepFetching, models.StepExtracting,
		models.StepNormalizing, models.StepPersisting, models.StepComplete,
	}
	if len(steps) != len(wantSteps) {
		t.Fatalf("steps = %v, want %v", steps, wantSteps)
	}
	for i := range wantSteps {
		if steps[i] != wantSteps[i] {
			t.Errorf("step[%d] = %v, want %v", i, steps[i], wantSteps[i])
		}
	}

	// Round-trip through the repository.
	saved, err := env.repos.BrandBundle.GetByIDForUser(context.Background(), bundle.ID, "user_1")
	if err != nil || saved == nil {
		t.Fatalf("persisted bundle not found: %v", err)
	}
}

func TestAnalyzeRequiresURL(t *testing.T) {
	env := setupTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("gateway should not be called")
	})

	if _, err := env.brand.Analyze(context.Background(), "user_1", AnalyzeInput{WebsiteURL: "  "}, nil); !errors.Is(err, ErrInvalidURL) {
		t.Errorf("Analyze() error = %v, want ErrInvalidURL", err)
	}
}

func TestAnalyzeUnreachableSiteFallsBackToURL(t *testing.T) {
	var gatewayBody []byte
	env := setupTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		gatewayBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(toolCallReply(fullBundleArgs)))
	})

	bundle, err := env.brand.Analyze(context.Background(), "user_1",
		AnalyzeInput{WebsiteURL: "http://127.0.0.1:1"}, nil)
	if err != nil {
		t.Fatalf("Analyze() error = %v, unreachable site should still analyze", err)
	}
	if bundle == nil {
		t.Fatal("Analyze() returned nil bundle")
	}

	if !strings.Contains(string(gatewayBody), "Could not fetch website content") {
		t.Error("prompt should ask the model to infer from the URL when fetch fails")
	}
}

func TestAnalyzeBrandingHintsReachPrompt(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": {
				"markdown": "# Acme Rockets",
				"branding": {
					"logo_url": "https://acme.example/logo.svg",
					"colors": ["#ff6600", "#222222"],
					"fonts": ["Inter"]
				}
			}
		}`))
	}))
	defer provider.Close()

	var gatewayBody []byte
	env := setupTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		gatewayBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(toolCallReply(fullBundleArgs)))
	})

	// Provider-backed fetcher so the scrape carries branding metadata.
	fetcher := scrape.NewFetcher(scrape.Config{
		ProviderBaseURL: provider.URL,
		ProviderAPIKey:  "fc_test",
		MaxContentChars: env.cfg.MaxContentChars,
	}, testLogger())
	brand := NewBrandService(env.cfg, env.repos, env.client, fetcher, testLogger())

	bundle, err := brand.Analyze(context.Background(), "user_1",
		AnalyzeInput{WebsiteURL: "acme.example"}, nil)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	var req struct {
		Messages []ai.Message `json:"messages"`
	}
	if err := json.Unmarshal(gatewayBody, &req); err != nil {
		t.Fatalf("gateway request did not decode: %v", err)
	}
	prompt := req.Messages[1].Content
	if !strings.Contains(prompt, "Branding Metadata:") {
		t.Errorf("prompt missing branding hints:\n%s", prompt)
	}
	for _, hint := range []string{"logo: https://acme.example/logo.svg", "colors: #ff6600, #222222", "fonts: Inter"} {
		if !strings.Contains(prompt, hint) {
			t.Errorf("prompt missing hint %q", hint)
		}
	}

	if bundle.LogoURL == nil || *bundle.LogoURL != "https://acme.example/logo.svg" {
		t.Errorf("LogoURL = %v, want branding logo", bundle.LogoURL)
	}
}

func TestAnalyzeBrandNameMissing(t *testing.T) {
	env := setupTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(toolCallReply(`{"brand_name": "  ", "mission": "m"}`)))
	})

	_, err := env.brand.Analyze(context.Background(), "user_1",
		AnalyzeInput{WebsiteURL: "http://127.0.0.1:1"}, nil)
	if !errors.Is(err, ErrBrandNameMissing) {
		t.Fatalf("Analyze() error = %v, want ErrBrandNameMissing", err)
	}

	// Nothing may be persisted for a failed run.
	bundles, err := env.repos.BrandBundle.ListByUserID(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("ListByUserID() error = %v", err)
	}
	if len(bundles) != 0 {
		t.Errorf("bundles = %d after failed analysis, want 0", len(bundles))
	}
}

func TestAnalyzeGatewayRateLimited(t *testing.T) {
	env := setupTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	var lastStep models.RunStep
	_, err := env.brand.Analyze(context.Background(), "user_1",
		AnalyzeInput{WebsiteURL: "http://127.0.0.1:1"},
		func(p models.RunProgress) { lastStep = p.Step })
	if !errors.Is(err, ai.ErrRateLimited) {
		t.Fatalf("Analyze() error = %v, want ErrRateLimited", err)
	}
	if lastStep != models.StepError {
		t.Errorf("last step = %v, want error step", lastStep)
	}
}

func TestAnalyzeOnePerUser(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	var first sync.Once
	env := setupTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		first.Do(func() {
			close(started)
			<-release
		})
		_, _ = w.Write([]byte(toolCallReply(fullBundleArgs)))
	})

	done := make(chan error, 1)
	go func() {
		_, err := env.brand.Analyze(context.Background(), "user_1",
			AnalyzeInput{WebsiteURL: "http://127.0.0.1:1"}, nil)
		done <- err
	}()

	<-started

	// Second run for the same user is rejected while the first is inflight.
	_, err := env.brand.Analyze(context.Background(), "user_1",
		AnalyzeInput{WebsiteURL: "http://127.0.0.1:1"}, nil)
	if !errors.Is(err, ErrAnalysisInProgress) {
		t.Errorf("Analyze() error = %v, want ErrAnalysisInProgress", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Analyze() error = %v", err)
	}

	// The slot frees up once the first run completes.
	if _, err := env.brand.Analyze(context.Background(), "user_1",
		AnalyzeInput{WebsiteURL: "http://127.0.0.1:1"}, nil); err != nil {
		t.Errorf("Analyze() after completion error = %v", err)
	}
}

func TestBundleLifecycle(t *testing.T) {
	env := setupTestEnv(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx := context.Background()

	bundle := seedBundle(t, env.repos, "user_1")

	got, err := env.brand.GetBundle(ctx, "user_1", bundle.ID)
	if err != nil || got == nil {
		t.Fatalf("GetBundle() = %v, %v", got, err)
	}

	if _, err := env.brand.GetBundle(ctx, "user_2", bundle.ID); !errors.Is(err, ErrBundleNotFound) {
		t.Errorf("GetBundle() as other user = %v, want ErrBundleNotFound", err)
	}

	if err := env.brand.DeleteBundle(ctx, "user_2", bundle.ID); !errors.Is(err, ErrBundleNotFound) {
		t.Errorf("DeleteBundle() as other user = %v, want ErrBundleNotFound", err)
	}

	if err := env.brand.DeleteBundle(ctx, "user_1", bundle.ID); err != nil {
		t.Fatalf("DeleteBundle() error = %v", err)
	}

	list, err := env.brand.ListBundles(ctx, "user_1")
	if err != nil {
		t.Fatalf("ListBundles() error = %v", err)
	}
	if len(list) != 0 {
		t.Errorf("bundles = %d after delete, want 0", len(list))
	}
}
