package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/brandforge/brandforge-api/internal/ai"
	"github.com/brandforge/brandforge-api/internal/config"
	"github.com/brandforge/brandforge-api/internal/models"
	"github.com/brandforge/brandforge-api/internal/repository"
	"github.com/brandforge/brandforge-api/internal/scrape"
)

var (
	// ErrInvalidURL is returned when the analyze request has no usable URL.
	ErrInvalidURL = errors.New("website URL is required")

	// ErrAnalysisInProgress is returned when the user already has a running
	// analysis. One pipeline per user at a time.
	ErrAnalysisInProgress = errors.New("an analysis is already running for this user")

	// ErrBrandNameMissing is returned when extraction produced no brand name.
	// A bundle without a name is not persisted.
	ErrBrandNameMissing = errors.New("could not determine a brand name from the website")

	// ErrBundleNotFound is returned when a bundle does not exist or belongs
	// to another user. Callers cannot tell the two apart.
	ErrBundleNotFound = errors.New("brand bundle not found")
)

// ProgressFunc receives pipeline progress updates. Progress is ephemeral
// caller feedback; it is never persisted.
type ProgressFunc func(models.RunProgress)

// BrandService runs the website analysis pipeline and manages brand bundles.
type BrandService struct {
	cfg     *config.Config
	repos   *repository.Repositories
	client  *ai.Client
	fetcher *scrape.Fetcher
	logger  *slog.Logger

	// inflight tracks users with a running analysis.
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewBrandService creates a new brand service.
func NewBrandService(cfg *config.Config, repos *repository.Repositories, client *ai.Client, fetcher *scrape.Fetcher, logger *slog.Logger) *BrandService {
	return &BrandService{
		cfg:      cfg,
		repos:    repos,
		client:   client,
		fetcher:  fetcher,
		logger:   logger,
		inflight: make(map[string]struct{}),
	}
}

// AnalyzeInput is the request for one analysis pipeline run.
type AnalyzeInput struct {
	WebsiteURL string
}

// brandCandidate mirrors the create_brand_bundle tool arguments. Confidence
// fields stay pointers so an unscored pillar survives as nil.
type brandCandidate struct {
	BrandName           string            `json:"brand_name"`
	Mission             string            `json:"mission"`
	Vision              string            `json:"vision"`
	BrandValues         []string          `json:"brand_values"`
	Tone                string            `json:"tone"`
	Style               string            `json:"style"`
	Offerings           []models.Offering `json:"offerings"`
	PrimaryAudience     string            `json:"primary_audience"`
	PainPoints          []string          `json:"pain_points"`
	Proof               []string          `json:"proof"`
	CTALibrary          []string          `json:"cta_library"`
	Keywords            []string          `json:"keywords"`
	ConfidenceMission   *float64          `json:"confidence_mission"`
	ConfidenceVoice     *float64          `json:"confidence_voice"`
	ConfidenceOfferings *float64          `json:"confidence_offerings"`
}

// Analyze runs the full pipeline: fetch, extract, normalize, persist.
// The bundle is written only after normalization passes; a failed run leaves
// no partial rows behind. progress may be nil.
func (s *BrandService) Analyze(ctx context.Context, userID string, input AnalyzeInput, progress ProgressFunc) (*models.BrandBundle, error) {
	if strings.TrimSpace(input.WebsiteURL) == "" {
		return nil, ErrInvalidURL
	}

	if !s.acquire(userID) {
		return nil, ErrAnalysisInProgress
	}
	defer s.release(userID)

	report := func(step models.RunStep, message string, pct int) {
		if progress != nil {
			progress(models.RunProgress{Step: step, Message: message, Progress: pct})
		}
	}

	report(models.StepFetching, "Fetching website content", 10)

	page := s.fetcher.Fetch(ctx, input.WebsiteURL)

	s.logger.Info("analyzing brand",
		"user_id", userID,
		"url", page.URL,
		"content_length", len(page.Text),
		"content_unavailable", page.Unavailable,
	)

	report(models.StepExtracting, "Extracting brand information", 40)

	args, err := s.client.CallTool(ctx, s.cfg.TextModel,
		[]ai.Message{
			{Role: "system", Content: brandSystemPrompt},
			{Role: "user", Content: buildBrandUserPrompt(page.URL, page.Text, page.Branding)},
		},
		ai.BrandBundleTool,
		ai.CallOptions{Timeout: s.cfg.TextTimeout},
	)
	if err != nil {
		report(models.StepError, ai.GetUserMessage(err), 0)
		return nil, err
	}

	report(models.StepNormalizing, "Normalizing extracted fields", 70)

	var candidate brandCandidate
	if err := json.Unmarshal(args, &candidate); err != nil {
		aiErr := ai.NewMalformedResponseError(s.cfg.TextModel, err.Error())
		report(models.StepError, aiErr.UserMessage, 0)
		return nil, aiErr
	}

	bundle, err := s.normalizeCandidate(userID, page, &candidate)
	if err != nil {
		report(models.StepError, err.Error(), 0)
		return nil, err
	}

	report(models.StepPersisting, "Saving brand bundle", 90)

	if err := s.repos.BrandBundle.Create(ctx, bundle); err != nil {
		s.logger.Error("failed to save brand bundle", "user_id", userID, "error", err)
		report(models.StepError, "Failed to save brand bundle", 0)
		return nil, err
	}

	s.logger.Info("brand bundle created", "user_id", userID, "bundle_id", bundle.ID)
	report(models.StepComplete, "Analysis complete", 100)

	return bundle, nil
}

// normalizeCandidate validates and cleans the extraction before persistence.
// Brand name is the only hard requirement; everything else degrades to empty.
func (s *BrandService) normalizeCandidate(userID string, page scrape.Content, c *brandCandidate) (*models.BrandBundle, error) {
	name := strings.TrimSpace(c.BrandName)
	if name == "" {
		return nil, ErrBrandNameMissing
	}

	return &models.BrandBundle{
		UserID:              userID,
		WebsiteURL:          page.URL,
		BrandName:           name,
		LogoURL:             page.LogoURL,
		Mission:             strings.TrimSpace(c.Mission),
		Vision:              strings.TrimSpace(c.Vision),
		Values:              cleanList(c.BrandValues),
		Tone:                strings.TrimSpace(c.Tone),
		Style:               strings.TrimSpace(c.Style),
		Offerings:           cleanOfferings(c.Offerings),
		PrimaryAudience:     strings.TrimSpace(c.PrimaryAudience),
		PainPoints:          cleanList(c.PainPoints),
		Proof:               cleanList(c.Proof),
		CTALibrary:          cleanList(c.CTALibrary),
		Keywords:            cleanList(c.Keywords),
		ConfidenceMission:   clampConfidence(c.ConfidenceMission),
		ConfidenceVoice:     clampConfidence(c.ConfidenceVoice),
		ConfidenceOfferings: clampConfidence(c.ConfidenceOfferings),
	}, nil
}

// ListBundles returns the user's bundles, newest first.
func (s *BrandService) ListBundles(ctx context.Context, userID string) ([]*models.BrandBundle, error) {
	return s.repos.BrandBundle.ListByUserID(ctx, userID)
}

// GetBundle returns one bundle owned by the user.
func (s *BrandService) GetBundle(ctx context.Context, userID, bundleID string) (*models.BrandBundle, error) {
	bundle, err := s.repos.BrandBundle.GetByIDForUser(ctx, bundleID, userID)
	if err != nil {
		return nil, err
	}
	if bundle == nil {
		return nil, ErrBundleNotFound
	}
	return bundle, nil
}

// DeleteBundle removes a bundle owned by the user. Its posts go with it.
func (s *BrandService) DeleteBundle(ctx context.Context, userID, bundleID string) error {
	deleted, err := s.repos.BrandBundle.DeleteByIDForUser(ctx, bundleID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrBundleNotFound
	}
	s.logger.Info("brand bundle deleted", "user_id", userID, "bundle_id", bundleID)
	return nil
}

func (s *BrandService) acquire(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[userID]; busy {
		return false
	}
	s.inflight[userID] = struct{}{}
	return true
}

func (s *BrandService) release(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, userID)
}

// cleanList trims entries and drops empties, never returning nil.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func cleanOfferings(offerings []models.Offering) []models.Offering {
	out := make([]models.Offering, 0, len(offerings))
	for _, o := range offerings {
		name := strings.TrimSpace(o.Name)
		if name == "" {
			continue
		}
		out = append(out, models.Offering{
			Name:        name,
			Description: strings.TrimSpace(o.Description),
		})
	}
	return out
}

// clampConfidence keeps scores inside [0,1]; nil stays nil.
func clampConfidence(v *float64) *float64 {
	if v == nil {
		return nil
	}
	score := *v
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return &score
}
