package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/brandforge/brandforge-api/internal/models"
	"github.com/brandforge/brandforge-api/internal/service"
)

// BrandsHandler handles brand bundle endpoints.
type BrandsHandler struct {
	svc *service.BrandService
}

// NewBrandsHandler creates a new brands handler.
func NewBrandsHandler(svc *service.BrandService) *BrandsHandler {
	return &BrandsHandler{svc: svc}
}

// OfferingOutput represents one product or service in API responses.
type OfferingOutput struct {
	Name        string `json:"name" doc:"Offering name"`
	Description string `json:"description,omitempty" doc:"Offering description"`
}

// BrandBundleOutput represents a brand bundle in API responses.
type BrandBundleOutput struct {
	ID                  string           `json:"id" doc:"Bundle ID"`
	WebsiteURL          string           `json:"website_url" doc:"Analyzed website URL"`
	BrandName           string           `json:"brand_name" doc:"Brand name"`
	LogoURL             *string          `json:"logo_url,omitempty" doc:"Logo or social preview image URL"`
	Mission             string           `json:"mission,omitempty" doc:"Brand mission"`
	Vision              string           `json:"vision,omitempty" doc:"Brand vision"`
	BrandValues         []string         `json:"brand_values" doc:"Core brand values"`
	Tone                string           `json:"tone,omitempty" doc:"Voice tone"`
	Style               string           `json:"style,omitempty" doc:"Writing style"`
	Offerings           []OfferingOutput `json:"offerings" doc:"Products and services"`
	PrimaryAudience     string           `json:"primary_audience,omitempty" doc:"Primary target audience"`
	PainPoints          []string         `json:"pain_points" doc:"Audience pain points addressed"`
	Proof               []string         `json:"proof" doc:"Proof points and social proof"`
	CTALibrary          []string         `json:"cta_library" doc:"Reusable calls to action"`
	Keywords            []string         `json:"keywords" doc:"Keywords and hashtag seeds"`
	ConfidenceMission   *float64         `json:"confidence_mission,omitempty" doc:"Extraction confidence for mission (0-1)"`
	ConfidenceVoice     *float64         `json:"confidence_voice,omitempty" doc:"Extraction confidence for voice (0-1)"`
	ConfidenceOfferings *float64         `json:"confidence_offerings,omitempty" doc:"Extraction confidence for offerings (0-1)"`
	CreatedAt           string           `json:"created_at" doc:"Creation timestamp"`
}

// ProgressEventOutput is one pipeline progress update.
type ProgressEventOutput struct {
	Step     string `json:"step" doc:"Pipeline step"`
	Message  string `json:"message" doc:"Human-readable status"`
	Progress int    `json:"progress" doc:"Approximate completion percentage"`
}

// AnalyzeBrandInput represents the analyze request.
type AnalyzeBrandInput struct {
	Body struct {
		WebsiteURL string `json:"website_url" minLength:"1" doc:"Website URL to analyze (scheme optional)"`
	}
}

// AnalyzeBrandOutput represents the analyze response.
type AnalyzeBrandOutput struct {
	Body struct {
		Bundle   BrandBundleOutput     `json:"bundle" doc:"Created brand bundle"`
		Progress []ProgressEventOutput `json:"progress" doc:"Pipeline progress trace"`
	}
}

// AnalyzeBrand runs the full analysis pipeline and persists the bundle.
func (h *BrandsHandler) AnalyzeBrand(ctx context.Context, input *AnalyzeBrandInput) (*AnalyzeBrandOutput, error) {
	userID := getUserID(ctx)
	if userID == "" {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	var events []ProgressEventOutput
	bundle, err := h.svc.Analyze(ctx, userID,
		service.AnalyzeInput{WebsiteURL: input.Body.WebsiteURL},
		func(p models.RunProgress) {
			events = append(events, ProgressEventOutput{
				Step:     string(p.Step),
				Message:  p.Message,
				Progress: p.Progress,
			})
		})
	if err != nil {
		return nil, mapServiceError(err)
	}

	output := &AnalyzeBrandOutput{}
	output.Body.Bundle = bundleToOutput(bundle)
	output.Body.Progress = events
	return output, nil
}

// ListBrandBundlesOutput represents the list response.
type ListBrandBundlesOutput struct {
	Body struct {
		Bundles []BrandBundleOutput `json:"bundles" doc:"Brand bundles, newest first"`
	}
}

// ListBrandBundles returns the user's brand bundles.
func (h *BrandsHandler) ListBrandBundles(ctx context.Context, input *struct{}) (*ListBrandBundlesOutput, error) {
	userID := getUserID(ctx)
	if userID == "" {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	bundles, err := h.svc.ListBundles(ctx, userID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list bundles: " + err.Error())
	}

	output := &ListBrandBundlesOutput{}
	output.Body.Bundles = make([]BrandBundleOutput, 0, len(bundles))
	for _, b := range bundles {
		output.Body.Bundles = append(output.Body.Bundles, bundleToOutput(b))
	}
	return output, nil
}

// GetBrandBundleInput represents the get request.
type GetBrandBundleInput struct {
	ID string `path:"id" doc:"Bundle ID"`
}

// GetBrandBundleOutput represents the get response.
type GetBrandBundleOutput struct {
	Body BrandBundleOutput
}

// GetBrandBundle retrieves a single brand bundle.
func (h *BrandsHandler) GetBrandBundle(ctx context.Context, input *GetBrandBundleInput) (*GetBrandBundleOutput, error) {
	userID := getUserID(ctx)
	if userID == "" {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	bundle, err := h.svc.GetBundle(ctx, userID, input.ID)
	if err != nil {
		return nil, mapServiceError(err)
	}

	return &GetBrandBundleOutput{Body: bundleToOutput(bundle)}, nil
}

// DeleteBrandBundleInput represents the delete request.
type DeleteBrandBundleInput struct {
	ID string `path:"id" doc:"Bundle ID"`
}

// DeleteBrandBundleOutput represents the delete response.
type DeleteBrandBundleOutput struct {
	Body struct {
		Success bool `json:"success" doc:"Whether deletion was successful"`
	}
}

// DeleteBrandBundle deletes a brand bundle and its posts.
func (h *BrandsHandler) DeleteBrandBundle(ctx context.Context, input *DeleteBrandBundleInput) (*DeleteBrandBundleOutput, error) {
	userID := getUserID(ctx)
	if userID == "" {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	if err := h.svc.DeleteBundle(ctx, userID, input.ID); err != nil {
		return nil, mapServiceError(err)
	}

	output := &DeleteBrandBundleOutput{}
	output.Body.Success = true
	return output, nil
}

// bundleToOutput converts a model bundle to its API representation.
func bundleToOutput(b *models.BrandBundle) BrandBundleOutput {
	offerings := make([]OfferingOutput, 0, len(b.Offerings))
	for _, o := range b.Offerings {
		offerings = append(offerings, OfferingOutput{Name: o.Name, Description: o.Description})
	}

	return BrandBundleOutput{
		ID:                  b.ID,
		WebsiteURL:          b.WebsiteURL,
		BrandName:           b.BrandName,
		LogoURL:             b.LogoURL,
		Mission:             b.Mission,
		Vision:              b.Vision,
		BrandValues:         b.Values,
		Tone:                b.Tone,
		Style:               b.Style,
		Offerings:           offerings,
		PrimaryAudience:     b.PrimaryAudience,
		PainPoints:          b.PainPoints,
		Proof:               b.Proof,
		CTALibrary:          b.CTALibrary,
		Keywords:            b.Keywords,
		ConfidenceMission:   b.ConfidenceMission,
		ConfidenceVoice:     b.ConfidenceVoice,
		ConfidenceOfferings: b.ConfidenceOfferings,
		CreatedAt:           b.CreatedAt.Format(time.RFC3339),
	}
}
