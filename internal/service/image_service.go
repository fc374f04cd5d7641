package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/brandforge/brandforge-api/internal/ai"
	"github.com/brandforge/brandforge-api/internal/config"
	"github.com/brandforge/brandforge-api/internal/models"
	"github.com/brandforge/brandforge-api/internal/repository"
)

var (
	// ErrEmptyPrompt is returned when an image request has no message.
	ErrEmptyPrompt = errors.New("image prompt is required")

	// ErrInvalidAspectRatio is returned for an unsupported aspect ratio.
	ErrInvalidAspectRatio = errors.New("invalid aspect ratio")
)

// ImageService generates post images through the gateway's image models.
// Images are returned to the caller, not stored; the frontend decides what
// to keep.
type ImageService struct {
	cfg    *config.Config
	repos  *repository.Repositories
	client *ai.Client
	logger *slog.Logger
}

// NewImageService creates a new image service.
func NewImageService(cfg *config.Config, repos *repository.Repositories, client *ai.Client, logger *slog.Logger) *ImageService {
	return &ImageService{cfg: cfg, repos: repos, client: client, logger: logger}
}

// GenerateImageInput is the request for one image generation.
type GenerateImageInput struct {
	BrandBundleID string
	PostID        string
	Prompt        string
	Style         models.ImageStyle
	AspectRatio   models.AspectRatio
}

// GeneratedImage is the result of one image generation.
type GeneratedImage struct {
	ImageURL    string             `json:"image_url"`
	Prompt      string             `json:"prompt"`
	Style       models.ImageStyle  `json:"style"`
	AspectRatio models.AspectRatio `json:"aspect_ratio"`
	PostID      string             `json:"post_id,omitempty"`
}

// Generate produces an on-brand image for a bundle. Style defaults to
// professional and aspect ratio to square.
func (s *ImageService) Generate(ctx context.Context, userID string, input GenerateImageInput) (*GeneratedImage, error) {
	if strings.TrimSpace(input.Prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	if input.Style == "" {
		input.Style = models.StyleProfessional
	}
	if input.AspectRatio == "" {
		input.AspectRatio = models.AspectSquare
	}
	if !input.AspectRatio.Valid() {
		return nil, ErrInvalidAspectRatio
	}

	bundle, err := s.repos.BrandBundle.GetByIDForUser(ctx, input.BrandBundleID, userID)
	if err != nil {
		return nil, err
	}
	if bundle == nil {
		return nil, ErrBundleNotFound
	}

	s.logger.Info("generating image",
		"user_id", userID,
		"bundle_id", bundle.ID,
		"brand", bundle.BrandName,
		"style", input.Style,
	)

	prompt := buildImagePrompt(bundle, input.Prompt, input.Style, input.AspectRatio)

	url, err := s.client.GenerateImage(ctx, s.cfg.ImageModel, prompt,
		ai.CallOptions{Timeout: s.cfg.ImageTimeout})
	if err != nil {
		return nil, err
	}

	s.logger.Info("image generated", "user_id", userID, "bundle_id", bundle.ID)

	return &GeneratedImage{
		ImageURL:    url,
		Prompt:      input.Prompt,
		Style:       input.Style,
		AspectRatio: input.AspectRatio,
		PostID:      input.PostID,
	}, nil
}
