package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/brandforge/brandforge-api/internal/models"
	"github.com/brandforge/brandforge-api/internal/service"
)

// ImagesHandler handles image generation endpoints.
type ImagesHandler struct {
	svc *service.ImageService
}

// NewImagesHandler creates a new images handler.
func NewImagesHandler(svc *service.ImageService) *ImagesHandler {
	return &ImagesHandler{svc: svc}
}

// GenerateImageInput represents the image generation request.
type GenerateImageInput struct {
	Body struct {
		BrandBundleID string `json:"brand_bundle_id" minLength:"1" doc:"Bundle providing the visual identity"`
		PostID        string `json:"post_id,omitempty" doc:"Post the image accompanies"`
		Prompt        string `json:"prompt" minLength:"1" doc:"Message or content the image should convey"`
		Style         string `json:"style,omitempty" enum:"minimal,bold,professional,creative,tech" doc:"Visual style preset (default professional)"`
		AspectRatio   string `json:"aspect_ratio,omitempty" enum:"1:1,16:9,9:16,4:5" doc:"Aspect ratio (default 1:1)"`
	}
}

// GenerateImageOutput represents the image generation response.
// The image is returned, not stored; the client decides what to keep.
type GenerateImageOutput struct {
	Body struct {
		ImageURL    string `json:"image_url" doc:"Generated image URL (typically a data URL)"`
		Prompt      string `json:"prompt" doc:"Prompt the image was generated from"`
		Style       string `json:"style" doc:"Applied style preset"`
		AspectRatio string `json:"aspect_ratio" doc:"Applied aspect ratio"`
		PostID      string `json:"post_id,omitempty" doc:"Associated post ID"`
	}
}

// GenerateImage produces an on-brand image for a bundle.
func (h *ImagesHandler) GenerateImage(ctx context.Context, input *GenerateImageInput) (*GenerateImageOutput, error) {
	userID := getUserID(ctx)
	if userID == "" {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	img, err := h.svc.Generate(ctx, userID, service.GenerateImageInput{
		BrandBundleID: input.Body.BrandBundleID,
		PostID:        input.Body.PostID,
		Prompt:        input.Body.Prompt,
		Style:         models.ImageStyle(input.Body.Style),
		AspectRatio:   models.AspectRatio(input.Body.AspectRatio),
	})
	if err != nil {
		return nil, mapServiceError(err)
	}

	output := &GenerateImageOutput{}
	output.Body.ImageURL = img.ImageURL
	output.Body.Prompt = img.Prompt
	output.Body.Style = string(img.Style)
	output.Body.AspectRatio = string(img.AspectRatio)
	output.Body.PostID = img.PostID
	return output, nil
}
