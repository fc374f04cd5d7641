package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/brandforge/brandforge-api/internal/models"
	"github.com/brandforge/brandforge-api/internal/service"
)

// PostsHandler handles generated post endpoints.
type PostsHandler struct {
	svc *service.PostService
}

// NewPostsHandler creates a new posts handler.
func NewPostsHandler(svc *service.PostService) *PostsHandler {
	return &PostsHandler{svc: svc}
}

// GeneratedPostOutput represents a post in API responses.
type GeneratedPostOutput struct {
	ID            string   `json:"id" doc:"Post ID"`
	BrandBundleID string   `json:"brand_bundle_id" doc:"Owning bundle ID"`
	Method        string   `json:"method" doc:"Generation method: coop or full_ai"`
	Platform      string   `json:"platform" doc:"Target platform"`
	Content       string   `json:"content" doc:"Post text"`
	Topic         string   `json:"topic,omitempty" doc:"Post topic"`
	Angle         string   `json:"angle,omitempty" doc:"Content angle"`
	Hashtags      []string `json:"hashtags" doc:"Hashtags"`
	Goal          string   `json:"goal,omitempty" doc:"Post goal"`
	CTA           string   `json:"cta,omitempty" doc:"Call to action"`
	CreatedAt     string   `json:"created_at" doc:"Creation timestamp"`
}

// GeneratePostsInput represents the generation request.
type GeneratePostsInput struct {
	Body struct {
		BrandBundleID string `json:"brand_bundle_id" minLength:"1" doc:"Bundle to generate for"`
		Platform      string `json:"platform" enum:"linkedin,twitter,instagram,facebook" doc:"Target platform"`
		Method        string `json:"method" enum:"coop,full_ai" doc:"Generation method"`
		Topic         string `json:"topic,omitempty" doc:"Topic hint (coop mode)"`
		Goal          string `json:"goal,omitempty" doc:"Goal hint (coop mode)"`
		CTA           string `json:"cta,omitempty" doc:"Call-to-action hint (coop mode)"`
		ToneOverride  string `json:"tone_override,omitempty" doc:"One-off voice tone override"`
		Variants      int    `json:"variants,omitempty" minimum:"1" maximum:"3" doc:"Number of variants (max 3)"`
	}
}

// GeneratePostsOutput represents the generation response.
type GeneratePostsOutput struct {
	Body struct {
		Posts []GeneratedPostOutput `json:"posts" doc:"Generated posts"`
	}
}

// GeneratePosts generates posts for a brand bundle.
func (h *PostsHandler) GeneratePosts(ctx context.Context, input *GeneratePostsInput) (*GeneratePostsOutput, error) {
	userID := getUserID(ctx)
	if userID == "" {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	posts, err := h.svc.Generate(ctx, userID, service.GenerateInput{
		BrandBundleID: input.Body.BrandBundleID,
		Platform:      models.Platform(input.Body.Platform),
		Method:        models.PostMethod(input.Body.Method),
		Topic:         input.Body.Topic,
		Goal:          input.Body.Goal,
		CTA:           input.Body.CTA,
		ToneOverride:  input.Body.ToneOverride,
		Variants:      input.Body.Variants,
	})
	// Posts saved before a mid-batch failure are lost to the caller if we
	// return the error alone, so a partial batch wins over the error.
	if err != nil && len(posts) == 0 {
		return nil, mapServiceError(err)
	}

	output := &GeneratePostsOutput{}
	output.Body.Posts = postsToOutput(posts)
	return output, nil
}

// CreateManualPostInput represents the manual post request.
type CreateManualPostInput struct {
	Body struct {
		BrandBundleID string   `json:"brand_bundle_id" minLength:"1" doc:"Bundle the post belongs to"`
		Platform      string   `json:"platform" enum:"linkedin,twitter,instagram,facebook" doc:"Target platform"`
		Content       string   `json:"content" minLength:"1" doc:"Post text"`
		Topic         string   `json:"topic,omitempty" doc:"Post topic"`
		Goal          string   `json:"goal,omitempty" doc:"Post goal"`
		CTA           string   `json:"cta,omitempty" doc:"Call to action"`
		Hashtags      []string `json:"hashtags,omitempty" doc:"Hashtags"`
	}
}

// CreateManualPostOutput represents the manual post response.
type CreateManualPostOutput struct {
	Body GeneratedPostOutput
}

// CreateManualPost stores a user-written post.
func (h *PostsHandler) CreateManualPost(ctx context.Context, input *CreateManualPostInput) (*CreateManualPostOutput, error) {
	userID := getUserID(ctx)
	if userID == "" {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	post, err := h.svc.SaveManual(ctx, userID, service.ManualPostInput{
		BrandBundleID: input.Body.BrandBundleID,
		Platform:      models.Platform(input.Body.Platform),
		Content:       input.Body.Content,
		Topic:         input.Body.Topic,
		Goal:          input.Body.Goal,
		CTA:           input.Body.CTA,
		Hashtags:      input.Body.Hashtags,
	})
	if err != nil {
		return nil, mapServiceError(err)
	}

	return &CreateManualPostOutput{Body: postToOutput(post)}, nil
}

// ListPostsInput represents the list request.
type ListPostsInput struct {
	BrandBundleID string `query:"brand_bundle_id" doc:"Filter by bundle ID"`
}

// ListPostsOutput represents the list response.
type ListPostsOutput struct {
	Body struct {
		Posts []GeneratedPostOutput `json:"posts" doc:"Posts, newest first"`
	}
}

// ListPosts returns the user's posts, optionally scoped to one bundle.
func (h *PostsHandler) ListPosts(ctx context.Context, input *ListPostsInput) (*ListPostsOutput, error) {
	userID := getUserID(ctx)
	if userID == "" {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	posts, err := h.svc.List(ctx, userID, input.BrandBundleID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list posts: " + err.Error())
	}

	output := &ListPostsOutput{}
	output.Body.Posts = postsToOutput(posts)
	return output, nil
}

// DeletePostInput represents the delete request.
type DeletePostInput struct {
	ID string `path:"id" doc:"Post ID"`
}

// DeletePostOutput represents the delete response.
type DeletePostOutput struct {
	Body struct {
		Success bool `json:"success" doc:"Whether deletion was successful"`
	}
}

// DeletePost deletes a post owned by the user.
func (h *PostsHandler) DeletePost(ctx context.Context, input *DeletePostInput) (*DeletePostOutput, error) {
	userID := getUserID(ctx)
	if userID == "" {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	if err := h.svc.Delete(ctx, userID, input.ID); err != nil {
		return nil, mapServiceError(err)
	}

	output := &DeletePostOutput{}
	output.Body.Success = true
	return output, nil
}

func postToOutput(p *models.GeneratedPost) GeneratedPostOutput {
	hashtags := p.Hashtags
	if hashtags == nil {
		hashtags = []string{}
	}
	return GeneratedPostOutput{
		ID:            p.ID,
		BrandBundleID: p.BrandBundleID,
		Method:        string(p.Method),
		Platform:      string(p.Platform),
		Content:       p.Content,
		Topic:         p.Topic,
		Angle:         p.Angle,
		Hashtags:      hashtags,
		Goal:          p.Goal,
		CTA:           p.CTA,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}

func postsToOutput(posts []*models.GeneratedPost) []GeneratedPostOutput {
	out := make([]GeneratedPostOutput, 0, len(posts))
	for _, p := range posts {
		out = append(out, postToOutput(p))
	}
	return out
}
