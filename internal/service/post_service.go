package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/brandforge/brandforge-api/internal/ai"
	"github.com/brandforge/brandforge-api/internal/config"
	"github.com/brandforge/brandforge-api/internal/models"
	"github.com/brandforge/brandforge-api/internal/repository"
)

var (
	// ErrInvalidPlatform is returned for an unsupported platform value.
	ErrInvalidPlatform = errors.New("invalid platform")

	// ErrInvalidMethod is returned for an unsupported generation method.
	ErrInvalidMethod = errors.New("invalid method")

	// ErrEmptyContent is returned when a manual post has no content.
	ErrEmptyContent = errors.New("post content is required")

	// ErrPostNotFound is returned when a post does not exist or belongs to
	// another user.
	ErrPostNotFound = errors.New("post not found")
)

// maxVariants caps one generation request. Variants run sequentially; the
// cap keeps a single request from monopolizing gateway quota.
const maxVariants = 3

// PostService generates and manages social media posts.
type PostService struct {
	cfg    *config.Config
	repos  *repository.Repositories
	client *ai.Client
	logger *slog.Logger
}

// NewPostService creates a new post service.
func NewPostService(cfg *config.Config, repos *repository.Repositories, client *ai.Client, logger *slog.Logger) *PostService {
	return &PostService{cfg: cfg, repos: repos, client: client, logger: logger}
}

// GenerateInput is the request for AI post generation.
type GenerateInput struct {
	BrandBundleID string
	Platform      models.Platform
	Method        models.PostMethod
	Topic         string
	Goal          string
	CTA           string
	ToneOverride  string
	Variants      int
}

// postCandidate mirrors the create_post tool arguments.
type postCandidate struct {
	Content  string   `json:"content"`
	Topic    string   `json:"topic"`
	Angle    string   `json:"angle"`
	Hashtags []string `json:"hashtags"`
}

// Generate produces variants for one request, persisting each as it lands.
// Variants run sequentially and generation stops at the first failure: posts
// already saved are returned alongside the error so callers can surface a
// partial result.
func (s *PostService) Generate(ctx context.Context, userID string, input GenerateInput) ([]*models.GeneratedPost, error) {
	if !input.Platform.Valid() {
		return nil, ErrInvalidPlatform
	}
	if !input.Method.Valid() {
		return nil, ErrInvalidMethod
	}

	bundle, err := s.repos.BrandBundle.GetByIDForUser(ctx, input.BrandBundleID, userID)
	if err != nil {
		return nil, err
	}
	if bundle == nil {
		return nil, ErrBundleNotFound
	}

	count := input.Variants
	if count < 1 {
		count = 1
	}
	if count > maxVariants {
		count = maxVariants
	}

	s.logger.Info("generating posts",
		"user_id", userID,
		"bundle_id", bundle.ID,
		"brand", bundle.BrandName,
		"platform", input.Platform,
		"method", input.Method,
		"variants", count,
	)

	posts := make([]*models.GeneratedPost, 0, count)
	for i := 0; i < count; i++ {
		post, err := s.generateOne(ctx, userID, bundle, input)
		if err != nil {
			return posts, err
		}
		posts = append(posts, post)
	}

	return posts, nil
}

// generateOne makes a single gateway call and persists the resulting post.
func (s *PostService) generateOne(ctx context.Context, userID string, bundle *models.BrandBundle, input GenerateInput) (*models.GeneratedPost, error) {
	userPrompt := buildPostUserPrompt(bundle, input.Platform, input.Method,
		input.Topic, input.Goal, input.CTA, input.ToneOverride)

	args, err := s.client.CallTool(ctx, s.cfg.TextModel,
		[]ai.Message{
			{Role: "system", Content: postSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		ai.PostTool,
		ai.CallOptions{Timeout: s.cfg.TextTimeout},
	)
	if err != nil {
		return nil, err
	}

	var candidate postCandidate
	if err := json.Unmarshal(args, &candidate); err != nil {
		return nil, ai.NewMalformedResponseError(s.cfg.TextModel, err.Error())
	}
	if strings.TrimSpace(candidate.Content) == "" {
		return nil, ai.NewMalformedResponseError(s.cfg.TextModel, "generated post has no content")
	}

	post := &models.GeneratedPost{
		UserID:        userID,
		BrandBundleID: bundle.ID,
		Method:        input.Method,
		Platform:      input.Platform,
		Content:       candidate.Content,
		Topic:         candidate.Topic,
		Angle:         candidate.Angle,
		Hashtags:      cleanList(candidate.Hashtags),
		Goal:          input.Goal,
		CTA:           input.CTA,
	}

	if err := s.repos.GeneratedPost.Create(ctx, post); err != nil {
		s.logger.Error("failed to save generated post", "user_id", userID, "error", err)
		return nil, err
	}

	s.logger.Info("post generated", "user_id", userID, "post_id", post.ID)
	return post, nil
}

// ManualPostInput is a user-written post to store alongside generated ones.
type ManualPostInput struct {
	BrandBundleID string
	Platform      models.Platform
	Content       string
	Topic         string
	Goal          string
	CTA           string
	Hashtags      []string
}

// SaveManual stores a manually written post. Manual posts record the coop
// method with the custom angle so they are distinguishable in listings.
func (s *PostService) SaveManual(ctx context.Context, userID string, input ManualPostInput) (*models.GeneratedPost, error) {
	if !input.Platform.Valid() {
		return nil, ErrInvalidPlatform
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, ErrEmptyContent
	}

	bundle, err := s.repos.BrandBundle.GetByIDForUser(ctx, input.BrandBundleID, userID)
	if err != nil {
		return nil, err
	}
	if bundle == nil {
		return nil, ErrBundleNotFound
	}

	post := &models.GeneratedPost{
		UserID:        userID,
		BrandBundleID: bundle.ID,
		Method:        models.MethodCoop,
		Platform:      input.Platform,
		Content:       input.Content,
		Topic:         strings.TrimSpace(input.Topic),
		Angle:         models.AngleCustom,
		Hashtags:      cleanList(input.Hashtags),
		Goal:          strings.TrimSpace(input.Goal),
		CTA:           strings.TrimSpace(input.CTA),
	}

	if err := s.repos.GeneratedPost.Create(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("manual post saved", "user_id", userID, "post_id", post.ID)
	return post, nil
}

// List returns the user's posts, optionally scoped to one bundle.
func (s *PostService) List(ctx context.Context, userID, brandBundleID string) ([]*models.GeneratedPost, error) {
	if brandBundleID != "" {
		return s.repos.GeneratedPost.ListByBrandBundle(ctx, userID, brandBundleID)
	}
	return s.repos.GeneratedPost.ListByUserID(ctx, userID)
}

// Delete removes a post owned by the user.
func (s *PostService) Delete(ctx context.Context, userID, postID string) error {
	deleted, err := s.repos.GeneratedPost.DeleteByIDForUser(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPostNotFound
	}
	s.logger.Info("post deleted", "user_id", userID, "post_id", postID)
	return nil
}
