package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/brandforge/brandforge-api/internal/models"
)

func imageReply(url string) string {
	return `{"choices":[{"message":{"content":"here you go","images":[{"image_url":{"url":"` + url + `"}}]}}]}`
}

func TestGenerateImage(t *testing.T) {
	var gatewayBody []byte
	env := setupTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		gatewayBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(imageReply("https://cdn.example/img.png")))
	})
	bundle := seedBundle(t, env.repos, "user_1")

	img, err := env.image.Generate(context.Background(), "user_1", GenerateImageInput{
		BrandBundleID: bundle.ID,
		PostID:        "post_123",
		Prompt:        "Announcing our new rocket skates",
		Style:         models.StyleBold,
		AspectRatio:   models.AspectLandscape,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if img.ImageURL != "https://cdn.example/img.png" {
		t.Errorf("ImageURL = %q", img.ImageURL)
	}
	if img.Style != models.StyleBold || img.AspectRatio != models.AspectLandscape {
		t.Errorf("echo fields = %q/%q", img.Style, img.AspectRatio)
	}
	if img.PostID != "post_123" {
		t.Errorf("PostID = %q", img.PostID)
	}

	// Prompt must carry the brand, the message, the style treatment and the
	// requested aspect ratio.
	body := string(gatewayBody)
	for _, want := range []string{
		"Acme",
		"Announcing our new rocket skates",
		models.StylePrompts[models.StyleBold],
		"16:9 aspect ratio",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("gateway request missing %q", want)
		}
	}

	// Image generation goes through the image model with image modality.
	if !strings.Contains(body, `"test/image-model"`) {
		t.Error("gateway request should target the image model")
	}
	if !strings.Contains(body, `"modalities"`) {
		t.Error("gateway request should ask for image modality")
	}
}

func TestGenerateImageDefaults(t *testing.T) {
	var gatewayBody []byte
	env := setupTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		gatewayBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(imageReply("https://cdn.example/img.png")))
	})
	bundle := seedBundle(t, env.repos, "user_1")

	img, err := env.image.Generate(context.Background(), "user_1", GenerateImageInput{
		BrandBundleID: bundle.ID,
		Prompt:        "A quiet launch",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if img.Style != models.StyleProfessional {
		t.Errorf("Style = %q, want professional default", img.Style)
	}
	if img.AspectRatio != models.AspectSquare {
		t.Errorf("AspectRatio = %q, want square default", img.AspectRatio)
	}
	if !strings.Contains(string(gatewayBody), "1:1 aspect ratio") {
		t.Error("prompt should carry the default aspect ratio")
	}
}

func TestGenerateImageValidation(t *testing.T) {
	env := setupTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("gateway should not be called")
	})
	bundle := seedBundle(t, env.repos, "user_1")
	ctx := context.Background()

	if _, err := env.image.Generate(ctx, "user_1", GenerateImageInput{
		BrandBundleID: bundle.ID, Prompt: "   ",
	}); !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("empty prompt error = %v, want ErrEmptyPrompt", err)
	}

	if _, err := env.image.Generate(ctx, "user_1", GenerateImageInput{
		BrandBundleID: bundle.ID, Prompt: "hi", AspectRatio: "21:9",
	}); !errors.Is(err, ErrInvalidAspectRatio) {
		t.Errorf("bad aspect error = %v, want ErrInvalidAspectRatio", err)
	}

	if _, err := env.image.Generate(ctx, "user_2", GenerateImageInput{
		BrandBundleID: bundle.ID, Prompt: "hi",
	}); !errors.Is(err, ErrBundleNotFound) {
		t.Errorf("other user's bundle error = %v, want ErrBundleNotFound", err)
	}
}
