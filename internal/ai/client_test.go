package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newToolServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", nil)
}

func TestCallToolParsesArguments(t *testing.T) {
	var gotReq map[string]any
	client := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotReq)

		_, _ = w.Write([]byte(`{
			"choices": [{
				"message": {
					"tool_calls": [{
						"function": {
							"name": "create_post",
							"arguments": "{\"content\":\"hello\",\"topic\":\"t\",\"angle\":\"education\",\"hashtags\":[\"x\"]}"
						}
					}]
				}
			}]
		}`))
	})

	args, err := client.CallTool(context.Background(), "test/model",
		[]Message{{Role: "user", Content: "write a post"}}, PostTool, CallOptions{})
	if err != nil {
		t.Fatalf("CallTool() error = %v", err)
	}

	var decoded struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(args, &decoded); err != nil {
		t.Fatalf("arguments did not decode: %v", err)
	}
	if decoded.Content != "hello" {
		t.Errorf("content = %q, want hello", decoded.Content)
	}

	// The tool must be forced, not offered.
	toolChoice, ok := gotReq["tool_choice"].(map[string]any)
	if !ok {
		t.Fatal("request missing tool_choice")
	}
	fn, _ := toolChoice["function"].(map[string]any)
	if fn["name"] != "create_post" {
		t.Errorf("tool_choice function = %v, want create_post", fn["name"])
	}
}

func TestCallToolNoToolCall(t *testing.T) {
	client := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "plain text reply"}}]}`))
	})

	_, err := client.CallTool(context.Background(), "test/model",
		[]Message{{Role: "user", Content: "x"}}, PostTool, CallOptions{})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("CallTool() error = %v, want ErrMalformedResponse", err)
	}
}

func TestCallToolInvalidArgumentsJSON(t *testing.T) {
	client := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"tool_calls": [{"function": {"name": "create_post", "arguments": "{broken"}}]}}]
		}`))
	})

	_, err := client.CallTool(context.Background(), "test/model",
		[]Message{{Role: "user", Content: "x"}}, PostTool, CallOptions{})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("CallTool() error = %v, want ErrMalformedResponse", err)
	}
}

func TestCallToolRateLimited(t *testing.T) {
	client := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "slow down"}`))
	})

	_, err := client.CallTool(context.Background(), "test/model",
		[]Message{{Role: "user", Content: "x"}}, PostTool, CallOptions{})
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("CallTool() error = %v, want ErrRateLimited", err)
	}
	if got := GetUserMessage(err); got != "Rate limit exceeded. Please try again later." {
		t.Errorf("GetUserMessage() = %q", got)
	}
}

func TestCallToolTransportError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "test-key", nil)

	_, err := client.CallTool(context.Background(), "test/model",
		[]Message{{Role: "user", Content: "x"}}, PostTool, CallOptions{})
	if !errors.Is(err, ErrTransport) {
		t.Errorf("CallTool() error = %v, want ErrTransport", err)
	}
}

func TestGenerateImage(t *testing.T) {
	var gotReq map[string]any
	client := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_, _ = w.Write([]byte(`{
			"choices": [{
				"message": {
					"images": [{"image_url": {"url": "data:image/png;base64,abc123"}}]
				}
			}]
		}`))
	})

	url, err := client.GenerateImage(context.Background(), "test/image-model", "a red square", CallOptions{})
	if err != nil {
		t.Fatalf("GenerateImage() error = %v", err)
	}
	if url != "data:image/png;base64,abc123" {
		t.Errorf("url = %q", url)
	}

	modalities, _ := gotReq["modalities"].([]any)
	if len(modalities) != 2 || modalities[0] != "image" {
		t.Errorf("modalities = %v, want [image text]", modalities)
	}
}

func TestGenerateImageNoImage(t *testing.T) {
	client := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "cannot draw that"}}]}`))
	})

	_, err := client.GenerateImage(context.Background(), "test/image-model", "x", CallOptions{})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("GenerateImage() error = %v, want ErrMalformedResponse", err)
	}
}
