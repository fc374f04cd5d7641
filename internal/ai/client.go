package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// CallOptions configures a gateway call.
type CallOptions struct {
	Timeout time.Duration // Default: 60s
}

// Client makes OpenAI-compatible chat completion calls against the AI gateway.
// Structured output goes through forced function calling rather than
// response_format, so it works across gateway-routed models.
type Client struct {
	baseURL    string
	apiKey     string
	logger     *slog.Logger
	httpClient *http.Client
}

// NewClient creates a new gateway client.
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		logger:  logger,
		// Per-call deadlines come from the request context.
		httpClient: &http.Client{},
	}
}

// Message is one chat message sent to the gateway.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CallTool sends the messages with a single forced tool and returns the raw
// JSON arguments of the tool call. The caller decodes them against its own
// expectations; a reply without a tool call is a malformed response.
func (c *Client) CallTool(ctx context.Context, model string, messages []Message, tool ToolSchema, opts CallOptions) (json.RawMessage, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	reqBody := map[string]any{
		"model":    model,
		"messages": messages,
		"tools": []map[string]any{
			{
				"type": "function",
				"function": map[string]any{
					"name":        tool.Name,
					"description": tool.Description,
					"parameters":  tool.Parameters,
				},
			},
		},
		"tool_choice": map[string]any{
			"type":     "function",
			"function": map[string]any{"name": tool.Name},
		},
	}

	body, err := c.post(ctx, model, reqBody)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Choices []struct {
			Message struct {
				ToolCalls []struct {
					Function struct {
						Name      string `json:"name"`
						Arguments string `json:"arguments"`
					} `json:"function"`
				} `json:"tool_calls"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, NewMalformedResponseError(model, err.Error())
	}

	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.ToolCalls) == 0 {
		return nil, NewMalformedResponseError(model, "no tool call in reply")
	}

	args := resp.Choices[0].Message.ToolCalls[0].Function.Arguments
	if args == "" {
		return nil, NewMalformedResponseError(model, "empty tool call arguments")
	}
	if !json.Valid([]byte(args)) {
		return nil, NewMalformedResponseError(model, "tool call arguments are not valid JSON")
	}

	return json.RawMessage(args), nil
}

// GenerateImage asks an image-capable model for a picture and returns the
// image URL from the reply (typically a data URL).
func (c *Client) GenerateImage(ctx context.Context, model, prompt string, opts CallOptions) (string, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 120 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	reqBody := map[string]any{
		"model": model,
		"messages": []Message{
			{Role: "user", Content: prompt},
		},
		"modalities": []string{"image", "text"},
	}

	body, err := c.post(ctx, model, reqBody)
	if err != nil {
		return "", err
	}

	var resp struct {
		Choices []struct {
			Message struct {
				Images []struct {
					ImageURL struct {
						URL string `json:"url"`
					} `json:"image_url"`
				} `json:"images"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", NewMalformedResponseError(model, err.Error())
	}

	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.Images) == 0 {
		return "", NewMalformedResponseError(model, "no image in reply")
	}

	url := resp.Choices[0].Message.Images[0].ImageURL.URL
	if url == "" {
		return "", NewMalformedResponseError(model, "empty image URL in reply")
	}

	return url, nil
}

// post sends one chat completion request and returns the raw success body.
// Failures come back already classified.
func (c *Client) post(ctx context.Context, model string, reqBody map[string]any) ([]byte, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"

	if c.logger != nil {
		c.logger.Debug("making AI gateway request",
			"model", model,
			"url", url,
			"request_length", len(jsonBody),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("AI gateway request failed", "model", model, "error", err)
		}
		return nil, NewTransportError(err, model)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewTransportError(err, model)
	}

	if c.logger != nil {
		c.logger.Debug("AI gateway response received",
			"model", model,
			"status_code", resp.StatusCode,
			"response_length", len(body),
		)
	}

	if resp.StatusCode != http.StatusOK {
		if c.logger != nil {
			c.logger.Error("AI gateway error",
				"model", model,
				"status_code", resp.StatusCode,
				"response", string(body),
			)
		}
		return nil, Classify(resp.StatusCode, model, string(body))
	}

	return body, nil
}
