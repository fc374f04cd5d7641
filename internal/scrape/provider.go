package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// providerClient calls a Firecrawl-compatible scraping API. The provider
// renders the page (including dynamic content) and returns markdown plus
// page metadata, which covers sites the raw fetch tier cannot read.
type providerClient struct {
	baseURL    string
	apiKey     string
	waitMs     int
	httpClient *http.Client
}

// scrapedPage is the distilled provider result.
type scrapedPage struct {
	Text     string
	LogoURL  *string
	Branding *Branding
}

func newProviderClient(baseURL, apiKey string, waitMs int, timeout time.Duration) *providerClient {
	return &providerClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		waitMs:     waitMs,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Scrape requests a rendered version of the page from the provider.
func (p *providerClient) Scrape(ctx context.Context, url string) (*scrapedPage, error) {
	reqBody := map[string]any{
		"url":     url,
		"formats": []string{"markdown", "branding"},
	}
	if p.waitMs > 0 {
		reqBody["waitFor"] = p.waitMs
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scrape request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/scrape", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create scrape request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read scrape response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scrape provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Success bool `json:"success"`
		Data    struct {
			Markdown string `json:"markdown"`
			Branding struct {
				LogoURL string   `json:"logo_url"`
				Colors  []string `json:"colors"`
				Fonts   []string `json:"fonts"`
			} `json:"branding"`
			Metadata struct {
				OGImage string `json:"ogImage"`
				Favicon string `json:"favicon"`
			} `json:"metadata"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse scrape response: %w", err)
	}
	if !parsed.Success {
		return nil, fmt.Errorf("scrape provider reported failure")
	}

	page := &scrapedPage{Text: strings.TrimSpace(parsed.Data.Markdown)}

	br := parsed.Data.Branding
	if br.LogoURL != "" || len(br.Colors) > 0 || len(br.Fonts) > 0 {
		page.Branding = &Branding{
			LogoURL: br.LogoURL,
			Colors:  br.Colors,
			Fonts:   br.Fonts,
		}
	}

	// Logo candidate: the branding extraction wins, then og:image, then the
	// favicon.
	switch {
	case br.LogoURL != "":
		logo := br.LogoURL
		page.LogoURL = &logo
	case parsed.Data.Metadata.OGImage != "":
		logo := parsed.Data.Metadata.OGImage
		page.LogoURL = &logo
	case parsed.Data.Metadata.Favicon != "":
		logo := parsed.Data.Metadata.Favicon
		page.LogoURL = &logo
	}

	return page, nil
}
