// Package scrape retrieves website text for brand analysis.
//
// Fetching is two-tiered: a structured scraping provider when configured,
// otherwise (or on provider failure) a direct Colly fetch with HTML
// stripped locally. A site that cannot be fetched at all is not an error;
// analysis proceeds from the URL alone.
package scrape

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

// DefaultUserAgent identifies raw fetches to target sites.
const DefaultUserAgent = "Mozilla/5.0 (compatible; BrandAnalyzer/1.0)"

// Content is the outcome of one fetch attempt.
type Content struct {
	// URL after normalization, the one actually fetched.
	URL string

	// Text is the extracted page text, already truncated.
	Text string

	// LogoURL is a logo candidate reported by the scraping provider, if any.
	LogoURL *string

	// Branding is visual identity metadata from the scraping provider.
	// The raw fetch tier never produces it.
	Branding *Branding

	// Unavailable is true when neither tier produced content.
	Unavailable bool
}

// Branding is the provider's branding extraction: logo, color palette and
// font list scavenged from the rendered page.
type Branding struct {
	LogoURL string
	Colors  []string
	Fonts   []string
}

// Config holds fetcher settings.
type Config struct {
	// Structured scraping provider; empty APIKey disables the tier.
	ProviderBaseURL string
	ProviderAPIKey  string
	WaitMs          int

	MaxContentChars int
	ScrapeTimeout   time.Duration
	FetchTimeout    time.Duration
	UserAgent       string
}

// Fetcher retrieves and extracts website content.
type Fetcher struct {
	cfg      Config
	provider *providerClient
	logger   *slog.Logger
}

// NewFetcher creates a fetcher. The provider tier is active only when an
// API key is configured.
func NewFetcher(cfg Config, logger *slog.Logger) *Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxContentChars <= 0 {
		cfg.MaxContentChars = 15000
	}
	if cfg.ScrapeTimeout == 0 {
		cfg.ScrapeTimeout = 30 * time.Second
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = 15 * time.Second
	}

	f := &Fetcher{cfg: cfg, logger: logger}
	if cfg.ProviderAPIKey != "" {
		f.provider = newProviderClient(cfg.ProviderBaseURL, cfg.ProviderAPIKey, cfg.WaitMs, cfg.ScrapeTimeout)
	}
	return f
}

// Fetch retrieves page text for the given URL. It never fails hard: when
// both tiers come up empty the result is marked Unavailable and the caller
// decides how to proceed.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) Content {
	target := NormalizeURL(rawURL)
	result := Content{URL: target}

	if f.provider != nil {
		scraped, err := f.provider.Scrape(ctx, target)
		if err == nil && scraped.Text != "" {
			result.Text = Truncate(scraped.Text, f.cfg.MaxContentChars)
			result.LogoURL = scraped.LogoURL
			result.Branding = scraped.Branding
			return result
		}
		if err != nil && f.logger != nil {
			f.logger.Warn("scrape provider failed, falling back to raw fetch",
				"url", target, "error", err)
		}
	}

	html, err := f.rawFetch(target)
	if err != nil {
		if f.logger != nil {
			f.logger.Warn("raw fetch failed, proceeding without content",
				"url", target, "error", err)
		}
		result.Unavailable = true
		return result
	}

	text := ExtractText(html)
	if text == "" {
		result.Unavailable = true
		return result
	}

	result.Text = Truncate(text, f.cfg.MaxContentChars)
	return result
}

// rawFetch retrieves the page HTML with Colly.
func (f *Fetcher) rawFetch(url string) (string, error) {
	var html string

	c := colly.NewCollector(
		colly.UserAgent(f.cfg.UserAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(f.cfg.FetchTimeout)

	c.OnResponse(func(r *colly.Response) {
		html = string(r.Body)
	})

	if err := c.Visit(url); err != nil {
		return "", err
	}

	return html, nil
}

// NormalizeURL ensures a URL has a scheme (defaults to https://).
func NormalizeURL(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return trimmed
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	return "https://" + trimmed
}

// ExtractText strips markup from an HTML document and collapses whitespace.
// Script, style and noscript subtrees are dropped entirely.
func ExtractText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	doc.Find("script, style, noscript").Remove()

	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Truncate cuts s to at most max bytes without splitting a rune.
// Oversized content is expected and never an error.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	for !utf8.ValidString(cut) && len(cut) > 0 {
		cut = cut[:len(cut)-1]
	}
	return cut
}
