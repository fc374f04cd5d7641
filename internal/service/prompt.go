package service

import (
	"fmt"
	"strings"

	"github.com/brandforge/brandforge-api/internal/models"
	"github.com/brandforge/brandforge-api/internal/scrape"
)

// brandSystemPrompt frames the extraction model as a brand strategist.
// The tool schema carries the output contract, so the prompt only sets role
// and thoroughness expectations.
const brandSystemPrompt = `You are a brand strategist expert. Analyze the provided website content and extract comprehensive brand information. Be thorough and creative in inferring brand attributes even from limited information.

Return a structured analysis following this exact JSON schema. All fields are required.`

// postSystemPrompt frames the generation model as a social content creator.
const postSystemPrompt = `You are an expert social media content creator. Create authentic, engaging posts that match the brand voice perfectly. Never use generic AI-sounding language.`

// buildBrandUserPrompt assembles the analysis prompt. When the site could
// not be fetched the model is asked to infer from the URL alone. Branding
// metadata from the scrape, when present, is passed along as key/value hints.
func buildBrandUserPrompt(websiteURL, content string, branding *scrape.Branding) string {
	if content == "" {
		content = "Could not fetch website content. Please infer brand attributes from the URL and domain name."
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Analyze this website and extract brand information:

URL: %s

Website Content:
%s`, websiteURL, content)

	if hints := brandingHints(branding); hints != "" {
		b.WriteString("\n\nBranding Metadata:\n")
		b.WriteString(hints)
	}

	b.WriteString("\n\nExtract and return the brand bundle.")
	return b.String()
}

// brandingHints renders provider branding metadata as key/value lines.
func brandingHints(br *scrape.Branding) string {
	if br == nil {
		return ""
	}

	var lines []string
	if br.LogoURL != "" {
		lines = append(lines, "logo: "+br.LogoURL)
	}
	if len(br.Colors) > 0 {
		lines = append(lines, "colors: "+strings.Join(br.Colors, ", "))
	}
	if len(br.Fonts) > 0 {
		lines = append(lines, "fonts: "+strings.Join(br.Fonts, ", "))
	}
	return strings.Join(lines, "\n")
}

// buildBrandContext renders the bundle fields shared by both generation
// methods. toneOverride, when set, replaces the stored voice tone for this
// one generation without touching the bundle.
func buildBrandContext(bundle *models.BrandBundle, toneOverride string) string {
	tone := bundle.Tone
	if toneOverride != "" {
		tone = toneOverride
	}

	offerings := make([]string, 0, len(bundle.Offerings))
	for _, o := range bundle.Offerings {
		offerings = append(offerings, o.Name)
	}

	return fmt.Sprintf(`
Brand: %s
Mission: %s
Voice Tone: %s
Writing Style: %s
Target Audience: %s
Pain Points Addressed: %s
Offerings: %s
Proof Points: %s
Keywords/Hashtags: %s
`,
		bundle.BrandName,
		bundle.Mission,
		tone,
		bundle.Style,
		bundle.PrimaryAudience,
		joinOrNA(bundle.PainPoints),
		joinOrNA(offerings),
		joinOrNA(bundle.Proof),
		joinOrNA(bundle.Keywords),
	)
}

func joinOrNA(items []string) string {
	if len(items) == 0 {
		return "N/A"
	}
	return strings.Join(items, ", ")
}

// buildPostUserPrompt assembles the generation prompt for one platform.
// Coop mode carries the caller's topic/goal/CTA hints; full AI mode asks the
// model to choose topic, angle, hashtags and CTA on its own.
func buildPostUserPrompt(bundle *models.BrandBundle, platform models.Platform, method models.PostMethod, topic, goal, cta, toneOverride string) string {
	guideline := models.PlatformGuidelines[platform]
	brandContext := buildBrandContext(bundle, toneOverride)

	if method == models.MethodCoop {
		if topic == "" {
			topic = "Choose a relevant topic based on brand offerings"
		}
		if goal == "" {
			goal = "Engage audience and build brand awareness"
		}
		if cta == "" {
			cta = "Use an appropriate call-to-action from brand library"
		}

		return fmt.Sprintf(`Generate a %s post for the following brand:

%s

Post Requirements:
- Topic: %s
- Goal: %s
- CTA: %s
- Platform Style: %s
- Max Length: %d characters

Generate a single, compelling post that sounds authentic to the brand voice.`,
			platform, brandContext, topic, goal, cta, guideline.Style, guideline.MaxLength)
	}

	return fmt.Sprintf(`You are a social media expert. Generate an engaging %s post for this brand:

%s

Platform Guidelines: %s
Max Length: %d characters

Autonomously choose:
1. A compelling topic based on brand offerings and audience pain points
2. An engaging angle (educational, promotional, social proof, or opinion)
3. Relevant hashtags from the brand keywords
4. A natural call-to-action

Generate a single, high-quality post that sounds human and on-brand.`,
		platform, brandContext, guideline.Style, guideline.MaxLength)
}

// buildImagePrompt assembles the image generation prompt from the bundle's
// visual identity and the caller's message.
func buildImagePrompt(bundle *models.BrandBundle, message string, style models.ImageStyle, aspect models.AspectRatio) string {
	styleDescription, ok := models.StylePrompts[style]
	if !ok {
		styleDescription = models.StylePrompts[models.StyleProfessional]
	}

	tone := bundle.Tone
	if tone == "" {
		tone = "Professional"
	}
	audience := bundle.PrimaryAudience
	if audience == "" {
		audience = "Business professionals"
	}

	return fmt.Sprintf(`Create a social media post image for %s.

Content/Message: %s

Style: %s
Brand Tone: %s
Target Audience: %s

Requirements:
- Make it visually striking and shareable
- Use appropriate colors that feel on-brand
- Include subtle visual elements that reinforce the message
- Ensure text is readable if any text is included
- Ultra high resolution, %s aspect ratio`,
		bundle.BrandName, message, styleDescription, tone, audience, aspect)
}
