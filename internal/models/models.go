// Package models defines the domain models for the application.
// Note: User management, OAuth, sessions, and subscriptions are handled by Clerk.
// The UserID fields reference Clerk user IDs (e.g., "user_xxx").
package models

import (
	"time"
)

// Platform identifies the social network a post targets.
type Platform string

const (
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTwitter   Platform = "twitter"
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
)

// Valid reports whether the platform is one of the supported values.
func (p Platform) Valid() bool {
	switch p {
	case PlatformLinkedIn, PlatformTwitter, PlatformInstagram, PlatformFacebook:
		return true
	}
	return false
}

// PostMethod distinguishes user-guided generation from autonomous generation.
type PostMethod string

const (
	// MethodCoop is user-guided: the caller supplies topic/goal/tone hints.
	MethodCoop PostMethod = "coop"
	// MethodFullAI is autonomous: the model selects topic, angle, and CTA unaided.
	MethodFullAI PostMethod = "full_ai"
)

// Valid reports whether the method is one of the supported values.
func (m PostMethod) Valid() bool {
	return m == MethodCoop || m == MethodFullAI
}

// AngleCustom is the sentinel angle recorded for manually written posts.
const AngleCustom = "custom"

// PlatformGuideline describes per-platform content constraints used when
// prompting. Length limits are soft: they shape generation and client-side
// validation but are never enforced as a hard reject on the write path.
type PlatformGuideline struct {
	MaxLength int
	Style     string
}

// PlatformGuidelines maps each platform to its content guidance.
var PlatformGuidelines = map[Platform]PlatformGuideline{
	PlatformLinkedIn: {
		MaxLength: 3000,
		Style:     "Professional, thought-leadership focused. Use line breaks for readability. Include a hook at the start.",
	},
	PlatformTwitter: {
		MaxLength: 280,
		Style:     "Concise, punchy, conversational. Use emojis sparingly. Make every word count.",
	},
	PlatformInstagram: {
		MaxLength: 2200,
		Style:     "Visual storytelling, engaging captions. Use emojis and line breaks. End with a question or CTA.",
	},
	PlatformFacebook: {
		MaxLength: 500,
		Style:     "Conversational, community-focused. Encourage discussion and engagement.",
	},
}

// ImageStyle identifies a preset visual direction for generated images.
type ImageStyle string

const (
	StyleMinimal      ImageStyle = "minimal"
	StyleBold         ImageStyle = "bold"
	StyleProfessional ImageStyle = "professional"
	StyleCreative     ImageStyle = "creative"
	StyleTech         ImageStyle = "tech"
)

// StylePrompts maps each image style to its prompt fragment. Unknown styles
// fall back to StyleProfessional.
var StylePrompts = map[ImageStyle]string{
	StyleMinimal:      "Clean, minimalist design with lots of white space, modern typography, subtle gradients",
	StyleBold:         "Bold colors, striking contrast, impactful typography, attention-grabbing",
	StyleProfessional: "Corporate, polished, trustworthy, clean lines, professional photography style",
	StyleCreative:     "Artistic, unique, creative layouts, vibrant colors, expressive design",
	StyleTech:         "Futuristic, tech-inspired, geometric shapes, neon accents, digital aesthetic",
}

// AspectRatio identifies a supported image aspect ratio.
type AspectRatio string

const (
	AspectSquare    AspectRatio = "1:1"
	AspectLandscape AspectRatio = "16:9"
	AspectPortrait  AspectRatio = "9:16"
	AspectFourFive  AspectRatio = "4:5"
)

// Valid reports whether the aspect ratio is one of the supported values.
func (a AspectRatio) Valid() bool {
	switch a {
	case AspectSquare, AspectLandscape, AspectPortrait, AspectFourFive:
		return true
	}
	return false
}

// Offering is a single product or service extracted from a website.
type Offering struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// BrandBundle is the canonical, durable record of one analyzed brand.
// It is created only by a successful analysis pipeline run and is never
// partially written: either every required field passed normalization or
// nothing is stored. Confidence scores are pointers so that "not scored"
// (nil) stays distinguishable from "scored zero".
type BrandBundle struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"` // Clerk user ID
	WebsiteURL      string     `json:"website_url"`
	BrandName       string     `json:"brand_name"`
	LogoURL         *string    `json:"logo_url,omitempty"`
	Mission         string     `json:"mission"`
	Vision          string     `json:"vision"`
	Values          []string   `json:"brand_values"`
	Tone            string     `json:"tone"`
	Style           string     `json:"style"`
	Offerings       []Offering `json:"offerings"`
	PrimaryAudience string     `json:"primary_audience"`
	PainPoints      []string   `json:"pain_points"`
	Proof           []string   `json:"proof"`
	CTALibrary      []string   `json:"cta_library"`
	Keywords        []string   `json:"keywords"`

	ConfidenceMission   *float64 `json:"confidence_mission,omitempty"`
	ConfidenceVoice     *float64 `json:"confidence_voice,omitempty"`
	ConfidenceOfferings *float64 `json:"confidence_offerings,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// GeneratedPost is one piece of content produced for a BrandBundle, either by
// the AI generation flow or by manual entry. Posts are immutable once created
// except through full replacement.
type GeneratedPost struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"` // Clerk user ID
	BrandBundleID string     `json:"brand_bundle_id"`
	Method        PostMethod `json:"method"`
	Platform      Platform   `json:"platform"`
	Content       string     `json:"content"`
	Topic         string     `json:"topic,omitempty"`
	Angle         string     `json:"angle,omitempty"`
	Hashtags      []string   `json:"hashtags,omitempty"`
	Goal          string     `json:"goal,omitempty"`
	CTA           string     `json:"cta,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// RunStep is one state of the analysis pipeline state machine.
type RunStep string

const (
	StepIdle        RunStep = "idle"
	StepFetching    RunStep = "fetching"
	StepExtracting  RunStep = "extracting"
	StepNormalizing RunStep = "normalizing"
	StepPersisting  RunStep = "persisting"
	StepComplete    RunStep = "complete"
	StepError       RunStep = "error"
)

// RunProgress is the ephemeral progress token for one pipeline invocation.
// It exists only to drive caller feedback and is never persisted; the numeric
// percentage within a step is an estimate, not a measured fraction.
type RunProgress struct {
	Step     RunStep `json:"step"`
	Message  string  `json:"message"`
	Progress int     `json:"progress"`
}
