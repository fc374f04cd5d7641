package ai

// ToolSchema describes one function-calling tool. The gateway is forced to
// answer through the named tool, so the schema doubles as the output contract
// for structured extraction.
type ToolSchema struct {
	Name        string
	Description string
	Parameters  map[string]any
}

func stringProp(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func numberProp(desc string) map[string]any {
	return map[string]any{"type": "number", "description": desc}
}

func stringArrayProp(desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": desc,
	}
}

// BrandBundleTool is the extraction contract for website brand analysis.
// Every field is required so a conforming reply is a complete candidate bundle.
var BrandBundleTool = ToolSchema{
	Name:        "create_brand_bundle",
	Description: "Create a comprehensive brand bundle from website analysis",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"brand_name":   stringProp("The brand/company name"),
			"mission":      stringProp("Brand mission statement (1-2 sentences)"),
			"vision":       stringProp("Brand vision statement (1-2 sentences)"),
			"brand_values": stringArrayProp("3-5 core brand values"),
			"tone":         stringProp("Brand voice tone (e.g., professional, friendly, authoritative)"),
			"style":        stringProp("Writing style description"),
			"offerings": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":        map[string]any{"type": "string"},
						"description": map[string]any{"type": "string"},
					},
					"required": []string{"name", "description"},
				},
				"description": "Products or services offered",
			},
			"primary_audience":     stringProp("Primary target audience"),
			"pain_points":          stringArrayProp("3-5 customer pain points addressed"),
			"proof":                stringArrayProp("Social proof points (stats, testimonials, achievements)"),
			"cta_library":          stringArrayProp("5 call-to-action phrases"),
			"keywords":             stringArrayProp("5-10 relevant hashtags/keywords without #"),
			"confidence_mission":   numberProp("Confidence score for mission extraction (0-1)"),
			"confidence_voice":     numberProp("Confidence score for voice extraction (0-1)"),
			"confidence_offerings": numberProp("Confidence score for offerings extraction (0-1)"),
		},
		"required": []string{
			"brand_name", "mission", "vision", "brand_values", "tone", "style",
			"offerings", "primary_audience", "pain_points", "proof", "cta_library",
			"keywords", "confidence_mission", "confidence_voice", "confidence_offerings",
		},
	},
}

// PostTool is the generation contract for social media posts.
var PostTool = ToolSchema{
	Name:        "create_post",
	Description: "Create a social media post with metadata",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"content":  stringProp("The full post content"),
			"topic":    stringProp("The main topic of the post"),
			"angle":    stringProp("The content angle (education, promotion, social_proof, opinion)"),
			"hashtags": stringArrayProp("Relevant hashtags without #"),
		},
		"required": []string{"content", "topic", "angle", "hashtags"},
	},
}
