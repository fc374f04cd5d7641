package migrations

func init() {
	Register(Migration{
		Timestamp:   "20250418-091500",
		Description: "Add per-pillar extraction confidence to brand bundles",
		Up: []string{
			// NULL means the model did not score the pillar; 0 is a real score.
			`ALTER TABLE brand_bundles ADD COLUMN confidence_mission REAL`,
			`ALTER TABLE brand_bundles ADD COLUMN confidence_voice REAL`,
			`ALTER TABLE brand_bundles ADD COLUMN confidence_offerings REAL`,
		},
	})
}
