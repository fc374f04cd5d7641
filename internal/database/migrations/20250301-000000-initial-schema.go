package migrations

func init() {
	Register(Migration{
		Timestamp:   "20250301-000000",
		Description: "Initial schema: brand bundles and generated posts",
		Up: []string{
			// Brand bundles: one row per analyzed website, scoped to a Clerk user.
			// List-valued fields are stored as JSON arrays.
			`CREATE TABLE IF NOT EXISTS brand_bundles (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				website_url TEXT NOT NULL,
				brand_name TEXT NOT NULL,
				logo_url TEXT,
				mission TEXT NOT NULL DEFAULT '',
				vision TEXT NOT NULL DEFAULT '',
				brand_values TEXT NOT NULL DEFAULT '[]',
				tone TEXT NOT NULL DEFAULT '',
				style TEXT NOT NULL DEFAULT '',
				offerings TEXT NOT NULL DEFAULT '[]',
				primary_audience TEXT NOT NULL DEFAULT '',
				pain_points TEXT NOT NULL DEFAULT '[]',
				proof TEXT NOT NULL DEFAULT '[]',
				cta_library TEXT NOT NULL DEFAULT '[]',
				keywords TEXT NOT NULL DEFAULT '[]',
				created_at TEXT NOT NULL
			)`,

			`CREATE INDEX IF NOT EXISTS idx_brand_bundles_user_id ON brand_bundles(user_id)`,

			// Generated posts cascade with their bundle: deleting a bundle
			// removes its posts. Requires PRAGMA foreign_keys = ON.
			`CREATE TABLE IF NOT EXISTS generated_posts (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				brand_bundle_id TEXT NOT NULL REFERENCES brand_bundles(id) ON DELETE CASCADE,
				method TEXT NOT NULL,
				platform TEXT NOT NULL,
				content TEXT NOT NULL,
				topic TEXT NOT NULL DEFAULT '',
				angle TEXT NOT NULL DEFAULT '',
				hashtags TEXT NOT NULL DEFAULT '[]',
				goal TEXT NOT NULL DEFAULT '',
				cta TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL
			)`,

			`CREATE INDEX IF NOT EXISTS idx_generated_posts_user_id ON generated_posts(user_id)`,
			`CREATE INDEX IF NOT EXISTS idx_generated_posts_bundle_id ON generated_posts(brand_bundle_id)`,
		},
	})
}
