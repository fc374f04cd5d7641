package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/brandforge/brandforge-api/internal/database/migrations"
	"github.com/brandforge/brandforge-api/internal/models"
	_ "github.com/tursodatabase/go-libsql"
)

// setupTestDB creates an in-memory SQLite database for testing.
// It runs migrations and returns a database connection that will be cleaned up
// when the test completes.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("libsql", ":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := migrations.Run(db, nil); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// setupTestRepos creates all repositories using a test database.
func setupTestRepos(t *testing.T) *Repositories {
	t.Helper()
	db := setupTestDB(t)
	return NewRepositories(db)
}

// testBundle returns a fully populated bundle for userID. createdAt offsets
// keep list-ordering assertions deterministic.
func testBundle(userID string, createdAt time.Time) *models.BrandBundle {
	logo := "https://acme.example/logo.png"
	conf := 0.9
	return &models.BrandBundle{
		UserID:          userID,
		WebsiteURL:      "https://acme.example",
		BrandName:       "Acme",
		LogoURL:         &logo,
		Mission:         "Ship rockets faster",
		Vision:          "Every coyote catches a roadrunner",
		Values:          []string{"speed", "reliability"},
		Tone:            "confident",
		Style:           "direct, playful",
		Offerings:       []models.Offering{{Name: "Rocket Skates", Description: "Self-balancing skates"}},
		PrimaryAudience: "desert predators",
		PainPoints:      []string{"roadrunners are fast"},
		Proof:           []string{"10k satisfied coyotes"},
		CTALibrary:      []string{"Order now"},
		Keywords:        []string{"rockets", "skates"},
		ConfidenceMission: &conf,
		CreatedAt:       createdAt,
	}
}

func testPost(userID, bundleID string, createdAt time.Time) *models.GeneratedPost {
	return &models.GeneratedPost{
		UserID:        userID,
		BrandBundleID: bundleID,
		Method:        models.MethodFullAI,
		Platform:      models.PlatformLinkedIn,
		Content:       "We ship rockets faster than anyone.",
		Topic:         "speed",
		Angle:         "authority",
		Hashtags:      []string{"#rockets"},
		Goal:          "awareness",
		CTA:           "Order now",
		CreatedAt:     createdAt,
	}
}
