// Package repository defines repository interfaces for data access.
// Note: User management, OAuth, sessions, and subscriptions are handled by Clerk.
package repository

import (
	"context"
	"database/sql"

	"github.com/brandforge/brandforge-api/internal/models"
)

// BrandBundleRepository defines methods for brand bundle data access.
type BrandBundleRepository interface {
	Create(ctx context.Context, bundle *models.BrandBundle) error
	GetByID(ctx context.Context, id string) (*models.BrandBundle, error)
	// GetByIDForUser returns the bundle only if it belongs to the user.
	GetByIDForUser(ctx context.Context, id, userID string) (*models.BrandBundle, error)
	// ListByUserID returns a user's bundles, newest first.
	ListByUserID(ctx context.Context, userID string) ([]*models.BrandBundle, error)
	// DeleteByIDForUser deletes the bundle if it belongs to the user.
	// Returns false if no row matched. Posts cascade via the FK.
	DeleteByIDForUser(ctx context.Context, id, userID string) (bool, error)
}

// GeneratedPostRepository defines methods for generated post data access.
type GeneratedPostRepository interface {
	Create(ctx context.Context, post *models.GeneratedPost) error
	GetByIDForUser(ctx context.Context, id, userID string) (*models.GeneratedPost, error)
	// ListByUserID returns a user's posts, newest first.
	ListByUserID(ctx context.Context, userID string) ([]*models.GeneratedPost, error)
	// ListByBrandBundle returns a user's posts for one bundle, newest first.
	ListByBrandBundle(ctx context.Context, userID, brandBundleID string) ([]*models.GeneratedPost, error)
	// DeleteByIDForUser deletes the post if it belongs to the user.
	// Returns false if no row matched.
	DeleteByIDForUser(ctx context.Context, id, userID string) (bool, error)
}

// Repositories holds all repository instances.
type Repositories struct {
	BrandBundle   BrandBundleRepository
	GeneratedPost GeneratedPostRepository
}

// NewRepositories creates all repository instances.
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		BrandBundle:   NewSQLiteBrandBundleRepository(db),
		GeneratedPost: NewSQLiteGeneratedPostRepository(db),
	}
}
