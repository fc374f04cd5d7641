package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/brandforge/brandforge-api/internal/models"
)

// SQLiteGeneratedPostRepository implements GeneratedPostRepository for SQLite/libsql.
type SQLiteGeneratedPostRepository struct {
	db *sql.DB
}

// NewSQLiteGeneratedPostRepository creates a new SQLite generated post repository.
func NewSQLiteGeneratedPostRepository(db *sql.DB) *SQLiteGeneratedPostRepository {
	return &SQLiteGeneratedPostRepository{db: db}
}

const generatedPostColumns = `id, user_id, brand_bundle_id, method, platform,
	   content, topic, angle, hashtags, goal, cta, created_at`

// Create inserts a new generated post.
func (r *SQLiteGeneratedPostRepository) Create(ctx context.Context, post *models.GeneratedPost) error {
	if post.ID == "" {
		post.ID = ulid.Make().String()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO generated_posts (
			id, user_id, brand_bundle_id, method, platform,
			content, topic, angle, hashtags, goal, cta, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		post.ID,
		post.UserID,
		post.BrandBundleID,
		string(post.Method),
		string(post.Platform),
		post.Content,
		post.Topic,
		post.Angle,
		marshalList(post.Hashtags),
		post.Goal,
		post.CTA,
		post.CreatedAt.Format(time.RFC3339),
	)

	return err
}

// GetByIDForUser retrieves a post by ID scoped to a user.
func (r *SQLiteGeneratedPostRepository) GetByIDForUser(ctx context.Context, id, userID string) (*models.GeneratedPost, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+generatedPostColumns+`
		FROM generated_posts
		WHERE id = ? AND user_id = ?
	`, id, userID)

	return r.scanPost(row)
}

// ListByUserID returns a user's posts, newest first.
func (r *SQLiteGeneratedPostRepository) ListByUserID(ctx context.Context, userID string) ([]*models.GeneratedPost, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+generatedPostColumns+`
		FROM generated_posts
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanPosts(rows)
}

// ListByBrandBundle returns a user's posts for a single bundle, newest first.
func (r *SQLiteGeneratedPostRepository) ListByBrandBundle(ctx context.Context, userID, brandBundleID string) ([]*models.GeneratedPost, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+generatedPostColumns+`
		FROM generated_posts
		WHERE user_id = ? AND brand_bundle_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID, brandBundleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanPosts(rows)
}

// DeleteByIDForUser deletes a post if it belongs to the user.
func (r *SQLiteGeneratedPostRepository) DeleteByIDForUser(ctx context.Context, id, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM generated_posts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// scanPost scans a single row into a GeneratedPost.
func (r *SQLiteGeneratedPostRepository) scanPost(row *sql.Row) (*models.GeneratedPost, error) {
	var post models.GeneratedPost
	var method, platform, hashtagsJSON, createdAt string

	err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.BrandBundleID,
		&method,
		&platform,
		&post.Content,
		&post.Topic,
		&post.Angle,
		&hashtagsJSON,
		&post.Goal,
		&post.CTA,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	post.Method = models.PostMethod(method)
	post.Platform = models.Platform(platform)
	post.Hashtags = unmarshalList(hashtagsJSON)
	post.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	return &post, nil
}

// scanPosts scans multiple rows into a GeneratedPost slice.
func (r *SQLiteGeneratedPostRepository) scanPosts(rows *sql.Rows) ([]*models.GeneratedPost, error) {
	var posts []*models.GeneratedPost

	for rows.Next() {
		var post models.GeneratedPost
		var method, platform, hashtagsJSON, createdAt string

		err := rows.Scan(
			&post.ID,
			&post.UserID,
			&post.BrandBundleID,
			&method,
			&platform,
			&post.Content,
			&post.Topic,
			&post.Angle,
			&hashtagsJSON,
			&post.Goal,
			&post.CTA,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		post.Method = models.PostMethod(method)
		post.Platform = models.Platform(platform)
		post.Hashtags = unmarshalList(hashtagsJSON)
		post.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

		posts = append(posts, &post)
	}

	return posts, rows.Err()
}
