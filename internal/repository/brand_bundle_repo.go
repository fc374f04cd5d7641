package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/brandforge/brandforge-api/internal/models"
)

// SQLiteBrandBundleRepository implements BrandBundleRepository for SQLite/libsql.
type SQLiteBrandBundleRepository struct {
	db *sql.DB
}

// NewSQLiteBrandBundleRepository creates a new SQLite brand bundle repository.
func NewSQLiteBrandBundleRepository(db *sql.DB) *SQLiteBrandBundleRepository {
	return &SQLiteBrandBundleRepository{db: db}
}

const brandBundleColumns = `id, user_id, website_url, brand_name, logo_url,
	   mission, vision, brand_values, tone, style, offerings,
	   primary_audience, pain_points, proof, cta_library, keywords,
	   confidence_mission, confidence_voice, confidence_offerings, created_at`

// Create inserts a new brand bundle.
func (r *SQLiteBrandBundleRepository) Create(ctx context.Context, bundle *models.BrandBundle) error {
	if bundle.ID == "" {
		bundle.ID = ulid.Make().String()
	}
	if bundle.CreatedAt.IsZero() {
		bundle.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO brand_bundles (
			id, user_id, website_url, brand_name, logo_url,
			mission, vision, brand_values, tone, style, offerings,
			primary_audience, pain_points, proof, cta_library, keywords,
			confidence_mission, confidence_voice, confidence_offerings, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		bundle.ID,
		bundle.UserID,
		bundle.WebsiteURL,
		bundle.BrandName,
		bundle.LogoURL,
		bundle.Mission,
		bundle.Vision,
		marshalList(bundle.Values),
		bundle.Tone,
		bundle.Style,
		marshalOfferings(bundle.Offerings),
		bundle.PrimaryAudience,
		marshalList(bundle.PainPoints),
		marshalList(bundle.Proof),
		marshalList(bundle.CTALibrary),
		marshalList(bundle.Keywords),
		bundle.ConfidenceMission,
		bundle.ConfidenceVoice,
		bundle.ConfidenceOfferings,
		bundle.CreatedAt.Format(time.RFC3339),
	)

	return err
}

// GetByID retrieves a brand bundle by ID.
func (r *SQLiteBrandBundleRepository) GetByID(ctx context.Context, id string) (*models.BrandBundle, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+brandBundleColumns+`
		FROM brand_bundles
		WHERE id = ?
	`, id)

	return r.scanBundle(row)
}

// GetByIDForUser retrieves a brand bundle by ID scoped to a user.
func (r *SQLiteBrandBundleRepository) GetByIDForUser(ctx context.Context, id, userID string) (*models.BrandBundle, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+brandBundleColumns+`
		FROM brand_bundles
		WHERE id = ? AND user_id = ?
	`, id, userID)

	return r.scanBundle(row)
}

// ListByUserID returns a user's brand bundles, newest first.
func (r *SQLiteBrandBundleRepository) ListByUserID(ctx context.Context, userID string) ([]*models.BrandBundle, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+brandBundleColumns+`
		FROM brand_bundles
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanBundles(rows)
}

// DeleteByIDForUser deletes a brand bundle if it belongs to the user.
func (r *SQLiteBrandBundleRepository) DeleteByIDForUser(ctx context.Context, id, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM brand_bundles WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// scanBundle scans a single row into a BrandBundle.
func (r *SQLiteBrandBundleRepository) scanBundle(row *sql.Row) (*models.BrandBundle, error) {
	var bundle models.BrandBundle
	var logoURL sql.NullString
	var valuesJSON, offeringsJSON, painPointsJSON, proofJSON, ctaJSON, keywordsJSON string
	var confMission, confVoice, confOfferings sql.NullFloat64
	var createdAt string

	err := row.Scan(
		&bundle.ID,
		&bundle.UserID,
		&bundle.WebsiteURL,
		&bundle.BrandName,
		&logoURL,
		&bundle.Mission,
		&bundle.Vision,
		&valuesJSON,
		&bundle.Tone,
		&bundle.Style,
		&offeringsJSON,
		&bundle.PrimaryAudience,
		&painPointsJSON,
		&proofJSON,
		&ctaJSON,
		&keywordsJSON,
		&confMission,
		&confVoice,
		&confOfferings,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if logoURL.Valid {
		bundle.LogoURL = &logoURL.String
	}
	bundle.Values = unmarshalList(valuesJSON)
	bundle.Offerings = unmarshalOfferings(offeringsJSON)
	bundle.PainPoints = unmarshalList(painPointsJSON)
	bundle.Proof = unmarshalList(proofJSON)
	bundle.CTALibrary = unmarshalList(ctaJSON)
	bundle.Keywords = unmarshalList(keywordsJSON)
	if confMission.Valid {
		bundle.ConfidenceMission = &confMission.Float64
	}
	if confVoice.Valid {
		bundle.ConfidenceVoice = &confVoice.Float64
	}
	if confOfferings.Valid {
		bundle.ConfidenceOfferings = &confOfferings.Float64
	}
	bundle.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	return &bundle, nil
}

// scanBundles scans multiple rows into a BrandBundle slice.
func (r *SQLiteBrandBundleRepository) scanBundles(rows *sql.Rows) ([]*models.BrandBundle, error) {
	var bundles []*models.BrandBundle

	for rows.Next() {
		var bundle models.BrandBundle
		var logoURL sql.NullString
		var valuesJSON, offeringsJSON, painPointsJSON, proofJSON, ctaJSON, keywordsJSON string
		var confMission, confVoice, confOfferings sql.NullFloat64
		var createdAt string

		err := rows.Scan(
			&bundle.ID,
			&bundle.UserID,
			&bundle.WebsiteURL,
			&bundle.BrandName,
			&logoURL,
			&bundle.Mission,
			&bundle.Vision,
			&valuesJSON,
			&bundle.Tone,
			&bundle.Style,
			&offeringsJSON,
			&bundle.PrimaryAudience,
			&painPointsJSON,
			&proofJSON,
			&ctaJSON,
			&keywordsJSON,
			&confMission,
			&confVoice,
			&confOfferings,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		if logoURL.Valid {
			bundle.LogoURL = &logoURL.String
		}
		bundle.Values = unmarshalList(valuesJSON)
		bundle.Offerings = unmarshalOfferings(offeringsJSON)
		bundle.PainPoints = unmarshalList(painPointsJSON)
		bundle.Proof = unmarshalList(proofJSON)
		bundle.CTALibrary = unmarshalList(ctaJSON)
		bundle.Keywords = unmarshalList(keywordsJSON)
		if confMission.Valid {
			bundle.ConfidenceMission = &confMission.Float64
		}
		if confVoice.Valid {
			bundle.ConfidenceVoice = &confVoice.Float64
		}
		if confOfferings.Valid {
			bundle.ConfidenceOfferings = &confOfferings.Float64
		}
		bundle.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

		bundles = append(bundles, &bundle)
	}

	return bundles, rows.Err()
}

// marshalList serializes a string slice as a JSON array, never null.
func marshalList(list []string) string {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// unmarshalList deserializes a JSON array column into a string slice.
func unmarshalList(data string) []string {
	if data == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(data), &list); err != nil || list == nil {
		return []string{}
	}
	return list
}

func marshalOfferings(offerings []models.Offering) string {
	if offerings == nil {
		offerings = []models.Offering{}
	}
	data, err := json.Marshal(offerings)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func unmarshalOfferings(data string) []models.Offering {
	if data == "" {
		return []models.Offering{}
	}
	var offerings []models.Offering
	if err := json.Unmarshal([]byte(data), &offerings); err != nil || offerings == nil {
		return []models.Offering{}
	}
	return offerings
}
