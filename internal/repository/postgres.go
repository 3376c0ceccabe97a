package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/labelmap/internal/models"
)

const (
	baseTable     = "public.centroids"
	overrideTable = "public.centroid_overrides"
)

// Migrate creates the record tables when they do not exist yet.
func (r *Repository) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS public.centroids (
			name TEXT PRIMARY KEY,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			text_latitude DOUBLE PRECISION,
			text_longitude DOUBLE PRECISION
		);
		CREATE TABLE IF NOT EXISTS public.centroid_overrides (
			name TEXT PRIMARY KEY,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			text_latitude DOUBLE PRECISION,
			text_longitude DOUBLE PRECISION
		);
	`

	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create centroid tables: %w", err)
	}
	return nil
}

// BaseRecords returns every row of the base centroid table ordered by name.
func (r *Repository) BaseRecords(ctx context.Context) ([]models.CentroidRecord, error) {
	return r.records(ctx, baseTable)
}

// OverrideRecords returns every row of the override table ordered by name.
// Any coordinate may be NULL.
func (r *Repository) OverrideRecords(ctx context.Context) ([]models.CentroidRecord, error) {
	return r.records(ctx, overrideTable)
}

func (r *Repository) records(ctx context.Context, table string) ([]models.CentroidRecord, error) {
	query := `
		SELECT name, latitude, longitude, text_latitude, text_longitude
		FROM ` + table + `
		ORDER BY name ASC;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var records []models.CentroidRecord
	for rows.Next() {
		var rec models.CentroidRecord
		if errScan := rows.Scan(
			&rec.Name, &rec.Latitude, &rec.Longitude, &rec.TextLatitude, &rec.TextLongitude,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan record from %s: %w", table, errScan)
		}
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	r.log.DebugContext(ctx, "Centroid records loaded", "table", table, "count", len(records))
	return records, nil
}

// UpsertBaseRecord inserts a base record or replaces the anchor of an existing one.
// Text coordinates of existing rows are only replaced by non-null values.
func (r *Repository) UpsertBaseRecord(ctx context.Context, record models.CentroidRecord) error {
	query := `
		INSERT INTO public.centroids (name, latitude, longitude, text_latitude, text_longitude)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE
		SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			text_latitude = COALESCE(EXCLUDED.text_latitude, centroids.text_latitude),
			text_longitude = COALESCE(EXCLUDED.text_longitude, centroids.text_longitude);
	`

	if record.Latitude == nil || record.Longitude == nil {
		return &models.ConfigError{Source: baseTable, Key: record.Name, Err: fmt.Errorf("missing anchor coordinates")}
	}

	_, err := r.db.Exec(ctx, query,
		record.Name, record.Latitude, record.Longitude, record.TextLatitude, record.TextLongitude)
	if err != nil {
		return fmt.Errorf("failed to upsert centroid %q: %w", record.Name, err)
	}

	return nil
}
