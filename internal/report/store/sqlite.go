// Package store persists submitted reports in the local archive.
package store

import (
	"context"
	"database/sql"

	locdomain "altanto/app/internal/location/domain"
	reportdomain "altanto/app/internal/report/domain"
)

// SQLite archives reports in the reports table of the local store.
type SQLite struct {
	db *sql.DB
}

// NewSQLite returns an archive over the given database handle.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// Save inserts one archived report.
func (s *SQLite) Save(ctx context.Context, r *reportdomain.ArchivedReport) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (id, category_id, category_name, latitude, longitude, description, media_type, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.CategoryID, r.CategoryName,
		r.Coordinate.Latitude, r.Coordinate.Longitude,
		r.Description, r.MediaType, r.SubmittedAt)
	return err
}

// Recent returns up to limit archived reports, newest first. This backs the
// incident feed on the map screen.
func (s *SQLite) Recent(ctx context.Context, limit int) ([]*reportdomain.ArchivedReport, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, category_id, category_name, latitude, longitude, description, media_type, submitted_at
		 FROM reports ORDER BY submitted_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*reportdomain.ArchivedReport
	for rows.Next() {
		var r reportdomain.ArchivedReport
		var lat, lon float64
		if err := rows.Scan(&r.ID, &r.CategoryID, &r.CategoryName, &lat, &lon,
			&r.Description, &r.MediaType, &r.SubmittedAt); err != nil {
			return nil, err
		}
		r.Coordinate = locdomain.Coordinate{Latitude: lat, Longitude: lon}
		out = append(out, &r)
	}
	return out, rows.Err()
}
