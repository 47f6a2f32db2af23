// Package sqlite keeps prediction history in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chrisdamba/vendorcast/internal/models"
	"github.com/chrisdamba/vendorcast/internal/repositories"
	_ "modernc.org/sqlite"
)

type PredictionRepository struct {
	db *sql.DB
}

// Open creates the database file if needed and applies migrations.
func Open(ctx context.Context, path string) (*PredictionRepository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	repo := New(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// New wraps an existing handle. Call EnsureSchema before use.
func New(db *sql.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

type migration struct {
	version int
	name    string
	up      func(ctx context.Context, tx *sql.Tx) error
}

var migrations = []migration{
	{version: 1, name: "create_predictions", up: migration001CreatePredictions},
}

// EnsureSchema runs any migrations newer than the recorded version.
func (r *PredictionRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	if err := r.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := r.apply(ctx, m); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.name, err)
		}
	}
	return nil
}

func (r *PredictionRepository) apply(ctx context.Context, m migration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := m.up(ctx, tx); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.version, m.name); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func migration001CreatePredictions(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS predictions (
			id            TEXT PRIMARY KEY,
			created_at    TEXT NOT NULL,
			vendor_id     TEXT NOT NULL,
			vendor_name   TEXT NOT NULL,
			location      TEXT NOT NULL,
			location_type TEXT NOT NULL,
			date          TEXT NOT NULL,
			day_of_week   TEXT NOT NULL,
			weather       TEXT NOT NULL,
			temperature   INTEGER NOT NULL,
			is_festival   INTEGER NOT NULL,
			is_payday     INTEGER NOT NULL,
			items         TEXT NOT NULL,
			revenue_min   INTEGER NOT NULL,
			revenue_max   INTEGER NOT NULL,
			peak_hours    TEXT NOT NULL,
			notes         TEXT NOT NULL,
			confidence    REAL NOT NULL
		)`); err != nil {
		return fmt.Errorf("create predictions table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_predictions_vendor
		ON predictions(vendor_id, created_at DESC)`); err != nil {
		return fmt.Errorf("create predictions vendor index: %w", err)
	}
	return nil
}

func (r *PredictionRepository) Create(ctx context.Context, rec *models.PredictionRecord) error {
	items, err := repositories.EncodeItems(rec.Items)
	if err != nil {
		return err
	}
	hours, err := encodeList(rec.PeakHours)
	if err != nil {
		return err
	}
	notes, err := encodeList(rec.Notes)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO predictions (
			id, created_at, vendor_id, vendor_name, location, location_type,
			date, day_of_week, weather, temperature, is_festival, is_payday,
			items, revenue_min, revenue_max, peak_hours, notes, confidence
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		rec.VendorID,
		rec.VendorName,
		rec.Location,
		string(rec.LocationType),
		rec.Date,
		rec.DayOfWeek,
		string(rec.Weather),
		rec.Temperature,
		rec.IsFestival,
		rec.IsPayday,
		items,
		rec.RevenueMin,
		rec.RevenueMax,
		hours,
		notes,
		rec.Confidence,
	)
	if err != nil {
		return fmt.Errorf("insert prediction %s: %w", rec.ID, err)
	}
	return nil
}

// ListByVendor returns the newest predictions for a vendor first.
func (r *PredictionRepository) ListByVendor(ctx context.Context, vendorID string, limit int) ([]*models.PredictionRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, created_at, vendor_id, vendor_name, location, location_type,
			date, day_of_week, weather, temperature, is_festival, is_payday,
			items, revenue_min, revenue_max, peak_hours, notes, confidence
		FROM predictions
		WHERE vendor_id = ?
		ORDER BY created_at DESC
		LIMIT ?`, vendorID, limit)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	var records []*models.PredictionRecord
	for rows.Next() {
		var (
			rec                              models.PredictionRecord
			createdAt, locationType, weather string
			items, hours, notes              string
		)
		if err := rows.Scan(
			&rec.ID,
			&createdAt,
			&rec.VendorID,
			&rec.VendorName,
			&rec.Location,
			&locationType,
			&rec.Date,
			&rec.DayOfWeek,
			&weather,
			&rec.Temperature,
			&rec.IsFestival,
			&rec.IsPayday,
			&items,
			&rec.RevenueMin,
			&rec.RevenueMax,
			&hours,
			&notes,
			&rec.Confidence,
		); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("prediction %s created_at: %w", rec.ID, err)
		}
		rec.LocationType = models.LocationType(locationType)
		rec.Weather = models.Weather(weather)
		if rec.Items, err = repositories.DecodeItems(items); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(hours), &rec.PeakHours); err != nil {
			return nil, fmt.Errorf("prediction %s peak_hours: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(notes), &rec.Notes); err != nil {
			return nil, fmt.Errorf("prediction %s notes: %w", rec.ID, err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

func (r *PredictionRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM predictions").Scan(&count)
	return count, err
}

func (r *PredictionRepository) Close() error {
	return r.db.Close()
}

func encodeList[T any](v []T) (string, error) {
	if v == nil {
		v = []T{}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
