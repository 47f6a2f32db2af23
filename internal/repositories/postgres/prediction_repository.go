package postgres

import (
	"context"
	"fmt"

	"github.com/chrisdamba/vendorcast/internal/models"
	"github.com/chrisdamba/vendorcast/internal/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the part of *pgxpool.Pool the repository uses.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PredictionRepository struct {
	db    Querier
	close func()
}

// Connect opens a pool for dsn and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*PredictionRepository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach postgres: %w", err)
	}
	return NewPredictionRepository(pool), nil
}

func NewPredictionRepository(pool *pgxpool.Pool) *PredictionRepository {
	return &PredictionRepository{db: pool, close: pool.Close}
}

// NewPredictionRepositoryWithQuerier is used with a transaction or test double.
func NewPredictionRepositoryWithQuerier(db Querier) *PredictionRepository {
	return &PredictionRepository{db: db, close: func() {}}
}

const createPredictionsTable = `
    CREATE TABLE IF NOT EXISTS predictions (
        id            TEXT PRIMARY KEY,
        created_at    TIMESTAMPTZ NOT NULL,
        vendor_id     TEXT NOT NULL,
        vendor_name   TEXT NOT NULL,
        location      TEXT NOT NULL,
        location_type TEXT NOT NULL,
        date          TEXT NOT NULL,
        day_of_week   TEXT NOT NULL,
        weather       TEXT NOT NULL,
        temperature   INTEGER NOT NULL,
        is_festival   BOOLEAN NOT NULL,
        is_payday     BOOLEAN NOT NULL,
        items         JSON NOT NULL,
        revenue_min   INTEGER NOT NULL,
        revenue_max   INTEGER NOT NULL,
        peak_hours    INTEGER[] NOT NULL,
        notes         TEXT[] NOT NULL,
        confidence    DOUBLE PRECISION NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_predictions_vendor ON predictions (vendor_id, created_at DESC)`

func (r *PredictionRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createPredictionsTable); err != nil {
		return fmt.Errorf("create predictions table: %w", err)
	}
	return nil
}

func (r *PredictionRepository) Create(ctx context.Context, rec *models.PredictionRecord) error {
	items, err := repositories.EncodeItems(rec.Items)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO predictions (
            id, created_at, vendor_id, vendor_name, location, location_type,
            date, day_of_week, weather, temperature, is_festival, is_payday,
            items, revenue_min, revenue_max, peak_hours, notes, confidence
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
            $13, $14, $15, $16, $17, $18
        )`
	_, err = r.db.Exec(ctx, query,
		rec.ID,
		rec.CreatedAt,
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
		nonNilInts(rec.PeakHours),
		nonNilStrings(rec.Notes),
		rec.Confidence,
	)
	if err != nil {
		return fmt.Errorf("insert prediction %s: %w", rec.ID, err)
	}
	return nil
}

// ListByVendor returns the newest predictions for a vendor first.
func (r *PredictionRepository) ListByVendor(ctx context.Context, vendorID string, limit int) ([]*models.PredictionRecord, error) {
	query := `
        SELECT
            id, created_at, vendor_id, vendor_name, location, location_type,
            date, day_of_week, weather, temperature, is_festival, is_payday,
            items::text, revenue_min, revenue_max, peak_hours, notes, confidence
        FROM predictions
        WHERE vendor_id = $1
        ORDER BY created_at DESC
        LIMIT $2`

	rows, err := r.db.Query(ctx, query, vendorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.PredictionRecord
	for rows.Next() {
		var (
			rec          models.PredictionRecord
			locationType string
			weather      string
			items        string
		)
		err := rows.Scan(
			&rec.ID,
			&rec.CreatedAt,
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
			&rec.PeakHours,
			&rec.Notes,
			&rec.Confidence,
		)
		if err != nil {
			return nil, err
		}
		rec.LocationType = models.LocationType(locationType)
		rec.Weather = models.Weather(weather)
		if rec.Items, err = repositories.DecodeItems(items); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

func (r *PredictionRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM predictions").Scan(&count)
	return count, err
}

func (r *PredictionRepository) Close() error {
	r.close()
	return nil
}

func nonNilInts(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
