package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"carvalu/models"
	"carvalu/utils"
)

// insertColumns is the column order of every INSERT built by buildInsert.
var insertColumns = []string{
	"run_id", "listing_id", "url", "make", "model", "trim", "bodytype", "drivetrain",
	"transmission_manual", "province", "odometer", "year", "price",
	"fetchdate", "days_since_reference", "car_age",
}

// listingRow is the database shape of a cleaned listing.
type listingRow struct {
	RunID              string         `db:"run_id"`
	ListingID          string         `db:"listing_id"`
	URL                sql.NullString `db:"url"`
	Make               string         `db:"make"`
	Model              string         `db:"model"`
	Trim               string         `db:"trim"`
	BodyType           string         `db:"bodytype"`
	Drivetrain         string         `db:"drivetrain"`
	TransmissionManual bool           `db:"transmission_manual"`
	Province           string         `db:"province"`
	Odometer           int            `db:"odometer"`
	Year               int            `db:"year"`
	Price              int            `db:"price"`
	FetchDate          time.Time      `db:"fetchdate"`
	DaysSinceReference int            `db:"days_since_reference"`
	CarAge             float64        `db:"car_age"`
}

// PostgresWriter persists cleaned listings to PostgreSQL, tagged with the run that produced them.
type PostgresWriter struct {
	db    *sqlx.DB
	runID string
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a PostgresWriter that tags rows with runID.
func NewPostgresWriter(dsn, runID string, retry *utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	ping := *retry
	ping.Retryable = transientConnError
	if err := ping.Do("postgres ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db, runID: runID}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

// transientConnError reports whether a connection failure may clear on its own.
// Rejected credentials (class 28) and unknown databases (3D000) never do.
func transientConnError(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return true
	}
	return pqErr.Code.Class() != "28" && pqErr.Code != "3D000"
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id                   SERIAL PRIMARY KEY,
			run_id               UUID         NOT NULL,
			listing_id           TEXT         NOT NULL DEFAULT '',
			url                  TEXT         UNIQUE,
			make                 VARCHAR(50)  NOT NULL,
			model                VARCHAR(100) NOT NULL,
			trim                 TEXT         NOT NULL DEFAULT '',
			bodytype             VARCHAR(30)  NOT NULL,
			drivetrain           VARCHAR(10)  NOT NULL,
			transmission_manual  BOOLEAN      NOT NULL DEFAULT FALSE,
			province             VARCHAR(30)  NOT NULL,
			odometer             INTEGER      NOT NULL,
			year                 INTEGER      NOT NULL,
			price                INTEGER      NOT NULL,
			fetchdate            DATE         NOT NULL,
			days_since_reference INTEGER      NOT NULL,
			car_age              DOUBLE PRECISION NOT NULL,
			created_at           TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listings_run_id     ON listings(run_id);
		CREATE INDEX IF NOT EXISTS idx_listings_make_model ON listings(make, model);
		CREATE INDEX IF NOT EXISTS idx_listings_price      ON listings(price);
	`)
	return err
}

// Write batch-upserts the listings. A listing already stored under the same URL
// is replaced by the newer sighting.
func (pw *PostgresWriter) Write(listings []models.CleanListing) error {
	if len(listings) == 0 {
		return nil
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		query, args := buildInsert(pw.runID, listings[i:end])
		if _, err := pw.db.Exec(query, args...); err != nil {
			return fmt.Errorf("postgres: insert batch at %d: %w", i, err)
		}
	}
	return nil
}

// buildInsert renders one multi-row upsert statement and its positional arguments.
func buildInsert(runID string, batch []models.CleanListing) (string, []interface{}) {
	n := len(insertColumns)
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*n)

	for idx, l := range batch {
		placeholders := make([]string, n)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", idx*n+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")

		r := toRow(runID, l)
		valueArgs = append(valueArgs,
			r.RunID, r.ListingID, r.URL, r.Make, r.Model, r.Trim, r.BodyType, r.Drivetrain,
			r.TransmissionManual, r.Province, r.Odometer, r.Year, r.Price,
			r.FetchDate, r.DaysSinceReference, r.CarAge)
	}

	updates := make([]string, 0, n)
	for _, c := range insertColumns {
		if c != "url" {
			updates = append(updates, c+" = EXCLUDED."+c)
		}
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (%s)
		VALUES %s
		ON CONFLICT (url) DO UPDATE SET %s
	`, strings.Join(insertColumns, ", "), strings.Join(valueStrings, ","), strings.Join(updates, ", "))

	return query, valueArgs
}

func toRow(runID string, l models.CleanListing) listingRow {
	return listingRow{
		RunID:              runID,
		ListingID:          l.ID,
		URL:                sql.NullString{String: l.URL, Valid: l.URL != ""},
		Make:               l.Make,
		Model:              l.Model,
		Trim:               l.Trim,
		BodyType:           l.BodyType,
		Drivetrain:         l.Drivetrain,
		TransmissionManual: l.TransmissionManual,
		Province:           l.Province,
		Odometer:           l.Odometer,
		Year:               l.Year,
		Price:              l.Price,
		FetchDate:          l.FetchDate,
		DaysSinceReference: l.DaysSinceReference,
		CarAge:             l.CarAge,
	}
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchRun retrieves the listings stored by this writer's run, used by the insight service.
func (pw *PostgresWriter) FetchRun() ([]models.CleanListing, error) {
	var rows []listingRow
	err := pw.db.Select(&rows, `
		SELECT `+strings.Join(insertColumns, ", ")+`
		FROM listings
		WHERE run_id = $1
		ORDER BY id
	`, pw.runID)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch run %s: %w", pw.runID, err)
	}

	listings := make([]models.CleanListing, 0, len(rows))
	for _, r := range rows {
		listings = append(listings, models.CleanListing{
			ID:                 r.ListingID,
			URL:                r.URL.String,
			Make:               r.Make,
			Model:              r.Model,
			Trim:               r.Trim,
			BodyType:           r.BodyType,
			Drivetrain:         r.Drivetrain,
			TransmissionManual: r.TransmissionManual,
			Province:           r.Province,
			Odometer:           r.Odometer,
			Year:               r.Year,
			Price:              r.Price,
			FetchDate:          r.FetchDate.UTC(),
			DaysSinceReference: r.DaysSinceReference,
			CarAge:             r.CarAge,
		})
	}
	return listings, nil
}
