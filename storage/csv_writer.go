package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"carvalu/models"
)

// OutputColumns is the exact header of the cleaned dataset, in order.
var OutputColumns = []string{
	"make", "model", "odometer", "bodytype", "trim", "year", "drivetrain", "fetchdate",
	"transmission_manual", "province", "days_since_reference", "car_age", "price",
}

// CSVWriter writes cleaned listings to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(OutputColumns); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends the listings to the CSV file.
func (c *CSVWriter) Write(listings []models.CleanListing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range listings {
		if err := c.writer.Write(outputRow(l)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func outputRow(l models.CleanListing) []string {
	manual := "0"
	if l.TransmissionManual {
		manual = "1"
	}
	return []string{
		l.Make,
		l.Model,
		strconv.Itoa(l.Odometer),
		l.BodyType,
		l.Trim,
		strconv.Itoa(l.Year),
		l.Drivetrain,
		l.FetchDate.Format(DateLayout),
		manual,
		l.Province,
		strconv.Itoa(l.DaysSinceReference),
		strconv.FormatFloat(l.CarAge, 'f', -1, 64),
		strconv.Itoa(l.Price),
	}
}
