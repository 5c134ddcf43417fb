package models

import "time"

// Table is a raw delimited batch as read from one or more scraped extracts.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Index returns the position of the named column, or -1 when absent.
func (t *Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// RawListing holds one scraped row projected to the columns the pipeline needs.
// Every value is still the unprocessed text from the extract.
type RawListing struct {
	ID           string
	Make         string
	Model        string
	Trim         string
	Transmission string
	Drivetrain   string
	BodyType     string
	Province     string
	Odometer     string
	Price        string
	Year         string
	URL          string
	FetchDate    string
}

// Listing is the working record passed between pipeline stages.
// A nil numeric field or a zero FetchDate marks a value that failed to parse.
type Listing struct {
	ID           string
	Make         string
	Model        string
	Trim         string
	Transmission string
	Drivetrain   string
	BodyType     string
	Province     string
	URL          string

	Odometer  *int
	Price     *int
	Year      *int
	FetchDate time.Time

	TransmissionManual bool
	DaysSinceReference int
	CarAge             float64
}

// CleanListing is the model-ready row produced by the pipeline.
type CleanListing struct {
	ID                 string
	URL                string
	Make               string
	Model              string
	Odometer           int
	BodyType           string
	Trim               string
	Year               int
	Drivetrain         string
	FetchDate          time.Time
	TransmissionManual bool
	Province           string
	DaysSinceReference int
	CarAge             float64
	Price              int
}

// StageStats counts the rows entering and leaving one pipeline stage.
type StageStats struct {
	Stage string
	In    int
	Out   int
}

// Dropped returns how many rows the stage removed.
func (s StageStats) Dropped() int {
	return s.In - s.Out
}

// Result is the outcome of one preprocessing run.
type Result struct {
	RunID     string
	Reference time.Time
	Listings  []CleanListing
	Stages    []StageStats
}

// TrimEntry is one row of the trims catalogue.
type TrimEntry struct {
	Make       string
	Model      string
	Year       int
	Trim       string
	BodyType   string
	Drivetrain string
}

// InsightReport holds summary statistics over a cleaned dataset.
type InsightReport struct {
	TotalListings      int
	ManualListings     int
	AveragePrice       float64
	MedianPrice        float64
	MinPrice           float64
	MaxPrice           float64
	AverageOdometer    float64
	AverageCarAge      float64
	MostExpensive      *CleanListing
	ListingsByMake     map[string]int
	ListingsByProvince map[string]int
}
