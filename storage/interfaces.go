package storage

import "carvalu/models"

// ListingWriter is the interface any storage backend for cleaned listings must satisfy.
type ListingWriter interface {
	Write(listings []models.CleanListing) error
	Close() error
}

// TableReader loads a raw listing batch.
type TableReader interface {
	Read(path string) (*models.Table, error)
}
