package storage

import (
	"context"

	"bkds/internal/domain"
)

// Repository defines the interface for persisting voice searches.
// This allows us to swap storage implementations (e.g., BadgerDB, files)
// without changing the handlers that use it.
type Repository interface {
	// SaveVoiceSearch stores a voice search, replacing any record with the same ID.
	SaveVoiceSearch(ctx context.Context, vs domain.VoiceSearch) error

	// ListVoiceSearches returns up to limit searches, newest first. A
	// non-positive limit returns everything.
	ListVoiceSearches(ctx context.Context, limit int) ([]domain.VoiceSearch, error)

	// DeleteVoiceSearch removes a voice search by ID.
	DeleteVoiceSearch(ctx context.Context, id string) error

	// Close gracefully shuts down the repository connection.
	Close() error
}
