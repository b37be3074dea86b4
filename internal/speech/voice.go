package speech

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"bkds/internal/domain"
)

// DefaultSearchType is the voice search type assumed when none is given.
const DefaultSearchType = "voice_search_general"

func newSearchID() string {
	return uuid.NewString()
}

// SaveVoiceSearch records a recognised search phrase together with the
// timestamp reported by the client.
func (s *Service) SaveVoiceSearch(ctx context.Context, searchString, clientTimestamp string) (domain.VoiceSearch, error) {
	searchString = strings.TrimSpace(searchString)
	if searchString == "" {
		return domain.VoiceSearch{}, ErrEmptySearch
	}

	vs := domain.VoiceSearch{
		ID:              s.newID(),
		SearchString:    searchString,
		ClientTimestamp: clientTimestamp,
		ReceivedAt:      s.now().UTC(),
	}
	if err := s.store.SaveVoiceSearch(ctx, vs); err != nil {
		return domain.VoiceSearch{}, fmt.Errorf("saving voice search: %w", err)
	}
	s.log.WithField("client_timestamp", clientTimestamp).Info("Received voice search data")
	return vs, nil
}

// RecentVoiceSearches returns up to n saved searches, newest first.
func (s *Service) RecentVoiceSearches(ctx context.Context, n int) ([]domain.VoiceSearch, error) {
	out, err := s.store.ListVoiceSearches(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("listing voice searches: %w", err)
	}
	if out == nil {
		out = []domain.VoiceSearch{}
	}
	return out, nil
}

// DeleteVoiceSearch forgets a saved search. Unknown IDs are not an error.
func (s *Service) DeleteVoiceSearch(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrEmptySearchID
	}
	if err := s.store.DeleteVoiceSearch(ctx, id); err != nil {
		return fmt.Errorf("deleting voice search: %w", err)
	}
	s.log.WithField("id", id).Info("Deleted voice search")
	return nil
}

// ListeningMessage is the prompt shown while the microphone is open for a
// search of the given type.
func ListeningMessage(searchType string) string {
	if searchType == "" {
		searchType = DefaultSearchType
	}
	switch {
	case strings.Contains(searchType, "flickr"):
		return "Listening for Flickr"
	case strings.Contains(searchType, "wikipedia"):
		return "Listening for Wikipedia"
	case strings.Contains(searchType, "wikimedia"):
		return "Listening for Wikimedia"
	case strings.Contains(searchType, "google"):
		return "Listening for Google Images"
	default:
		return "Listening..."
	}
}
