package scraper

import (
	"context"

	"bkds/internal/domain"
)

// Scraper fetches the title and description of a page linked from the dashboard.
type Scraper interface {
	// Preview loads url and returns its title and meta description.
	Preview(ctx context.Context, url string) (domain.LinkPreview, error)
}
