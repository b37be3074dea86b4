// Package icons loads toolbar icon definitions and fills their URL templates
// with search terms.
package icons

import (
	"math/rand/v2"
	"net/url"
	"strings"

	"bkds/internal/domain"
)

// Placeholder marks where a search term goes in an icon URL template.
const Placeholder = "@@_search_term_@@"

const searchSegment = "/search"

// EncodeTerm escapes term for use inside a URL the way browsers'
// encodeURIComponent does for the characters that matter here: spaces
// become %20, not +.
func EncodeTerm(term string) string {
	return strings.ReplaceAll(url.QueryEscape(term), "+", "%20")
}

// Substitute replaces every placeholder in rawURL with the encoded term.
func Substitute(rawURL, term string) string {
	return strings.ReplaceAll(rawURL, Placeholder, EncodeTerm(term))
}

// Personalize fills a template with a term picked for its target site. A URL
// without a placeholder but with a /search path is cut back to the bare site;
// any other URL is returned unchanged.
func Personalize(rawURL string, picker TermPicker, pools Pools) string {
	switch {
	case strings.Contains(rawURL, Placeholder):
		pool := pools.For(rawURL)
		if len(pool) == 0 {
			return rawURL
		}
		return Substitute(rawURL, picker.Pick(pool))
	case strings.Contains(rawURL, searchSegment):
		return rawURL[:strings.Index(rawURL, searchSegment)]
	}
	return rawURL
}

// ForSubject returns copies of icons whose URL templates are filled with the
// trimmed subject title. Icons without a placeholder are copied unchanged.
func ForSubject(list []domain.Icon, subject string) []domain.Icon {
	subject = strings.TrimSpace(subject)
	out := make([]domain.Icon, len(list))
	for i, ic := range list {
		if strings.Contains(ic.URL, Placeholder) {
			ic.URL = Substitute(ic.URL, subject)
		}
		out[i] = ic
	}
	return out
}

// TermPicker chooses one search term from a non-empty pool.
type TermPicker interface {
	Pick(pool []string) string
}

// RandomPicker picks uniformly at random from the runtime's source, which is
// safe for concurrent use.
type RandomPicker struct{}

func (RandomPicker) Pick(pool []string) string {
	return pool[rand.IntN(len(pool))]
}

// FixedPicker always returns Term.
type FixedPicker struct {
	Term string
}

func (p FixedPicker) Pick([]string) string {
	return p.Term
}
