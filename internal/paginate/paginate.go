// Package paginate slices ordered lists into 1-indexed pages.
package paginate

import (
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 50
)

// Slice returns items[(page-1)*limit : page*limit] clipped to the bounds of
// items. A page past the end yields an empty slice. Non-positive page or
// limit values are replaced by the defaults.
//
// The result shares the backing array with items but has its capacity
// clipped, so appending to it never writes into items.
func Slice[T any](items []T, page, limit int) []T {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	// Decide the range before multiplying; page and limit come from
	// untrusted query strings and (page-1)*limit can wrap.
	pages := len(items) / limit
	if len(items)%limit != 0 {
		pages++
	}
	if page-1 >= pages {
		return []T{}
	}

	start := (page - 1) * limit
	end := len(items)
	if limit < end-start {
		end = start + limit
	}
	return items[start:end:end]
}

// Page parses a page query value. Anything that is not a positive integer
// becomes DefaultPage.
func Page(raw string) int {
	return positive(raw, DefaultPage)
}

// Limit parses a limit query value. Anything that is not a positive integer
// becomes def, or DefaultLimit when def is not positive.
func Limit(raw string, def int) int {
	if def < 1 {
		def = DefaultLimit
	}
	return positive(raw, def)
}

func positive(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}
