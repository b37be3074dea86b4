package domain

import (
	"encoding/json"
	"time"
)

// Icon is a toolbar or launcher icon definition from bkds_IconData.json.
// Unknown keys are kept in Extra so they survive a round trip to clients.
type Icon struct {
	Type            string `json:"type"`
	URL             string `json:"url"`
	FilterCategory  string `json:"filterCategory"`
	DataOriginalURL string `json:"dataOriginalUrl,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

type iconAlias Icon

var iconKeys = []string{"type", "url", "filterCategory", "dataOriginalUrl"}

// UnmarshalJSON decodes the known fields and stashes everything else in Extra.
func (i *Icon) UnmarshalJSON(b []byte) error {
	var a iconAlias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	extra, err := unknownKeys(b, iconKeys)
	if err != nil {
		return err
	}
	a.Extra = extra
	*i = Icon(a)
	return nil
}

// MarshalJSON writes the known fields followed by Extra.
func (i Icon) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(i.Extra)+4)
	for k, v := range i.Extra {
		out[k] = v
	}
	out["type"] = i.Type
	out["url"] = i.URL
	out["filterCategory"] = i.FilterCategory
	if i.DataOriginalURL != "" {
		out["dataOriginalUrl"] = i.DataOriginalURL
	}
	return json.Marshal(out)
}

// CategoryFilter is one entry of the data category filter index. Like Icon,
// unknown keys are carried in Extra.
type CategoryFilter struct {
	Type       string `json:"type"`
	FilterName string `json:"filter_name"`
	Label      string `json:"label,omitempty"`
	Category   string `json:"data_category,omitempty"`
	Count      int    `json:"count,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

type categoryFilterAlias CategoryFilter

var categoryFilterKeys = []string{"type", "filter_name", "label", "data_category", "count"}

// UnmarshalJSON decodes the known fields and stashes everything else in Extra.
func (f *CategoryFilter) UnmarshalJSON(b []byte) error {
	var a categoryFilterAlias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	extra, err := unknownKeys(b, categoryFilterKeys)
	if err != nil {
		return err
	}
	a.Extra = extra
	*f = CategoryFilter(a)
	return nil
}

func (f CategoryFilter) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(f.Extra)+5)
	for k, v := range f.Extra {
		out[k] = v
	}
	out["type"] = f.Type
	out["filter_name"] = f.FilterName
	delete(out, "label")
	delete(out, "data_category")
	delete(out, "count")
	if f.Label != "" {
		out["label"] = f.Label
	}
	if f.Category != "" {
		out["data_category"] = f.Category
	}
	if f.Count != 0 {
		out["count"] = f.Count
	}
	return json.Marshal(out)
}

// unknownKeys returns the members of the JSON object b not named in known,
// or nil when there are none.
func unknownKeys(b []byte, known []string) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// BannedWords is the on-disk shape of bkds_bannedWords.json.
type BannedWords struct {
	List []string `json:"bannedWordList"`
}

// VoiceSearch is a search phrase captured by the speech recogniser.
type VoiceSearch struct {
	ID           string `json:"id"`
	SearchString string `json:"search_string"`

	// ClientTimestamp is whatever the browser sent; it is not parsed.
	ClientTimestamp string `json:"client_timestamp,omitempty"`

	ReceivedAt time.Time `json:"received_at"`
}

// LinkPreview holds page metadata scraped from a toolbar target.
type LinkPreview struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FetchedAt   time.Time `json:"fetched_at"`
}
