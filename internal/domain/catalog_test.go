package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIcon_KeepsUnknownKeys(t *testing.T) {
	in := `{"type": "toolbar_search", "url": "https://maps.google.com/search/x", "filterCategory": "maps",
		"iconClass": "fa-map", "order": 3}`

	var ic Icon
	require.NoError(t, json.Unmarshal([]byte(in), &ic))
	assert.Equal(t, "toolbar_search", ic.Type)
	assert.Equal(t, "maps", ic.FilterCategory)
	require.Len(t, ic.Extra, 2)
	assert.JSONEq(t, `"fa-map"`, string(ic.Extra["iconClass"]))

	out, err := json.Marshal(ic)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "toolbar_search", "url": "https://maps.google.com/search/x",
		"filterCategory": "maps", "iconClass": "fa-map", "order": 3}`, string(out))
}

func TestIcon_KnownFieldsWinOverExtra(t *testing.T) {
	ic := Icon{
		Type:            "desktop_control_icon",
		URL:             "/desk",
		DataOriginalURL: "/desk?q=@@_search_term_@@",
		Extra:           map[string]json.RawMessage{"url": json.RawMessage(`"stale"`)},
	}
	out, err := json.Marshal(ic)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "desktop_control_icon", "url": "/desk", "filterCategory": "",
		"dataOriginalUrl": "/desk?q=@@_search_term_@@"}`, string(out))
}

func TestCategoryFilter_KeepsUnknownKeys(t *testing.T) {
	in := `{"type": "category", "filter_name": "Air Shows", "count": 4, "icon": "fa-plane", "meta": {"x": 1}}`

	var f CategoryFilter
	require.NoError(t, json.Unmarshal([]byte(in), &f))
	assert.Equal(t, "Air Shows", f.FilterName)
	assert.Equal(t, 4, f.Count)
	require.Len(t, f.Extra, 2)

	f.FilterName = "Air_Shows"
	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "category", "filter_name": "Air_Shows", "count": 4,
		"icon": "fa-plane", "meta": {"x": 1}}`, string(out))
}

func TestCategoryFilter_OmitsEmptyOptionalFields(t *testing.T) {
	f := CategoryFilter{
		Type:       "category",
		FilterName: "Aviation",
		Extra:      map[string]json.RawMessage{"label": json.RawMessage(`"stale"`)},
	}
	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "category", "filter_name": "Aviation"}`, string(out))
}
