package icons

import (
	"context"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bkds/internal/cache"
	"bkds/internal/domain"
	"bkds/internal/loader"
)

func TestSubstitute(t *testing.T) {
	got := Substitute("https://www.google.com/search?q="+Placeholder+"&tbm=isch&alt="+Placeholder, "Grand Canyon")

	assert.Equal(t, "https://www.google.com/search?q=Grand%20Canyon&tbm=isch&alt=Grand%20Canyon", got)
	assert.NotContains(t, got, Placeholder)
}

func TestSubstitute_EscapesReservedCharacters(t *testing.T) {
	got := Substitute("https://example.com/?q="+Placeholder, "Clinton, Arkansas & more")
	assert.Equal(t, "https://example.com/?q=Clinton%2C%20Arkansas%20%26%20more", got)
}

func TestPersonalize(t *testing.T) {
	pools := DefaultPools()
	picker := FixedPicker{Term: "Grand Canyon"}

	t.Run("placeholder is substituted", func(t *testing.T) {
		got := Personalize("https://earth.google.com/web/search/"+Placeholder, picker, pools)
		assert.Equal(t, "https://earth.google.com/web/search/Grand%20Canyon", got)
	})

	t.Run("search path is truncated when there is no placeholder", func(t *testing.T) {
		got := Personalize("https://www.youtube.com/search?q=cats", picker, pools)
		assert.Equal(t, "https://www.youtube.com", got)
	})

	t.Run("other urls are unchanged", func(t *testing.T) {
		got := Personalize("https://en.wikipedia.org/wiki/Main_Page", picker, pools)
		assert.Equal(t, "https://en.wikipedia.org/wiki/Main_Page", got)
	})

	t.Run("empty pool leaves the template alone", func(t *testing.T) {
		got := Personalize("https://x.test/?q="+Placeholder, picker, Pools{})
		assert.Equal(t, "https://x.test/?q="+Placeholder, got)
	})
}

// recordingPicker remembers the pool it was offered.
type recordingPicker struct {
	pool []string
}

func (p *recordingPicker) Pick(pool []string) string {
	p.pool = pool
	return pool[0]
}

func TestPools_For(t *testing.T) {
	pools := DefaultPools()

	maps := pools.For("https://www.google.com/maps/search/" + Placeholder)
	assert.Len(t, maps, len(pools.General)+len(pools.Maps))
	assert.Contains(t, maps, "White Sands New Mexico")

	general := pools.For("https://duckduckgo.com/?q=" + Placeholder)
	assert.Equal(t, pools.General, general)

	rec := &recordingPicker{}
	Personalize("https://www.youtube.com/results?search_query="+Placeholder, rec, pools)
	assert.Contains(t, rec.pool, "Funny Cat Videos")
	assert.Contains(t, rec.pool, "Lighthouses")
}

func TestRandomPicker_PicksFromPool(t *testing.T) {
	pool := []string{"a", "b", "c"}
	for range 20 {
		assert.Contains(t, pool, RandomPicker{}.Pick(pool))
	}
}

func TestPools_WithDefaults(t *testing.T) {
	p := Pools{General: []string{"only this"}}.WithDefaults()
	assert.Equal(t, []string{"only this"}, p.General)
	assert.NotEmpty(t, p.Earth)
}

func TestForSubject_DoesNotMutateInput(t *testing.T) {
	in := []domain.Icon{
		{Type: "toolbar_search", URL: "https://en.wikipedia.org/w/index.php?search=" + Placeholder},
		{Type: "power_center_control", URL: "/execute-power-command"},
	}
	out := ForSubject(in, "  Hawaii Islands ")

	assert.Equal(t, "https://en.wikipedia.org/w/index.php?search=Hawaii%20Islands", out[0].URL)
	assert.Equal(t, "/execute-power-command", out[1].URL)
	assert.Contains(t, in[0].URL, Placeholder, "source templates must stay untouched")
}

const iconJSON = `[
	{"type":"toolbar_search","url":"https://www.google.com/maps/search/@@_search_term_@@","filterCategory":"maps_general","icon":"map.png"},
	{"type":"toolbar_search_images","url":"https://www.google.com/search?tbm=isch","filterCategory":"images_default"},
	{"type":"power_center_control","url":"/execute-power-command","filterCategory":"power"},
	{"type":"desktop_control_icon","url":"/desktop","filterCategory":"desktop"},
	{"type":"desktop_app_search_flowers","url":"https://commons.wikimedia.org/w/index.php?search=@@_search_term_@@","filterCategory":"flowers"}
]`

// countingFS counts reads of the wrapped filesystem.
type countingFS struct {
	fstest.MapFS
	reads int
}

func (c *countingFS) ReadFile(name string) ([]byte, error) {
	c.reads++
	return c.MapFS.ReadFile(name)
}

func newTestService(t *testing.T, picker TermPicker) (*Service, *countingFS) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	data := &countingFS{MapFS: fstest.MapFS{
		"config/bkds_IconData.json": {Data: []byte(iconJSON)},
	}}
	ld := loader.New(data, fstest.MapFS{}, log)
	return NewService(cache.New(cache.WithLogger(log)), ld, picker, Pools{}, 0, log), data
}

func TestService_IconsAreCached(t *testing.T) {
	svc, data := newTestService(t, nil)
	ctx := context.Background()

	first, err := svc.Icons(ctx)
	require.NoError(t, err)
	require.Len(t, first, 5)
	assert.Equal(t, "map.png", strings.Trim(string(first[0].Extra["icon"]), `"`))

	_, err = svc.Icons(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, data.reads)
}

func TestService_Groups(t *testing.T) {
	svc, _ := newTestService(t, nil)

	g, err := svc.Groups(context.Background())
	require.NoError(t, err)
	assert.Len(t, g.PowerCenter, 1)
	assert.Len(t, g.DesktopCtrl, 1)
	assert.Len(t, g.GalleryFilter, 1)
	assert.Len(t, g.Toolbar, 2)
}

func TestService_ToolbarPersonalizesCopies(t *testing.T) {
	svc, _ := newTestService(t, FixedPicker{Term: "Rogers, Arkansas"})
	ctx := context.Background()

	bar, err := svc.Toolbar(ctx)
	require.NoError(t, err)
	require.Len(t, bar, 2)

	assert.Equal(t, "https://www.google.com/maps/search/Rogers%2C%20Arkansas", bar[0].URL)
	assert.Equal(t, "https://www.google.com/maps/search/"+Placeholder, bar[0].DataOriginalURL)
	assert.Equal(t, "https://www.google.com", bar[1].URL)

	cached, err := svc.Icons(ctx)
	require.NoError(t, err)
	assert.Contains(t, cached[0].URL, Placeholder, "cached template must not be rewritten")
	assert.Empty(t, cached[0].DataOriginalURL)
}

func TestService_Hosts(t *testing.T) {
	svc, _ := newTestService(t, nil)

	hosts, err := svc.Hosts(context.Background())
	require.NoError(t, err)
	assert.Contains(t, hosts, "www.google.com")
	assert.Contains(t, hosts, "commons.wikimedia.org")
	assert.NotContains(t, hosts, "")
}
