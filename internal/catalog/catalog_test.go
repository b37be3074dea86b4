package catalog

import (
	"context"
	"errors"
	"io"
	"testing"
	"testing/fstest"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bkds/internal/cache"
	"bkds/internal/loader"
)

type countingFS struct {
	fstest.MapFS
	reads int
}

func (c *countingFS) ReadFile(name string) ([]byte, error) {
	c.reads++
	return c.MapFS.ReadFile(name)
}

const filtersJSON = `[
	{"type": "category", "filter_name": "National Parks, US"},
	{"type": "category", "filter_name": "Aviation", "icon": "fa-plane", "order": 2},
	{"type": "subject", "filter_name": "Grand Canyon"}
]`

const imagesJSON = `[
	{"img_url": "1.jpg", "img_url_id": "a"},
	{"img_url": "2.jpg", "img_url_id": "b"},
	{"img_url": "1-copy.jpg", "img_url_id": "a"},
	{"img_url": "3.jpg", "img_url_id": ""},
	{"img_url": "4.jpg", "img_url_id": "c"}
]`

func newTestService(t *testing.T) (*Service, *countingFS, *countingFS, *time.Time) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	data := &countingFS{MapFS: fstest.MapFS{
		"content_feeds/bkds_data_category_filter_index.json": {Data: []byte(filtersJSON)},
		"config/bkds_bannedWords.json":                       {Data: []byte(`{"bannedWordList": ["Foo", "bar", "foo", " ", "BAR", "baz"]}`)},
		"config/bkds_headerContent.json":                     {Data: []byte(`{"greeting": "Hello", "items": [1, 2]}`)},
	}}
	images := &countingFS{MapFS: fstest.MapFS{
		"master_image_birds_index.json": {Data: []byte(imagesJSON)},
	}}

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := cache.New(cache.WithClock(func() time.Time { return now }), cache.WithLogger(log))
	svc := NewService(store, loader.New(data, images, log), 0, 0, log)
	return svc, data, images, &now
}

func TestFilters(t *testing.T) {
	svc, data, _, _ := newTestService(t)
	ctx := context.Background()

	got, err := svc.Filters(ctx, "category")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "National_Parks__US", got[0].FilterName)
	assert.Equal(t, "Aviation", got[1].FilterName)
	assert.Nil(t, got[0].Extra)
	require.Len(t, got[1].Extra, 2, "unknown keys survive the name rewrite")
	assert.JSONEq(t, `"fa-plane"`, string(got[1].Extra["icon"]))

	sub, err := svc.Filters(ctx, "subject")
	require.NoError(t, err)
	assert.Equal(t, "Grand_Canyon", sub[0].FilterName)

	_, err = svc.Filters(ctx, "category")
	require.NoError(t, err)
	assert.Equal(t, 2, data.reads, "filters are cached per type")
}

func TestBannedWords(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	got, err := svc.BannedWords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Foo", "bar", "baz"}, got)
}

func TestHeaderContent_UsesShorterTTL(t *testing.T) {
	svc, data, _, now := newTestService(t)
	ctx := context.Background()

	doc, err := svc.HeaderContent(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"greeting": "Hello", "items": [1, 2]}`, string(doc))

	*now = now.Add(29 * time.Minute)
	_, err = svc.HeaderContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, data.reads)

	*now = now.Add(2 * time.Minute)
	_, err = svc.HeaderContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, data.reads, "header content expires after thirty minutes")
}

func TestImageGrid(t *testing.T) {
	svc, _, images, _ := newTestService(t)
	ctx := context.Background()

	page1, err := svc.ImageGrid(ctx, "birds", 1, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, "1.jpg", page1[0].URL)
	assert.Equal(t, "2.jpg", page1[1].URL)

	page2, err := svc.ImageGrid(ctx, "birds", 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, "3.jpg", page2[0].URL, "duplicate img_url_id must be dropped")
	assert.Equal(t, "4.jpg", page2[1].URL)

	page3, err := svc.ImageGrid(ctx, "birds", 3, 2)
	require.NoError(t, err)
	assert.Empty(t, page3)

	assert.Equal(t, 1, images.reads)
}

func TestImageGrid_EmptyTypeAndErrors(t *testing.T) {
	svc, _, images, _ := newTestService(t)
	ctx := context.Background()

	got, err := svc.ImageGrid(ctx, "  ", 1, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 0, images.reads)

	_, err = svc.ImageGrid(ctx, "../secrets", 1, 0)
	assert.ErrorIs(t, err, loader.ErrUnsafeParam)

	_, err = svc.ImageGrid(ctx, "fish", 1, 0)
	var ioe *loader.IOError
	assert.True(t, errors.As(err, &ioe))
}
