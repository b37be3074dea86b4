package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
	"testing/fstest"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bkds/internal/cache"
	"bkds/internal/domain"
	"bkds/internal/icons"
	"bkds/internal/loader"
)

// countingFS counts ReadFile calls on the wrapped filesystem.
type countingFS struct {
	fstest.MapFS
	reads int
}

func (c *countingFS) ReadFile(name string) ([]byte, error) {
	c.reads++
	return c.MapFS.ReadFile(name)
}

type staticIcons []domain.Icon

func (s staticIcons) Icons(context.Context) ([]domain.Icon, error) { return s, nil }

func batchJSON(t *testing.T, n int) []byte {
	t.Helper()
	records := make([]map[string]any, n)
	for i := range records {
		records[i] = map[string]any{
			"insight_details": map[string]string{
				"subject_title":    fmt.Sprintf("Subject %d", i),
				"cluster_id":       "c1",
				"data_category":    "Aviation",
				"data_category_id": "aviation",
				"url_id":           fmt.Sprintf("post-%03d", i),
			},
			"default_img": fmt.Sprintf("/img/%d.jpg", i),
			"text_block":  map[string]string{"content": fmt.Sprintf("Body **%d**", i)},
		}
	}
	b, err := json.Marshal(records)
	require.NoError(t, err)
	return b
}

const storyJSON = `[
	{
		"insight_details": {
			"subject_title": "Blue Angels",
			"cluster_id": "c7",
			"data_category": "Aviation",
			"data_category_id": "aviation",
			"url_id": "blue-angels",
			"search_term": "blue angels flight team"
		},
		"text_block": {"content": "Six jets."},
		"media": {
			"images": [
				{"img_url": "gallery.jpg", "img_title": "G"},
				{"img_url": "hero.jpg", "img_title": "H", "label": "default"}
			],
			"videos": [{"vid_url": "https://youtube.com/v/1", "vid_title": "Show"}]
		},
		"related_topics": [{"url_id": "thunderbirds", "subject_title": "Thunderbirds"}]
	}
]`

type fixture struct {
	svc   *Service
	data  *countingFS
	store *cache.Store
	now   *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := &fixture{now: &now}
	f.data = &countingFS{MapFS: fstest.MapFS{
		"content_feeds/aviation/aviation_batch.json":                      {Data: batchJSON(t, 120)},
		"content_feeds/broken/broken_batch.json":                          {Data: []byte(`[{"insight_details":`)},
		"content_feeds/aviation/c7/blue-angels/blue-angels_aviation.json": {Data: []byte(storyJSON)},
		"content_feeds/aviation/c7/ghost/ghost_aviation.json":             {Data: []byte(storyJSON)},
	}}
	f.store = cache.New(cache.WithClock(func() time.Time { return *f.now }), cache.WithLogger(log))

	iconList := staticIcons{{Type: "toolbar_search", URL: "https://en.wikipedia.org/w/index.php?search=" + icons.Placeholder}}
	f.svc = NewService(f.store, loader.New(f.data, fstest.MapFS{}, log), iconList, log)
	return f
}

func TestFeed_PageThreeOfOneHundredTwenty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.svc.Feed(ctx, "aviation", 3, 50)
	require.NoError(t, err)
	require.Len(t, got, 20)
	assert.Equal(t, "post-100", got[0].URLID)
	assert.Equal(t, "post-119", got[19].URLID)
	assert.Contains(t, got[0].TextContent, "<strong>100</strong>")
	assert.Equal(t, 1, f.data.reads)

	again, err := f.svc.Feed(ctx, "aviation", 3, 50)
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.Equal(t, 1, f.data.reads, "repeated request must be served from cache")
}

func TestFeed_CacheIsPerPageAndExpires(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Feed(ctx, "aviation", 1, 50)
	require.NoError(t, err)
	_, err = f.svc.Feed(ctx, "aviation", 2, 50)
	require.NoError(t, err)
	assert.Equal(t, 2, f.data.reads)

	*f.now = f.now.Add(cache.DefaultTTL + time.Second)
	_, err = f.svc.Feed(ctx, "aviation", 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 3, f.data.reads, "expired page must be rebuilt")
}

func TestFeed_Defaults(t *testing.T) {
	f := newFixture(t)

	got, err := f.svc.Feed(context.Background(), "aviation", 0, -5)
	require.NoError(t, err)
	assert.Len(t, got, 50)

	_, ok := f.store.Get(cache.Key{Kind: "insight_feed", Category: "aviation", Page: 1, Limit: 50})
	assert.True(t, ok, "normalised page and limit must form the cache key")
}

func TestFeed_PagePastEnd(t *testing.T) {
	f := newFixture(t)
	got, err := f.svc.Feed(context.Background(), "aviation", 9, 50)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFeed_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Feed(ctx, "missing", 1, 50)
	var ioe *loader.IOError
	assert.True(t, errors.As(err, &ioe), "got %v", err)

	_, err = f.svc.Feed(ctx, "broken", 1, 50)
	var pe *loader.ParseError
	assert.True(t, errors.As(err, &pe), "got %v", err)

	_, err = f.svc.Feed(ctx, "../config", 1, 50)
	assert.ErrorIs(t, err, loader.ErrUnsafeParam)

	assert.Equal(t, 0, f.store.Len(), "failures must not be cached")
}

func TestStory(t *testing.T) {
	f := newFixture(t)

	story, err := f.svc.Story(context.Background(), "aviation", "c7", "blue-angels")
	require.NoError(t, err)

	assert.Equal(t, "Blue Angels", story.Title)
	assert.Equal(t, "Aviation", story.Category)
	assert.Equal(t, "c7", story.ClusterID)
	assert.Equal(t, "blue angels flight team", story.SearchTerm)
	assert.Contains(t, story.TextHTML, "Six jets.")
	assert.Equal(t, "hero.jpg", story.DefaultImage)
	require.Len(t, story.Images, 2)
	assert.Equal(t, "hero.jpg", story.Images[0].URL)
	require.Len(t, story.Videos, 1)
	require.Len(t, story.RelatedTopics, 1)
	require.Len(t, story.Icons, 1)
	assert.Equal(t, "https://en.wikipedia.org/w/index.php?search=Blue%20Angels", story.Icons[0].URL)
}

func TestStory_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Story(ctx, "aviation", "c7", "nope")
	assert.ErrorIs(t, err, ErrNotFound, "missing story file")

	_, err = f.svc.Story(ctx, "aviation", "c7", "ghost")
	assert.ErrorIs(t, err, ErrNotFound, "file without a matching record")

	_, err = f.svc.Story(ctx, "aviation", "../c7", "blue-angels")
	assert.ErrorIs(t, err, loader.ErrUnsafeParam)
}

func TestStory_IsCached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Story(ctx, "aviation", "c7", "blue-angels")
	require.NoError(t, err)
	_, err = f.svc.Story(ctx, "aviation", "c7", "blue-angels")
	require.NoError(t, err)
	assert.Equal(t, 1, f.data.reads)
}
