package loader

import (
	"context"
	"errors"
	"io"
	"testing"
	"testing/fstest"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLoader(t *testing.T, data, images fstest.MapFS) *Loader {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(data, images, log)
}

func TestPath(t *testing.T) {
	tests := []struct {
		kind     Kind
		params   Params
		wantRoot Root
		wantPath string
	}{
		{KindInsightBatch, Params{Category: "main_feed"}, RootData, "content_feeds/main_feed/main_feed_batch.json"},
		{KindInsightStory, Params{Category: "aviation", ClusterID: "c-12", PostID: "p_9"}, RootData, "content_feeds/aviation/c-12/p_9/p_9_aviation.json"},
		{KindIcons, Params{}, RootData, "config/bkds_IconData.json"},
		{KindCategoryFilters, Params{}, RootData, "content_feeds/bkds_data_category_filter_index.json"},
		{KindBannedWords, Params{}, RootData, "config/bkds_bannedWords.json"},
		{KindHeaderContent, Params{}, RootData, "config/bkds_headerContent.json"},
		{KindImageIndex, Params{Type: "flowers"}, RootImages, "master_image_flowers_index.json"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			root, p, err := Path(tt.kind, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRoot, root)
			assert.Equal(t, tt.wantPath, p)
		})
	}
}

func TestPath_RejectsUnsafeSegments(t *testing.T) {
	bad := []Params{
		{Category: "../config"},
		{Category: "a/b"},
		{Category: ""},
		{Category: "main feed"},
		{Category: "..\\x"},
	}
	for _, p := range bad {
		_, _, err := Path(KindInsightBatch, p)
		assert.ErrorIs(t, err, ErrUnsafeParam, "category %q", p.Category)

		var pe *ParamError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "category", pe.Field)
	}

	_, _, err := Path(KindImageIndex, Params{Type: "x/../../etc"})
	assert.ErrorIs(t, err, ErrUnsafeParam)

	_, _, err = Path(KindInsightStory, Params{Category: "ok", ClusterID: "ok", PostID: ".."})
	assert.ErrorIs(t, err, ErrUnsafeParam)
}

func TestPath_UnknownKind(t *testing.T) {
	_, _, err := Path(Kind("nope"), Params{})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsafeParam)
}

func TestLoad(t *testing.T) {
	data := fstest.MapFS{
		"config/bkds_bannedWords.json": {Data: []byte(`{"bannedWordList":["foo","bar"]}`)},
		"config/bkds_IconData.json":    {Data: []byte(`[{"type":"toolbar_search",`)},
	}
	images := fstest.MapFS{
		"master_image_birds_index.json": {Data: []byte(`[{"img_url":"a.jpg"}]`)},
	}
	l := testLoader(t, data, images)
	ctx := context.Background()

	var words struct {
		List []string `json:"bannedWordList"`
	}
	require.NoError(t, l.Load(ctx, KindBannedWords, Params{}, &words))
	assert.Equal(t, []string{"foo", "bar"}, words.List)

	var imgs []map[string]string
	require.NoError(t, l.Load(ctx, KindImageIndex, Params{Type: "birds"}, &imgs))
	assert.Equal(t, "a.jpg", imgs[0]["img_url"])

	var icons []any
	err := l.Load(ctx, KindIcons, Params{}, &icons)
	var pe *ParseError
	require.True(t, errors.As(err, &pe), "truncated JSON must be a ParseError, got %v", err)
	assert.Equal(t, "config/bkds_IconData.json", pe.Path)

	var filters []any
	err = l.Load(ctx, KindCategoryFilters, Params{}, &filters)
	var ioe *IOError
	require.True(t, errors.As(err, &ioe), "missing file must be an IOError, got %v", err)
	assert.True(t, ioe.NotExist())
}

func TestLoad_CancelledContext(t *testing.T) {
	l := testLoader(t, fstest.MapFS{}, fstest.MapFS{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var v any
	err := l.Load(ctx, KindIcons, Params{}, &v)
	assert.ErrorIs(t, err, context.Canceled)
}
