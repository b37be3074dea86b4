// Package loader reads the JSON documents behind the dashboard from disk.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"regexp"

	"github.com/sirupsen/logrus"
)

// Kind names a family of JSON documents with a fixed on-disk layout.
type Kind string

const (
	KindInsightBatch    Kind = "insight_batch"
	KindInsightStory    Kind = "insight_story"
	KindIcons           Kind = "icons"
	KindCategoryFilters Kind = "category_filters"
	KindBannedWords     Kind = "banned_words"
	KindHeaderContent   Kind = "header_content"
	KindImageIndex      Kind = "image_index"
)

// Root selects which configured directory a document lives under.
type Root int

const (
	RootData Root = iota
	RootImages
)

// Params are the request-derived parts of a document path. All of them are
// untrusted.
type Params struct {
	Category  string
	Type      string
	ClusterID string
	PostID    string
}

var segmentPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// Loader resolves kinds to files under its roots and decodes them.
type Loader struct {
	data   fs.FS
	images fs.FS
	log    logrus.FieldLogger
}

// New creates a loader over the data and images roots. Production callers
// pass os.DirFS of absolute directories.
func New(data, images fs.FS, logger logrus.FieldLogger) *Loader {
	return &Loader{
		data:   data,
		images: images,
		log:    logger.WithField("component", "loader"),
	}
}

// Path returns the root and slash-separated path of the document for kind
// and params. It does no I/O.
func Path(kind Kind, p Params) (Root, string, error) {
	switch kind {
	case KindInsightBatch:
		if err := checkSegments(segment{"category", p.Category}); err != nil {
			return 0, "", err
		}
		return RootData, path.Join("content_feeds", p.Category, p.Category+"_batch.json"), nil

	case KindInsightStory:
		if err := checkSegments(
			segment{"category", p.Category},
			segment{"clusterID", p.ClusterID},
			segment{"postId", p.PostID},
		); err != nil {
			return 0, "", err
		}
		return RootData, path.Join("content_feeds", p.Category, p.ClusterID, p.PostID,
			fmt.Sprintf("%s_%s.json", p.PostID, p.Category)), nil

	case KindIcons:
		return RootData, "config/bkds_IconData.json", nil

	case KindCategoryFilters:
		return RootData, "content_feeds/bkds_data_category_filter_index.json", nil

	case KindBannedWords:
		return RootData, "config/bkds_bannedWords.json", nil

	case KindHeaderContent:
		return RootData, "config/bkds_headerContent.json", nil

	case KindImageIndex:
		if err := checkSegments(segment{"type", p.Type}); err != nil {
			return 0, "", err
		}
		return RootImages, fmt.Sprintf("master_image_%s_index.json", p.Type), nil
	}
	return 0, "", fmt.Errorf("unknown document kind %q", kind)
}

// Load reads the document for kind and params and decodes it into v.
func (l *Loader) Load(ctx context.Context, kind Kind, p Params, v any) error {
	root, name, err := Path(kind, p)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fsys := l.data
	if root == RootImages {
		fsys = l.images
	}

	log := l.log.WithFields(logrus.Fields{"kind": kind, "path": name})
	log.Info("Reading data file")

	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		log.WithError(err).Error("Failed to read data file")
		return &IOError{Path: name, Err: err}
	}
	if err := json.Unmarshal(b, v); err != nil {
		log.WithError(err).Error("Failed to parse data file")
		return &ParseError{Path: name, Err: err}
	}
	return nil
}

type segment struct {
	field, value string
}

func checkSegments(segs ...segment) error {
	for _, s := range segs {
		if !segmentPattern.MatchString(s.value) {
			return &ParamError{Field: s.field, Value: s.value}
		}
	}
	return nil
}
