package domain

import "encoding/json"

// RawInsight is an insight record as stored in a category batch file.
type RawInsight struct {
	Details *InsightDetails `json:"insight_details"`

	// DefaultImg is the card image. An empty value falls back to a placeholder.
	DefaultImg string `json:"default_img"`

	TextBlock *TextBlock `json:"text_block"`

	Media Media `json:"media"`

	// MediaLink is passed through untouched; its shape varies between feeds.
	MediaLink json.RawMessage `json:"media_link,omitempty"`

	RelatedTopics []RelatedTopic `json:"related_topics,omitempty"`
}

// InsightDetails carries the identifying fields of an insight.
// Pointer fields distinguish an absent key from an empty string.
type InsightDetails struct {
	SubjectTitle   *string `json:"subject_title"`
	ClusterID      *string `json:"cluster_id"`
	DataCategory   *string `json:"data_category"`
	DataCategoryID *string `json:"data_category_id"`
	URLID          *string `json:"url_id"`
	SearchTerm     *string `json:"search_term"`
}

// TextBlock holds the markdown body of an insight.
type TextBlock struct {
	Content *string `json:"content"`
}

// RelatedTopic links an insight to another one in the same cluster or category.
type RelatedTopic struct {
	URLID          string `json:"url_id"`
	ClusterID      string `json:"cluster_id"`
	SubjectTitle   string `json:"subject_title"`
	DataCategory   string `json:"data_category"`
	DataCategoryID string `json:"data_category_id"`
}

// DisplayInsight is the card-ready form of an insight served to clients.
type DisplayInsight struct {
	URLID          string          `json:"url_id"`
	ClusterID      string          `json:"cluster_id"`
	DataCategory   string          `json:"data_category"`
	DataCategoryID string          `json:"data_category_id"`
	SubjectTitle   string          `json:"subject_title"`
	DefaultImg     string          `json:"default_img"`
	TextContent    string          `json:"text_content,omitempty"`
	MediaLink      json.RawMessage `json:"media_link"`

	// Missing lists the JSON names of fields that were absent on disk and
	// were filled with a placeholder.
	Missing []string `json:"missing_fields,omitempty"`
}

// Partial reports whether any field fell back to a placeholder.
func (d DisplayInsight) Partial() bool {
	return len(d.Missing) > 0
}

// Summary returns a copy without the HTML body.
func (d DisplayInsight) Summary() DisplayInsight {
	d.TextContent = ""
	return d
}

// Story is the full detail view of a single insight.
type Story struct {
	PostID        string         `json:"post_id"`
	Title         string         `json:"title"`
	Category      string         `json:"category"`
	CategoryID    string         `json:"category_id"`
	ClusterID     string         `json:"cluster_id"`
	SearchTerm    string         `json:"subj_title"`
	TextHTML      string         `json:"text_block"`
	DefaultImage  string         `json:"default_image"`
	Images        []Image        `json:"images"`
	Videos        []Video        `json:"video_details"`
	RelatedTopics []RelatedTopic `json:"search_terms"`
	Icons         []Icon         `json:"icons_data"`
	ImgBasePath   string         `json:"img_base_path"`
}
