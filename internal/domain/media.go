package domain

// Image labels used in insight media lists.
const (
	LabelDefault  = "default"
	LabelFeatured = "featured"
	LabelGallery  = "gallery"
)

// Media is the media block of an insight record.
type Media struct {
	DefaultImg string     `json:"default_img,omitempty"`
	Images     []RawImage `json:"images"`
	Videos     []Video    `json:"videos"`
}

// RawImage is an image entry as stored on disk.
type RawImage struct {
	Image
	Label string `json:"label,omitempty"`
}

// Image is also the record type of the master image indexes used by the gallery.
type Image struct {
	URL          string `json:"img_url"`
	Title        string `json:"img_title"`
	URLID        string `json:"img_url_id"`
	Desc1        string `json:"img_desc1"`
	Desc2        string `json:"img_desc2"`
	Desc3        string `json:"img_desc3"`
	Src          string `json:"img_src"`
	DataCategory string `json:"data_category"`
	DataSubject  string `json:"data_subject"`
	DataSrcIndex *int   `json:"data_src_index,omitempty"`
}

// Video is a video entry attached to an insight.
type Video struct {
	URL      string `json:"vid_url"`
	ThumbURL string `json:"vid_thumb_url"`
	Title    string `json:"vid_title"`
	URLID    string `json:"vid_url_id"`
}
