package insight

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"bkds/internal/domain"
)

// Placeholders written into fields that are absent from a stored record.
const (
	MissingTitle        = "Title Missing"
	MissingClusterID    = "No cluster_id"
	MissingCategory     = "Category Missing"
	MissingCategoryID   = "No data_category_id"
	MissingURLID        = "ID Missing"
	MissingDefaultImage = "default image Missing"
)

// Transformer turns stored insight records into display records. It is safe
// for concurrent use.
type Transformer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewTransformer builds a transformer with GitHub-flavoured markdown and the
// bluemonday UGC policy.
func NewTransformer() *Transformer {
	return &Transformer{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
	}
}

// Transform maps raw to its display form. Absent fields are filled with the
// Missing* placeholders and listed in DisplayInsight.Missing.
func (t *Transformer) Transform(raw domain.RawInsight) domain.DisplayInsight {
	var missing []string
	pick := func(field string, v *string, fallback string) string {
		if v == nil {
			missing = append(missing, field)
			return fallback
		}
		return *v
	}

	d := raw.Details
	if d == nil {
		d = &domain.InsightDetails{}
	}

	out := domain.DisplayInsight{
		URLID:          pick("url_id", d.URLID, MissingURLID),
		ClusterID:      pick("cluster_id", d.ClusterID, MissingClusterID),
		DataCategory:   pick("data_category", d.DataCategory, MissingCategory),
		DataCategoryID: pick("data_category_id", d.DataCategoryID, MissingCategoryID),
		SubjectTitle:   pick("subject_title", d.SubjectTitle, MissingTitle),
		DefaultImg:     raw.DefaultImg,
		MediaLink:      raw.MediaLink,
	}

	if out.DefaultImg == "" {
		out.DefaultImg = MissingDefaultImage
		missing = append(missing, "default_img")
	}

	if raw.TextBlock == nil || raw.TextBlock.Content == nil {
		missing = append(missing, "text_content")
	} else {
		out.TextContent = t.RenderHTML(*raw.TextBlock.Content)
	}

	out.Missing = missing
	return out
}

// RenderHTML converts markdown to HTML and sanitises the result. Unsanitised
// output is never returned; if rendering fails the result is empty.
func (t *Transformer) RenderHTML(markdown string) string {
	var buf bytes.Buffer
	if err := t.md.Convert([]byte(markdown), &buf); err != nil {
		return ""
	}
	return t.policy.Sanitize(buf.String())
}

// TransformAll transforms each record in order.
func (t *Transformer) TransformAll(raws []domain.RawInsight) []domain.DisplayInsight {
	out := make([]domain.DisplayInsight, len(raws))
	for i, r := range raws {
		out[i] = t.Transform(r)
	}
	return out
}
