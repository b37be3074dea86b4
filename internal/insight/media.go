package insight

import "bkds/internal/domain"

// MaxRelatedTopics caps the related-topic list shown with a story.
const MaxRelatedTopics = 50

// ProcessMedia orders images as default, featured, gallery. Only the first
// image labelled default takes the default slot; later ones are treated as
// gallery images. Every image gets data_src_index set to its final position
// unless the record already carries one.
func ProcessMedia(m domain.Media) ([]domain.Image, []domain.Video) {
	var (
		def      *domain.Image
		featured []domain.Image
		gallery  []domain.Image
	)

	for _, raw := range m.Images {
		img := raw.Image
		switch raw.Label {
		case domain.LabelDefault:
			if def == nil {
				def = &img
				continue
			}
			gallery = append(gallery, img)
		case domain.LabelFeatured:
			featured = append(featured, img)
		default:
			gallery = append(gallery, img)
		}
	}

	images := make([]domain.Image, 0, len(m.Images))
	if def != nil {
		images = append(images, *def)
	}
	images = append(images, featured...)
	images = append(images, gallery...)

	for i := range images {
		if images[i].DataSrcIndex == nil {
			idx := i
			images[i].DataSrcIndex = &idx
		}
	}

	videos := make([]domain.Video, len(m.Videos))
	copy(videos, m.Videos)
	return images, videos
}

// DefaultImage picks the hero image of a story: the media default, then the
// record default, then the first ordered image.
func DefaultImage(raw domain.RawInsight, images []domain.Image) string {
	switch {
	case raw.Media.DefaultImg != "":
		return raw.Media.DefaultImg
	case raw.DefaultImg != "":
		return raw.DefaultImg
	case len(images) > 0:
		return images[0].URL
	}
	return ""
}

// Shuffler is the subset of *rand.Rand used to shuffle related topics.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// RelatedTopics returns a copy of topics. Lists longer than MaxRelatedTopics
// are shuffled with r and cut to that length.
func RelatedTopics(topics []domain.RelatedTopic, r Shuffler) []domain.RelatedTopic {
	out := make([]domain.RelatedTopic, len(topics))
	copy(out, topics)
	if len(out) <= MaxRelatedTopics {
		return out
	}
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out[:MaxRelatedTopics]
}
