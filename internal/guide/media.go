package guide

import "strings"

// MediaKind tags the variant held by Media.
type MediaKind int

const (
	// MediaNone means the step has no images.
	MediaNone MediaKind = iota
	// MediaSingle means one image sent as a photo.
	MediaSingle
	// MediaGroup means several images sent as an album.
	MediaGroup
)

func (k MediaKind) String() string {
	switch k {
	case MediaSingle:
		return "single"
	case MediaGroup:
		return "group"
	default:
		return "none"
	}
}

// Media is the image attachment of a guide step. The zero value is MediaNone.
type Media struct {
	kind MediaKind
	urls []string
}

// NoMedia returns the empty variant.
func NoMedia() Media {
	return Media{}
}

// SingleMedia returns a one-photo variant; a blank ref yields NoMedia.
func SingleMedia(ref string) Media {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Media{}
	}
	return Media{kind: MediaSingle, urls: []string{ref}}
}

// GroupMedia returns an album variant. Blank refs are skipped; a single
// remaining ref collapses to SingleMedia because Telegram rejects one-item albums.
func GroupMedia(refs ...string) Media {
	urls := make([]string, 0, len(refs))
	for _, r := range refs {
		if r = strings.TrimSpace(r); r != "" {
			urls = append(urls, r)
		}
	}
	switch len(urls) {
	case 0:
		return Media{}
	case 1:
		return SingleMedia(urls[0])
	}
	return Media{kind: MediaGroup, urls: urls}
}

// Kind returns the variant tag.
func (m Media) Kind() MediaKind {
	return m.kind
}

// URL returns the photo of a MediaSingle value, or "" otherwise.
func (m Media) URL() string {
	if m.kind != MediaSingle {
		return ""
	}
	return m.urls[0]
}

// URLs returns a copy of the album items of a MediaGroup value.
func (m Media) URLs() []string {
	if m.kind != MediaGroup {
		return nil
	}
	return append([]string(nil), m.urls...)
}
