// Package contenttype sniffs a payload's MIME type and builds the
// Content-Type tag that every uploaded transaction carries.
package contenttype

import (
	"github.com/gabriel-vasile/mimetype"
	"github.com/liteseed/arcore/tag"
)

// ContentTypeTagName is the tag name Arweave gateways and indexers expect
// for content-type metadata.
const ContentTypeTagName = "Content-Type"

// Detect sniffs data's MIME type from its content, falling back to
// "application/octet-stream" when nothing more specific matches.
func Detect(data []byte) string {
	return mimetype.Detect(data).String()
}

// Tags builds the tag list for an upload: a single sniffed Content-Type tag
// followed by extra, unless extra already names its own Content-Type tag —
// in which case the caller's tag wins and no sniffed tag is added. The
// result has exactly one Content-Type tag whenever extra has at most one;
// extra is returned unchanged if it already has several.
func Tags(data []byte, extra []tag.Tag) []tag.Tag {
	for _, t := range extra {
		if t.DecodedName() == ContentTypeTagName {
			return extra
		}
	}
	out := make([]tag.Tag, 0, len(extra)+1)
	out = append(out, tag.FromStrings(ContentTypeTagName, Detect(data)))
	out = append(out, extra...)
	return out
}
