package contenttype_test

import (
	"testing"

	"github.com/liteseed/arcore/contenttype"
	"github.com/liteseed/arcore/tag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPNG(t *testing.T) {
	pngHeader := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	assert.Equal(t, "image/png", contenttype.Detect(pngHeader))
}

func TestDetectFallsBackToOctetStream(t *testing.T) {
	assert.Equal(t, "application/octet-stream", contenttype.Detect([]byte{0x00, 0x01, 0x02, 0x03}))
}

func TestTagsPrependsContentType(t *testing.T) {
	tags := contenttype.Tags([]byte("plain text"), []tag.Tag{tag.FromStrings("key2", "value2")})
	require.Len(t, tags, 2)
	assert.Equal(t, contenttype.ContentTypeTagName, tags[0].DecodedName())
	assert.Equal(t, "key2", tags[1].DecodedName())
}

func TestTagsHonorsCallerSuppliedContentType(t *testing.T) {
	extra := []tag.Tag{tag.FromStrings("Content-Type", "application/custom")}
	tags := contenttype.Tags([]byte("data"), extra)
	require.Len(t, tags, 1)
	assert.Equal(t, "application/custom", tags[0].DecodedValue())
}

func TestExactlyOneContentTypeTag(t *testing.T) {
	tags := contenttype.Tags([]byte("data"), nil)
	count := 0
	for _, t := range tags {
		if t.DecodedName() == contenttype.ContentTypeTagName {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
