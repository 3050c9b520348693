// Package tag defines the Arweave transaction tag: a base64url-encoded
// name/value pair attached to a format-2 transaction. Format-2 transaction
// tags travel as plain JSON objects, not the AVRO-encoded binary tag lists
// a bundled DataItem would use.
package tag

import "github.com/liteseed/arcore/base64url"

// Tag is one transaction metadata tag. Both Name and Value travel over the
// wire as base64url strings.
type Tag struct {
	Name  base64url.Value `json:"name"`
	Value base64url.Value `json:"value"`
}

// FromStrings builds a Tag from UTF-8 name/value strings, base64url-encoding
// both.
func FromStrings(name, value string) Tag {
	return Tag{Name: base64url.FromString(name), Value: base64url.FromString(value)}
}

// DecodedName returns Name's decoded UTF-8 string.
func (t Tag) DecodedName() string {
	return string(t.Name.Bytes())
}

// DecodedValue returns Value's decoded UTF-8 string.
func (t Tag) DecodedValue() string {
	return string(t.Value.Bytes())
}

// RawPairs decodes a tag list into the [][ ]byte{name, value} shape the
// transaction deep hash expects for its nested tag list.
func RawPairs(tags []Tag) [][][]byte {
	if len(tags) == 0 {
		return nil
	}
	out := make([][][]byte, len(tags))
	for i, t := range tags {
		out[i] = [][]byte{t.Name.Bytes(), t.Value.Bytes()}
	}
	return out
}
