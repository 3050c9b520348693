// Package base64url implements the URL-safe, unpadded base64 encoding used
// throughout the Arweave wire formats: transaction fields, tag name/value
// pairs, and JWK components.
package base64url

import (
	"encoding/base64"
	"errors"

	"github.com/liteseed/arcore/arerr"
)

var encoding = base64.RawURLEncoding

// Value holds raw bytes; String computes their base64url form on demand.
// This matches the way every Arweave transaction field is both a byte blob
// (for hashing and signing) and a JSON string (for the wire format).
type Value struct {
	raw []byte
}

// FromBytes wraps raw bytes as a Value. A nil or zero-length slice yields the
// zero Value, which encodes as the empty string.
func FromBytes(raw []byte) Value {
	return Value{raw: raw}
}

// FromString encodes a UTF-8 string's bytes as a Value.
func FromString(s string) Value {
	return Value{raw: []byte(s)}
}

// Parse decodes a base64url string into a Value.
func Parse(s string) (Value, error) {
	if s == "" {
		return Value{}, nil
	}
	raw, err := encoding.DecodeString(s)
	if err != nil {
		return Value{}, arerr.New(arerr.InvalidInput, "base64url.Parse", err)
	}
	return Value{raw: raw}, nil
}

// Encode is the free-function form of Value.String for callers that only
// have raw bytes.
func Encode(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	return encoding.EncodeToString(raw)
}

// Decode is the free-function form of Parse.
func Decode(s string) ([]byte, error) {
	v, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return v.raw, nil
}

// Bytes returns the underlying raw bytes. The caller must not mutate them.
func (v Value) Bytes() []byte {
	return v.raw
}

// Len returns the number of raw bytes.
func (v Value) Len() int {
	return len(v.raw)
}

// IsZero reports whether the Value holds no bytes.
func (v Value) IsZero() bool {
	return len(v.raw) == 0
}

// Equal reports whether two Values hold identical bytes.
func (v Value) Equal(other Value) bool {
	if len(v.raw) != len(other.raw) {
		return false
	}
	for i := range v.raw {
		if v.raw[i] != other.raw[i] {
			return false
		}
	}
	return true
}

// String returns the base64url encoding, or "" for a zero Value.
func (v Value) String() string {
	return Encode(v.raw)
}

// MarshalJSON emits the base64url string form, matching the wire shape of
// every Arweave transaction field.
func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(`"` + v.String() + `"`), nil
}

// UnmarshalJSON accepts a JSON string and decodes it as base64url.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return arerr.New(arerr.InvalidInput, "base64url.UnmarshalJSON", errors.New("not a JSON string"))
	}
	parsed, err := Parse(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
