package tag_test

import (
	"encoding/json"
	"testing"

	"github.com/liteseed/arcore/tag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStringsRoundTrip(t *testing.T) {
	tg := tag.FromStrings("Content-Type", "text/plain")
	assert.Equal(t, "Content-Type", tg.DecodedName())
	assert.Equal(t, "text/plain", tg.DecodedValue())
}

func TestJSONWireShape(t *testing.T) {
	tg := tag.FromStrings("key2", "value2")
	b, err := json.Marshal(tg)
	require.NoError(t, err)

	var out map[string]string
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, tg.Name.String(), out["name"])
	assert.Equal(t, tg.Value.String(), out["value"])
}

func TestRawPairsShape(t *testing.T) {
	tags := []tag.Tag{tag.FromStrings("a", "1"), tag.FromStrings("b", "2")}
	pairs := tag.RawPairs(tags)
	require.Len(t, pairs, 2)
	assert.Equal(t, []byte("a"), pairs[0][0])
	assert.Equal(t, []byte("1"), pairs[0][1])
}

func TestRawPairsEmpty(t *testing.T) {
	assert.Nil(t, tag.RawPairs(nil))
}
