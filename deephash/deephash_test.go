package deephash_test

import (
	"crypto/sha512"
	"fmt"
	"testing"

	"github.com/liteseed/arcore/deephash"
	"github.com/stretchr/testify/assert"
)

// TestBlobMatchesAlgorithmDescription independently recomputes the blob
// case (tag = SHA384("blob"+len), data = SHA384(bytes), result =
// SHA384(tag||data)) without calling into deephash at all, then checks the
// two agree.
func TestBlobMatchesAlgorithmDescription(t *testing.T) {
	blob := []byte("hello, arweave")
	tagHash := sha512.Sum384([]byte(fmt.Sprintf("blob%d", len(blob))))
	dataHash := sha512.Sum384(blob)
	want := sha512.Sum384(append(tagHash[:], dataHash[:]...))

	got := deephash.Hash(blob)
	assert.Equal(t, want, got)
}

// TestListMatchesAlgorithmDescription does the same for a flat list of
// blobs, independently folding list3 -> blob hashes.
func TestListMatchesAlgorithmDescription(t *testing.T) {
	items := [][]byte{[]byte("2"), []byte("owner-bytes"), []byte("target-bytes")}

	acc := sha512.Sum384([]byte(fmt.Sprintf("list%d", len(items))))
	for _, item := range items {
		blobHash := deephash.Hash(item)
		acc = sha512.Sum384(append(acc[:], blobHash[:]...))
	}

	got := deephash.Hash(toAnySlice(items))
	assert.Equal(t, acc, got)
}

// TestTransactionDecompositionMatchesDirectList confirms that hashing a
// full 9-element transaction list directly produces the same result as
// computing it in three stages (fields up to tags, seeded with the list9
// tag of the full list, then tags, then data_size/data_root folded on top).
func TestTransactionDecompositionMatchesDirectList(t *testing.T) {
	format := []byte("2")
	owner := []byte("owner-bytes")
	target := []byte{}
	quantity := []byte("0")
	reward := []byte("0")
	lastTx := []byte("last-tx-bytes")
	tagPairs := []any{
		[]any{[]byte("key2"), []byte("value2")},
	}
	dataSize := []byte("1234")
	dataRoot := []byte("data-root-bytes")

	direct := deephash.Hash([]any{
		format, owner, target, quantity, reward, lastTx, tagPairs, dataSize, dataRoot,
	})

	preTagHash := listFold(9, []any{format, owner, target, quantity, reward, lastTx})
	tagHash := deephash.Hash(tagPairs)
	postTagHash := combine(preTagHash, tagHash)
	final := combine(combine(postTagHash, deephash.Hash(dataSize)), deephash.Hash(dataRoot))

	assert.Equal(t, direct, final)
}

func listFold(listLen int, items []any) [48]byte {
	acc := sha512.Sum384([]byte(fmt.Sprintf("list%d", listLen)))
	for _, item := range items {
		acc = combine(acc, deephash.Hash(item))
	}
	return acc
}

func combine(acc, next [48]byte) [48]byte {
	return sha512.Sum384(append(acc[:], next[:]...))
}

func toAnySlice(items [][]byte) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
