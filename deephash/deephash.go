// Package deephash implements Arweave's structural deep hash: a SHA-384
// hash over nested blobs and lists where the byte structure itself, not
// just the leaf bytes, is folded into the result. It is the hash that gets
// RSA-PSS signed to produce a format-2 transaction's signature.
package deephash

import (
	"crypto/sha512"
	"fmt"
	"reflect"
)

// Hash computes the deep hash of v. v must be either []byte (a blob) or a
// slice of values each of which is itself a valid Hash argument (a list,
// recursively). A transaction's tag list hashes as a list of [name, value]
// pairs, each itself a two-element list.
func Hash(v any) [48]byte {
	if blob, ok := v.([]byte); ok {
		return hashBlob(blob)
	}
	items := toSlice(v)
	acc := sha512.Sum384([]byte(fmt.Sprintf("list%d", len(items))))
	for _, item := range items {
		acc = combine(acc, Hash(item))
	}
	return acc
}

func hashBlob(b []byte) [48]byte {
	tagHash := sha512.Sum384([]byte(fmt.Sprintf("blob%d", len(b))))
	dataHash := sha512.Sum384(b)
	return sha512.Sum384(append(tagHash[:], dataHash[:]...))
}

func combine(acc, next [48]byte) [48]byte {
	return sha512.Sum384(append(acc[:], next[:]...))
}

func toSlice(v any) []any {
	rv := reflect.ValueOf(v)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
