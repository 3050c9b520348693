package merkle

import (
	"bytes"
	"encoding/binary"

	"github.com/liteseed/arcore/arcrypto"
)

// VerifyProof walks a single proof path and reports whether it reproduces
// root starting from the implicit root node.
func VerifyProof(root [32]byte, destOffset, rightBound int64, path []byte) bool {
	return verifyPath(root, destOffset, 0, rightBound, path)
}

func verifyPath(id [32]byte, dest, leftBound, rightBound int64, path []byte) bool {
	if rightBound <= 0 {
		return false
	}
	if dest >= rightBound {
		return verifyPath(id, 0, rightBound-1, rightBound, path)
	}
	if dest < 0 {
		return verifyPath(id, 0, 0, rightBound, path)
	}

	if len(path) == hashSize+noteSize {
		dataHash := path[:hashSize]
		endOffsetBuf := path[hashSize : hashSize+noteSize]

		dataHashHash := arcrypto.SHA256(dataHash)
		endOffsetHash := arcrypto.SHA256(endOffsetBuf)
		computed := arcrypto.SHA256(append(append([]byte{}, dataHashHash[:]...), endOffsetHash[:]...))

		return bytes.Equal(id[:], computed[:])
	}

	if len(path) < 2*hashSize+noteSize {
		return false
	}
	left := path[:hashSize]
	right := path[hashSize : 2*hashSize]
	offsetBuf := path[2*hashSize : 2*hashSize+noteSize]
	remainder := path[2*hashSize+noteSize:]
	offset := decodeNote(offsetBuf)

	leftHash := arcrypto.SHA256(left)
	rightHash := arcrypto.SHA256(right)
	offsetHash := arcrypto.SHA256(offsetBuf)
	combined := append(append(append([]byte{}, leftHash[:]...), rightHash[:]...), offsetHash[:]...)
	computed := arcrypto.SHA256(combined)

	if !bytes.Equal(id[:], computed[:]) {
		return false
	}

	var leftID, rightID [32]byte
	copy(leftID[:], left)
	copy(rightID[:], right)

	if dest < offset {
		return verifyPath(leftID, dest, leftBound, min64(rightBound, offset), remainder)
	}
	return verifyPath(rightID, dest, max64(leftBound, offset), rightBound, remainder)
}

func decodeNote(buf []byte) int64 {
	return int64(binary.BigEndian.Uint64(buf[noteSize-8:]))
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
