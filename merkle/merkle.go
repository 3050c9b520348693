// Package merkle builds the Arweave data_root Merkle tree: payloads are
// split into 256KiB chunks (rebalanced so that, when there is more than
// one chunk, the final chunk does not drop below 32KiB), hashed into a
// binary tree, and a proof path is generated for every leaf.
package merkle

import (
	"encoding/binary"
	"math"

	"github.com/liteseed/arcore/arcrypto"
)

const (
	// MaxChunkSize is the largest size, in bytes, of any chunk.
	MaxChunkSize = 256 * 1024
	// MinChunkSize is the size, in bytes, below which a final chunk
	// triggers rebalancing of the last two chunks into two halves.
	MinChunkSize = 32 * 1024
	noteSize     = 32
	hashSize     = 32
)

// NodeType distinguishes a tree leaf (one data chunk) from a branch (the
// hash of two children).
type NodeType int

const (
	Leaf NodeType = iota
	Branch
)

// Chunk is one data segment and its byte range within the original payload.
type Chunk struct {
	DataHash     [32]byte
	MinByteRange int64
	MaxByteRange int64
}

// Node is a tree node: a leaf carries a chunk's data hash, a branch carries
// its two children and the byte offset dividing them.
type Node struct {
	ID               [32]byte
	Type             NodeType
	DataHash         [32]byte // leaf only
	MaxByteRange     int64
	LeftChild        *Node // branch only
	RightChild       *Node // branch only
	LeftMaxByteRange int64 // branch only: left child's MaxByteRange
}

// Proof is the byte-string a downloader presents to prove a chunk at
// Offset belongs under data_root.
type Proof struct {
	Offset int64
	Proof  []byte
}

// Tree is the fully materialized chunking of one payload.
type Tree struct {
	Root     *Node
	Chunks   []Chunk
	Proofs   []Proof
	DataRoot [32]byte
}

// Generate splits data into chunks, builds the Merkle tree, and derives a
// proof for every leaf. An empty payload produces a single zero-length
// chunk and leaf.
func Generate(data []byte) (*Tree, error) {
	chunks := chunkData(data)
	leaves := generateLeaves(chunks)
	root := buildLayer(leaves)
	proofs := generateProofs(root, nil)

	// A trailing zero-length chunk only appears when len(data) is a
	// nonzero multiple of MaxChunkSize; a genuinely empty payload yields
	// exactly one (zero-length) chunk, which must be kept.
	if len(chunks) > 1 {
		last := chunks[len(chunks)-1]
		if last.MaxByteRange-last.MinByteRange == 0 {
			chunks = chunks[:len(chunks)-1]
			proofs = proofs[:len(proofs)-1]
		}
	}

	return &Tree{
		Root:     root,
		Chunks:   chunks,
		Proofs:   proofs,
		DataRoot: root.ID,
	}, nil
}

func chunkData(data []byte) []Chunk {
	chunks := make([]Chunk, 0)
	rest := data
	var cursor int64

	for int64(len(rest)) >= MaxChunkSize {
		chunkSize := MaxChunkSize
		byteLength := len(rest)

		nextChunkSize := byteLength - MaxChunkSize
		if nextChunkSize > 0 && nextChunkSize < MinChunkSize {
			chunkSize = int(math.Ceil(float64(byteLength) / 2))
		}

		chunk := rest[:chunkSize]
		hash := arcrypto.SHA256(chunk)
		cursor += int64(len(chunk))
		chunks = append(chunks, Chunk{
			DataHash:     hash,
			MinByteRange: cursor - int64(len(chunk)),
			MaxByteRange: cursor,
		})
		rest = rest[chunkSize:]
	}

	hash := arcrypto.SHA256(rest)
	chunks = append(chunks, Chunk{
		DataHash:     hash,
		MinByteRange: cursor,
		MaxByteRange: cursor + int64(len(rest)),
	})
	return chunks
}

func generateLeaves(chunks []Chunk) []*Node {
	leaves := make([]*Node, len(chunks))
	for i, chunk := range chunks {
		dataHashHash := arcrypto.SHA256(chunk.DataHash[:])
		rangeHash := arcrypto.SHA256(note(chunk.MaxByteRange))
		id := arcrypto.SHA256(append(dataHashHash[:], rangeHash[:]...))
		leaves[i] = &Node{
			ID:           id,
			DataHash:     chunk.DataHash,
			MaxByteRange: chunk.MaxByteRange,
			Type:         Leaf,
		}
	}
	return leaves
}

func buildLayer(nodes []*Node) *Node {
	if len(nodes) == 1 {
		return nodes[0]
	}
	next := make([]*Node, 0, (len(nodes)+1)/2)
	for i := 0; i < len(nodes); i += 2 {
		if i+1 < len(nodes) {
			next = append(next, hashBranch(nodes[i], nodes[i+1]))
		} else {
			next = append(next, nodes[i])
		}
	}
	return buildLayer(next)
}

func hashBranch(left, right *Node) *Node {
	leftIDHash := arcrypto.SHA256(left.ID[:])
	rightIDHash := arcrypto.SHA256(right.ID[:])
	leftRangeHash := arcrypto.SHA256(note(left.MaxByteRange))

	combined := append(append(append([]byte{}, leftIDHash[:]...), rightIDHash[:]...), leftRangeHash[:]...)
	id := arcrypto.SHA256(combined)

	return &Node{
		ID:               id,
		Type:             Branch,
		LeftChild:        left,
		RightChild:       right,
		LeftMaxByteRange: left.MaxByteRange,
		MaxByteRange:     right.MaxByteRange,
	}
}

func generateProofs(node *Node, prefix []byte) []Proof {
	if node.Type == Leaf {
		p := append(append([]byte{}, prefix...), node.DataHash[:]...)
		p = append(p, note(node.MaxByteRange)...)
		return []Proof{{Offset: node.MaxByteRange - 1, Proof: p}}
	}
	partial := append(append([]byte{}, prefix...), node.LeftChild.ID[:]...)
	partial = append(partial, node.RightChild.ID[:]...)
	partial = append(partial, note(node.LeftMaxByteRange)...)

	proofs := generateProofs(node.LeftChild, partial)
	return append(proofs, generateProofs(node.RightChild, partial)...)
}

// note encodes n as a 32-byte big-endian integer.
func note(n int64) []byte {
	buf := make([]byte, noteSize)
	binary.BigEndian.PutUint64(buf[noteSize-8:], uint64(n))
	return buf
}
