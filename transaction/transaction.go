// Package transaction builds, signs, and verifies Arweave format-2
// transactions: the Merkle-chunked, deep-hash-signed unit every upload
// produces.
package transaction

import (
	"context"
	"fmt"

	"github.com/liteseed/arcore/arcrypto"
	"github.com/liteseed/arcore/arerr"
	"github.com/liteseed/arcore/base64url"
	"github.com/liteseed/arcore/contenttype"
	"github.com/liteseed/arcore/deephash"
	"github.com/liteseed/arcore/merkle"
	"github.com/liteseed/arcore/tag"
)

// Format is the only transaction version this module produces or accepts.
const Format = 2

// Transaction is a format-2 Arweave transaction.
type Transaction struct {
	Format    int             `json:"format"`
	ID        base64url.Value `json:"id"`
	LastTx    base64url.Value `json:"last_tx"`
	Owner     base64url.Value `json:"owner"`
	Tags      []tag.Tag       `json:"tags"`
	Target    base64url.Value `json:"target"`
	Quantity  string          `json:"quantity"`
	Data      base64url.Value `json:"data"`
	DataRoot  base64url.Value `json:"data_root"`
	DataSize  string          `json:"data_size"`
	Reward    string          `json:"reward"`
	Signature base64url.Value `json:"signature"`

	Chunks []merkle.Chunk `json:"-"`
	Proofs []merkle.Proof `json:"-"`
}

// Network is the narrow gateway capability CreateFromFile needs: an anchor
// and a price, fetched only when the caller hasn't supplied their own. It
// is defined here, rather than as a concrete dependency on the gateway
// package, because gateway itself depends on this package for
// GetTransaction's return type — a concrete import here would cycle.
type Network interface {
	GetTransactionAnchor(ctx context.Context) (string, error)
	GetTransactionPrice(ctx context.Context, byteLength int) (string, error)
}

// Signer is the narrow crypto capability Sign needs.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	Owner() base64url.Value
}

// CreateFromFile builds an unsigned transaction from file data, sniffing
// its content type, building the Merkle tree for data_root, and fetching
// last_tx/reward from network when the caller doesn't supply them.
func CreateFromFile(ctx context.Context, data []byte, owner base64url.Value, extraTags []tag.Tag, lastTx *base64url.Value, reward *string, network Network) (*Transaction, error) {
	tx := &Transaction{
		Format:   Format,
		Owner:    owner,
		Tags:     contenttype.Tags(data, extraTags),
		Target:   base64url.Value{},
		Quantity: "0",
		Data:     base64url.FromBytes(data),
	}

	if err := tx.PrepareChunks(data); err != nil {
		return nil, err
	}

	if lastTx != nil {
		tx.LastTx = *lastTx
	} else {
		anchor, err := network.GetTransactionAnchor(ctx)
		if err != nil {
			return nil, arerr.New(arerr.Gateway, "transaction.CreateFromFile", err)
		}
		parsed, err := base64url.Parse(anchor)
		if err != nil {
			return nil, arerr.New(arerr.Decode, "transaction.CreateFromFile", err)
		}
		tx.LastTx = parsed
	}

	if reward != nil {
		tx.Reward = *reward
	} else {
		price, err := network.GetTransactionPrice(ctx, len(data))
		if err != nil {
			return nil, arerr.New(arerr.Gateway, "transaction.CreateFromFile", err)
		}
		tx.Reward = price
	}

	return tx, nil
}

// PrepareChunks computes data's Merkle tree and stores DataSize, DataRoot,
// Chunks, and Proofs on tx. CreateFromFile calls this; Sign does not, so a
// caller that changes the payload after construction must call it again.
func (tx *Transaction) PrepareChunks(data []byte) error {
	tree, err := merkle.Generate(data)
	if err != nil {
		return arerr.New(arerr.InvalidProof, "transaction.PrepareChunks", err)
	}
	tx.DataSize = fmt.Sprint(len(data))
	tx.DataRoot = base64url.FromBytes(tree.DataRoot[:])
	tx.Chunks = tree.Chunks
	tx.Proofs = tree.Proofs
	return nil
}

// Sign computes the transaction's deep hash, signs it, and sets ID and
// Signature.
func (tx *Transaction) Sign(signer Signer) error {
	tx.Owner = signer.Owner()
	payload, err := tx.signatureData()
	if err != nil {
		return err
	}
	sig, err := signer.Sign(payload)
	if err != nil {
		return arerr.New(arerr.KeyRejected, "transaction.Sign", err)
	}
	idHash := arcrypto.SHA256(sig)
	tx.ID = base64url.FromBytes(idHash[:])
	tx.Signature = base64url.FromBytes(sig)
	return nil
}

// Verify checks the transaction's signature against its own Owner field.
func (tx *Transaction) Verify() error {
	payload, err := tx.signatureData()
	if err != nil {
		return err
	}
	return arcrypto.Verify(tx.Owner, payload, tx.Signature.Bytes())
}

// signatureData builds the deep hash input: the 9-element structural list
// of format, owner, target, quantity, reward, last_tx, tags, data_size,
// data_root.
func (tx *Transaction) signatureData() ([]byte, error) {
	if tx.Format != Format {
		return nil, arerr.New(arerr.InvalidInput, "transaction.signatureData", fmt.Errorf("unsupported format %d", tx.Format))
	}

	tagPairs := tag.RawPairs(tx.Tags)
	tagList := make([]any, len(tagPairs))
	for i, pair := range tagPairs {
		tagList[i] = []any{pair[0], pair[1]}
	}

	chunks := []any{
		[]byte(fmt.Sprint(tx.Format)),
		tx.Owner.Bytes(),
		tx.Target.Bytes(),
		[]byte(tx.Quantity),
		[]byte(tx.Reward),
		tx.LastTx.Bytes(),
		tagList,
		[]byte(tx.DataSize),
		tx.DataRoot.Bytes(),
	}

	hash := deephash.Hash(chunks)
	return hash[:], nil
}
