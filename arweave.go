// Package arweave is the module's public entry point: an Arweave value
// wires a signing key (arcrypto.Provider) and a gateway client together,
// exposing upload/refresh pipelines and simple passthrough queries.
package arweave

import (
	"context"

	"github.com/liteseed/arcore/arcrypto"
	"github.com/liteseed/arcore/base64url"
	"github.com/liteseed/arcore/gateway"
	"github.com/liteseed/arcore/pipeline"
	"github.com/liteseed/arcore/status"
)

// Arweave is the module's top-level handle: a wallet signing key paired
// with a gateway client.
type Arweave struct {
	Gateway *gateway.Client
	Signer  *arcrypto.Provider
}

// New builds an Arweave value from JWK key bytes and a gateway base URL
// (which must end in "/").
func New(jwkBytes []byte, baseURL string) (*Arweave, error) {
	signer, err := arcrypto.FromJWK(jwkBytes)
	if err != nil {
		return nil, err
	}
	gw, err := gateway.New(baseURL)
	if err != nil {
		return nil, err
	}
	return &Arweave{Gateway: gw, Signer: signer}, nil
}

// FromPath is New, loading the JWK from a file path.
func FromPath(keyPath, baseURL string) (*Arweave, error) {
	signer, err := arcrypto.FromPath(keyPath)
	if err != nil {
		return nil, err
	}
	gw, err := gateway.New(baseURL)
	if err != nil {
		return nil, err
	}
	return &Arweave{Gateway: gw, Signer: signer}, nil
}

// Address returns the wallet's Arweave address.
func (a *Arweave) Address() base64url.Value {
	return a.Signer.Address()
}

// Pipeline builds a pipeline.Driver for uploads/refreshes against this
// wallet and gateway. logDir is optional; pass "" to run without a status
// store (upload-only, no refresh/filter support).
func (a *Arweave) Pipeline(logDir string, cfg pipeline.Config) *pipeline.Driver {
	var store *status.Store
	if logDir != "" {
		store = status.NewStore(logDir)
	}
	return pipeline.New(a.Gateway, a.Signer, store, cfg)
}

// Balance returns this wallet's confirmed balance in winstons.
func (a *Arweave) Balance(ctx context.Context) (string, error) {
	return a.Gateway.GetWalletBalance(ctx, a.Address().String())
}

// Price quotes the reward, in winstons, to store byteLength bytes.
func (a *Arweave) Price(ctx context.Context, byteLength int) (string, error) {
	return a.Gateway.GetTransactionPrice(ctx, byteLength)
}
