// Package arcrypto provides the RSA-PSS key management and signing
// operations an Arweave wallet needs: loading a JWK keypair, deriving the
// wallet address, and signing/verifying the deep hash of a transaction.
package arcrypto

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"math/big"
	"os"

	"github.com/everFinance/gojwk"
	"github.com/liteseed/arcore/arerr"
	"github.com/liteseed/arcore/base64url"
)

const keyBits = 4096

// Provider is an Arweave wallet's cryptographic identity: an RSA key pair
// plus the address and owner value derived from its public key.
type Provider struct {
	PrivateKey *rsa.PrivateKey
	PublicKey  *rsa.PublicKey
	address    base64url.Value
}

// Generate creates a fresh 4096-bit RSA key pair and returns both a
// Provider wrapping it and the JWK-encoded bytes a caller can persist to
// disk for later use with FromJWK.
func Generate() (*Provider, []byte, error) {
	key, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return nil, nil, arerr.New(arerr.KeyRejected, "arcrypto.Generate", err)
	}
	jwkBytes, err := marshalJWK(key)
	if err != nil {
		return nil, nil, err
	}
	p, err := FromJWK(jwkBytes)
	if err != nil {
		return nil, nil, err
	}
	return p, jwkBytes, nil
}

// FromPath loads a JWK-formatted private key from disk.
func FromPath(path string) (*Provider, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, arerr.New(arerr.IO, "arcrypto.FromPath", err)
	}
	return FromJWK(b)
}

// FromJWK parses JWK-formatted key bytes into a Provider.
func FromJWK(b []byte) (*Provider, error) {
	key, err := gojwk.Unmarshal(b)
	if err != nil {
		return nil, arerr.New(arerr.KeyRejected, "arcrypto.FromJWK", err)
	}
	rawPub, err := key.DecodePublicKey()
	if err != nil {
		return nil, arerr.New(arerr.KeyRejected, "arcrypto.FromJWK", err)
	}
	publicKey, ok := rawPub.(*rsa.PublicKey)
	if !ok {
		return nil, arerr.New(arerr.KeyRejected, "arcrypto.FromJWK", fmt.Errorf("not an RSA public key"))
	}
	rawPriv, err := key.DecodePrivateKey()
	if err != nil {
		return nil, arerr.New(arerr.KeyRejected, "arcrypto.FromJWK", err)
	}
	privateKey, ok := rawPriv.(*rsa.PrivateKey)
	if !ok {
		return nil, arerr.New(arerr.KeyRejected, "arcrypto.FromJWK", fmt.Errorf("not an RSA private key"))
	}
	return FromPrivateKey(privateKey), nil
}

// FromPrivateKey wraps an existing RSA private key, deriving the public key
// and wallet address from it.
func FromPrivateKey(privateKey *rsa.PrivateKey) *Provider {
	pub := &privateKey.PublicKey
	return &Provider{
		PrivateKey: privateKey,
		PublicKey:  pub,
		address:    addressFromModulus(pub.N.Bytes()),
	}
}

func marshalJWK(key *rsa.PrivateKey) ([]byte, error) {
	jwk, err := gojwk.PrivateKey(key)
	if err != nil {
		return nil, arerr.New(arerr.KeyRejected, "arcrypto.marshalJWK", err)
	}
	data, err := gojwk.Marshal(jwk)
	if err != nil {
		return nil, arerr.New(arerr.KeyRejected, "arcrypto.marshalJWK", err)
	}
	return data, nil
}

// Owner returns the base64url-encoded public key modulus, big-endian
// without a leading zero byte (math/big.Int.Bytes already drops it). This
// is the value that populates a transaction's owner field.
func (p *Provider) Owner() base64url.Value {
	return base64url.FromBytes(p.PublicKey.N.Bytes())
}

// Address returns the wallet's Arweave address: SHA-256 of the owner
// modulus bytes, base64url-encoded.
func (p *Provider) Address() base64url.Value {
	return p.address
}

func addressFromModulus(modulus []byte) base64url.Value {
	sum := SHA256(modulus)
	return base64url.FromBytes(sum[:])
}

// AddressFromOwner derives a wallet address from an owner value without
// needing the full key pair, for verifying transactions signed by others.
func AddressFromOwner(owner base64url.Value) base64url.Value {
	return addressFromModulus(owner.Bytes())
}

// PublicKeyFromOwner reconstructs an RSA public key from an owner value.
// Arweave owner fields always carry exponent 65537 ("AQAB").
func PublicKeyFromOwner(owner base64url.Value) *rsa.PublicKey {
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(owner.Bytes()),
		E: 65537,
	}
}
