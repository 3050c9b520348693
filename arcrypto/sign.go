package arcrypto

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/sha512"

	"github.com/liteseed/arcore/arerr"
	"github.com/liteseed/arcore/base64url"
)

// SHA256 is given its own name here since arcrypto is also home to SHA384
// for the deep hash chain.
func SHA256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// SHA384 is the hash primitive deephash.Hash builds on.
func SHA384(data []byte) [48]byte {
	return sha512.Sum384(data)
}

// Sign computes the RSA-PSS-SHA256 signature of message's SHA-256 digest,
// with an automatic salt length.
func (p *Provider) Sign(message []byte) ([]byte, error) {
	hashed := SHA256(message)
	sig, err := rsa.SignPSS(rand.Reader, p.PrivateKey, crypto.SHA256, hashed[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthAuto,
		Hash:       crypto.SHA256,
	})
	if err != nil {
		return nil, arerr.New(arerr.KeyRejected, "arcrypto.Sign", err)
	}
	return sig, nil
}

// Verify checks an RSA-PSS-SHA256 signature against the owner's public key.
func Verify(owner base64url.Value, message, signature []byte) error {
	hashed := SHA256(message)
	publicKey := PublicKeyFromOwner(owner)
	err := rsa.VerifyPSS(publicKey, crypto.SHA256, hashed[:], signature, &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthAuto,
		Hash:       crypto.SHA256,
	})
	if err != nil {
		return arerr.New(arerr.InvalidHash, "arcrypto.Verify", err)
	}
	return nil
}
