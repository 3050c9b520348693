package arcrypto_test

import (
	"testing"

	"github.com/liteseed/arcore/arcrypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRoundTrip(t *testing.T) {
	p, jwkBytes, err := arcrypto.Generate()
	require.NoError(t, err)
	require.NotEmpty(t, jwkBytes)
	assert.False(t, p.Owner().IsZero())
	assert.False(t, p.Address().IsZero())

	reloaded, err := arcrypto.FromJWK(jwkBytes)
	require.NoError(t, err)
	assert.True(t, p.Owner().Equal(reloaded.Owner()))
	assert.True(t, p.Address().Equal(reloaded.Address()))
}

func TestFromJWKInvalidData(t *testing.T) {
	_, err := arcrypto.FromJWK([]byte("not a jwk"))
	assert.Error(t, err)
}

func TestFromPathMissingFile(t *testing.T) {
	_, err := arcrypto.FromPath("does-not-exist.json")
	assert.Error(t, err)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	p, _, err := arcrypto.Generate()
	require.NoError(t, err)

	message := []byte("signature data for a transaction")
	sig, err := p.Sign(message)
	require.NoError(t, err)

	err = arcrypto.Verify(p.Owner(), message, sig)
	assert.NoError(t, err)
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	p, _, err := arcrypto.Generate()
	require.NoError(t, err)

	sig, err := p.Sign([]byte("original"))
	require.NoError(t, err)

	err = arcrypto.Verify(p.Owner(), []byte("tampered"), sig)
	assert.Error(t, err)
}

func TestAddressFromOwnerMatchesProvider(t *testing.T) {
	p, _, err := arcrypto.Generate()
	require.NoError(t, err)

	derived := arcrypto.AddressFromOwner(p.Owner())
	assert.True(t, derived.Equal(p.Address()))
}
