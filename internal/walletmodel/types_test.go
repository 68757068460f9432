package walletmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePublicKey_RejectsBadPrefixAndLength(t *testing.T) {
	a := assert.New(t)

	raw := make([]byte, PublicKeyLen)
	raw[0] = 0x04
	_, err := ParsePublicKey(raw)
	a.NoError(err)

	raw[0] = 0x02
	_, err = ParsePublicKey(raw)
	a.ErrorIs(err, ErrInvalidPublicKey)

	_, err = ParsePublicKey(make([]byte, 64))
	a.ErrorIs(err, ErrInvalidPublicKey)
}

func TestAddress_StringParseRoundTrip(t *testing.T) {
	r := require.New(t)

	var addr Address
	for i := range addr {
		addr[i] = byte(i)
	}

	parsed, err := ParseAddress(addr.String())
	r.NoError(err)
	r.Equal(addr, parsed)

	// Accepts without the 0x prefix too.
	parsed2, err := ParseAddress(addr.String()[2:])
	r.NoError(err)
	r.Equal(addr, parsed2)
}

func TestParseAddress_RejectsWrongLength(t *testing.T) {
	_, err := ParseAddress("0xabc")
	require.Error(t, err)
}

func TestCredentialID_Equal(t *testing.T) {
	a := assert.New(t)

	c1 := CredentialID([]byte{1, 2, 3})
	c2 := CredentialID([]byte{1, 2, 3})
	c3 := CredentialID([]byte{1, 2, 4})

	a.True(c1.Equal(c2))
	a.False(c1.Equal(c3))
}
