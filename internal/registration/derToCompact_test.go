package registration

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/asn1"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDerToCompact_RoundTripsAgainstRealSignature(t *testing.T) {
	r := require.New(t)

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	r.NoError(err)

	hash := make([]byte, 32)
	_, err = rand.Read(hash)
	r.NoError(err)

	sigR, sigS, err := ecdsa.Sign(rand.Reader, key, hash)
	r.NoError(err)

	der, err := asn1.Marshal(struct{ R, S *big.Int }{sigR, sigS})
	r.NoError(err)

	compact, err := derToCompact(der)
	r.NoError(err)

	gotR := new(big.Int).SetBytes(compact[:32])
	gotS := new(big.Int).SetBytes(compact[32:])
	r.Equal(0, sigR.Cmp(gotR))
	r.Equal(0, sigS.Cmp(gotS))

	valid := ecdsa.Verify(&key.PublicKey, hash, gotR, gotS)
	r.True(valid)
}

func TestDerToCompact_RejectsGarbage(t *testing.T) {
	_, err := derToCompact([]byte{0x01, 0x02, 0x03})
	require.Error(t, err)
}

func TestDerToCompact_PadsShortComponents(t *testing.T) {
	r := require.New(t)

	// A small R (single byte) must still land right-aligned in the
	// first 32 bytes, not left-aligned.
	der, err := asn1.Marshal(struct{ R, S *big.Int }{big.NewInt(7), big.NewInt(9)})
	r.NoError(err)

	compact, err := derToCompact(der)
	r.NoError(err)
	r.Equal(byte(7), compact[31])
	r.Equal(byte(9), compact[63])
	for _, b := range compact[:31] {
		r.Equal(byte(0), b)
	}
}
