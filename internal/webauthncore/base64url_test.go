package webauthncore

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== Fixture vectors ====================

func TestEncodeNoPad_EmptyHashVector(t *testing.T) {
	assert := assert.New(t)

	sum := sha256.Sum256([]byte(""))
	got := EncodeNoPad(sum[:])

	assert.Equal("47DEQpj8HBSa-_TImW-5JCeuQeRkm5NMpJWZG3hSuFU", string(got))
	assert.Len(got, 43)
}

func TestEncodeNoPad_AllZeros(t *testing.T) {
	assert := assert.New(t)

	input := make([]byte, 32)
	got := EncodeNoPad(input)

	assert.Equal(bytes.Repeat([]byte("A"), 43), got)
}

func TestEncodeNoPad_AllOnes(t *testing.T) {
	assert := assert.New(t)

	input := bytes.Repeat([]byte{0xff}, 32)
	got := EncodeNoPad(input)

	want := bytes.Repeat([]byte("_"), 42)
	want = append(want, '8')
	assert.Equal(want, got)
}

// ==================== Round-trip law ====================

func TestBase64url_RoundTrip(t *testing.T) {
	require := require.New(t)

	lengths := []int{0, 1, 2, 3, 4, 16, 31, 32, 33, 63, 64}
	for _, n := range lengths {
		input := make([]byte, n)
		for i := range input {
			input[i] = byte(i*7 + 1)
		}

		encoded := EncodeNoPad(input)
		decoded, err := DecodeNoPad(encoded)
		require.NoError(err, "length %d", n)
		require.Equal(input, decoded, "length %d", n)
	}
}

func TestEncodeNoPad_32ByteInputIs43Bytes(t *testing.T) {
	assert := assert.New(t)

	input := make([]byte, 32)
	for i := range input {
		input[i] = byte(i)
	}
	assert.Len(EncodeNoPad(input), 43)
}

func TestDecodeNoPad_RejectsInvalidCharacter(t *testing.T) {
	assert := assert.New(t)

	_, err := DecodeNoPad([]byte("not valid base64url!"))
	assert.Error(err)
}
