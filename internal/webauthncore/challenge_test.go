package webauthncore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"passkey-smart-wallet/internal/walletmodel"
)

func TestExtractChallenge_Success(t *testing.T) {
	assert := assert.New(t)

	blob := []byte(`{"type":"webauthn.get","challenge":"abc123_-","origin":"https://example.com"}`)
	got, err := ExtractChallenge(blob)

	assert.NoError(err)
	assert.Equal("abc123_-", string(got))
}

func TestExtractChallenge_MissingNeedle(t *testing.T) {
	assert := assert.New(t)

	blob := []byte(`{"type":"webauthn.get","origin":"https://example.com"}`)
	_, err := ExtractChallenge(blob)

	assert.ErrorIs(err, walletmodel.ErrInvalidClientData)
}

func TestExtractChallenge_UnterminatedValue(t *testing.T) {
	assert := assert.New(t)

	blob := []byte(`{"type":"webauthn.get","challenge":"unterminated`)
	_, err := ExtractChallenge(blob)

	assert.ErrorIs(err, walletmodel.ErrInvalidClientData)
}

func TestVerifyChallengeBinding_MatchAndMismatch(t *testing.T) {
	assert := assert.New(t)

	var payload walletmodel.SignaturePayload
	for i := range payload {
		payload[i] = byte(i)
	}
	encoded := string(EncodeNoPad(payload[:]))

	blob := []byte(`{"type":"webauthn.get","challenge":"` + encoded + `","origin":"https://example.com"}`)
	assert.NoError(VerifyChallengeBinding(blob, payload))

	var other walletmodel.SignaturePayload
	other[0] = 0xff
	assert.ErrorIs(VerifyChallengeBinding(blob, other), walletmodel.ErrChallengeMismatch)
}
