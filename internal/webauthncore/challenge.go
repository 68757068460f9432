package webauthncore

import (
	"bytes"

	"passkey-smart-wallet/internal/walletmodel"
)

// ExtractChallenge locates the literal `"challenge":"..."` substring in
// clientDataJSON and returns the bytes between the quotes. It never
// parses the blob as JSON: the authenticator signs the byte-exact
// clientDataJSON, so unescaping or re-encoding it would desync the
// signed message from what gets verified.
func ExtractChallenge(clientDataJSON []byte) ([]byte, error) {
	idx := bytes.Index(clientDataJSON, []byte(challengeNeedle))
	if idx < 0 {
		return nil, walletmodel.ErrInvalidClientData
	}
	start := idx + len(challengeNeedle)

	end := bytes.IndexByte(clientDataJSON[start:], '"')
	if end < 0 {
		return nil, walletmodel.ErrInvalidClientData
	}

	return clientDataJSON[start : start+end], nil
}

// VerifyChallengeBinding checks that the challenge embedded in
// clientDataJSON matches base64url_no_pad(payload) exactly.
func VerifyChallengeBinding(clientDataJSON []byte, payload walletmodel.SignaturePayload) error {
	challenge, err := ExtractChallenge(clientDataJSON)
	if err != nil {
		return err
	}

	expected := EncodeNoPad(payload[:])
	if !bytes.Equal(challenge, expected) {
		return walletmodel.ErrChallengeMismatch
	}
	return nil
}
