package webauthncore

import "errors"

var (
	errInvalidBase64Length = errors.New("webauthncore: invalid base64url length")
	errInvalidBase64Char   = errors.New("webauthncore: invalid base64url character")
)

// challengeNeedle is the literal prefix the clientDataJSON scan looks
// for. Deliberately not parsed as JSON — the authenticator signs the
// exact bytes, so normalization of any kind would desync the hash.
const challengeNeedle = `"challenge":"`
