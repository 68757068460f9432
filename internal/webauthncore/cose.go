package webauthncore

import (
	"crypto/elliptic"
	"fmt"
	"math/big"

	"passkey-smart-wallet/internal/walletmodel"
)

// ExtractP256PublicKeyFromCOSE extracts a P-256 public key from a
// WebAuthn COSE_Key structure (RFC 8152 §7), as produced by
// navigator.credentials.create() attestation responses.
//
// For P-256 (ES256) the key is a CBOR map containing:
//   - kty (1): 2  (EC2 — elliptic curve key)
//   - alg (3): -7 (ES256)
//   - crv (-1): 1 (P-256)
//   - x (-2): 32 bytes
//   - y (-3): 32 bytes
//
// Rather than pull in a general CBOR decoder for two fixed-length byte
// strings, this scans for the two label+byte-string markers directly —
// the same approach the credential-id/assertion parsing in this package
// takes toward clientDataJSON.
func ExtractP256PublicKeyFromCOSE(cosePublicKey []byte) (walletmodel.PublicKey, error) {
	var pk walletmodel.PublicKey

	if len(cosePublicKey) < 70 {
		return pk, fmt.Errorf("webauthncore: COSE public key too short: %d bytes", len(cosePublicKey))
	}

	xStart, yStart := -1, -1
	for i := 0; i < len(cosePublicKey)-33; i++ {
		// label -2 (x coordinate): 0x21, followed by byte-string(32) header 0x58 0x20.
		if cosePublicKey[i] == 0x21 && cosePublicKey[i+1] == 0x58 && cosePublicKey[i+2] == 0x20 {
			xStart = i + 3
		}
		// label -3 (y coordinate): 0x22, followed by byte-string(32) header 0x58 0x20.
		if cosePublicKey[i] == 0x22 && cosePublicKey[i+1] == 0x58 && cosePublicKey[i+2] == 0x20 {
			yStart = i + 3
		}
	}

	if xStart == -1 || yStart == -1 {
		return pk, fmt.Errorf("webauthncore: failed to find P-256 coordinates in COSE key (xStart=%d, yStart=%d)", xStart, yStart)
	}

	xBytes := cosePublicKey[xStart : xStart+32]
	yBytes := cosePublicKey[yStart : yStart+32]

	x := new(big.Int).SetBytes(xBytes)
	y := new(big.Int).SetBytes(yBytes)

	if !elliptic.P256().IsOnCurve(x, y) {
		return pk, fmt.Errorf("webauthncore: public key point not on P-256 curve")
	}

	pk[0] = 0x04
	copy(pk[1:33], xBytes)
	copy(pk[33:65], yBytes)

	return pk, nil
}
