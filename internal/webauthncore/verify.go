package webauthncore

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/sha256"
	"math/big"

	"passkey-smart-wallet/internal/walletmodel"
)

// SignedMessage reconstructs the bytes a WebAuthn authenticator actually
// signs: SHA256(authenticatorData ‖ SHA256(clientDataJSON)).
func SignedMessage(authenticatorData, clientDataJSON []byte) [32]byte {
	clientDataHash := sha256.Sum256(clientDataJSON)

	concat := make([]byte, 0, len(authenticatorData)+len(clientDataHash))
	concat = append(concat, authenticatorData...)
	concat = append(concat, clientDataHash[:]...)

	return sha256.Sum256(concat)
}

// VerifySignature verifies a compact R‖S secp256r1 signature over a
// pre-hashed message. It returns false (never an error) when the
// signature is cryptographically invalid — unlike a host platform's
// native verify primitive, which traps, the standard library's ecdsa
// package can only report failure as a boolean. Callers translate a
// false result into a host-trap-class error rather than a WalletError
// code (see walletcontract.CheckAuth and DESIGN.md's Open Question
// resolution).
func VerifySignature(pub walletmodel.PublicKey, messageHash [32]byte, signature [walletmodel.SignatureLen]byte) bool {
	x := new(big.Int).SetBytes(pub.X())
	y := new(big.Int).SetBytes(pub.Y())

	curve := elliptic.P256()
	if !curve.IsOnCurve(x, y) {
		return false
	}

	ecdsaPub := &ecdsa.PublicKey{Curve: curve, X: x, Y: y}

	r := new(big.Int).SetBytes(signature[:32])
	s := new(big.Int).SetBytes(signature[32:])

	return ecdsa.Verify(ecdsaPub, messageHash[:], r, s)
}
