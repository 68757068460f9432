package walletmodel

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// PublicKeyLen is the size of a SEC-1 uncompressed secp256r1 point:
// 1-byte prefix + 32-byte X + 32-byte Y.
const PublicKeyLen = 65

// SignatureLen is the size of a compact R‖S secp256r1 signature.
const SignatureLen = 64

// PayloadLen is the size of the host-supplied signature payload hash.
const PayloadLen = 32

// uncompressedPrefix is the mandatory leading byte of a SEC-1
// uncompressed point encoding (I3).
const uncompressedPrefix = 0x04

// PublicKey is a 65-byte SEC-1 uncompressed secp256r1 point:
// 0x04 ‖ X32 ‖ Y32.
type PublicKey [PublicKeyLen]byte

// ParsePublicKey validates length and the I3 prefix invariant.
func ParsePublicKey(raw []byte) (PublicKey, error) {
	var pk PublicKey
	if len(raw) != PublicKeyLen {
		return pk, ErrInvalidPublicKey
	}
	if raw[0] != uncompressedPrefix {
		return pk, ErrInvalidPublicKey
	}
	copy(pk[:], raw)
	return pk, nil
}

// X returns the 32-byte X coordinate.
func (pk PublicKey) X() []byte { return pk[1:33] }

// Y returns the 32-byte Y coordinate.
func (pk PublicKey) Y() []byte { return pk[33:65] }

// SignerKind distinguishes long-lived admin credentials from
// short-lived session credentials.
type SignerKind uint8

const (
	SignerKindAdmin SignerKind = iota
	SignerKindSession
)

func (k SignerKind) String() string {
	switch k {
	case SignerKindAdmin:
		return "admin"
	case SignerKindSession:
		return "session"
	default:
		return "unknown"
	}
}

// Signer is the stored registry entry for one credential ID.
type Signer struct {
	PublicKey PublicKey
	Kind      SignerKind
}

// CredentialID is an opaque, variable-length identifier minted by a
// WebAuthn authenticator. Unique within a wallet and across factory
// deployments.
type CredentialID []byte

// Equal reports whether two credential IDs are byte-identical.
func (c CredentialID) Equal(other CredentialID) bool {
	return bytes.Equal(c, other)
}

// String renders the credential ID for logging (hex would be more
// conventional for arbitrary bytes than the raw runes).
func (c CredentialID) String() string {
	return string(c)
}

// WebAuthnAssertion is the full signed payload submitted by a client on
// every operation that requires wallet authorization.
type WebAuthnAssertion struct {
	// AuthenticatorData is opaque authenticator output, fed verbatim
	// into the signed-message hash.
	AuthenticatorData []byte
	// ClientDataJSON is the UTF-8 JSON blob from the browser's
	// navigator.credentials.get() call. Never parsed as JSON — only
	// scanned for the literal "challenge":"..." substring.
	ClientDataJSON []byte
	// ID is the credential ID of the signer that produced Signature.
	ID CredentialID
	// Signature is the 64-byte compact R‖S secp256r1 signature.
	Signature [SignatureLen]byte
}

// SignaturePayload is the 32-byte hash the host wants the caller to
// authorize, passed into CheckAuth.
type SignaturePayload [PayloadLen]byte

// Address is an opaque contract address, derived deterministically from
// a factory address and a salt (see factorycontract).
type Address [20]byte

func (a Address) String() string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, 2+len(a)*2)
	out[0], out[1] = '0', 'x'
	for i, b := range a {
		out[2+i*2] = hexDigits[b>>4]
		out[3+i*2] = hexDigits[b&0x0f]
	}
	return string(out)
}

// ParseAddress reverses Address.String(), accepting an optional "0x" prefix.
func ParseAddress(s string) (Address, error) {
	var a Address
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if len(s) != len(a)*2 {
		return a, fmt.Errorf("walletmodel: invalid address %q", s)
	}
	if _, err := hex.Decode(a[:], []byte(s)); err != nil {
		return a, fmt.Errorf("walletmodel: invalid address %q: %w", s, err)
	}
	return a, nil
}
