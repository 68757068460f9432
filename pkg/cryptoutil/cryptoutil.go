// Package cryptoutil holds small crypto helpers shared by the HTTP
// bridge layer. Unlike a custodial wallet backend, this module never
// holds or encrypts a user private key — passkey private keys live in
// the device's secure enclave/TPM and never reach this process — so
// only the token-minting and address-validation helpers survive from
// the teacher's original crypto package.
package cryptoutil

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/ethereum/go-ethereum/common"
)

// GenerateRandomToken mints a random, URL-safe session token.
func GenerateRandomToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// IsValidAddress reports whether address is a well-formed hex address.
func IsValidAddress(address string) bool {
	return common.IsHexAddress(address)
}
