// Package factorycontract implements the deterministic wallet factory:
// it deploys per-credential wallet instances at addresses derived from
// (factory address, SHA256(credential ID)), so the same passkey always
// resolves to the same wallet regardless of who calls Deploy (I5).
package factorycontract

import (
	"crypto/sha256"

	"github.com/ethereum/go-ethereum/crypto"

	"passkey-smart-wallet/internal/walletmodel"
)

// Salt computes the CREATE2-style salt for a credential: SHA256 of the
// raw credential ID bytes.
func Salt(credentialID walletmodel.CredentialID) [32]byte {
	return sha256.Sum256(credentialID)
}

// DeriveAddress computes a deterministic wallet address from the
// factory's own address and a salt, mirroring CREATE2's
// keccak256(factory ‖ salt) construction (minus the init-code hash,
// since this module deploys logical wallet instances rather than
// bytecode). This completes what the teacher codebase's
// ComputeCREATE2Address left as a bytecode-dependent stub — here the
// "bytecode" is simply absent, because a wallet instance is a Go value,
// not an EVM contract, so the derivation only needs to bind
// (factory, salt) to stay collision-free across factories.
func DeriveAddress(factoryAddress walletmodel.Address, salt [32]byte) walletmodel.Address {
	preimage := make([]byte, 0, len(factoryAddress)+len(salt))
	preimage = append(preimage, factoryAddress[:]...)
	preimage = append(preimage, salt[:]...)

	digest := crypto.Keccak256(preimage)

	var addr walletmodel.Address
	copy(addr[:], digest[len(digest)-len(addr):])
	return addr
}
