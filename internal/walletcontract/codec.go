package walletcontract

import (
	"fmt"

	"passkey-smart-wallet/internal/walletmodel"
)

// encodeSigner serializes a Signer to its storage representation: one
// kind byte followed by the 65-byte public key.
func encodeSigner(s walletmodel.Signer) []byte {
	out := make([]byte, 0, 1+walletmodel.PublicKeyLen)
	out = append(out, byte(s.Kind))
	out = append(out, s.PublicKey[:]...)
	return out
}

func decodeSigner(raw []byte) (walletmodel.Signer, error) {
	var s walletmodel.Signer
	if len(raw) != 1+walletmodel.PublicKeyLen {
		return s, fmt.Errorf("walletcontract: corrupt signer record (%d bytes)", len(raw))
	}
	s.Kind = walletmodel.SignerKind(raw[0])
	copy(s.PublicKey[:], raw[1:])
	return s, nil
}

func encodeUint32(n uint32) []byte {
	return []byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
}

func decodeUint32(raw []byte) uint32 {
	if len(raw) != 4 {
		return 0
	}
	return uint32(raw[0])<<24 | uint32(raw[1])<<16 | uint32(raw[2])<<8 | uint32(raw[3])
}

func credentialKey(id walletmodel.CredentialID) string {
	return "signer:" + id.String()
}

const (
	instanceKeyWalletAddress = "wallet_address"
	instanceKeyAdminCount    = "admin_signer_count"
)
