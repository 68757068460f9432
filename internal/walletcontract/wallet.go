// Package walletcontract implements the smart wallet account: a signer
// registry with dual-tier TTL storage and the custom-account
// verification routine the host invokes to authorize every operation.
package walletcontract

import (
	"context"

	"passkey-smart-wallet/internal/ledger"
	"passkey-smart-wallet/internal/walletmodel"
	"passkey-smart-wallet/internal/webauthncore"
)

// Wallet is one deployed smart wallet instance. Address is both its
// identity and the ledger namespace that isolates its storage from
// every other wallet (§5 Shared resource policy).
type Wallet struct {
	Address string
	ledger  *ledger.Ledger
}

// New binds a Wallet to its ledger namespace. It does not initialize
// storage — call Init for that.
func New(address string, l *ledger.Ledger) *Wallet {
	return &Wallet{Address: address, ledger: l}
}

// Init stores the first admin signer. It is the only operation that
// requires no authorization, because it is unreachable a second time:
// the AlreadyInitialized guard makes it single-shot (§4.1).
func (w *Wallet) Init(ctx context.Context, credentialID walletmodel.CredentialID, publicKey walletmodel.PublicKey) error {
	return w.ledger.WithTransaction(ctx, w.Address, func(txn *ledger.Txn) error {
		if _, found, err := txn.Get(ledger.TierInstance, w.Address, instanceKeyWalletAddress); err != nil {
			return err
		} else if found {
			return walletmodel.ErrAlreadyInitialized
		}

		if publicKey[0] != 0x04 {
			return walletmodel.ErrInvalidPublicKey
		}

		txn.StageSet(ledger.TierInstance, w.Address, instanceKeyWalletAddress, []byte(w.Address), ledger.AdminPolicy.Extend)

		signer := walletmodel.Signer{PublicKey: publicKey, Kind: walletmodel.SignerKindAdmin}
		key := credentialKey(credentialID)
		txn.StageSet(ledger.TierPersistent, w.Address, key, encodeSigner(signer), ledger.AdminPolicy.Extend)
		txn.StageExtendTTL(ledger.TierPersistent, w.Address, key, ledger.AdminPolicy)

		txn.StageSet(ledger.TierInstance, w.Address, instanceKeyAdminCount, encodeUint32(1), ledger.NoExpiry)

		return nil
	})
}

// AddSigner registers a new long-lived admin credential. Requires
// wallet self-authorization (§4.2) — callers must have already
// succeeded a CheckAuth call for this wallet's own address before
// invoking this method; that gate lives in the caller (registration
// bridge / host), not here, matching the original contract where
// require_auth is a precondition enforced by the platform.
func (w *Wallet) AddSigner(ctx context.Context, credentialID walletmodel.CredentialID, publicKey walletmodel.PublicKey) error {
	return w.ledger.WithTransaction(ctx, w.Address, func(txn *ledger.Txn) error {
		if publicKey[0] != 0x04 {
			return walletmodel.ErrInvalidPublicKey
		}

		key := credentialKey(credentialID)
		if _, found, err := txn.Get(ledger.TierPersistent, w.Address, key); err != nil {
			return err
		} else if found {
			return walletmodel.ErrSignerAlreadyExists
		}
		if _, found, err := txn.Get(ledger.TierTemporary, w.Address, key); err != nil {
			return err
		} else if found {
			return walletmodel.ErrSignerAlreadyExists // preserves I1
		}

		signer := walletmodel.Signer{PublicKey: publicKey, Kind: walletmodel.SignerKindAdmin}
		txn.StageSet(ledger.TierPersistent, w.Address, key, encodeSigner(signer), ledger.AdminPolicy.Extend)
		txn.StageExtendTTL(ledger.TierPersistent, w.Address, key, ledger.AdminPolicy)

		count, _, err := txn.Get(ledger.TierInstance, w.Address, instanceKeyAdminCount)
		if err != nil {
			return err
		}
		txn.StageSet(ledger.TierInstance, w.Address, instanceKeyAdminCount, encodeUint32(decodeUint32(count)+1), ledger.NoExpiry)

		return nil
	})
}

// AddSessionSigner registers a new short-lived session credential.
// Requires wallet self-authorization.
func (w *Wallet) AddSessionSigner(ctx context.Context, credentialID walletmodel.CredentialID, publicKey walletmodel.PublicKey) error {
	return w.ledger.WithTransaction(ctx, w.Address, func(txn *ledger.Txn) error {
		if publicKey[0] != 0x04 {
			return walletmodel.ErrInvalidPublicKey
		}

		key := credentialKey(credentialID)

		if _, found, err := txn.Get(ledger.TierPersistent, w.Address, key); err != nil {
			return err
		} else if found {
			return walletmodel.ErrSignerAlreadyExists // preserves I1
		}
		if _, found, err := txn.Get(ledger.TierTemporary, w.Address, key); err != nil {
			return err
		} else if found {
			return walletmodel.ErrSignerAlreadyExists
		}

		signer := walletmodel.Signer{PublicKey: publicKey, Kind: walletmodel.SignerKindSession}
		txn.StageSet(ledger.TierTemporary, w.Address, key, encodeSigner(signer), ledger.SessionPolicy.Extend)
		txn.StageExtendTTL(ledger.TierTemporary, w.Address, key, ledger.SessionPolicy)

		return nil
	})
}

// RemoveSigner deletes a signer by credential ID. Requires wallet
// self-authorization. Enforces I2: the last admin signer can never be
// removed (the retrieved Rust reference this module is grounded on
// omits this check entirely — DESIGN.md records that as a resolved
// open question, not a behavior this module repeats).
func (w *Wallet) RemoveSigner(ctx context.Context, credentialID walletmodel.CredentialID) error {
	return w.ledger.WithTransaction(ctx, w.Address, func(txn *ledger.Txn) error {
		key := credentialKey(credentialID)

		raw, found, err := txn.Get(ledger.TierPersistent, w.Address, key)
		if err != nil {
			return err
		}
		if found {
			signer, err := decodeSigner(raw)
			if err != nil {
				return err
			}
			if signer.Kind == walletmodel.SignerKindAdmin {
				countRaw, _, err := txn.Get(ledger.TierInstance, w.Address, instanceKeyAdminCount)
				if err != nil {
					return err
				}
				count := decodeUint32(countRaw)
				if count <= 1 {
					return walletmodel.ErrLastAdminSigner
				}
				txn.StageSet(ledger.TierInstance, w.Address, instanceKeyAdminCount, encodeUint32(count-1), ledger.NoExpiry)
			}
			txn.StageDelete(ledger.TierPersistent, w.Address, key)
			return nil
		}

		if _, found, err := txn.Get(ledger.TierTemporary, w.Address, key); err != nil {
			return err
		} else if found {
			txn.StageDelete(ledger.TierTemporary, w.Address, key)
			return nil
		}

		return walletmodel.ErrSignerNotFound
	})
}

// CheckAuth is the custom-account verification hook (__check_auth):
// the hot path run on every operation that requires this wallet's
// authority. Step ordering is contractual — each step must fail before
// the next is attempted (§4.3).
func (w *Wallet) CheckAuth(ctx context.Context, payload walletmodel.SignaturePayload, assertion walletmodel.WebAuthnAssertion) error {
	return w.ledger.WithTransaction(ctx, w.Address, func(txn *ledger.Txn) error {
		// Step A — resolve signer: persistent wins, then temporary.
		key := credentialKey(assertion.ID)

		raw, found, err := txn.Get(ledger.TierPersistent, w.Address, key)
		tier := ledger.TierPersistent
		if err != nil {
			return err
		}
		if !found {
			raw, found, err = txn.Get(ledger.TierTemporary, w.Address, key)
			if err != nil {
				return err
			}
			tier = ledger.TierTemporary
		}
		if !found {
			return walletmodel.ErrSignerNotFound
		}
		signer, err := decodeSigner(raw)
		if err != nil {
			return err
		}

		// Step B — challenge binding.
		if err := webauthncore.VerifyChallengeBinding(assertion.ClientDataJSON, payload); err != nil {
			return err
		}

		// Step C — reconstruct signed message.
		messageHash := webauthncore.SignedMessage(assertion.AuthenticatorData, assertion.ClientDataJSON)

		// Step D — verify secp256r1 signature. A boolean false is a
		// cryptographic failure, not a taxonomized WalletError — it
		// propagates as a host trap (§7, DESIGN.md Open Question #2).
		if !webauthncore.VerifySignature(signer.PublicKey, messageHash, assertion.Signature) {
			return walletmodel.NewHostTrap("secp256r1 signature verification failed")
		}

		// Step E — TTL refresh.
		switch signer.Kind {
		case walletmodel.SignerKindAdmin:
			txn.StageExtendTTL(tier, w.Address, key, ledger.AdminPolicy)
			txn.StageExtendTTL(ledger.TierInstance, w.Address, instanceKeyWalletAddress, ledger.AdminPolicy)
		case walletmodel.SignerKindSession:
			txn.StageExtendTTL(tier, w.Address, key, ledger.SessionPolicy)
		}

		return nil
	})
}
