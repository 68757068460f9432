package factorycontract

import (
	"context"

	"passkey-smart-wallet/internal/ledger"
	"passkey-smart-wallet/internal/walletcontract"
	"passkey-smart-wallet/internal/walletmodel"
)

const (
	instanceKeyWalletBinaryHash = "wallet_binary_hash"
)

func deployedKey(credentialID walletmodel.CredentialID) string {
	return "deployed:" + credentialID.String()
}

// Factory deploys per-credential wallet instances at deterministic
// addresses and tracks the credential→address mapping.
type Factory struct {
	Address string
	ledger  *ledger.Ledger
}

// New binds a Factory to its own ledger namespace. The same *ledger.Ledger
// backs every wallet it deploys — namespacing by address keeps each
// wallet's storage isolated from the factory's own (§5).
func New(address string, l *ledger.Ledger) *Factory {
	return &Factory{Address: address, ledger: l}
}

// Init stores the wallet binary hash. A second call traps: the panic
// is recovered by the ledger transaction and returned as a
// HostTrapError, matching the reference factory's "not recoverable
// client error" posture (§4.4, §7).
func (f *Factory) Init(ctx context.Context, walletBinaryHash [32]byte) error {
	return f.ledger.WithTransaction(ctx, f.Address, func(txn *ledger.Txn) error {
		if _, found, err := txn.Get(ledger.TierInstance, f.Address, instanceKeyWalletBinaryHash); err != nil {
			return err
		} else if found {
			panic(walletmodel.NewHostTrap("factory already initialized"))
		}
		txn.StageSet(ledger.TierInstance, f.Address, instanceKeyWalletBinaryHash, walletBinaryHash[:], ledger.NoExpiry)
		return nil
	})
}

// Deploy creates a new wallet at a deterministic address and
// initializes it with the first admin credential. Deploying twice for
// the same credential fails atomically — the inner Init call surfaces
// AlreadyInitialized and nothing is recorded in the Deployed map.
func (f *Factory) Deploy(ctx context.Context, credentialID walletmodel.CredentialID, publicKey walletmodel.PublicKey) (walletmodel.Address, error) {
	var addr walletmodel.Address

	err := f.ledger.WithTransaction(ctx, f.Address, func(txn *ledger.Txn) error {
		_, found, err := txn.Get(ledger.TierInstance, f.Address, instanceKeyWalletBinaryHash)
		if err != nil {
			return err
		}
		if !found {
			panic(walletmodel.NewHostTrap("factory not initialized"))
		}
		return nil
	})
	if err != nil {
		return walletmodel.Address{}, err
	}

	var factoryAddr walletmodel.Address
	copy(factoryAddr[:], []byte(f.Address))

	salt := Salt(credentialID)
	addr = DeriveAddress(factoryAddr, salt)

	wallet := walletcontract.New(addr.String(), f.ledger)
	if err := wallet.Init(ctx, credentialID, publicKey); err != nil {
		return walletmodel.Address{}, err
	}

	err = f.ledger.WithTransaction(ctx, f.Address, func(txn *ledger.Txn) error {
		key := deployedKey(credentialID)
		txn.StageSet(ledger.TierPersistent, f.Address, key, addr[:], ledger.DeployedPolicy.Extend)
		txn.StageExtendTTL(ledger.TierPersistent, f.Address, key, ledger.DeployedPolicy)
		return nil
	})
	if err != nil {
		return walletmodel.Address{}, err
	}

	return addr, nil
}

// GetWallet looks up the wallet address deployed for a credential ID,
// extending the mapping's TTL on every hit so active lookups keep the
// index from being archived.
func (f *Factory) GetWallet(ctx context.Context, credentialID walletmodel.CredentialID) (walletmodel.Address, bool, error) {
	var addr walletmodel.Address
	var found bool

	err := f.ledger.WithTransaction(ctx, f.Address, func(txn *ledger.Txn) error {
		key := deployedKey(credentialID)
		raw, ok, err := txn.Get(ledger.TierPersistent, f.Address, key)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		found = true
		copy(addr[:], raw)
		txn.StageExtendTTL(ledger.TierPersistent, f.Address, key, ledger.DeployedPolicy)
		return nil
	})

	return addr, found, err
}
