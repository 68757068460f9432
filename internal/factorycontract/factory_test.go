package factorycontract

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passkey-smart-wallet/internal/ledger"
	"passkey-smart-wallet/internal/walletmodel"
)

func testPublicKey(t *testing.T) walletmodel.PublicKey {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	var pk walletmodel.PublicKey
	pk[0] = 0x04
	xBytes := priv.X.Bytes()
	yBytes := priv.Y.Bytes()
	copy(pk[1+32-len(xBytes):33], xBytes)
	copy(pk[33+32-len(yBytes):65], yBytes)
	return pk
}

var binaryHash = [32]byte{1, 2, 3}

func TestFactory_Deploy_Determinism(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	f1 := New("factory-shared", ledger.NewInMemory())
	f2 := New("factory-shared", ledger.NewInMemory())
	require.NoError(t, f1.Init(ctx, binaryHash))
	require.NoError(t, f2.Init(ctx, binaryHash))

	cred := walletmodel.CredentialID("cred-X")
	addr1, err := f1.Deploy(ctx, cred, testPublicKey(t))
	require.NoError(t, err)
	addr2, err := f2.Deploy(ctx, cred, testPublicKey(t))
	require.NoError(t, err)

	assert.Equal(addr1, addr2, "same credential + same factory address must deploy to the same wallet address regardless of public key")
}

func TestFactory_Deploy_DifferentCredentialsDifferentAddresses(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	f := New("factory-1", ledger.NewInMemory())
	require.NoError(t, f.Init(ctx, binaryHash))

	addrA, err := f.Deploy(ctx, walletmodel.CredentialID("A"), testPublicKey(t))
	require.NoError(t, err)
	addrB, err := f.Deploy(ctx, walletmodel.CredentialID("B"), testPublicKey(t))
	require.NoError(t, err)

	assert.NotEqual(addrA, addrB)
}

func TestFactory_Deploy_TwiceWithSameCredentialFailsAtomically(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	f := New("factory-1", ledger.NewInMemory())
	require.NoError(t, f.Init(ctx, binaryHash))

	cred := walletmodel.CredentialID("A")
	_, err := f.Deploy(ctx, cred, testPublicKey(t))
	require.NoError(t, err)

	_, err = f.Deploy(ctx, cred, testPublicKey(t))
	assert.ErrorIs(err, walletmodel.ErrAlreadyInitialized)
}

func TestFactory_GetWallet_HitAndMiss(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	f := New("factory-1", ledger.NewInMemory())
	require.NoError(t, f.Init(ctx, binaryHash))

	cred := walletmodel.CredentialID("A")
	deployed, err := f.Deploy(ctx, cred, testPublicKey(t))
	require.NoError(t, err)

	got, found, err := f.GetWallet(ctx, cred)
	require.NoError(t, err)
	assert.True(found)
	assert.Equal(deployed, got)

	_, found, err = f.GetWallet(ctx, walletmodel.CredentialID("unknown"))
	require.NoError(t, err)
	assert.False(found)
}

func TestFactory_Init_Twice_Panics(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	f := New("factory-1", ledger.NewInMemory())
	require.NoError(t, f.Init(ctx, binaryHash))

	err := f.Init(ctx, binaryHash)
	assert.Error(err, "second Init must surface as a host-trap error, not succeed silently")
}
