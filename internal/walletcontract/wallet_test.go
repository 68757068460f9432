package walletcontract

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
	"passkey-smart-wallet/internal/webauthncore"
)

func newTestWallet(t *testing.T) *Wallet {
	t.Helper()
	return New("wallet-under-test", ledger.NewInMemory())
}

func genKeyAndAssertion(t *testing.T, credentialID string, payload walletmodel.SignaturePayload) (walletmodel.PublicKey, walletmodel.WebAuthnAssertion) {
	t.Helper()

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	var pk walletmodel.PublicKey
	pk[0] = 0x04
	xBytes := priv.X.Bytes()
	yBytes := priv.Y.Bytes()
	copy(pk[1+32-len(xBytes):33], xBytes)
	copy(pk[33+32-len(yBytes):65], yBytes)

	challenge := string(webauthncore.EncodeNoPad(payload[:]))
	clientData := []byte(`{"type":"webauthn.get","challenge":"` + challenge + `","origin":"https://example.com"}`)
	authenticatorData := []byte("fake-authenticator-data")

	messageHash := webauthncore.SignedMessage(authenticatorData, clientData)
	r, s, err := ecdsa.Sign(rand.Reader, priv, messageHash[:])
	require.NoError(t, err)

	var sig [64]byte
	rBytes := r.Bytes()
	sBytes := s.Bytes()
	copy(sig[32-len(rBytes):32], rBytes)
	copy(sig[64-len(sBytes):64], sBytes)

	assertion := walletmodel.WebAuthnAssertion{
		AuthenticatorData: authenticatorData,
		ClientDataJSON:    clientData,
		ID:                walletmodel.CredentialID(credentialID),
		Signature:         sig,
	}

	return pk, assertion
}

func adminPublicKey(t *testing.T) walletmodel.PublicKey {
	t.Helper()
	var payload walletmodel.SignaturePayload
	pk, _ := genKeyAndAssertion(t, "unused", payload)
	return pk
}

func TestWallet_InitTwice_FailsAlreadyInitialized(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	w := newTestWallet(t)

	pk := adminPublicKey(t)
	require.NoError(t, w.Init(ctx, walletmodel.CredentialID("A"), pk))

	err := w.Init(ctx, walletmodel.CredentialID("A2"), pk)
	assert.ErrorIs(err, walletmodel.ErrAlreadyInitialized)
}

func TestWallet_Init_RejectsBadPrefix(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	w := newTestWallet(t)

	pk := adminPublicKey(t)
	pk[0] = 0x05

	err := w.Init(ctx, walletmodel.CredentialID("A"), pk)
	assert.ErrorIs(err, walletmodel.ErrInvalidPublicKey)
}

func TestWallet_MultiSignerWorkflow(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	w := newTestWallet(t)

	pk := adminPublicKey(t)

	require.NoError(t, w.Init(ctx, walletmodel.CredentialID("A"), pk))
	require.NoError(t, w.AddSigner(ctx, walletmodel.CredentialID("B"), pk))
	require.NoError(t, w.AddSigner(ctx, walletmodel.CredentialID("C"), pk))
	require.NoError(t, w.AddSessionSigner(ctx, walletmodel.CredentialID("S"), pk))

	assert.NoError(w.RemoveSigner(ctx, walletmodel.CredentialID("B")))
	assert.NoError(w.RemoveSigner(ctx, walletmodel.CredentialID("S")))
	assert.ErrorIs(w.RemoveSigner(ctx, walletmodel.CredentialID("B")), walletmodel.ErrSignerNotFound)

	// Only "A" and "C" remain as admins; removing "C" should succeed,
	// then "A" is the last admin and must be refused.
	assert.NoError(w.RemoveSigner(ctx, walletmodel.CredentialID("C")))
	assert.ErrorIs(w.RemoveSigner(ctx, walletmodel.CredentialID("A")), walletmodel.ErrLastAdminSigner)
}

func TestWallet_AddSigner_DuplicateAcrossTiers(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	w := newTestWallet(t)
	pk := adminPublicKey(t)

	require.NoError(t, w.Init(ctx, walletmodel.CredentialID("A"), pk))
	require.NoError(t, w.AddSessionSigner(ctx, walletmodel.CredentialID("S"), pk))

	assert.ErrorIs(w.AddSigner(ctx, walletmodel.CredentialID("S"), pk), walletmodel.ErrSignerAlreadyExists)
	assert.ErrorIs(w.AddSessionSigner(ctx, walletmodel.CredentialID("A"), pk), walletmodel.ErrSignerAlreadyExists)
}

func TestWallet_CheckAuth_HappyPath(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	w := newTestWallet(t)

	var payload walletmodel.SignaturePayload
	for i := range payload {
		payload[i] = byte(i * 3)
	}

	pk, assertion := genKeyAndAssertion(t, "cred-A", payload)
	require.NoError(t, w.Init(ctx, walletmodel.CredentialID("cred-A"), pk))

	assert.NoError(w.CheckAuth(ctx, payload, assertion))
}

func TestWallet_CheckAuth_UnknownCredential(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	w := newTestWallet(t)

	var payload walletmodel.SignaturePayload
	pk, _ := genKeyAndAssertion(t, "cred-A", payload)
	require.NoError(t, w.Init(ctx, walletmodel.CredentialID("cred-A"), pk))

	_, assertion := genKeyAndAssertion(t, "cred-unknown", payload)
	assert.ErrorIs(w.CheckAuth(ctx, payload, assertion), walletmodel.ErrSignerNotFound)
}

func TestWallet_CheckAuth_ChallengeMismatch(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	w := newTestWallet(t)

	var payload walletmodel.SignaturePayload
	pk, assertion := genKeyAndAssertion(t, "cred-A", payload)
	require.NoError(t, w.Init(ctx, walletmodel.CredentialID("cred-A"), pk))

	var otherPayload walletmodel.SignaturePayload
	otherPayload[0] = 0xff

	assert.ErrorIs(w.CheckAuth(ctx, otherPayload, assertion), walletmodel.ErrChallengeMismatch)
}

func TestWallet_CheckAuth_MissingChallengeField(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	w := newTestWallet(t)

	var payload walletmodel.SignaturePayload
	pk, assertion := genKeyAndAssertion(t, "cred-A", payload)
	require.NoError(t, w.Init(ctx, walletmodel.CredentialID("cred-A"), pk))

	assertion.ClientDataJSON = []byte(`{"type":"webauthn.get","origin":"https://example.com"}`)
	assert.ErrorIs(w.CheckAuth(ctx, payload, assertion), walletmodel.ErrInvalidClientData)
}
