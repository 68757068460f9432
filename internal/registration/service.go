package registration

import (
	"bytes"
	"context"
	"encoding/asn1"
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"passkey-smart-wallet/internal/factorycontract"
	"passkey-smart-wallet/internal/ledger"
	"passkey-smart-wallet/internal/walletcontract"
	"passkey-smart-wallet/internal/walletmodel"
	"passkey-smart-wallet/internal/webauthncore"
	"passkey-smart-wallet/pkg/cryptoutil"
)

const ceremonyTTL = 5 * time.Minute

var (
	// ErrCeremonySessionExpired mirrors the teacher's session-timeout
	// handling in webauthn_service.go, but as a typed error rather
	// than a bare string so callers can distinguish it from a bad
	// request.
	ErrCeremonySessionExpired = errors.New("registration: ceremony session expired")
	ErrCredentialNotFound     = errors.New("registration: credential not found")
)

// Service drives browser-facing WebAuthn ceremonies and, on the first
// successful registration for a credential, deploys the corresponding
// smart wallet through factorycontract.Factory. It never re-implements
// the signature/challenge verification the ceremony library already
// performs during FinishRegistration/FinishLogin — that would
// duplicate, not replace, the hand-built core in internal/webauthncore
// that CheckAuth relies on for the login path.
type Service struct {
	wa      *webauthn.WebAuthn
	db      *gorm.DB
	ledger  *ledger.Ledger
	factory *factorycontract.Factory
	log     zerolog.Logger
}

// New wires a ceremony Service. factory is the deployed AA factory
// that mints wallet addresses on first registration; ledger is the
// same store factory/wallets already run against, so FinishLogin can
// build the target Wallet itself once it knows which credential
// logged in.
func New(wa *webauthn.WebAuthn, db *gorm.DB, l *ledger.Ledger, factory *factorycontract.Factory, log zerolog.Logger) *Service {
	return &Service{wa: wa, db: db, ledger: l, factory: factory, log: log}
}

// BeginRegistration starts a passkey registration ceremony for a new
// or returning user handle (an opaque caller-chosen string, not tied
// to any wallet yet). Returns the creation options to hand back to
// the browser and a session ID the caller must round-trip to
// FinishRegistration.
func (s *Service) BeginRegistration(ctx context.Context, userID, displayName string) (*protocol.CredentialCreation, string, error) {
	user := &ceremonyUser{id: userID, displayName: displayName, db: s.db}

	creation, sessionData, err := s.wa.BeginRegistration(user)
	if err != nil {
		return nil, "", fmt.Errorf("registration: begin: %w", err)
	}

	sessionID, err := s.storeSession(ctx, userID, sessionData)
	if err != nil {
		return nil, "", err
	}

	return creation, sessionID, nil
}

// FinishRegistration completes registration, mints the wallet via
// CREATE2-style deterministic deployment, and records the
// credential-to-wallet link. body is the raw JSON the browser POSTs
// back from navigator.credentials.create().
func (s *Service) FinishRegistration(ctx context.Context, userID, sessionID string, body io.Reader) (walletmodel.Address, error) {
	sessionData, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return walletmodel.Address{}, err
	}

	user := &ceremonyUser{id: userID, db: s.db}

	parsed, err := protocol.ParseCredentialCreationResponseBody(body)
	if err != nil {
		return walletmodel.Address{}, fmt.Errorf("registration: parse creation response: %w", err)
	}

	credential, err := s.wa.CreateCredential(user, *sessionData, parsed)
	if err != nil {
		return walletmodel.Address{}, fmt.Errorf("registration: create credential: %w", err)
	}

	pubKey, err := webauthncore.ExtractP256PublicKeyFromCOSE(credential.PublicKey)
	if err != nil {
		return walletmodel.Address{}, fmt.Errorf("registration: extract COSE key: %w", err)
	}

	credentialID := walletmodel.CredentialID(credential.ID)
	address, err := s.factory.Deploy(ctx, credentialID, pubKey)
	if err != nil {
		return walletmodel.Address{}, fmt.Errorf("registration: deploy wallet: %w", err)
	}

	record := CredentialRecord{
		ID:             uuid.NewString(),
		UserID:         userID,
		WalletAddress:  address.String(),
		CredentialID:   credential.ID,
		COSEPublicKey:  credential.PublicKey,
		SignCount:      credential.Authenticator.SignCount,
		AAGUID:         credential.Authenticator.AAGUID,
		BackupEligible: credential.Flags.BackupEligible,
		BackupState:    credential.Flags.BackupState,
		CreatedAt:      time.Now(),
		LastUsedAt:     time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return walletmodel.Address{}, fmt.Errorf("registration: persist credential record: %w", err)
	}

	s.log.Info().Str("wallet_address", address.String()).Str("user_id", userID).Msg("wallet deployed from new passkey")
	return address, nil
}

// BeginLogin starts an authentication ceremony against the caller's
// full set of registered credentials, looked up by user ID (the
// caller does not need to know its wallet address up front).
func (s *Service) BeginLogin(ctx context.Context, userID string) (*protocol.CredentialAssertion, string, error) {
	user := &ceremonyUser{id: userID, db: s.db}

	assertion, sessionData, err := s.wa.BeginLogin(user)
	if err != nil {
		return nil, "", fmt.Errorf("registration: begin login: %w", err)
	}

	sessionID, err := s.storeSession(ctx, userID, sessionData)
	if err != nil {
		return nil, "", err
	}

	return assertion, sessionID, nil
}

// LoginResult reports which wallet authenticated and a short-lived
// session token for the HTTP bridge layer to hand back to the
// browser. The token is bookkeeping only — it grants no authority of
// its own; every subsequent signer mutation still requires a fresh
// WebAuthn assertion through CheckAuth (§4.2).
type LoginResult struct {
	WalletAddress walletmodel.Address
	SessionToken  string
}

// FinishLogin completes a login ceremony and runs the result through
// the hand-built walletcontract.Wallet.CheckAuth core, rather than
// trusting the ceremony library's own signature check alone — the
// spec requires CheckAuth's TTL-refresh and signer-resolution side
// effects to run on every successful authentication, not just its
// cryptographic verdict.
func (s *Service) FinishLogin(ctx context.Context, sessionID string, body io.Reader) (LoginResult, error) {
	sessionData, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return LoginResult{}, err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return LoginResult{}, fmt.Errorf("registration: read assertion body: %w", err)
	}

	parsed, err := protocol.ParseCredentialRequestResponseBody(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return LoginResult{}, fmt.Errorf("registration: parse assertion response: %w", err)
	}

	var record CredentialRecord
	if err := s.db.WithContext(ctx).Where("credential_id = ?", []byte(parsed.RawID)).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginResult{}, ErrCredentialNotFound
		}
		return LoginResult{}, fmt.Errorf("registration: lookup credential record: %w", err)
	}

	user := &ceremonyUser{id: record.UserID, db: s.db}
	if _, err := s.wa.ValidateLogin(user, *sessionData, parsed); err != nil {
		return LoginResult{}, fmt.Errorf("registration: validate login: %w", err)
	}

	compactSig, err := derToCompact(parsed.Response.Signature)
	if err != nil {
		return LoginResult{}, fmt.Errorf("registration: convert signature: %w", err)
	}

	assertion := walletmodel.WebAuthnAssertion{
		AuthenticatorData: parsed.Raw.AssertionResponse.AuthenticatorData,
		ClientDataJSON:    parsed.Raw.AssertionResponse.ClientDataJSON,
		ID:                walletmodel.CredentialID(parsed.RawID),
		Signature:         compactSig,
	}

	// CheckAuth's step B compares the challenge embedded in clientDataJSON
	// against base64url(payload) — payload must be the raw random the
	// server issued at BeginLogin, not a hash of the client data.
	challenge, err := webauthncore.DecodeNoPad([]byte(sessionData.Challenge))
	if err != nil {
		return LoginResult{}, fmt.Errorf("registration: decode session challenge: %w", err)
	}
	if len(challenge) != walletmodel.PayloadLen {
		return LoginResult{}, fmt.Errorf("registration: unexpected challenge length %d", len(challenge))
	}
	var payload walletmodel.SignaturePayload
	copy(payload[:], challenge)

	wallet := walletcontract.New(record.WalletAddress, s.ledger)
	if err := wallet.CheckAuth(ctx, payload, assertion); err != nil {
		return LoginResult{}, err
	}

	s.db.WithContext(ctx).Model(&CredentialRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{"last_used_at": time.Now(), "sign_count": parsed.Response.AuthenticatorData.Counter})

	token, err := cryptoutil.GenerateRandomToken()
	if err != nil {
		return LoginResult{}, fmt.Errorf("registration: generate session token: %w", err)
	}

	address, err := walletmodel.ParseAddress(record.WalletAddress)
	if err != nil {
		return LoginResult{}, fmt.Errorf("registration: parse stored wallet address: %w", err)
	}

	return LoginResult{WalletAddress: address, SessionToken: token}, nil
}

// Authorize verifies a fresh WebAuthn assertion against payload and
// runs it through the target wallet's CheckAuth — the gate §4.2
// requires for every signer mutation, distinct from the session token
// FinishLogin hands out. body is the raw JSON from
// navigator.credentials.get(), the same shape FinishLogin consumes;
// unlike login, there is no stored ceremony session to validate
// against, because payload here is derived deterministically by the
// caller from the operation being authorized rather than a
// server-issued random challenge, so the ceremony library's own
// ValidateLogin (which needs a SessionData) is skipped — CheckAuth's
// own step-by-step verification is the sole authority.
func (s *Service) Authorize(ctx context.Context, walletAddress string, payload walletmodel.SignaturePayload, body io.Reader) error {
	parsed, err := protocol.ParseCredentialRequestResponseBody(body)
	if err != nil {
		return fmt.Errorf("registration: parse assertion response: %w", err)
	}

	compactSig, err := derToCompact(parsed.Response.Signature)
	if err != nil {
		return fmt.Errorf("registration: convert signature: %w", err)
	}

	assertion := walletmodel.WebAuthnAssertion{
		AuthenticatorData: parsed.Raw.AssertionResponse.AuthenticatorData,
		ClientDataJSON:    parsed.Raw.AssertionResponse.ClientDataJSON,
		ID:                walletmodel.CredentialID(parsed.RawID),
		Signature:         compactSig,
	}

	wallet := walletcontract.New(walletAddress, s.ledger)
	return wallet.CheckAuth(ctx, payload, assertion)
}

// derToCompact converts a WebAuthn assertion's ASN.1 DER ECDSA
// signature into the raw 64-byte R‖S encoding the hand-built core
// expects. The browser/authenticator always produces DER; the
// conversion happens once, at this ceremony edge, never inside
// internal/webauthncore.
func derToCompact(der []byte) ([64]byte, error) {
	var out [64]byte

	var sig struct {
		R, S *big.Int
	}
	if _, err := asn1.Unmarshal(der, &sig); err != nil {
		return out, fmt.Errorf("unmarshal DER signature: %w", err)
	}

	rBytes := sig.R.Bytes()
	sBytes := sig.S.Bytes()
	if len(rBytes) > 32 || len(sBytes) > 32 {
		return out, fmt.Errorf("signature component too large")
	}

	copy(out[32-len(rBytes):32], rBytes)
	copy(out[64-len(sBytes):64], sBytes)
	return out, nil
}

func (s *Service) storeSession(ctx context.Context, userID string, sessionData *webauthn.SessionData) (string, error) {
	raw, err := encodeSessionData(sessionData)
	if err != nil {
		return "", fmt.Errorf("registration: encode session: %w", err)
	}

	session := CeremonySession{
		ID:          uuid.NewString(),
		UserID:      userID,
		SessionData: raw,
		ExpiresAt:   time.Now().Add(ceremonyTTL),
		CreatedAt:   time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return "", fmt.Errorf("registration: persist session: %w", err)
	}
	return session.ID, nil
}

func (s *Service) loadSession(ctx context.Context, sessionID string) (*webauthn.SessionData, error) {
	var session CeremonySession
	if err := s.db.WithContext(ctx).First(&session, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCeremonySessionExpired
		}
		return nil, fmt.Errorf("registration: load session: %w", err)
	}
	if session.IsExpired() {
		return nil, ErrCeremonySessionExpired
	}

	sessionData, err := decodeSessionData(session.SessionData)
	if err != nil {
		return nil, fmt.Errorf("registration: decode session: %w", err)
	}

	s.db.WithContext(ctx).Delete(&session)
	return sessionData, nil
}
