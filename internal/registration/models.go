// Package registration bridges real browser WebAuthn ceremonies
// (via go-webauthn/webauthn) into the hand-built verification core in
// internal/webauthncore and internal/walletcontract. It never performs
// the core's own secp256r1/challenge verification itself — it only
// shapes ceremony output into the WebAuthnAssertion values that feed
// CheckAuth, and drives Factory.Deploy on first registration.
package registration

import "time"

// CredentialRecord durably tracks which wallet a registered credential
// belongs to, so a later login ceremony knows which Wallet to run
// CheckAuth against. Grounded on the teacher's internal/models/passkey.go
// PasskeyCredential struct — field set kept close, wallet linkage added.
type CredentialRecord struct {
	ID             string    `gorm:"primaryKey;column:id"`
	UserID         string    `gorm:"column:user_id;index"`
	WalletAddress  string    `gorm:"column:wallet_address;index"`
	CredentialID   []byte    `gorm:"column:credential_id;uniqueIndex"`
	COSEPublicKey  []byte    `gorm:"column:cose_public_key"`
	SignCount      uint32    `gorm:"column:sign_count"`
	AAGUID         []byte    `gorm:"column:aaguid"`
	BackupEligible bool      `gorm:"column:backup_eligible"`
	BackupState    bool      `gorm:"column:backup_state"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	LastUsedAt     time.Time `gorm:"column:last_used_at"`
}

// TableName matches the teacher's TableName() idiom.
func (CredentialRecord) TableName() string {
	return "credential_records"
}

// CeremonySession stores an in-flight WebAuthn registration/login
// challenge until the browser completes it. Grounded on the teacher's
// WebAuthnSession model.
type CeremonySession struct {
	ID          string    `gorm:"primaryKey;column:id"`
	UserID      string    `gorm:"column:user_id;index"`
	SessionData []byte    `gorm:"column:session_data"`
	ExpiresAt   time.Time `gorm:"column:expires_at;index"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (CeremonySession) TableName() string {
	return "ceremony_sessions"
}

// IsExpired reports whether the ceremony session has timed out.
func (s *CeremonySession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
