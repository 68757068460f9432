package registration

import (
	"gorm.io/gorm"

	"github.com/go-webauthn/webauthn/webauthn"
)

// ceremonyUser adapts one end user to the go-webauthn/webauthn.User
// interface, loading its registered credentials from the database.
// Grounded on the teacher's WebAuthnUser wrapper in
// internal/auth/webauthn_service.go.
type ceremonyUser struct {
	id          string
	displayName string
	db          *gorm.DB
}

func (u *ceremonyUser) WebAuthnID() []byte { return []byte(u.id) }

func (u *ceremonyUser) WebAuthnName() string {
	if u.displayName != "" {
		return u.displayName
	}
	return u.id
}

func (u *ceremonyUser) WebAuthnDisplayName() string {
	if u.displayName != "" {
		return u.displayName
	}
	return "Passkey Wallet User"
}

func (u *ceremonyUser) WebAuthnIcon() string { return "" }

func (u *ceremonyUser) WebAuthnCredentials() []webauthn.Credential {
	var records []CredentialRecord
	if err := u.db.Where("user_id = ?", u.id).Find(&records).Error; err != nil {
		return []webauthn.Credential{}
	}

	creds := make([]webauthn.Credential, len(records))
	for i, r := range records {
		creds[i] = webauthn.Credential{
			ID:        r.CredentialID,
			PublicKey: r.COSEPublicKey,
			Authenticator: webauthn.Authenticator{
				AAGUID:    r.AAGUID,
				SignCount: r.SignCount,
			},
			Flags: webauthn.CredentialFlags{
				BackupEligible: r.BackupEligible,
				BackupState:    r.BackupState,
			},
		}
	}
	return creds
}
