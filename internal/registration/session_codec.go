package registration

import (
	"encoding/json"
	"fmt"

	"github.com/go-webauthn/webauthn/webauthn"
)

// encodeSessionData/decodeSessionData persist a webauthn.SessionData
// value between the Begin and Finish legs of a ceremony. JSON keeps
// this readable in the ceremony_sessions table during debugging,
// unlike gob.
func encodeSessionData(sessionData *webauthn.SessionData) ([]byte, error) {
	raw, err := json.Marshal(sessionData)
	if err != nil {
		return nil, fmt.Errorf("marshal session data: %w", err)
	}
	return raw, nil
}

func decodeSessionData(raw []byte) (*webauthn.SessionData, error) {
	var sessionData webauthn.SessionData
	if err := json.Unmarshal(raw, &sessionData); err != nil {
		return nil, fmt.Errorf("unmarshal session data: %w", err)
	}
	return &sessionData, nil
}
