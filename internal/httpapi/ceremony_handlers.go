package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"passkey-smart-wallet/internal/registration"
)

// BeginRegister starts a passkey registration ceremony. Grounded on
// the teacher's BeginPasskeyRegistration handler.
func (h *Handler) BeginRegister(c *gin.Context) {
	var req struct {
		UserID      string `json:"userId" binding:"required"`
		DisplayName string `json:"displayName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	creation, sessionID, err := h.ceremony.BeginRegistration(c.Request.Context(), req.UserID, req.DisplayName)
	if err != nil {
		h.log.Error().Err(err).Msg("begin registration failed")
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"options":   creation,
		"sessionId": sessionID,
	})
}

// FinishRegister completes registration and returns the deployed
// wallet address.
func (h *Handler) FinishRegister(c *gin.Context) {
	var req struct {
		UserID    string          `json:"userId" binding:"required"`
		SessionID string          `json:"sessionId" binding:"required"`
		Response  json.RawMessage `json:"response" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	address, err := h.ceremony.FinishRegistration(c.Request.Context(), req.UserID, req.SessionID, bytes.NewReader(req.Response))
	if err != nil {
		h.log.Error().Err(err).Msg("finish registration failed")
		respondError(c, http.StatusBadRequest, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"walletAddress": address.String(),
	})
}

// BeginLogin starts a login ceremony for the given user ID, offering
// every credential registered under it.
func (h *Handler) BeginLogin(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	assertion, sessionID, err := h.ceremony.BeginLogin(c.Request.Context(), req.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("begin login failed")
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"options":   assertion,
		"sessionId": sessionID,
	})
}

// FinishLogin completes a login ceremony, resolving the target wallet
// from the credential that signed the assertion, and runs it through
// CheckAuth.
func (h *Handler) FinishLogin(c *gin.Context) {
	var req struct {
		SessionID string          `json:"sessionId" binding:"required"`
		Response  json.RawMessage `json:"response" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := h.ceremony.FinishLogin(c.Request.Context(), req.SessionID, bytes.NewReader(req.Response))
	if err != nil {
		if errors.Is(err, registration.ErrCredentialNotFound) || errors.Is(err, registration.ErrCeremonySessionExpired) {
			respondError(c, http.StatusBadRequest, err)
			return
		}
		respondError(c, statusForWalletError(err), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"walletAddress": result.WalletAddress.String(),
		"sessionToken":  result.SessionToken,
	})
}
