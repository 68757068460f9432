package httpapi

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"passkey-smart-wallet/internal/walletmodel"
)

type signerRequest struct {
	CredentialID string          `json:"credentialId" binding:"required"`
	PublicKey    string          `json:"publicKey" binding:"required"`
	Assertion    json.RawMessage `json:"assertion" binding:"required"`
}

func (r signerRequest) decode() (walletmodel.CredentialID, walletmodel.PublicKey, error) {
	credentialID, err := hex.DecodeString(r.CredentialID)
	if err != nil {
		return nil, walletmodel.PublicKey{}, err
	}

	rawKey, err := hex.DecodeString(r.PublicKey)
	if err != nil {
		return nil, walletmodel.PublicKey{}, err
	}
	pubKey, err := walletmodel.ParsePublicKey(rawKey)
	if err != nil {
		return nil, walletmodel.PublicKey{}, err
	}

	return walletmodel.CredentialID(credentialID), pubKey, nil
}

type removeSignerRequest struct {
	Assertion json.RawMessage `json:"assertion" binding:"required"`
}

// mutationPayload derives the CheckAuth challenge a signer-mutation
// request must be signed over: a hash of the operation name, the
// target wallet, and its parameters. Binding the assertion to these
// bytes is what makes it authorization for *this* mutation rather
// than a signature replayable against any other one.
func mutationPayload(op, address string, fields ...string) walletmodel.SignaturePayload {
	h := sha256.New()
	h.Write([]byte(op))
	h.Write([]byte(address))
	for _, f := range fields {
		h.Write([]byte(f))
	}
	var payload walletmodel.SignaturePayload
	copy(payload[:], h.Sum(nil))
	return payload
}

// authorizeMutation runs the submitted assertion through CheckAuth
// before any signer-set mutation proceeds, matching §4.2's "only way
// to mutate" — the session token minted at login carries no authority
// of its own here.
func (h *Handler) authorizeMutation(c *gin.Context, address string, payload walletmodel.SignaturePayload, assertion json.RawMessage) bool {
	if err := h.ceremony.Authorize(c.Request.Context(), address, payload, bytes.NewReader(assertion)); err != nil {
		respondError(c, statusForWalletError(err), err)
		return false
	}
	return true
}

// AddSigner registers a new long-lived admin signer on an existing
// wallet.
func (h *Handler) AddSigner(c *gin.Context) {
	address := c.Param("address")

	var req signerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	credentialID, pubKey, err := req.decode()
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	payload := mutationPayload("AddSigner", address, req.CredentialID, req.PublicKey)
	if !h.authorizeMutation(c, address, payload, req.Assertion) {
		return
	}

	if err := h.walletFor(address).AddSigner(c.Request.Context(), credentialID, pubKey); err != nil {
		respondError(c, statusForWalletError(err), err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"added": true})
}

// AddSessionSigner registers a new short-lived session signer.
func (h *Handler) AddSessionSigner(c *gin.Context) {
	address := c.Param("address")

	var req signerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	credentialID, pubKey, err := req.decode()
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	payload := mutationPayload("AddSessionSigner", address, req.CredentialID, req.PublicKey)
	if !h.authorizeMutation(c, address, payload, req.Assertion) {
		return
	}

	if err := h.walletFor(address).AddSessionSigner(c.Request.Context(), credentialID, pubKey); err != nil {
		respondError(c, statusForWalletError(err), err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"added": true})
}

// RemoveSigner revokes a signer, enforcing the last-admin-signer
// liveness invariant.
func (h *Handler) RemoveSigner(c *gin.Context) {
	address := c.Param("address")
	credentialIDHex := c.Param("credentialID")

	var req removeSignerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	credentialID, err := hex.DecodeString(credentialIDHex)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	payload := mutationPayload("RemoveSigner", address, credentialIDHex)
	if !h.authorizeMutation(c, address, payload, req.Assertion) {
		return
	}

	if err := h.walletFor(address).RemoveSigner(c.Request.Context(), walletmodel.CredentialID(credentialID)); err != nil {
		respondError(c, statusForWalletError(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

// GetWalletByCredential resolves a credential ID to its deployed
// wallet address via the factory's Deployed index.
func (h *Handler) GetWalletByCredential(c *gin.Context) {
	credentialIDHex := c.Param("credentialID")

	credentialID, err := hex.DecodeString(credentialIDHex)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	address, found, err := h.factory.GetWallet(c.Request.Context(), walletmodel.CredentialID(credentialID))
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "wallet not found for credential"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"walletAddress": address.String()})
}
