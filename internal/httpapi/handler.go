// Package httpapi bridges HTTP requests to the wallet domain: ceremony
// endpoints delegate to internal/registration, signer-mutation
// endpoints delegate to internal/walletcontract once the submitted
// assertion has passed registration.Service.Authorize. Grounded on
// the teacher's internal/api package (Handler struct + gin.H response
// shapes), generalized from a single AI-chat wallet backend to a
// multi-endpoint passkey wallet API.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"passkey-smart-wallet/internal/factorycontract"
	"passkey-smart-wallet/internal/ledger"
	"passkey-smart-wallet/internal/registration"
	"passkey-smart-wallet/internal/walletcontract"
	"passkey-smart-wallet/internal/walletmodel"
)

// Handler holds every dependency the route handlers need. One Handler
// serves the whole API; it carries no per-request state.
type Handler struct {
	ledger   *ledger.Ledger
	factory  *factorycontract.Factory
	ceremony *registration.Service
	log      zerolog.Logger
}

// New wires a Handler.
func New(l *ledger.Ledger, factory *factorycontract.Factory, ceremony *registration.Service, log zerolog.Logger) *Handler {
	return &Handler{ledger: l, factory: factory, ceremony: ceremony, log: log}
}

func (h *Handler) walletFor(address string) *walletcontract.Wallet {
	return walletcontract.New(address, h.ledger)
}

// HealthCheck reports liveness, matching the teacher's /api/health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "passkey-smart-wallet",
	})
}

func respondError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

// statusForWalletError maps the taxonomized WalletError codes onto
// HTTP statuses; anything else (including HostTrapError) is a 500,
// mirroring the spec's client-error/host-trap split.
func statusForWalletError(err error) int {
	var walletErr *walletmodel.WalletError
	if errors.As(err, &walletErr) {
		switch walletErr.Code() {
		case walletmodel.ErrCodeSignerNotFound, walletmodel.ErrCodeInvalidClientData:
			return http.StatusNotFound
		case walletmodel.ErrCodeAlreadyInitialized, walletmodel.ErrCodeSignerAlreadyExists:
			return http.StatusConflict
		default:
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}
