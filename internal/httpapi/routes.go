package httpapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures every route. Grounded on the teacher's
// api.SetupRouter — same cors.DefaultConfig base, generalized to the
// wallet's own endpoint set.
func SetupRouter(h *Handler, allowedOrigins []string) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	api := router.Group("/api")
	{
		api.GET("/health", h.HealthCheck)

		wallets := api.Group("/wallets")
		{
			wallets.POST("/register/begin", h.BeginRegister)
			wallets.POST("/register/finish", h.FinishRegister)
			wallets.POST("/login/begin", h.BeginLogin)
			wallets.POST("/login/finish", h.FinishLogin)

			wallets.GET("/by-credential/:credentialID", h.GetWalletByCredential)

			wallets.POST("/:address/signers", h.AddSigner)
			wallets.POST("/:address/session-signers", h.AddSessionSigner)
			wallets.DELETE("/:address/signers/:credentialID", h.RemoveSigner)
		}
	}

	return router
}
