package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/shorty/internal/auth"
	"github.com/jonesrussell/shorty/internal/logger"
)

// AuthHandler issues API tokens for verified credentials.
type AuthHandler struct {
	authenticator auth.Authenticator
	jwt           *auth.JWTManager
	tokenTTL      time.Duration
	logger        logger.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(
	authenticator auth.Authenticator,
	jwt *auth.JWTManager,
	tokenTTL time.Duration,
	log logger.Logger,
) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
		jwt:           jwt,
		tokenTTL:      tokenTTL,
		logger:        log,
	}
}

type tokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Token verifies credentials and returns a signed bearer token.
func (h *AuthHandler) Token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	if err := h.authenticator.Authenticate(req.Username, req.Password); err != nil {
		h.logger.Warn("login attempt failed",
			logger.String("username", req.Username),
		)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.jwt.GenerateToken(req.Username)
	if err != nil {
		h.logger.Error("failed to generate token",
			logger.String("username", req.Username),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"token_type": "Bearer",
		"expires_in": int(h.tokenTTL.Seconds()),
	})
}
