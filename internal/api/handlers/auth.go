package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"daruyab/config"
	"daruyab/internal/api/dto"
	"daruyab/internal/database/models"
	"daruyab/internal/utils"
)

const blacklistPrefix = "token:blacklist:"

// AuthHandler issues, refreshes and revokes JWT token pairs. Revoked
// refresh tokens are blacklisted in redis by jti until they would have
// expired anyway.
type AuthHandler struct {
	db     *gorm.DB
	rdb    *redis.Client
	logger *zap.Logger
	auth   config.AuthConfig
}

func NewAuthHandler(db *gorm.DB, rdb *redis.Client, logger *zap.Logger, auth config.AuthConfig) *AuthHandler {
	return &AuthHandler{db: db, rdb: rdb, logger: logger, auth: auth}
}

func (h *AuthHandler) tokenPair(userID int64) (gin.H, error) {
	secret := []byte(h.auth.Secret)
	access, _, err := utils.GenerateToken(secret, userID, utils.TokenTypeAccess, h.auth.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, _, err := utils.GenerateToken(secret, userID, utils.TokenTypeRefresh, h.auth.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return gin.H{"access": access, "refresh": refresh}, nil
}

// Token exchanges credentials for an access/refresh pair.
func (h *AuthHandler) Token(c *gin.Context) {
	var input dto.CredentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}

	var user models.User
	err := h.db.Where("contact_number = ?", input.ContactNumber).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "No active account found with the given credentials"})
			return
		}
		serverError(c, h.logger, err)
		return
	}
	if !user.IsActive || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "No active account found with the given credentials"})
		return
	}

	pair, err := h.tokenPair(user.ID)
	if err != nil {
		serverError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Refresh exchanges a valid, non-blacklisted refresh token for a new pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var input dto.RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}

	claims, err := utils.ParseToken([]byte(h.auth.Secret), input.Refresh)
	if err != nil || claims.TokenType != utils.TokenTypeRefresh {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Token is invalid or expired", "code": "token_not_valid"})
		return
	}

	blacklisted, err := h.rdb.Exists(c.Request.Context(), blacklistPrefix+claims.ID).Result()
	if err != nil {
		serverError(c, h.logger, err)
		return
	}
	if blacklisted > 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Token is blacklisted", "code": "token_not_valid"})
		return
	}

	var user models.User
	if err := h.db.First(&user, claims.UserID).Error; err != nil || !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Token is invalid or expired", "code": "token_not_valid"})
		return
	}

	pair, err := h.tokenPair(user.ID)
	if err != nil {
		serverError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Logout blacklists the presented refresh token for its remaining
// lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	var input dto.RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Refresh token is required.")
		return
	}

	claims, err := utils.ParseToken([]byte(h.auth.Secret), input.Refresh)
	if err != nil || claims.TokenType != utils.TokenTypeRefresh {
		badRequest(c, "Token is invalid or expired")
		return
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		c.Status(http.StatusResetContent)
		return
	}
	if err := h.rdb.Set(c.Request.Context(), blacklistPrefix+claims.ID, "1", ttl).Err(); err != nil {
		serverError(c, h.logger, err)
		return
	}
	c.Status(http.StatusResetContent)
}
