package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hoodieacademy/academy-backend/internal/common"
	"github.com/hoodieacademy/academy-backend/pkg/jwt"
)

// JWTAuth JWT authentication middleware for the admin/service API surface
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, "missing authorization header", nil)
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			common.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format", nil)
			c.Abort()
			return
		}

		claims, err := jwtManager.VerifyToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.ErrorResponse(c, http.StatusUnauthorized, "token expired", err)
			} else {
				common.ErrorResponse(c, http.StatusUnauthorized, "invalid token", err)
			}
			c.Abort()
			return
		}

		c.Set("wallet", claims.Wallet)
		c.Set("is_admin", claims.IsAdmin)

		c.Next()
	}
}

// OptionalJWTAuth populates caller identity when a valid token is present
// but lets anonymous requests through
func OptionalJWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			if claims, err := jwtManager.VerifyToken(parts[1]); err == nil {
				c.Set("wallet", claims.Wallet)
				c.Set("is_admin", claims.IsAdmin)
			}
		}
		c.Next()
	}
}

// GetWallet extracts the authenticated wallet from context
func GetWallet(c *gin.Context) string {
	wallet, exists := c.Get("wallet")
	if !exists {
		return ""
	}
	if str, ok := wallet.(string); ok {
		return str
	}
	return ""
}

// IsAdmin extracts the admin flag from context
func IsAdmin(c *gin.Context) bool {
	isAdmin, exists := c.Get("is_admin")
	if !exists {
		return false
	}
	if b, ok := isAdmin.(bool); ok {
		return b
	}
	return false
}
