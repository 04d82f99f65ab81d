package middleware

import (
	"net/http"
	"strings"

	"carvistors/utils"

	"github.com/gin-gonic/gin"
)

const claimsKey = "authClaims"

// authenticate validates the bearer token and stores its claims on the
// context. It aborts and returns false on failure.
func authenticate(c *gin.Context) bool {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Missing or invalid Authorization header"})
		return false
	}
	claims, err := utils.ParseClaims(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token"})
		return false
	}
	c.Set(claimsKey, claims)
	return true
}

// JWTAuthMiddleware requires a valid bearer token.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if authenticate(c) {
			c.Next()
		}
	}
}

// JWTAuthAdminMiddleware requires a valid token that belongs to an admin.
func JWTAuthAdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}
		if !ClaimsFrom(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Unauthorized admin access"})
			return
		}
		c.Next()
	}
}

// ClaimsFrom returns the authenticated claims, or nil outside an
// authenticated route.
func ClaimsFrom(c *gin.Context) *utils.TokenClaims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*utils.TokenClaims)
	return claims
}
