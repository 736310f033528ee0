package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// Required enforces bearer JWT access tokens signed with HS256 and stores
// the parsed claims in the request context. Refresh tokens are rejected.
func Required(signingKey, issuer string) gin.HandlerFunc {
	return requireToken(signingKey, issuer, TokenAccess)
}

// RequiredRefresh is Required for the refresh endpoint: it accepts only
// refresh tokens.
func RequiredRefresh(signingKey, issuer string) gin.HandlerFunc {
	return requireToken(signingKey, issuer, TokenRefresh)
}

func requireToken(signingKey, issuer, tokenType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimSpace(authz[len("bearer "):])
		claims, err := Parse(tokenStr, signingKey, issuer)
		if err != nil || claims.TokenType != tokenType {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// UserType aborts with 403 unless the authenticated caller has the given
// user type. Must run after Required.
func UserType(userType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := FromContext(c)
		if !ok || claims.UserType != userType {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": userType + " access required"})
			return
		}
		c.Next()
	}
}

// FromContext returns the claims stored by Required.
func FromContext(c *gin.Context) (Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return Claims{}, false
	}
	claims, ok := v.(Claims)
	return claims, ok
}
