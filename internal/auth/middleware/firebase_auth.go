package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	appauth "github.com/GoSim-25-26J-441/go-fund-backend/internal/auth"
)

// TokenVerifier is satisfied by *auth.Client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAuthMiddleware validates Firebase ID tokens and extracts user info
func FirebaseAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing authorization token"})
			c.Abort()
			return
		}

		decodedToken, err := verifier.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(appauth.CtxFirebaseUID, decodedToken.UID)
		if name, ok := decodedToken.Claims["name"].(string); ok {
			c.Set(appauth.CtxUserName, name)
		}
		// custom claim set by the admin console
		if role, ok := decodedToken.Claims["role"].(string); ok {
			c.Set(appauth.CtxUserRole, role)
		}
		c.Set("firebase_token", decodedToken)

		c.Next()
	}
}

// HeaderAuth trusts X-User-Id, X-User-Name and X-User-Role.
// Use this ONLY for development/testing.
func HeaderAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if uid == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
			c.Abort()
			return
		}

		c.Set(appauth.CtxFirebaseUID, uid)
		c.Set(appauth.CtxUserName, c.GetHeader("X-User-Name"))
		c.Set(appauth.CtxUserRole, c.GetHeader("X-User-Role"))
		c.Next()
	}
}

// RequireGovernor rejects users without the governor role.
func RequireGovernor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !appauth.IsGovernor(c) {
			c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "governor role required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
