package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	authctx "github.com/durgapur-services/marketplace-backend/internal/auth"
	"github.com/durgapur-services/marketplace-backend/internal/auth/domain"
	"github.com/durgapur-services/marketplace-backend/internal/platform/logger"
)

// TokenVerifier is satisfied by *auth.Client. Tokens issued before the
// user's refresh tokens were revoked (logout) are rejected.
type TokenVerifier interface {
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
}

// tokenRevoked reports whether err came from a token issued before logout.
var tokenRevoked = auth.IsIDTokenRevoked

// FirebaseAuthMiddleware validates Firebase ID tokens and extracts user info
func FirebaseAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			c.Abort()
			return
		}

		decoded, err := verifier.VerifyIDTokenAndCheckRevoked(c.Request.Context(), token)
		if err != nil {
			logger.FromContext(c.Request.Context()).Debug("token rejected", "error", err)
			msg := "invalid token"
			if tokenRevoked(err) {
				msg = "session has ended, please sign in again"
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
			c.Abort()
			return
		}

		authctx.SetPrincipal(c, principalFromToken(decoded))
		c.Next()
	}
}

// OptionalFirebaseAuth identifies the caller when a valid token is present
// and lets anonymous requests through. A revoked token counts as anonymous.
func OptionalFirebaseAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if decoded, err := verifier.VerifyIDTokenAndCheckRevoked(c.Request.Context(), token); err == nil {
				authctx.SetPrincipal(c, principalFromToken(decoded))
			}
		}
		c.Next()
	}
}

func principalFromToken(t *auth.Token) domain.Principal {
	p := domain.Principal{UID: t.UID}
	if email, ok := t.Claims["email"].(string); ok {
		p.Email = email
	}
	if name, ok := t.Claims["name"].(string); ok {
		p.DisplayName = name
	}
	return p
}

// extractToken extracts the Bearer token from the Authorization header.
// EventSource cannot set headers, so stream endpoints also accept ?token=.
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return strings.TrimSpace(c.Query("token"))
}
