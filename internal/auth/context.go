package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/durgapur-services/marketplace-backend/internal/auth/domain"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxEmail       = "email"
	CtxDisplayName = "display_name"
)

// SetPrincipal stores the authenticated caller on the Gin context
func SetPrincipal(c *gin.Context, p domain.Principal) {
	c.Set(CtxFirebaseUID, p.UID)
	c.Set(CtxEmail, p.Email)
	c.Set(CtxDisplayName, p.DisplayName)
}

// UserFirebaseUID extracts the Firebase UID from the Gin context
// This is set by the auth middleware
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}

// PrincipalFrom returns the caller, or false for an anonymous request.
func PrincipalFrom(c *gin.Context) (domain.Principal, bool) {
	uid := UserFirebaseUID(c)
	if uid == "" {
		return domain.Principal{}, false
	}
	return domain.Principal{
		UID:         uid,
		Email:       c.GetString(CtxEmail),
		DisplayName: c.GetString(CtxDisplayName),
	}, true
}
