package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxAuthUID     = "auth_uid"
	CtxEmail       = "email"
	CtxDisplayName = "display_name"
	CtxPhotoURL    = "photo_url"
	CtxUserDBID    = "user_db_id"
)

// AuthUID is the identity-provider subject set by the auth middleware.
func AuthUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxAuthUID))
}

// UserDBID is the users.id set by WithUser.
func UserDBID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserDBID))
}

// SetIdentity stores a verified identity in the gin context.
func SetIdentity(c *gin.Context, id *Identity) {
	c.Set(CtxAuthUID, id.UID)
	c.Set(CtxEmail, id.Email)
	c.Set(CtxDisplayName, id.Name)
	c.Set(CtxPhotoURL, id.Picture)
}
