package auth

import (
	"github.com/gin-gonic/gin"
)

const (
	// CtxIdentity is the gin context key holding the verified *Identity.
	CtxIdentity = "auth_identity"
)

// IdentityFrom extracts the verified identity from the Gin context.
// This is set by RequireIdentity. Returns nil when unauthenticated.
func IdentityFrom(c *gin.Context) *Identity {
	v, ok := c.Get(CtxIdentity)
	if !ok {
		return nil
	}
	identity, ok := v.(*Identity)
	if !ok {
		return nil
	}
	return identity
}
