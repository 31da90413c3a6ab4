package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/uni-mart/unimart-backend/internal/auth"
	"github.com/uni-mart/unimart-backend/internal/session"
)

// TokenRevoker invalidates a user's refresh tokens on sign-out.
// *fbauth.Client satisfies this.
type TokenRevoker interface {
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

type Handler struct {
	verifier auth.Verifier
	sessions *session.Provider
	revoker  TokenRevoker
}

func NewHandler(verifier auth.Verifier, sessions *session.Provider, revoker TokenRevoker) *Handler {
	return &Handler{verifier: verifier, sessions: sessions, revoker: revoker}
}

// Register mounts the auth routes. The public group carries no auth
// middleware (establishing a session is how a client becomes
// authenticated); the protected group does.
func Register(public, protected *gin.RouterGroup, h *Handler) {
	public.POST("/session", h.establish)
	protected.DELETE("/session", h.teardown)
	protected.GET("/me", h.me)
}

type establishReq struct {
	IDToken string `json:"idToken"`
}

func (h *Handler) establish(c *gin.Context) {
	var req establishReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.IDToken) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	identity, err := h.verifier.Verify(c.Request.Context(), req.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Login Failed"})
		return
	}

	h.sessions.Resolve(identity)
	c.JSON(http.StatusOK, gin.H{"ok": true, "identity": identity})
}

func (h *Handler) teardown(c *gin.Context) {
	identity := auth.IdentityFrom(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
		return
	}

	if h.revoker != nil {
		if err := h.revoker.RevokeRefreshTokens(c.Request.Context(), identity.UID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "sign out failed"})
			return
		}
	}

	h.sessions.Clear()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) me(c *gin.Context) {
	identity := auth.IdentityFrom(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "identity": identity})
}
