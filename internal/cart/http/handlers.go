package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/uni-mart/unimart-backend/internal/auth"
	"github.com/uni-mart/unimart-backend/internal/cart/domain"
	"github.com/uni-mart/unimart-backend/internal/cart/repository"
	listingsrepo "github.com/uni-mart/unimart-backend/internal/listings/repository"
)

type Handler struct {
	carts    *repository.Repo
	listings *listingsrepo.Repo
}

func Register(rg *gin.RouterGroup, carts *repository.Repo, listings *listingsrepo.Repo) {
	h := &Handler{carts: carts, listings: listings}

	rg.GET("", h.list)
	rg.POST("", h.add)
	rg.DELETE("/:cartId", h.remove)
	rg.GET("/subtotal", h.subtotal)
	rg.POST("/checkout", h.checkout)
}

type addReq struct {
	PostID string `json:"postId"`
}

func (h *Handler) add(c *gin.Context) {
	var req addReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.PostID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	listing, err := h.listings.GetByID(c.Request.Context(), req.PostID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to add to cart"})
		return
	}
	if listing == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "listing not found"})
		return
	}

	cartID, err := h.carts.Add(c.Request.Context(), auth.IdentityFrom(c), listing)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Please login first"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to add to cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "cartId": cartID})
}

func (h *Handler) list(c *gin.Context) {
	entries, err := h.carts.List(c.Request.Context(), auth.IdentityFrom(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to load your cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "entries": entries})
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.carts.Remove(c.Request.Context(), c.Param("cartId")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to remove from cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) subtotal(c *gin.Context) {
	entries, err := h.carts.List(c.Request.Context(), auth.IdentityFrom(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to load your cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "subtotal": domain.Subtotal(entries), "count": len(entries)})
}

// checkout is not built yet; the client shows it as coming soon.
func (h *Handler) checkout(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"ok": false, "error": "checkout coming soon"})
}
