package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/uni-mart/unimart-backend/internal/auth"
	"github.com/uni-mart/unimart-backend/internal/listings/domain"
	"github.com/uni-mart/unimart-backend/internal/listings/repository"
)

type Handler struct {
	repo *repository.Repo
}

func Register(rg *gin.RouterGroup, repo *repository.Repo) {
	h := &Handler{repo: repo}

	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/mine", h.mine)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	var req domain.NewListing
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	id, err := h.repo.Create(c.Request.Context(), auth.IdentityFrom(c), req)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to publish your advertisement"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": id})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to load advertisements"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "listings": items})
}

func (h *Handler) mine(c *gin.Context) {
	items, err := h.repo.ListByOwner(c.Request.Context(), auth.IdentityFrom(c))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to load your advertisements"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "listings": items})
}

func (h *Handler) get(c *gin.Context) {
	listing, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to load advertisement"})
		return
	}
	if listing == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "listing not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "listing": listing})
}

func (h *Handler) update(c *gin.Context) {
	var req domain.Patch
	if err := c.ShouldBindJSON(&req); err != nil || req.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := h.repo.Update(c.Request.Context(), c.Param("id"), req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to update your advertisement"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to delete your advertisement"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
