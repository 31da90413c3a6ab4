package feed

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uni-mart/unimart-backend/internal/auth"
	"github.com/uni-mart/unimart-backend/internal/listings/repository"
)

type Handler struct {
	listings *repository.Repo
}

func Register(rg *gin.RouterGroup, listings *repository.Repo) {
	h := &Handler{listings: listings}
	rg.GET("", h.feed)
}

func (h *Handler) feed(c *gin.Context) {
	identity := auth.IdentityFrom(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
		return
	}

	all, err := h.listings.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to load advertisements"})
		return
	}

	items := Compose(all, identity.UID, c.Query("q"), c.Query("category"))
	c.JSON(http.StatusOK, gin.H{"ok": true, "listings": items})
}
