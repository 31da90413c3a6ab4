package media

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	uploader *Uploader
}

func Register(rg *gin.RouterGroup, uploader *Uploader) {
	h := &Handler{uploader: uploader}
	rg.POST("", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "file is required"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "file is unreadable"})
		return
	}
	defer f.Close()

	url, err := h.uploader.Upload(c.Request.Context(), fh.Filename, f)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "Image upload failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "url": url})
}
