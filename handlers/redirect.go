package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shorturl/services"
)

type RedirectHandler struct {
	links *services.LinkService
}

func NewRedirectHandler(links *services.LinkService) *RedirectHandler {
	return &RedirectHandler{links: links}
}

// Redirect is the public hot path. 302 rather than 301 so browsers keep
// coming back and every click gets counted.
func (h *RedirectHandler) Redirect(c *gin.Context) {
	code := c.Param("code")

	originalURL, err := h.links.Resolve(c.Request.Context(), code, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.String(http.StatusNotFound, "Short URL does not exist")
			return
		}
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusFound, originalURL)
}
