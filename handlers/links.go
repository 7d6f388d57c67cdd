package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shorturl/auth"
	"shorturl/models"
	"shorturl/services"
)

type LinkHandler struct {
	links *services.LinkService
}

func NewLinkHandler(links *services.LinkService) *LinkHandler {
	return &LinkHandler{links: links}
}

type createLinkRequest struct {
	OriginalURL string `json:"original_url" binding:"required"`
}

func (h *LinkHandler) Create(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var req createLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	link, err := h.links.Create(c.Request.Context(), user, req.OriginalURL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toLinkResponse(link))
}

func (h *LinkHandler) List(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	links, err := h.links.ListByOwner(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]linkResponse, 0, len(links))
	for i := range links {
		out = append(out, toLinkResponse(&links[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *LinkHandler) Get(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	link, err := h.links.Get(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toLinkResponse(link))
}

func (h *LinkHandler) Delete(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	if err := h.links.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Link deleted successfully"})
}

type clickResponse struct {
	ID        string    `json:"id"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	ClickedAt time.Time `json:"clicked_at"`
}

func (h *LinkHandler) Stats(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	link, recent, err := h.links.Stats(c.Request.Context(), user, c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            link.ID,
		"original_url":  link.OriginalURL,
		"short_code":    link.ShortCode,
		"click_count":   link.ClickCount,
		"created_at":    link.CreatedAt,
		"expires_at":    link.ExpiresAt,
		"recent_clicks": toClickResponses(recent),
	})
}

func toClickResponses(stats []models.ClickStat) []clickResponse {
	out := make([]clickResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, clickResponse{
			ID:        s.ID,
			IPAddress: s.IPAddress,
			UserAgent: s.UserAgent,
			ClickedAt: s.ClickedAt,
		})
	}
	return out
}
