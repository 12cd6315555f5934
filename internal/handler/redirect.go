package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/shorty/internal/shortener"
)

// RedirectHandler handles public short-link resolution requests.
type RedirectHandler struct {
	shortener *shortener.Service
}

// NewRedirectHandler creates a RedirectHandler.
func NewRedirectHandler(svc *shortener.Service) *RedirectHandler {
	return &RedirectHandler{shortener: svc}
}

// Redirect resolves a bare path segment, either a marked short code or a
// global-namespace keyword, and issues a 302 to the destination.
func (h *RedirectHandler) Redirect(c *gin.Context) {
	target, err := h.shortener.Resolve(c.Request.Context(), c.Param("segment"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "short link not found"})
		return
	}

	c.Redirect(http.StatusFound, target)
}

// RedirectNamespaced resolves a namespace-qualified keyword path. The
// namespace segment may be a shared namespace name or the "~username" form
// addressing a personal namespace.
func (h *RedirectHandler) RedirectNamespaced(c *gin.Context) {
	target, err := h.shortener.ResolveIn(c.Request.Context(), c.Param("segment"), c.Param("keyword"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "short link not found"})
		return
	}

	c.Redirect(http.StatusFound, target)
}
