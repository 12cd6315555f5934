package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/shorty/internal/domain"
	"github.com/jonesrussell/shorty/internal/logger"
	"github.com/jonesrussell/shorty/internal/middleware"
	"github.com/jonesrussell/shorty/internal/shortener"
)

// LinksHandler handles the authenticated link management API.
type LinksHandler struct {
	shortener *shortener.Service
	logger    logger.Logger
}

// NewLinksHandler creates a LinksHandler.
func NewLinksHandler(svc *shortener.Service, log logger.Logger) *LinksHandler {
	return &LinksHandler{shortener: svc, logger: log}
}

type createLinkRequest struct {
	URL       string `json:"url" binding:"required"`
	Keyword   string `json:"keyword"`
	Namespace string `json:"namespace"`
}

type updateLinkRequest struct {
	URL string `json:"url" binding:"required"`
}

type linkResponse struct {
	domain.Link
	ShortCode   string `json:"short_code"`
	KeywordPath string `json:"keyword_path,omitempty"`
}

// Create validates and stores a new link for the authenticated owner.
func (h *LinksHandler) Create(c *gin.Context) {
	owner, perms, ok := h.caller(c)
	if !ok {
		return
	}

	var req createLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"url is required"}})
		return
	}

	result, err := h.shortener.Create(c.Request.Context(), owner, perms, shortener.CreateParams{
		URL:       req.URL,
		Keyword:   req.Keyword,
		Namespace: req.Namespace,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, linkResponse{
		Link:        result.Link,
		ShortCode:   result.ShortCode,
		KeywordPath: result.KeywordPath,
	})
}

// List returns the authenticated owner's links, newest first.
func (h *LinksHandler) List(c *gin.Context) {
	owner, _, ok := h.caller(c)
	if !ok {
		return
	}

	views, err := h.shortener.List(c.Request.Context(), owner)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"links": views})
}

// Update changes the destination URL of an existing link.
func (h *LinksHandler) Update(c *gin.Context) {
	owner, perms, ok := h.caller(c)
	if !ok {
		return
	}

	linkID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"invalid link id"}})
		return
	}

	var req updateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"url is required"}})
		return
	}

	link, err := h.shortener.UpdateURL(c.Request.Context(), owner, perms, linkID, req.URL)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, link)
}

// Permissions returns the authenticated caller's permission flags.
func (h *LinksHandler) Permissions(c *gin.Context) {
	_, perms, ok := h.caller(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, perms)
}

// caller fetches the identity stored by the auth middleware. A miss means
// the route was wired without RequireAuth.
func (h *LinksHandler) caller(c *gin.Context) (*domain.Owner, *domain.Permissions, bool) {
	owner, ok := middleware.CurrentOwner(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return nil, nil, false
	}

	perms, ok := middleware.CurrentPermissions(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return nil, nil, false
	}

	return owner, perms, true
}

// renderError maps service errors to HTTP responses. Validation problems are
// returned as a list so the caller sees every problem at once.
func (h *LinksHandler) renderError(c *gin.Context, err error) {
	var problems shortener.ValidationErrors
	switch {
	case errors.As(err, &problems):
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string(problems)})
	case errors.Is(err, domain.ErrDuplicateKeyword):
		c.JSON(http.StatusConflict, gin.H{"errors": []string{"keyword is already taken in this namespace"}})
	case errors.Is(err, domain.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "link not found"})
	default:
		h.logger.Error("link request failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
