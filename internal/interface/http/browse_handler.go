package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dmarkova/go-blog-platform/internal/application"
	"github.com/dmarkova/go-blog-platform/pkg/response"
)

// BrowseHandler serves the public read-only listings.
type BrowseHandler struct {
	Svc    *application.ContentService
	Logger *logrus.Logger
}

func NewBrowseHandler(svc *application.ContentService, logger *logrus.Logger) *BrowseHandler {
	return &BrowseHandler{Svc: svc, Logger: logger}
}

// AllPosts GET /all_posts — newest first; optional ?limit=N.
func (h *BrowseHandler) AllPosts(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	posts, err := h.Svc.ListNewest(c.Request.Context(), limit)
	if err != nil {
		h.Logger.WithError(err).Error("list posts failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to load posts", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"posts": toPostViews(posts)}, "all posts", nil)
}

// GetPost GET /post/:id
func (h *BrowseHandler) GetPost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.Svc.GetPost(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrPostNotFound) {
			response.Error[any](c, http.StatusNotFound, "post not found", nil)
			return
		}
		h.Logger.WithError(err).Error("get post failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to load post", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"post": toPostView(p)}, "post", nil)
}

// Category GET /category/:id — the category plus its posts, newest first.
func (h *BrowseHandler) Category(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	category, posts, err := h.Svc.ListByCategory(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrCategoryNotFound) {
			response.Error[any](c, http.StatusNotFound, "category not found", nil)
			return
		}
		h.Logger.WithError(err).Error("list by category failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to load category", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"category": categoryView{ID: category.ID, Name: category.Name},
		"posts":    toPostViews(posts),
	}, "category", nil)
}

// Tag GET /tag/:id — the tag plus its posts, newest first.
func (h *BrowseHandler) Tag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	tag, posts, err := h.Svc.ListByTag(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrTagNotFound) {
			response.Error[any](c, http.StatusNotFound, "tag not found", nil)
			return
		}
		h.Logger.WithError(err).Error("list by tag failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to load tag", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"tag":   tagView{ID: tag.ID, Name: tag.Name},
		"posts": toPostViews(posts),
	}, "tag", nil)
}
