package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dmarkova/go-blog-platform/internal/application"
	"github.com/dmarkova/go-blog-platform/pkg/response"
	"github.com/dmarkova/go-blog-platform/pkg/validation"
)

// PostHandler serves the authenticated write operations: new, edit, delete.
// Any authenticated user may edit or delete any post; there is no per-author
// ownership model.
type PostHandler struct {
	Svc    *application.ContentService
	Logger *logrus.Logger
}

func NewPostHandler(svc *application.ContentService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Svc: svc, Logger: logger}
}

type postRequest struct {
	Title      string  `form:"title" binding:"required,posttitle"`
	Content    string  `form:"content" binding:"required"`
	CategoryID int64   `form:"category" binding:"required,gt=0"`
	TagIDs     []int64 `form:"tags"`
}

func (r postRequest) toInput() application.PostInput {
	return application.PostInput{
		Title:      r.Title,
		Content:    r.Content,
		CategoryID: r.CategoryID,
		TagIDs:     r.TagIDs,
	}
}

// formData returns the categories and tags the post forms are built from.
func (h *PostHandler) formData(c *gin.Context) (gin.H, bool) {
	categories, err := h.Svc.ListCategories(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list categories failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to load form", nil)
		return nil, false
	}
	tags, err := h.Svc.ListTags(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list tags failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to load form", nil)
		return nil, false
	}
	return gin.H{
		"categories": toCategoryViews(categories),
		"tags":       toTagViews(tags),
	}, true
}

func (h *PostHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrValidation):
		response.Error[any](c, http.StatusBadRequest, "title and content are required", nil)
	case errors.Is(err, application.ErrCategoryNotFound):
		response.Error[any](c, http.StatusBadRequest, "category does not exist", nil)
	case errors.Is(err, application.ErrTagNotFound):
		response.Error[any](c, http.StatusBadRequest, "tag does not exist", nil)
	case errors.Is(err, application.ErrPostNotFound):
		response.Error[any](c, http.StatusNotFound, "post not found", nil)
	default:
		h.Logger.WithError(err).Error("post write failed")
		response.Error[any](c, http.StatusInternalServerError, "operation failed", nil)
	}
}

// NewPostForm GET /new_post
func (h *PostHandler) NewPostForm(c *gin.Context) {
	data, ok := h.formData(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, data, "new post", nil)
}

// CreatePost POST /new_post
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid form", validation.ToDetails(err))
		return
	}
	if _, err := h.Svc.CreatePost(c.Request.Context(), req.toInput()); err != nil {
		h.writeError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/all_posts")
}

// EditPostForm GET /edit_post/:id
func (h *PostHandler) EditPostForm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.Svc.GetPost(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	data, ok := h.formData(c)
	if !ok {
		return
	}
	data["post"] = toPostView(p)
	// Ids of the tags currently on the post, for pre-checking the form.
	data["selected_tags"] = p.TagIDs()
	response.Success(c, http.StatusOK, data, "edit post", nil)
}

// EditPost POST /edit_post/:id — full replace, including the tag set.
func (h *PostHandler) EditPost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req postRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid form", validation.ToDetails(err))
		return
	}
	if _, err := h.Svc.EditPost(c.Request.Context(), id, req.toInput()); err != nil {
		h.writeError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/all_posts")
}

// DeletePost GET/POST /delete_post/:id
func (h *PostHandler) DeletePost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.DeletePost(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/all_posts")
}
