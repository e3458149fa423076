package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmarkova/go-blog-platform/internal/domain/entity"
	"github.com/dmarkova/go-blog-platform/pkg/response"
)

type tagView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type categoryView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type postView struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	CategoryID int64     `json:"category_id"`
	Tags       []tagView `json:"tags"`
}

func toTagViews(tags []entity.Tag) []tagView {
	out := make([]tagView, 0, len(tags))
	for _, t := range tags {
		out = append(out, tagView{ID: t.ID, Name: t.Name})
	}
	return out
}

func toCategoryViews(categories []entity.Category) []categoryView {
	out := make([]categoryView, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryView{ID: c.ID, Name: c.Name})
	}
	return out
}

func toPostView(p *entity.Post) postView {
	return postView{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		CreatedAt:  p.CreatedAt,
		CategoryID: p.CategoryID,
		Tags:       toTagViews(p.Tags),
	}
}

func toPostViews(posts []entity.Post) []postView {
	out := make([]postView, 0, len(posts))
	for i := range posts {
		out = append(out, toPostView(&posts[i]))
	}
	return out
}

// pathID parses the :id path parameter. A malformed id behaves like a miss.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error[any](c, http.StatusNotFound, "not found", nil)
		return 0, false
	}
	return id, true
}
