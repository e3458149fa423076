package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/dmarkova/go-blog-platform/internal/interface/http"
)

// BrowseModule wires the public read-only listing routes.
type BrowseModule struct {
	Handler *handlers.BrowseHandler
}

func NewBrowseModule(h *handlers.BrowseHandler) *BrowseModule {
	return &BrowseModule{Handler: h}
}

func (m *BrowseModule) Register(rg *gin.RouterGroup) {
	rg.GET("/all_posts", m.Handler.AllPosts)
	rg.GET("/post/:id", m.Handler.GetPost)
	rg.GET("/category/:id", m.Handler.Category)
	rg.GET("/tag/:id", m.Handler.Tag)
}
