package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmarkova/go-blog-platform/internal/container"
	handlers "github.com/dmarkova/go-blog-platform/internal/interface/http"
	"github.com/dmarkova/go-blog-platform/internal/interface/middleware"
	"github.com/dmarkova/go-blog-platform/pkg/helpers"
)

// ContentModule wires the authenticated write routes. Writes require a
// session; any authenticated user may edit or delete any post.
type ContentModule struct {
	Handler *handlers.PostHandler
	JWT     *helpers.JWTManager
}

func NewContentModule(h *handlers.PostHandler, jwt *helpers.JWTManager) *ContentModule {
	return &ContentModule{Handler: h, JWT: jwt}
}

func (m *ContentModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	auth := rg.Group("/")
	auth.Use(middleware.Auth(rdb, m.JWT))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/new_post", m.Handler.NewPostForm)
		auth.POST("/new_post", m.Handler.CreatePost)
		auth.GET("/edit_post/:id", m.Handler.EditPostForm)
		auth.POST("/edit_post/:id", m.Handler.EditPost)
		// The original UI links deletion as a plain GET; both verbs work.
		auth.GET("/delete_post/:id", m.Handler.DeletePost)
		auth.POST("/delete_post/:id", m.Handler.DeletePost)
	}
}
