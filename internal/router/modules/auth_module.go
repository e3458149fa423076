package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmarkova/go-blog-platform/internal/container"
	handlers "github.com/dmarkova/go-blog-platform/internal/interface/http"
	"github.com/dmarkova/go-blog-platform/internal/interface/middleware"
	"github.com/dmarkova/go-blog-platform/pkg/helpers"
)

// AuthModule wires the account and session routes.
// Public: GET /, GET+POST /login, GET+POST /register, POST /refresh
// Protected: GET /profile, GET /logout
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	registerLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP(), nil)

	// Public routes see the session when there is one so they can redirect
	// already-authenticated users to the profile.
	public := rg.Group("/")
	public.Use(middleware.Session(rdb, m.JWT))
	{
		public.GET("/", m.Handler.Index)
		public.GET("/login", m.Handler.LoginForm)
		public.POST("/login", loginLimiter, m.Handler.Login)
		public.GET("/register", m.Handler.RegisterForm)
		public.POST("/register", registerLimiter, m.Handler.Register)
	}

	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(rdb, m.JWT))
	{
		auth.GET("/profile", m.Handler.Profile)
		auth.GET("/logout", m.Handler.Logout)
	}
}
