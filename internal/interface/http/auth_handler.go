package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dmarkova/go-blog-platform/internal/application"
	"github.com/dmarkova/go-blog-platform/internal/interface/middleware"
	"github.com/dmarkova/go-blog-platform/pkg/helpers"
	"github.com/dmarkova/go-blog-platform/pkg/response"
	"github.com/dmarkova/go-blog-platform/pkg/validation"
)

// AuthHandler serves registration, login and the session lifecycle.
type AuthHandler struct {
	Svc     *application.AuthService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type loginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type registerRequest struct {
	Username string `form:"username" binding:"required,username"`
	Password string `form:"password" binding:"required,pwd"`
	Email    string `form:"email" binding:"required,email"`
}

// Index GET / — authenticated users land on their profile.
func (h *AuthHandler) Index(c *gin.Context) {
	if _, ok := middleware.UserID(c); ok {
		c.Redirect(http.StatusSeeOther, "/profile")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "welcome", nil)
}

// LoginForm GET /login
func (h *AuthHandler) LoginForm(c *gin.Context) {
	if _, ok := middleware.UserID(c); ok {
		c.Redirect(http.StatusSeeOther, "/profile")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "login", nil)
}

// Login POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	if _, ok := middleware.UserID(c); ok {
		c.Redirect(http.StatusSeeOther, "/profile")
		return
	}
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid form", validation.ToDetails(err))
		return
	}

	_, pair, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "wrong username or password", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	c.Redirect(http.StatusSeeOther, "/profile")
}

// RegisterForm GET /register
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	if _, ok := middleware.UserID(c); ok {
		c.Redirect(http.StatusSeeOther, "/profile")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "register", nil)
}

// Register POST /register — on success the new user is sent to the login page.
func (h *AuthHandler) Register(c *gin.Context) {
	if _, ok := middleware.UserID(c); ok {
		c.Redirect(http.StatusSeeOther, "/profile")
		return
	}
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid form", validation.ToDetails(err))
		return
	}

	_, err := h.Svc.Register(c.Request.Context(), req.Username, req.Password, req.Email)
	switch {
	case errors.Is(err, application.ErrUsernameTaken):
		response.Error[any](c, http.StatusConflict, "username already taken", nil)
		return
	case errors.Is(err, application.ErrEmailTaken):
		response.Error[any](c, http.StatusConflict, "email already taken", nil)
		return
	case errors.Is(err, application.ErrValidation):
		response.Error[any](c, http.StatusBadRequest, "all fields are required", nil)
		return
	case err != nil:
		h.Logger.WithError(err).Error("register failed")
		response.Error[any](c, http.StatusInternalServerError, "registration failed", nil)
		return
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

// Profile GET /profile — identity is re-read from the store, not the session.
func (h *AuthHandler) Profile(c *gin.Context) {
	uid, _ := middleware.UserID(c)
	u, err := h.Svc.CurrentUser(c.Request.Context(), uid)
	if err != nil {
		// Session references a user that no longer exists.
		h.Cookies.Clear(c)
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"created_at": u.CreatedAt,
	}, "profile", nil)
}

// Logout GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if uid, ok := middleware.UserID(c); ok {
		h.Svc.EndSession(c.Request.Context(), uid)
	}
	h.Cookies.Clear(c)
	c.Redirect(http.StatusSeeOther, "/")
}

// Refresh POST /refresh — rotates the token pair against the live session.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, gin.H{"refreshed": true}, "token refreshed", nil)
}
