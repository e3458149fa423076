package application

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/dmarkova/go-blog-platform/internal/domain/entity"
	repo "github.com/dmarkova/go-blog-platform/internal/domain/repository"
	"github.com/dmarkova/go-blog-platform/pkg/helpers"
	"github.com/dmarkova/go-blog-platform/pkg/mailer"
)

// AuthService owns credential verification and session identity. Session
// state lives in Redis under user:session:<id>; the tokens handed to the
// client are JWTs carrying the user id and the redis session id.
type AuthService struct {
	Users      repo.UserRepository
	JWT        *helpers.JWTManager
	Redis      *redis.Client
	Logger     *logrus.Logger
	Pub        *helpers.RabbitPublisher
	AppName    string
	MailEnable bool
	SessionTTL time.Duration
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, pub *helpers.RabbitPublisher, appName string, mailEnable bool, sessionTTL time.Duration) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		Users:      users,
		JWT:        jwt,
		Redis:      rdb,
		Logger:     logger,
		Pub:        pub,
		AppName:    appName,
		MailEnable: mailEnable,
		SessionTTL: sessionTTL,
	}
}

func sessionKey(userID int64) string {
	return "user:session:" + strconv.FormatInt(userID, 10)
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Register creates a new account with a bcrypt-hashed password. The username
// check runs first so a duplicate surfaces as ErrUsernameTaken; the unique
// constraints in the store backstop the race.
func (s *AuthService) Register(ctx context.Context, username, password, email string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || password == "" || email == "" {
		return nil, ErrValidation
	}

	if _, err := s.Users.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Username: username, Password: hash, Email: email}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			// Username was checked above; decide which constraint tripped.
			if _, lookupErr := s.Users.GetByEmail(ctx, email); lookupErr == nil {
				return nil, ErrEmailTaken
			}
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user registered")
	s.enqueueWelcomeEmail(ctx, u)
	return u, nil
}

// Authenticate verifies username/password. A missing user and a wrong
// password are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Login is Authenticate followed by EstablishSession.
func (s *AuthService) Login(ctx context.Context, username, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.EstablishSession(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// EstablishSession generates a token pair and records the session in Redis.
func (s *AuthService) EstablishSession(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		return TokenPair{}, err
	}

	key := sessionKey(u.ID)
	fields := map[string]any{
		"user_id":    u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"sid":        sid,
		"logged_in":  true,
		"created_at": nowRFC3339(),
	}
	pipe := s.Redis.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, s.SessionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.Logger.WithError(err).WithField("key", key).Error("redis pipeline failed")
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// CurrentUser resolves the session identity by re-reading the user from the
// store; the session hash copy is never trusted.
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// EndSession clears the session identity. Safe to call for a session that is
// already gone.
func (s *AuthService) EndSession(ctx context.Context, userID int64) {
	if err := s.Redis.Del(ctx, sessionKey(userID)).Err(); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("session delete failed")
	}
}

// Refresh rotates the session id and token pair after validating that the
// refresh token still matches the live session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, int64, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, 0, ErrInvalidCredentials
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, 0, ErrInvalidCredentials
	}

	key := sessionKey(u.ID)
	data, err := s.Redis.HGetAll(ctx, key).Result()
	if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
		return TokenPair{}, 0, ErrInvalidCredentials
	}

	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, 0, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, 0, err
	}
	pipe := s.Redis.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"sid":        sid,
		"updated_at": nowRFC3339(),
	})
	pipe.Expire(ctx, key, s.SessionTTL)
	_, _ = pipe.Exec(ctx)

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, u.ID, nil
}

func (s *AuthService) enqueueWelcomeEmail(ctx context.Context, u *entity.User) {
	if s.Pub == nil || !s.MailEnable {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: "welcome",
		Data:     map[string]any{"username": u.Username, "app_name": s.AppName},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email enqueue failed")
	}
}
