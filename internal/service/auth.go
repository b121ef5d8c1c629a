package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog_api/internal/hash"
	"github.com/Skotchmaster/catalog_api/internal/logging"
	"github.com/Skotchmaster/catalog_api/internal/models"
	"github.com/Skotchmaster/catalog_api/internal/tokens"
	"github.com/Skotchmaster/catalog_api/internal/transport"
)

type AuthService struct {
	Users     *UserService
	JWTSecret []byte
	TokenTTL  time.Duration
}

type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *models.User
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	return s.Users.Create(ctx, transport.CreateUserRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Role:     string(models.RoleUser),
	})
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = normalize(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Users.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_rejected", "reason", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	exp := time.Now().Add(s.ttl())
	token, err := tokens.CreateAccessToken(s.JWTSecret, user.ID, user.Username, string(user.Role), exp)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	return &LoginResult{AccessToken: token, ExpiresAt: exp, User: user}, nil
}

func (s *AuthService) ttl() time.Duration {
	if s.TokenTTL <= 0 {
		return time.Hour
	}
	return s.TokenTTL
}
