package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/catalog_api/internal/events"
	"github.com/Skotchmaster/catalog_api/internal/hash"
	"github.com/Skotchmaster/catalog_api/internal/models"
	"github.com/Skotchmaster/catalog_api/internal/repo"
	"github.com/Skotchmaster/catalog_api/internal/transport"
)

type UserService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	// MinPasswordScore is the lowest accepted zxcvbn score, 0..4.
	MinPasswordScore int
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.Repo.GetUser(ctx, id)
	return u, translate(err, "user")
}

// Create registers a user with role; an empty role means a regular user.
func (s *UserService) Create(ctx context.Context, req transport.CreateUserRequest) (*models.User, error) {
	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, req.Role)
	}

	username := normalize(req.Username)
	email := normalize(req.Email)
	if username == "" || email == "" {
		return nil, fmt.Errorf("%w: username and email are required", ErrValidation)
	}
	if err := s.ensureIdentityFree(ctx, username, email, 0); err != nil {
		return nil, err
	}

	pwHash, err := s.hashPassword(req.Password, username, email)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
		Address:      strings.TrimSpace(req.Address),
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, translate(err, "user")
	}

	publish(ctx, s.Events, events.New(events.EntityUser, "created", user.ID, user.Username))
	return user, nil
}

func (s *UserService) Update(ctx context.Context, caller Caller, id uint, req transport.UpdateUserRequest) (*models.User, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanActOn(id) {
		return nil, fmt.Errorf("%w: cannot modify another user", ErrForbidden)
	}

	fields := map[string]any{}
	username, email := current.Username, current.Email
	if req.Username != nil {
		username = normalize(*req.Username)
		fields["username"] = username
	}
	if req.Email != nil {
		email = normalize(*req.Email)
		fields["email"] = email
	}
	if req.Username != nil || req.Email != nil {
		if err := s.ensureIdentityFree(ctx, username, email, id); err != nil {
			return nil, err
		}
	}
	if req.Address != nil {
		fields["address"] = strings.TrimSpace(*req.Address)
	}
	if req.Password != nil {
		pwHash, err := s.hashPassword(*req.Password, username, email)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = pwHash
	}

	user, err := s.Repo.UpdateUser(ctx, id, fields)
	if err != nil {
		return nil, translate(err, "user")
	}

	publish(ctx, s.Events, events.New(events.EntityUser, "updated", user.ID, user.Username))
	return user, nil
}

func (s *UserService) SetRole(ctx context.Context, id uint, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	user, err := s.Repo.UpdateUser(ctx, id, map[string]any{"role": role})
	if err != nil {
		return nil, translate(err, "user")
	}

	publish(ctx, s.Events, events.New(events.EntityUser, "role_changed", user.ID, string(user.Role)))
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, caller Caller, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if !caller.CanActOn(id) {
		return fmt.Errorf("%w: cannot delete another user", ErrForbidden)
	}
	if err := translate(s.Repo.DeleteUser(ctx, id), "user"); err != nil {
		return err
	}

	publish(ctx, s.Events, events.New(events.EntityUser, "deleted", id, ""))
	return nil
}

func (s *UserService) ensureIdentityFree(ctx context.Context, username, email string, self uint) error {
	taken, err := s.Repo.UsernameTaken(ctx, username, self)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: username %q", ErrConflict, username)
	}

	taken, err = s.Repo.EmailTaken(ctx, email, self)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: email %q", ErrConflict, email)
	}
	return nil
}

func (s *UserService) hashPassword(password, username, email string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password is required", ErrValidation)
	}
	if score := hash.Strength(password, username, email); score < s.MinPasswordScore {
		return "", fmt.Errorf("%w: password too weak (score %d, need %d)", ErrValidation, score, s.MinPasswordScore)
	}
	return hash.HashPassword(password)
}
