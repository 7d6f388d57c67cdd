package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shorturl/auth"
	"shorturl/models"
	"shorturl/repository"
)

type UserService struct {
	users  repository.Users
	tokens *auth.TokenService
}

func NewUserService(users repository.Users, tokens *auth.TokenService) *UserService {
	return &UserService{users: users, tokens: tokens}
}

// Register creates a user with the default role. A missing username defaults
// to the email address.
func (s *UserService) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}
	if username == "" {
		username = email
	}

	user := &models.User{
		Username:  username,
		Email:     email,
		Role:      models.RoleUser,
		CreatedAt: time.Now(),
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username or email already exists", ErrValidation)
		}
		return nil, err
	}
	return user, nil
}

// Login authenticates by email and password and issues a token. Unknown email
// and wrong password both return ErrInvalidCredentials so the response gives
// no signal for user enumeration.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !user.CheckPassword(password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) UpdateRole(ctx context.Context, id uint, role string) (*models.User, error) {
	r := models.Role(role)
	if !r.Valid() {
		return nil, fmt.Errorf("%w: invalid role, must be 'admin' or 'user'", ErrValidation)
	}

	user, err := s.users.UpdateRole(ctx, id, r)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
