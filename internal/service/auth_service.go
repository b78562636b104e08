package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"task_tracker/internal/models"
	"task_tracker/internal/repository"
)

// SignUpInput carries the registration form.
type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService handles user auth logic
type AuthService struct {
	users  repository.Users
	tokens *TokenManager
	hasher *PasswordHasher
}

func NewAuthService(users repository.Users, tokens *TokenManager, hasher *PasswordHasher) *AuthService {
	return &AuthService{users: users, tokens: tokens, hasher: hasher}
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp validates the form, hashes the password and creates a USER account.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (int, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)

	switch {
	case name == "":
		return 0, validationError("name is required")
	case email == "":
		return 0, validationError("email is required")
	case !strings.Contains(email, "@"):
		return 0, validationError("email is invalid")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return 0, err
	}

	id, err := s.users.Create(ctx, models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return 0, fmt.Errorf("%w: email %q already registered", ErrConflict, email)
		}
		return 0, err
	}
	return id, nil
}

// SignIn checks credentials and issues a token. Every failure, whether the
// account is unknown or the password wrong, is ErrInvalidCredentials.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (Token, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		s.hasher.VerifyDummy(password)
		return Token{}, ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return Token{}, err
	}
	if u == nil {
		s.hasher.VerifyDummy(password)
		return Token{}, ErrInvalidCredentials
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return Token{}, ErrInvalidCredentials
	}

	return s.tokens.Issue(*u)
}

// ParseToken parses a JWT and returns the identity it carries.
func (s *AuthService) ParseToken(accessToken string) (models.Identity, error) {
	return s.tokens.Parse(accessToken)
}
