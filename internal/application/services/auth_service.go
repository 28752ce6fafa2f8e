package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shelfshare/shelfshare-go/internal/domain/entities/exchange"
	"github.com/shelfshare/shelfshare-go/internal/domain/repositories"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/observability/logging"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/security"
	"github.com/shelfshare/shelfshare-go/pkg/config"
)

// AuthService handles signup, login and profile workflows.
type AuthService struct {
	users  repositories.UserRepository
	logger *logging.ChanneledLogger
}

// NewAuthService creates a new authentication service
func NewAuthService(users repositories.UserRepository, logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{users: users, logger: logger}
}

// AuthResult bundles the issued token with the public profile.
type AuthResult struct {
	Token string              `json:"token"`
	User  exchange.PublicUser `json:"user"`
}

// SignupInput carries the fields accepted at registration.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Mobile   *string
}

// Signup registers a new user. Email addresses are unique,
// case-insensitively.
func (a *AuthService) Signup(input SignupInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	existing, err := a.users.FindByEmail(email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		a.logger.LogAuthOperation("signup", email, false)
		return nil, ErrEmailTaken
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &exchange.User{
		ID:        security.GenerateULID(),
		Name:      strings.TrimSpace(input.Name),
		Email:     email,
		Password:  hash,
		Role:      exchange.RoleUser,
		Mobile:    input.Mobile,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.users.Store(user); err != nil {
		return nil, fmt.Errorf("failed to store user: %w", err)
	}

	a.logger.LogAuthOperation("signup", user.ID, true)
	return a.issue(user)
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (a *AuthService) Login(email, password string) (*AuthResult, error) {
	user, err := a.users.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			a.logger.LogAuthOperation("login", email, false)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !security.ComparePassword(password, user.Password) {
		a.logger.LogAuthOperation("login", user.ID, false)
		return nil, ErrInvalidCredentials
	}

	a.logger.LogAuthOperation("login", user.ID, true)
	return a.issue(user)
}

// Profile returns the public profile for a user id.
func (a *AuthService) Profile(userID string) (*exchange.PublicUser, error) {
	user, err := a.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

// ProfileUpdate carries the mutable profile fields; nil means unchanged.
type ProfileUpdate struct {
	Name   *string
	Mobile *string
}

// UpdateProfile applies a partial update to the user's own profile.
func (a *AuthService) UpdateProfile(userID string, update ProfileUpdate) (*exchange.PublicUser, error) {
	user, err := a.users.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil && strings.TrimSpace(*update.Name) != "" {
		user.Name = strings.TrimSpace(*update.Name)
	}
	if update.Mobile != nil {
		user.Mobile = update.Mobile
	}
	user.UpdatedAt = time.Now().UTC()

	if err := a.users.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	public := user.Public()
	return &public, nil
}

// DisplayName implements realtime.DisplayNameResolver.
func (a *AuthService) DisplayName(userID string) (string, bool) {
	user, err := a.users.FindByID(userID)
	if err != nil {
		return "", false
	}
	return user.Name, true
}

func (a *AuthService) issue(user *exchange.User) (*AuthResult, error) {
	token, err := security.GenerateToken(user, config.JWTSecret, config.TokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &AuthResult{Token: token, User: user.Public()}, nil
}
