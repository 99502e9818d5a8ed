package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/financasgo/backend/internal/model"
	"github.com/financasgo/backend/internal/repository"
)

// ErrInvalidCredentials is returned when the email or password does not match.
// Login never reveals which of the two was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrEmailInUse is returned when a signup email already has an account.
var ErrEmailInUse = errors.New("email already in use")

const minPasswordLength = 8

// AuthService provides email/password signup and login.
type AuthService interface {
	SignUp(ctx context.Context, fullName, email, password string) (*model.User, error)
	LogIn(ctx context.Context, email, password string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates an AuthService.
func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) SignUp(ctx context.Context, fullName, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	fullName = strings.TrimSpace(fullName)

	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("a valid email is required")
	}
	if fullName == "" {
		return nil, errors.New("full_name is required")
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Email:              email,
		FullName:           fullName,
		PasswordHash:       string(hash),
		SubscriptionStatus: model.StatusTrial,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	slog.Info("new user signed up", "user_id", u.ID)
	return u, nil
}

func (s *authService) LogIn(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
