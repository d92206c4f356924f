package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"wagewise/internal/auth"
	"wagewise/internal/storage"
)

var ErrInvalidEmail = errors.New("invalid email address")

// AccountService registers and authenticates users
type AccountService struct {
	users storage.UserStore
	now   func() time.Time
}

func NewAccountService(users storage.UserStore) *AccountService {
	return &AccountService{users: users, now: time.Now}
}

// Signup creates an account. Emails are stored lowercased.
func (a *AccountService) Signup(ctx context.Context, email, password string) (storage.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return storage.User{}, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return storage.User{}, err
	}

	u := storage.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    a.now(),
	}
	if err := a.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return storage.User{}, err
		}
		return storage.User{}, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User signed up", "user_id", u.ID)
	return u, nil
}

// Login checks the credentials. An unknown email and a wrong password both
// yield auth.ErrInvalidCredentials.
func (a *AccountService) Login(ctx context.Context, email, password string) (storage.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return storage.User{}, auth.ErrInvalidCredentials
	}
	u, err := a.users.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.User{}, auth.ErrInvalidCredentials
	}
	if err != nil {
		return storage.User{}, fmt.Errorf("get user: %w", err)
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		slog.WarnContext(ctx, "Login failed", "user_id", u.ID)
		return storage.User{}, err
	}
	return u, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}
