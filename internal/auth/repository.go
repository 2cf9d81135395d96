package auth

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUserExists    = errors.New("username or email already taken")
	ErrTokenNotFound = errors.New("reset token not found")
)

type ResetToken struct {
	ID         int64
	UserID     string
	TokenHash  string
	ExpiryDate time.Time
	Used       bool
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type ResetTokenRepository interface {
	CreateResetToken(ctx context.Context, token *ResetToken) error
	// GetActiveResetToken looks up an unused token by its hash.
	GetActiveResetToken(ctx context.Context, tokenHash string) (*ResetToken, error)
	MarkResetTokenUsed(ctx context.Context, id int64) error
}
