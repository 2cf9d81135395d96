package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrTokenExpired = errors.New("token has expired")
)

// Reset tokens are valid for five minutes and single-use. Only the
// sha1 hash of the token is stored; the raw token travels in the email.
const resetTokenTTL = 5 * time.Minute

type ResetService struct {
	users  UserRepository
	tokens ResetTokenRepository
	now    func() time.Time
}

func NewResetService(users UserRepository, tokens ResetTokenRepository) *ResetService {
	return &ResetService{
		users:  users,
		tokens: tokens,
		now:    time.Now,
	}
}

// IssueToken creates a reset token for the user and returns the raw
// (unhashed) token to embed in the reset link.
func (s *ResetService) IssueToken(ctx context.Context, user *User) (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	err := s.tokens.CreateResetToken(ctx, &ResetToken{
		UserID:     user.ID,
		TokenHash:  hashToken(token),
		ExpiryDate: s.now().Add(resetTokenTTL),
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// ConsumeToken verifies the raw token, rehashes the user's password
// and marks the token used. A token can only be consumed once.
func (s *ResetService) ConsumeToken(ctx context.Context, rawToken, newPassword string) error {
	token, err := s.tokens.GetActiveResetToken(ctx, hashToken(rawToken))
	if errors.Is(err, ErrTokenNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return err
	}

	if token.ExpiryDate.Before(s.now()) {
		return ErrTokenExpired
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, token.UserID, hash); err != nil {
		return err
	}
	return s.tokens.MarkResetTokenUsed(ctx, token.ID)
}

func hashToken(token string) string {
	sum := sha1.Sum([]byte(token))
	return hex.EncodeToString(sum[:])
}
