package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *User) error {
	query := `INSERT INTO users (id, username, email, password_hash, role, created_at)
	          VALUES ($1, $2, $3, $4, $5, NOW())`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Role)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*User, error) {
	return r.getUser(ctx, `SELECT id, username, email, password_hash, role, created_at
	                       FROM users WHERE id = $1`, id)
}

func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return r.getUser(ctx, `SELECT id, username, email, password_hash, role, created_at
	                       FROM users WHERE username = $1`, username)
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.getUser(ctx, `SELECT id, username, email, password_hash, role, created_at
	                       FROM users WHERE email = $1`, email)
}

func (r *PostgresRepository) getUser(ctx context.Context, query, arg string) (*User, error) {
	var user User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateResetToken(ctx context.Context, token *ResetToken) error {
	query := `INSERT INTO reset_tokens (user_id, token_hash, expiry_date, used)
	          VALUES ($1, $2, $3, FALSE) RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		token.UserID, token.TokenHash, token.ExpiryDate).Scan(&token.ID)
	if err != nil {
		return fmt.Errorf("insert reset token: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetActiveResetToken(ctx context.Context, tokenHash string) (*ResetToken, error) {
	query := `SELECT id, user_id, token_hash, expiry_date, used
	          FROM reset_tokens WHERE token_hash = $1 AND used = FALSE`

	var token ResetToken
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.ExpiryDate,
		&token.Used,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query reset token: %w", err)
	}
	return &token, nil
}

func (r *PostgresRepository) MarkResetTokenUsed(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reset_tokens SET used = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark reset token used: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTokenNotFound
	}
	return nil
}
