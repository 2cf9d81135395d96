package checkout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fjod/evermarket/internal/cart"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// maxCommitAttempts bounds retries on serialization/deadlock failures.
const maxCommitAttempts = 3

// PostgresCommitter turns a cart into stock decrements and order rows
// inside a single transaction. Product rows are locked FOR UPDATE so
// concurrent checkouts cannot jointly oversell.
type PostgresCommitter struct {
	db *sql.DB
}

func NewPostgresCommitter(db *sql.DB) *PostgresCommitter {
	return &PostgresCommitter{db: db}
}

func (c *PostgresCommitter) CommitCart(ctx context.Context, userID string, lines []cart.Entry) error {
	var err error
	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		err = c.commitOnce(ctx, userID, lines)
		if !isRetryable(err) {
			return err
		}
	}
	return ErrConflict
}

func (c *PostgresCommitter) commitOnce(ctx context.Context, userID string, lines []cart.Entry) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin checkout tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// First pass: lock every product row and validate stock. Lines
	// arrive sorted by product id, which keeps lock order stable
	// across concurrent checkouts and avoids deadlocks.
	for _, line := range lines {
		var name string
		var stock int
		err := tx.QueryRowContext(ctx,
			`SELECT name, stock FROM products WHERE id = $1 FOR UPDATE`,
			line.ProductID).Scan(&name, &stock)
		if errors.Is(err, sql.ErrNoRows) {
			return &ProductNotFoundError{ProductID: line.ProductID}
		}
		if err != nil {
			return fmt.Errorf("lock product %d: %w", line.ProductID, err)
		}
		if stock < line.Quantity {
			return &InsufficientStockError{
				ProductID: line.ProductID,
				Name:      name,
				Available: stock,
				Requested: line.Quantity,
			}
		}
	}

	// Second pass: decrement stock and append order records.
	for _, line := range lines {
		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - $2 WHERE id = $1`,
			line.ProductID, line.Quantity); err != nil {
			return fmt.Errorf("decrement stock for product %d: %w", line.ProductID, err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO orders (id, user_id, product_id, quantity, purchased_at)
			 VALUES ($1, $2, $3, $4, NOW())`,
			uuid.NewString(), userID, line.ProductID, line.Quantity); err != nil {
			return fmt.Errorf("insert order for product %d: %w", line.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit checkout tx: %w", err)
	}
	return nil
}

// isRetryable reports serialization failures and deadlocks, which
// postgres asks the client to retry.
func isRetryable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}
