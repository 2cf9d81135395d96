package orders

import "context"

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
	HasPurchased(ctx context.Context, userID string, productID int64) (bool, error)
}
