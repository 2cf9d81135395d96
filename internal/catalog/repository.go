package catalog

import (
	"context"
	"errors"
)

var (
	ErrStoreNotFound   = errors.New("store not found")
	ErrProductNotFound = errors.New("product not found")
)

type Repository interface {
	CreateStore(ctx context.Context, store *Store) error
	GetStore(ctx context.Context, id int64) (*Store, error)
	ListStoresByOwner(ctx context.Context, ownerID string) ([]*Store, error)
	UpdateStore(ctx context.Context, store *Store) error
	DeleteStore(ctx context.Context, id int64) error

	CreateProduct(ctx context.Context, product *Product) error
	GetProduct(ctx context.Context, id int64) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)
	UpdateProduct(ctx context.Context, product *Product) error
	DeleteProduct(ctx context.Context, id int64) error

	CreateReview(ctx context.Context, review *Review) error
	ListReviewsByProduct(ctx context.Context, productID int64) ([]*Review, error)
}
