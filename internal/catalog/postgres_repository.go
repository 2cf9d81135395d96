package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateStore(ctx context.Context, store *Store) error {
	query := `INSERT INTO stores (owner_id, name, description, created_at)
	          VALUES ($1, $2, $3, NOW()) RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		store.OwnerID, store.Name, store.Description).Scan(&store.ID, &store.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert store: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetStore(ctx context.Context, id int64) (*Store, error) {
	query := `SELECT id, owner_id, name, COALESCE(description, ''), created_at
	          FROM stores WHERE id = $1`

	var store Store
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&store.ID, &store.OwnerID, &store.Name, &store.Description, &store.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query store: %w", err)
	}
	return &store, nil
}

func (r *PostgresRepository) ListStoresByOwner(ctx context.Context, ownerID string) ([]*Store, error) {
	query := `SELECT id, owner_id, name, COALESCE(description, ''), created_at
	          FROM stores WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query stores by owner: %w", err)
	}
	defer rows.Close()

	var stores []*Store
	for rows.Next() {
		var store Store
		if err := rows.Scan(&store.ID, &store.OwnerID, &store.Name, &store.Description, &store.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan store row: %w", err)
		}
		stores = append(stores, &store)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return stores, nil
}

func (r *PostgresRepository) UpdateStore(ctx context.Context, store *Store) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE stores SET name = $2, description = $3 WHERE id = $1`,
		store.ID, store.Name, store.Description)
	if err != nil {
		return fmt.Errorf("update store: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStoreNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteStore(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete store: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStoreNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateProduct(ctx context.Context, product *Product) error {
	query := `INSERT INTO products (store_id, name, description, price, stock, created_at)
	          VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		product.StoreID, product.Name, product.Description, product.Price, product.Stock).
		Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetProduct(ctx context.Context, id int64) (*Product, error) {
	query := `SELECT id, store_id, name, COALESCE(description, ''), price, stock, created_at
	          FROM products WHERE id = $1`

	var product Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID, &product.StoreID, &product.Name, &product.Description,
		&product.Price, &product.Stock, &product.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return &product, nil
}

func (r *PostgresRepository) ListProducts(ctx context.Context) ([]*Product, error) {
	query := `SELECT id, store_id, name, COALESCE(description, ''), price, stock, created_at
	          FROM products ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		var product Product
		if err := rows.Scan(&product.ID, &product.StoreID, &product.Name, &product.Description,
			&product.Price, &product.Stock, &product.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, &product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return products, nil
}

func (r *PostgresRepository) UpdateProduct(ctx context.Context, product *Product) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET name = $2, description = $3, price = $4, stock = $5 WHERE id = $1`,
		product.ID, product.Name, product.Description, product.Price, product.Stock)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateReview(ctx context.Context, review *Review) error {
	query := `INSERT INTO reviews (product_id, user_id, rating, comment, verified, created_at)
	          VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		review.ProductID, review.UserID, review.Rating, review.Comment, review.Verified).
		Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListReviewsByProduct(ctx context.Context, productID int64) ([]*Review, error) {
	query := `SELECT id, product_id, user_id, rating, COALESCE(comment, ''), verified, created_at
	          FROM reviews WHERE product_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*Review
	for rows.Next() {
		var review Review
		if err := rows.Scan(&review.ID, &review.ProductID, &review.UserID, &review.Rating,
			&review.Comment, &review.Verified, &review.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, &review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return reviews, nil
}
