package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pgFixture(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreateStorePG(t *testing.T) {
	repo, mock := pgFixture(t)

	created := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO stores`).
		WithArgs("vendor1", "Gallery", "Local art").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), created))

	store := &Store{OwnerID: "vendor1", Name: "Gallery", Description: "Local art"}
	require.NoError(t, repo.CreateStore(context.Background(), store))
	assert.Equal(t, int64(5), store.ID)
	assert.Equal(t, created, store.CreatedAt)
}

func TestGetStorePG_NotFound(t *testing.T) {
	repo, mock := pgFixture(t)

	mock.ExpectQuery(`SELECT id, owner_id, name`).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name", "description", "created_at"}))

	_, err := repo.GetStore(context.Background(), 404)
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestGetProductPG(t *testing.T) {
	repo, mock := pgFixture(t)

	created := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, store_id, name`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "store_id", "name", "description", "price", "stock", "created_at"}).
			AddRow(int64(7), int64(5), "Vase", "Ceramic", "49.99", 10, created))

	product, err := repo.GetProduct(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Vase", product.Name)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("49.99")))
	assert.Equal(t, 10, product.Stock)
}

func TestUpdateProductPG_NotFound(t *testing.T) {
	repo, mock := pgFixture(t)

	mock.ExpectExec(`UPDATE products SET name`).
		WithArgs(int64(404), "Vase", "Ceramic", decimal.RequireFromString("49.99"), 10).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateProduct(context.Background(), &Product{
		ID: 404, Name: "Vase", Description: "Ceramic",
		Price: decimal.RequireFromString("49.99"), Stock: 10,
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateReviewPG(t *testing.T) {
	repo, mock := pgFixture(t)

	created := time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO reviews`).
		WithArgs(int64(7), "buyer1", 4, "solid", true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), created))

	review := &Review{ProductID: 7, UserID: "buyer1", Rating: 4, Comment: "solid", Verified: true}
	require.NoError(t, repo.CreateReview(context.Background(), review))
	assert.Equal(t, int64(1), review.ID)
}

func TestListReviewsByProductPG(t *testing.T) {
	repo, mock := pgFixture(t)

	created := time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, product_id, user_id, rating`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "user_id", "rating", "comment", "verified", "created_at"}).
			AddRow(int64(1), int64(7), "buyer1", 5, "great", true, created).
			AddRow(int64(2), int64(7), "buyer2", 3, "", false, created))

	reviews, err := repo.ListReviewsByProduct(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.True(t, reviews[0].Verified)
	assert.False(t, reviews[1].Verified)
	assert.NoError(t, mock.ExpectationsWereMet())
}
