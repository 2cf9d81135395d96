package cart

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and a session store on it.
func setupTestRedis(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	store := NewRedisSessionStore(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}
	return store, mr, cleanup
}

func TestSessionStore_RoundTrip(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	c := Cart{}
	c.Add(1, "Widget", price("19.99"), 2)
	c.Add(2, "Gadget", price("5.50"), 1)

	require.NoError(t, store.Set(ctx, "user123", c))

	got, err := store.Get(ctx, "user123")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Widget", got[1].Name)
	assert.True(t, got[1].UnitPrice.Equal(price("19.99")))
	assert.Equal(t, 2, got[1].Quantity)
}

func TestSessionStore_MissingCartIsEmpty(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()

	got, err := store.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestSessionStore_RepairsMalformedEntries(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	// Bad product id and negative price are dropped; zero quantity is
	// clamped to one.
	payload := `[
		{"product_id": 0, "name": "ghost", "unit_price": "1.00", "quantity": 2},
		{"product_id": 2, "name": "cheap", "unit_price": "-3.00", "quantity": 1},
		{"product_id": 3, "name": "ok", "unit_price": "2.00", "quantity": 0}
	]`
	mr.Set(cartKey("user123"), payload)

	got, err := store.Get(context.Background(), "user123")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[3].Name)
	assert.Equal(t, 1, got[3].Quantity)
}

func TestSessionStore_CorruptPayloadIsDropped(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set(cartKey("user123"), "{not json")

	got, err := store.Get(context.Background(), "user123")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestSessionStore_Delete(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	c := Cart{}
	c.Add(1, "Widget", price("1.00"), 1)
	require.NoError(t, store.Set(ctx, "user123", c))

	require.NoError(t, store.Delete(ctx, "user123"))

	got, err := store.Get(ctx, "user123")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}
