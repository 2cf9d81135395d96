package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/fjod/evermarket/internal/auth"
	"github.com/fjod/evermarket/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSessionStore struct {
	m     sync.Mutex
	carts map[string]Cart
	err   error
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{carts: map[string]Cart{}}
}

func (m *mockSessionStore) Get(_ context.Context, userID string) (Cart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.carts[userID]
	if !ok {
		return Cart{}, nil
	}
	return c, nil
}

func (m *mockSessionStore) Set(_ context.Context, userID string, c Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.carts[userID] = c
	return nil
}

func (m *mockSessionStore) Delete(_ context.Context, userID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.carts, userID)
	return nil
}

type mockProductGetter struct {
	products map[int64]*catalog.Product
}

func (m *mockProductGetter) GetProduct(_ context.Context, id int64) (*catalog.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return p, nil
}

type allowAll struct{}

func (allowAll) Allow(*auth.User, auth.Action) bool { return true }

type denyAll struct{}

func (denyAll) Allow(*auth.User, auth.Action) bool { return false }

func buyer() *auth.User {
	return &auth.User{ID: "user123", Username: "buyer", Role: auth.RoleBuyer}
}

func testService(authz auth.Authorizer) (*Service, *mockSessionStore) {
	sessions := newMockSessionStore()
	products := &mockProductGetter{products: map[int64]*catalog.Product{
		1: {ID: 1, Name: "Widget", Price: price("19.99"), Stock: 10},
		2: {ID: 2, Name: "Gadget", Price: price("5.50"), Stock: 3},
	}}
	return NewService(sessions, products, authz), sessions
}

func TestAddItem_SnapshotsProduct(t *testing.T) {
	svc, sessions := testService(allowAll{})

	c, err := svc.AddItem(context.Background(), buyer(), 1, 2)
	require.NoError(t, err)
	require.Len(t, c, 1)
	assert.Equal(t, "Widget", c[1].Name)
	assert.True(t, c[1].UnitPrice.Equal(price("19.99")))
	assert.Equal(t, 2, c[1].Quantity)

	// Persisted to the session store.
	stored, err := sessions.Get(context.Background(), "user123")
	require.NoError(t, err)
	assert.Equal(t, 2, stored[1].Quantity)
}

func TestAddItem_MergesExistingEntry(t *testing.T) {
	svc, _ := testService(allowAll{})
	ctx := context.Background()
	user := buyer()

	_, err := svc.AddItem(ctx, user, 1, 2)
	require.NoError(t, err)
	c, err := svc.AddItem(ctx, user, 1, 3)
	require.NoError(t, err)

	require.Len(t, c, 1)
	assert.Equal(t, 5, c[1].Quantity)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	svc, _ := testService(allowAll{})

	_, err := svc.AddItem(context.Background(), buyer(), 99, 1)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestAddItem_PermissionDenied(t *testing.T) {
	svc, _ := testService(denyAll{})

	_, err := svc.AddItem(context.Background(), buyer(), 1, 1)
	assert.ErrorIs(t, err, auth.ErrPermissionDenied)
}

func TestViewCart_ComputesTotals(t *testing.T) {
	svc, _ := testService(allowAll{})
	ctx := context.Background()
	user := buyer()

	_, err := svc.AddItem(ctx, user, 1, 3) // 3 x 19.99
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, user, 2, 2) // 2 x 5.50
	require.NoError(t, err)

	view, err := svc.ViewCart(ctx, user)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "59.97", view.Items[0].Subtotal.String())
	assert.Equal(t, "11.00", view.Items[1].Subtotal.String())
	assert.Equal(t, "70.97", view.Total.String())
}

func TestViewCart_EmptyCart(t *testing.T) {
	svc, _ := testService(allowAll{})

	view, err := svc.ViewCart(context.Background(), buyer())
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.Total.IsZero())
}

func TestRemoveItem(t *testing.T) {
	svc, sessions := testService(allowAll{})
	ctx := context.Background()
	user := buyer()

	_, err := svc.AddItem(ctx, user, 1, 1)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(ctx, user, 1))

	stored, err := sessions.Get(ctx, "user123")
	require.NoError(t, err)
	assert.True(t, stored.IsEmpty())
}

func TestRemoveItem_NotInCart(t *testing.T) {
	svc, _ := testService(allowAll{})

	err := svc.RemoveItem(context.Background(), buyer(), 1)
	assert.ErrorIs(t, err, ErrItemNotFound)
}
