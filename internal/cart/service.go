package cart

import (
	"context"
	"errors"

	"github.com/fjod/evermarket/internal/auth"
	"github.com/fjod/evermarket/internal/catalog"
	"github.com/shopspring/decimal"
)

var ErrItemNotFound = errors.New("item not found in cart")

// ProductGetter is the slice of the catalog the cart needs.
type ProductGetter interface {
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
}

type Service struct {
	sessions SessionStore
	products ProductGetter
	authz    auth.Authorizer
}

func NewService(sessions SessionStore, products ProductGetter, authz auth.Authorizer) *Service {
	return &Service{
		sessions: sessions,
		products: products,
		authz:    authz,
	}
}

// AddItem snapshots the product's current name and price into the cart.
// Stock is not checked here; reservation happens at checkout.
func (s *Service) AddItem(ctx context.Context, user *auth.User, productID int64, quantity int) (Cart, error) {
	if !s.authz.Allow(user, auth.ActionAddCartItem) {
		return nil, auth.ErrPermissionDenied
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	c, err := s.sessions.Get(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	c.Add(product.ID, product.Name, product.Price, quantity)
	if err := s.sessions.Set(ctx, user.ID, c); err != nil {
		return nil, err
	}
	return c, nil
}

type ViewItem struct {
	Entry
	Subtotal decimal.Decimal `json:"subtotal"`
}

type View struct {
	Items []ViewItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// ViewCart computes subtotals and the grand total. Read-only.
func (s *Service) ViewCart(ctx context.Context, user *auth.User) (*View, error) {
	if !s.authz.Allow(user, auth.ActionViewCart) {
		return nil, auth.ErrPermissionDenied
	}

	c, err := s.sessions.Get(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	view := &View{
		Items: make([]ViewItem, 0, len(c)),
		Total: decimal.Zero,
	}
	for _, entry := range c.Entries() {
		sub := entry.Subtotal()
		view.Items = append(view.Items, ViewItem{Entry: entry, Subtotal: sub})
		view.Total = view.Total.Add(sub)
	}
	return view, nil
}

func (s *Service) RemoveItem(ctx context.Context, user *auth.User, productID int64) error {
	if !s.authz.Allow(user, auth.ActionRemoveCartItem) {
		return auth.ErrPermissionDenied
	}

	c, err := s.sessions.Get(ctx, user.ID)
	if err != nil {
		return err
	}
	if !c.Remove(productID) {
		return ErrItemNotFound
	}
	return s.sessions.Set(ctx, user.ID, c)
}
