package checkout

import (
	"context"
	"log"

	"github.com/fjod/evermarket/internal/auth"
	"github.com/fjod/evermarket/internal/cart"
	"github.com/shopspring/decimal"
)

// Committer applies a cart atomically: every line commits or none does.
type Committer interface {
	CommitCart(ctx context.Context, userID string, lines []cart.Entry) error
}

// InvoiceSender delivers the purchase summary. Failures never unwind
// a committed checkout.
type InvoiceSender interface {
	SendInvoice(ctx context.Context, user *auth.User, lines []cart.Entry, total decimal.Decimal) error
}

type Receipt struct {
	Lines []cart.Entry    `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

type Service struct {
	sessions  cart.SessionStore
	committer Committer
	invoices  InvoiceSender
	authz     auth.Authorizer
}

func NewService(sessions cart.SessionStore, committer Committer, invoices InvoiceSender, authz auth.Authorizer) *Service {
	return &Service{
		sessions:  sessions,
		committer: committer,
		invoices:  invoices,
		authz:     authz,
	}
}

// Checkout validates and commits the user's cart. On success the cart
// is cleared and an invoice is sent best-effort.
func (s *Service) Checkout(ctx context.Context, user *auth.User) (*Receipt, error) {
	if !s.authz.Allow(user, auth.ActionAddCartItem) {
		return nil, auth.ErrPermissionDenied
	}

	c, err := s.sessions.Get(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	lines := c.Entries()
	if err := s.committer.CommitCart(ctx, user.ID, lines); err != nil {
		return nil, err
	}

	receipt := &Receipt{
		Lines: lines,
		Total: c.Total(),
	}

	if err := s.invoices.SendInvoice(ctx, user, lines, receipt.Total); err != nil {
		log.Printf("invoice send for user %s failed: %v", user.ID, err)
	}

	if err := s.sessions.Delete(ctx, user.ID); err != nil {
		log.Printf("cart clear for user %s failed: %v", user.ID, err)
	}
	return receipt, nil
}
