package auth

import "time"

type Role string

const (
	RoleVendor Role = "vendor"
	RoleBuyer  Role = "buyer"
)

func (r Role) Valid() bool {
	return r == RoleVendor || r == RoleBuyer
}

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Action is a capability checked before every gated operation.
type Action string

const (
	ActionViewProduct   Action = "product.view"
	ActionAddProduct    Action = "product.add"
	ActionChangeProduct Action = "product.change"
	ActionDeleteProduct Action = "product.delete"

	ActionAddStore    Action = "store.add"
	ActionViewStore   Action = "store.view"
	ActionChangeStore Action = "store.change"
	ActionDeleteStore Action = "store.delete"

	ActionViewCart       Action = "cart.view"
	ActionAddCartItem    Action = "cart.add"
	ActionRemoveCartItem Action = "cart.remove"

	ActionViewReview Action = "review.view"
	ActionAddReview  Action = "review.add"
)
