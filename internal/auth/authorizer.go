package auth

import "errors"

var ErrPermissionDenied = errors.New("permission denied")

// Authorizer decides whether a user may perform an action.
// Consumers depend on this interface, not on the role table below.
type Authorizer interface {
	Allow(user *User, action Action) bool
}

type RoleAuthorizer struct {
	grants map[Role]map[Action]struct{}
}

// NewRoleAuthorizer seeds the vendor and buyer capability sets.
// Vendors manage stores and products, buyers shop and review.
func NewRoleAuthorizer() *RoleAuthorizer {
	roles := map[Role][]Action{
		RoleVendor: {
			ActionAddProduct, ActionChangeProduct, ActionViewProduct, ActionDeleteProduct,
			ActionAddStore, ActionViewStore, ActionChangeStore, ActionDeleteStore,
		},
		RoleBuyer: {
			ActionViewProduct,
			ActionViewCart, ActionAddCartItem, ActionRemoveCartItem,
			ActionViewReview, ActionAddReview,
		},
	}

	grants := make(map[Role]map[Action]struct{}, len(roles))
	for role, actions := range roles {
		set := make(map[Action]struct{}, len(actions))
		for _, a := range actions {
			set[a] = struct{}{}
		}
		grants[role] = set
	}
	return &RoleAuthorizer{grants: grants}
}

func (a *RoleAuthorizer) Allow(user *User, action Action) bool {
	if user == nil {
		return false
	}
	set, ok := a.grants[user.Role]
	if !ok {
		return false
	}
	_, allowed := set[action]
	return allowed
}
