// Package identity adapts the external authentication provider to what the
// storefront engines consume: the current user id and change notifications.
package identity

import "errors"

var (
	ErrNoSecret     = errors.New("token secret is not configured")
	ErrInvalidToken = errors.New("invalid identity token")
	ErrMissingUser  = errors.New("token carries no user id")
)

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Source is the identity contract. OnChange callbacks fire once per
// transition (edge-triggered) with the new user, or nil on logout.
type Source interface {
	CurrentUser() *User
	OnChange(fn func(*User)) (cancel func())
}
