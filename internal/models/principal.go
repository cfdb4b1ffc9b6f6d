package models

// Principal is the authenticated identity attached to a request after sign-in.
// It is resolved once per request and threaded through explicitly; nothing
// reads identity from ambient state.
type Principal struct {
	UserID uint
	Name   string
	Email  string
	Role   Role
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
