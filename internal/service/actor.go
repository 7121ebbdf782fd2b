package service

import "github.com/campus-eco/ecopledge-service/internal/authz"

// Actor identifies the administrator performing a gated mutation. It is
// resolved fresh per request by the auth middleware; services never
// cache it.
type Actor struct {
	ID   string
	Role authz.Role
}
