// Package permissions is the single decision point for who may do what.
// It is a pure decision table over (resource class, intent) producing a
// predicate over the actor; callers map a deny to 401 or 403 themselves.
package permissions

import (
	"reviewdb/proj/internal/domain/models"
)

type Intent int

const (
	SafeRead Intent = iota
	Create
	Update
	Delete
)

type Class int

const (
	// Catalog covers categories, genres and titles.
	Catalog Class = iota
	// UserContent covers reviews and comments.
	UserContent
	// Account covers user records managed through the users API.
	Account
)

type Actor struct {
	Authenticated bool
	UserID        int64
	Role          string
	IsSuperuser   bool
}

type Resource struct {
	Class Class
	// OwnerID is the author of a review or comment, zero when irrelevant.
	OwnerID int64
}

// capability ladder: superuser counts as admin, so role checks never
// need a separate superuser branch.
type capability int

const (
	capAnonymous capability = iota
	capUser
	capModerator
	capAdmin
)

func (a Actor) capability() capability {
	if !a.Authenticated {
		return capAnonymous
	}
	if a.IsSuperuser {
		return capAdmin
	}
	switch a.Role {
	case models.RoleAdmin:
		return capAdmin
	case models.RoleModerator:
		return capModerator
	default:
		return capUser
	}
}

// Evaluate reports whether the actor may apply the intent to the resource.
// It never errors: a malformed or anonymous actor on a protected intent
// simply gets a deny.
func Evaluate(actor Actor, intent Intent, resource Resource) bool {
	cap := actor.capability()
	switch resource.Class {
	case Catalog:
		if intent == SafeRead {
			return true
		}
		return cap >= capAdmin
	case UserContent:
		switch intent {
		case SafeRead:
			return true
		case Create:
			return cap >= capUser
		default:
			if cap >= capModerator {
				return true
			}
			return cap >= capUser && actor.UserID == resource.OwnerID
		}
	case Account:
		return cap >= capAdmin
	}
	return false
}

// ActorFromUser builds an Actor from a user loaded by the Authenticate
// middleware. A nil or anonymous user yields an unauthenticated actor.
func ActorFromUser(u *models.User) Actor {
	if u.IsAnonymous() {
		return Actor{}
	}
	return Actor{
		Authenticated: true,
		UserID:        u.ID,
		Role:          u.Role,
		IsSuperuser:   u.IsSuperuser,
	}
}
