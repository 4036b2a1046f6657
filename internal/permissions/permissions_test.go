package permissions

import (
	"testing"

	"reviewdb/proj/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

var (
	anonymous = Actor{}
	user      = Actor{Authenticated: true, UserID: 1, Role: models.RoleUser}
	moderator = Actor{Authenticated: true, UserID: 2, Role: models.RoleModerator}
	admin     = Actor{Authenticated: true, UserID: 3, Role: models.RoleAdmin}
	superuser = Actor{Authenticated: true, UserID: 4, Role: models.RoleUser, IsSuperuser: true}
)

func TestEvaluateCatalog(t *testing.T) {
	cases := []struct {
		name   string
		actor  Actor
		intent Intent
		want   bool
	}{
		{"anonymous read", anonymous, SafeRead, true},
		{"user read", user, SafeRead, true},
		{"anonymous create", anonymous, Create, false},
		{"user create", user, Create, false},
		{"moderator delete", moderator, Delete, false},
		{"admin create", admin, Create, true},
		{"admin update", admin, Update, true},
		{"superuser delete", superuser, Delete, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.actor, tc.intent, Resource{Class: Catalog})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluateUserContent(t *testing.T) {
	ownedByUser := Resource{Class: UserContent, OwnerID: user.UserID}
	ownedByOther := Resource{Class: UserContent, OwnerID: 99}
	cases := []struct {
		name     string
		actor    Actor
		intent   Intent
		resource Resource
		want     bool
	}{
		{"anonymous read", anonymous, SafeRead, ownedByOther, true},
		{"anonymous create", anonymous, Create, Resource{Class: UserContent}, false},
		{"user create", user, Create, Resource{Class: UserContent}, true},
		{"user delete own", user, Delete, ownedByUser, true},
		{"user delete other", user, Delete, ownedByOther, false},
		{"user update other", user, Update, ownedByOther, false},
		{"moderator delete other", moderator, Delete, ownedByOther, true},
		{"admin update other", admin, Update, ownedByOther, true},
		{"superuser delete other", superuser, Delete, ownedByOther, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.actor, tc.intent, tc.resource)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluateAccount(t *testing.T) {
	// No self-service exception: even reading another user's record
	// requires admin capability.
	resource := Resource{Class: Account, OwnerID: user.UserID}
	assert.False(t, Evaluate(anonymous, SafeRead, resource))
	assert.False(t, Evaluate(user, SafeRead, resource))
	assert.False(t, Evaluate(user, Update, resource))
	assert.False(t, Evaluate(moderator, SafeRead, resource))
	assert.True(t, Evaluate(admin, SafeRead, resource))
	assert.True(t, Evaluate(admin, Delete, resource))
	assert.True(t, Evaluate(superuser, Update, resource))
}

func TestActorFromUser(t *testing.T) {
	assert.Equal(t, Actor{}, ActorFromUser(nil))
	assert.Equal(t, Actor{}, ActorFromUser(models.AnonymousUser))
	got := ActorFromUser(&models.User{ID: 7, Role: models.RoleModerator})
	assert.True(t, got.Authenticated)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, models.RoleModerator, got.Role)
}
