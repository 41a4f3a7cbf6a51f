package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminSet_CaseInsensitive(t *testing.T) {
	admins := NewAdminSet([]string{"alice@example.org"})

	assert.True(t, admins.IsAdmin("alice@example.org"))
	assert.Equal(t, admins.IsAdmin("alice@example.org"), admins.IsAdmin("Alice@Example.org"))
	assert.False(t, admins.IsAdmin("bob@example.org"))
}

func TestAdminSet_Normalizes(t *testing.T) {
	admins := NewAdminSet([]string{" Ops@Site.org ", "ops@site.org", "", "   "})

	assert.Equal(t, 1, admins.Len())
	assert.True(t, admins.IsAdmin("OPS@SITE.ORG"))
}

func TestAdminSet_EmptyGrantsNothing(t *testing.T) {
	admins := NewAdminSet(nil)

	for _, email := range []string{"alice@example.org", "", "root"} {
		assert.False(t, admins.IsAdmin(email), email)
	}

	var unset *AdminSet
	assert.False(t, unset.IsAdmin("alice@example.org"))
	assert.Zero(t, unset.Len())
}

func TestAdminSet_EmptyEmail(t *testing.T) {
	admins := NewAdminSet([]string{"alice@example.org"})
	assert.False(t, admins.IsAdmin(""))
}
