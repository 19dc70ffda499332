package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomer_PrimaryUserID(t *testing.T) {
	contact := uuid.New()
	portal := uuid.New()

	t.Run("contact link wins over portal users", func(t *testing.T) {
		c, err := NewCustomer("Acme Trading", "ops@acme.test", "")
		require.NoError(t, err)
		c.GrantPortalAccess(portal)
		c.SetContactUser(contact)

		got, ok := c.PrimaryUserID()
		assert.True(t, ok)
		assert.Equal(t, contact, got)
	})

	t.Run("falls back to first portal user", func(t *testing.T) {
		c, err := NewCustomer("Acme Trading", "", "")
		require.NoError(t, err)
		c.GrantPortalAccess(portal)
		c.GrantPortalAccess(uuid.New())

		got, ok := c.PrimaryUserID()
		assert.True(t, ok)
		assert.Equal(t, portal, got)
	})

	t.Run("no linked user", func(t *testing.T) {
		c, err := NewCustomer("Acme Trading", "", "")
		require.NoError(t, err)

		_, ok := c.PrimaryUserID()
		assert.False(t, ok)
	})
}

func TestCustomer_PortalAccess(t *testing.T) {
	c, err := NewCustomer("Acme Trading", "", "")
	require.NoError(t, err)

	userID := uuid.New()
	c.GrantPortalAccess(userID)
	c.GrantPortalAccess(userID)
	assert.Len(t, c.PortalUserIDs, 1, "grant is idempotent")
	assert.True(t, c.HasUser(userID))

	c.RevokePortalAccess(userID)
	assert.False(t, c.HasUser(userID))
}

func TestNewCustomer_EmptyName(t *testing.T) {
	_, err := NewCustomer("  ", "", "")
	assert.Error(t, err)
}
