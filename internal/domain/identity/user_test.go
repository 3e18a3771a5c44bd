package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates pending user with hashed password", func(t *testing.T) {
		user, err := NewUser(uuid.New(), "fatou.sall", "motdepasse1", RoleVendeur)
		require.NoError(t, err)

		assert.Equal(t, "fatou.sall", user.Username)
		assert.Equal(t, UserStatusPending, user.Status)
		assert.NotEqual(t, "motdepasse1", user.PasswordHash)
		assert.True(t, user.VerifyPassword("motdepasse1"))
		assert.False(t, user.VerifyPassword("wrong"))
	})

	t.Run("normalizes username to lowercase", func(t *testing.T) {
		user, err := NewUser(uuid.New(), "Fatou.Sall", "motdepasse1", RoleVendeur)
		require.NoError(t, err)
		assert.Equal(t, "fatou.sall", user.Username)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser(uuid.New(), "fatou", "abc1", RoleVendeur)
		assert.Error(t, err)
	})

	t.Run("rejects password without digits", func(t *testing.T) {
		_, err := NewUser(uuid.New(), "fatou", "motdepasse", RoleVendeur)
		assert.Error(t, err)
	})

	t.Run("rejects invalid role", func(t *testing.T) {
		_, err := NewUser(uuid.New(), "fatou", "motdepasse1", Role("ADMIN"))
		assert.Error(t, err)
	})
}

func TestUser_LoginFlow(t *testing.T) {
	t.Run("pending user cannot login", func(t *testing.T) {
		user, err := NewUser(uuid.New(), "fatou", "motdepasse1", RoleCaissier)
		require.NoError(t, err)
		assert.False(t, user.CanLogin())

		require.NoError(t, user.Activate())
		assert.True(t, user.CanLogin())
	})

	t.Run("locks after max failed attempts", func(t *testing.T) {
		user, err := NewActiveUser(uuid.New(), "fatou", "motdepasse1", RoleCaissier)
		require.NoError(t, err)

		locked := user.RecordLoginFailure(3, time.Hour)
		assert.False(t, locked)
		locked = user.RecordLoginFailure(3, time.Hour)
		assert.False(t, locked)
		locked = user.RecordLoginFailure(3, time.Hour)
		assert.True(t, locked)

		assert.True(t, user.IsLocked())
		assert.False(t, user.CanLogin())
	})

	t.Run("expired lock no longer blocks login", func(t *testing.T) {
		user, err := NewActiveUser(uuid.New(), "fatou", "motdepasse1", RoleCaissier)
		require.NoError(t, err)
		require.NoError(t, user.Lock(-time.Minute))

		assert.False(t, user.IsLocked())
		assert.True(t, user.CanLogin())
	})

	t.Run("successful login resets failed attempts", func(t *testing.T) {
		user, err := NewActiveUser(uuid.New(), "fatou", "motdepasse1", RoleCaissier)
		require.NoError(t, err)
		user.RecordLoginFailure(5, time.Hour)

		user.RecordLoginSuccess("10.0.0.4")
		assert.Equal(t, 0, user.FailedAttempts)
		assert.Equal(t, "10.0.0.4", user.LastLoginIP)
		assert.NotNil(t, user.LastLoginAt)
	})
}

func TestUser_ChangePassword(t *testing.T) {
	user, err := NewActiveUser(uuid.New(), "fatou", "motdepasse1", RoleTitulaire)
	require.NoError(t, err)

	t.Run("rejects wrong current password", func(t *testing.T) {
		err := user.ChangePassword("wrong", "nouveau123")
		assert.Error(t, err)
	})

	t.Run("changes with correct current password", func(t *testing.T) {
		require.NoError(t, user.ChangePassword("motdepasse1", "nouveau123"))
		assert.True(t, user.VerifyPassword("nouveau123"))
		assert.False(t, user.VerifyPassword("motdepasse1"))
	})
}

func TestRole_CanDispensePrescription(t *testing.T) {
	assert.True(t, RoleTitulaire.CanDispensePrescription())
	assert.True(t, RoleAssistant.CanDispensePrescription())
	assert.False(t, RoleVendeur.CanDispensePrescription())
	assert.False(t, RoleCaissier.CanDispensePrescription())
}

func TestNewPharmacy(t *testing.T) {
	t.Run("registers active tenant", func(t *testing.T) {
		pharmacy, err := NewPharmacy("Pharmacie du Point E", "SN-ORD-4471")
		require.NoError(t, err)

		assert.True(t, pharmacy.IsActive())
		assert.Equal(t, "Dakar", pharmacy.City)
	})

	t.Run("suspend and reinstate", func(t *testing.T) {
		pharmacy, err := NewPharmacy("Pharmacie du Point E", "SN-ORD-4471")
		require.NoError(t, err)

		require.NoError(t, pharmacy.Suspend())
		assert.False(t, pharmacy.IsActive())
		assert.Error(t, pharmacy.Suspend())

		require.NoError(t, pharmacy.Reinstate())
		assert.True(t, pharmacy.IsActive())
	})

	t.Run("rejects missing license", func(t *testing.T) {
		_, err := NewPharmacy("Pharmacie", " ")
		assert.Error(t, err)
	})
}
