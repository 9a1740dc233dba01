package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GenerateAndValidate(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)

	token, err := manager.Generate("vendor")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := manager.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "vendor", subject)
}

func TestManager_Validate(t *testing.T) {
	t.Run("Expired token", func(t *testing.T) {
		manager := NewManager("test-secret", -time.Minute)

		token, err := manager.Generate("vendor")
		require.NoError(t, err)

		_, err = manager.Validate(token)
		assert.Error(t, err)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		manager := NewManager("test-secret", time.Hour)
		other := NewManager("other-secret", time.Hour)

		token, err := other.Generate("vendor")
		require.NoError(t, err)

		_, err = manager.Validate(token)
		assert.Error(t, err)
	})

	t.Run("Garbage token", func(t *testing.T) {
		manager := NewManager("test-secret", time.Hour)

		_, err := manager.Validate("not.a.token")
		assert.Error(t, err)
	})
}
