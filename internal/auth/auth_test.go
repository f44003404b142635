package auth

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/studyhive/studyhive/internal/db/models"
	"github.com/studyhive/studyhive/internal/fault"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestRegister(t *testing.T) {
	db := setupTestDB(t)
	provider := NewLocalProvider(db)
	ctx := context.Background()

	testCases := []struct {
		name          string
		username      string
		email         string
		password      string
		expectedError error
	}{
		{
			name:          "missing username",
			username:      "",
			email:         "alice@example.com",
			password:      "secret-password",
			expectedError: fault.New(fault.Validation, "username, email and password are required"),
		},
		{
			name:          "missing password",
			username:      "alice",
			email:         "alice@example.com",
			password:      "",
			expectedError: fault.New(fault.Validation, "username, email and password are required"),
		},
		{
			name:     "successful register",
			username: "alice",
			email:    "alice@example.com",
			password: "secret-password",
		},
		{
			name:          "duplicate username",
			username:      "alice",
			email:         "other@example.com",
			password:      "secret-password",
			expectedError: ErrUserNameOrEmailExists,
		},
		{
			name:          "duplicate email",
			username:      "alice2",
			email:         "alice@example.com",
			password:      "secret-password",
			expectedError: ErrUserNameOrEmailExists,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			user, err := provider.Register(ctx, tc.username, tc.email, tc.password)

			if tc.expectedError != nil {
				require.Error(t, err)
				assert.Equal(t, fault.KindOf(tc.expectedError), fault.KindOf(err))
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.NotZero(t, user.ID)
				assert.Equal(t, tc.username, user.Username)
				// stored hashed, never plaintext
				assert.NotEqual(t, tc.password, user.Password)
				assert.True(t, user.VerifyPassword(tc.password))
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	provider := NewLocalProvider(db)
	ctx := context.Background()

	registered, err := provider.Register(ctx, "alice", "alice@example.com", "secret-password")
	require.NoError(t, err)

	t.Run("unknown user", func(t *testing.T) {
		_, err := provider.Authenticate(ctx, "nobody", "secret-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		// indistinguishable from an unknown user
		_, err := provider.Authenticate(ctx, "alice", "wrong-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("successful authenticate", func(t *testing.T) {
		user, err := provider.Authenticate(ctx, "alice", "secret-password")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})
}

func TestTokens(t *testing.T) {
	user := &models.User{ID: 42, Username: "alice"}

	t.Run("round trip", func(t *testing.T) {
		tokens := NewTokens("test-secret", time.Hour)

		signed, err := tokens.Issue(user)
		require.NoError(t, err)
		require.NotEmpty(t, signed)

		userID, err := tokens.Verify(signed)
		require.NoError(t, err)
		assert.Equal(t, uint64(42), userID)
	})

	t.Run("garbage token", func(t *testing.T) {
		tokens := NewTokens("test-secret", time.Hour)

		_, err := tokens.Verify("not.a.token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		tokens := NewTokens("test-secret", time.Hour)
		other := NewTokens("other-secret", time.Hour)

		signed, err := tokens.Issue(user)
		require.NoError(t, err)

		_, err = other.Verify(signed)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		tokens := NewTokens("test-secret", -time.Minute)

		signed, err := tokens.Issue(user)
		require.NoError(t, err)

		_, err = tokens.Verify(signed)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}
