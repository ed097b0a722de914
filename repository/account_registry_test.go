package repository

import (
	"testing"

	"bank-ledger/auth"
	"bank-ledger/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockHasher struct{ mock.Mock }

func (m *mockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *mockHasher) Verify(digest, password string) auth.VerifyResult {
	args := m.Called(digest, password)
	return args.Get(0).(auth.VerifyResult)
}

func TestAccountRegistry_CreateAccount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		hasher := new(mockHasher)
		hasher.On("Hash", "pw1").Return("digest-1", nil).Once()

		registry := NewAccountRegistry(hasher)
		err := registry.CreateAccount("alice", "pw1")

		assert.NoError(t, err)
		exists, err := registry.AccountExists("alice")
		assert.NoError(t, err)
		assert.True(t, exists)
		hasher.AssertExpectations(t)
	})

	t.Run("duplicate username", func(t *testing.T) {
		hasher := new(mockHasher)
		hasher.On("Hash", "pw1").Return("digest-1", nil).Once()

		registry := NewAccountRegistry(hasher)
		require.NoError(t, registry.CreateAccount("alice", "pw1"))

		// A second create always fails, whatever the password.
		err := registry.CreateAccount("alice", "pw2")

		assert.ErrorIs(t, err, ErrDuplicateAccount)
		hasher.AssertExpectations(t)
	})

	t.Run("missing username or password", func(t *testing.T) {
		registry := NewAccountRegistry(new(mockHasher))

		assert.ErrorIs(t, registry.CreateAccount("", "pw"), ErrInvalidArgument)
		assert.ErrorIs(t, registry.CreateAccount("alice", ""), ErrInvalidArgument)
	})
}

func TestAccountRegistry_AccountExists(t *testing.T) {
	registry := NewAccountRegistry(new(mockHasher))

	exists, err := registry.AccountExists("nobody")
	assert.NoError(t, err)
	assert.False(t, exists)

	_, err = registry.AccountExists("")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAccountRegistry_LogIn(t *testing.T) {
	t.Run("unknown username", func(t *testing.T) {
		registry := NewAccountRegistry(new(mockHasher))

		account, err := registry.LogIn("ghost", "pw")

		assert.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("wrong password", func(t *testing.T) {
		hasher := new(mockHasher)
		hasher.On("Hash", "pw").Return("digest", nil).Once()
		hasher.On("Verify", "digest", "wrong").Return(auth.VerifyMismatch).Once()

		registry := NewAccountRegistry(hasher)
		require.NoError(t, registry.CreateAccount("bob", "pw"))

		account, err := registry.LogIn("bob", "wrong")

		assert.NoError(t, err)
		assert.Nil(t, account)
		hasher.AssertExpectations(t)
	})

	t.Run("match", func(t *testing.T) {
		hasher := new(mockHasher)
		hasher.On("Hash", "pw").Return("digest", nil).Once()
		hasher.On("Verify", "digest", "pw").Return(auth.VerifyMatch).Once()

		registry := NewAccountRegistry(hasher)
		require.NoError(t, registry.CreateAccount("bob", "pw"))

		account, err := registry.LogIn("bob", "pw")

		assert.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, "bob", account.Username())
		assert.Equal(t, "digest", account.Digest())
		hasher.AssertExpectations(t)
	})

	t.Run("match needing rehash upgrades the digest", func(t *testing.T) {
		hasher := new(mockHasher)
		hasher.On("Hash", "pw").Return("legacy-digest", nil).Once()
		hasher.On("Verify", "legacy-digest", "pw").Return(auth.VerifyMatchNeedsRehash).Once()
		hasher.On("Hash", "pw").Return("fresh-digest", nil).Once()

		registry := NewAccountRegistry(hasher)
		require.NoError(t, registry.CreateAccount("bob", "pw"))

		account, err := registry.LogIn("bob", "pw")

		assert.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, "fresh-digest", account.Digest())

		// The next login verifies against the upgraded digest.
		hasher.On("Verify", "fresh-digest", "pw").Return(auth.VerifyMatch).Once()
		again, err := registry.LogIn("bob", "pw")
		assert.NoError(t, err)
		require.NotNil(t, again)
		assert.Equal(t, "fresh-digest", again.Digest())
		hasher.AssertExpectations(t)
	})

	t.Run("missing username or password", func(t *testing.T) {
		registry := NewAccountRegistry(new(mockHasher))

		_, err := registry.LogIn("", "pw")
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, err = registry.LogIn("bob", "")
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestAccountRegistry_UpdateAccount(t *testing.T) {
	t.Run("replaces the current snapshot", func(t *testing.T) {
		hasher := new(mockHasher)
		hasher.On("Hash", "pw").Return("digest", nil).Once()
		hasher.On("Verify", "digest", "pw").Return(auth.VerifyMatch)

		registry := NewAccountRegistry(hasher)
		require.NoError(t, registry.CreateAccount("alice", "pw"))

		account, err := registry.LogIn("alice", "pw")
		require.NoError(t, err)
		require.NotNil(t, account)

		updated := account.Deposit(decimal.NewFromInt(100))
		require.NoError(t, registry.UpdateAccount(updated))

		current, err := registry.LogIn("alice", "pw")
		require.NoError(t, err)
		require.NotNil(t, current)
		assert.True(t, current.Balance().Equal(decimal.NewFromInt(100)))
		assert.Len(t, current.History(), 1)
	})

	t.Run("never creates an account", func(t *testing.T) {
		registry := NewAccountRegistry(new(mockHasher))

		err := registry.UpdateAccount(model.NewAccount("ghost", "digest", decimal.Zero, nil))

		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("missing username", func(t *testing.T) {
		registry := NewAccountRegistry(new(mockHasher))

		err := registry.UpdateAccount(model.Account{})

		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}
