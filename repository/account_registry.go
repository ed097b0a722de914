package repository

import (
	"errors"
	"fmt"
	"sync"

	"bank-ledger/auth"
	"bank-ledger/common"
	"bank-ledger/logger"
	"bank-ledger/model"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidArgument  = errors.New("required value is missing")
	ErrDuplicateAccount = errors.New("username already exists")
	ErrAccountNotFound  = errors.New("account does not exist")
)

// IAccountRegistry is the authoritative username->Account store consumed
// by the ledger service.
type IAccountRegistry interface {
	AccountExists(username string) (bool, error)
	CreateAccount(username, rawPassword string) error
	LogIn(username, rawPassword string) (*model.Account, error)
	UpdateAccount(account model.Account) error
}

// AccountRegistry keeps every known account in memory and is the only
// component that inserts or replaces entries. The mutex keeps the map safe
// to share; there is no per-username compare-and-swap, so two sessions
// updating one username follow last-write-wins.
type AccountRegistry struct {
	hasher   auth.PasswordHasher
	mu       sync.RWMutex
	accounts map[string]model.Account
}

func NewAccountRegistry(hasher auth.PasswordHasher) *AccountRegistry {
	return &AccountRegistry{
		hasher:   hasher,
		accounts: make(map[string]model.Account),
	}
}

// AccountExists reports whether an account is registered for username.
func (r *AccountRegistry) AccountExists(username string) (bool, error) {
	if err := common.ValidateRequired(username); err != nil {
		return false, fmt.Errorf("%w: username", ErrInvalidArgument)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.accounts[username]
	return ok, nil
}

// CreateAccount registers a fresh account with a zero balance and an empty
// history. The raw password is digested before anything is stored.
func (r *AccountRegistry) CreateAccount(username, rawPassword string) error {
	if err := common.ValidateStruct(model.Credentials{Username: username, Password: rawPassword}); err != nil {
		return fmt.Errorf("%w: username and password are required", ErrInvalidArgument)
	}

	log := logger.Log.WithField("username", username)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[username]; ok {
		log.Warn("Attempt to create an account for an existing username")
		return ErrDuplicateAccount
	}

	digest, err := r.hasher.Hash(rawPassword)
	if err != nil {
		return fmt.Errorf("could not digest password: %w", err)
	}

	r.accounts[username] = model.NewAccount(username, digest, decimal.Zero, nil)
	log.Info("Account created")
	return nil
}

// LogIn verifies the password for username and returns the current account
// snapshot. It returns (nil, nil) when the account does not exist or the
// password does not match. When the hasher reports a match that needs
// rehashing, the stored snapshot is replaced with one carrying the upgraded
// digest and that snapshot is returned.
func (r *AccountRegistry) LogIn(username, rawPassword string) (*model.Account, error) {
	if err := common.ValidateStruct(model.Credentials{Username: username, Password: rawPassword}); err != nil {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidArgument)
	}

	log := logger.Log.WithField("username", username)

	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[username]
	if !ok {
		log.Info("Login attempt for unknown username")
		return nil, nil
	}

	switch r.hasher.Verify(account.Digest(), rawPassword) {
	case auth.VerifyMismatch:
		log.Warn("Login attempt with incorrect password")
		return nil, nil
	case auth.VerifyMatchNeedsRehash:
		digest, err := r.hasher.Hash(rawPassword)
		if err != nil {
			return nil, fmt.Errorf("could not upgrade credential digest: %w", err)
		}
		account = account.WithDigest(digest)
		r.accounts[username] = account
		log.Info("Credential digest upgraded on login")
	}

	return &account, nil
}

// UpdateAccount replaces the stored snapshot for the account's username.
// An update can never create an account; creation is exclusively via
// CreateAccount.
func (r *AccountRegistry) UpdateAccount(account model.Account) error {
	if err := common.ValidateRequired(account.Username()); err != nil {
		return fmt.Errorf("%w: username", ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.Username()]; !ok {
		logger.Log.WithField("username", account.Username()).
			Error("Update targets a username the registry never created")
		return fmt.Errorf("%w: %s", ErrAccountNotFound, account.Username())
	}

	r.accounts[account.Username()] = account
	return nil
}
