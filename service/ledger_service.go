package service

import (
	"errors"
	"fmt"

	"bank-ledger/logger"
	"bank-ledger/model"
	"bank-ledger/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotAuthenticated  = errors.New("no user is logged in")
	ErrInvalidAmount     = errors.New("amount must not be negative")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// InsufficientFundsError reports a withdrawal that exceeds the balance. It
// matches ErrInsufficientFunds under errors.Is and carries the figures the
// caller needs for its message.
type InsufficientFundsError struct {
	Requested decimal.Decimal
	Balance   decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds to withdraw %s, current balance is %s",
		e.Requested, e.Balance)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// LedgerService keeps at most one authenticated session at a time and
// performs the business validation the pure Account value type does not.
// Every successful deposit or withdrawal is written back to the registry
// before the session reference moves to the new snapshot.
type LedgerService struct {
	registry repository.IAccountRegistry
	session  *model.Account // nil while logged out
}

func NewLedgerService(registry repository.IAccountRegistry) *LedgerService {
	return &LedgerService{registry: registry}
}

// LogIn authenticates username and makes that account the current session,
// replacing any session already active. On authentication failure the
// session is cleared. The bool is the authentication outcome; the error is
// reserved for invalid arguments and hasher failures.
func (s *LedgerService) LogIn(username, password string) (bool, error) {
	account, err := s.registry.LogIn(username, password)
	if err != nil {
		s.session = nil
		return false, err
	}

	s.session = account
	if account == nil {
		return false, nil
	}

	logger.Log.WithField("username", account.Username()).Info("User logged in")
	return true, nil
}

// LogOut discards the current session. Calling it while logged out is a
// no-op.
func (s *LedgerService) LogOut() {
	if s.session != nil {
		logger.Log.WithField("username", s.session.Username()).Info("User logged out")
	}
	s.session = nil
}

func (s *LedgerService) IsLoggedIn() bool {
	return s.session != nil
}

// CreateAccount registers a new account. The session is untouched either
// way.
func (s *LedgerService) CreateAccount(username, password string) error {
	return s.registry.CreateAccount(username, password)
}

// AccountExists reports whether username is registered, independent of the
// session.
func (s *LedgerService) AccountExists(username string) (bool, error) {
	return s.registry.AccountExists(username)
}

// Deposit adds amount to the current session's balance and records the
// transaction.
func (s *LedgerService) Deposit(amount decimal.Decimal) error {
	if s.session == nil {
		return ErrNotAuthenticated
	}
	if amount.IsNegative() {
		return fmt.Errorf("%w: deposit of %s", ErrInvalidAmount, amount)
	}

	updated := s.session.Deposit(amount)
	if err := s.registry.UpdateAccount(updated); err != nil {
		return fmt.Errorf("could not record deposit: %w", err)
	}
	s.session = &updated

	logger.Log.WithFields(logrus.Fields{
		"username": updated.Username(),
		"amount":   amount.String(),
		"balance":  updated.Balance().String(),
	}).Info("Deposit recorded")
	return nil
}

// Withdraw subtracts amount from the current session's balance and records
// the transaction. The amount must not exceed the balance.
func (s *LedgerService) Withdraw(amount decimal.Decimal) error {
	if s.session == nil {
		return ErrNotAuthenticated
	}
	if amount.IsNegative() {
		return fmt.Errorf("%w: withdrawal of %s", ErrInvalidAmount, amount)
	}
	if amount.GreaterThan(s.session.Balance()) {
		return &InsufficientFundsError{Requested: amount, Balance: s.session.Balance()}
	}

	updated := s.session.Withdraw(amount)
	if err := s.registry.UpdateAccount(updated); err != nil {
		return fmt.Errorf("could not record withdrawal: %w", err)
	}
	s.session = &updated

	logger.Log.WithFields(logrus.Fields{
		"username": updated.Username(),
		"amount":   amount.String(),
		"balance":  updated.Balance().String(),
	}).Info("Withdrawal recorded")
	return nil
}

// CurrentBalance returns the balance of the current session.
func (s *LedgerService) CurrentBalance() (decimal.Decimal, error) {
	if s.session == nil {
		return decimal.Zero, ErrNotAuthenticated
	}
	return s.session.Balance(), nil
}

// TransactionHistory returns the current session's transactions, oldest
// first.
func (s *LedgerService) TransactionHistory() ([]model.Transaction, error) {
	if s.session == nil {
		return nil, ErrNotAuthenticated
	}
	return s.session.History(), nil
}

// CurrentUsername returns the logged-in username, or false when there is no
// session.
func (s *LedgerService) CurrentUsername() (string, bool) {
	if s.session == nil {
		return "", false
	}
	return s.session.Username(), true
}
