package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Account is an immutable snapshot of one user's identity, credential
// digest, balance and transaction history. Balance-changing operations
// return a new snapshot rather than mutating the receiver; the registry
// decides which snapshot is current for a username.
type Account struct {
	username string
	digest   string
	balance  decimal.Decimal
	history  []Transaction
}

// NewAccount builds a snapshot. The supplied history is copied, so later
// mutation of the caller's slice cannot reach the account.
func NewAccount(username, digest string, balance decimal.Decimal, history []Transaction) Account {
	h := make([]Transaction, len(history))
	copy(h, history)
	return Account{username: username, digest: digest, balance: balance, history: h}
}

func (a Account) Username() string { return a.username }

// Digest returns the hashed credential, never the raw password.
func (a Account) Digest() string { return a.digest }

func (a Account) Balance() decimal.Decimal { return a.balance }

// History returns a copy of the transaction history, oldest first.
func (a Account) History() []Transaction {
	h := make([]Transaction, len(a.history))
	copy(h, a.history)
	return h
}

// Deposit returns a snapshot with amount added to the balance and a
// deposit recorded in the history. It performs no validation of the
// amount; that is the ledger service's responsibility.
func (a Account) Deposit(amount decimal.Decimal) Account {
	return a.changeBalance(amount, ActionDeposit)
}

// Withdraw returns a snapshot with amount subtracted from the balance and
// a withdrawal recorded in the history. Sufficiency checks belong to the
// caller.
func (a Account) Withdraw(amount decimal.Decimal) Account {
	return a.changeBalance(amount.Neg(), ActionWithdrawal)
}

// WithDigest returns a snapshot identical to this one except for the
// credential digest. The registry uses it to upgrade a digest on login.
func (a Account) WithDigest(digest string) Account {
	return NewAccount(a.username, digest, a.balance, a.history)
}

func (a Account) changeBalance(delta decimal.Decimal, action Action) Account {
	newBalance := a.balance.Add(delta)
	tx := NewTransaction(action, time.Now(),
		fmt.Sprintf("Amount: %s, new balance: %s", delta.Abs(), newBalance))

	history := make([]Transaction, 0, len(a.history)+1)
	history = append(history, a.history...)
	history = append(history, tx)

	return Account{username: a.username, digest: a.digest, balance: newBalance, history: history}
}
