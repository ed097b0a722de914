package model

import (
	"time"

	"github.com/google/uuid"
)

// Action is the kind of operation a Transaction records.
type Action string

const (
	ActionDeposit    Action = "deposit"
	ActionWithdrawal Action = "withdrawal"
)

// Transaction records one completed balance change. Immutable once created;
// it belongs to the history of exactly one account.
type Transaction struct {
	ID          string    `json:"id"`
	Action      Action    `json:"action"`
	Time        time.Time `json:"time"`
	Description string    `json:"description,omitempty"`
}

func NewTransaction(action Action, t time.Time, description string) Transaction {
	return Transaction{
		ID:          uuid.NewString(),
		Action:      action,
		Time:        t,
		Description: description,
	}
}
