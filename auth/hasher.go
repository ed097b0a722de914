package auth

import (
	"bank-ledger/logger"

	"golang.org/x/crypto/bcrypt"
)

// VerifyResult is the outcome of checking a password against a digest.
type VerifyResult int

const (
	VerifyMismatch VerifyResult = iota
	VerifyMatch
	VerifyMatchNeedsRehash
)

// PasswordHasher is the one-way credential capability consumed by the
// account registry. Digests are opaque strings; the raw password never
// leaves this boundary.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(digest, password string) VerifyResult
}

// BcryptHasher implements PasswordHasher with bcrypt. A digest minted at a
// cost below the configured one still verifies, but as
// VerifyMatchNeedsRehash so the registry can upgrade it transparently.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

func (h *BcryptHasher) Verify(digest, password string) VerifyResult {
	if err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)); err != nil {
		return VerifyMismatch
	}

	cost, err := bcrypt.Cost([]byte(digest))
	if err == nil && cost < h.cost {
		return VerifyMatchNeedsRehash
	}
	return VerifyMatch
}
