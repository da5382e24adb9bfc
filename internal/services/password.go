package services

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns a password into its stored form and checks candidates against it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Matches(stored, password string) bool
}

// PlaintextHasher stores passwords unchanged and compares them for equality.
// It is the default and mirrors the historical document format.
type PlaintextHasher struct{}

// Hash returns the password unchanged.
func (PlaintextHasher) Hash(password string) (string, error) {
	return password, nil
}

// Matches reports whether password equals the stored value.
func (PlaintextHasher) Matches(stored, password string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

// BcryptHasher stores bcrypt hashes. Documents written in plaintext mode
// cannot be read back with it.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher creates a new BcryptHasher; a zero cost selects bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost}
}

// Hash returns the bcrypt hash of password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", &ValidationError{Field: "password", Reason: "must be at most 72 bytes"}
	}
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Matches reports whether password matches the stored bcrypt hash.
func (h *BcryptHasher) Matches(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}
