package models

import "time"

// UserRecord is one stored identity inside the user document.
type UserRecord struct {
	ID        string    `json:"id" db:"id"`                // Timestamp-derived, never reused
	Username  string    `json:"username" db:"username"`    // Unique, case-sensitive
	Email     string    `json:"email" db:"email"`          // Unique
	Password  string    `json:"password" db:"password"`    // Plaintext or bcrypt hash, depending on hasher
	CreatedAt time.Time `json:"createdAt" db:"created_at"` // Set once at creation
}

// View returns the part of the record that is safe to hand to a caller.
func (u UserRecord) View() *UserView {
	return &UserView{
		Username: u.Username,
		Email:    u.Email,
	}
}

// UserView is the subset of a UserRecord returned after login.
// swagger:model UserView
type UserView struct {
	// Username
	// example: john_doe
	Username string `json:"username"`

	// Email
	// example: john@example.com
	Email string `json:"email"`
}
