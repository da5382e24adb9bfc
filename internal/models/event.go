package models

import "time"

// UserRegisteredEvent is published after a successful registration.
type UserRegisteredEvent struct {
	UserID    string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
