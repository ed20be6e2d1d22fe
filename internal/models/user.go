package models

// User represents a user account in the system.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Never expose this to the client
	CreatedAt    string `json:"createdAt,omitempty"`
}
