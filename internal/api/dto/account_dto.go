package dto

import "time"

// RegisterRequest payload.
type RegisterRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

// LoginRequest payload.
type LoginRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID     int64  `json:"id"`
	Handle string `json:"handle"`
	Role   string `json:"role"`
}

// AuthResponse carries an issued token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
