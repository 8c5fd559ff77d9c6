package dto

// SessionRequest carries the staff password.
type SessionRequest struct {
	Password string `json:"password"`
}

// SessionResponse returns the issued session token.
type SessionResponse struct {
	Token string `json:"token"`
}
