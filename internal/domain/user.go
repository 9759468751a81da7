package domain

// User is the signed-in caller as reported by the authentication layer.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}
