package api

// AuthStatus represents the response of the root status endpoint
type AuthStatus struct {
	Status       string `json:"status"`                  // "authenticated" or "not_authenticated"
	Message      string `json:"message"`                 // human-readable hint
	TokenExpires string `json:"token_expires,omitempty"` // ISO-8601 expiry of the stored access token
	UserID       string `json:"user_id,omitempty"`
}

// CallbackResponse represents the response of a successful OAuth callback
type CallbackResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// ErrorResponse represents an error response body
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
