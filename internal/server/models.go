package server

// HTTPError is a generic error envelope returned by the server.
type HTTPError struct {
	Error string `json:"error"`
}

// AuthSignupRequest represents the signup payload.
type AuthSignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthLoginRequest represents the login payload.
type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries a bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// MeResponse returns the current authenticated user id.
type MeResponse struct {
	UserID string `json:"user_id"`
}

// InsightsRequest asks for insights about a topic.
type InsightsRequest struct {
	Topic       string `json:"topic"`
	ResultCount int    `json:"result_count"`
}

// MessageResponse is a generic confirmation envelope.
type MessageResponse struct {
	Message string `json:"message"`
}
