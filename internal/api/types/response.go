// internal/api/types/response.go
package types

// MessageResponse is the generic success envelope for mutating endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the envelope for all failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// LoginResponse carries a freshly issued access token.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	Username    string `json:"username"`
	Email       string `json:"email"`
}
