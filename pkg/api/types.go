package api

// ApiResponse is the generic outcome envelope for auth operations
type ApiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// JwtResponse carries a freshly issued bearer token. Both fields are null on
// a failed login so the success and failure bodies share one shape.
type JwtResponse struct {
	Token  *string `json:"token"`
	UserID *int64  `json:"userId"`
}

// RegisterRequest is the register endpoint payload
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the login endpoint payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
