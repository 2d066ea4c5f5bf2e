package dto

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	OTP      string `json:"otp,omitempty"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	Message  string `json:"message,omitempty"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterResponse struct {
	Message    string `json:"message"`
	UserID     int64  `json:"user_id,omitempty"`
	OTPAuthURL string `json:"otpAuthUrl,omitempty"`
}

type TokenRequest struct {
	Token string `json:"token"`
}

type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	UserID        string `json:"user_id,omitempty"`
	Expired       bool   `json:"expired"`
}
