package dto

type SignupRequest struct {
	Username        string `json:"username" binding:"max=64"`
	Password        string `json:"password" binding:"max=72"`
	ConfirmPassword string `json:"confirmPassword" binding:"max=72"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Message   string `json:"message"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// GuestResponse пароль гостя отдается только здесь
type GuestResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
