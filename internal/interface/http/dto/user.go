package dto

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30" example:"alice"`
	Email    string `json:"email" binding:"omitempty,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required,min=8,max=20" example:"passw0rd1"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"passw0rd1"`
}

// RefreshTokenRequest 刷新Token请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest 更新个人信息请求
// email不传表示不修改;改密码时old_password和new_password必须同时提供
type UpdateProfileRequest struct {
	Email       *string `json:"email" binding:"omitempty,email" example:"alice@example.com"`
	OldPassword string  `json:"old_password" binding:"omitempty,min=8,max=20"`
	NewPassword string  `json:"new_password" binding:"omitempty,min=8,max=20"`
}
