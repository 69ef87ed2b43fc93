package user

import (
	"context"

	"github.com/xiebiao/booky/internal/domain/user"
)

// ProfileUseCase 查询个人信息用例
type ProfileUseCase struct {
	userRepo user.Repository
}

// NewProfileUseCase 创建查询个人信息用例
func NewProfileUseCase(userRepo user.Repository) *ProfileUseCase {
	return &ProfileUseCase{userRepo: userRepo}
}

// ProfileResponse 个人信息响应(不含任何密码相关字段)
type ProfileResponse struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// Execute 查询当前用户信息
func (uc *ProfileUseCase) Execute(ctx context.Context, userID uint) (*ProfileResponse, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileResponse{
		UserID:    u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
