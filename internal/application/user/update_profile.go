package user

import (
	"context"

	"github.com/xiebiao/booky/internal/domain/user"
)

// UpdateProfileUseCase 更新个人信息用例
type UpdateProfileUseCase struct {
	userService user.Service
}

// NewUpdateProfileUseCase 创建更新个人信息用例
func NewUpdateProfileUseCase(userService user.Service) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{userService: userService}
}

// UpdateProfileRequest 更新个人信息请求
// Email为nil表示不修改,指向空串表示清空
// NewPassword非空时必须携带OldPassword
type UpdateProfileRequest struct {
	UserID      uint
	Email       *string
	OldPassword string
	NewPassword string
}

// Execute 更新当前用户信息
func (uc *UpdateProfileUseCase) Execute(ctx context.Context, req UpdateProfileRequest) (*ProfileResponse, error) {
	u, err := uc.userService.UpdateProfile(ctx, req.UserID, req.Email, req.OldPassword, req.NewPassword)
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
