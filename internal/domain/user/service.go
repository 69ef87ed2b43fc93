package user

import (
	"context"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/booky/pkg/errors"
)

// Service 用户领域服务
// 设计说明:
// 1. Service包含不属于单个实体的业务逻辑(密码加密与验证)
// 2. 只依赖Repository接口,不处理HTTP
type Service interface {
	// Register 用户注册(角色固定为CUSTOMER,管理员由运维开通)
	Register(ctx context.Context, username, email, password string) (*User, error)

	// Login 用户登录
	Login(ctx context.Context, username, password string) (*User, error)

	// ValidatePassword 验证密码
	ValidatePassword(hashedPassword, plainPassword string) error

	// UpdateProfile 更新个人信息
	// email为nil表示不修改;newPassword非空时必须提供正确的oldPassword
	UpdateProfile(ctx context.Context, userID uint, email *string, oldPassword, newPassword string) (*User, error)
}

type service struct {
	repo Repository
}

// NewService 创建用户服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Register 用户注册
// 业务规则:
// 1. 用户名3-30位,字母数字下划线
// 2. 邮箱格式校验(可选字段,为空则跳过)
// 3. 密码强度校验(8-20位,包含字母和数字)
// 4. 密码bcrypt加密(cost=12,平衡安全性与性能)
// 5. 用户名/邮箱唯一性由数据库UNIQUE索引保证,
//    应用层SELECT再INSERT有并发窗口,不在这里校验
func (s *service) Register(ctx context.Context, username, email, password string) (*User, error) {
	if !isValidUsername(username) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "用户名应为3-30位字母、数字或下划线")
	}

	if email != "" && !isValidEmail(email) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")
	}

	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}

	// bcrypt自动加盐,相同密码每次哈希结果都不同
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	u := NewUser(username, email, string(hashedPassword), RoleCustomer)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err // Repository已转换为业务错误
	}

	return u, nil
}

// Login 用户登录
// 注意:用户不存在与密码错误返回同一个错误,不泄露用户名是否注册
func (s *service) Login(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, apperrors.ErrInvalidPassword
	}

	if err := s.ValidatePassword(u.Password, password); err != nil {
		return nil, err
	}

	return u, nil
}

// ValidatePassword 验证明文密码与哈希值是否匹配
func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return apperrors.ErrInvalidPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}

// UpdateProfile 更新个人信息
// 业务规则:
// 1. 邮箱可改可清空,非空时校验格式
// 2. 改密码必须先验证旧密码,新密码走同一套强度校验并重新bcrypt
// 3. 用户名和角色不允许通过此入口修改
func (s *service) UpdateProfile(ctx context.Context, userID uint, email *string, oldPassword, newPassword string) (*User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if email != nil {
		if *email != "" && !isValidEmail(*email) {
			return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")
		}
		u.Email = *email
	}

	if newPassword != "" {
		if err := s.ValidatePassword(u.Password, oldPassword); err != nil {
			return nil, err
		}
		if err := validatePasswordStrength(newPassword); err != nil {
			return nil, err
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), 12)
		if err != nil {
			return nil, apperrors.Wrap(err, "密码加密失败")
		}
		u.Password = string(hashedPassword)
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// =========================================
// 辅助函数:业务规则校验
// =========================================

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

func isValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// isValidEmail 简单正则校验,不追求完整RFC 5322
func isValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// validatePasswordStrength 密码强度校验
// 规则:8-20位,必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return apperrors.ErrWeakPassword
	}

	hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
	hasDigit := regexp.MustCompile(`[0-9]`).MatchString(password)

	if !hasLetter || !hasDigit {
		return apperrors.ErrWeakPassword
	}

	return nil
}
