package user

import (
	"context"
)

// Repository 用户仓储接口
// 设计说明:
// 1. 接口定义在domain层(依赖倒置原则),实现在infrastructure层
// 2. 用户名/邮箱唯一性由数据库UNIQUE索引保证,
//    实现层捕获重复键错误并转换为业务错误
type Repository interface {
	// Create 创建用户
	// 用户名已存在返回errors.ErrCodeUsernameDuplicate,
	// 邮箱已存在返回errors.ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户(不存在返回errors.ErrUserNotFound)
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByUsername 根据用户名查找用户(不存在返回errors.ErrUserNotFound)
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Update 更新用户信息
	Update(ctx context.Context, user *User) error
}
