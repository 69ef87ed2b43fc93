package user

import (
	"time"
)

// Role 用户角色
type Role string

const (
	RoleCustomer Role = "CUSTOMER" // 普通顾客
	RoleAdmin    Role = "ADMIN"    // 管理员(图书/库存/补货/报表)
)

// Valid 校验角色取值
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// User 用户实体(聚合根)
// 设计说明:
// 1. 密码只保存bcrypt哈希,不提供明文访问方法
// 2. 领域实体不带GORM tag,映射由infrastructure层的模型处理
// 3. Role决定接口访问范围,管理端路由要求RoleAdmin
type User struct {
	ID        uint
	Username  string
	Email     string
	Password  string // bcrypt哈希值
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户(工厂方法)
// hashedPassword必须是bcrypt加密后的密码
func NewUser(username, email, hashedPassword string, role Role) *User {
	now := time.Now()
	return &User{
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
