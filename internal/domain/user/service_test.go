package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/booky/pkg/errors"
)

type memRepo struct {
	users map[string]*User
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[string]*User)}
}

func (m *memRepo) Create(ctx context.Context, u *User) error {
	if _, ok := m.users[u.Username]; ok {
		return apperrors.New(apperrors.ErrCodeUsernameDuplicate, "用户名已存在")
	}
	u.ID = uint(len(m.users) + 1)
	m.users[u.Username] = u
	return nil
}

func (m *memRepo) FindByID(ctx context.Context, id uint) (*User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *memRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	if u, ok := m.users[username]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *memRepo) Update(ctx context.Context, u *User) error { return nil }

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo())

	u, err := svc.Register(ctx, "alice", "alice@example.com", "passw0rd1")
	assert.NoError(t, err)
	assert.Equal(t, RoleCustomer, u.Role)
	assert.NotEqual(t, "passw0rd1", u.Password, "密码必须加密存储")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("passw0rd1")))
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo())

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"用户名太短", "ab", "", "passw0rd1"},
		{"用户名含非法字符", "a b!", "", "passw0rd1"},
		{"邮箱格式错误", "alice", "not-an-email", "passw0rd1"},
		{"密码太短", "alice", "", "p1"},
		{"密码无数字", "alice", "", "passwordonly"},
		{"密码无字母", "alice", "", "1234567890"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.email, tt.password)
			assert.Error(t, err)
		})
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo())

	_, err := svc.Register(ctx, "bob", "", "passw0rd1")
	assert.NoError(t, err)

	u, err := svc.Login(ctx, "bob", "passw0rd1")
	assert.NoError(t, err)
	assert.Equal(t, "bob", u.Username)

	// 密码错误与用户不存在返回同一错误
	_, err = svc.Login(ctx, "bob", "wrongpass1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	_, err = svc.Login(ctx, "nobody", "passw0rd1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo())

	registered, err := svc.Register(ctx, "carol", "carol@example.com", "passw0rd1")
	assert.NoError(t, err)

	t.Run("只改邮箱", func(t *testing.T) {
		email := "carol@booky.dev"
		u, err := svc.UpdateProfile(ctx, registered.ID, &email, "", "")
		assert.NoError(t, err)
		assert.Equal(t, "carol@booky.dev", u.Email)
	})

	t.Run("邮箱格式错误", func(t *testing.T) {
		email := "not-an-email"
		_, err := svc.UpdateProfile(ctx, registered.ID, &email, "", "")
		assert.Error(t, err)
	})

	t.Run("改密码需验证旧密码", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, registered.ID, nil, "wrongpass1", "newpassw0rd")
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	})

	t.Run("新密码强度不足", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, registered.ID, nil, "passw0rd1", "short")
		assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
	})

	t.Run("改密码成功并重新加密", func(t *testing.T) {
		u, err := svc.UpdateProfile(ctx, registered.ID, nil, "passw0rd1", "newpassw0rd1")
		assert.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("newpassw0rd1")))

		_, err = svc.Login(ctx, "carol", "newpassw0rd1")
		assert.NoError(t, err)
	})
}
