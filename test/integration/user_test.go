package integration

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUserRegister 测试用户注册
func TestUserRegister(t *testing.T) {
	RequireServer(t)

	t.Run("正常注册", func(t *testing.T) {
		username := GenerateTestUsername("reg")
		resp := PostJSON(t, BaseURL+"/users/register", map[string]string{
			"username": username,
			"email":    username + "@test.com",
			"password": "Test1234",
		}, "")

		require.Equal(t, 0, resp.Code, "注册失败: %s", resp.Message)

		var data struct {
			UserID   uint   `json:"user_id"`
			Username string `json:"username"`
			Role     string `json:"role"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.NotZero(t, data.UserID)
		assert.Equal(t, username, data.Username)
		assert.Equal(t, "CUSTOMER", data.Role, "注册用户默认是顾客角色")
	})

	t.Run("重复用户名被拒绝", func(t *testing.T) {
		username := GenerateTestUsername("dup")
		req := map[string]string{
			"username": username,
			"password": "Test1234",
		}

		first := PostJSON(t, BaseURL+"/users/register", req, "")
		require.Equal(t, 0, first.Code)

		second := PostJSON(t, BaseURL+"/users/register", req, "")
		assert.NotEqual(t, 0, second.Code, "重复用户名应该失败")
	})

	t.Run("弱密码被拒绝", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users/register", map[string]string{
			"username": GenerateTestUsername("weak"),
			"password": "abcdefgh", // 纯字母
		}, "")
		assert.NotEqual(t, 0, resp.Code, "纯字母密码应该被拒绝")
	})

	t.Run("非法用户名被拒绝", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users/register", map[string]string{
			"username": "bad name!", // 含空格和特殊字符
			"password": "Test1234",
		}, "")
		assert.NotEqual(t, 0, resp.Code, "非法用户名应该被拒绝")
	})
}

// TestUserLogin 测试登录与Token
func TestUserLogin(t *testing.T) {
	RequireServer(t)

	t.Run("登录返回双Token", func(t *testing.T) {
		username, _ := RegisterTestUser(t, "login")

		resp := PostJSON(t, BaseURL+"/users/login", map[string]string{
			"username": username,
			"password": "Test1234",
		}, "")
		require.Equal(t, 0, resp.Code)

		var data LoginData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.NotEmpty(t, data.AccessToken)
		assert.NotEmpty(t, data.RefreshToken)
		assert.NotEqual(t, data.AccessToken, data.RefreshToken)
	})

	t.Run("密码错误被拒绝", func(t *testing.T) {
		username, _ := RegisterTestUser(t, "wrongpw")

		resp := PostJSON(t, BaseURL+"/users/login", map[string]string{
			"username": username,
			"password": "Wrong1234",
		}, "")
		assert.NotEqual(t, 0, resp.Code)
	})

	t.Run("不存在的用户与密码错误返回同样的提示", func(t *testing.T) {
		// 不泄露用户名是否存在
		respNoUser := PostJSON(t, BaseURL+"/users/login", map[string]string{
			"username": "no_such_user_xyz",
			"password": "Test1234",
		}, "")
		assert.NotEqual(t, 0, respNoUser.Code)
		assert.NotContains(t, respNoUser.Message, "不存在", "不应该提示用户不存在")
	})

	t.Run("刷新Token", func(t *testing.T) {
		username, _ := RegisterTestUser(t, "refresh")

		loginResp := PostJSON(t, BaseURL+"/users/login", map[string]string{
			"username": username,
			"password": "Test1234",
		}, "")
		require.Equal(t, 0, loginResp.Code)

		var loginData LoginData
		require.NoError(t, json.Unmarshal(loginResp.Data, &loginData))

		refreshResp := PostJSON(t, BaseURL+"/users/refresh", map[string]string{
			"refresh_token": loginData.RefreshToken,
		}, "")
		require.Equal(t, 0, refreshResp.Code, "刷新Token失败: %s", refreshResp.Message)
	})
}

// TestAuth 测试认证与权限
func TestAuth(t *testing.T) {
	RequireServer(t)

	t.Run("未登录不能访问购物车", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/cart", "")
		assert.NotEqual(t, 0, resp.Code, "未登录应该被拒绝")
	})

	t.Run("顾客不能访问管理接口", func(t *testing.T) {
		_, token := RegisterTestUser(t, "nobody")

		resp := GetJSON(t, BaseURL+"/admin/replenishments", token)
		assert.NotEqual(t, 0, resp.Code, "顾客访问管理接口应该被拒绝")
	})

	t.Run("登出后Token失效", func(t *testing.T) {
		_, token := RegisterTestUser(t, "logout")

		// 登出前能访问
		profileResp := GetJSON(t, BaseURL+"/users/profile", token)
		require.Equal(t, 0, profileResp.Code)

		logoutResp := PostJSON(t, BaseURL+"/users/logout", nil, token)
		require.Equal(t, 0, logoutResp.Code, "登出失败: %s", logoutResp.Message)

		// 登出后Token进入黑名单
		afterResp := GetJSON(t, BaseURL+"/users/profile", token)
		assert.NotEqual(t, 0, afterResp.Code, "登出后的Token应该失效")
	})
}
