package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/booky/internal/application/user"
	"github.com/xiebiao/booky/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/booky/internal/interface/http/dto"
	"github.com/xiebiao/booky/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/booky/pkg/errors"
	"github.com/xiebiao/booky/pkg/response"
)

// UserHandler 用户HTTP处理器
// 设计说明:Handler只做HTTP的事:绑定参数、调用应用层、写响应,
// 业务逻辑在domain和application层
type UserHandler struct {
	registerUseCase      *appuser.RegisterUseCase
	loginUseCase         *appuser.LoginUseCase
	refreshUseCase       *appuser.RefreshTokenUseCase
	profileUseCase       *appuser.ProfileUseCase
	updateProfileUseCase *appuser.UpdateProfileUseCase
	sessionStore         *redis.SessionStore
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	registerUseCase *appuser.RegisterUseCase,
	loginUseCase *appuser.LoginUseCase,
	refreshUseCase *appuser.RefreshTokenUseCase,
	profileUseCase *appuser.ProfileUseCase,
	updateProfileUseCase *appuser.UpdateProfileUseCase,
	sessionStore *redis.SessionStore,
) *UserHandler {
	return &UserHandler{
		registerUseCase:      registerUseCase,
		loginUseCase:         loginUseCase,
		refreshUseCase:       refreshUseCase,
		profileUseCase:       profileUseCase,
		updateProfileUseCase: updateProfileUseCase,
		sessionStore:         sessionStore,
	}
}

// Register 用户注册
// @Summary      用户注册
// @Description  创建新的顾客账号
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      200 {object} response.Response "注册成功"
// @Failure      400 {object} response.Response "参数错误或用户名已存在"
// @Router       /api/v1/users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), appuser.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Login 用户登录
// @Summary      用户登录
// @Description  验证用户名密码,返回JWT Token对
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response "登录成功"
// @Failure      401 {object} response.Response "用户名或密码错误"
// @Router       /api/v1/users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// 会话信息写入Redis(在线统计/强制下线用),失败不影响登录
	_ = h.sessionStore.SaveSession(c.Request.Context(), result.UserID, map[string]interface{}{
		"username":   result.Username,
		"login_at":   time.Now().Format(time.RFC3339),
		"login_ip":   c.ClientIP(),
		"user_agent": c.Request.UserAgent(),
	}, 7*24*time.Hour)

	response.Success(c, result)
}

// RefreshToken 刷新Access Token
// @Summary      刷新Token
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.RefreshTokenRequest true "Refresh Token"
// @Success      200 {object} response.Response "刷新成功"
// @Failure      401 {object} response.Response "Token无效或已过期"
// @Router       /api/v1/users/refresh [post]
func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	accessToken, err := h.refreshUseCase.Execute(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"access_token": accessToken})
}

// Logout 用户登出
// @Summary      用户登出
// @Description  当前Token加入黑名单,删除会话
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "登出成功"
// @Router       /api/v1/users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	token := middleware.GetToken(c)

	// Token拉黑到自然过期(Access Token有效期2小时,黑名单TTL取上限即可)
	if err := h.sessionStore.AddToBlacklist(c.Request.Context(), token, 2*time.Hour); err != nil {
		response.Error(c, err)
		return
	}
	_ = h.sessionStore.DeleteSession(c.Request.Context(), userID)

	response.Success(c, nil)
}

// Profile 查询个人信息
// @Summary      个人信息
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "查询成功"
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/users/profile [get]
func (h *UserHandler) Profile(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	result, err := h.profileUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateProfile 更新个人信息
// @Summary      更新个人信息
// @Description  修改邮箱或密码,改密码需验证旧密码
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.UpdateProfileRequest true "更新内容"
// @Success      200 {object} response.Response "更新成功"
// @Failure      400 {object} response.Response "参数错误或旧密码不正确"
// @Router       /api/v1/users/profile [patch]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}
	if req.NewPassword != "" && req.OldPassword == "" {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "修改密码需提供旧密码")
		return
	}

	result, err := h.updateProfileUseCase.Execute(c.Request.Context(), appuser.UpdateProfileRequest{
		UserID:      userID,
		Email:       req.Email,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
