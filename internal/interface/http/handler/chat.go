package handler

import (
	"github.com/gin-gonic/gin"

	appchat "github.com/xiebiao/booky/internal/application/chat"
	"github.com/xiebiao/booky/internal/interface/http/dto"
	apperrors "github.com/xiebiao/booky/pkg/errors"
	"github.com/xiebiao/booky/pkg/response"
)

// ChatHandler 智能助手HTTP处理器
type ChatHandler struct {
	chatUseCase *appchat.ChatUseCase
}

// NewChatHandler 创建智能助手处理器
func NewChatHandler(chatUseCase *appchat.ChatUseCase) *ChatHandler {
	return &ChatHandler{chatUseCase: chatUseCase}
}

// Chat 对话
// @Summary      智能助手对话
// @Description  转发到本地大模型,回复为去除Markdown的纯文本
// @Tags         智能助手
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ChatRequest true "问题与历史对话"
// @Success      200 {object} response.Response "对话成功"
// @Failure      500 {object} response.Response "智能助手服务不可用"
// @Router       /api/v1/chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	history := make([]appchat.Message, len(req.History))
	for i, m := range req.History {
		history[i] = appchat.Message{Role: m.Role, Content: m.Content}
	}

	result, err := h.chatUseCase.Execute(c.Request.Context(), appchat.ChatRequest{
		Question: req.Question,
		History:  history,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
