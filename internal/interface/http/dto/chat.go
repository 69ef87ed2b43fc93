package dto

// ChatMessage 对话历史消息
type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant" example:"user"`
	Content string `json:"content" binding:"required"`
}

// ChatRequest 智能助手对话请求
type ChatRequest struct {
	Question string        `json:"question" binding:"required,max=2000" example:"有什么适合入门的Go语言书?"`
	History  []ChatMessage `json:"history" binding:"omitempty,max=20"`
}
