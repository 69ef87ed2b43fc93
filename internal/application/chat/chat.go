package chat

import (
	"context"
	"regexp"
	"strings"

	apperrors "github.com/xiebiao/booky/pkg/errors"
)

// LLMClient 大模型对话客户端接口(实现:infrastructure/llm.OllamaClient)
type LLMClient interface {
	// Chat 发送一轮对话,返回助手回复全文
	Chat(ctx context.Context, messages []Message) (string, error)
}

// Message 对话消息
type Message struct {
	Role    string `json:"role"` // system/user/assistant
	Content string `json:"content"`
}

// ChatUseCase 智能助手对话用例
// 把用户问题连同店铺身份的system提示词转发给本地大模型,
// 回复去除Markdown标记后返回纯文本
type ChatUseCase struct {
	client LLMClient
}

// NewChatUseCase 创建对话用例
func NewChatUseCase(client LLMClient) *ChatUseCase {
	return &ChatUseCase{client: client}
}

// systemPrompt 助手的角色设定
const systemPrompt = "你是网上书店Booky的购书助手,负责推荐图书、解答购书流程和订单问题。回答使用简体中文纯文本,简明扼要,不要输出Markdown格式。"

// ChatRequest 对话请求
type ChatRequest struct {
	Question string
	History  []Message // 客户端回传的历史对话(可选)
}

// ChatResponse 对话响应
type ChatResponse struct {
	Answer string `json:"answer"`
}

// Execute 执行一轮对话
func (uc *ChatUseCase) Execute(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "问题不能为空")
	}
	if len(question) > 2000 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "问题过长(最多2000字符)")
	}

	messages := make([]Message, 0, len(req.History)+2)
	messages = append(messages, Message{Role: "system", Content: systemPrompt})
	for _, m := range req.History {
		if m.Role == "user" || m.Role == "assistant" {
			messages = append(messages, m)
		}
	}
	messages = append(messages, Message{Role: "user", Content: question})

	answer, err := uc.client.Chat(ctx, messages)
	if err != nil {
		return nil, err
	}

	return &ChatResponse{Answer: stripMarkdown(answer)}, nil
}

// Markdown标记清洗规则
// 模型经常无视"纯文本"指令输出Markdown,逐条剥掉常见标记
var (
	mdCodeFence = regexp.MustCompile("(?s)```[a-zA-Z]*\\n?(.*?)```")
	mdInline    = regexp.MustCompile("`([^`]*)`")
	mdBold      = regexp.MustCompile(`\*\*([^*]+)\*\*|__([^_]+)__`)
	mdItalic    = regexp.MustCompile(`\*([^*]+)\*|_([^_]+)_`)
	mdHeading   = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	mdListItem  = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	mdLink      = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdBlank     = regexp.MustCompile(`\n{3,}`)
)

// stripMarkdown 去除常见Markdown标记,保留正文
func stripMarkdown(s string) string {
	s = mdCodeFence.ReplaceAllString(s, "$1")
	s = mdInline.ReplaceAllString(s, "$1")
	s = mdBold.ReplaceAllString(s, "$1$2")
	s = mdItalic.ReplaceAllString(s, "$1$2")
	s = mdHeading.ReplaceAllString(s, "")
	s = mdListItem.ReplaceAllString(s, "")
	s = mdLink.ReplaceAllString(s, "$1")
	s = mdBlank.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
