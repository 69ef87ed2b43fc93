// Package llm 提供基于Ollama的大模型对话客户端
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xiebiao/booky/internal/application/chat"
	"github.com/xiebiao/booky/internal/infrastructure/config"
	"github.com/xiebiao/booky/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/booky/pkg/errors"
)

// OllamaClient Ollama对话客户端
// 设计说明:
// 1. 调用本地Ollama的/api/chat接口(非流式)
// 2. 外部依赖用熔断器包住:Ollama挂掉时快速失败,
//    不让对话请求堆积拖垮整个服务
type OllamaClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
}

// NewOllamaClient 创建Ollama客户端
func NewOllamaClient(cfg *config.Config) *OllamaClient {
	breaker := circuitbreaker.NewCircuitBreaker("ollama", circuitbreaker.Config{
		MaxRequests: 1,                // 半开状态只放一个探测请求
		Interval:    60 * time.Second, // 关闭状态下计数器重置周期
		Timeout:     30 * time.Second, // 打开后30秒进入半开
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &OllamaClient{
		baseURL: cfg.LLM.BaseURL,
		model:   cfg.LLM.Model,
		httpClient: &http.Client{
			Timeout: cfg.LLM.Timeout,
		},
		breaker: breaker,
	}
}

// chatRequest Ollama /api/chat请求体
type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chat.Message `json:"messages"`
	Stream   bool           `json:"stream"`
}

// chatResponse Ollama /api/chat响应体(非流式)
type chatResponse struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// Chat 发送一轮对话,返回助手回复全文
func (c *OllamaClient) Chat(ctx context.Context, messages []chat.Message) (string, error) {
	var answer string

	err := c.breaker.Execute(func() error {
		reply, err := c.doChat(ctx, messages)
		if err != nil {
			return err
		}
		answer = reply
		return nil
	})
	if err != nil {
		if errors.Is(err, circuitbreaker.ErrOpenState) {
			return "", apperrors.New(apperrors.ErrCodeLLMError, "智能助手暂时不可用,请稍后再试")
		}
		return "", apperrors.Wrap(err, "智能助手服务异常")
	}

	return answer, nil
}

func (c *OllamaClient) doChat(ctx context.Context, messages []chat.Message) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
	})
	if err != nil {
		return "", fmt.Errorf("序列化请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("构建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("调用Ollama失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("Ollama返回状态%d: %s", resp.StatusCode, string(data))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("解析Ollama响应失败: %w", err)
	}

	return out.Message.Content, nil
}
