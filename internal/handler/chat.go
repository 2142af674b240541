package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/park285/llm-chat-server-go/internal/config"
	"github.com/park285/llm-chat-server-go/internal/gemini"
	"github.com/park285/llm-chat-server-go/internal/llm"
	"github.com/park285/llm-chat-server-go/internal/money"
)

// ChatMessage 는 대화 메시지 1건이다.
type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=system user assistant"`
	Content string `json:"content" binding:"required"`
}

// ChatRequest 는 채팅 요청 본문이다.
type ChatRequest struct {
	Messages    []ChatMessage `json:"messages" binding:"required,min=1,dive"`
	Temperature *float64      `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// ChatResponse 는 채팅 응답 본문이다.
type ChatResponse struct {
	Content      string      `json:"content"`
	Model        string      `json:"model"`
	Provider     string      `json:"provider"`
	TokensInput  int         `json:"tokens_input"`
	TokensOutput int         `json:"tokens_output"`
	Cost         money.Money `json:"cost"`
}

// ChatHandler 는 채팅 API 핸들러다.
type ChatHandler struct {
	cfg    *config.Config
	client gemini.LLM
	logger *slog.Logger
}

// NewChatHandler 는 채팅 핸들러를 생성한다.
func NewChatHandler(cfg *config.Config, client gemini.LLM, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// RegisterRoutes 는 채팅 라우트를 등록한다.
func (h *ChatHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/chat", h.handleChat)
}

func (h *ChatHandler) handleChat(c *gin.Context) {
	var req ChatRequest
	if !bindJSON(c, &req) {
		return
	}

	result := h.client.Chat(c.Request.Context(), gemini.Request{
		Messages:    stripSystemMessages(req.Messages),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if result.Fallback {
		h.logger.Warn("chat_fallback_served", "model", result.Model)
	}

	c.JSON(http.StatusOK, ChatResponse{
		Content:      result.Text,
		Model:        result.Model,
		Provider:     "gemini",
		TokensInput:  result.Usage.InputTokens,
		TokensOutput: result.Usage.OutputTokens,
		Cost:         result.Cost,
	})
}

// stripSystemMessages 는 system 역할 메시지를 제거한다. RAG 컨텍스트를 따로
// 주입하지 않으므로 모델에는 user/assistant 교환만 전달한다.
func stripSystemMessages(messages []ChatMessage) []llm.HistoryEntry {
	entries := make([]llm.HistoryEntry, 0, len(messages))
	for _, message := range messages {
		if message.Role == "system" {
			continue
		}
		entries = append(entries, llm.HistoryEntry{
			Role:    message.Role,
			Content: message.Content,
		})
	}
	return entries
}
