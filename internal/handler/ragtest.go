package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/park285/llm-chat-server-go/internal/domain/ragtest"
	"github.com/park285/llm-chat-server-go/internal/gemini"
	"github.com/park285/llm-chat-server-go/internal/guard"
	"github.com/park285/llm-chat-server-go/internal/httperror"
	"github.com/park285/llm-chat-server-go/internal/llm"
	"github.com/park285/llm-chat-server-go/internal/money"
)

const ragTestDefaultMaxTokens = 1000

// RagTestRequest 는 프롬프트 실험 요청 폼이다.
type RagTestRequest struct {
	Metadata    string   `form:"metadata" binding:"required"`
	ChatLog     string   `form:"chat_log" binding:"required"`
	RagCriteria string   `form:"rag_criteria" binding:"required"`
	UserInput   string   `form:"user_input" binding:"required"`
	Temperature *float64 `form:"temperature"`
	MaxTokens   int      `form:"max_tokens"`
}

// RagTestResponse 는 합성된 프롬프트와 모델 응답을 함께 돌려준다.
type RagTestResponse struct {
	Prompt       string      `json:"prompt"`
	Response     string      `json:"response"`
	TokensInput  int         `json:"tokens_input"`
	TokensOutput int         `json:"tokens_output"`
	Cost         money.Money `json:"cost"`
}

// RagTestHandler 는 프롬프트 실험 핸들러다.
type RagTestHandler struct {
	client  gemini.LLM
	guard   guard.Guard
	prompts *ragtest.Prompts
	logger  *slog.Logger
}

// NewRagTestHandler 는 프롬프트 실험 핸들러를 생성한다.
func NewRagTestHandler(
	client gemini.LLM,
	profanityGuard guard.Guard,
	prompts *ragtest.Prompts,
	logger *slog.Logger,
) *RagTestHandler {
	return &RagTestHandler{
		client:  client,
		guard:   profanityGuard,
		prompts: prompts,
		logger:  logger,
	}
}

// RegisterRoutes 는 프롬프트 실험 라우트를 등록한다.
func (h *RagTestHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/rag-test", h.handleRagTest)
}

func (h *RagTestHandler) handleRagTest(c *gin.Context) {
	var req RagTestRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, httperror.NewValidationError(err))
		return
	}

	if err := h.guard.EnsureSafe(req.UserInput); err != nil {
		writeError(c, err)
		return
	}

	fullPrompt, err := h.prompts.BuildPrompt(req.Metadata, req.ChatLog, req.RagCriteria, req.UserInput)
	if err != nil {
		h.logger.Error("rag_prompt_build_failed", "err", err)
		writeError(c, err)
		return
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = ragTestDefaultMaxTokens
	}

	result := h.client.Chat(c.Request.Context(), gemini.Request{
		Messages:    []llm.HistoryEntry{{Role: "user", Content: fullPrompt}},
		Temperature: req.Temperature,
		MaxTokens:   maxTokens,
	})

	c.JSON(http.StatusOK, RagTestResponse{
		Prompt:       fullPrompt,
		Response:     result.Text,
		TokensInput:  result.Usage.InputTokens,
		TokensOutput: result.Usage.OutputTokens,
		Cost:         result.Cost,
	})
}
