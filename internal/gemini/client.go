package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"google.golang.org/genai"

	"github.com/park285/llm-chat-server-go/internal/config"
	"github.com/park285/llm-chat-server-go/internal/llm"
	"github.com/park285/llm-chat-server-go/internal/metrics"
	"github.com/park285/llm-chat-server-go/internal/money"
	"github.com/park285/llm-chat-server-go/internal/pricing"
)

const (
	defaultMaxOutputTokens = 512
	maxOutputTokensCap     = 10000
	truncationNoticeFloor  = 50
)

const (
	truncationNotice = "\n\n⚠️ 응답이 길어 중간에 잘렸을 수 있어요."
	safetyNotice     = "⚠️ 안전 정책에 의해 응답이 차단됐습니다."
	recitationNotice = "⚠️ 복사된 콘텐츠가 감지돼 응답이 제한되었습니다."
	errorNotice      = "\n\n⚠️ Gemini 응답 오류가 감지되었습니다."
	emptyFallback    = "⚠️ Gemini가 응답을 생성하지 못했습니다. 질문을 다시 시도해 보세요."
)

// ErrMissingAPIKey 는 Gemini API 키가 없을 때 반환된다.
var ErrMissingAPIKey = errors.New("missing gemini api key")

// Recorder 는 완료된 채팅 교환 하나를 사용량 장부에 기록한다.
// API 호출이 실패한 교환은 기록 대상이 아니다.
type Recorder interface {
	RecordChat(userMessage, assistantMessage string, tokensInput, tokensOutput int, cost money.Money)
}

// Request 는 Gemini 채팅 요청 데이터다.
type Request struct {
	Messages    []llm.HistoryEntry
	Temperature *float64
	MaxTokens   int
}

// Client 는 Gemini 호출을 담당한다.
type Client struct {
	cfg       *config.Config
	logger    *slog.Logger
	metrics   *metrics.Store
	recorder  Recorder
	mu        sync.Mutex
	clients   map[string]*genai.Client
	apiKeys   []string
	apiKeyIdx int
}

// NewClient 는 Gemini 클라이언트를 생성한다.
func NewClient(cfg *config.Config, logger *slog.Logger, metricsStore *metrics.Store, recorder Recorder) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		return nil, errors.New("logger is nil")
	}
	if metricsStore == nil {
		return nil, errors.New("metrics store is nil")
	}
	return &Client{
		cfg:      cfg,
		logger:   logger,
		metrics:  metricsStore,
		recorder: recorder,
		clients:  make(map[string]*genai.Client),
		apiKeys:  cfg.Gemini.APIKeys,
	}, nil
}

// Chat 은 채팅 교환 하나를 수행한다. API 호출이 실패해도 오류를 반환하지
// 않고 대체 문구가 담긴 결과를 돌려준다. 성공한 교환은 Recorder 에
// 정확히 한 번 기록된다.
func (c *Client) Chat(ctx context.Context, req Request) llm.ChatResult {
	start := time.Now()
	model := c.cfg.Gemini.Model

	client, err := c.selectClient(ctx)
	if err != nil {
		c.metrics.RecordError(time.Since(start))
		return c.fallbackResult(model, err)
	}

	genCfg := c.buildGenerateConfig(req)
	contents := buildContents(req.Messages)

	response, err := client.Models.GenerateContent(ctx, model, contents, genCfg)
	if err != nil {
		c.metrics.RecordError(time.Since(start))
		c.logger.Warn("gemini_request_failed", "model", model, "error", err)
		return c.fallbackResult(model, err)
	}

	text, finishReason := extractText(response)
	text = strings.TrimSpace(text)

	usage, ok := extractUsage(response)
	if !ok {
		usage.InputTokens = c.countTokens(ctx, client, model, joinMessageText(req.Messages))
		usage.OutputTokens = c.countTokens(ctx, client, model, text)
	}

	c.logger.Debug("gemini_response",
		"model", model,
		"finish_reason", describeFinishReason(finishReason),
		"tokens_input", usage.InputTokens,
		"tokens_output", usage.OutputTokens,
	)

	text = applyFinishReason(text, finishReason, usage.OutputTokens)
	if text == "" {
		text = emptyFallback
		usage.OutputTokens = 0
	}
	usage.TotalTokens = usage.InputTokens + usage.OutputTokens

	cost := pricing.EstimateCost(usage.InputTokens, usage.OutputTokens)
	if c.recorder != nil {
		c.recorder.RecordChat(lastUserMessage(req.Messages), text, usage.InputTokens, usage.OutputTokens, cost)
	}
	c.metrics.RecordSuccess(time.Since(start), usage, cost)

	return llm.ChatResult{
		Text:         text,
		Model:        model,
		Usage:        usage,
		Cost:         cost,
		FinishReason: string(finishReason),
	}
}

func (c *Client) fallbackResult(model string, err error) llm.ChatResult {
	return llm.ChatResult{
		Text:     fmt.Sprintf("죄송합니다. AI 서비스 오류가 발생했습니다. (%v)", err),
		Model:    model,
		Fallback: true,
	}
}

func (c *Client) selectClient(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.apiKeys) == 0 {
		return nil, ErrMissingAPIKey
	}

	key := c.apiKeys[c.apiKeyIdx%len(c.apiKeys)]
	c.apiKeyIdx++
	if client, ok := c.clients[key]; ok {
		return client, nil
	}

	timeout := time.Duration(c.cfg.Gemini.TimeoutSeconds) * time.Second
	client, err := genai.NewClient(context.WithoutCancel(ctx), &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			Timeout: genai.Ptr(timeout),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	c.clients[key] = client
	return client, nil
}

func (c *Client) buildGenerateConfig(req Request) *genai.GenerateContentConfig {
	temperature := c.cfg.Gemini.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(temperature)),
		MaxOutputTokens: int32(c.resolveMaxTokens(req.MaxTokens)),
	}
}

// resolveMaxTokens 는 요청값이 없으면 설정 기본값을, 상한 10000 을 적용한다.
func (c *Client) resolveMaxTokens(requested int) int {
	tokens := requested
	if tokens <= 0 {
		tokens = c.cfg.Gemini.MaxOutputTokens
	}
	if tokens <= 0 {
		tokens = defaultMaxOutputTokens
	}
	if tokens > maxOutputTokensCap {
		tokens = maxOutputTokensCap
	}
	return tokens
}

// countTokens 는 공식 토크나이저로 토큰 수를 계산하고, 실패하면
// 문자 수 절반 근사치로 대체한다.
func (c *Client) countTokens(ctx context.Context, client *genai.Client, model string, text string) int {
	if text == "" {
		return 0
	}
	response, err := client.Models.CountTokens(ctx, model, genai.Text(text), nil)
	if err != nil || response == nil {
		c.logger.Warn("token_count_fallback", "error", err)
		return utf8.RuneCountInString(text) / 2
	}
	return int(response.TotalTokens)
}

func buildContents(messages []llm.HistoryEntry) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, entry := range messages {
		var role genai.Role = genai.RoleUser
		if strings.EqualFold(entry.Role, "assistant") {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(entry.Content, role))
	}
	return contents
}

// applyFinishReason 은 종료 사유에 따라 응답 텍스트를 보정한다.
// MAX_TOKENS 인데 출력이 짧으면 잘림 안내를 생략한다.
func applyFinishReason(text string, reason genai.FinishReason, tokensOutput int) string {
	switch reason {
	case genai.FinishReasonMaxTokens:
		if tokensOutput >= truncationNoticeFloor {
			return text + truncationNotice
		}
		return text
	case genai.FinishReasonSafety:
		return safetyNotice
	case genai.FinishReasonRecitation:
		return recitationNotice
	case genai.FinishReasonOther:
		return text + errorNotice
	default:
		return text
	}
}

func extractText(response *genai.GenerateContentResponse) (string, genai.FinishReason) {
	if response == nil || len(response.Candidates) == 0 {
		return "", ""
	}
	candidate := response.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", candidate.FinishReason
	}

	var builder strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Text == "" || part.Thought {
			continue
		}
		builder.WriteString(part.Text)
	}
	return builder.String(), candidate.FinishReason
}

func extractUsage(response *genai.GenerateContentResponse) (llm.Usage, bool) {
	if response == nil || response.UsageMetadata == nil {
		return llm.Usage{}, false
	}
	metadata := response.UsageMetadata
	input := int(metadata.PromptTokenCount)
	output := int(metadata.CandidatesTokenCount) + int(metadata.ThoughtsTokenCount)
	return llm.Usage{
		InputTokens:  input,
		OutputTokens: output,
		TotalTokens:  int(metadata.TotalTokenCount),
	}, true
}

func joinMessageText(messages []llm.HistoryEntry) string {
	parts := make([]string, 0, len(messages))
	for _, entry := range messages {
		parts = append(parts, entry.Content)
	}
	return strings.Join(parts, " ")
}

func lastUserMessage(messages []llm.HistoryEntry) string {
	if len(messages) == 0 {
		return ""
	}
	return messages[len(messages)-1].Content
}

func describeFinishReason(reason genai.FinishReason) string {
	switch reason {
	case genai.FinishReasonStop:
		return "정상 완료"
	case genai.FinishReasonMaxTokens:
		return "MAX_TOKENS (최대 토큰 수 도달)"
	case genai.FinishReasonSafety:
		return "SAFETY (안전성 위반)"
	case genai.FinishReasonRecitation:
		return "RECITATION (복사/붙여넣기 감지)"
	case genai.FinishReasonOther:
		return "기타 오류"
	case genai.FinishReasonUnspecified, "":
		return "미지정"
	default:
		return string(reason)
	}
}
