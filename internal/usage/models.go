package usage

import (
	"time"

	"github.com/park285/llm-chat-server-go/internal/money"
)

// UsageStats 는 서비스 수명 동안 누적되는 사용량 통계 문서다.
// total_* 카운터는 명시적 리셋 전까지 단조 증가하고, *_today 카운터는
// 날짜가 바뀐 뒤 첫 접근 시점에 0으로 초기화된다.
type UsageStats struct {
	TotalRequests     int64       `json:"total_requests" mapstructure:"total_requests"`
	TotalTokensInput  int64       `json:"total_tokens_input" mapstructure:"total_tokens_input"`
	TotalTokensOutput int64       `json:"total_tokens_output" mapstructure:"total_tokens_output"`
	TotalCost         money.Money `json:"total_cost" mapstructure:"total_cost"`
	RequestsToday     int64       `json:"requests_today" mapstructure:"requests_today"`
	TokensToday       int64       `json:"tokens_today" mapstructure:"tokens_today"`
	CostToday         money.Money `json:"cost_today" mapstructure:"cost_today"`
	LastRequestTime   *time.Time  `json:"last_request_time" mapstructure:"last_request_time"`
}

// ChatHistoryItem 은 1회 교환에 대한 불변 트랜스크립트 항목이다.
type ChatHistoryItem struct {
	Timestamp        time.Time   `json:"timestamp" mapstructure:"timestamp"`
	UserMessage      string      `json:"user_message" mapstructure:"user_message"`
	AssistantMessage string      `json:"assistant_message" mapstructure:"assistant_message"`
	TokensUsed       int64       `json:"tokens_used" mapstructure:"tokens_used"`
	Cost             money.Money `json:"cost" mapstructure:"cost"`
}
