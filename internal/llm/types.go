package llm

import "github.com/park285/llm-chat-server-go/internal/money"

// HistoryEntry: 대화 히스토리 항목입니다.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage: 토큰 사용량 정보를 담습니다.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// ChatResult: LLM 응답과 사용량, 비용을 담습니다.
type ChatResult struct {
	Text         string
	Model        string
	Usage        Usage
	Cost         money.Money
	FinishReason string
	// Fallback 은 API 오류로 대체 문구를 반환한 경우 true 다.
	Fallback bool
}
