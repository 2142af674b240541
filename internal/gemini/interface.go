package gemini

import (
	"context"

	"github.com/park285/llm-chat-server-go/internal/llm"
)

// LLM 은 채팅 게이트웨이 인터페이스다.
// 테스트에서 mock 구현을 주입할 수 있도록 한다.
type LLM interface {
	// Chat 채팅 교환 수행 (실패 시 대체 문구 반환)
	Chat(ctx context.Context, req Request) llm.ChatResult
}

// Client가 LLM 인터페이스를 구현하는지 컴파일 타임 확인
var _ LLM = (*Client)(nil)
