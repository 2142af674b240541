// Package pricing 은 토큰 수 기반 비용 추정을 담당한다.
package pricing

import "github.com/park285/llm-chat-server-go/internal/money"

// Gemini 2.0 Flash 단가 (USD / 1K tokens).
// 토큰당 나노 USD 로 환산해 정수 연산만으로 비용을 계산한다.
//
//	입력: $0.000075 / 1K = 75 nanoUSD/token
//	출력: $0.0003   / 1K = 300 nanoUSD/token
const (
	inputNanosPerToken  = 75
	outputNanosPerToken = 300
	nanosPerMicro       = 1000
)

// EstimateCost 는 입력/출력 토큰 수로 비용을 추정한다.
// 결과는 마이크로 USD 로 반올림(half-up)되며, 소수점 6자리 고정이므로
// 원본의 round(x, 6)과 동일하다. 음수 입력은 0으로 취급한다.
func EstimateCost(tokensInput int, tokensOutput int) money.Money {
	if tokensInput < 0 {
		tokensInput = 0
	}
	if tokensOutput < 0 {
		tokensOutput = 0
	}

	nanos := int64(tokensInput)*inputNanosPerToken + int64(tokensOutput)*outputNanosPerToken
	micros := (nanos + nanosPerMicro/2) / nanosPerMicro
	return money.FromMicros(micros)
}
