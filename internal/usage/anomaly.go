package usage

import (
	"fmt"
	"time"

	"github.com/park285/llm-chat-server-go/internal/money"
)

// 비정상 사용량 판정 임계값. 경계는 초과(exclusive-above)로 해석한다.
const (
	anomalyMaxTokensInput  = 10_000
	anomalyMaxTokensOutput = 20_000
	anomalyBurstWindow     = time.Minute
	anomalyBurstLimit      = 10
)

// anomalyMaxCost 는 1회 교환의 비용 상한이다 ($1.00).
var anomalyMaxCost = money.FromMicros(1_000_000)

// DetectAnomaly 는 1회 교환과 최근 히스토리를 보고 비정상 사유 목록을 반환한다.
// 빈 목록이면 정상이다. 관측 전용 판정이며 요청을 차단하지 않는다.
func DetectAnomaly(
	tokensInput int,
	tokensOutput int,
	cost money.Money,
	history []ChatHistoryItem,
	now time.Time,
) []string {
	var reasons []string

	if tokensInput > anomalyMaxTokensInput {
		reasons = append(reasons, fmt.Sprintf("tokens_input %d > %d", tokensInput, anomalyMaxTokensInput))
	}
	if tokensOutput > anomalyMaxTokensOutput {
		reasons = append(reasons, fmt.Sprintf("tokens_output %d > %d", tokensOutput, anomalyMaxTokensOutput))
	}
	if cost.GreaterThan(anomalyMaxCost) {
		reasons = append(reasons, fmt.Sprintf("cost %s > %s", cost, anomalyMaxCost))
	}

	if recent := countRecent(history, now); recent > anomalyBurstLimit {
		reasons = append(reasons, fmt.Sprintf("burst %d requests in %s", recent, anomalyBurstWindow))
	}

	return reasons
}

func countRecent(history []ChatHistoryItem, now time.Time) int {
	count := 0
	for _, item := range history {
		elapsed := now.Sub(item.Timestamp)
		if elapsed >= 0 && elapsed < anomalyBurstWindow {
			count++
		}
	}
	return count
}
