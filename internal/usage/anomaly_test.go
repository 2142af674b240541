package usage

import (
	"testing"
	"time"

	"github.com/park285/llm-chat-server-go/internal/money"
)

func TestDetectAnomalyTokenBoundaries(t *testing.T) {
	now := time.Now()

	if reasons := DetectAnomaly(10_000, 0, money.Zero, nil, now); len(reasons) != 0 {
		t.Fatalf("10000 input tokens must not be abnormal: %v", reasons)
	}
	if reasons := DetectAnomaly(10_001, 0, money.Zero, nil, now); len(reasons) == 0 {
		t.Fatalf("10001 input tokens must be abnormal")
	}

	if reasons := DetectAnomaly(0, 20_000, money.Zero, nil, now); len(reasons) != 0 {
		t.Fatalf("20000 output tokens must not be abnormal: %v", reasons)
	}
	if reasons := DetectAnomaly(0, 20_001, money.Zero, nil, now); len(reasons) == 0 {
		t.Fatalf("20001 output tokens must be abnormal")
	}
}

func TestDetectAnomalyCostBoundary(t *testing.T) {
	now := time.Now()

	oneDollar := money.FromMicros(1_000_000)
	if reasons := DetectAnomaly(1, 1, oneDollar, nil, now); len(reasons) != 0 {
		t.Fatalf("$1.00 must not be abnormal: %v", reasons)
	}

	overDollar := money.FromMicros(1_010_000)
	if reasons := DetectAnomaly(1, 1, overDollar, nil, now); len(reasons) == 0 {
		t.Fatalf("$1.01 must be abnormal")
	}
}

func TestDetectAnomalyBurst(t *testing.T) {
	now := time.Now()

	buildHistory := func(count int) []ChatHistoryItem {
		items := make([]ChatHistoryItem, 0, count)
		for i := 0; i < count; i++ {
			items = append(items, ChatHistoryItem{Timestamp: now.Add(-time.Duration(i) * time.Second)})
		}
		return items
	}

	if reasons := DetectAnomaly(1, 1, money.Zero, buildHistory(10), now); len(reasons) != 0 {
		t.Fatalf("10 recent requests must not be abnormal: %v", reasons)
	}
	if reasons := DetectAnomaly(1, 1, money.Zero, buildHistory(11), now); len(reasons) == 0 {
		t.Fatalf("11 recent requests must be abnormal")
	}
}

func TestDetectAnomalyIgnoresOldEntries(t *testing.T) {
	now := time.Now()
	items := make([]ChatHistoryItem, 0, 20)
	for i := 0; i < 20; i++ {
		items = append(items, ChatHistoryItem{Timestamp: now.Add(-2 * time.Minute)})
	}

	if reasons := DetectAnomaly(1, 1, money.Zero, items, now); len(reasons) != 0 {
		t.Fatalf("entries outside the window must not count: %v", reasons)
	}
}

func TestDetectAnomalyMultipleReasons(t *testing.T) {
	now := time.Now()
	reasons := DetectAnomaly(20_000, 30_000, money.FromMicros(2_000_000), nil, now)
	if len(reasons) != 3 {
		t.Fatalf("expected 3 reasons, got %v", reasons)
	}
}
