package usage

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/park285/llm-chat-server-go/internal/config"
	"github.com/park285/llm-chat-server-go/internal/money"
)

type fakeStore struct {
	stats      UsageStats
	history    []ChatHistoryItem
	saveErr    error
	statsSaves int
	histSaves  int
}

func (f *fakeStore) LoadStats() UsageStats          { return f.stats }
func (f *fakeStore) LoadHistory() []ChatHistoryItem { return f.history }
func (f *fakeStore) SaveStats(stats UsageStats) error {
	f.statsSaves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.stats = stats
	return nil
}
func (f *fakeStore) SaveHistory(items []ChatHistoryItem) error {
	f.histSaves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.history = items
	return nil
}
func (f *fakeStore) Close() {}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func newTestTracker(t *testing.T, store Store) *Tracker {
	t.Helper()
	return NewTracker(&config.Config{}, store, testLogger())
}

func TestRecordChatAccumulates(t *testing.T) {
	store := &fakeStore{}
	tracker := newTestTracker(t, store)

	pairs := [][2]int{{5, 3}, {100, 200}, {7, 0}}
	wantInput, wantOutput := int64(0), int64(0)
	wantCost := money.Zero
	for _, pair := range pairs {
		cost := money.FromMicros(int64(pair[0] + pair[1]))
		tracker.RecordChat("question", "answer", pair[0], pair[1], cost)
		wantInput += int64(pair[0])
		wantOutput += int64(pair[1])
		wantCost = wantCost.Add(cost)
	}

	stats := tracker.Stats()
	if stats.TotalRequests != int64(len(pairs)) {
		t.Fatalf("unexpected total_requests: %d", stats.TotalRequests)
	}
	if stats.TotalTokensInput != wantInput || stats.TotalTokensOutput != wantOutput {
		t.Fatalf("unexpected token totals: %d/%d", stats.TotalTokensInput, stats.TotalTokensOutput)
	}
	if stats.TotalCost != wantCost {
		t.Fatalf("unexpected total_cost: %s", stats.TotalCost)
	}
	if stats.RequestsToday != int64(len(pairs)) {
		t.Fatalf("unexpected requests_today: %d", stats.RequestsToday)
	}
	if stats.LastRequestTime == nil {
		t.Fatalf("expected last_request_time to be set")
	}
	if store.statsSaves != len(pairs) || store.histSaves != len(pairs) {
		t.Fatalf("unexpected save counts: %d/%d", store.statsSaves, store.histSaves)
	}
}

func TestRecordChatSingleExchange(t *testing.T) {
	tracker := newTestTracker(t, &fakeStore{})
	tracker.RecordChat("hi", "hello", 5, 3, money.FromMicros(2))

	stats := tracker.Stats()
	if stats.TotalRequests != 1 || stats.TotalTokensInput != 5 || stats.TotalTokensOutput != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.TotalCost.Micros() != 2 {
		t.Fatalf("unexpected cost: %s", stats.TotalCost)
	}
	if stats.TokensToday != 8 {
		t.Fatalf("unexpected tokens_today: %d", stats.TokensToday)
	}

	history := tracker.History(10)
	if len(history) != 1 {
		t.Fatalf("unexpected history length: %d", len(history))
	}
	if history[0].UserMessage != "hi" || history[0].AssistantMessage != "hello" {
		t.Fatalf("unexpected history item: %+v", history[0])
	}
	if history[0].TokensUsed != 8 {
		t.Fatalf("unexpected tokens_used: %d", history[0].TokensUsed)
	}
}

func TestHistoryCap(t *testing.T) {
	tracker := newTestTracker(t, &fakeStore{})
	for i := 0; i < 150; i++ {
		tracker.RecordChat("msg", "reply", i, 0, money.Zero)
	}

	history := tracker.History(1000)
	if len(history) != defaultHistoryLimit {
		t.Fatalf("unexpected history length: %d", len(history))
	}
	// 가장 오래된 항목은 51번째 교환(입력 토큰 50)이어야 한다
	if history[0].TokensUsed != 50 {
		t.Fatalf("unexpected oldest item tokens: %d", history[0].TokensUsed)
	}
	if history[len(history)-1].TokensUsed != 149 {
		t.Fatalf("unexpected newest item tokens: %d", history[len(history)-1].TokensUsed)
	}
	for i := 1; i < len(history); i++ {
		if history[i].Timestamp.Before(history[i-1].Timestamp) {
			t.Fatalf("history not in chronological order at %d", i)
		}
	}
}

func TestHistoryLimitClamped(t *testing.T) {
	tracker := newTestTracker(t, &fakeStore{})
	tracker.RecordChat("msg", "reply", 1, 1, money.Zero)

	if items := tracker.History(-5); len(items) != 0 {
		t.Fatalf("expected empty history for negative limit, got %d", len(items))
	}
	if items := tracker.History(0); len(items) != 0 {
		t.Fatalf("expected empty history for zero limit, got %d", len(items))
	}
}

func TestDailyResetOnRead(t *testing.T) {
	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	store := &fakeStore{stats: UsageStats{
		TotalRequests:   10,
		RequestsToday:   4,
		TokensToday:     123,
		CostToday:       money.FromMicros(500),
		LastRequestTime: &yesterday,
	}}
	tracker := newTestTracker(t, store)

	stats := tracker.Stats()
	if stats.RequestsToday != 0 || stats.TokensToday != 0 || !stats.CostToday.IsZero() {
		t.Fatalf("expected today counters reset, got %+v", stats)
	}
	if stats.TotalRequests != 10 {
		t.Fatalf("total counters must survive daily reset: %d", stats.TotalRequests)
	}
}

func TestDailyResetOnWrite(t *testing.T) {
	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	store := &fakeStore{stats: UsageStats{
		TotalRequests:   10,
		RequestsToday:   4,
		TokensToday:     123,
		CostToday:       money.FromMicros(500),
		LastRequestTime: &yesterday,
	}}
	tracker := newTestTracker(t, store)

	tracker.RecordChat("new day", "reply", 2, 3, money.FromMicros(1))

	stats := tracker.Stats()
	if stats.RequestsToday != 1 {
		t.Fatalf("expected requests_today=1 after reset+record, got %d", stats.RequestsToday)
	}
	if stats.TokensToday != 5 {
		t.Fatalf("expected tokens_today=5, got %d", stats.TokensToday)
	}
	if stats.CostToday.Micros() != 1 {
		t.Fatalf("expected cost_today=1µ, got %s", stats.CostToday)
	}
	if stats.TotalRequests != 11 {
		t.Fatalf("expected total_requests=11, got %d", stats.TotalRequests)
	}
}

func TestSameDayNoReset(t *testing.T) {
	store := &fakeStore{}
	tracker := newTestTracker(t, store)
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	tracker.nowFunc = func() time.Time { return base }
	tracker.RecordChat("a", "b", 1, 1, money.Zero)

	tracker.nowFunc = func() time.Time { return base.Add(5 * time.Hour) }
	tracker.RecordChat("c", "d", 1, 1, money.Zero)

	if stats := tracker.Stats(); stats.RequestsToday != 2 {
		t.Fatalf("expected requests_today=2 within same day, got %d", stats.RequestsToday)
	}

	tracker.nowFunc = func() time.Time { return base.Add(24 * time.Hour) }
	if stats := tracker.Stats(); stats.RequestsToday != 0 {
		t.Fatalf("expected reset after midnight, got %d", stats.RequestsToday)
	}
}

func TestResetClearsStatsKeepsHistory(t *testing.T) {
	store := &fakeStore{}
	tracker := newTestTracker(t, store)
	for i := 0; i < 5; i++ {
		tracker.RecordChat("msg", "reply", 10, 20, money.FromMicros(3))
	}

	tracker.Reset()

	stats := tracker.Stats()
	if stats.TotalRequests != 0 || stats.TotalTokensInput != 0 || stats.TotalTokensOutput != 0 ||
		!stats.TotalCost.IsZero() || stats.RequestsToday != 0 || stats.TokensToday != 0 ||
		!stats.CostToday.IsZero() {
		t.Fatalf("expected zeroed stats, got %+v", stats)
	}
	if stats.LastRequestTime != nil {
		t.Fatalf("expected last_request_time cleared")
	}
	if history := tracker.History(100); len(history) != 5 {
		t.Fatalf("reset must not touch history, got %d items", len(history))
	}
}

func TestRecordChatSurvivesSaveFailure(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("disk full")}
	tracker := newTestTracker(t, store)

	tracker.RecordChat("msg", "reply", 5, 3, money.FromMicros(1))

	// 저장 실패에도 인메모리 상태는 전진한 채 유지된다
	stats := tracker.Stats()
	if stats.TotalRequests != 1 {
		t.Fatalf("expected in-memory state to advance, got %+v", stats)
	}
	if len(tracker.History(10)) != 1 {
		t.Fatalf("expected history to advance despite save failure")
	}
}

func TestTruncatePreview(t *testing.T) {
	short := "짧은 메시지"
	if got := truncatePreview(short); got != short {
		t.Fatalf("short message must not be truncated: %q", got)
	}

	long := ""
	for i := 0; i < 150; i++ {
		long += "가"
	}
	got := truncatePreview(long)
	if len([]rune(got)) != previewMaxRunes+3 {
		t.Fatalf("unexpected preview length: %d", len([]rune(got)))
	}
}
