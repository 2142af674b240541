package usage

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/park285/llm-chat-server-go/internal/config"
	"github.com/park285/llm-chat-server-go/internal/money"
)

const (
	defaultHistoryLimit = 100
	previewMaxRunes     = 100
)

// Tracker 는 사용량 통계와 트랜스크립트 히스토리를 관리하는 오케스트레이터다.
// 생성 시 저장소에서 두 문서를 한 번 로드하고, 이후 모든 연산은 인메모리
// 미러에 적용한 뒤 동기적으로 저장소에 밀어 넣는다.
//
// RecordChat/Reset 과 그 뒤의 저장 호출은 뮤텍스로 직렬화된다. 느린 원격
// 모델 호출은 이 락 바깥에서 일어나야 한다 (게이트웨이 책임).
type Tracker struct {
	mu           sync.Mutex
	store        Store
	logger       *slog.Logger
	historyLimit int

	stats   UsageStats
	history []ChatHistoryItem

	// 테스트에서 교체할 수 있는 시계
	nowFunc func() time.Time
}

// NewTracker 는 저장소에서 상태를 로드한 Tracker 를 생성한다.
func NewTracker(cfg *config.Config, store Store, logger *slog.Logger) *Tracker {
	limit := defaultHistoryLimit
	if cfg != nil && cfg.Storage.HistoryLimit > 0 {
		limit = cfg.Storage.HistoryLimit
	}

	tracker := &Tracker{
		store:        store,
		logger:       logger,
		historyLimit: limit,
		nowFunc:      time.Now,
	}
	tracker.stats = store.LoadStats()
	tracker.history = store.LoadHistory()
	return tracker
}

// RecordChat 은 완료된 교환 1건을 기록하고 두 문서를 저장한다.
// 저장 실패는 로그만 남긴다. 인메모리 상태는 이미 전진했으므로 호출자의
// 요청을 실패시키지 않는다. 다음 저장 성공 시 디스크 상태가 따라잡는다.
func (t *Tracker) RecordChat(
	userMessage string,
	assistantMessage string,
	tokensInput int,
	tokensOutput int,
	cost money.Money,
) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.nowFunc()
	t.resetDailyLocked(now)

	if reasons := DetectAnomaly(tokensInput, tokensOutput, cost, t.history, now); len(reasons) > 0 {
		t.logger.Warn(
			"abnormal_usage_detected",
			"tokens_input", tokensInput,
			"tokens_output", tokensOutput,
			"cost", cost.String(),
			"reasons", strings.Join(reasons, "; "),
			"user_message_preview", truncatePreview(userMessage),
		)
	}

	t.stats.TotalRequests++
	t.stats.TotalTokensInput += int64(tokensInput)
	t.stats.TotalTokensOutput += int64(tokensOutput)
	t.stats.TotalCost = t.stats.TotalCost.Add(cost)

	t.stats.RequestsToday++
	t.stats.TokensToday += int64(tokensInput) + int64(tokensOutput)
	t.stats.CostToday = t.stats.CostToday.Add(cost)

	requestTime := now
	t.stats.LastRequestTime = &requestTime

	t.history = append(t.history, ChatHistoryItem{
		Timestamp:        now,
		UserMessage:      userMessage,
		AssistantMessage: assistantMessage,
		TokensUsed:       int64(tokensInput) + int64(tokensOutput),
		Cost:             cost,
	})
	if len(t.history) > t.historyLimit {
		t.history = t.history[len(t.history)-t.historyLimit:]
	}

	if err := t.store.SaveStats(t.stats); err != nil {
		t.logger.Warn("usage_stats_save_failed", "err", err)
	}
	if err := t.store.SaveHistory(t.history); err != nil {
		t.logger.Warn("chat_history_save_failed", "err", err)
	}
}

// Stats 는 일일 리셋을 적용한 뒤 현재 통계의 스냅샷을 반환한다.
func (t *Tracker) Stats() UsageStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.resetDailyLocked(t.nowFunc())

	snapshot := t.stats
	if t.stats.LastRequestTime != nil {
		requestTime := *t.stats.LastRequestTime
		snapshot.LastRequestTime = &requestTime
	}
	return snapshot
}

// History 는 최근 limit 건을 시간순(오래된 것부터)으로 반환한다.
// limit 이 음수면 0으로 보정한다.
func (t *Tracker) History(limit int) []ChatHistoryItem {
	if limit < 0 {
		limit = 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	start := len(t.history) - limit
	if start < 0 {
		start = 0
	}
	window := t.history[start:]
	items := make([]ChatHistoryItem, len(window))
	copy(items, window)
	return items
}

// Reset 은 8개 카운터를 모두 0으로 돌리고 last_request_time 을 비운 뒤
// 통계 문서만 즉시 저장한다. 히스토리는 건드리지 않는다.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats = UsageStats{}
	if err := t.store.SaveStats(t.stats); err != nil {
		t.logger.Warn("usage_stats_save_failed", "err", err)
	}
}

// Close 는 저장소를 정리한다.
func (t *Tracker) Close() {
	t.store.Close()
}

// resetDailyLocked 는 마지막 요청의 달력 날짜가 오늘보다 이전이면 *_today
// 카운터를 0으로 만든다. 날짜 비교는 UTC 기준이다. 타이머 없이 읽기/쓰기
// 시점에 게으르게 평가된다.
func (t *Tracker) resetDailyLocked(now time.Time) {
	last := t.stats.LastRequestTime
	if last != nil && !utcDateBefore(*last, now) {
		return
	}
	t.stats.RequestsToday = 0
	t.stats.TokensToday = 0
	t.stats.CostToday = money.Zero
}

// utcDateBefore 는 a 의 UTC 달력 날짜가 b 보다 엄격히 이전인지 반환한다.
func utcDateBefore(a time.Time, b time.Time) bool {
	aDate := a.UTC().Truncate(24 * time.Hour)
	bDate := b.UTC().Truncate(24 * time.Hour)
	return aDate.Before(bDate)
}

func truncatePreview(message string) string {
	runes := []rune(message)
	if len(runes) <= previewMaxRunes {
		return message
	}
	return string(runes[:previewMaxRunes]) + "..."
}
