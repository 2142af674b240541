package usage

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/park285/llm-chat-server-go/internal/config"
	"github.com/park285/llm-chat-server-go/internal/money"
)

// statsRecord 는 통계 싱글턴 행이다. 항상 id=1 하나만 존재한다.
type statsRecord struct {
	ID                int64      `gorm:"column:id;primaryKey"`
	TotalRequests     int64      `gorm:"column:total_requests"`
	TotalTokensInput  int64      `gorm:"column:total_tokens_input"`
	TotalTokensOutput int64      `gorm:"column:total_tokens_output"`
	TotalCostMicros   int64      `gorm:"column:total_cost_micros"`
	RequestsToday     int64      `gorm:"column:requests_today"`
	TokensToday       int64      `gorm:"column:tokens_today"`
	CostTodayMicros   int64      `gorm:"column:cost_today_micros"`
	LastRequestTime   *time.Time `gorm:"column:last_request_time"`
}

// TableName 은 GORM에서 사용할 테이블명을 반환한다.
func (statsRecord) TableName() string {
	return "usage_stats"
}

// historyRecord 는 트랜스크립트 항목 행이다.
type historyRecord struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Timestamp        time.Time `gorm:"column:timestamp;index"`
	UserMessage      string    `gorm:"column:user_message"`
	AssistantMessage string    `gorm:"column:assistant_message"`
	TokensUsed       int64     `gorm:"column:tokens_used"`
	CostMicros       int64     `gorm:"column:cost_micros"`
}

// TableName 은 GORM에서 사용할 테이블명을 반환한다.
func (historyRecord) TableName() string {
	return "chat_history"
}

// Repository 는 PostgreSQL 기반 문서 저장소다. FileStore 와 같은 계약을
// 따른다: 로드 실패는 기본값으로 대체하고, 저장은 문서 전체를 교체한다.
// STORAGE_BACKEND=postgres 일 때 선택된다.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewRepository 는 DB에 연결하고 스키마를 준비한 저장소를 생성한다.
func NewRepository(cfg *config.Config, logger *slog.Logger) (*Repository, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&statsRecord{}, &historyRecord{}); err != nil {
		return nil, fmt.Errorf("migrate usage schema: %w", err)
	}

	return &Repository{db: db, logger: logger}, nil
}

// LoadStats 는 통계 행을 읽는다. 부재/오류 시 0 값으로 대체한다.
func (r *Repository) LoadStats() UsageStats {
	var row statsRecord
	result := r.db.First(&row, 1)
	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			r.logger.Warn("usage_stats_load_failed", "err", result.Error)
		}
		return UsageStats{}
	}

	return UsageStats{
		TotalRequests:     row.TotalRequests,
		TotalTokensInput:  row.TotalTokensInput,
		TotalTokensOutput: row.TotalTokensOutput,
		TotalCost:         money.FromMicros(row.TotalCostMicros),
		RequestsToday:     row.RequestsToday,
		TokensToday:       row.TokensToday,
		CostToday:         money.FromMicros(row.CostTodayMicros),
		LastRequestTime:   row.LastRequestTime,
	}
}

// LoadHistory 는 히스토리 행을 시간순으로 읽는다. 오류 시 빈 목록으로 대체한다.
func (r *Repository) LoadHistory() []ChatHistoryItem {
	var rows []historyRecord
	if err := r.db.Order("timestamp asc, id asc").Find(&rows).Error; err != nil {
		r.logger.Warn("chat_history_load_failed", "err", err)
		return nil
	}

	items := make([]ChatHistoryItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, ChatHistoryItem{
			Timestamp:        row.Timestamp,
			UserMessage:      row.UserMessage,
			AssistantMessage: row.AssistantMessage,
			TokensUsed:       row.TokensUsed,
			Cost:             money.FromMicros(row.CostMicros),
		})
	}
	return items
}

// SaveStats 는 통계 싱글턴 행을 덮어쓴다.
func (r *Repository) SaveStats(stats UsageStats) error {
	row := statsRecord{
		ID:                1,
		TotalRequests:     stats.TotalRequests,
		TotalTokensInput:  stats.TotalTokensInput,
		TotalTokensOutput: stats.TotalTokensOutput,
		TotalCostMicros:   stats.TotalCost.Micros(),
		RequestsToday:     stats.RequestsToday,
		TokensToday:       stats.TokensToday,
		CostTodayMicros:   stats.CostToday.Micros(),
		LastRequestTime:   stats.LastRequestTime,
	}
	if err := r.db.Save(&row).Error; err != nil {
		return fmt.Errorf("save stats row: %w", err)
	}
	return nil
}

// SaveHistory 는 히스토리 테이블을 문서 교체 의미론으로 다시 쓴다.
// 행이 최대 100개이므로 전체 교체 비용은 무시할 수 있다.
func (r *Repository) SaveHistory(items []ChatHistoryItem) error {
	rows := make([]historyRecord, 0, len(items))
	for _, item := range items {
		rows = append(rows, historyRecord{
			Timestamp:        item.Timestamp,
			UserMessage:      item.UserMessage,
			AssistantMessage: item.AssistantMessage,
			TokensUsed:       item.TokensUsed,
			CostMicros:       item.Cost.Micros(),
		})
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&historyRecord{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("replace history rows: %w", err)
	}
	return nil
}

// Close 는 DB 커넥션을 닫는다.
func (r *Repository) Close() {
	sqlDB, err := r.db.DB()
	if err != nil {
		return
	}
	_ = sqlDB.Close()
}
