package usage

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"

	"github.com/park285/llm-chat-server-go/internal/money"
)

const (
	statsFileName   = "usage_stats.json"
	historyFileName = "chat_history.json"
)

// FileStore 는 JSON 파일 기반 문서 저장소다.
// 상태가 작으므로(카운터 몇 개 + 캡이 적용된 히스토리) 쓰기마다 문서 전체를
// temp-then-rename 으로 교체한다. 쓰기 도중 크래시가 나도 잘린 문서가 읽히지 않는다.
type FileStore struct {
	statsPath   string
	historyPath string
	logger      *slog.Logger
}

// NewFileStore 는 dataDir 아래에 문서 파일을 두는 저장소를 생성한다.
func NewFileStore(dataDir string, logger *slog.Logger) (*FileStore, error) {
	if dataDir == "" {
		return nil, errors.New("data dir is empty")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{
		statsPath:   filepath.Join(dataDir, statsFileName),
		historyPath: filepath.Join(dataDir, historyFileName),
		logger:      logger,
	}, nil
}

// LoadStats 는 통계 문서를 읽는다. 부재/손상 시 0 값으로 대체한다.
func (s *FileStore) LoadStats() UsageStats {
	data, ok := s.readDocument(s.statsPath)
	if !ok {
		return UsageStats{}
	}

	stats, err := decodeStatsDocument(data)
	if err != nil {
		s.logger.Warn("usage_stats_document_invalid", "path", s.statsPath, "err", err)
		return UsageStats{}
	}
	return stats
}

// LoadHistory 는 히스토리 문서를 읽는다. 부재/손상 시 빈 목록으로 대체한다.
func (s *FileStore) LoadHistory() []ChatHistoryItem {
	data, ok := s.readDocument(s.historyPath)
	if !ok {
		return nil
	}

	items, err := decodeHistoryDocument(data)
	if err != nil {
		s.logger.Warn("chat_history_document_invalid", "path", s.historyPath, "err", err)
		return nil
	}
	return items
}

// SaveStats 는 통계 문서를 원자적으로 덮어쓴다.
func (s *FileStore) SaveStats(stats UsageStats) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	return writeAtomic(s.statsPath, data)
}

// SaveHistory 는 히스토리 문서를 원자적으로 덮어쓴다.
func (s *FileStore) SaveHistory(items []ChatHistoryItem) error {
	if items == nil {
		items = []ChatHistoryItem{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return writeAtomic(s.historyPath, data)
}

// Close 는 FileStore 에서는 할 일이 없다.
func (s *FileStore) Close() {}

func (s *FileStore) readDocument(path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false
	}
	if err != nil {
		s.logger.Warn("usage_document_read_failed", "path", path, "err", err)
		return nil, false
	}
	return data, true
}

// decodeStatsDocument 는 비정형 JSON 문서를 UsageStats 로 강제 변환한다.
// 약한 타입 입력(숫자 문자열 등)을 허용하고, 실패 시 사유가 담긴 오류를 반환해
// 호출 측이 기본값으로 대체하며 로그로 남길 수 있게 한다.
func decodeStatsDocument(data []byte) (UsageStats, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return UsageStats{}, fmt.Errorf("parse stats json: %w", err)
	}

	var stats UsageStats
	if err := decodeDocument(raw, &stats); err != nil {
		return UsageStats{}, fmt.Errorf("coerce stats document: %w", err)
	}
	return stats, nil
}

// decodeHistoryDocument 는 비정형 JSON 배열을 히스토리 목록으로 강제 변환한다.
func decodeHistoryDocument(data []byte) ([]ChatHistoryItem, error) {
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse history json: %w", err)
	}

	items := make([]ChatHistoryItem, 0, len(raw))
	for index, entry := range raw {
		var item ChatHistoryItem
		if err := decodeDocument(entry, &item); err != nil {
			return nil, fmt.Errorf("coerce history item %d: %w", index, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func decodeDocument(input map[string]any, result any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           result,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
			moneyDecodeHook,
		),
	})
	if err != nil {
		return fmt.Errorf("new decoder: %w", err)
	}
	return decoder.Decode(input)
}

var moneyType = reflect.TypeOf(money.Money(0))

// moneyDecodeHook 은 JSON 십진수(float64) 또는 문자열을 Money 로 변환한다.
func moneyDecodeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != moneyType {
		return data, nil
	}
	switch value := data.(type) {
	case float64:
		return money.FromFloat(value), nil
	case int:
		return money.FromFloat(float64(value)), nil
	case int64:
		return money.FromFloat(float64(value)), nil
	case string:
		var parsed money.Money
		if err := parsed.UnmarshalJSON([]byte(value)); err != nil {
			return nil, err
		}
		return parsed, nil
	default:
		return data, nil
	}
}

// writeAtomic 은 같은 디렉터리의 임시 파일에 쓴 뒤 rename 으로 교체한다.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}
