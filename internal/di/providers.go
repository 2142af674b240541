package di

import (
	"fmt"
	"log/slog"

	"github.com/park285/llm-chat-server-go/internal/config"
	"github.com/park285/llm-chat-server-go/internal/logging"
	"github.com/park285/llm-chat-server-go/internal/usage"
)

const defaultStaticDir = "static"

// ProvideLogger: 로거를 구성해 반환합니다.
func ProvideLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

// ProvideStore: 설정된 백엔드에 맞는 사용량 저장소를 반환합니다.
func ProvideStore(cfg *config.Config, logger *slog.Logger) (usage.Store, error) {
	if cfg.Storage.UsePostgres() {
		return usage.NewRepository(cfg, logger)
	}
	return usage.NewFileStore(cfg.Storage.DataDir, logger)
}

// ProvideStaticDir: 대시보드 정적 파일 디렉터리를 반환합니다.
func ProvideStaticDir() string {
	return defaultStaticDir
}
