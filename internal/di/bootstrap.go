package di

import (
	"fmt"

	"github.com/park285/llm-chat-server-go/internal/config"
	"github.com/park285/llm-chat-server-go/internal/domain/ragtest"
	"github.com/park285/llm-chat-server-go/internal/gemini"
	"github.com/park285/llm-chat-server-go/internal/guard"
	"github.com/park285/llm-chat-server-go/internal/handler"
	"github.com/park285/llm-chat-server-go/internal/metrics"
	"github.com/park285/llm-chat-server-go/internal/server"
	"github.com/park285/llm-chat-server-go/internal/usage"
)

// InitializeApp 은 애플리케이션 의존성을 초기화하고 App 인스턴스를 반환한다.
func InitializeApp() (*App, error) {
	cfg, err := config.ProvideConfig()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	metricsStore := metrics.NewStore()

	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	store, err := ProvideStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("usage store: %w", err)
	}
	tracker := usage.NewTracker(cfg, store, logger)

	geminiClient, err := gemini.NewClient(cfg, logger, metricsStore, tracker)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	profanityGuard, err := guard.NewGuard(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("guard: %w", err)
	}

	prompts, err := ragtest.NewPrompts()
	if err != nil {
		return nil, fmt.Errorf("ragtest prompts: %w", err)
	}

	chatHandler := handler.NewChatHandler(cfg, geminiClient, logger)
	usageHandler := handler.NewUsageHandler(tracker, logger)
	ragTestHandler := handler.NewRagTestHandler(geminiClient, profanityGuard, prompts, logger)

	router := handler.NewRouter(cfg, logger, metricsStore, chatHandler, usageHandler, ragTestHandler, ProvideStaticDir())
	httpServer := server.NewHTTPServer(cfg, router)

	return NewApp(httpServer, logger, cfg, tracker), nil
}
