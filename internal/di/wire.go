//go:build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/park285/llm-chat-server-go/internal/config"
	"github.com/park285/llm-chat-server-go/internal/domain/ragtest"
	"github.com/park285/llm-chat-server-go/internal/gemini"
	"github.com/park285/llm-chat-server-go/internal/guard"
	"github.com/park285/llm-chat-server-go/internal/handler"
	"github.com/park285/llm-chat-server-go/internal/metrics"
	"github.com/park285/llm-chat-server-go/internal/server"
	"github.com/park285/llm-chat-server-go/internal/usage"
)

func InitializeApp() (*App, error) {
	wire.Build(
		config.ProvideConfig,
		ProvideLogger,
		ProvideStore,
		ProvideStaticDir,
		metrics.NewStore,
		usage.NewTracker,
		wire.Bind(new(gemini.Recorder), new(*usage.Tracker)),
		gemini.NewClient,
		wire.Bind(new(gemini.LLM), new(*gemini.Client)),
		guard.NewGuard,
		wire.Bind(new(guard.Guard), new(*guard.ProfanityGuard)),
		ragtest.NewPrompts,
		handler.NewChatHandler,
		handler.NewUsageHandler,
		handler.NewRagTestHandler,
		handler.NewRouter,
		server.NewHTTPServer,
		NewApp,
	)
	return nil, nil
}
