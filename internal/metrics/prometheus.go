package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chatCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "llm_chat_calls_total",
		Help: "Number of Gemini chat calls",
	})
	chatErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "llm_chat_errors_total",
		Help: "Number of failed Gemini chat calls",
	})
	chatInputTokens = promauto.NewCounter(prometheus.CounterOpts{
		Name: "llm_chat_input_tokens_total",
		Help: "Input tokens consumed by chat calls",
	})
	chatOutputTokens = promauto.NewCounter(prometheus.CounterOpts{
		Name: "llm_chat_output_tokens_total",
		Help: "Output tokens produced by chat calls",
	})
	chatCostUSD = promauto.NewCounter(prometheus.CounterOpts{
		Name: "llm_chat_cost_usd_total",
		Help: "Estimated chat cost in USD",
	})
	chatDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "llm_chat_duration_seconds",
		Help:    "Time spent on Gemini chat calls",
		Buckets: prometheus.DefBuckets,
	})
)
