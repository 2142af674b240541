package gemini

import (
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/park285/llm-chat-server-go/internal/config"
	"github.com/park285/llm-chat-server-go/internal/llm"
)

func TestBuildContents(t *testing.T) {
	messages := []llm.HistoryEntry{
		{Role: "assistant", Content: "A1"},
		{Role: "user", Content: "Q1"},
		{Role: "SYSTEM", Content: "SYS"},
	}
	contents := buildContents(messages)
	if len(contents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(contents))
	}
	if contents[0].Role != string(genai.RoleModel) {
		t.Fatalf("expected model role, got %s", contents[0].Role)
	}
	if contents[0].Parts[0].Text != "A1" {
		t.Fatalf("expected A1, got %s", contents[0].Parts[0].Text)
	}
	if contents[1].Role != string(genai.RoleUser) {
		t.Fatalf("expected user role, got %s", contents[1].Role)
	}
	if contents[2].Role != string(genai.RoleUser) {
		t.Fatalf("expected user role for system, got %s", contents[2].Role)
	}
}

func TestResolveMaxTokens(t *testing.T) {
	cfg := &config.Config{Gemini: config.GeminiConfig{MaxOutputTokens: 1024}}
	client := &Client{cfg: cfg}

	if got := client.resolveMaxTokens(0); got != 1024 {
		t.Fatalf("expected config default 1024, got %d", got)
	}
	if got := client.resolveMaxTokens(256); got != 256 {
		t.Fatalf("expected requested 256, got %d", got)
	}
	if got := client.resolveMaxTokens(99999); got != maxOutputTokensCap {
		t.Fatalf("expected cap %d, got %d", maxOutputTokensCap, got)
	}

	emptyClient := &Client{cfg: &config.Config{}}
	if got := emptyClient.resolveMaxTokens(0); got != defaultMaxOutputTokens {
		t.Fatalf("expected fallback default %d, got %d", defaultMaxOutputTokens, got)
	}
}

func TestApplyFinishReason(t *testing.T) {
	if got := applyFinishReason("long answer", genai.FinishReasonMaxTokens, 50); !strings.HasSuffix(got, truncationNotice) {
		t.Fatalf("expected truncation notice, got %q", got)
	}
	if got := applyFinishReason("short", genai.FinishReasonMaxTokens, 49); got != "short" {
		t.Fatalf("expected short output untouched, got %q", got)
	}
	if got := applyFinishReason("anything", genai.FinishReasonSafety, 10); got != safetyNotice {
		t.Fatalf("expected safety replacement, got %q", got)
	}
	if got := applyFinishReason("anything", genai.FinishReasonRecitation, 10); got != recitationNotice {
		t.Fatalf("expected recitation replacement, got %q", got)
	}
	if got := applyFinishReason("partial", genai.FinishReasonOther, 10); got != "partial"+errorNotice {
		t.Fatalf("expected error notice appended, got %q", got)
	}
	if got := applyFinishReason("ok", genai.FinishReasonStop, 10); got != "ok" {
		t.Fatalf("expected stop untouched, got %q", got)
	}
}

func TestExtractText(t *testing.T) {
	text, reason := extractText(nil)
	if text != "" || reason != "" {
		t.Fatalf("expected empty result for nil response")
	}

	response := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				FinishReason: genai.FinishReasonStop,
				Content: &genai.Content{
					Parts: []*genai.Part{
						{Text: "안녕"},
						{Text: "추론", Thought: true},
						{Text: ""},
						nil,
						{Text: "하세요"},
					},
				},
			},
		},
	}
	text, reason = extractText(response)
	if text != "안녕하세요" {
		t.Fatalf("unexpected text: %q", text)
	}
	if reason != genai.FinishReasonStop {
		t.Fatalf("unexpected finish reason: %s", reason)
	}
}

func TestExtractUsage(t *testing.T) {
	response := &genai.GenerateContentResponse{
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     10,
			CandidatesTokenCount: 20,
			ThoughtsTokenCount:   3,
			TotalTokenCount:      33,
		},
	}
	usage, ok := extractUsage(response)
	if !ok {
		t.Fatalf("expected usage metadata")
	}
	if usage.InputTokens != 10 {
		t.Fatalf("unexpected input tokens: %d", usage.InputTokens)
	}
	if usage.OutputTokens != 23 {
		t.Fatalf("unexpected output tokens: %d", usage.OutputTokens)
	}

	if _, ok := extractUsage(&genai.GenerateContentResponse{}); ok {
		t.Fatalf("expected missing usage metadata")
	}
}

func TestJoinMessageText(t *testing.T) {
	messages := []llm.HistoryEntry{
		{Role: "user", Content: "첫 질문"},
		{Role: "assistant", Content: "첫 답변"},
	}
	if got := joinMessageText(messages); got != "첫 질문 첫 답변" {
		t.Fatalf("unexpected joined text: %q", got)
	}
}

func TestLastUserMessage(t *testing.T) {
	if got := lastUserMessage(nil); got != "" {
		t.Fatalf("expected empty for no messages, got %q", got)
	}
	messages := []llm.HistoryEntry{
		{Role: "user", Content: "처음"},
		{Role: "user", Content: "마지막"},
	}
	if got := lastUserMessage(messages); got != "마지막" {
		t.Fatalf("expected last content, got %q", got)
	}
}
