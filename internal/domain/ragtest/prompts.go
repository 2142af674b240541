package ragtest

import (
	"embed"
	"fmt"

	"github.com/park285/llm-chat-server-go/internal/prompt"
)

//go:embed prompts/*.yml
var promptsFS embed.FS

// Prompts 는 RAG 프롬프트 실험용 프롬프트 모음이다.
type Prompts struct {
	prompts map[string]map[string]string
}

// NewPrompts 는 ragtest 프롬프트를 로드한다.
func NewPrompts() (*Prompts, error) {
	loaded, err := prompt.LoadYAMLDir(promptsFS, "prompts")
	if err != nil {
		return nil, fmt.Errorf("load ragtest prompts: %w", err)
	}
	return &Prompts{prompts: loaded}, nil
}

// BuildPrompt 는 문제 정보, 채팅 기록, 판별 기준, 사용자 입력을 합쳐
// 전체 프롬프트를 만든다.
func (p *Prompts) BuildPrompt(metadata, chatLog, ragCriteria, userInput string) (string, error) {
	data, err := p.getPrompt("rag-test")
	if err != nil {
		return "", err
	}
	template, err := prompt.Field(data, "user", "rag-test.user")
	if err != nil {
		return "", err
	}
	formatted, err := prompt.FormatTemplate(template, map[string]string{
		"metadata":     metadata,
		"chat_log":     chatLog,
		"rag_criteria": ragCriteria,
		"user_input":   userInput,
	})
	if err != nil {
		return "", fmt.Errorf("format rag-test.user: %w", err)
	}
	return formatted, nil
}

func (p *Prompts) getPrompt(name string) (map[string]string, error) {
	if p == nil || p.prompts == nil {
		return nil, fmt.Errorf("ragtest prompts not initialized")
	}
	return prompt.Get(p.prompts, name, "ragtest")
}
