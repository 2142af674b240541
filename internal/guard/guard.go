package guard

import (
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cloudflare/ahocorasick"
	"golang.org/x/sync/singleflight"

	"github.com/park285/llm-chat-server-go/internal/cache"
	"github.com/park285/llm-chat-server-go/internal/config"
)

// ProfanityGuard: 입력 문자열에서 금지어를 검사하는 필터입니다.
type ProfanityGuard struct {
	cfg     *config.Config
	logger  *slog.Logger
	words   []string
	matcher *ahocorasick.Matcher
	cache   *cache.TTLCache[string, Match]
	group   singleflight.Group
}

// NewGuard: 비속어 필터를 생성합니다.
func NewGuard(cfg *config.Config, logger *slog.Logger) (*ProfanityGuard, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	cacheTTL := time.Duration(cfg.Guard.CacheTTLSeconds) * time.Second
	guard := &ProfanityGuard{
		cfg:    cfg,
		logger: logger,
		cache:  cache.NewTTLCache[string, Match](cfg.Guard.CacheMaxSize, cacheTTL),
	}

	if cfg.Guard.Enabled {
		words := loadBadwords(cfg.Guard.BadwordsPath, logger)
		guard.matcher, guard.words = buildMatcher(words)
		if logger != nil {
			logger.Info("guard_ready", "badwords", len(guard.words))
		}
	}

	return guard, nil
}

// Evaluate: 입력 문자열을 검사하고 첫 매칭 결과를 반환합니다.
func (g *ProfanityGuard) Evaluate(input string) Match {
	if g == nil || g.cfg == nil || !g.cfg.Guard.Enabled || g.matcher == nil {
		return Match{}
	}

	if cached, ok := g.cache.Get(input); ok {
		return cached
	}

	value, _, _ := g.group.Do(input, func() (any, error) {
		result := g.evaluateInternal(input)
		g.cache.Set(input, result)
		return result, nil
	})

	if match, ok := value.(Match); ok {
		return match
	}
	return Match{}
}

// Contains: 입력에 금지어가 포함되어 있는지 여부를 반환합니다.
func (g *ProfanityGuard) Contains(input string) bool {
	return g.Evaluate(input).Found
}

// Clean: 금지어를 같은 길이의 '*' 로 마스킹한 문자열을 반환합니다.
func (g *ProfanityGuard) Clean(input string) string {
	if g == nil || len(g.words) == 0 {
		return input
	}
	for _, word := range g.words {
		if !strings.Contains(input, word) {
			continue
		}
		mask := strings.Repeat("*", utf8.RuneCountInString(word))
		input = strings.ReplaceAll(input, word, mask)
	}
	return input
}

// EnsureSafe: 금지어가 포함된 입력을 오류로 반환합니다.
func (g *ProfanityGuard) EnsureSafe(input string) error {
	match := g.Evaluate(input)
	if match.Found {
		if g.logger != nil {
			g.logger.Warn("guard_blocked", "input", trimForLog(input))
		}
		return &BlockedError{Word: match.Word}
	}
	return nil
}

func (g *ProfanityGuard) evaluateInternal(input string) Match {
	normalized := normalizeForMatch(input)
	indexes := g.matcher.MatchThreadSafe([]byte(normalized))
	if len(indexes) == 0 {
		return Match{}
	}
	idx := indexes[0]
	if idx < 0 || idx >= len(g.words) {
		return Match{Found: true}
	}
	return Match{Found: true, Word: g.words[idx]}
}

func trimForLog(value string) string {
	value = strings.TrimSpace(value)
	if len(value) <= 50 {
		return value
	}
	return value[:50]
}
