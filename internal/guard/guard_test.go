package guard

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/park285/llm-chat-server-go/internal/config"
)

func writeBadwords(t *testing.T, words string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guard.csv")
	if err := os.WriteFile(path, []byte(words), 0644); err != nil {
		t.Fatalf("write badwords: %v", err)
	}
	return path
}

func newTestGuard(t *testing.T, path string, enabled bool) *ProfanityGuard {
	t.Helper()
	cfg := &config.Config{
		Guard: config.GuardConfig{
			Enabled:         enabled,
			BadwordsPath:    path,
			CacheMaxSize:    100,
			CacheTTLSeconds: 60,
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	g, err := NewGuard(cfg, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return g
}

func TestGuardContains(t *testing.T) {
	path := writeBadwords(t, "시발\n병신\ndamn\n")
	g := newTestGuard(t, path, true)

	if !g.Contains("아 시발 왜 안되냐") {
		t.Fatalf("expected exact badword match")
	}
	if !g.Contains("DAMN it") {
		t.Fatalf("expected case-insensitive match")
	}
	if g.Contains("안녕하세요") {
		t.Fatalf("did not expect match for clean input")
	}
}

func TestGuardContainsJamoEvasion(t *testing.T) {
	path := writeBadwords(t, "시발\n")
	g := newTestGuard(t, path, true)

	if !g.Contains("ㅅㅣㅂㅏㄹ") {
		t.Fatalf("expected jamo-decomposed badword to match")
	}
}

func TestGuardContainsEmojiEvasion(t *testing.T) {
	path := writeBadwords(t, "시발\n")
	g := newTestGuard(t, path, true)

	if !g.Contains("시🙂발") {
		t.Fatalf("expected emoji-interleaved badword to match")
	}
}

func TestGuardClean(t *testing.T) {
	path := writeBadwords(t, "시발\ndamn\n")
	g := newTestGuard(t, path, true)

	if got := g.Clean("아 시발 놈"); got != "아 ** 놈" {
		t.Fatalf("unexpected masked text: %q", got)
	}
	if got := g.Clean("damn damn"); got != "**** ****" {
		t.Fatalf("unexpected masked text: %q", got)
	}
	if got := g.Clean("깨끗한 문장"); got != "깨끗한 문장" {
		t.Fatalf("clean input should be untouched: %q", got)
	}
}

func TestGuardEnsureSafe(t *testing.T) {
	path := writeBadwords(t, "시발\n")
	g := newTestGuard(t, path, true)

	err := g.EnsureSafe("시발")
	var blocked *BlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected BlockedError, got %v", err)
	}
	if blocked.Word != "시발" {
		t.Fatalf("unexpected blocked word: %q", blocked.Word)
	}

	if err := g.EnsureSafe("안녕하세요"); err != nil {
		t.Fatalf("unexpected error for clean input: %v", err)
	}
}

func TestGuardMissingFileDisablesFilter(t *testing.T) {
	g := newTestGuard(t, filepath.Join(t.TempDir(), "missing.csv"), true)

	if g.Contains("시발") {
		t.Fatalf("missing badwords file should disable the filter")
	}
	if err := g.EnsureSafe("시발"); err != nil {
		t.Fatalf("unexpected error when disabled: %v", err)
	}
}

func TestGuardDisabled(t *testing.T) {
	path := writeBadwords(t, "시발\n")
	g := newTestGuard(t, path, false)

	if g.Contains("시발") {
		t.Fatalf("disabled guard should never match")
	}
}

func TestLoadBadwordsSkipsDuplicatesAndBlanks(t *testing.T) {
	path := writeBadwords(t, "시발\n\n시발,1\n병신\n")
	words := loadBadwords(path, nil)
	if len(words) != 2 || words[0] != "시발" || words[1] != "병신" {
		t.Fatalf("unexpected words: %+v", words)
	}
}
