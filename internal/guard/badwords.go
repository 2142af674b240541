package guard

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// loadBadwords 는 CSV 파일에서 금지어 목록을 읽는다.
// 한 줄에 한 단어, 첫 번째 칼럼만 사용한다. 파일이 없으면 빈 목록을
// 반환하고 필터는 비활성화된다.
func loadBadwords(path string, logger *slog.Logger) []string {
	if path == "" {
		path = "guard.csv"
	}

	if !fileExists(path) {
		executable, err := os.Executable()
		if err == nil {
			fallback := filepath.Join(filepath.Dir(executable), filepath.Base(path))
			if fileExists(fallback) {
				path = fallback
			}
		}
	}

	file, err := os.Open(path)
	if err != nil {
		if logger != nil {
			logger.Warn("badwords_not_found", "path", path, "err", err)
		}
		return nil
	}
	defer file.Close()

	seen := make(map[string]struct{})
	words := make([]string, 0)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.IndexByte(line, ','); idx >= 0 {
			line = line[:idx]
		}
		word := strings.TrimSpace(line)
		if word == "" {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil && logger != nil {
		logger.Warn("badwords_read_failed", "path", path, "err", err)
	}

	return words
}

// buildMatcher 는 정규화된 금지어로 Aho-Corasick 매처를 만든다.
// 반환되는 단어 목록은 매처의 패턴 인덱스와 순서가 일치한다.
func buildMatcher(words []string) (*ahocorasick.Matcher, []string) {
	patterns := make([][]byte, 0, len(words))
	kept := make([]string, 0, len(words))
	for _, word := range words {
		normalized := normalizeForMatch(word)
		if normalized == "" {
			continue
		}
		patterns = append(patterns, []byte(normalized))
		kept = append(kept, word)
	}
	if len(patterns) == 0 {
		return nil, nil
	}
	return ahocorasick.NewMatcher(patterns), kept
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
