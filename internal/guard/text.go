package guard

import (
	"strings"
	"unicode"

	"github.com/forPelevin/gomoji"
	"github.com/mtibben/confusables"
	"github.com/ymw0407/jamo/pkg/jamo"
	"golang.org/x/text/unicode/norm"
)

// jamoTable: 한글 자모 범위를 통합한 테이블
// unicode.Is()를 사용하면 이진 탐색을 수행하여 매우 빠릅니다.
var jamoTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x1100, Hi: 0x11FF, Stride: 1}, // Hangul Jamo
		{Lo: 0x3130, Hi: 0x318F, Stride: 1}, // Hangul Compatibility Jamo
		{Lo: 0xA960, Hi: 0xA97F, Stride: 1}, // Hangul Jamo Extended-A
		{Lo: 0xD7B0, Hi: 0xD7FF, Stride: 1}, // Hangul Jamo Extended-B
	},
}

// hangulTable: 한글 범위 (Jamo 포함하지 않음 - 완성형만)
var hangulTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0xAC00, Hi: 0xD7A3, Stride: 1}, // Hangul Syllables (가-힣)
	},
}

// normalizeForMatch: 금지어 매칭용 정규화 파이프라인입니다.
// 1. 자모 시퀀스 조합 (ㅅㅣㅂㅏㄹ → 시발)
// 2. Homoglyph + NFKC 정규화 (한글 보존)
// 3. 이모지 제거 (이모지 끼워넣기 우회 차단)
// 4. 소문자화
func normalizeForMatch(text string) string {
	composed := composeJamoSequences(text)
	normalized := normalizeText(composed)
	stripped := gomoji.RemoveEmojis(normalized)
	return strings.ToLower(stripped)
}

// isASCIIOnly: 문자열이 ASCII만 포함하는지 확인 (Zero Allocation)
func isASCIIOnly(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func normalizeText(text string) string {
	// [Fast Path] ASCII만 포함된 경우 Skeleton 변환 불필요
	if isASCIIOnly(text) {
		return stripControlChars(text)
	}

	// NFD 입력 우회 방지: 먼저 NFC로 정규화
	// 예: "한글" (NFD) → "한글" (NFC)
	nfcText := norm.NFC.String(text)

	// Non-ASCII: 한글 보존하면서 Homoglyph 정규화 수행
	normalized := normalizeWithKoreanPreserved(nfcText)
	return stripControlChars(normalized)
}

// normalizeWithKoreanPreserved: 한글 문자는 보존하면서 나머지만 skeleton 변환
func normalizeWithKoreanPreserved(text string) string {
	var result strings.Builder
	var nonKoreanBuffer strings.Builder
	result.Grow(len(text))

	flushNonKorean := func() {
		if nonKoreanBuffer.Len() == 0 {
			return
		}
		// 비한글 텍스트에만 skeleton + NFKC 적용
		skeleton := confusables.Skeleton(nonKoreanBuffer.String())
		result.WriteString(norm.NFKC.String(skeleton))
		nonKoreanBuffer.Reset()
	}

	for _, r := range text {
		if unicode.Is(hangulTable, r) || unicode.Is(jamoTable, r) {
			// 한글(완성형 또는 자모)은 그대로 보존
			flushNonKorean()
			result.WriteRune(r)
		} else {
			// 비한글은 버퍼에 누적
			nonKoreanBuffer.WriteRune(r)
		}
	}
	flushNonKorean() // 마지막 버퍼 처리

	return result.String()
}

// stripControlChars: 불필요한 할당 방지
func stripControlChars(text string) string {
	// 1. 제어 문자가 없는지 먼저 스캔
	hasControl := false
	for _, r := range text {
		if unicode.Is(unicode.Cf, r) || unicode.Is(unicode.Cc, r) {
			hasControl = true
			break
		}
	}
	if !hasControl {
		return text
	}

	// 2. 제어 문자가 있을 때만 빌더 사용
	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range text {
		if unicode.Is(unicode.Cf, r) || unicode.Is(unicode.Cc, r) {
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

// composeJamoSequences: 혼합 문자열에서 연속 자모 시퀀스를 완성형으로 조합합니다.
// 예: "아 ㅅㅣㅂㅏㄹ" → "아 시발"
// 조합에 실패한 자모는 원본 그대로 유지됩니다.
func composeJamoSequences(text string) string {
	var result strings.Builder
	var jamoBuffer strings.Builder
	result.Grow(len(text))

	flushJamo := func() {
		if jamoBuffer.Len() == 0 {
			return
		}
		jamoStr := jamoBuffer.String()
		composed, err := jamo.ComposeHangeul(jamoStr)
		if err == nil && len(composed) > 0 {
			// 첫 번째 조합 결과 사용 (가장 일반적인 해석)
			result.WriteString(composed[0])
		} else {
			// 조합 실패 시 원본 자모 유지
			result.WriteString(jamoStr)
		}
		jamoBuffer.Reset()
	}

	for _, r := range text {
		if unicode.Is(jamoTable, r) {
			jamoBuffer.WriteRune(r)
		} else {
			flushJamo()
			result.WriteRune(r)
		}
	}
	flushJamo() // 마지막 버퍼 처리

	return result.String()
}
