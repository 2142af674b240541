package guard

import "testing"

func TestComposeJamoSequences(t *testing.T) {
	if got := composeJamoSequences("ㅅㅣㅂㅏㄹ"); got != "시발" {
		t.Fatalf("unexpected composition: %q", got)
	}
	if got := composeJamoSequences("아 ㅅㅣㅂㅏㄹ 진짜"); got != "아 시발 진짜" {
		t.Fatalf("unexpected mixed composition: %q", got)
	}
	if got := composeJamoSequences("한글 그대로"); got != "한글 그대로" {
		t.Fatalf("composed text should be untouched: %q", got)
	}
}

func TestNormalizeForMatchHomoglyph(t *testing.T) {
	// 키릴 문자 'а' 를 라틴 'a' 로 정규화
	if got := normalizeForMatch("dаmn"); got != "damn" {
		t.Fatalf("unexpected homoglyph normalization: %q", got)
	}
}

func TestNormalizeForMatchStripsEmoji(t *testing.T) {
	if got := normalizeForMatch("시🙂발"); got != "시발" {
		t.Fatalf("unexpected emoji strip: %q", got)
	}
}

func TestNormalizeForMatchLowercase(t *testing.T) {
	if got := normalizeForMatch("DAMN"); got != "damn" {
		t.Fatalf("unexpected lowercase: %q", got)
	}
}

func TestStripControlChars(t *testing.T) {
	if got := stripControlChars("시​발"); got != "시발" {
		t.Fatalf("unexpected control strip: %q", got)
	}
	if got := stripControlChars("plain"); got != "plain" {
		t.Fatalf("plain text should be untouched: %q", got)
	}
}

func TestIsASCIIOnly(t *testing.T) {
	if !isASCIIOnly("hello 123") {
		t.Fatalf("expected ascii only")
	}
	if isASCIIOnly("한글") {
		t.Fatalf("did not expect ascii only")
	}
}
