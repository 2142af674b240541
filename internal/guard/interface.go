package guard

// Guard 는 비속어 필터 인터페이스다.
// 테스트에서 mock 구현을 주입할 수 있도록 한다.
type Guard interface {
	// Evaluate 입력 문자열 검사
	Evaluate(input string) Match

	// Contains 금지어 포함 여부
	Contains(input string) bool

	// Clean 금지어 마스킹
	Clean(input string) string

	// EnsureSafe 금지어 포함 입력을 에러로 반환
	EnsureSafe(input string) error
}

// ProfanityGuard가 Guard 인터페이스를 구현하는지 컴파일 타임 확인
var _ Guard = (*ProfanityGuard)(nil)
