package guard

import "fmt"

// Match: 비속어 검사 결과를 담습니다.
type Match struct {
	Found bool   `json:"found"`
	Word  string `json:"word,omitempty"`
}

// BlockedError: 금지어가 포함된 입력 오류입니다.
type BlockedError struct {
	Word string
}

// Error: 오류 메시지를 반환합니다.
func (e *BlockedError) Error() string {
	return fmt.Sprintf("input contains banned word (word=%s)", e.Word)
}
