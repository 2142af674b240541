package prompt

import (
	"fmt"
	"strings"
)

// FormatTemplate: 템플릿의 {key} 자리표시자를 값으로 치환합니다.
// {{ 와 }} 는 리터럴 중괄호로 취급합니다.
func FormatTemplate(template string, values map[string]string) (string, error) {
	var builder strings.Builder
	builder.Grow(len(template))

	err := scanTemplate(template, func(literal string) {
		builder.WriteString(literal)
	}, func(key string) error {
		value, ok := values[key]
		if !ok {
			return fmt.Errorf("missing template value for %q", key)
		}
		builder.WriteString(value)
		return nil
	})
	if err != nil {
		return "", err
	}
	return builder.String(), nil
}

// ValidateSystemStatic: system 프롬프트에 자리표시자가 없는지 검사합니다.
// system 텍스트는 정적이어야 하며 치환 대상이 아닙니다.
func ValidateSystemStatic(name string, system string) error {
	return scanTemplate(system, func(string) {}, func(key string) error {
		return fmt.Errorf("%s: system prompt must not contain template variables %q", name, key)
	})
}

// scanTemplate 은 템플릿을 1패스로 훑으며 리터럴 구간과 자리표시자 키를
// 콜백으로 넘긴다. 짝이 맞지 않는 중괄호는 에러다.
func scanTemplate(template string, emitLiteral func(string), emitKey func(string) error) error {
	for i := 0; i < len(template); {
		switch template[i] {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				emitLiteral("{")
				i += 2
				continue
			}
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return fmt.Errorf("invalid template: missing '}'")
			}
			if err := emitKey(template[i+1 : i+1+end]); err != nil {
				return err
			}
			i += end + 2
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				emitLiteral("}")
				i += 2
				continue
			}
			return fmt.Errorf("invalid template: unexpected '}'")
		default:
			next := strings.IndexAny(template[i:], "{}")
			if next < 0 {
				emitLiteral(template[i:])
				return nil
			}
			emitLiteral(template[i : i+next])
			i += next
		}
	}
	return nil
}
