package prompt

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadYAMLMapping 는 프롬프트 YAML 파일 하나를 평평한 문자열 맵으로 로드한다.
// 스칼라가 아닌 값은 문자열로 강제 변환한다. system 필드가 있으면 자리표시자
// 금지 규칙을 검사한다.
func LoadYAMLMapping(fsys fs.FS, filePath string) (map[string]string, error) {
	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("read prompt file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse prompt yaml: %w", err)
	}

	mapping := make(map[string]string, len(raw))
	for key, value := range raw {
		if value == nil {
			mapping[key] = ""
			continue
		}
		mapping[key] = fmt.Sprint(value)
	}

	if system := mapping["system"]; strings.TrimSpace(system) != "" {
		if err := ValidateSystemStatic(filePath, system); err != nil {
			return nil, err
		}
	}

	return mapping, nil
}

// LoadYAMLDir 는 디렉터리의 *.yml / *.yaml 프롬프트를 모두 로드한다.
// 프롬프트 이름은 확장자를 뗀 파일 이름이다.
func LoadYAMLDir(fsys fs.FS, dir string) (map[string]map[string]string, error) {
	prompts := make(map[string]map[string]string)
	for _, pattern := range []string{"*.yml", "*.yaml"} {
		paths, err := fs.Glob(fsys, path.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob prompt dir: %w", err)
		}
		for _, filePath := range paths {
			mapping, err := LoadYAMLMapping(fsys, filePath)
			if err != nil {
				return nil, err
			}
			name := strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))
			prompts[name] = mapping
		}
	}
	return prompts, nil
}
