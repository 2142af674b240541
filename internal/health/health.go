package health

import (
	"context"
	"os"
	"time"

	"github.com/park285/llm-chat-server-go/internal/config"
)

var startTime = time.Now()

// Component 는 상태 구성 요소다.
type Component struct {
	Status string         `json:"status"`
	Detail map[string]any `json:"detail"`
}

// Response 는 상태 응답 본문이다.
type Response struct {
	Status     string               `json:"status"`
	Components map[string]Component `json:"components"`
	Storage    map[string]any       `json:"storage"`
}

// Collect 는 헬스 상태를 수집한다. deepChecks 가 true 면 저장소 쓰기
// 가능 여부까지 확인한다.
func Collect(ctx context.Context, cfg *config.Config, deepChecks bool) Response {
	components := make(map[string]Component)

	components["app"] = buildAppStatus()

	storageStatus := buildStorageStatus(cfg, deepChecks)
	components["storage"] = storageStatus

	components["gemini"] = buildGeminiStatus(cfg)

	overall := "ok"
	for _, component := range components {
		if component.Status != "ok" {
			overall = "degraded"
			break
		}
	}

	return Response{
		Status:     overall,
		Components: components,
		Storage:    storageStatus.Detail,
	}
}

func buildAppStatus() Component {
	uptimeSeconds := int(time.Since(startTime).Seconds())
	return Component{
		Status: "ok",
		Detail: map[string]any{
			"uptime_seconds": uptimeSeconds,
		},
	}
}

func buildGeminiStatus(cfg *config.Config) Component {
	apiKeyPresent := false
	apiKeyPreview := "None"
	model := ""
	timeoutSeconds := 0

	if cfg != nil {
		key := cfg.Gemini.PrimaryKey()
		apiKeyPresent = key != ""
		if len(key) >= 4 {
			apiKeyPreview = key[len(key)-4:]
		}
		model = cfg.Gemini.Model
		timeoutSeconds = cfg.Gemini.TimeoutSeconds
	}
	status := "ok"
	if !apiKeyPresent {
		status = "degraded"
	}

	detail := map[string]any{
		"api_key_present": apiKeyPresent,
		"api_key_preview": apiKeyPreview,
		"model":           model,
		"timeout_seconds": timeoutSeconds,
	}

	return Component{
		Status: status,
		Detail: detail,
	}
}

func buildStorageStatus(cfg *config.Config, deepChecks bool) Component {
	backend := config.StorageBackendFile
	dataDir := ""
	historyLimit := 0

	if cfg != nil {
		backend = cfg.Storage.Backend
		dataDir = cfg.Storage.DataDir
		historyLimit = cfg.Storage.HistoryLimit
	}

	status := "ok"
	detail := map[string]any{
		"backend":       backend,
		"data_dir":      dataDir,
		"history_limit": historyLimit,
		"deep_checked":  deepChecks,
	}

	if deepChecks && backend == config.StorageBackendFile {
		writable, err := checkWritable(dataDir)
		detail["writable"] = writable
		if err != nil {
			detail["write_error"] = err.Error()
		}
		if !writable {
			status = "degraded"
		}
	}

	if cfg != nil && backend == config.StorageBackendPostgres {
		detail["db_host"] = cfg.Database.Host
		detail["db_name"] = cfg.Database.Name
	}

	return Component{
		Status: status,
		Detail: detail,
	}
}

// checkWritable 은 데이터 디렉터리에 임시 파일을 쓰고 지워본다.
func checkWritable(dataDir string) (bool, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return false, err
	}
	file, err := os.CreateTemp(dataDir, ".healthcheck-*")
	if err != nil {
		return false, err
	}
	name := file.Name()
	_, writeErr := file.WriteString("ok")
	closeErr := file.Close()
	_ = os.Remove(name)
	if writeErr != nil {
		return false, writeErr
	}
	if closeErr != nil {
		return false, closeErr
	}
	return true, nil
}
