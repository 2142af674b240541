package config

import (
	"net"
	"net/url"
	"strconv"
)

// 저장소 백엔드 식별자.
const (
	StorageBackendFile     = "file"
	StorageBackendPostgres = "postgres"
)

// GeminiConfig: Gemini 모델 설정입니다.
type GeminiConfig struct {
	APIKeys         []string
	Model           string
	Temperature     float64
	MaxOutputTokens int
	TimeoutSeconds  int
}

// PrimaryKey: 기본 API 키를 반환합니다.
func (g GeminiConfig) PrimaryKey() string {
	if len(g.APIKeys) == 0 {
		return ""
	}
	return g.APIKeys[0]
}

// StorageConfig: 사용량/히스토리 영속화 설정입니다.
type StorageConfig struct {
	Backend      string
	DataDir      string
	HistoryLimit int
}

// UsePostgres: postgres 백엔드 사용 여부를 반환합니다.
func (s StorageConfig) UsePostgres() bool {
	return s.Backend == StorageBackendPostgres
}

// GuardConfig: 비속어 필터 설정입니다.
type GuardConfig struct {
	Enabled         bool
	BadwordsPath    string
	CacheMaxSize    int
	CacheTTLSeconds int
}

// LoggingConfig: 로깅 설정입니다.
type LoggingConfig struct {
	Level      string
	LogDir     string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// HTTPConfig: HTTP 서버 설정입니다.
type HTTPConfig struct {
	Host         string
	Port         int
	HTTP2Enabled bool
}

// HTTPAuthConfig: API 키 인증 설정입니다.
type HTTPAuthConfig struct {
	APIKey string
}

// HTTPRateLimitConfig: 요청 제한 설정입니다.
type HTTPRateLimitConfig struct {
	RequestsPerMinute int
	CacheSize         int
	CacheTTLSeconds   int
}

// CORSConfig: CORS 허용 출처 설정입니다.
type CORSConfig struct {
	AllowOrigins []string
}

// DatabaseConfig: DB 연결 설정입니다.
type DatabaseConfig struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
}

// DSN: DB 접속 문자열을 반환합니다.
func (d DatabaseConfig) DSN() string {
	host := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	u := &url.URL{
		Scheme: "postgresql",
		Host:   host,
		Path:   "/" + d.Name,
	}
	if d.Password == "" {
		u.User = url.User(d.User)
	} else {
		u.User = url.UserPassword(d.User, d.Password)
	}
	return u.String()
}

// Config: 애플리케이션 전체 설정입니다.
type Config struct {
	Gemini        GeminiConfig
	Storage       StorageConfig
	Guard         GuardConfig
	Logging       LoggingConfig
	HTTP          HTTPConfig
	HTTPAuth      HTTPAuthConfig
	HTTPRateLimit HTTPRateLimitConfig
	CORS          CORSConfig
	Database      DatabaseConfig
}
