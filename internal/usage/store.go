package usage

// Store 는 사용량 문서 저장소 인터페이스다.
// 두 문서(통계, 히스토리)는 서로 독립적인 슬롯에 저장된다.
// 테스트에서 fake 구현을 주입할 수 있도록 한다.
type Store interface {
	// LoadStats 는 통계 문서를 읽는다. 문서가 없거나 파싱에 실패하면
	// 기본(0) 값으로 대체하고 사유를 로그로 남긴다. 호출자에게 실패를
	// 전파하지 않는다.
	LoadStats() UsageStats

	// LoadHistory 는 히스토리 문서를 읽는다. 실패 시 빈 목록으로 대체한다.
	LoadHistory() []ChatHistoryItem

	// SaveStats 는 통계 문서 전체를 원자적으로 덮어쓴다.
	SaveStats(stats UsageStats) error

	// SaveHistory 는 캡이 적용된 히스토리 전체를 원자적으로 덮어쓴다.
	SaveHistory(items []ChatHistoryItem) error

	// Close 는 저장소 리소스를 정리한다.
	Close()
}

// 컴파일 타임 구현 확인
var (
	_ Store = (*FileStore)(nil)
	_ Store = (*Repository)(nil)
)
