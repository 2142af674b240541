package money

import (
	"fmt"
	"math"
	"strconv"
)

// MicrosPerUSD 는 1 USD 당 마이크로 단위 수다.
const MicrosPerUSD = 1_000_000

// Money 는 마이크로 USD(10^-6 USD) 단위의 고정소수점 금액이다.
// float64 누적 시 발생하는 드리프트를 피하기 위해 정수로 합산한다.
// JSON 직렬화 시 소수점 6자리 이하의 십진수로 표현된다.
type Money int64

// Zero 는 0 금액이다.
const Zero Money = 0

// FromMicros 는 마이크로 USD 정수값으로 금액을 생성한다.
func FromMicros(micros int64) Money {
	return Money(micros)
}

// FromFloat 는 USD float 값을 반올림(half-up)하여 금액으로 변환한다.
func FromFloat(usd float64) Money {
	if math.IsNaN(usd) || math.IsInf(usd, 0) {
		return Zero
	}
	return Money(math.Round(usd * MicrosPerUSD))
}

// Micros 는 마이크로 USD 정수값을 반환한다.
func (m Money) Micros() int64 {
	return int64(m)
}

// Add 는 두 금액의 합을 반환한다.
func (m Money) Add(other Money) Money {
	return m + other
}

// GreaterThan 은 m > other 여부를 반환한다.
func (m Money) GreaterThan(other Money) bool {
	return m > other
}

// IsZero 는 0 금액 여부를 반환한다.
func (m Money) IsZero() bool {
	return m == 0
}

// Float64 는 USD float 값을 반환한다.
func (m Money) Float64() float64 {
	return float64(m) / MicrosPerUSD
}

// String 은 최단 십진수 표현을 반환한다. 예: 2µUSD → "0.000002".
func (m Money) String() string {
	return strconv.FormatFloat(m.Float64(), 'f', -1, 64)
}

// MarshalJSON 은 금액을 십진수 JSON 숫자로 직렬화한다.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON 은 JSON 숫자(또는 숫자 문자열)를 금액으로 역직렬화한다.
func (m *Money) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	if raw == "" || raw == "null" {
		*m = Zero
		return nil
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("parse money: %w", err)
	}
	*m = FromFloat(parsed)
	return nil
}
