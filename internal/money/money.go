// Package money handles monetary amounts as int64 paise (hundredths of a
// rupee). Amounts cross the API as decimal strings so no value ever passes
// through a binary float.
package money

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidAmount is returned when a decimal string cannot be parsed.
var ErrInvalidAmount = errors.New("invalid monetary amount")

// Amount is a monetary value in paise.
type Amount int64

// Parse converts a decimal string such as "123.45" to an Amount.
// At most two fractional digits are kept; a third digit rounds half-up.
// Negative values are rejected: stored amounts are always non-negative.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
		if strings.IndexByte(fracPart, '.') >= 0 {
			return 0, ErrInvalidAmount
		}
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxRupees = (1<<63 - 1) / 100
	if iv > maxRupees {
		return 0, ErrInvalidAmount
	}

	var paise int64
	if len(fracPart) > 0 {
		paise = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			paise += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				paise++
			}
		}
	}

	return Amount(iv*100 + paise), nil
}

// String formats the amount as a decimal string with exactly two
// fractional digits, e.g. "500.00" or "-12.05".
func (a Amount) String() string {
	v := int64(a)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON serializes the amount as a quoted decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON parses an amount from a quoted decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("money: amount must be a decimal string: %w", err)
	}
	parsed, err := Parse(s)
	if err != nil {
		return fmt.Errorf("money: %q: %w", s, err)
	}
	*a = parsed
	return nil
}

// Value implements driver.Valuer so amounts persist as bigint columns.
func (a Amount) Value() (driver.Value, error) {
	return int64(a), nil
}

// Scan implements sql.Scanner.
func (a *Amount) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = 0
	case int64:
		*a = Amount(v)
	case []byte:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("money: cannot scan %q: %w", v, err)
		}
		*a = Amount(n)
	default:
		return fmt.Errorf("money: cannot scan %T into Amount", src)
	}
	return nil
}
