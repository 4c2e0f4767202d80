package models

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimeOfDay is a duration measured from midnight. It can exceed 24 hours, in
// which case the textual form carries a leading day count ("D.HH:mm:ss").
type TimeOfDay time.Duration

const ticksPerSecond = 10_000_000 // 100ns tick resolution in the textual form

// ParseTimeOfDay parses "HH:mm:ss", "D.HH:mm:ss", and either form with a
// fractional-seconds suffix.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	orig := s
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var days int64
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid time of day %q", orig)
	}
	hourPart := parts[0]
	if i := strings.IndexByte(hourPart, '.'); i >= 0 {
		d, err := strconv.ParseInt(hourPart[:i], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid time of day %q", orig)
		}
		days = d
		hourPart = hourPart[i+1:]
	}

	hours, err := strconv.ParseInt(hourPart, 10, 64)
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid time of day %q", orig)
	}
	minutes, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid time of day %q", orig)
	}

	secPart := parts[2]
	var frac time.Duration
	if i := strings.IndexByte(secPart, '.'); i >= 0 {
		fracStr := secPart[i+1:]
		secPart = secPart[:i]
		if fracStr == "" || len(fracStr) > 9 {
			return 0, fmt.Errorf("invalid time of day %q", orig)
		}
		f, err := strconv.ParseInt(fracStr, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid time of day %q", orig)
		}
		for n := 9 - len(fracStr); n > 0; n-- {
			f *= 10
		}
		frac = time.Duration(f)
	}
	seconds, err := strconv.ParseInt(secPart, 10, 64)
	if err != nil || seconds < 0 || seconds > 59 {
		return 0, fmt.Errorf("invalid time of day %q", orig)
	}

	d := time.Duration(days)*24*time.Hour +
		time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		frac
	if neg {
		d = -d
	}
	return TimeOfDay(d), nil
}

func (t TimeOfDay) Duration() time.Duration { return time.Duration(t) }

func (t TimeOfDay) String() string {
	d := time.Duration(t)
	neg := d < 0
	if neg {
		d = -d
	}
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	d -= seconds * time.Second

	out := fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	if days > 0 {
		out = fmt.Sprintf("%d.%s", days, out)
	}
	if d > 0 {
		out += fmt.Sprintf(".%07d", d.Nanoseconds()/100)
	}
	if neg {
		out = "-" + out
	}
	return out
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("time of day must be a string: %w", err)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value stores the duration as nanoseconds.
func (t TimeOfDay) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *TimeOfDay) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*t = TimeOfDay(v)
	case float64:
		*t = TimeOfDay(int64(v))
	case []byte:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("scanning time of day: %w", err)
		}
		*t = TimeOfDay(n)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("scanning time of day: %w", err)
		}
		*t = TimeOfDay(n)
	case nil:
		*t = 0
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
	return nil
}

// Decimal2 is a fixed-point decimal rendered with exactly two fractional
// digits, matching the store's decimal(18,2) columns.
type Decimal2 struct {
	decimal.Decimal
}

func NewDecimal2(d decimal.Decimal) Decimal2 { return Decimal2{d} }

func Decimal2FromString(s string) (Decimal2, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal2{}, err
	}
	return Decimal2{d}, nil
}

// MarshalJSON emits an unquoted number with two fractional digits.
func (d Decimal2) MarshalJSON() ([]byte, error) {
	return []byte(d.StringFixed(2)), nil
}

func (d *Decimal2) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	dec, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	d.Decimal = dec
	return nil
}

func (d Decimal2) Value() (driver.Value, error) {
	return d.StringFixed(2), nil
}

func (d *Decimal2) Scan(src any) error {
	return d.Decimal.Scan(src)
}
