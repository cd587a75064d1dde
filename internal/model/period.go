package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Period is a reporting period: one calendar month. Snapshots are keyed by
// (project, period), and "prior period" lookups order by it. The wire format
// is "2006-01"; the database column is a DATE normalized to the first of the
// month.
type Period struct {
	Year  int
	Month time.Month
}

func NewPeriod(year int, month time.Month) Period {
	return Period{Year: year, Month: month}
}

// ParsePeriod accepts "2006-01" and, for convenience, full dates like
// "2006-01-31" (the day is dropped).
func ParsePeriod(raw string) (Period, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Period{}, fmt.Errorf("period is empty")
	}
	for _, layout := range []string{"2006-01", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return PeriodOf(t), nil
		}
	}
	return Period{}, fmt.Errorf("invalid period %q: expected YYYY-MM", raw)
}

// PeriodOf truncates a timestamp to its calendar month.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Date returns the first day of the month in UTC, which is how the period is
// stored in Postgres.
func (p Period) Date() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// Prev returns the preceding calendar month.
func (p Period) Prev() Period {
	return PeriodOf(p.Date().AddDate(0, -1, 0))
}

// Next returns the following calendar month.
func (p Period) Next() Period {
	return PeriodOf(p.Date().AddDate(0, 1, 0))
}

func (p Period) Equal(other Period) bool {
	return p.Year == other.Year && p.Month == other.Month
}

func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

func (p Period) After(other Period) bool {
	return other.Before(p)
}

// Scan implements sql.Scanner so period DATE columns load directly.
func (p *Period) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*p = Period{}
		return nil
	case time.Time:
		*p = PeriodOf(v)
		return nil
	case []byte:
		parsed, err := ParsePeriod(string(v))
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	case string:
		parsed, err := ParsePeriod(v)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Period", value)
	}
}

// Value implements driver.Valuer, storing the first of the month.
func (p Period) Value() (driver.Value, error) {
	if p.IsZero() {
		return nil, nil
	}
	return p.Date(), nil
}

func (p Period) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

func (p *Period) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "null" || raw == "" {
		*p = Period{}
		return nil
	}
	parsed, err := ParsePeriod(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
