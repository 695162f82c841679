package payroll

import (
	"fmt"
	"time"
)

// Month identifies the calendar month a payroll record covers. It pairs
// uniquely with an employee.
type Month struct {
	Year  int
	Month time.Month
}

func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses the YYYY-MM form used on the wire and in storage.
func ParseMonth(value string) (Month, error) {
	parsed, err := time.Parse("2006-01", value)
	if err != nil {
		return Month{}, fmt.Errorf("invalid pay month %q: %w", value, err)
	}
	return MonthOf(parsed), nil
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the last day of the month.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, -1)
}

func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}
