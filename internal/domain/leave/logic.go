package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fixed monthly accrual rates, whole-month granularity.
var (
	ptoPerMonth  = decimal.NewFromFloat(1.5)
	clslPerMonth = decimal.NewFromInt(1)
)

// BusinessDays returns the number of Monday–Friday days in the inclusive
// range. Weekend days never count against a balance.
func BusinessDays(from, to time.Time) (int, error) {
	if to.Before(from) {
		return 0, ErrInvalidRange
	}
	days := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days++
		}
	}
	return days, nil
}

// InitialEntitlement pro-rates the joining year's totals. Joining on or
// before the 15th counts the joining month as fully entitled; otherwise
// entitlement starts the following month. Whole months from the effective
// start through December, multiplied by the accrual rates. A joiner late
// enough to have no effective month left gets zero, never a negative.
func InitialEntitlement(joiningDate time.Time) (pto, clsl decimal.Decimal) {
	effective := joiningDate
	if joiningDate.Day() > 15 {
		effective = time.Date(joiningDate.Year(), joiningDate.Month()+1, 1, 0, 0, 0, 0, joiningDate.Location())
	}

	months := 0
	if effective.Year() == joiningDate.Year() {
		months = int(time.December) - int(effective.Month()) + 1
	}
	if months < 0 {
		months = 0
	}

	m := decimal.NewFromInt(int64(months))
	return ptoPerMonth.Mul(m), clslPerMonth.Mul(m)
}

// NewBalance builds the ledger row created at onboarding.
func NewBalance(employeeID string, joiningDate time.Time, year int) Balance {
	pto, clsl := InitialEntitlement(joiningDate)
	return Balance{
		EmployeeID: employeeID,
		Year:       year,
		TotalPTO:   pto,
		UsedPTO:    decimal.Zero,
		TotalCLSL:  clsl,
		UsedCLSL:   decimal.Zero,
	}
}

func validType(leaveType string) bool {
	return leaveType == TypePTO || leaveType == TypeCLSL
}
