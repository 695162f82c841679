package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"hrpay/internal/domain/employee"
)

// Rounding scales: per-day salary carries four fractional digits so the
// final currency rounding loses as little as possible; everything monetary
// rounds half-up to two.
const (
	perDayScale   = 4
	currencyScale = 2
)

var hundred = decimal.NewFromInt(100)

// WorkingDays counts the Monday–Friday calendar days of the month. There is
// no holiday calendar.
func WorkingDays(m Month) int {
	days := 0
	for d := m.Start(); !d.After(m.End()); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days++
		}
	}
	return days
}

// LeaveDaysInMonth clips each approved interval to the month and sums the
// inclusive day counts. Unlike request day counting this is calendar-day
// based; an interval clipped to nothing contributes zero.
func LeaveDaysInMonth(leaves []LeaveInterval, m Month) int {
	monthStart, monthEnd := m.Start(), m.End()
	total := 0
	for _, leave := range leaves {
		start := leave.FromDate
		if start.Before(monthStart) {
			start = monthStart
		}
		end := leave.ToDate
		if end.After(monthEnd) {
			end = monthEnd
		}
		if start.After(end) {
			continue
		}
		total += int(end.Sub(start).Hours()/24) + 1
	}
	return total
}

// percentageOf applies pct as a percentage of base, rounded half-up to
// currency precision. Zero or negative percentages never deduct.
func percentageOf(base, pct decimal.Decimal) decimal.Decimal {
	if pct.Sign() <= 0 {
		return decimal.Zero
	}
	return base.Mul(pct).DivRound(hundred, currencyScale)
}

// Compute produces the payroll record for one employee and month. It is
// deterministic: the same salary structure, approved leave set and month
// always yield the same figures.
func Compute(salary employee.SalaryStructure, leaves []LeaveInterval, m Month, processedDate time.Time) Payroll {
	gross := salary.BasicSalary.Add(salary.HRA).Add(salary.Allowances)

	workingDays := WorkingDays(m)
	totalLeaveDays := LeaveDaysInMonth(leaves, m)

	unpaidLeaveDays := totalLeaveDays - FreeLeaveDaysPerMonth
	if unpaidLeaveDays < 0 {
		unpaidLeaveDays = 0
	}

	perDay := gross.DivRound(decimal.NewFromInt(int64(workingDays)), perDayScale)
	leaveDeduction := perDay.Mul(decimal.NewFromInt(int64(unpaidLeaveDays))).Round(currencyScale)

	pf := percentageOf(gross, salary.PFPercentage)
	tax := percentageOf(gross, salary.TaxPercentage)

	totalDeductions := pf.Add(tax).Add(leaveDeduction)
	net := gross.Sub(totalDeductions).Round(currencyScale)

	return Payroll{
		EmployeeID:      salary.EmployeeID,
		PayMonth:        m,
		GrossSalary:     gross,
		PFAmount:        pf,
		TaxAmount:       tax,
		LeaveDeduction:  leaveDeduction,
		TotalDeductions: totalDeductions,
		NetSalary:       net,
		WorkingDays:     workingDays,
		PaidDays:        workingDays - unpaidLeaveDays,
		LOPDays:         unpaidLeaveDays,
		Status:          StatusGenerated,
		ProcessedDate:   processedDate,
	}
}
