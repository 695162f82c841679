package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payroll is the immutable monthly record for one employee. It is created
// exactly once per (employee, pay month) and never updated.
type Payroll struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employeeId"`
	PayMonth        Month           `json:"-"`
	GrossSalary     decimal.Decimal `json:"grossSalary"`
	PFAmount        decimal.Decimal `json:"pfAmount"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	LeaveDeduction  decimal.Decimal `json:"leaveDeduction"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	NetSalary       decimal.Decimal `json:"netSalary"`
	WorkingDays     int             `json:"workingDays"`
	PaidDays        int             `json:"paidDays"`
	LOPDays         int             `json:"lopDays"`
	Status          string          `json:"status"`
	ProcessedDate   time.Time       `json:"processedDate"`
}

// LeaveInterval is an approved leave's inclusive date range, as read from
// the request store for overlap counting.
type LeaveInterval struct {
	FromDate time.Time
	ToDate   time.Time
}

// OverviewRow is the HR month view: one row per active employee, real
// record or NOT_GENERATED placeholder.
type OverviewRow struct {
	EmployeeID  string           `json:"employeeId"`
	EmpCode     string           `json:"empCode"`
	Name        string           `json:"name"`
	Designation string           `json:"designation"`
	Generated   bool             `json:"generated"`
	Status      string           `json:"status"`
	GrossSalary *decimal.Decimal `json:"grossSalary,omitempty"`
	NetSalary   *decimal.Decimal `json:"netSalary,omitempty"`
}

const StatusNotGenerated = "NOT_GENERATED"
