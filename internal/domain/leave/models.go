package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is the per-employee, per-year entitlement ledger. One row exists
// per (employee, year); used never exceeds total for either pool.
type Balance struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employeeId"`
	Year       int             `json:"year"`
	TotalPTO   decimal.Decimal `json:"totalPto"`
	UsedPTO    decimal.Decimal `json:"usedPto"`
	TotalCLSL  decimal.Decimal `json:"totalClSl"`
	UsedCLSL   decimal.Decimal `json:"usedClSl"`
}

// Remaining returns the undebited entitlement for the given pool.
func (b Balance) Remaining(leaveType string) decimal.Decimal {
	if leaveType == TypePTO {
		return b.TotalPTO.Sub(b.UsedPTO)
	}
	return b.TotalCLSL.Sub(b.UsedCLSL)
}

type Request struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	LeaveType   string    `json:"leaveType"`
	FromDate    time.Time `json:"fromDate"`
	ToDate      time.Time `json:"toDate"`
	TotalDays   int       `json:"totalDays"`
	Status      string    `json:"status"`
	AppliedDate time.Time `json:"appliedDate"`
	Reason      string    `json:"reason"`
}

// RequestDetail is a request joined with the employee identity fields the
// HR listing shows.
type RequestDetail struct {
	Request
	EmpCode    string `json:"empCode"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName"`
}

// EmployeeRef is the slice of the employee record the engine needs to
// resolve a request; employees are referenced, never owned, here.
type EmployeeRef struct {
	ID      string
	EmpCode string
	Active  bool
}
