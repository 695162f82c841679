package employee

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hrpay/internal/domain/leave"
)

type Employee struct {
	ID          string    `json:"id"`
	EmpCode     string    `json:"empCode"`
	FirstName   string    `json:"firstName"`
	MiddleName  string    `json:"middleName,omitempty"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Department  string    `json:"department"`
	Designation string    `json:"designation"`
	JoiningDate time.Time `json:"joiningDate"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FullName joins the name parts, skipping an empty middle name.
func (e Employee) FullName() string {
	if strings.TrimSpace(e.MiddleName) == "" {
		return e.FirstName + " " + e.LastName
	}
	return e.FirstName + " " + e.MiddleName + " " + e.LastName
}

// SalaryStructure is the one-to-one salary snapshot for an active employee.
// All amounts and percentages are non-negative; a calculation reads it as an
// immutable snapshot.
type SalaryStructure struct {
	EmployeeID    string          `json:"employeeId"`
	BasicSalary   decimal.Decimal `json:"basicSalary"`
	HRA           decimal.Decimal `json:"hra"`
	Allowances    decimal.Decimal `json:"allowances"`
	TaxPercentage decimal.Decimal `json:"taxPercentage"`
	PFPercentage  decimal.Decimal `json:"pfPercentage"`
}

// Detail is the employee with its salary structure and, when loaded, the
// current-year leave balance.
type Detail struct {
	Employee
	Salary  *SalaryStructure `json:"salary,omitempty"`
	Balance *leave.Balance   `json:"leaveBalance,omitempty"`
}
