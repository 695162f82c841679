package payroll

import (
	"context"
	"time"

	"hrpay/internal/domain/employee"
)

// StoreAPI is the durable-store contract for the calculator and access
// layer. InsertPayroll must enforce the (employee, pay month) uniqueness
// and surface a duplicate as ErrAlreadyGenerated so a lost race can be
// converted into "return the winner's record".
type StoreAPI interface {
	GetEmployee(ctx context.Context, employeeID string) (employee.Employee, error)
	GetSalaryStructure(ctx context.Context, employeeID string) (employee.SalaryStructure, error)
	ListApprovedLeaves(ctx context.Context, employeeID string, from, to time.Time) ([]LeaveInterval, error)
	InsertPayroll(ctx context.Context, p Payroll) (Payroll, error)
	FindPayroll(ctx context.Context, employeeID string, m Month) (Payroll, error)
	ListForMonth(ctx context.Context, m Month) (map[string]Payroll, error)
	ListActiveEmployees(ctx context.Context) ([]employee.Employee, error)
}
