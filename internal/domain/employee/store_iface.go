package employee

import (
	"context"

	"hrpay/internal/domain/leave"
)

// StoreAPI is the durable-store contract for employee record keeping.
// Onboard persists the employee, salary structure and first-year ledger as
// one atomic unit.
type StoreAPI interface {
	EmailExists(ctx context.Context, email, excludeEmployeeID string) (bool, error)
	CodeExists(ctx context.Context, empCode string) (bool, error)
	Onboard(ctx context.Context, emp Employee, salary SalaryStructure, balance leave.Balance) (Employee, error)
	Update(ctx context.Context, emp Employee, salary SalaryStructure) (Employee, error)
	Deactivate(ctx context.Context, employeeID string) error
	FindByCode(ctx context.Context, empCode string) (Employee, error)
	FindByID(ctx context.Context, employeeID string) (Employee, error)
	GetSalaryStructure(ctx context.Context, employeeID string) (SalaryStructure, error)
	GetBalance(ctx context.Context, employeeID string, year int) (leave.Balance, error)
	ListActive(ctx context.Context) ([]Detail, error)
}
