package payroll

import (
	"context"
	"errors"
	"time"
)

// Service wraps the deterministic calculator with the store orchestration:
// compute-and-persist exactly once per employee/month, plus the read paths
// the HR and employee views use.
type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

// Calculate computes and persists the payroll for one employee and month.
// The stored row is immutable; a second call for the same pair fails with
// ErrAlreadyGenerated.
func (s *Service) Calculate(ctx context.Context, employeeID string, m Month) (Payroll, error) {
	emp, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return Payroll{}, err
	}

	salary, err := s.store.GetSalaryStructure(ctx, emp.ID)
	if err != nil {
		return Payroll{}, err
	}

	leaves, err := s.store.ListApprovedLeaves(ctx, emp.ID, m.Start(), m.End())
	if err != nil {
		return Payroll{}, err
	}

	record := Compute(salary, leaves, m, s.now().UTC().Truncate(24*time.Hour))
	return s.store.InsertPayroll(ctx, record)
}

// GetOrGenerate returns the stored record, computing it first if absent.
// This is the only read path allowed to create a record; a duplicate-insert
// race resolves to the winner's row.
func (s *Service) GetOrGenerate(ctx context.Context, employeeID string, m Month) (Payroll, error) {
	record, err := s.store.FindPayroll(ctx, employeeID, m)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, ErrNotGenerated) {
		return Payroll{}, err
	}

	record, err = s.Calculate(ctx, employeeID, m)
	if errors.Is(err, ErrAlreadyGenerated) {
		// Lost the race; a concurrent caller inserted first.
		return s.store.FindPayroll(ctx, employeeID, m)
	}
	return record, err
}

// Get is the employee view: strictly read-only, never computes.
func (s *Service) Get(ctx context.Context, employeeID string, m Month) (Payroll, error) {
	return s.store.FindPayroll(ctx, employeeID, m)
}

// MonthOverview returns one row per active employee for the HR view: the
// real record when generated, otherwise a NOT_GENERATED placeholder. It
// never triggers computation.
func (s *Service) MonthOverview(ctx context.Context, m Month) ([]OverviewRow, error) {
	employees, err := s.store.ListActiveEmployees(ctx)
	if err != nil {
		return nil, err
	}

	generated, err := s.store.ListForMonth(ctx, m)
	if err != nil {
		return nil, err
	}

	rows := make([]OverviewRow, 0, len(employees))
	for _, emp := range employees {
		row := OverviewRow{
			EmployeeID:  emp.ID,
			EmpCode:     emp.EmpCode,
			Name:        emp.FullName(),
			Designation: emp.Designation,
			Status:      StatusNotGenerated,
		}
		if record, ok := generated[emp.ID]; ok {
			gross, net := record.GrossSalary, record.NetSalary
			row.Generated = true
			row.Status = record.Status
			row.GrossSalary = &gross
			row.NetSalary = &net
		}
		rows = append(rows, row)
	}
	return rows, nil
}
