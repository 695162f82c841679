package employee

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"hrpay/internal/domain/leave"
)

type fakeStore struct {
	byID     map[string]Employee
	salaries map[string]SalaryStructure
	balances map[string]leave.Balance
	nextID   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		byID:     make(map[string]Employee),
		salaries: make(map[string]SalaryStructure),
		balances: make(map[string]leave.Balance),
	}
}

func (f *fakeStore) EmailExists(ctx context.Context, email, excludeEmployeeID string) (bool, error) {
	for _, e := range f.byID {
		if e.Email == email && e.ID != excludeEmployeeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CodeExists(ctx context.Context, empCode string) (bool, error) {
	for _, e := range f.byID {
		if e.EmpCode == empCode {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Onboard(ctx context.Context, emp Employee, salary SalaryStructure, balance leave.Balance) (Employee, error) {
	f.nextID++
	emp.ID = strings.Repeat("0", f.nextID) // distinct, stable ids
	emp.CreatedAt = time.Now()
	f.byID[emp.ID] = emp
	salary.EmployeeID = emp.ID
	f.salaries[emp.ID] = salary
	balance.EmployeeID = emp.ID
	f.balances[emp.ID] = balance
	return emp, nil
}

func (f *fakeStore) Update(ctx context.Context, emp Employee, salary SalaryStructure) (Employee, error) {
	if _, ok := f.byID[emp.ID]; !ok {
		return Employee{}, ErrNotFound
	}
	f.byID[emp.ID] = emp
	f.salaries[emp.ID] = salary
	return emp, nil
}

func (f *fakeStore) Deactivate(ctx context.Context, employeeID string) error {
	e, ok := f.byID[employeeID]
	if !ok {
		return ErrNotFound
	}
	if !e.Active {
		return ErrAlreadyInactive
	}
	e.Active = false
	f.byID[employeeID] = e
	return nil
}

func (f *fakeStore) FindByCode(ctx context.Context, empCode string) (Employee, error) {
	for _, e := range f.byID {
		if e.EmpCode == empCode {
			return e, nil
		}
	}
	return Employee{}, ErrNotFound
}

func (f *fakeStore) FindByID(ctx context.Context, employeeID string) (Employee, error) {
	e, ok := f.byID[employeeID]
	if !ok {
		return Employee{}, ErrNotFound
	}
	return e, nil
}

func (f *fakeStore) GetSalaryStructure(ctx context.Context, employeeID string) (SalaryStructure, error) {
	s, ok := f.salaries[employeeID]
	if !ok {
		return SalaryStructure{}, ErrSalaryNotFound
	}
	return s, nil
}

func (f *fakeStore) GetBalance(ctx context.Context, employeeID string, year int) (leave.Balance, error) {
	b, ok := f.balances[employeeID]
	if !ok || b.Year != year {
		return leave.Balance{}, leave.ErrLedgerMissing
	}
	return b, nil
}

func (f *fakeStore) ListActive(ctx context.Context) ([]Detail, error) {
	var out []Detail
	for id, e := range f.byID {
		if !e.Active {
			continue
		}
		d := Detail{Employee: e}
		if s, ok := f.salaries[id]; ok {
			salary := s
			d.Salary = &salary
		}
		out = append(out, d)
	}
	return out, nil
}

var _ StoreAPI = (*fakeStore)(nil)

func dec(value string) decimal.Decimal { return decimal.RequireFromString(value) }

func validInput() OnboardInput {
	return OnboardInput{
		FirstName:     "Asha",
		LastName:      "Verma",
		Email:         "asha.verma@example.com",
		Department:    "Engineering",
		Designation:   "Engineer",
		JoiningDate:   time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
		BasicSalary:   dec("40000"),
		HRA:           dec("15000"),
		Allowances:    dec("5000"),
		TaxPercentage: dec("10"),
		PFPercentage:  dec("12"),
	}
}

func TestOnboardCreatesCodeSalaryAndLedger(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	emp, err := svc.Onboard(context.Background(), validInput())
	if err != nil {
		t.Fatalf("onboard failed: %v", err)
	}
	if !strings.HasPrefix(emp.EmpCode, "EMP-") || len(emp.EmpCode) != 9 {
		t.Fatalf("unexpected emp code %q", emp.EmpCode)
	}
	if !emp.Active {
		t.Fatal("onboarded employee must be active")
	}

	salary, err := store.GetSalaryStructure(context.Background(), emp.ID)
	if err != nil {
		t.Fatalf("salary structure missing: %v", err)
	}
	if !salary.BasicSalary.Equal(dec("40000")) {
		t.Fatalf("unexpected basic salary %s", salary.BasicSalary)
	}

	// Joined April 10 (day <= 15): April through December = 9 months.
	balance, err := store.GetBalance(context.Background(), emp.ID, 2025)
	if err != nil {
		t.Fatalf("leave ledger missing: %v", err)
	}
	if !balance.TotalPTO.Equal(dec("13.5")) || !balance.TotalCLSL.Equal(dec("9")) {
		t.Fatalf("unexpected entitlements %s PTO / %s CL-SL", balance.TotalPTO, balance.TotalCLSL)
	}
}

func TestOnboardRejectsDuplicateEmail(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	if _, err := svc.Onboard(context.Background(), validInput()); err != nil {
		t.Fatalf("first onboard failed: %v", err)
	}
	_, err := svc.Onboard(context.Background(), validInput())
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestOnboardRejectsNegativeAmounts(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	in := validInput()
	in.TaxPercentage = dec("-1")
	_, err := svc.Onboard(context.Background(), in)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateKeepsLedgerUntouched(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	emp, err := svc.Onboard(context.Background(), validInput())
	if err != nil {
		t.Fatalf("onboard failed: %v", err)
	}
	before, _ := store.GetBalance(context.Background(), emp.ID, 2025)

	in := validInput()
	in.Designation = "Senior Engineer"
	in.BasicSalary = dec("52000")
	updated, err := svc.Update(context.Background(), emp.EmpCode, in)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Designation != "Senior Engineer" {
		t.Fatalf("designation not updated: %q", updated.Designation)
	}

	after, _ := store.GetBalance(context.Background(), emp.ID, 2025)
	if !after.TotalPTO.Equal(before.TotalPTO) || !after.UsedPTO.Equal(before.UsedPTO) {
		t.Fatal("update must not touch the leave ledger")
	}
}

func TestDeactivateTwiceFails(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	emp, err := svc.Onboard(context.Background(), validInput())
	if err != nil {
		t.Fatalf("onboard failed: %v", err)
	}
	if err := svc.Deactivate(context.Background(), emp.EmpCode); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if err := svc.Deactivate(context.Background(), emp.EmpCode); !errors.Is(err, ErrAlreadyInactive) {
		t.Fatalf("expected ErrAlreadyInactive, got %v", err)
	}
}

func TestGetByCodeIncludesSalaryAndBalance(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	svc.now = func() time.Time { return time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC) }

	emp, err := svc.Onboard(context.Background(), validInput())
	if err != nil {
		t.Fatalf("onboard failed: %v", err)
	}

	detail, err := svc.GetByCode(context.Background(), emp.EmpCode)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if detail.Salary == nil || detail.Balance == nil {
		t.Fatalf("expected salary and balance, got %+v", detail)
	}
	if detail.FullName() != "Asha Verma" {
		t.Fatalf("unexpected full name %q", detail.FullName())
	}
}

func TestGetByCodeUnknown(t *testing.T) {
	svc := NewService(newFakeStore())
	if _, err := svc.GetByCode(context.Background(), "EMP-99999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
