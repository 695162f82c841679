package payroll

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"hrpay/internal/domain/employee"
)

type fakeStore struct {
	mu        sync.Mutex
	employees map[string]employee.Employee
	salaries  map[string]employee.SalaryStructure
	leaves    map[string][]LeaveInterval
	payrolls  map[string]Payroll // keyed employeeID|month
	inserts   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		employees: make(map[string]employee.Employee),
		salaries:  make(map[string]employee.SalaryStructure),
		leaves:    make(map[string][]LeaveInterval),
		payrolls:  make(map[string]Payroll),
	}
}

func payrollKey(employeeID string, m Month) string {
	return employeeID + "|" + m.String()
}

func (f *fakeStore) GetEmployee(_ context.Context, employeeID string) (employee.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.employees[employeeID]
	if !ok {
		return employee.Employee{}, employee.ErrNotFound
	}
	return e, nil
}

func (f *fakeStore) GetSalaryStructure(_ context.Context, employeeID string) (employee.SalaryStructure, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.salaries[employeeID]
	if !ok {
		return employee.SalaryStructure{}, employee.ErrSalaryNotFound
	}
	return s, nil
}

func (f *fakeStore) ListApprovedLeaves(_ context.Context, employeeID string, from, to time.Time) ([]LeaveInterval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []LeaveInterval
	for _, li := range f.leaves[employeeID] {
		if !li.FromDate.After(to) && !li.ToDate.Before(from) {
			out = append(out, li)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertPayroll(_ context.Context, p Payroll) (Payroll, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := payrollKey(p.EmployeeID, p.PayMonth)
	if _, exists := f.payrolls[key]; exists {
		return Payroll{}, ErrAlreadyGenerated
	}
	f.inserts++
	p.ID = fmt.Sprintf("pr-%d", f.inserts)
	f.payrolls[key] = p
	return p, nil
}

func (f *fakeStore) FindPayroll(_ context.Context, employeeID string, m Month) (Payroll, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payrolls[payrollKey(employeeID, m)]
	if !ok {
		return Payroll{}, ErrNotGenerated
	}
	return p, nil
}

func (f *fakeStore) ListForMonth(_ context.Context, m Month) (map[string]Payroll, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]Payroll)
	for _, p := range f.payrolls {
		if p.PayMonth == m {
			out[p.EmployeeID] = p
		}
	}
	return out, nil
}

func (f *fakeStore) ListActiveEmployees(_ context.Context) ([]employee.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []employee.Employee
	for _, e := range f.employees {
		if e.Active {
			out = append(out, e)
		}
	}
	return out, nil
}

var _ StoreAPI = (*fakeStore)(nil)

func newTestService(store *fakeStore) *Service {
	svc := NewService(store)
	svc.now = func() time.Time { return date(2025, 2, 1) }
	return svc
}

func seedEmployee(store *fakeStore, id string) {
	store.employees[id] = employee.Employee{
		ID:          id,
		EmpCode:     "EMP-" + id,
		FirstName:   "Asha",
		LastName:    "Rao",
		Designation: "Engineer",
		JoiningDate: date(2024, 3, 1),
		Active:      true,
	}
	store.salaries[id] = employee.SalaryStructure{
		EmployeeID:    id,
		BasicSalary:   dec("40000"),
		HRA:           dec("12000"),
		Allowances:    dec("8000"),
		TaxPercentage: dec("10"),
		PFPercentage:  dec("12"),
	}
}

func TestCalculatePersistsOnce(t *testing.T) {
	store := newFakeStore()
	seedEmployee(store, "e1")
	svc := newTestService(store)
	m := Month{2025, time.January}

	p, err := svc.Calculate(context.Background(), "e1", m)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if p.ID == "" {
		t.Fatal("expected persisted record to carry an id")
	}
	if !p.NetSalary.Equal(dec("46800.00")) { // no leaves taken
		t.Fatalf("net = %s, want 46800.00", p.NetSalary)
	}

	if _, err := svc.Calculate(context.Background(), "e1", m); !errors.Is(err, ErrAlreadyGenerated) {
		t.Fatalf("second calculate err = %v, want ErrAlreadyGenerated", err)
	}
	if store.inserts != 1 {
		t.Fatalf("inserts = %d, want 1", store.inserts)
	}
}

func TestCalculateUnknownEmployee(t *testing.T) {
	svc := newTestService(newFakeStore())
	if _, err := svc.Calculate(context.Background(), "ghost", Month{2025, time.January}); !errors.Is(err, employee.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCalculateMissingSalary(t *testing.T) {
	store := newFakeStore()
	seedEmployee(store, "e1")
	delete(store.salaries, "e1")
	svc := newTestService(store)

	if _, err := svc.Calculate(context.Background(), "e1", Month{2025, time.January}); !errors.Is(err, employee.ErrSalaryNotFound) {
		t.Fatalf("err = %v, want ErrSalaryNotFound", err)
	}
}

func TestCalculateCountsOnlyOverlappingLeave(t *testing.T) {
	store := newFakeStore()
	seedEmployee(store, "e1")
	store.leaves["e1"] = []LeaveInterval{
		{date(2025, 1, 13), date(2025, 1, 15)}, // in month
		{date(2025, 2, 3), date(2025, 2, 5)},   // next month, ignored
	}
	svc := newTestService(store)

	p, err := svc.Calculate(context.Background(), "e1", Month{2025, time.January})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if p.LOPDays != 1 {
		t.Fatalf("lop days = %d, want 1", p.LOPDays)
	}
	if !p.NetSalary.Equal(dec("44191.30")) {
		t.Fatalf("net = %s, want 44191.30", p.NetSalary)
	}
}

func TestGetOrGenerateIsIdempotent(t *testing.T) {
	store := newFakeStore()
	seedEmployee(store, "e1")
	svc := newTestService(store)
	m := Month{2025, time.January}

	first, err := svc.GetOrGenerate(context.Background(), "e1", m)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := svc.GetOrGenerate(context.Background(), "e1", m)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("ids differ: %q vs %q", first.ID, second.ID)
	}
	if store.inserts != 1 {
		t.Fatalf("inserts = %d, want 1", store.inserts)
	}
}

func TestGetOrGenerateConcurrentSingleRecord(t *testing.T) {
	store := newFakeStore()
	seedEmployee(store, "e1")
	svc := newTestService(store)
	m := Month{2025, time.January}

	const callers = 8
	results := make([]Payroll, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.GetOrGenerate(context.Background(), "e1", m)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if results[i].ID != results[0].ID {
			t.Fatalf("caller %d got record %q, caller 0 got %q", i, results[i].ID, results[0].ID)
		}
	}
	if store.inserts != 1 {
		t.Fatalf("inserts = %d, want 1", store.inserts)
	}
}

func TestGetNeverGenerates(t *testing.T) {
	store := newFakeStore()
	seedEmployee(store, "e1")
	svc := newTestService(store)
	m := Month{2025, time.January}

	if _, err := svc.Get(context.Background(), "e1", m); !errors.Is(err, ErrNotGenerated) {
		t.Fatalf("err = %v, want ErrNotGenerated", err)
	}
	if store.inserts != 0 {
		t.Fatalf("read path inserted %d records", store.inserts)
	}
}

func TestMonthOverviewPlaceholders(t *testing.T) {
	store := newFakeStore()
	seedEmployee(store, "e1")
	seedEmployee(store, "e2")
	svc := newTestService(store)
	m := Month{2025, time.January}

	if _, err := svc.Calculate(context.Background(), "e1", m); err != nil {
		t.Fatalf("calculate: %v", err)
	}

	rows, err := svc.MonthOverview(context.Background(), m)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	byID := make(map[string]OverviewRow)
	for _, row := range rows {
		byID[row.EmployeeID] = row
	}

	done := byID["e1"]
	if !done.Generated || done.Status != StatusGenerated || done.NetSalary == nil {
		t.Fatalf("generated row wrong: %+v", done)
	}
	pending := byID["e2"]
	if pending.Generated || pending.Status != StatusNotGenerated || pending.NetSalary != nil {
		t.Fatalf("placeholder row wrong: %+v", pending)
	}
	if store.inserts != 1 {
		t.Fatalf("overview generated records: inserts = %d", store.inserts)
	}
}

func TestPayslipRequiresGeneratedRecord(t *testing.T) {
	store := newFakeStore()
	seedEmployee(store, "e1")
	svc := newTestService(store)
	m := Month{2025, time.January}

	if _, _, err := svc.Payslip(context.Background(), "e1", m); !errors.Is(err, ErrNotGenerated) {
		t.Fatalf("err = %v, want ErrNotGenerated", err)
	}

	if _, err := svc.Calculate(context.Background(), "e1", m); err != nil {
		t.Fatalf("calculate: %v", err)
	}

	data, pdf, err := svc.Payslip(context.Background(), "e1", m)
	if err != nil {
		t.Fatalf("payslip: %v", err)
	}
	if data.Name != "Asha Rao" || data.EmpCode != "EMP-e1" {
		t.Fatalf("payslip data: %+v", data)
	}
	if len(pdf) == 0 {
		t.Fatal("empty pdf output")
	}
}
