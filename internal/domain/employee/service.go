package employee

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hrpay/internal/domain/leave"
)

const maxCodeAttempts = 10

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

// OnboardInput carries both the personal record and the salary structure;
// the two are onboarded together.
type OnboardInput struct {
	FirstName     string
	MiddleName    string
	LastName      string
	Email         string
	Department    string
	Designation   string
	JoiningDate   time.Time
	BasicSalary   decimal.Decimal
	HRA           decimal.Decimal
	Allowances    decimal.Decimal
	TaxPercentage decimal.Decimal
	PFPercentage  decimal.Decimal
}

func (in OnboardInput) validate() error {
	switch {
	case strings.TrimSpace(in.FirstName) == "":
		return fmt.Errorf("%w: first name is required", ErrInvalidInput)
	case strings.TrimSpace(in.LastName) == "":
		return fmt.Errorf("%w: last name is required", ErrInvalidInput)
	case strings.TrimSpace(in.Email) == "":
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	case in.JoiningDate.IsZero():
		return fmt.Errorf("%w: joining date is required", ErrInvalidInput)
	}
	amounts := map[string]decimal.Decimal{
		"basic salary":   in.BasicSalary,
		"hra":            in.HRA,
		"allowances":     in.Allowances,
		"tax percentage": in.TaxPercentage,
		"pf percentage":  in.PFPercentage,
	}
	for name, amount := range amounts {
		if amount.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, name)
		}
	}
	return nil
}

func (in OnboardInput) salary(employeeID string) SalaryStructure {
	return SalaryStructure{
		EmployeeID:    employeeID,
		BasicSalary:   in.BasicSalary,
		HRA:           in.HRA,
		Allowances:    in.Allowances,
		TaxPercentage: in.TaxPercentage,
		PFPercentage:  in.PFPercentage,
	}
}

// Onboard creates the employee with a fresh EMP code, its salary structure
// and the joining year's pro-rated leave ledger in one transaction.
func (s *Service) Onboard(ctx context.Context, in OnboardInput) (Employee, error) {
	if err := in.validate(); err != nil {
		return Employee{}, err
	}

	exists, err := s.store.EmailExists(ctx, strings.TrimSpace(in.Email), "")
	if err != nil {
		return Employee{}, err
	}
	if exists {
		return Employee{}, ErrEmailExists
	}

	code, err := s.generateEmpCode(ctx)
	if err != nil {
		return Employee{}, err
	}

	emp := Employee{
		EmpCode:     code,
		FirstName:   strings.TrimSpace(in.FirstName),
		MiddleName:  strings.TrimSpace(in.MiddleName),
		LastName:    strings.TrimSpace(in.LastName),
		Email:       strings.TrimSpace(in.Email),
		Department:  strings.TrimSpace(in.Department),
		Designation: strings.TrimSpace(in.Designation),
		JoiningDate: in.JoiningDate,
		Active:      true,
	}
	balance := leave.NewBalance("", in.JoiningDate, in.JoiningDate.Year())

	return s.store.Onboard(ctx, emp, in.salary(""), balance)
}

// Update rewrites the personal record and salary structure for an existing
// employee. The leave ledger is untouched; entitlement is fixed at
// onboarding.
func (s *Service) Update(ctx context.Context, empCode string, in OnboardInput) (Employee, error) {
	if err := in.validate(); err != nil {
		return Employee{}, err
	}

	emp, err := s.store.FindByCode(ctx, strings.TrimSpace(empCode))
	if err != nil {
		return Employee{}, err
	}

	exists, err := s.store.EmailExists(ctx, strings.TrimSpace(in.Email), emp.ID)
	if err != nil {
		return Employee{}, err
	}
	if exists {
		return Employee{}, ErrEmailExists
	}

	emp.FirstName = strings.TrimSpace(in.FirstName)
	emp.MiddleName = strings.TrimSpace(in.MiddleName)
	emp.LastName = strings.TrimSpace(in.LastName)
	emp.Email = strings.TrimSpace(in.Email)
	emp.Department = strings.TrimSpace(in.Department)
	emp.Designation = strings.TrimSpace(in.Designation)
	emp.JoiningDate = in.JoiningDate

	return s.store.Update(ctx, emp, in.salary(emp.ID))
}

// Deactivate marks the employee inactive; records referencing it remain.
func (s *Service) Deactivate(ctx context.Context, empCode string) error {
	emp, err := s.store.FindByCode(ctx, strings.TrimSpace(empCode))
	if err != nil {
		return err
	}
	return s.store.Deactivate(ctx, emp.ID)
}

func (s *Service) ListActive(ctx context.Context) ([]Detail, error) {
	return s.store.ListActive(ctx)
}

// GetByCode returns the employee with salary structure and the current
// year's leave balance when they exist.
func (s *Service) GetByCode(ctx context.Context, empCode string) (Detail, error) {
	emp, err := s.store.FindByCode(ctx, strings.TrimSpace(empCode))
	if err != nil {
		return Detail{}, err
	}
	detail := Detail{Employee: emp}

	if salary, err := s.store.GetSalaryStructure(ctx, emp.ID); err == nil {
		detail.Salary = &salary
	} else if err != ErrSalaryNotFound {
		return Detail{}, err
	}

	if balance, err := s.store.GetBalance(ctx, emp.ID, s.now().Year()); err == nil {
		detail.Balance = &balance
	} else if err != leave.ErrLedgerMissing {
		return Detail{}, err
	}

	return detail, nil
}

func (s *Service) generateEmpCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := fmt.Sprintf("EMP-%d", 10000+rand.Intn(90000))
		exists, err := s.store.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique employee code")
}
