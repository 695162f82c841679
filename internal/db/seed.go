package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"hrpay/internal/domain/leave"
)

type seedEmployee struct {
	EmpCode     string
	FirstName   string
	LastName    string
	Email       string
	Department  string
	Designation string
	JoiningDate time.Time
	Basic       string
	HRA         string
	Allowances  string
	TaxPct      string
	PFPct       string
}

var demoEmployees = []seedEmployee{
	{
		EmpCode: "EMP-10001", FirstName: "Asha", LastName: "Rao",
		Email: "asha.rao@example.com", Department: "Engineering", Designation: "Senior Engineer",
		JoiningDate: time.Date(2023, time.February, 6, 0, 0, 0, 0, time.UTC),
		Basic:       "40000", HRA: "12000", Allowances: "8000", TaxPct: "10", PFPct: "12",
	},
	{
		EmpCode: "EMP-10002", FirstName: "Rahul", LastName: "Menon",
		Email: "rahul.menon@example.com", Department: "Finance", Designation: "Analyst",
		JoiningDate: time.Date(2024, time.June, 17, 0, 0, 0, 0, time.UTC),
		Basic:       "30000", HRA: "9000", Allowances: "4500", TaxPct: "5", PFPct: "12",
	},
	{
		EmpCode: "EMP-10003", FirstName: "Meera", LastName: "Iyer",
		Email: "meera.iyer@example.com", Department: "People Ops", Designation: "HR Generalist",
		JoiningDate: time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC),
		Basic:       "28000", HRA: "8400", Allowances: "3600", TaxPct: "5", PFPct: "10",
	},
}

// Seed inserts demo employees with salary structures and pro-rated leave
// ledgers. Every statement is idempotent, so repeated startups are safe.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	for _, emp := range demoEmployees {
		id, err := ensureEmployee(ctx, pool, emp)
		if err != nil {
			return err
		}
		if err := ensureSalary(ctx, pool, id, emp); err != nil {
			return err
		}
		if err := ensureBalance(ctx, pool, id, emp.JoiningDate); err != nil {
			return err
		}
	}
	return nil
}

func ensureEmployee(ctx context.Context, pool *pgxpool.Pool, emp seedEmployee) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM employees WHERE emp_code = $1", emp.EmpCode).Scan(&id)
	if err == nil {
		return id, nil
	}

	err = pool.QueryRow(ctx, `
    INSERT INTO employees (emp_code, first_name, last_name, email, department, designation, joining_date, active)
    VALUES ($1,$2,$3,$4,$5,$6,$7,true)
    RETURNING id
  `, emp.EmpCode, emp.FirstName, emp.LastName, emp.Email, emp.Department, emp.Designation, emp.JoiningDate).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensureSalary(ctx context.Context, pool *pgxpool.Pool, employeeID string, emp seedEmployee) error {
	_, err := pool.Exec(ctx, `
    INSERT INTO salary_structures (employee_id, basic_salary, hra, allowances, tax_percentage, pf_percentage)
    VALUES ($1,$2,$3,$4,$5,$6)
    ON CONFLICT (employee_id) DO NOTHING
  `, employeeID,
		decimal.RequireFromString(emp.Basic),
		decimal.RequireFromString(emp.HRA),
		decimal.RequireFromString(emp.Allowances),
		decimal.RequireFromString(emp.TaxPct),
		decimal.RequireFromString(emp.PFPct))
	return err
}

func ensureBalance(ctx context.Context, pool *pgxpool.Pool, employeeID string, joiningDate time.Time) error {
	year := time.Now().Year()
	// Pro-ration only applies to the joining year; earlier joiners get the
	// full annual entitlement.
	if joiningDate.Year() < year {
		joiningDate = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	balance := leave.NewBalance(employeeID, joiningDate, year)
	_, err := pool.Exec(ctx, `
    INSERT INTO leave_balances (employee_id, leave_year, total_pto, used_pto, total_clsl, used_clsl)
    VALUES ($1,$2,$3,$4,$5,$6)
    ON CONFLICT (employee_id, leave_year) DO NOTHING
  `, employeeID, balance.Year, balance.TotalPTO, balance.UsedPTO, balance.TotalCLSL, balance.UsedCLSL)
	return err
}
