package payroll

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrpay/internal/domain/employee"
	"hrpay/internal/domain/leave"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

var _ StoreAPI = (*Store)(nil)

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (employee.Employee, error) {
	var e employee.Employee
	err := s.DB.QueryRow(ctx, `
    SELECT id, emp_code, first_name, middle_name, last_name, email,
           department, designation, joining_date, active, created_at
    FROM employees
    WHERE id = $1
  `, employeeID).Scan(&e.ID, &e.EmpCode, &e.FirstName, &e.MiddleName, &e.LastName, &e.Email,
		&e.Department, &e.Designation, &e.JoiningDate, &e.Active, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.Employee{}, employee.ErrNotFound
	}
	if err != nil {
		return employee.Employee{}, err
	}
	return e, nil
}

func (s *Store) GetSalaryStructure(ctx context.Context, employeeID string) (employee.SalaryStructure, error) {
	var sal employee.SalaryStructure
	err := s.DB.QueryRow(ctx, `
    SELECT employee_id, basic_salary, hra, allowances, tax_percentage, pf_percentage
    FROM salary_structures
    WHERE employee_id = $1
  `, employeeID).Scan(&sal.EmployeeID, &sal.BasicSalary, &sal.HRA, &sal.Allowances, &sal.TaxPercentage, &sal.PFPercentage)
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.SalaryStructure{}, employee.ErrSalaryNotFound
	}
	if err != nil {
		return employee.SalaryStructure{}, err
	}
	return sal, nil
}

func (s *Store) ListApprovedLeaves(ctx context.Context, employeeID string, from, to time.Time) ([]LeaveInterval, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT from_date, to_date
    FROM leave_requests
    WHERE employee_id = $1 AND status = $2 AND from_date <= $3 AND to_date >= $4
  `, employeeID, leave.StatusApproved, to, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaveInterval
	for rows.Next() {
		var li LeaveInterval
		if err := rows.Scan(&li.FromDate, &li.ToDate); err != nil {
			return nil, err
		}
		out = append(out, li)
	}
	return out, rows.Err()
}

func (s *Store) InsertPayroll(ctx context.Context, p Payroll) (Payroll, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payrolls (employee_id, pay_month, gross_salary, pf_amount, tax_amount,
                          leave_deduction, total_deductions, net_salary,
                          working_days, paid_days, lop_days, status, processed_date)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    RETURNING id
  `, p.EmployeeID, p.PayMonth.String(), p.GrossSalary, p.PFAmount, p.TaxAmount,
		p.LeaveDeduction, p.TotalDeductions, p.NetSalary,
		p.WorkingDays, p.PaidDays, p.LOPDays, p.Status, p.ProcessedDate).Scan(&p.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Payroll{}, ErrAlreadyGenerated
		}
		return Payroll{}, err
	}
	return p, nil
}

const payrollColumns = `
  id, employee_id, pay_month, gross_salary, pf_amount, tax_amount,
  leave_deduction, total_deductions, net_salary,
  working_days, paid_days, lop_days, status, processed_date
`

func scanPayroll(row pgx.Row) (Payroll, error) {
	var p Payroll
	var payMonth string
	err := row.Scan(&p.ID, &p.EmployeeID, &payMonth, &p.GrossSalary, &p.PFAmount, &p.TaxAmount,
		&p.LeaveDeduction, &p.TotalDeductions, &p.NetSalary,
		&p.WorkingDays, &p.PaidDays, &p.LOPDays, &p.Status, &p.ProcessedDate)
	if err != nil {
		return Payroll{}, err
	}
	m, err := ParseMonth(payMonth)
	if err != nil {
		return Payroll{}, err
	}
	p.PayMonth = m
	return p, nil
}

func (s *Store) FindPayroll(ctx context.Context, employeeID string, m Month) (Payroll, error) {
	p, err := scanPayroll(s.DB.QueryRow(ctx, `
    SELECT `+payrollColumns+` FROM payrolls WHERE employee_id = $1 AND pay_month = $2
  `, employeeID, m.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return Payroll{}, ErrNotGenerated
	}
	return p, err
}

func (s *Store) ListForMonth(ctx context.Context, m Month) (map[string]Payroll, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+payrollColumns+` FROM payrolls WHERE pay_month = $1
  `, m.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]Payroll)
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, err
		}
		out[p.EmployeeID] = p
	}
	return out, rows.Err()
}

func (s *Store) ListActiveEmployees(ctx context.Context) ([]employee.Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, emp_code, first_name, middle_name, last_name, email,
           department, designation, joining_date, active, created_at
    FROM employees
    WHERE active
    ORDER BY created_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []employee.Employee
	for rows.Next() {
		var e employee.Employee
		if err := rows.Scan(&e.ID, &e.EmpCode, &e.FirstName, &e.MiddleName, &e.LastName, &e.Email,
			&e.Department, &e.Designation, &e.JoiningDate, &e.Active, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
