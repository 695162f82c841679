package employee

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"hrpay/internal/domain/leave"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

var _ StoreAPI = (*Store)(nil)

func (s *Store) EmailExists(ctx context.Context, email, excludeEmployeeID string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (
      SELECT 1 FROM employees WHERE email = $1 AND ($2 = '' OR id::text <> $2)
    )
  `, email, excludeEmployeeID).Scan(&exists)
	return exists, err
}

func (s *Store) CodeExists(ctx context.Context, empCode string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (SELECT 1 FROM employees WHERE emp_code = $1)
  `, empCode).Scan(&exists)
	return exists, err
}

func (s *Store) Onboard(ctx context.Context, emp Employee, salary SalaryStructure, balance leave.Balance) (Employee, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Employee{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
    INSERT INTO employees (emp_code, first_name, middle_name, last_name, email, department, designation, joining_date, active)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,TRUE)
    RETURNING id, created_at
  `, emp.EmpCode, emp.FirstName, emp.MiddleName, emp.LastName, emp.Email,
		emp.Department, emp.Designation, emp.JoiningDate).Scan(&emp.ID, &emp.CreatedAt)
	if err != nil {
		return Employee{}, translateUnique(err)
	}
	emp.Active = true

	if _, err := tx.Exec(ctx, `
    INSERT INTO salary_structures (employee_id, basic_salary, hra, allowances, tax_percentage, pf_percentage)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, emp.ID, salary.BasicSalary, salary.HRA, salary.Allowances, salary.TaxPercentage, salary.PFPercentage); err != nil {
		return Employee{}, err
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO leave_balances (employee_id, leave_year, total_pto, used_pto, total_clsl, used_clsl)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, emp.ID, balance.Year, balance.TotalPTO, balance.UsedPTO, balance.TotalCLSL, balance.UsedCLSL); err != nil {
		return Employee{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Employee{}, err
	}
	return emp, nil
}

func (s *Store) Update(ctx context.Context, emp Employee, salary SalaryStructure) (Employee, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Employee{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
    UPDATE employees
    SET first_name = $1, middle_name = $2, last_name = $3, email = $4,
        department = $5, designation = $6, joining_date = $7
    WHERE id = $8
  `, emp.FirstName, emp.MiddleName, emp.LastName, emp.Email,
		emp.Department, emp.Designation, emp.JoiningDate, emp.ID)
	if err != nil {
		return Employee{}, translateUnique(err)
	}
	if tag.RowsAffected() == 0 {
		return Employee{}, ErrNotFound
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO salary_structures (employee_id, basic_salary, hra, allowances, tax_percentage, pf_percentage)
    VALUES ($1,$2,$3,$4,$5,$6)
    ON CONFLICT (employee_id) DO UPDATE SET
      basic_salary = EXCLUDED.basic_salary,
      hra = EXCLUDED.hra,
      allowances = EXCLUDED.allowances,
      tax_percentage = EXCLUDED.tax_percentage,
      pf_percentage = EXCLUDED.pf_percentage,
      updated_at = now()
  `, emp.ID, salary.BasicSalary, salary.HRA, salary.Allowances, salary.TaxPercentage, salary.PFPercentage); err != nil {
		return Employee{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Employee{}, err
	}
	return emp, nil
}

func (s *Store) Deactivate(ctx context.Context, employeeID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees SET active = FALSE WHERE id = $1 AND active
  `, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := s.DB.QueryRow(ctx, `
      SELECT EXISTS (SELECT 1 FROM employees WHERE id = $1)
    `, employeeID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrAlreadyInactive
	}
	return nil
}

const employeeColumns = `
  id, emp_code, first_name, middle_name, last_name, email,
  department, designation, joining_date, active, created_at
`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.EmpCode, &e.FirstName, &e.MiddleName, &e.LastName, &e.Email,
		&e.Department, &e.Designation, &e.JoiningDate, &e.Active, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	if err != nil {
		return Employee{}, err
	}
	return e, nil
}

func (s *Store) FindByCode(ctx context.Context, empCode string) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+` FROM employees WHERE emp_code = $1
  `, empCode))
}

func (s *Store) FindByID(ctx context.Context, employeeID string) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+` FROM employees WHERE id = $1
  `, employeeID))
}

func (s *Store) GetSalaryStructure(ctx context.Context, employeeID string) (SalaryStructure, error) {
	var sal SalaryStructure
	err := s.DB.QueryRow(ctx, `
    SELECT employee_id, basic_salary, hra, allowances, tax_percentage, pf_percentage
    FROM salary_structures
    WHERE employee_id = $1
  `, employeeID).Scan(&sal.EmployeeID, &sal.BasicSalary, &sal.HRA, &sal.Allowances, &sal.TaxPercentage, &sal.PFPercentage)
	if errors.Is(err, pgx.ErrNoRows) {
		return SalaryStructure{}, ErrSalaryNotFound
	}
	if err != nil {
		return SalaryStructure{}, err
	}
	return sal, nil
}

func (s *Store) GetBalance(ctx context.Context, employeeID string, year int) (leave.Balance, error) {
	var b leave.Balance
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, leave_year, total_pto, used_pto, total_clsl, used_clsl
    FROM leave_balances
    WHERE employee_id = $1 AND leave_year = $2
  `, employeeID, year).Scan(&b.ID, &b.EmployeeID, &b.Year, &b.TotalPTO, &b.UsedPTO, &b.TotalCLSL, &b.UsedCLSL)
	if errors.Is(err, pgx.ErrNoRows) {
		return leave.Balance{}, leave.ErrLedgerMissing
	}
	if err != nil {
		return leave.Balance{}, err
	}
	return b, nil
}

func (s *Store) ListActive(ctx context.Context) ([]Detail, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, e.emp_code, e.first_name, e.middle_name, e.last_name, e.email,
           e.department, e.designation, e.joining_date, e.active, e.created_at,
           s.basic_salary, s.hra, s.allowances, s.tax_percentage, s.pf_percentage
    FROM employees e
    LEFT JOIN salary_structures s ON s.employee_id = e.id
    WHERE e.active
    ORDER BY e.created_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Detail
	for rows.Next() {
		var d Detail
		var basic, hra, allowances, tax, pf decimal.NullDecimal
		if err := rows.Scan(&d.ID, &d.EmpCode, &d.FirstName, &d.MiddleName, &d.LastName, &d.Email,
			&d.Department, &d.Designation, &d.JoiningDate, &d.Active, &d.CreatedAt,
			&basic, &hra, &allowances, &tax, &pf); err != nil {
			return nil, err
		}
		if basic.Valid {
			d.Salary = &SalaryStructure{
				EmployeeID:    d.ID,
				BasicSalary:   basic.Decimal,
				HRA:           hra.Decimal,
				Allowances:    allowances.Decimal,
				TaxPercentage: tax.Decimal,
				PFPercentage:  pf.Decimal,
			}
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func translateUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailExists
	}
	return err
}
