package leave

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

var _ StoreAPI = (*Store)(nil)

func (s *Store) FindEmployeeByCode(ctx context.Context, empCode string) (EmployeeRef, error) {
	var ref EmployeeRef
	err := s.DB.QueryRow(ctx, `
    SELECT id, emp_code, active
    FROM employees
    WHERE emp_code = $1
  `, empCode).Scan(&ref.ID, &ref.EmpCode, &ref.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return EmployeeRef{}, ErrEmployeeNotFound
	}
	if err != nil {
		return EmployeeRef{}, err
	}
	return ref, nil
}

func (s *Store) GetBalance(ctx context.Context, employeeID string, year int) (Balance, error) {
	var b Balance
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, leave_year, total_pto, used_pto, total_clsl, used_clsl
    FROM leave_balances
    WHERE employee_id = $1 AND leave_year = $2
  `, employeeID, year).Scan(&b.ID, &b.EmployeeID, &b.Year, &b.TotalPTO, &b.UsedPTO, &b.TotalCLSL, &b.UsedCLSL)
	if errors.Is(err, pgx.ErrNoRows) {
		return Balance{}, ErrLedgerMissing
	}
	if err != nil {
		return Balance{}, err
	}
	return b, nil
}

func (s *Store) CreateBalance(ctx context.Context, balance Balance) (Balance, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_balances (employee_id, leave_year, total_pto, used_pto, total_clsl, used_clsl)
    VALUES ($1,$2,$3,$4,$5,$6)
    ON CONFLICT (employee_id, leave_year) DO NOTHING
    RETURNING id
  `, balance.EmployeeID, balance.Year, balance.TotalPTO, balance.UsedPTO, balance.TotalCLSL, balance.UsedCLSL).Scan(&balance.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		// Ledger already exists for this employee/year; it is never superseded
		// mid-year, so return the stored row.
		return s.GetBalance(ctx, balance.EmployeeID, balance.Year)
	}
	if err != nil {
		return Balance{}, err
	}
	return balance, nil
}

func (s *Store) CreateRequest(ctx context.Context, req Request) (Request, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (employee_id, leave_type, from_date, to_date, total_days, status, applied_date, reason)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, req.EmployeeID, req.LeaveType, req.FromDate, req.ToDate, req.TotalDays, req.Status, req.AppliedDate, req.Reason).Scan(&req.ID)
	if err != nil {
		return Request{}, err
	}
	return req, nil
}

func (s *Store) ListRequests(ctx context.Context, empCode string) ([]RequestDetail, error) {
	query := `
    SELECT r.id, r.employee_id, r.leave_type, r.from_date, r.to_date, r.total_days,
           r.status, r.applied_date, r.reason,
           e.emp_code, e.first_name, e.middle_name, e.last_name
    FROM leave_requests r
    JOIN employees e ON r.employee_id = e.id
  `
	args := []any{}
	if empCode != "" {
		query += " WHERE e.emp_code = $1"
		args = append(args, empCode)
	}
	query += " ORDER BY r.applied_date DESC, r.id"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RequestDetail
	for rows.Next() {
		var d RequestDetail
		if err := rows.Scan(&d.ID, &d.EmployeeID, &d.LeaveType, &d.FromDate, &d.ToDate, &d.TotalDays,
			&d.Status, &d.AppliedDate, &d.Reason,
			&d.EmpCode, &d.FirstName, &d.MiddleName, &d.LastName); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ApproveRequest debits the ledger and flips the request to APPROVED inside
// one transaction. The request row is locked first, then the debit is a
// conditional update that only commits while used + days <= total; a second
// approver therefore sees the first debit and fails with
// ErrInsufficientBalance instead of overdrawing the pool.
func (s *Store) ApproveRequest(ctx context.Context, requestID string) (Request, error) {
	var req Request
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var err error
		req, err = lockRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if req.Status != StatusPending {
			return ErrAlreadyDecided
		}

		if req.TotalDays > 0 {
			if err := debitBalance(ctx, tx, req); err != nil {
				return err
			}
		}

		if _, err := tx.Exec(ctx, `
      UPDATE leave_requests SET status = $1 WHERE id = $2
    `, StatusApproved, req.ID); err != nil {
			return err
		}
		req.Status = StatusApproved
		return nil
	})
	if err != nil {
		return Request{}, err
	}
	return req, nil
}

func (s *Store) RejectRequest(ctx context.Context, requestID string) (Request, error) {
	var req Request
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var err error
		req, err = lockRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if req.Status != StatusPending {
			return ErrAlreadyDecided
		}
		if _, err := tx.Exec(ctx, `
      UPDATE leave_requests SET status = $1 WHERE id = $2
    `, StatusRejected, req.ID); err != nil {
			return err
		}
		req.Status = StatusRejected
		return nil
	})
	if err != nil {
		return Request{}, err
	}
	return req, nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func lockRequest(ctx context.Context, tx pgx.Tx, requestID string) (Request, error) {
	var req Request
	err := tx.QueryRow(ctx, `
    SELECT id, employee_id, leave_type, from_date, to_date, total_days, status, applied_date, reason
    FROM leave_requests
    WHERE id = $1
    FOR UPDATE
  `, requestID).Scan(&req.ID, &req.EmployeeID, &req.LeaveType, &req.FromDate, &req.ToDate,
		&req.TotalDays, &req.Status, &req.AppliedDate, &req.Reason)
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrRequestNotFound
	}
	if err != nil {
		return Request{}, err
	}
	return req, nil
}

func debitBalance(ctx context.Context, tx pgx.Tx, req Request) error {
	query := `
    UPDATE leave_balances
    SET used_pto = used_pto + $1, updated_at = now()
    WHERE employee_id = $2 AND leave_year = $3 AND used_pto + $1 <= total_pto
  `
	if req.LeaveType == TypeCLSL {
		query = `
    UPDATE leave_balances
    SET used_clsl = used_clsl + $1, updated_at = now()
    WHERE employee_id = $2 AND leave_year = $3 AND used_clsl + $1 <= total_clsl
  `
	}

	tag, err := tx.Exec(ctx, query, req.TotalDays, req.EmployeeID, req.FromDate.Year())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `
      SELECT EXISTS (SELECT 1 FROM leave_balances WHERE employee_id = $1 AND leave_year = $2)
    `, req.EmployeeID, req.FromDate.Year()).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrLedgerMissing
		}
		return ErrInsufficientBalance
	}
	return nil
}
