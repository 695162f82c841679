package leave

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Service drives the request state machine: PENDING -> APPROVED | REJECTED,
// both terminal. Applying reserves nothing; the ledger is debited only when
// a request is approved.
type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

type ApplyInput struct {
	EmpCode   string
	LeaveType string
	FromDate  time.Time
	ToDate    time.Time
	Reason    string
}

// Apply validates the request against the employee's ledger for the
// from-date's year and persists it as PENDING. The day count is fixed here
// and never recomputed.
func (s *Service) Apply(ctx context.Context, in ApplyInput) (Request, error) {
	if !validType(in.LeaveType) {
		return Request{}, ErrInvalidType
	}

	days, err := BusinessDays(in.FromDate, in.ToDate)
	if err != nil {
		return Request{}, err
	}

	emp, err := s.store.FindEmployeeByCode(ctx, strings.TrimSpace(in.EmpCode))
	if err != nil {
		return Request{}, err
	}

	balance, err := s.store.GetBalance(ctx, emp.ID, in.FromDate.Year())
	if err != nil {
		return Request{}, err
	}

	if balance.Remaining(in.LeaveType).LessThan(decimal.NewFromInt(int64(days))) {
		return Request{}, ErrInsufficientBalance
	}

	return s.store.CreateRequest(ctx, Request{
		EmployeeID:  emp.ID,
		LeaveType:   in.LeaveType,
		FromDate:    in.FromDate,
		ToDate:      in.ToDate,
		TotalDays:   days,
		Status:      StatusPending,
		AppliedDate: s.now().UTC().Truncate(24 * time.Hour),
		Reason:      in.Reason,
	})
}

// Approve transitions PENDING -> APPROVED and debits the pool by the
// request's fixed day count. Sufficiency is re-validated inside the store's
// atomic unit, so a balance exhausted by a concurrent approval surfaces as
// ErrInsufficientBalance here.
func (s *Service) Approve(ctx context.Context, requestID string) (Request, error) {
	return s.store.ApproveRequest(ctx, requestID)
}

// Reject transitions PENDING -> REJECTED. The ledger is untouched.
func (s *Service) Reject(ctx context.Context, requestID string) (Request, error) {
	return s.store.RejectRequest(ctx, requestID)
}

// List returns all requests, or the requests of one employee when empCode
// is non-empty.
func (s *Service) List(ctx context.Context, empCode string) ([]RequestDetail, error) {
	return s.store.ListRequests(ctx, strings.TrimSpace(empCode))
}

// Balance returns the ledger backing an employee's given year.
func (s *Service) Balance(ctx context.Context, empCode string, year int) (Balance, error) {
	emp, err := s.store.FindEmployeeByCode(ctx, strings.TrimSpace(empCode))
	if err != nil {
		return Balance{}, err
	}
	return s.store.GetBalance(ctx, emp.ID, year)
}
