package leave

import "context"

// StoreAPI is the durable-store contract for the request engine. ApproveRequest
// must execute its ledger debit and status transition as one atomic unit: two
// concurrent approvals for the same pool serialize, and the loser observes
// the winner's debit before deciding sufficiency.
type StoreAPI interface {
	FindEmployeeByCode(ctx context.Context, empCode string) (EmployeeRef, error)
	GetBalance(ctx context.Context, employeeID string, year int) (Balance, error)
	CreateBalance(ctx context.Context, balance Balance) (Balance, error)
	CreateRequest(ctx context.Context, req Request) (Request, error)
	ListRequests(ctx context.Context, empCode string) ([]RequestDetail, error)
	ApproveRequest(ctx context.Context, requestID string) (Request, error)
	RejectRequest(ctx context.Context, requestID string) (Request, error)
}
