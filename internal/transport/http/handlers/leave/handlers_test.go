package leavehandler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"hrpay/internal/domain/leave"
)

type stubStore struct {
	employees map[string]leave.EmployeeRef
	balances  map[string]leave.Balance
	requests  map[string]leave.Request
	nextID    int
}

func newStubStore() *stubStore {
	return &stubStore{
		employees: make(map[string]leave.EmployeeRef),
		balances:  make(map[string]leave.Balance),
		requests:  make(map[string]leave.Request),
	}
}

func (s *stubStore) FindEmployeeByCode(_ context.Context, empCode string) (leave.EmployeeRef, error) {
	emp, ok := s.employees[empCode]
	if !ok {
		return leave.EmployeeRef{}, leave.ErrEmployeeNotFound
	}
	return emp, nil
}

func (s *stubStore) GetBalance(_ context.Context, employeeID string, year int) (leave.Balance, error) {
	b, ok := s.balances[employeeID]
	if !ok || b.Year != year {
		return leave.Balance{}, leave.ErrLedgerMissing
	}
	return b, nil
}

func (s *stubStore) CreateBalance(_ context.Context, balance leave.Balance) (leave.Balance, error) {
	s.balances[balance.EmployeeID] = balance
	return balance, nil
}

func (s *stubStore) CreateRequest(_ context.Context, req leave.Request) (leave.Request, error) {
	s.nextID++
	req.ID = fmt.Sprintf("req-%d", s.nextID)
	s.requests[req.ID] = req
	return req, nil
}

func (s *stubStore) ListRequests(_ context.Context, _ string) ([]leave.RequestDetail, error) {
	var out []leave.RequestDetail
	for _, req := range s.requests {
		out = append(out, leave.RequestDetail{Request: req})
	}
	return out, nil
}

func (s *stubStore) ApproveRequest(_ context.Context, requestID string) (leave.Request, error) {
	req, ok := s.requests[requestID]
	if !ok {
		return leave.Request{}, leave.ErrRequestNotFound
	}
	if req.Status != leave.StatusPending {
		return leave.Request{}, leave.ErrAlreadyDecided
	}
	req.Status = leave.StatusApproved
	s.requests[requestID] = req
	return req, nil
}

func (s *stubStore) RejectRequest(_ context.Context, requestID string) (leave.Request, error) {
	req, ok := s.requests[requestID]
	if !ok {
		return leave.Request{}, leave.ErrRequestNotFound
	}
	req.Status = leave.StatusRejected
	s.requests[requestID] = req
	return req, nil
}

func newTestRouter(store *stubStore) http.Handler {
	router := chi.NewRouter()
	NewHandler(leave.NewService(store)).RegisterRoutes(router)
	return router
}

func seedStore(store *stubStore) {
	store.employees["EMP-10001"] = leave.EmployeeRef{ID: "e1", EmpCode: "EMP-10001", Active: true}
	store.balances["e1"] = leave.Balance{
		EmployeeID: "e1",
		Year:       2025,
		TotalPTO:   decimal.NewFromInt(10),
		UsedPTO:    decimal.Zero,
		TotalCLSL:  decimal.NewFromInt(5),
		UsedCLSL:   decimal.Zero,
	}
}

func TestApplyEndpoint(t *testing.T) {
	store := newStubStore()
	seedStore(store)
	router := newTestRouter(store)

	body := `{"empCode":"EMP-10001","leaveType":"PTO","fromDate":"2025-06-09","toDate":"2025-06-11","reason":"trip"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/leave/requests", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Success bool          `json:"success"`
		Data    leave.Request `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !envelope.Success || envelope.Data.Status != leave.StatusPending {
		t.Fatalf("unexpected response: %+v", envelope)
	}
	if envelope.Data.TotalDays != 3 {
		t.Fatalf("total days = %d, want 3", envelope.Data.TotalDays)
	}
}

func TestApplyEndpointStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"unknown employee", `{"empCode":"EMP-99999","leaveType":"PTO","fromDate":"2025-06-09","toDate":"2025-06-11"}`, http.StatusNotFound},
		{"bad leave type", `{"empCode":"EMP-10001","leaveType":"SABBATICAL","fromDate":"2025-06-09","toDate":"2025-06-11"}`, http.StatusBadRequest},
		{"reversed range", `{"empCode":"EMP-10001","leaveType":"PTO","fromDate":"2025-06-11","toDate":"2025-06-09"}`, http.StatusBadRequest},
		{"over balance", `{"empCode":"EMP-10001","leaveType":"PTO","fromDate":"2025-06-02","toDate":"2025-06-30"}`, http.StatusConflict},
		{"malformed json", `{`, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newStubStore()
			seedStore(store)
			router := newTestRouter(store)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/leave/requests", strings.NewReader(tc.body)))
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestApproveEndpoint(t *testing.T) {
	store := newStubStore()
	seedStore(store)
	store.requests["req-1"] = leave.Request{
		ID: "req-1", EmployeeID: "e1", LeaveType: leave.TypePTO,
		FromDate:  time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		ToDate:    time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
		TotalDays: 3, Status: leave.StatusPending,
	}
	router := newTestRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/leave/requests/req-1/approve", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/leave/requests/req-1/approve", nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("second approve status = %d, want 409", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/leave/requests/missing/approve", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown request status = %d, want 404", rec.Code)
	}
}

func TestBalanceEndpoint(t *testing.T) {
	store := newStubStore()
	seedStore(store)
	router := newTestRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leave/balance?empCode=EMP-10001&year=2025", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leave/balance?empCode=EMP-10001&year=2030", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing ledger status = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leave/balance", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing empCode status = %d, want 400", rec.Code)
	}
}
