package leavehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrpay/internal/domain/leave"
	"hrpay/internal/transport/http/api"
	"hrpay/internal/transport/http/middleware"
	"hrpay/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
}

func NewHandler(service *leave.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.Post("/requests", h.handleApply)
		r.Get("/requests", h.handleListRequests)
		r.Post("/requests/{requestID}/approve", h.handleApprove)
		r.Post("/requests/{requestID}/reject", h.handleReject)
		r.Get("/balance", h.handleBalance)
	})
}

type applyPayload struct {
	EmpCode   string `json:"empCode"`
	LeaveType string `json:"leaveType"`
	FromDate  string `json:"fromDate"`
	ToDate    string `json:"toDate"`
	Reason    string `json:"reason"`
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	var payload applyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	fromDate, err := shared.ParseDate(payload.FromDate)
	if err != nil || fromDate.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid from date", middleware.GetRequestID(r.Context()))
		return
	}
	toDate, err := shared.ParseDate(payload.ToDate)
	if err != nil || toDate.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid to date", middleware.GetRequestID(r.Context()))
		return
	}

	request, err := h.Service.Apply(r.Context(), leave.ApplyInput{
		EmpCode:   payload.EmpCode,
		LeaveType: payload.LeaveType,
		FromDate:  fromDate,
		ToDate:    toDate,
		Reason:    payload.Reason,
	})
	if err != nil {
		h.fail(w, r, err, "leave_apply_failed", "failed to apply for leave")
		return
	}
	api.Created(w, request, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Service.List(r.Context(), r.URL.Query().Get("empCode"))
	if err != nil {
		h.fail(w, r, err, "leave_list_failed", "failed to list leave requests")
		return
	}
	api.Success(w, requests, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	request, err := h.Service.Approve(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		h.fail(w, r, err, "leave_approve_failed", "failed to approve leave request")
		return
	}
	api.Success(w, request, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	request, err := h.Service.Reject(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		h.fail(w, r, err, "leave_reject_failed", "failed to reject leave request")
		return
	}
	api.Success(w, request, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	empCode := r.URL.Query().Get("empCode")
	if empCode == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "emp code required", middleware.GetRequestID(r.Context()))
		return
	}

	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_request", "invalid year", middleware.GetRequestID(r.Context()))
			return
		}
		year = parsed
	}

	balance, err := h.Service.Balance(r.Context(), empCode, year)
	if err != nil {
		h.fail(w, r, err, "leave_balance_failed", "failed to load leave balance")
		return
	}
	api.Success(w, balance, middleware.GetRequestID(r.Context()))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, leave.ErrInvalidType), errors.Is(err, leave.ErrInvalidRange):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), requestID)
	case errors.Is(err, leave.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
	case errors.Is(err, leave.ErrRequestNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", requestID)
	case errors.Is(err, leave.ErrLedgerMissing):
		api.Fail(w, http.StatusNotFound, "not_found", "no leave ledger for the requested year", requestID)
	case errors.Is(err, leave.ErrInsufficientBalance):
		api.Fail(w, http.StatusConflict, "insufficient_balance", "insufficient leave balance", requestID)
	case errors.Is(err, leave.ErrAlreadyDecided):
		api.Fail(w, http.StatusConflict, "already_decided", "leave request is already decided", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
