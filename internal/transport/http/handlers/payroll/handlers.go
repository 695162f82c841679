package payrollhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrpay/internal/domain/employee"
	"hrpay/internal/domain/payroll"
	"hrpay/internal/transport/http/api"
	"hrpay/internal/transport/http/middleware"
)

type Handler struct {
	Service *payroll.Service

	// PayslipDir, when set, receives an archive copy of every rendered
	// payslip.
	PayslipDir string
}

func NewHandler(service *payroll.Service, payslipDir string) *Handler {
	return &Handler{Service: service, PayslipDir: payslipDir}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Post("/generate", h.handleGenerate)
		r.Get("/overview", h.handleOverview)
		r.Get("/{employeeID}", h.handleGet)
		r.Get("/{employeeID}/payslip", h.handlePayslip)
	})
}

// payrollResponse exposes the pay month in its wire form alongside the
// stored figures.
type payrollResponse struct {
	payroll.Payroll
	PayMonth string `json:"payMonth"`
}

func toResponse(p payroll.Payroll) payrollResponse {
	return payrollResponse{Payroll: p, PayMonth: p.PayMonth.String()}
}

type generatePayload struct {
	EmployeeID string `json:"employeeId"`
	PayMonth   string `json:"payMonth"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var payload generatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.EmployeeID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employee id required", middleware.GetRequestID(r.Context()))
		return
	}
	m, err := payroll.ParseMonth(payload.PayMonth)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid pay month", middleware.GetRequestID(r.Context()))
		return
	}

	record, err := h.Service.GetOrGenerate(r.Context(), payload.EmployeeID, m)
	if err != nil {
		h.fail(w, r, err, "payroll_generate_failed", "failed to generate payroll")
		return
	}
	api.Success(w, toResponse(record), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	m, ok := h.monthParam(w, r)
	if !ok {
		return
	}

	record, err := h.Service.Get(r.Context(), chi.URLParam(r, "employeeID"), m)
	if err != nil {
		h.fail(w, r, err, "payroll_get_failed", "failed to load payroll")
		return
	}
	api.Success(w, toResponse(record), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	m, ok := h.monthParam(w, r)
	if !ok {
		return
	}

	rows, err := h.Service.MonthOverview(r.Context(), m)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_overview_failed", "failed to load payroll overview", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rows, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	m, ok := h.monthParam(w, r)
	if !ok {
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	data, pdf, err := h.Service.Payslip(r.Context(), employeeID, m)
	if err != nil {
		h.fail(w, r, err, "payslip_failed", "failed to render payslip")
		return
	}

	h.archivePayslip(employeeID, m, pdf)

	filename := fmt.Sprintf("payslip-%s-%s.pdf", data.EmpCode, m)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		slog.Warn("payslip write failed", "employeeId", employeeID, "err", err)
	}
}

func (h *Handler) archivePayslip(employeeID string, m payroll.Month, pdf []byte) {
	if h.PayslipDir == "" {
		return
	}
	if err := os.MkdirAll(h.PayslipDir, 0o755); err != nil {
		slog.Warn("payslip archive dir failed", "err", err)
		return
	}
	path := filepath.Join(h.PayslipDir, fmt.Sprintf("%s-%s.pdf", employeeID, m))
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		slog.Warn("payslip archive write failed", "path", path, "err", err)
	}
}

func (h *Handler) monthParam(w http.ResponseWriter, r *http.Request) (payroll.Month, bool) {
	m, err := payroll.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "month query parameter must be YYYY-MM", middleware.GetRequestID(r.Context()))
		return payroll.Month{}, false
	}
	return m, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, employee.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
	case errors.Is(err, employee.ErrSalaryNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "salary structure not found", requestID)
	case errors.Is(err, payroll.ErrNotGenerated):
		api.Fail(w, http.StatusNotFound, "not_generated", "payroll not generated for this month", requestID)
	case errors.Is(err, payroll.ErrAlreadyGenerated):
		api.Fail(w, http.StatusConflict, "already_generated", "payroll already generated for this month", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
