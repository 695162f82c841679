package employeehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"hrpay/internal/domain/employee"
	"hrpay/internal/transport/http/api"
	"hrpay/internal/transport/http/middleware"
	"hrpay/internal/transport/http/shared"
)

type Handler struct {
	Service *employee.Service
}

func NewHandler(service *employee.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleOnboard)
		r.Get("/{empCode}", h.handleGet)
		r.Put("/{empCode}", h.handleUpdate)
		r.Post("/{empCode}/deactivate", h.handleDeactivate)
	})
}

type employeePayload struct {
	FirstName     string          `json:"firstName"`
	MiddleName    string          `json:"middleName"`
	LastName      string          `json:"lastName"`
	Email         string          `json:"email"`
	Department    string          `json:"department"`
	Designation   string          `json:"designation"`
	JoiningDate   string          `json:"joiningDate"`
	BasicSalary   decimal.Decimal `json:"basicSalary"`
	HRA           decimal.Decimal `json:"hra"`
	Allowances    decimal.Decimal `json:"allowances"`
	TaxPercentage decimal.Decimal `json:"taxPercentage"`
	PFPercentage  decimal.Decimal `json:"pfPercentage"`
}

func (p employeePayload) toInput() (employee.OnboardInput, error) {
	joiningDate, err := shared.ParseDate(p.JoiningDate)
	if err != nil {
		return employee.OnboardInput{}, err
	}
	return employee.OnboardInput{
		FirstName:     p.FirstName,
		MiddleName:    p.MiddleName,
		LastName:      p.LastName,
		Email:         p.Email,
		Department:    p.Department,
		Designation:   p.Designation,
		JoiningDate:   joiningDate,
		BasicSalary:   p.BasicSalary,
		HRA:           p.HRA,
		Allowances:    p.Allowances,
		TaxPercentage: p.TaxPercentage,
		PFPercentage:  p.PFPercentage,
	}, nil
}

func (h *Handler) handleOnboard(w http.ResponseWriter, r *http.Request) {
	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	input, err := payload.toInput()
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid joining date", middleware.GetRequestID(r.Context()))
		return
	}

	emp, err := h.Service.Onboard(r.Context(), input)
	if err != nil {
		h.fail(w, r, err, "employee_onboard_failed", "failed to onboard employee")
		return
	}
	api.Created(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	details, err := h.Service.ListActive(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, details, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	empCode := chi.URLParam(r, "empCode")
	detail, err := h.Service.GetByCode(r.Context(), empCode)
	if err != nil {
		h.fail(w, r, err, "employee_get_failed", "failed to load employee")
		return
	}
	api.Success(w, detail, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	input, err := payload.toInput()
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid joining date", middleware.GetRequestID(r.Context()))
		return
	}

	emp, err := h.Service.Update(r.Context(), chi.URLParam(r, "empCode"), input)
	if err != nil {
		h.fail(w, r, err, "employee_update_failed", "failed to update employee")
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Deactivate(r.Context(), chi.URLParam(r, "empCode")); err != nil {
		h.fail(w, r, err, "employee_deactivate_failed", "failed to deactivate employee")
		return
	}
	api.Success(w, map[string]string{"status": "deactivated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, employee.ErrInvalidInput):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), requestID)
	case errors.Is(err, employee.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
	case errors.Is(err, employee.ErrEmailExists):
		api.Fail(w, http.StatusConflict, "email_exists", "email already in use", requestID)
	case errors.Is(err, employee.ErrAlreadyInactive):
		api.Fail(w, http.StatusConflict, "already_inactive", "employee is already inactive", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
