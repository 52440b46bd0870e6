package handler

import (
	"log/slog"
	"net/http"

	"staffdesk/internal/domain/services"
	"staffdesk/internal/httputil"
)

// EmployeeHandler handles direct employee CRUD requests
type EmployeeHandler struct {
	employeeService services.EmployeeService
	logger          *slog.Logger
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employeeService services.EmployeeService, logger *slog.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		employeeService: employeeService,
		logger:          logger,
	}
}

// ListEmployees returns every employee, newest first
// GET /api/employees
func (h *EmployeeHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.employeeService.ListEmployees(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, employees)
}

// CreateEmployee adds an employee
// POST /api/employees
func (h *EmployeeHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req services.CreateEmployeeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		respondParseError(w, err)
		return
	}

	employee, err := h.employeeService.CreateEmployee(r.Context(), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, employee)
}

// GetEmployee returns one employee
// GET /api/employees/{id}
func (h *EmployeeHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(w, r, "id", "Employee ID")
	if !ok {
		return
	}

	employee, err := h.employeeService.GetEmployee(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, employee)
}

// updateEmployeeBody distinguishes absent fields from explicit nulls
type updateEmployeeBody struct {
	Name     httputil.Optional[string]  `json:"name"`
	Position httputil.Optional[string]  `json:"position"`
	Salary   httputil.Optional[float64] `json:"salary"`
}

func (b updateEmployeeBody) nullField() string {
	switch {
	case b.Name.IsNull():
		return "name"
	case b.Position.IsNull():
		return "position"
	case b.Salary.IsNull():
		return "salary"
	}
	return ""
}

// UpdateEmployee applies a partial update
// PATCH /api/employees/{id}
func (h *EmployeeHandler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(w, r, "id", "Employee ID")
	if !ok {
		return
	}

	var body updateEmployeeBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		respondParseError(w, err)
		return
	}
	if field := body.nullField(); field != "" {
		httputil.RespondError(w, http.StatusBadRequest, field+" cannot be null")
		return
	}

	employee, err := h.employeeService.UpdateEmployee(r.Context(), id, &services.UpdateEmployeeRequest{
		Name:     body.Name.Value,
		Position: body.Position.Value,
		Salary:   body.Salary.Value,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, employee)
}

// DeleteEmployee removes an employee and returns the deleted record
// DELETE /api/employees/{id}
func (h *EmployeeHandler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(w, r, "id", "Employee ID")
	if !ok {
		return
	}

	employee, err := h.employeeService.DeleteEmployee(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, employee)
}
