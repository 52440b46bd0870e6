package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"staffdesk/internal/config"
	"staffdesk/internal/domain"
	"staffdesk/internal/domain/models"
	agentmodels "staffdesk/internal/domain/models/agent"
	"staffdesk/internal/domain/repositories"
	"staffdesk/internal/domain/services"
)

// EventSourceAPI marks notes about edits made through the REST endpoints
const EventSourceAPI = "direct edit"

type employeeService struct {
	repo   repositories.EmployeeRepository
	events services.EventRecorder
	logger *slog.Logger
}

// NewEmployeeService creates a new employee service. Successful mutations are
// reported to events so the agent can refer to them later.
func NewEmployeeService(
	repo repositories.EmployeeRepository,
	events services.EventRecorder,
	logger *slog.Logger,
) services.EmployeeService {
	return &employeeService{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// CreateEmployee creates a new employee
func (s *employeeService) CreateEmployee(ctx context.Context, req *services.CreateEmployeeRequest) (*models.Employee, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Position = strings.TrimSpace(req.Position)
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	employee := &models.Employee{
		Name:     req.Name,
		Position: req.Position,
		Salary:   req.Salary,
	}
	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, err
	}

	s.logger.Info("employee created",
		"id", employee.ID,
		"name", employee.Name,
	)
	s.record(agentmodels.EventEmployeeCreated, employee, nil)
	return employee, nil
}

// GetEmployee retrieves an employee by ID
func (s *employeeService) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	return s.repo.GetByID(ctx, id)
}

// ListEmployees retrieves all employees, newest first
func (s *employeeService) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	employees, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if employees == nil {
		employees = []models.Employee{}
	}
	return employees, nil
}

// UpdateEmployee applies a partial update
func (s *employeeService) UpdateEmployee(ctx context.Context, id int64, req *services.UpdateEmployeeRequest) (*models.Employee, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if req.Position != nil {
		trimmed := strings.TrimSpace(*req.Position)
		req.Position = &trimmed
	}
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	patch := models.EmployeePatch{Name: req.Name, Position: req.Position, Salary: req.Salary}
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields provided", domain.ErrValidation)
	}

	employee, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("employee updated",
		"id", employee.ID,
		"fields", patch.Fields(),
	)
	s.record(agentmodels.EventEmployeeUpdated, employee, patch.Fields())
	return employee, nil
}

// DeleteEmployee removes an employee and returns the deleted record
func (s *employeeService) DeleteEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	deleted, err := s.repo.DeleteByIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	if len(deleted) == 0 {
		return nil, &domain.NotFoundError{ResourceType: "employee", ResourceID: fmt.Sprint(id)}
	}

	employee := &deleted[0]
	s.logger.Info("employee deleted",
		"id", employee.ID,
		"name", employee.Name,
	)
	s.record(agentmodels.EventEmployeeDeleted, employee, nil)
	return employee, nil
}

func (s *employeeService) record(kind agentmodels.EventKind, employee *models.Employee, fields []string) {
	if s.events == nil {
		return
	}
	snapshot := *employee
	s.events.Broadcast(agentmodels.Event{
		Kind:     kind,
		Source:   EventSourceAPI,
		Employee: &snapshot,
		Fields:   fields,
	})
}

func (s *employeeService) validateCreateRequest(req *services.CreateEmployeeRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(1, config.MaxEmployeeNameLength),
		),
		validation.Field(&req.Position,
			validation.Required.Error("position is required"),
			validation.RuneLength(1, config.MaxPositionLength),
		),
		validation.Field(&req.Salary,
			validation.Min(0.0),
			validation.Max(config.MaxSalary),
		),
	)
}

func (s *employeeService) validateUpdateRequest(req *services.UpdateEmployeeRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.NilOrNotEmpty.Error("name cannot be empty"),
			validation.RuneLength(1, config.MaxEmployeeNameLength),
		),
		validation.Field(&req.Position,
			validation.NilOrNotEmpty.Error("position cannot be empty"),
			validation.RuneLength(1, config.MaxPositionLength),
		),
		validation.Field(&req.Salary,
			validation.Min(0.0),
			validation.Max(config.MaxSalary),
		),
	)
}
