package services

import (
	"context"

	"staffdesk/internal/domain/models"
	agentmodels "staffdesk/internal/domain/models/agent"
)

// EmployeeService handles direct employee CRUD from the front door.
// Every successful mutation is recorded as an event for the agent.
type EmployeeService interface {
	// CreateEmployee validates and inserts an employee
	CreateEmployee(ctx context.Context, req *CreateEmployeeRequest) (*models.Employee, error)

	// GetEmployee retrieves an employee by ID
	GetEmployee(ctx context.Context, id int64) (*models.Employee, error)

	// ListEmployees retrieves all employees, newest first
	ListEmployees(ctx context.Context) ([]models.Employee, error)

	// UpdateEmployee applies a partial update
	UpdateEmployee(ctx context.Context, id int64, req *UpdateEmployeeRequest) (*models.Employee, error)

	// DeleteEmployee removes an employee and returns the deleted record
	DeleteEmployee(ctx context.Context, id int64) (*models.Employee, error)
}

// EventRecorder receives mutations made outside the agent.
type EventRecorder interface {
	// Broadcast records the event in every live conversation
	Broadcast(event agentmodels.Event)
}

// CreateEmployeeRequest is the DTO for creating an employee
type CreateEmployeeRequest struct {
	Name     string  `json:"name"`
	Position string  `json:"position"`
	Salary   float64 `json:"salary"`
}

// UpdateEmployeeRequest is the DTO for a partial employee update
type UpdateEmployeeRequest struct {
	Name     *string  `json:"name,omitempty"`
	Position *string  `json:"position,omitempty"`
	Salary   *float64 `json:"salary,omitempty"`
}
