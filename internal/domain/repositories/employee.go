package repositories

import (
	"context"

	"staffdesk/internal/domain/models"
)

// EmployeeRepository defines data access operations for employees.
// Every mutating method is a single statement, so it applies fully or not at all.
type EmployeeRepository interface {
	// Create inserts an employee and fills in the generated ID and CreatedAt
	Create(ctx context.Context, employee *models.Employee) error

	// GetByID retrieves an employee by ID
	GetByID(ctx context.Context, id int64) (*models.Employee, error)

	// List retrieves all employees, newest first
	List(ctx context.Context) ([]models.Employee, error)

	// FindByName retrieves every employee with exactly this name, ordered by ID
	FindByName(ctx context.Context, name string) ([]models.Employee, error)

	// Update applies only the fields set in patch and returns the updated row.
	// Returns domain.ErrNotFound if no row has this ID.
	Update(ctx context.Context, id int64, patch models.EmployeePatch) (*models.Employee, error)

	// DeleteByIDs removes the given rows and returns what was deleted
	DeleteByIDs(ctx context.Context, ids []int64) ([]models.Employee, error)
}

// QueryRunner executes raw read-only statements on behalf of the agent.
type QueryRunner interface {
	// RunReadOnly executes a statement that cannot modify data and returns
	// each row as a column-name keyed map.
	// Returns domain.ErrReadOnly if the statement is not a read.
	RunReadOnly(ctx context.Context, statement string) ([]map[string]any, error)
}

// SchemaInspector describes the database schema as human-readable text.
type SchemaInspector interface {
	// DescribeSchema returns one line per table listing column name/type pairs
	DescribeSchema(ctx context.Context) (string, error)
}

// DataStore is everything the agent needs from the database.
type DataStore interface {
	EmployeeRepository
	QueryRunner
	SchemaInspector
}
