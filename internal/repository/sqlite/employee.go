package sqlite

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"staffdesk/internal/domain"
	"staffdesk/internal/domain/models"
)

const employeeColumns = "id, name, position, salary, created_at"

// timeLayout is fixed width so created_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// EmployeeRepository implements EmployeeRepository, QueryRunner and SchemaInspector on SQLite
type EmployeeRepository struct {
	db     *sql.DB
	table  string
	logger *slog.Logger
	now    func() time.Time
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(config *RepositoryConfig) *EmployeeRepository {
	return &EmployeeRepository{
		db:     config.DB,
		table:  config.Prefix + "employees",
		logger: config.Logger,
		now:    time.Now,
	}
}

// Create inserts a new employee
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, position, salary, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id, created_at
	`, r.table)

	var createdAt string
	err := r.db.QueryRowContext(ctx, query,
		employee.Name,
		employee.Position,
		employee.Salary,
		r.now().UTC().Format(timeLayout),
	).Scan(&employee.ID, &createdAt)
	if err != nil {
		return fmt.Errorf("create employee: %w", err)
	}

	employee.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return fmt.Errorf("parse created_at: %w", err)
	}
	return nil
}

// GetByID retrieves an employee by ID
func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, employeeColumns, r.table)

	employee, err := scanEmployee(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{ResourceType: "employee", ResourceID: fmt.Sprint(id)}
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return employee, nil
}

// List retrieves all employees, newest first
func (r *EmployeeRepository) List(ctx context.Context) ([]models.Employee, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY created_at DESC, id DESC
	`, employeeColumns, r.table)

	return r.queryEmployees(ctx, "list employees", query)
}

// FindByName retrieves every employee with exactly this name
func (r *EmployeeRepository) FindByName(ctx context.Context, name string) ([]models.Employee, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE name = ?
		ORDER BY id
	`, employeeColumns, r.table)

	return r.queryEmployees(ctx, "find employees by name", query, name)
}

// Update applies the fields present in patch in one statement
func (r *EmployeeRepository) Update(ctx context.Context, id int64, patch models.EmployeePatch) (*models.Employee, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("update employee %d: no fields: %w", id, domain.ErrValidation)
	}

	var (
		sets []string
		args []any
	)
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Position != nil {
		sets = append(sets, "position = ?")
		args = append(args, *patch.Position)
	}
	if patch.Salary != nil {
		sets = append(sets, "salary = ?")
		args = append(args, *patch.Salary)
	}
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE id = ?
		RETURNING %s
	`, r.table, strings.Join(sets, ", "), employeeColumns)

	employee, err := scanEmployee(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{ResourceType: "employee", ResourceID: fmt.Sprint(id)}
		}
		return nil, fmt.Errorf("update employee: %w", err)
	}
	return employee, nil
}

// DeleteByIDs removes the given rows and returns them ordered by ID
func (r *EmployeeRepository) DeleteByIDs(ctx context.Context, ids []int64) ([]models.Employee, error) {
	if len(ids) == 0 {
		return []models.Employee{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id IN (%s)
		RETURNING %s
	`, r.table, placeholders, employeeColumns)

	deleted, err := r.queryEmployees(ctx, "delete employees", query, args...)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(deleted, func(a, b models.Employee) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return deleted, nil
}

func (r *EmployeeRepository) queryEmployees(ctx context.Context, op, query string, args ...any) ([]models.Employee, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	employees := []models.Employee{}
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, *employee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return employees, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (*models.Employee, error) {
	var (
		e         models.Employee
		createdAt string
	)
	if err := row.Scan(&e.ID, &e.Name, &e.Position, &e.Salary, &createdAt); err != nil {
		return nil, err
	}

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	e.CreatedAt = t
	return &e, nil
}
