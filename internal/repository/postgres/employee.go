package postgres

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffdesk/internal/domain"
	"staffdesk/internal/domain/models"
	"staffdesk/internal/domain/repositories"
)

const employeeColumns = "id, name, position, salary, created_at"

// PostgresEmployeeRepository implements EmployeeRepository, QueryRunner and SchemaInspector
type PostgresEmployeeRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	tx     repositories.TransactionManager
	logger *slog.Logger
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(config *RepositoryConfig, tx repositories.TransactionManager) *PostgresEmployeeRepository {
	return &PostgresEmployeeRepository{
		pool:   config.Pool,
		tables: config.Tables,
		tx:     tx,
		logger: config.Logger,
	}
}

// Create inserts a new employee
func (r *PostgresEmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, position, salary)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, r.tables.Employees)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		employee.Name,
		employee.Position,
		employee.Salary,
	).Scan(&employee.ID, &employee.CreatedAt)
	if err != nil {
		return fmt.Errorf("create employee: %w", err)
	}

	return nil
}

// GetByID retrieves an employee by ID
func (r *PostgresEmployeeRepository) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, employeeColumns, r.tables.Employees)

	executor := GetExecutor(ctx, r.pool)
	employee, err := scanEmployee(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{ResourceType: "employee", ResourceID: fmt.Sprint(id)}
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}

	return employee, nil
}

// List retrieves all employees, newest first
func (r *PostgresEmployeeRepository) List(ctx context.Context) ([]models.Employee, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY created_at DESC, id DESC
	`, employeeColumns, r.tables.Employees)

	return r.queryEmployees(ctx, "list employees", query)
}

// FindByName retrieves every employee with exactly this name
func (r *PostgresEmployeeRepository) FindByName(ctx context.Context, name string) ([]models.Employee, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE name = $1
		ORDER BY id
	`, employeeColumns, r.tables.Employees)

	return r.queryEmployees(ctx, "find employees by name", query, name)
}

// Update applies the fields present in patch in one statement
func (r *PostgresEmployeeRepository) Update(ctx context.Context, id int64, patch models.EmployeePatch) (*models.Employee, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("update employee %d: no fields: %w", id, domain.ErrValidation)
	}

	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Position != nil {
		add("position", *patch.Position)
	}
	if patch.Salary != nil {
		add("salary", *patch.Salary)
	}
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, r.tables.Employees, strings.Join(sets, ", "), len(args), employeeColumns)

	executor := GetExecutor(ctx, r.pool)
	employee, err := scanEmployee(executor.QueryRow(ctx, query, args...))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{ResourceType: "employee", ResourceID: fmt.Sprint(id)}
		}
		return nil, fmt.Errorf("update employee: %w", err)
	}

	return employee, nil
}

// DeleteByIDs removes the given rows and returns them
func (r *PostgresEmployeeRepository) DeleteByIDs(ctx context.Context, ids []int64) ([]models.Employee, error) {
	if len(ids) == 0 {
		return []models.Employee{}, nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = ANY($1)
		RETURNING %s
	`, r.tables.Employees, employeeColumns)

	deleted, err := r.queryEmployees(ctx, "delete employees", query, ids)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(deleted, func(a, b models.Employee) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return deleted, nil
}

func (r *PostgresEmployeeRepository) queryEmployees(ctx context.Context, op, query string, args ...any) ([]models.Employee, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
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

func scanEmployee(row pgx.Row) (*models.Employee, error) {
	var e models.Employee
	if err := row.Scan(&e.ID, &e.Name, &e.Position, &e.Salary, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
