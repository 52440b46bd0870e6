package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"staffdesk/internal/domain"
	"staffdesk/internal/domain/models"
	"staffdesk/internal/domain/repositories"
)

// AddEmployeeTool implements add_employee.
type AddEmployeeTool struct {
	repo repositories.EmployeeRepository
	def  Definition
}

// NewAddEmployeeTool creates a new AddEmployeeTool instance.
func NewAddEmployeeTool(repo repositories.EmployeeRepository, def Definition) *AddEmployeeTool {
	return &AddEmployeeTool{repo: repo, def: def}
}

// Execute implements ToolExecutor interface.
func (t *AddEmployeeTool) Execute(ctx context.Context, raw json.RawMessage) (string, error) {
	var args AddEmployeeArgs
	if err := decodeArgs(raw, t.def.RequiredFields(), &args); err != nil {
		return "", err
	}

	employee := &models.Employee{
		Name:     strings.TrimSpace(args.Name),
		Position: strings.TrimSpace(args.Position),
		Salary:   args.Salary,
	}
	if err := t.repo.Create(ctx, employee); err != nil {
		return "", err
	}

	return fmt.Sprintf("Success! New employee ID is %d. Added record: %s.", employee.ID, employee.Describe()), nil
}

// DeleteEmployeeTool implements delete_employee.
type DeleteEmployeeTool struct {
	repo repositories.EmployeeRepository
	def  Definition
}

// NewDeleteEmployeeTool creates a new DeleteEmployeeTool instance.
func NewDeleteEmployeeTool(repo repositories.EmployeeRepository, def Definition) *DeleteEmployeeTool {
	return &DeleteEmployeeTool{repo: repo, def: def}
}

// Execute implements ToolExecutor interface.
// Matches are resolved by name first and then deleted by ID, so only the
// records echoed back are removed.
func (t *DeleteEmployeeTool) Execute(ctx context.Context, raw json.RawMessage) (string, error) {
	var args DeleteEmployeeArgs
	if err := decodeArgs(raw, t.def.RequiredFields(), &args); err != nil {
		return "", err
	}
	name := strings.TrimSpace(args.Name)

	matches, err := t.repo.FindByName(ctx, name)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return notFoundByName(name), nil
	}

	ids := make([]int64, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	deleted, err := t.repo.DeleteByIDs(ctx, ids)
	if err != nil {
		return "", err
	}
	if len(deleted) == 0 {
		return notFoundByName(name), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Success! Deleted %d employee(s) named %q. Deleted records:", len(deleted), name)
	for _, e := range deleted {
		b.WriteString("\n- ")
		b.WriteString(e.Describe())
	}
	return b.String(), nil
}

func notFoundByName(name string) string {
	return fmt.Sprintf("Operation failed: no employee named %q was found. Nothing was deleted.", name)
}

// UpdateEmployeeTool implements update_employee.
type UpdateEmployeeTool struct {
	repo repositories.EmployeeRepository
	def  Definition
}

// NewUpdateEmployeeTool creates a new UpdateEmployeeTool instance.
func NewUpdateEmployeeTool(repo repositories.EmployeeRepository, def Definition) *UpdateEmployeeTool {
	return &UpdateEmployeeTool{repo: repo, def: def}
}

// Execute implements ToolExecutor interface.
// All provided fields are applied in a single statement.
func (t *UpdateEmployeeTool) Execute(ctx context.Context, raw json.RawMessage) (string, error) {
	var args UpdateEmployeeArgs
	if err := decodeArgs(raw, t.def.RequiredFields(), &args); err != nil {
		return "", err
	}

	patch := args.Patch()
	if patch.IsEmpty() {
		return fmt.Sprintf("No fields provided: nothing was changed for employee %d. Provide name, position or salary.", args.ID), nil
	}
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		patch.Name = &trimmed
	}
	if patch.Position != nil {
		trimmed := strings.TrimSpace(*patch.Position)
		patch.Position = &trimmed
	}

	before, err := t.repo.GetByID(ctx, args.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFoundByID(args.ID), nil
		}
		return "", err
	}

	after, err := t.repo.Update(ctx, args.ID, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFoundByID(args.ID), nil
		}
		return "", err
	}

	return fmt.Sprintf("Success! Updated employee %d (changed: %s). Previous record: %s. Current record: %s.",
		after.ID, strings.Join(patch.Fields(), ", "), before.Describe(), after.Describe()), nil
}

func notFoundByID(id int64) string {
	return fmt.Sprintf("Operation failed: no employee with id %d exists. Nothing was changed.", id)
}
