package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"staffdesk/internal/config"
	"staffdesk/internal/domain/models"
)

// ErrInvalidArguments is returned when tool arguments fail to decode or validate.
var ErrInvalidArguments = errors.New("invalid arguments")

// QueryArgs are the arguments of query_database.
type QueryArgs struct {
	SQL string `json:"sql" jsonschema_description:"A single read-only SQL statement (SELECT, WITH or EXPLAIN)"`
}

func (a QueryArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.SQL, validation.Required),
	)
}

// AddEmployeeArgs are the arguments of add_employee.
type AddEmployeeArgs struct {
	Name     string  `json:"name" jsonschema_description:"Full name of the employee"`
	Position string  `json:"position" jsonschema_description:"Job title"`
	Salary   float64 `json:"salary" jsonschema_description:"Salary as a number"`
}

func (a AddEmployeeArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.By(notBlank), validation.RuneLength(1, config.MaxEmployeeNameLength)),
		validation.Field(&a.Position, validation.By(notBlank), validation.RuneLength(1, config.MaxPositionLength)),
		validation.Field(&a.Salary, validation.Min(0.0), validation.Max(config.MaxSalary)),
	)
}

// DeleteEmployeeArgs are the arguments of delete_employee.
type DeleteEmployeeArgs struct {
	Name string `json:"name" jsonschema_description:"Exact name of the employee to remove"`
}

func (a DeleteEmployeeArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.By(notBlank)),
	)
}

// UpdateEmployeeArgs are the arguments of update_employee. Only the fields
// present are changed.
type UpdateEmployeeArgs struct {
	ID       int64    `json:"id" jsonschema_description:"ID of the employee to change"`
	Name     *string  `json:"name,omitempty" jsonschema_description:"New name"`
	Position *string  `json:"position,omitempty" jsonschema_description:"New job title"`
	Salary   *float64 `json:"salary,omitempty" jsonschema_description:"New salary"`
}

func (a UpdateEmployeeArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.ID, validation.Required, validation.Min(int64(1))),
		validation.Field(&a.Name, validation.NilOrNotEmpty, validation.By(notBlank), validation.RuneLength(1, config.MaxEmployeeNameLength)),
		validation.Field(&a.Position, validation.NilOrNotEmpty, validation.By(notBlank), validation.RuneLength(1, config.MaxPositionLength)),
		validation.Field(&a.Salary, validation.Min(0.0), validation.Max(config.MaxSalary)),
	)
}

// Patch converts the optional fields into a repository patch.
func (a UpdateEmployeeArgs) Patch() models.EmployeePatch {
	return models.EmployeePatch{Name: a.Name, Position: a.Position, Salary: a.Salary}
}

// decodeArgs strictly decodes raw into dst and validates it. Unknown fields,
// trailing data and missing required fields are all rejected.
func decodeArgs(raw json.RawMessage, required []string, dst validation.Validatable) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage("{}")
	}

	var present map[string]json.RawMessage
	if err := json.Unmarshal(raw, &present); err != nil {
		return fmt.Errorf("%w: arguments must be a JSON object: %v", ErrInvalidArguments, err)
	}
	var missing []string
	for _, field := range required {
		if v, ok := present[field]; !ok || string(v) == "null" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required field(s): %s", ErrInvalidArguments, strings.Join(missing, ", "))
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: unexpected data after arguments object", ErrInvalidArguments)
	}

	if err := dst.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return nil
}

func notBlank(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	}
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}
