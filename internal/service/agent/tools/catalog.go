package tools

import (
	"github.com/invopop/jsonschema"
)

// Tool names advertised to the reasoning service.
const (
	QueryDatabase  = "query_database"
	AddEmployee    = "add_employee"
	DeleteEmployee = "delete_employee"
	UpdateEmployee = "update_employee"
)

// Definition describes one tool of the catalog.
type Definition struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters"`

	// Mutating tools set the refresh flag whenever they are invoked,
	// even when they report a logical failure.
	Mutating bool `json:"mutating"`
}

// RequiredFields lists the parameters the tool cannot run without.
func (d Definition) RequiredFields() []string {
	if d.Parameters == nil {
		return nil
	}
	return d.Parameters.Required
}

// Catalog returns the fixed set of employee tools, in presentation order.
func Catalog() []Definition {
	return []Definition{
		{
			Name:        QueryDatabase,
			Description: "Run a read-only SQL query against the database and return the rows as JSON. Use it to look up information.",
			Parameters:  reflectParameters(&QueryArgs{}),
		},
		{
			Name:        AddEmployee,
			Description: "Hire a new employee by inserting a record. Returns the new employee ID.",
			Parameters:  reflectParameters(&AddEmployeeArgs{}),
			Mutating:    true,
		},
		{
			Name:        DeleteEmployee,
			Description: "Remove employees with exactly this name. Returns every deleted record in full so the deletion can be undone later.",
			Parameters:  reflectParameters(&DeleteEmployeeArgs{}),
			Mutating:    true,
		},
		{
			Name:        UpdateEmployee,
			Description: "Change the name, position or salary of the employee with the given ID. Only the fields provided are changed.",
			Parameters:  reflectParameters(&UpdateEmployeeArgs{}),
			Mutating:    true,
		},
	}
}

// reflectParameters builds an inline JSON schema from an argument record.
func reflectParameters(v any) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		// Expand definitions inline instead of using $refs
		DoNotReference: true,
	}
	schema := reflector.Reflect(v)
	schema.Version = ""

	// The root must be an object for function parameters
	if schema.Type == "" && schema.Ref == "" {
		schema.Type = "object"
	}
	return schema
}
