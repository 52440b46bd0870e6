package agent

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"staffdesk/internal/domain/models"
)

// EventKind classifies an out-of-band event.
type EventKind string

const (
	EventEmployeeCreated EventKind = "employee_created"
	EventEmployeeUpdated EventKind = "employee_updated"
	EventEmployeeDeleted EventKind = "employee_deleted"
	// EventExternal is a free-text description supplied by a caller.
	EventExternal EventKind = "external"
)

// Event records a mutation that happened outside the agent so later turns
// can refer to it.
type Event struct {
	Kind        EventKind        `json:"kind"`
	Source      string           `json:"source,omitempty"`
	Description string           `json:"description,omitempty"`
	Employee    *models.Employee `json:"employee,omitempty"`
	Fields      []string         `json:"fields,omitempty"`
	OccurredAt  time.Time        `json:"occurred_at"`
}

// Render turns the event into the system-note text sent to the reasoning service.
func (e Event) Render() string {
	var b strings.Builder
	b.WriteString("[System note")
	if e.Source != "" {
		b.WriteString(", via ")
		b.WriteString(e.Source)
	}
	b.WriteString("] ")

	switch e.Kind {
	case EventEmployeeCreated:
		b.WriteString("Employee added")
	case EventEmployeeUpdated:
		b.WriteString("Employee updated")
		if len(e.Fields) > 0 {
			fmt.Fprintf(&b, " (changed: %s)", strings.Join(e.Fields, ", "))
		}
	case EventEmployeeDeleted:
		b.WriteString("Employee deleted")
	default:
		b.WriteString("Event")
	}

	if e.Employee != nil {
		b.WriteString(": ")
		b.WriteString(e.Employee.Describe())
	}
	if e.Description != "" {
		if e.Employee != nil || e.Kind != EventExternal {
			b.WriteString(". ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Description)
	}
	return b.String()
}

func (e Event) clone() Event {
	out := e
	if e.Employee != nil {
		emp := *e.Employee
		out.Employee = &emp
	}
	out.Fields = slices.Clone(e.Fields)
	return out
}
