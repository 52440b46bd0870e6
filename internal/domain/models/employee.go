package models

import (
	"fmt"
	"strconv"
	"time"
)

// Employee is one row of the employees table.
type Employee struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Position  string    `json:"position" db:"position"`
	Salary    float64   `json:"salary" db:"salary"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// EmployeePatch carries a partial update. Nil fields are left untouched.
type EmployeePatch struct {
	Name     *string  `json:"name,omitempty"`
	Position *string  `json:"position,omitempty"`
	Salary   *float64 `json:"salary,omitempty"`
}

// IsEmpty reports whether the patch touches no field.
func (p EmployeePatch) IsEmpty() bool {
	return p.Name == nil && p.Position == nil && p.Salary == nil
}

// Fields lists the columns the patch touches, in column order.
func (p EmployeePatch) Fields() []string {
	var fields []string
	if p.Name != nil {
		fields = append(fields, "name")
	}
	if p.Position != nil {
		fields = append(fields, "position")
	}
	if p.Salary != nil {
		fields = append(fields, "salary")
	}
	return fields
}

// Describe renders every field of the record on one line. The output is read
// back by the reasoning service, so it must stay lossless.
func (e Employee) Describe() string {
	return fmt.Sprintf("id=%d, name=%q, position=%q, salary=%s",
		e.ID, e.Name, e.Position, FormatSalary(e.Salary))
}

// FormatSalary prints a salary without losing precision or switching to exponent notation.
func FormatSalary(salary float64) string {
	return strconv.FormatFloat(salary, 'f', -1, 64)
}
