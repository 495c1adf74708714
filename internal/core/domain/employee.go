package domain

import "time"

// CollectionEmployees is the data service collection backing the employee registry.
const CollectionEmployees = "employees"

// CompanyRef is the joined, read-only view of a company embedded in other records.
type CompanyRef struct {
	Name string `json:"name" mapstructure:"name"`
}

// EmployeeRef is the joined, read-only view of an employee embedded in other records.
type EmployeeRef struct {
	Name  string `json:"name" mapstructure:"name"`
	Title string `json:"title,omitempty" mapstructure:"title"`
}

// Employee belongs to one company. Company is populated on reads only.
type Employee struct {
	ID        string      `json:"id,omitempty" mapstructure:"id"`
	Name      string      `json:"name" mapstructure:"name" validate:"notblank"`
	Title     string      `json:"title" mapstructure:"title"`
	CompanyID string      `json:"company_id" mapstructure:"company_id" validate:"notblank"`
	Active    bool        `json:"active" mapstructure:"active"`
	CreatedAt *time.Time  `json:"created_at,omitempty" mapstructure:"created_at"`
	Company   *CompanyRef `json:"company,omitempty" mapstructure:"company"`
}

// NewEmployeeDraft returns the default shape used when creating an employee.
func NewEmployeeDraft() Employee {
	return Employee{Active: true}
}

// MutableFields returns the writable columns; joins are never written back.
func (e Employee) MutableFields() Record {
	return Record{
		"name":       e.Name,
		"title":      e.Title,
		"company_id": e.CompanyID,
		"active":     e.Active,
	}
}

// CompanyName returns the joined company name, if the read included it.
func (e Employee) CompanyName() (string, bool) {
	if e.Company == nil {
		return "", false
	}
	return e.Company.Name, true
}
