package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CollectionPenalties is the data service collection backing the penalty registry.
const CollectionPenalties = "penalties"

// Penalty is a disciplinary record issued to an employee. The console lists,
// searches and deletes penalties; it never edits them.
type Penalty struct {
	ID          string           `json:"id" mapstructure:"id"`
	Date        string           `json:"date" mapstructure:"date"`
	Type        string           `json:"type" mapstructure:"type"`
	Reason      string           `json:"reason" mapstructure:"reason"`
	Amount      *decimal.Decimal `json:"amount,omitempty" mapstructure:"amount"`
	FileRef     *string          `json:"file_ref,omitempty" mapstructure:"file_ref"`
	Responsible string           `json:"responsible" mapstructure:"responsible"`
	EmployeeID  string           `json:"employee_id" mapstructure:"employee_id"`
	CompanyID   string           `json:"company_id" mapstructure:"company_id"`
	CreatedAt   *time.Time       `json:"created_at,omitempty" mapstructure:"created_at"`
	Employee    *EmployeeRef     `json:"employee,omitempty" mapstructure:"employee"`
	Company     *CompanyRef      `json:"company,omitempty" mapstructure:"company"`
}

// EmployeeName returns the joined employee name, if present.
func (p Penalty) EmployeeName() (string, bool) {
	if p.Employee == nil {
		return "", false
	}
	return p.Employee.Name, true
}

// CompanyName returns the joined company name, if present.
func (p Penalty) CompanyName() (string, bool) {
	if p.Company == nil {
		return "", false
	}
	return p.Company.Name, true
}

// HasAttachment reports whether a file was uploaded with the penalty.
func (p Penalty) HasAttachment() bool {
	return p.FileRef != nil && *p.FileRef != ""
}
