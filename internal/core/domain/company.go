package domain

import "time"

// CollectionCompanies is the data service collection backing the company registry.
const CollectionCompanies = "companies"

// TaxRegime is the Brazilian tax regime a company is registered under.
type TaxRegime string

const (
	RegimeSimplesNacional TaxRegime = "Simples Nacional"
	RegimeLucroPresumido  TaxRegime = "Lucro Presumido"
	RegimeLucroReal       TaxRegime = "Lucro Real"
)

// Valid reports whether r is one of the known regimes.
func (r TaxRegime) Valid() bool {
	switch r {
	case RegimeSimplesNacional, RegimeLucroPresumido, RegimeLucroReal:
		return true
	}
	return false
}

// Company is an entry of the company registry. It doubles as the form draft:
// an empty ID means the draft was never persisted.
type Company struct {
	ID        string     `json:"id,omitempty" mapstructure:"id"`
	Name      string     `json:"name" mapstructure:"name" validate:"notblank"`
	TaxRegime TaxRegime  `json:"tax_regime" mapstructure:"tax_regime" validate:"taxregime"`
	Active    bool       `json:"active" mapstructure:"active"`
	CreatedAt *time.Time `json:"created_at,omitempty" mapstructure:"created_at"`
}

// NewCompanyDraft returns the default shape used when creating a company.
func NewCompanyDraft() Company {
	return Company{TaxRegime: RegimeSimplesNacional, Active: true}
}

// MutableFields returns the fields the console may write. The identifier and
// creation timestamp are owned by the data service.
func (c Company) MutableFields() Record {
	return Record{
		"name":       c.Name,
		"tax_regime": string(c.TaxRegime),
		"active":     c.Active,
	}
}
