package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID             int64           `db:"id"`
	Name           string          `db:"name" validate:"required,max=200"`
	WholesalePrice decimal.Decimal `db:"wholesale_price" validate:"gte=0"`
	RetailPrice    decimal.Decimal `db:"retail_price" validate:"gte=0"`
	BaseUnit       string          `db:"base_unit" validate:"required,max=50"`
	AltUnit        string          `db:"alt_unit" validate:"max=50"`
	UnitRatio      decimal.Decimal `db:"unit_ratio" validate:"gt=0"` // base units per alt unit
	Description    string          `db:"description" validate:"max=1000"`
	CreatedAt      time.Time       `db:"created_at"`
}

// ProductFields is the raw form, CLI or spreadsheet input for a product
type ProductFields struct {
	Name           string
	WholesalePrice string
	RetailPrice    string
	BaseUnit       string
	AltUnit        string
	UnitRatio      string
	Description    string
}

// NewProduct parses and validates raw fields. Prices must parse as numbers;
// a blank unit ratio defaults to 1.
func NewProduct(f ProductFields) (*Product, error) {
	p, err := parseProduct(f)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = time.Now()
	return p, nil
}

// Apply overwrites the editable fields and validates the result
func (p *Product) Apply(f ProductFields) error {
	parsed, err := parseProduct(f)
	if err != nil {
		return err
	}
	parsed.ID = p.ID
	parsed.CreatedAt = p.CreatedAt
	*p = *parsed
	return nil
}

func parseProduct(f ProductFields) (*Product, error) {
	verr := &ValidationError{}

	p := &Product{
		Name:        strings.TrimSpace(f.Name),
		BaseUnit:    strings.TrimSpace(f.BaseUnit),
		AltUnit:     strings.TrimSpace(f.AltUnit),
		Description: strings.TrimSpace(f.Description),
		UnitRatio:   decimal.NewFromInt(1),
	}
	p.WholesalePrice = parseDecimal("wholesale_price", f.WholesalePrice, verr)
	p.RetailPrice = parseDecimal("retail_price", f.RetailPrice, verr)
	if strings.TrimSpace(f.UnitRatio) != "" {
		p.UnitRatio = parseDecimal("unit_ratio", f.UnitRatio, verr)
	}

	validateStruct(p, verr)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate returns a *ValidationError if the product is invalid
func (p *Product) Validate() error {
	verr := &ValidationError{}
	validateStruct(p, verr)
	return verr.OrNil()
}

// PriceFor selects the unit price for a pricing tier
func (p *Product) PriceFor(t PriceType) decimal.Decimal {
	if t == PriceWholesale {
		return p.WholesalePrice
	}
	return p.RetailPrice
}

// Label is the picker form "<id> - <name>"
func (p *Product) Label() string {
	return formatLabel(p.ID, p.Name)
}

func formatLabel(id int64, name string) string {
	return fmt.Sprintf("%d - %s", id, name)
}

// ParseRef interprets a picker reference. "12" and "12 - Widget (W:1.00)" yield
// id 12; anything else is treated as a name.
func ParseRef(ref string) (id int64, name string, hasID bool) {
	ref = strings.TrimSpace(ref)
	head := ref
	if i := strings.Index(ref, " - "); i >= 0 {
		head = strings.TrimSpace(ref[:i])
	}
	if n, err := strconv.ParseInt(head, 10, 64); err == nil && n > 0 {
		return n, ref, true
	}
	return 0, ref, false
}
