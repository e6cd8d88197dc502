package domain

import (
	"strings"
	"time"
)

type Customer struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name" validate:"required,max=200"`
	Address   string    `db:"address" validate:"max=500"`
	Phone     string    `db:"phone" validate:"max=50"`
	Email     string    `db:"email" validate:"max=254"`
	CreatedAt time.Time `db:"created_at"`
}

// CustomerFields is the raw form/CLI input for a customer
type CustomerFields struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// NewCustomer validates raw fields and builds a customer ready for insertion
func NewCustomer(f CustomerFields) (*Customer, error) {
	c := &Customer{
		Name:      strings.TrimSpace(f.Name),
		Address:   strings.TrimSpace(f.Address),
		Phone:     strings.TrimSpace(f.Phone),
		Email:     strings.TrimSpace(f.Email),
		CreatedAt: time.Now(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Apply overwrites the editable fields and validates the result
func (c *Customer) Apply(f CustomerFields) error {
	updated := *c
	updated.Name = strings.TrimSpace(f.Name)
	updated.Address = strings.TrimSpace(f.Address)
	updated.Phone = strings.TrimSpace(f.Phone)
	updated.Email = strings.TrimSpace(f.Email)
	if err := updated.Validate(); err != nil {
		return err
	}
	*c = updated
	return nil
}

// Validate returns a *ValidationError if the customer is invalid
func (c *Customer) Validate() error {
	verr := &ValidationError{}
	validateStruct(c, verr)
	return verr.OrNil()
}

// Label is the picker form "<id> - <name>"
func (c *Customer) Label() string {
	return formatLabel(c.ID, c.Name)
}

// OrNA returns s, or "N/A" when blank
func OrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
