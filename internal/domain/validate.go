package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report column names so messages match the import header and the schema
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("db"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Compare decimals numerically in gte/gt rules
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// validateStruct runs the struct tag rules and merges failures into verr,
// skipping fields that already failed to parse
func validateStruct(s interface{}, verr *ValidationError) {
	err := validate.Struct(s)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("record", err.Error())
		return
	}

	for _, fe := range fieldErrs {
		if verr.Has(fe.Field()) {
			continue
		}
		verr.Add(fe.Field(), ruleMessage(fe))
	}
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s rule", fe.Tag())
	}
}

// parseDecimal parses a required numeric field
func parseDecimal(field, raw string, verr *ValidationError) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		verr.Add(field, "is required")
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		verr.Add(field, fmt.Sprintf("must be a number, got %q", raw))
		return decimal.Zero
	}
	return d
}
