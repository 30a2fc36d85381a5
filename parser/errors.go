package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownUnit is wrapped when a volume carries an unrecognised suffix.
	ErrUnknownUnit = errors.New("unrecognised volume unit")
	// ErrNotNumeric is wrapped when a numeric field cannot be parsed.
	ErrNotNumeric = errors.New("not numeric")
)

// ErrUnitConversion indicates a field could not be converted to canonical units.
type ErrUnitConversion struct {
	Field string
	Value string
	Err   error
}

func (e ErrUnitConversion) Error() string {
	return fmt.Sprintf("unit_conversion: %s %q: %v", e.Field, e.Value, e.Err)
}

func (e ErrUnitConversion) Unwrap() error {
	return e.Err
}

// ErrDivision indicates efficiency was requested against a missing or zero price.
type ErrDivision struct {
	Price string
}

func (e ErrDivision) Error() string {
	if e.Price == "" {
		return "division: missing price"
	}
	return fmt.Sprintf("division: non-positive price %s", e.Price)
}
