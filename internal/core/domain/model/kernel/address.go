package kernel

import (
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when an Address was not created via NewAddress.
var ErrAddressIsNotConstructed = errors.New("Address must be created via NewAddress constructor")

// Address is a complete postal address. Every component is required because
// the shipping label and the delivery partner both depend on it.
type Address struct {
	street     string
	city       string
	state      string
	postalCode string
	country    string

	guard guard.ConstructorGuard
}

// NewAddress validates and creates an Address. All missing components are
// reported together.
func NewAddress(street, city, state, postalCode, country string) (Address, error) {
	a := Address{
		street:     strings.TrimSpace(street),
		city:       strings.TrimSpace(city),
		state:      strings.TrimSpace(state),
		postalCode: strings.TrimSpace(postalCode),
		country:    strings.TrimSpace(country),
	}

	if err := errors.Join(
		required("street", a.street),
		required("city", a.city),
		required("state", a.state),
		required("postalCode", a.postalCode),
		required("country", a.country),
	); err != nil {
		return Address{}, err
	}

	a.guard = guard.NewConstructorGuard()
	return a, nil
}

func required(name, value string) error {
	if value == "" {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}

// Validate ensures the address was built by NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a Address) Street() string     { return a.street }
func (a Address) City() string       { return a.city }
func (a Address) State() string      { return a.state }
func (a Address) PostalCode() string { return a.postalCode }
func (a Address) Country() string    { return a.country }

// IsEqual compares all components.
func (a Address) IsEqual(other Address) bool {
	return a.street == other.street &&
		a.city == other.city &&
		a.state == other.state &&
		a.postalCode == other.postalCode &&
		a.country == other.country
}

// String renders a single-line address, e.g. "1 Main St, Springfield, IL 62701, US".
func (a Address) String() string {
	return fmt.Sprintf("%s, %s, %s %s, %s", a.street, a.city, a.state, a.postalCode, a.country)
}
