package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Address is a value object representing a US property address.
// It is immutable - all operations return new Address instances.
type Address struct {
	street string
	unit   string
	city   string
	state  string
	zip    string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithUnit sets the unit/apartment number for the address
func WithUnit(unit string) AddressOption {
	return func(a *Address) {
		a.unit = strings.TrimSpace(unit)
	}
}

var zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// USStates maps two-letter state codes to full names, including DC.
var USStates = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
	"CA": "California", "CO": "Colorado", "CT": "Connecticut", "DE": "Delaware",
	"DC": "District of Columbia", "FL": "Florida", "GA": "Georgia", "HI": "Hawaii",
	"ID": "Idaho", "IL": "Illinois", "IN": "Indiana", "IA": "Iowa",
	"KS": "Kansas", "KY": "Kentucky", "LA": "Louisiana", "ME": "Maine",
	"MD": "Maryland", "MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota",
	"MS": "Mississippi", "MO": "Missouri", "MT": "Montana", "NE": "Nebraska",
	"NV": "Nevada", "NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico",
	"NY": "New York", "NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio",
	"OK": "Oklahoma", "OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island",
	"SC": "South Carolina", "SD": "South Dakota", "TN": "Tennessee", "TX": "Texas",
	"UT": "Utah", "VT": "Vermont", "VA": "Virginia", "WA": "Washington",
	"WV": "West Virginia", "WI": "Wisconsin", "WY": "Wyoming",
}

// IsValidStateCode reports whether code is a valid two-letter US state code
func IsValidStateCode(code string) bool {
	_, ok := USStates[strings.ToUpper(code)]
	return ok
}

// NewAddress creates a new Address. Street, city, state, and zip are required.
func NewAddress(street, city, state, zip string, opts ...AddressOption) (Address, error) {
	street = strings.TrimSpace(street)
	city = strings.TrimSpace(city)
	state = strings.ToUpper(strings.TrimSpace(state))
	zip = strings.TrimSpace(zip)

	if street == "" {
		return Address{}, fmt.Errorf("street cannot be empty")
	}
	if len(street) > 200 {
		return Address{}, fmt.Errorf("street cannot exceed 200 characters")
	}
	if city == "" {
		return Address{}, fmt.Errorf("city cannot be empty")
	}
	if len(city) > 100 {
		return Address{}, fmt.Errorf("city cannot exceed 100 characters")
	}
	if !IsValidStateCode(state) {
		return Address{}, fmt.Errorf("invalid state code: %q", state)
	}
	if !zipPattern.MatchString(zip) {
		return Address{}, fmt.Errorf("invalid zip code: %q", zip)
	}

	addr := Address{
		street: street,
		city:   city,
		state:  state,
		zip:    zip,
	}
	for _, opt := range opts {
		opt(&addr)
	}
	if len(addr.unit) > 50 {
		return Address{}, fmt.Errorf("unit cannot exceed 50 characters")
	}
	return addr, nil
}

// MustNewAddress creates a new Address, panics on error
func MustNewAddress(street, city, state, zip string, opts ...AddressOption) Address {
	addr, err := NewAddress(street, city, state, zip, opts...)
	if err != nil {
		panic(err)
	}
	return addr
}

// EmptyAddress returns an empty address (for optional address fields)
func EmptyAddress() Address {
	return Address{}
}

// Street returns the street line
func (a Address) Street() string { return a.street }

// Unit returns the unit/apartment number
func (a Address) Unit() string { return a.unit }

// City returns the city
func (a Address) City() string { return a.city }

// State returns the two-letter state code
func (a Address) State() string { return a.state }

// Zip returns the zip code
func (a Address) Zip() string { return a.zip }

// IsEmpty returns true if the address has no fields set
func (a Address) IsEmpty() bool {
	return a.street == "" && a.city == "" && a.state == "" && a.zip == ""
}

// Line1 returns the street line including the unit, e.g. "412 Maple Ave Unit 2B"
func (a Address) Line1() string {
	if a.unit == "" {
		return a.street
	}
	return a.street + " Unit " + a.unit
}

// Line2 returns the locality line, e.g. "Austin, TX 78704"
func (a Address) Line2() string {
	if a.IsEmpty() {
		return ""
	}
	return fmt.Sprintf("%s, %s %s", a.city, a.state, a.zip)
}

// String returns the single-line formatted address
func (a Address) String() string {
	if a.IsEmpty() {
		return ""
	}
	return a.Line1() + ", " + a.Line2()
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a == other
}

// SameCity returns true if both addresses are in the same city and state
func (a Address) SameCity(other Address) bool {
	return strings.EqualFold(a.city, other.city) && a.state == other.state
}

type addressJSON struct {
	Street string `json:"street"`
	Unit   string `json:"unit,omitempty"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Street: a.street,
		Unit:   a.unit,
		City:   a.city,
		State:  a.state,
		Zip:    a.zip,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Empty payloads produce an
// empty address; non-empty payloads go through NewAddress validation.
func (a *Address) UnmarshalJSON(data []byte) error {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Street == "" && v.City == "" && v.State == "" && v.Zip == "" {
		*a = EmptyAddress()
		return nil
	}
	addr, err := NewAddress(v.Street, v.City, v.State, v.Zip, WithUnit(v.Unit))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// Value implements driver.Valuer, storing the address as a JSON column
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for database retrieval
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = EmptyAddress()
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*a = EmptyAddress()
		return nil
	}
	return json.Unmarshal(data, a)
}
