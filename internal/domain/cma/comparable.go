package cma

import (
	"time"

	"github.com/closeline/backend/internal/domain/shared"
	"github.com/closeline/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompStatus is the market status of a comparable property
type CompStatus string

const (
	CompStatusSold    CompStatus = "sold"
	CompStatusActive  CompStatus = "active"
	CompStatusPending CompStatus = "pending"
)

// Adjustment is a signed dollar correction applied to a comparable to
// account for a feature difference against the subject property, e.g.
// {"pool", -15000} when the comp has a pool and the subject does not.
type Adjustment struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Comparable is a property used as evidence in a CMA. It is owned by
// the Cma aggregate and never persisted on its own.
type Comparable struct {
	shared.BaseEntity
	CmaID         uuid.UUID
	Address       valueobject.Address
	Status        CompStatus
	ListPrice     *decimal.Decimal
	SoldPrice     *decimal.Decimal
	Beds          int
	Baths         decimal.Decimal // half baths count as 0.5
	Sqft          int
	YearBuilt     int
	DistanceMiles decimal.Decimal
	DaysOnMarket  *int
	SoldDate      *time.Time
	PhotoKey      string
	Position      int
	Adjustments   []Adjustment
}

// ComparableInput carries the editable fields of a comparable
type ComparableInput struct {
	Address       valueobject.Address
	Status        CompStatus
	ListPrice     *decimal.Decimal
	SoldPrice     *decimal.Decimal
	Beds          int
	Baths         decimal.Decimal
	Sqft          int
	YearBuilt     int
	DistanceMiles decimal.Decimal
	DaysOnMarket  *int
	SoldDate      *time.Time
	PhotoKey      string
}

func (in ComparableInput) validate() error {
	if in.Address.IsEmpty() {
		return shared.NewDomainError("INVALID_ADDRESS", "Comparable address is required")
	}
	switch in.Status {
	case CompStatusSold, CompStatusActive, CompStatusPending:
	default:
		return shared.NewDomainError("INVALID_COMP_STATUS", "Comparable status must be sold, active, or pending")
	}
	if in.Status == CompStatusSold && in.SoldPrice == nil {
		return shared.NewDomainError("INVALID_PRICE", "Sold comparables require a sold price")
	}
	if in.ListPrice != nil && in.ListPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "List price cannot be negative")
	}
	if in.SoldPrice != nil && in.SoldPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Sold price cannot be negative")
	}
	if in.Sqft < 0 || in.Beds < 0 || in.Baths.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Beds, baths, and sqft cannot be negative")
	}
	if in.DaysOnMarket != nil && *in.DaysOnMarket < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Days on market cannot be negative")
	}
	return nil
}

func (in ComparableInput) apply(c *Comparable) {
	c.Address = in.Address
	c.Status = in.Status
	c.ListPrice = in.ListPrice
	c.SoldPrice = in.SoldPrice
	c.Beds = in.Beds
	c.Baths = in.Baths
	c.Sqft = in.Sqft
	c.YearBuilt = in.YearBuilt
	c.DistanceMiles = in.DistanceMiles
	c.DaysOnMarket = in.DaysOnMarket
	c.SoldDate = in.SoldDate
	c.PhotoKey = in.PhotoKey
	c.UpdatedAt = time.Now()
}

// BasePrice returns the price the adjustment math starts from: the sold
// price when present, else the list price. Nil when neither is known.
func (c *Comparable) BasePrice() *decimal.Decimal {
	if c.SoldPrice != nil {
		return c.SoldPrice
	}
	return c.ListPrice
}

// TotalAdjustment sums the adjustment line items
func (c *Comparable) TotalAdjustment() decimal.Decimal {
	total := decimal.Zero
	for _, a := range c.Adjustments {
		total = total.Add(a.Amount)
	}
	return total
}

// AdjustedPrice returns base price plus the sum of adjustments.
// Nil when the comp has no usable price.
func (c *Comparable) AdjustedPrice() *decimal.Decimal {
	base := c.BasePrice()
	if base == nil {
		return nil
	}
	adjusted := base.Add(c.TotalAdjustment())
	return &adjusted
}

// AdjustedPricePerSqft returns the adjusted price divided by sqft.
// Nil when sqft is unknown or the comp has no usable price.
func (c *Comparable) AdjustedPricePerSqft() *decimal.Decimal {
	adjusted := c.AdjustedPrice()
	if adjusted == nil || c.Sqft <= 0 {
		return nil
	}
	ppsf := adjusted.Div(decimal.NewFromInt(int64(c.Sqft))).Round(2)
	return &ppsf
}

// PricePerSqft returns the unadjusted base price per sqft
func (c *Comparable) PricePerSqft() *decimal.Decimal {
	base := c.BasePrice()
	if base == nil || c.Sqft <= 0 {
		return nil
	}
	ppsf := base.Div(decimal.NewFromInt(int64(c.Sqft))).Round(2)
	return &ppsf
}
