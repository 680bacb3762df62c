package cma

import (
	"strings"
	"time"

	"github.com/closeline/backend/internal/domain/shared"
	"github.com/closeline/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CmaStatus represents the lifecycle of a CMA
type CmaStatus string

const (
	CmaStatusDraft    CmaStatus = "draft"
	CmaStatusReady    CmaStatus = "ready"
	CmaStatusArchived CmaStatus = "archived"
)

// MaxComparables caps the comp set; report layouts assume it
const MaxComparables = 20

// SubjectProperty is the property the CMA prices
type SubjectProperty struct {
	Address      valueobject.Address
	PropertyType string // e.g. "single_family", "condo", "townhome"
	Beds         int
	Baths        decimal.Decimal
	Sqft         int
	LotSqft      int
	YearBuilt    int
	PhotoKey     string
}

func (s SubjectProperty) validate() error {
	if s.Address.IsEmpty() {
		return shared.NewDomainError("INVALID_ADDRESS", "Subject property address is required")
	}
	if s.Beds < 0 || s.Baths.IsNegative() || s.Sqft < 0 || s.LotSqft < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Subject property metrics cannot be negative")
	}
	return nil
}

// Cma is a comparative market analysis: a subject property, a set of
// comparables, and a suggested price range. The comparables are owned
// child entities, loaded and saved with the aggregate.
type Cma struct {
	shared.TenantAggregateRoot
	Title       string
	Status      CmaStatus
	Subject     SubjectProperty
	AgentUserID uuid.UUID
	PriceLow    *decimal.Decimal
	PriceHigh   *decimal.Decimal
	Notes       string
	Comparables []Comparable
}

// NewCma creates a new draft CMA
func NewCma(brokerageID, agentUserID uuid.UUID, title string, subject SubjectProperty) (*Cma, error) {
	if agentUserID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AGENT", "Agent user ID cannot be empty")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "CMA title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "CMA title cannot exceed 200 characters")
	}
	if err := subject.validate(); err != nil {
		return nil, err
	}

	c := &Cma{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(brokerageID),
		Title:               title,
		Status:              CmaStatusDraft,
		Subject:             subject,
		AgentUserID:         agentUserID,
		Comparables:         make([]Comparable, 0),
	}

	c.AddDomainEvent(NewCmaCreatedEvent(c))

	return c, nil
}

// Update updates the title and subject property
func (c *Cma) Update(title string, subject SubjectProperty) error {
	if c.Status == CmaStatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Cannot edit an archived CMA")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "CMA title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "CMA title cannot exceed 200 characters")
	}
	if err := subject.validate(); err != nil {
		return err
	}

	c.Title = title
	c.Subject = subject
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// AddComparable appends a comparable to the comp set
func (c *Cma) AddComparable(in ComparableInput) (*Comparable, error) {
	if c.Status == CmaStatusArchived {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot edit an archived CMA")
	}
	if len(c.Comparables) >= MaxComparables {
		return nil, shared.NewDomainError("COMP_LIMIT", "A CMA can hold at most 20 comparables")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	comp := Comparable{
		BaseEntity:  shared.NewBaseEntity(),
		CmaID:       c.ID,
		Position:    len(c.Comparables),
		Adjustments: make([]Adjustment, 0),
	}
	in.apply(&comp)

	c.Comparables = append(c.Comparables, comp)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return &c.Comparables[len(c.Comparables)-1], nil
}

// UpdateComparable replaces the editable fields of an existing comparable
func (c *Cma) UpdateComparable(compID uuid.UUID, in ComparableInput) error {
	if c.Status == CmaStatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Cannot edit an archived CMA")
	}
	if err := in.validate(); err != nil {
		return err
	}

	comp := c.findComparable(compID)
	if comp == nil {
		return shared.ErrNotFound
	}

	in.apply(comp)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetAdjustments replaces the adjustment line items of a comparable
func (c *Cma) SetAdjustments(compID uuid.UUID, adjustments []Adjustment) error {
	if c.Status == CmaStatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Cannot edit an archived CMA")
	}
	for _, a := range adjustments {
		if strings.TrimSpace(a.Label) == "" {
			return shared.NewDomainError("INVALID_ADJUSTMENT", "Adjustment label cannot be empty")
		}
		if len(a.Label) > 100 {
			return shared.NewDomainError("INVALID_ADJUSTMENT", "Adjustment label cannot exceed 100 characters")
		}
	}

	comp := c.findComparable(compID)
	if comp == nil {
		return shared.ErrNotFound
	}

	comp.Adjustments = adjustments
	comp.UpdatedAt = time.Now()
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// RemoveComparable deletes a comparable and compacts positions
func (c *Cma) RemoveComparable(compID uuid.UUID) error {
	if c.Status == CmaStatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Cannot edit an archived CMA")
	}

	idx := -1
	for i := range c.Comparables {
		if c.Comparables[i].ID == compID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return shared.ErrNotFound
	}

	c.Comparables = append(c.Comparables[:idx], c.Comparables[idx+1:]...)
	for i := range c.Comparables {
		c.Comparables[i].Position = i
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// ReorderComparables applies a new ordering given the full list of comp IDs
func (c *Cma) ReorderComparables(orderedIDs []uuid.UUID) error {
	if c.Status == CmaStatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Cannot edit an archived CMA")
	}
	if len(orderedIDs) != len(c.Comparables) {
		return shared.NewDomainError("INVALID_ORDER", "Ordering must include every comparable exactly once")
	}

	byID := make(map[uuid.UUID]*Comparable, len(c.Comparables))
	for i := range c.Comparables {
		byID[c.Comparables[i].ID] = &c.Comparables[i]
	}

	reordered := make([]Comparable, 0, len(orderedIDs))
	seen := make(map[uuid.UUID]bool, len(orderedIDs))
	for i, id := range orderedIDs {
		comp, ok := byID[id]
		if !ok || seen[id] {
			return shared.NewDomainError("INVALID_ORDER", "Ordering must include every comparable exactly once")
		}
		seen[id] = true
		comp.Position = i
		reordered = append(reordered, *comp)
	}

	c.Comparables = reordered
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetPriceRange sets the suggested range manually
func (c *Cma) SetPriceRange(low, high decimal.Decimal) error {
	if low.IsNegative() || high.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price range cannot be negative")
	}
	if high.LessThan(low) {
		return shared.NewDomainError("INVALID_PRICE", "Price range high must not be below low")
	}

	c.PriceLow = &low
	c.PriceHigh = &high
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// ApplySuggestedRange computes the range from the comp set and stores it.
// No-op error when the comps give no usable prices.
func (c *Cma) ApplySuggestedRange() error {
	low, high, ok := SuggestedRange(c.Comparables)
	if !ok {
		return shared.NewDomainError("NO_COMP_PRICES", "No comparable has a usable price")
	}
	return c.SetPriceRange(low, high)
}

// MarkReady marks the CMA as ready for presentation
func (c *Cma) MarkReady() error {
	if c.Status != CmaStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only a draft CMA can be marked ready")
	}
	if len(c.Comparables) == 0 {
		return shared.NewDomainError("NO_COMPS", "A CMA needs at least one comparable to be ready")
	}

	c.Status = CmaStatusReady
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Reopen moves a ready CMA back to draft for editing
func (c *Cma) Reopen() error {
	if c.Status != CmaStatusReady {
		return shared.NewDomainError("INVALID_STATE", "Only a ready CMA can be reopened")
	}

	c.Status = CmaStatusDraft
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Archive archives the CMA; archived CMAs are read-only
func (c *Cma) Archive() error {
	if c.Status == CmaStatusArchived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "CMA is already archived")
	}

	c.Status = CmaStatusArchived
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetNotes sets the notes
func (c *Cma) SetNotes(notes string) {
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Duplicate returns a fresh draft copy of the CMA under a new title,
// with new IDs for the aggregate and every comparable
func (c *Cma) Duplicate(title string) (*Cma, error) {
	dup, err := NewCma(c.TenantID, c.AgentUserID, title, c.Subject)
	if err != nil {
		return nil, err
	}

	for _, comp := range c.Comparables {
		copied := comp
		copied.BaseEntity = shared.NewBaseEntity()
		copied.CmaID = dup.ID
		copied.Adjustments = append([]Adjustment(nil), comp.Adjustments...)
		dup.Comparables = append(dup.Comparables, copied)
	}
	dup.Notes = c.Notes
	dup.PriceLow = c.PriceLow
	dup.PriceHigh = c.PriceHigh

	return dup, nil
}

// Statistics computes the stats over the current comp set
func (c *Cma) Statistics() Statistics {
	return ComputeStatistics(c.Comparables)
}

func (c *Cma) findComparable(compID uuid.UUID) *Comparable {
	for i := range c.Comparables {
		if c.Comparables[i].ID == compID {
			return &c.Comparables[i]
		}
	}
	return nil
}
