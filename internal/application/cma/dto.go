package cma

import (
	"time"

	"github.com/closeline/backend/internal/domain/cma"
	"github.com/closeline/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddressInput carries the raw address fields before validation
type AddressInput struct {
	Street string
	Unit   string
	City   string
	State  string
	Zip    string
}

func (a AddressInput) toAddress() (valueobject.Address, error) {
	return valueobject.NewAddress(a.Street, a.City, a.State, a.Zip, valueobject.WithUnit(a.Unit))
}

// SubjectInput carries the subject property fields
type SubjectInput struct {
	Address      AddressInput
	PropertyType string
	Beds         int
	Baths        decimal.Decimal
	Sqft         int
	LotSqft      int
	YearBuilt    int
	PhotoKey     string
}

func (s SubjectInput) toSubject() (cma.SubjectProperty, error) {
	addr, err := s.Address.toAddress()
	if err != nil {
		return cma.SubjectProperty{}, err
	}
	return cma.SubjectProperty{
		Address:      addr,
		PropertyType: s.PropertyType,
		Beds:         s.Beds,
		Baths:        s.Baths,
		Sqft:         s.Sqft,
		LotSqft:      s.LotSqft,
		YearBuilt:    s.YearBuilt,
		PhotoKey:     s.PhotoKey,
	}, nil
}

// CreateCmaInput contains the fields for creating a CMA
type CreateCmaInput struct {
	BrokerageID uuid.UUID
	AgentUserID uuid.UUID
	Title       string
	Subject     SubjectInput
	Notes       string
}

// UpdateCmaInput replaces the title and subject property
type UpdateCmaInput struct {
	BrokerageID uuid.UUID
	CmaID       uuid.UUID
	Title       string
	Subject     SubjectInput
}

// ComparableFields carries the editable fields of a comparable
type ComparableFields struct {
	Address       AddressInput
	Status        cma.CompStatus
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

func (f ComparableFields) toInput() (cma.ComparableInput, error) {
	addr, err := f.Address.toAddress()
	if err != nil {
		return cma.ComparableInput{}, err
	}
	return cma.ComparableInput{
		Address:       addr,
		Status:        f.Status,
		ListPrice:     f.ListPrice,
		SoldPrice:     f.SoldPrice,
		Beds:          f.Beds,
		Baths:         f.Baths,
		Sqft:          f.Sqft,
		YearBuilt:     f.YearBuilt,
		DistanceMiles: f.DistanceMiles,
		DaysOnMarket:  f.DaysOnMarket,
		SoldDate:      f.SoldDate,
		PhotoKey:      f.PhotoKey,
	}, nil
}

// AdjustmentInput is one adjustment line item
type AdjustmentInput struct {
	Label  string
	Amount decimal.Decimal
}

// ComparableInfo is the comparable read model with derived prices
type ComparableInfo struct {
	ID             uuid.UUID           `json:"id"`
	Address        valueobject.Address `json:"address"`
	Status         cma.CompStatus      `json:"status"`
	ListPrice      *decimal.Decimal    `json:"list_price,omitempty"`
	SoldPrice      *decimal.Decimal    `json:"sold_price,omitempty"`
	Beds           int                 `json:"beds"`
	Baths          decimal.Decimal     `json:"baths"`
	Sqft           int                 `json:"sqft"`
	YearBuilt      int                 `json:"year_built,omitempty"`
	DistanceMiles  decimal.Decimal     `json:"distance_miles"`
	DaysOnMarket   *int                `json:"days_on_market,omitempty"`
	SoldDate       *time.Time          `json:"sold_date,omitempty"`
	PhotoKey       string              `json:"photo_key,omitempty"`
	Position       int                 `json:"position"`
	Adjustments    []cma.Adjustment    `json:"adjustments"`
	AdjustedPrice  *decimal.Decimal    `json:"adjusted_price,omitempty"`
	AdjustedPPSqft *decimal.Decimal    `json:"adjusted_price_per_sqft,omitempty"`
}

// CmaInfo is the CMA read model
type CmaInfo struct {
	ID          uuid.UUID           `json:"id"`
	Title       string              `json:"title"`
	Status      cma.CmaStatus       `json:"status"`
	Subject     cma.SubjectProperty `json:"subject"`
	AgentUserID uuid.UUID           `json:"agent_user_id"`
	PriceLow    *decimal.Decimal    `json:"price_low,omitempty"`
	PriceHigh   *decimal.Decimal    `json:"price_high,omitempty"`
	Notes       string              `json:"notes,omitempty"`
	Comparables []ComparableInfo    `json:"comparables"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func toComparableInfo(c *cma.Comparable) ComparableInfo {
	return ComparableInfo{
		ID:             c.ID,
		Address:        c.Address,
		Status:         c.Status,
		ListPrice:      c.ListPrice,
		SoldPrice:      c.SoldPrice,
		Beds:           c.Beds,
		Baths:          c.Baths,
		Sqft:           c.Sqft,
		YearBuilt:      c.YearBuilt,
		DistanceMiles:  c.DistanceMiles,
		DaysOnMarket:   c.DaysOnMarket,
		SoldDate:       c.SoldDate,
		PhotoKey:       c.PhotoKey,
		Position:       c.Position,
		Adjustments:    c.Adjustments,
		AdjustedPrice:  c.AdjustedPrice(),
		AdjustedPPSqft: c.AdjustedPricePerSqft(),
	}
}

func toCmaInfo(c *cma.Cma) CmaInfo {
	comps := make([]ComparableInfo, len(c.Comparables))
	for i := range c.Comparables {
		comps[i] = toComparableInfo(&c.Comparables[i])
	}
	return CmaInfo{
		ID:          c.ID,
		Title:       c.Title,
		Status:      c.Status,
		Subject:     c.Subject,
		AgentUserID: c.AgentUserID,
		PriceLow:    c.PriceLow,
		PriceHigh:   c.PriceHigh,
		Notes:       c.Notes,
		Comparables: comps,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// UpdateReportConfigInput replaces the report configuration
type UpdateReportConfigInput struct {
	BrokerageID   uuid.UUID
	CmaID         uuid.UUID
	Theme         cma.ReportTheme
	AccentColor   string
	CoverPhotoKey string
	IntroText     string
	Disclaimer    string
	Sections      []cma.SectionToggle
}

// ExportInfo is the export job read model clients poll
type ExportInfo struct {
	ID          uuid.UUID        `json:"id"`
	CmaID       uuid.UUID        `json:"cma_id"`
	Status      cma.ExportStatus `json:"status"`
	ObjectKey   string           `json:"object_key,omitempty"`
	PageCount   int              `json:"page_count,omitempty"`
	ByteSize    int64            `json:"byte_size,omitempty"`
	DurationMS  int64            `json:"duration_ms,omitempty"`
	ErrorCode   string           `json:"error_code,omitempty"`
	ErrorMsg    string           `json:"error_msg,omitempty"`
	RequestedAt time.Time        `json:"requested_at"`
	StartedAt   *time.Time       `json:"started_at,omitempty"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

func toExportInfo(e *cma.ReportExport) ExportInfo {
	return ExportInfo{
		ID:          e.ID,
		CmaID:       e.CmaID,
		Status:      e.Status,
		ObjectKey:   e.ObjectKey,
		PageCount:   e.PageCount,
		ByteSize:    e.ByteSize,
		DurationMS:  e.DurationMS,
		ErrorCode:   e.ErrorCode,
		ErrorMsg:    e.ErrorMsg,
		RequestedAt: e.CreatedAt,
		StartedAt:   e.StartedAt,
		CompletedAt: e.CompletedAt,
	}
}

// ShareReportInput contains the fields for emailing a CMA report
type ShareReportInput struct {
	BrokerageID uuid.UUID
	CmaID       uuid.UUID
	SentBy      uuid.UUID
	Recipients  []string
	Message     string
	// ExportID selects the completed export to attach; no attachment
	// when nil
	ExportID *uuid.UUID
}

// ShareInfo is the share log read model
type ShareInfo struct {
	ID         uuid.UUID `json:"id"`
	CmaID      uuid.UUID `json:"cma_id"`
	SentBy     uuid.UUID `json:"sent_by"`
	Recipients []string  `json:"recipients"`
	Message    string    `json:"message,omitempty"`
	AttachPDF  bool      `json:"attach_pdf"`
	SentAt     time.Time `json:"sent_at"`
}

func toShareInfo(s *cma.ShareLog) ShareInfo {
	return ShareInfo{
		ID:         s.ID,
		CmaID:      s.CmaID,
		SentBy:     s.SentBy,
		Recipients: s.Recipients,
		Message:    s.Message,
		AttachPDF:  s.AttachPDF,
		SentAt:     s.SentAt,
	}
}
