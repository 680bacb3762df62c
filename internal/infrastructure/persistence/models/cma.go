package models

import (
	"encoding/json"
	"time"

	"github.com/closeline/backend/internal/domain/cma"
	"github.com/closeline/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CmaModel is the persistence model for the Cma aggregate. Comparables
// live in their own table and load with the aggregate.
type CmaModel struct {
	TenantAggregateModel
	Title           string              `gorm:"type:varchar(200);not null"`
	Status          cma.CmaStatus       `gorm:"type:varchar(20);not null;default:'draft';index"`
	SubjectAddress  valueobject.Address `gorm:"column:subject_address;type:jsonb;not null"`
	PropertyType    string              `gorm:"type:varchar(50)"`
	SubjectBeds     int                 `gorm:"not null;default:0"`
	SubjectBaths    decimal.Decimal     `gorm:"type:decimal(4,1);not null;default:0"`
	SubjectSqft     int                 `gorm:"not null;default:0"`
	SubjectLotSqft  int                 `gorm:"not null;default:0"`
	SubjectYear     int                 `gorm:"column:subject_year_built;not null;default:0"`
	SubjectPhotoKey string              `gorm:"type:varchar(500)"`
	AgentUserID     uuid.UUID           `gorm:"type:uuid;not null;index"`
	PriceLow        *decimal.Decimal    `gorm:"type:decimal(18,4)"`
	PriceHigh       *decimal.Decimal    `gorm:"type:decimal(18,4)"`
	Notes           string              `gorm:"type:text"`
	Comparables     []ComparableModel   `gorm:"foreignKey:CmaID;references:ID"`
}

// TableName returns the table name for GORM
func (CmaModel) TableName() string {
	return "cmas"
}

// ToDomain converts the persistence model to a domain Cma entity.
func (m *CmaModel) ToDomain() *cma.Cma {
	c := &cma.Cma{
		Title:  m.Title,
		Status: m.Status,
		Subject: cma.SubjectProperty{
			Address:      m.SubjectAddress,
			PropertyType: m.PropertyType,
			Beds:         m.SubjectBeds,
			Baths:        m.SubjectBaths,
			Sqft:         m.SubjectSqft,
			LotSqft:      m.SubjectLotSqft,
			YearBuilt:    m.SubjectYear,
			PhotoKey:     m.SubjectPhotoKey,
		},
		AgentUserID: m.AgentUserID,
		PriceLow:    m.PriceLow,
		PriceHigh:   m.PriceHigh,
		Notes:       m.Notes,
		Comparables: make([]cma.Comparable, len(m.Comparables)),
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	for i := range m.Comparables {
		c.Comparables[i] = *m.Comparables[i].ToDomain()
	}
	return c
}

// FromDomain populates the persistence model from a domain Cma entity.
func (m *CmaModel) FromDomain(c *cma.Cma) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Title = c.Title
	m.Status = c.Status
	m.SubjectAddress = c.Subject.Address
	m.PropertyType = c.Subject.PropertyType
	m.SubjectBeds = c.Subject.Beds
	m.SubjectBaths = c.Subject.Baths
	m.SubjectSqft = c.Subject.Sqft
	m.SubjectLotSqft = c.Subject.LotSqft
	m.SubjectYear = c.Subject.YearBuilt
	m.SubjectPhotoKey = c.Subject.PhotoKey
	m.AgentUserID = c.AgentUserID
	m.PriceLow = c.PriceLow
	m.PriceHigh = c.PriceHigh
	m.Notes = c.Notes
	m.Comparables = make([]ComparableModel, len(c.Comparables))
	for i := range c.Comparables {
		m.Comparables[i].FromDomain(&c.Comparables[i])
	}
}

// CmaModelFromDomain creates a new persistence model from a domain Cma entity.
func CmaModelFromDomain(c *cma.Cma) *CmaModel {
	m := &CmaModel{}
	m.FromDomain(c)
	return m
}

// ComparableModel is the persistence model for a comparable property.
// Rows belong to a CMA and carry an explicit display position.
type ComparableModel struct {
	BaseModel
	CmaID           uuid.UUID           `gorm:"type:uuid;not null;index"`
	Address         valueobject.Address `gorm:"type:jsonb;not null"`
	Status          cma.CompStatus      `gorm:"type:varchar(20);not null"`
	ListPrice       *decimal.Decimal    `gorm:"type:decimal(18,4)"`
	SoldPrice       *decimal.Decimal    `gorm:"type:decimal(18,4)"`
	Beds            int                 `gorm:"not null;default:0"`
	Baths           decimal.Decimal     `gorm:"type:decimal(4,1);not null;default:0"`
	Sqft            int                 `gorm:"not null;default:0"`
	YearBuilt       int                 `gorm:"not null;default:0"`
	DistanceMiles   decimal.Decimal     `gorm:"type:decimal(6,2);not null;default:0"`
	DaysOnMarket    *int
	SoldDate        *time.Time
	PhotoKey        string `gorm:"type:varchar(500)"`
	Position        int    `gorm:"not null;default:0"`
	AdjustmentsJSON string `gorm:"column:adjustments;type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (ComparableModel) TableName() string {
	return "cma_comparables"
}

// ToDomain converts the persistence model to a domain Comparable entity.
func (m *ComparableModel) ToDomain() *cma.Comparable {
	adjustments := make([]cma.Adjustment, 0)
	if m.AdjustmentsJSON != "" {
		_ = json.Unmarshal([]byte(m.AdjustmentsJSON), &adjustments)
	}

	return &cma.Comparable{
		BaseEntity:    m.BaseModel.ToDomain(),
		CmaID:         m.CmaID,
		Address:       m.Address,
		Status:        m.Status,
		ListPrice:     m.ListPrice,
		SoldPrice:     m.SoldPrice,
		Beds:          m.Beds,
		Baths:         m.Baths,
		Sqft:          m.Sqft,
		YearBuilt:     m.YearBuilt,
		DistanceMiles: m.DistanceMiles,
		DaysOnMarket:  m.DaysOnMarket,
		SoldDate:      m.SoldDate,
		PhotoKey:      m.PhotoKey,
		Position:      m.Position,
		Adjustments:   adjustments,
	}
}

// FromDomain populates the persistence model from a domain Comparable entity.
func (m *ComparableModel) FromDomain(c *cma.Comparable) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.CmaID = c.CmaID
	m.Address = c.Address
	m.Status = c.Status
	m.ListPrice = c.ListPrice
	m.SoldPrice = c.SoldPrice
	m.Beds = c.Beds
	m.Baths = c.Baths
	m.Sqft = c.Sqft
	m.YearBuilt = c.YearBuilt
	m.DistanceMiles = c.DistanceMiles
	m.DaysOnMarket = c.DaysOnMarket
	m.SoldDate = c.SoldDate
	m.PhotoKey = c.PhotoKey
	m.Position = c.Position
	if bytes, err := json.Marshal(c.Adjustments); err == nil {
		m.AdjustmentsJSON = string(bytes)
	}
}

// ReportConfigModel is the persistence model for a CMA's report config.
type ReportConfigModel struct {
	TenantAggregateModel
	CmaID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Theme         cma.ReportTheme `gorm:"type:varchar(20);not null;default:'classic'"`
	AccentColor   string          `gorm:"type:varchar(7);not null;default:'#1F2937'"`
	CoverPhotoKey string          `gorm:"type:varchar(500)"`
	SectionsJSON  string          `gorm:"column:sections;type:jsonb;default:'[]'"`
	IntroText     string          `gorm:"type:text"`
	Disclaimer    string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ReportConfigModel) TableName() string {
	return "cma_report_configs"
}

// ToDomain converts the persistence model to a domain ReportConfig entity.
func (m *ReportConfigModel) ToDomain() *cma.ReportConfig {
	sections := make([]cma.SectionToggle, 0)
	if m.SectionsJSON != "" {
		_ = json.Unmarshal([]byte(m.SectionsJSON), &sections)
	}
	if len(sections) == 0 {
		sections = cma.DefaultSections()
	}

	cfg := &cma.ReportConfig{
		CmaID:         m.CmaID,
		Theme:         m.Theme,
		AccentColor:   m.AccentColor,
		CoverPhotoKey: m.CoverPhotoKey,
		Sections:      sections,
		IntroText:     m.IntroText,
		Disclaimer:    m.Disclaimer,
	}
	m.PopulateTenantAggregateRoot(&cfg.TenantAggregateRoot)
	return cfg
}

// FromDomain populates the persistence model from a domain ReportConfig entity.
func (m *ReportConfigModel) FromDomain(cfg *cma.ReportConfig) {
	m.FromDomainTenantAggregateRoot(cfg.TenantAggregateRoot)
	m.CmaID = cfg.CmaID
	m.Theme = cfg.Theme
	m.AccentColor = cfg.AccentColor
	m.CoverPhotoKey = cfg.CoverPhotoKey
	if bytes, err := json.Marshal(cfg.Sections); err == nil {
		m.SectionsJSON = string(bytes)
	}
	m.IntroText = cfg.IntroText
	m.Disclaimer = cfg.Disclaimer
}

// ReportConfigModelFromDomain creates a new persistence model from a domain ReportConfig entity.
func ReportConfigModelFromDomain(cfg *cma.ReportConfig) *ReportConfigModel {
	m := &ReportConfigModel{}
	m.FromDomain(cfg)
	return m
}

// ReportExportModel is the persistence model for a PDF export job.
type ReportExportModel struct {
	TenantAggregateModel
	CmaID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	Status      cma.ExportStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	RequestedBy uuid.UUID        `gorm:"type:uuid;not null"`
	ObjectKey   string           `gorm:"type:varchar(500)"`
	PageCount   int              `gorm:"not null;default:0"`
	ByteSize    int64            `gorm:"not null;default:0"`
	DurationMS  int64            `gorm:"column:duration_ms;not null;default:0"`
	ErrorCode   string           `gorm:"type:varchar(50)"`
	ErrorMsg    string           `gorm:"type:text"`
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// TableName returns the table name for GORM
func (ReportExportModel) TableName() string {
	return "cma_report_exports"
}

// ToDomain converts the persistence model to a domain ReportExport entity.
func (m *ReportExportModel) ToDomain() *cma.ReportExport {
	e := &cma.ReportExport{
		CmaID:       m.CmaID,
		Status:      m.Status,
		RequestedBy: m.RequestedBy,
		ObjectKey:   m.ObjectKey,
		PageCount:   m.PageCount,
		ByteSize:    m.ByteSize,
		DurationMS:  m.DurationMS,
		ErrorCode:   m.ErrorCode,
		ErrorMsg:    m.ErrorMsg,
		StartedAt:   m.StartedAt,
		CompletedAt: m.CompletedAt,
	}
	m.PopulateTenantAggregateRoot(&e.TenantAggregateRoot)
	return e
}

// FromDomain populates the persistence model from a domain ReportExport entity.
func (m *ReportExportModel) FromDomain(e *cma.ReportExport) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.CmaID = e.CmaID
	m.Status = e.Status
	m.RequestedBy = e.RequestedBy
	m.ObjectKey = e.ObjectKey
	m.PageCount = e.PageCount
	m.ByteSize = e.ByteSize
	m.DurationMS = e.DurationMS
	m.ErrorCode = e.ErrorCode
	m.ErrorMsg = e.ErrorMsg
	m.StartedAt = e.StartedAt
	m.CompletedAt = e.CompletedAt
}

// ReportExportModelFromDomain creates a new persistence model from a domain ReportExport entity.
func ReportExportModelFromDomain(e *cma.ReportExport) *ReportExportModel {
	m := &ReportExportModel{}
	m.FromDomain(e)
	return m
}

// ShareLogModel is the persistence model for a report share record.
type ShareLogModel struct {
	TenantAggregateModel
	CmaID          uuid.UUID `gorm:"type:uuid;not null;index"`
	SentBy         uuid.UUID `gorm:"type:uuid;not null"`
	RecipientsJSON string    `gorm:"column:recipients;type:jsonb;not null;default:'[]'"`
	Message        string    `gorm:"type:text"`
	AttachPDF      bool      `gorm:"column:attach_pdf;not null;default:false"`
	SentAt         time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ShareLogModel) TableName() string {
	return "cma_share_logs"
}

// ToDomain converts the persistence model to a domain ShareLog entity.
func (m *ShareLogModel) ToDomain() *cma.ShareLog {
	recipients := make([]string, 0)
	if m.RecipientsJSON != "" {
		_ = json.Unmarshal([]byte(m.RecipientsJSON), &recipients)
	}

	s := &cma.ShareLog{
		CmaID:      m.CmaID,
		SentBy:     m.SentBy,
		Recipients: recipients,
		Message:    m.Message,
		AttachPDF:  m.AttachPDF,
		SentAt:     m.SentAt,
	}
	m.PopulateTenantAggregateRoot(&s.TenantAggregateRoot)
	return s
}

// FromDomain populates the persistence model from a domain ShareLog entity.
func (m *ShareLogModel) FromDomain(s *cma.ShareLog) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.CmaID = s.CmaID
	m.SentBy = s.SentBy
	if bytes, err := json.Marshal(s.Recipients); err == nil {
		m.RecipientsJSON = string(bytes)
	}
	m.Message = s.Message
	m.AttachPDF = s.AttachPDF
	m.SentAt = s.SentAt
}

// ShareLogModelFromDomain creates a new persistence model from a domain ShareLog entity.
func ShareLogModelFromDomain(s *cma.ShareLog) *ShareLogModel {
	m := &ShareLogModel{}
	m.FromDomain(s)
	return m
}
