package models

import (
	"time"

	"github.com/closeline/backend/internal/domain/shared/valueobject"
	"github.com/closeline/backend/internal/domain/transaction"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionModel is the persistence model for the Transaction aggregate.
type TransactionModel struct {
	TenantAggregateModel
	Side           transaction.Side    `gorm:"type:varchar(20);not null"`
	Status         transaction.Status  `gorm:"type:varchar(20);not null;default:'intake';index"`
	Address        valueobject.Address `gorm:"type:jsonb;not null"`
	MLSNumber      string              `gorm:"column:mls_number;type:varchar(50)"`
	ListPrice      decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	ContractPrice  *decimal.Decimal    `gorm:"type:decimal(18,4)"`
	CommissionRate decimal.Decimal     `gorm:"type:decimal(7,4);not null;default:0"`
	ClientName     string              `gorm:"type:varchar(200);not null"`
	ClientEmail    string              `gorm:"type:varchar(200)"`
	ClientPhone    string              `gorm:"type:varchar(50)"`
	AgentUserID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	CoordinatorID  *uuid.UUID          `gorm:"type:uuid;index"`
	ListingDate    *time.Time
	ContractDate   *time.Time
	ClosingDate    *time.Time `gorm:"index"`
	SlackChannelID string     `gorm:"type:varchar(50)"`
	Notes          string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the persistence model to a domain Transaction entity.
func (m *TransactionModel) ToDomain() *transaction.Transaction {
	t := &transaction.Transaction{
		Side:           m.Side,
		Status:         m.Status,
		Address:        m.Address,
		MLSNumber:      m.MLSNumber,
		ListPrice:      m.ListPrice,
		ContractPrice:  m.ContractPrice,
		CommissionRate: m.CommissionRate,
		Client: transaction.Client{
			Name:  m.ClientName,
			Email: m.ClientEmail,
			Phone: m.ClientPhone,
		},
		AgentUserID:    m.AgentUserID,
		CoordinatorID:  m.CoordinatorID,
		ListingDate:    m.ListingDate,
		ContractDate:   m.ContractDate,
		ClosingDate:    m.ClosingDate,
		SlackChannelID: m.SlackChannelID,
		Notes:          m.Notes,
	}
	m.PopulateTenantAggregateRoot(&t.TenantAggregateRoot)
	return t
}

// FromDomain populates the persistence model from a domain Transaction entity.
func (m *TransactionModel) FromDomain(t *transaction.Transaction) {
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	m.Side = t.Side
	m.Status = t.Status
	m.Address = t.Address
	m.MLSNumber = t.MLSNumber
	m.ListPrice = t.ListPrice
	m.ContractPrice = t.ContractPrice
	m.CommissionRate = t.CommissionRate
	m.ClientName = t.Client.Name
	m.ClientEmail = t.Client.Email
	m.ClientPhone = t.Client.Phone
	m.AgentUserID = t.AgentUserID
	m.CoordinatorID = t.CoordinatorID
	m.ListingDate = t.ListingDate
	m.ContractDate = t.ContractDate
	m.ClosingDate = t.ClosingDate
	m.SlackChannelID = t.SlackChannelID
	m.Notes = t.Notes
}

// TransactionModelFromDomain creates a new persistence model from a domain Transaction entity.
func TransactionModelFromDomain(t *transaction.Transaction) *TransactionModel {
	m := &TransactionModel{}
	m.FromDomain(t)
	return m
}
