package transaction

import (
	"time"

	"github.com/closeline/backend/internal/domain/shared/valueobject"
	"github.com/closeline/backend/internal/domain/transaction"
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

// ClientInput carries the client contact fields
type ClientInput struct {
	Name  string
	Email string
	Phone string
}

// CreateTransactionInput contains the fields for opening a new file
type CreateTransactionInput struct {
	BrokerageID    uuid.UUID
	AgentUserID    uuid.UUID
	Side           transaction.Side
	Address        AddressInput
	Client         ClientInput
	MLSNumber      string
	ListPrice      decimal.Decimal
	CommissionRate decimal.Decimal
	Notes          string
}

// UpdateDetailsInput contains the editable property and pricing fields
type UpdateDetailsInput struct {
	BrokerageID    uuid.UUID
	TransactionID  uuid.UUID
	Address        AddressInput
	MLSNumber      string
	ListPrice      decimal.Decimal
	CommissionRate decimal.Decimal
}

// UpdateClientInput replaces the client contact details
type UpdateClientInput struct {
	BrokerageID   uuid.UUID
	TransactionID uuid.UUID
	Client        ClientInput
}

// ActivateInput moves the file from intake to active
type ActivateInput struct {
	BrokerageID   uuid.UUID
	TransactionID uuid.UUID
	ListingDate   *time.Time
}

// MarkUnderContractInput records the executed contract
type MarkUnderContractInput struct {
	BrokerageID   uuid.UUID
	TransactionID uuid.UUID
	ContractPrice decimal.Decimal
	ContractDate  time.Time
	// ClosingDate is usually known at contract time; optional here
	ClosingDate *time.Time
}

// SetClosingDateInput sets or moves the closing date
type SetClosingDateInput struct {
	BrokerageID   uuid.UUID
	TransactionID uuid.UUID
	ClosingDate   time.Time
}

// TerminateInput cancels or withdraws a file
type TerminateInput struct {
	BrokerageID   uuid.UUID
	TransactionID uuid.UUID
	Reason        string
}

// AssignCoordinatorInput assigns a coordinator to a file
type AssignCoordinatorInput struct {
	BrokerageID   uuid.UUID
	TransactionID uuid.UUID
	CoordinatorID uuid.UUID
}

// TransactionInfo is the transaction read model
type TransactionInfo struct {
	ID              uuid.UUID           `json:"id"`
	Side            transaction.Side    `json:"side"`
	Status          transaction.Status  `json:"status"`
	Address         valueobject.Address `json:"address"`
	MLSNumber       string              `json:"mls_number,omitempty"`
	ListPrice       decimal.Decimal     `json:"list_price"`
	ContractPrice   *decimal.Decimal    `json:"contract_price,omitempty"`
	CommissionRate  decimal.Decimal     `json:"commission_rate"`
	GrossCommission decimal.Decimal     `json:"gross_commission"`
	ClientName      string              `json:"client_name"`
	ClientEmail     string              `json:"client_email,omitempty"`
	ClientPhone     string              `json:"client_phone,omitempty"`
	AgentUserID     uuid.UUID           `json:"agent_user_id"`
	CoordinatorID   *uuid.UUID          `json:"coordinator_id,omitempty"`
	ListingDate     *time.Time          `json:"listing_date,omitempty"`
	ContractDate    *time.Time          `json:"contract_date,omitempty"`
	ClosingDate     *time.Time          `json:"closing_date,omitempty"`
	SlackChannelID  string              `json:"slack_channel_id,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func toTransactionInfo(t *transaction.Transaction) TransactionInfo {
	return TransactionInfo{
		ID:              t.ID,
		Side:            t.Side,
		Status:          t.Status,
		Address:         t.Address,
		MLSNumber:       t.MLSNumber,
		ListPrice:       t.ListPrice,
		ContractPrice:   t.ContractPrice,
		CommissionRate:  t.CommissionRate,
		GrossCommission: t.GrossCommission(),
		ClientName:      t.Client.Name,
		ClientEmail:     t.Client.Email,
		ClientPhone:     t.Client.Phone,
		AgentUserID:     t.AgentUserID,
		CoordinatorID:   t.CoordinatorID,
		ListingDate:     t.ListingDate,
		ContractDate:    t.ContractDate,
		ClosingDate:     t.ClosingDate,
		SlackChannelID:  t.SlackChannelID,
		Notes:           t.Notes,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}
