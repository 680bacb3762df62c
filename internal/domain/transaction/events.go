package transaction

import (
	"time"

	"github.com/closeline/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeTransaction = "Transaction"

// Event type constants
const (
	EventTypeTransactionCreated            = "TransactionCreated"
	EventTypeTransactionWentUnderContract  = "TransactionWentUnderContract"
	EventTypeTransactionClosingDateChanged = "TransactionClosingDateChanged"
	EventTypeTransactionClosed             = "TransactionClosed"
	EventTypeTransactionCancelled          = "TransactionCancelled"
)

// TransactionCreatedEvent is published when a transaction is created
type TransactionCreatedEvent struct {
	shared.BaseDomainEvent
	Side    Side   `json:"side"`
	Address string `json:"address"`
}

// NewTransactionCreatedEvent creates a new TransactionCreatedEvent
func NewTransactionCreatedEvent(t *Transaction) *TransactionCreatedEvent {
	return &TransactionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionCreated, AggregateTypeTransaction, t.ID, t.TenantID),
		Side:            t.Side,
		Address:         t.Address.String(),
	}
}

// TransactionWentUnderContractEvent is published when a contract is executed.
// Handlers provision the Slack channel and announce the milestone.
type TransactionWentUnderContractEvent struct {
	shared.BaseDomainEvent
	Address       string          `json:"address"`
	ContractPrice decimal.Decimal `json:"contract_price"`
	ContractDate  time.Time       `json:"contract_date"`
}

// NewTransactionWentUnderContractEvent creates a new TransactionWentUnderContractEvent
func NewTransactionWentUnderContractEvent(t *Transaction) *TransactionWentUnderContractEvent {
	evt := &TransactionWentUnderContractEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionWentUnderContract, AggregateTypeTransaction, t.ID, t.TenantID),
		Address:         t.Address.String(),
	}
	if t.ContractPrice != nil {
		evt.ContractPrice = *t.ContractPrice
	}
	if t.ContractDate != nil {
		evt.ContractDate = *t.ContractDate
	}
	return evt
}

// TransactionClosingDateChangedEvent is published when the closing date
// is set or moved. Handlers post the update to the transaction channel.
type TransactionClosingDateChangedEvent struct {
	shared.BaseDomainEvent
	Address        string     `json:"address"`
	OldClosingDate *time.Time `json:"old_closing_date,omitempty"`
	NewClosingDate time.Time  `json:"new_closing_date"`
}

// NewTransactionClosingDateChangedEvent creates a new TransactionClosingDateChangedEvent
func NewTransactionClosingDateChangedEvent(t *Transaction, old *time.Time, updated time.Time) *TransactionClosingDateChangedEvent {
	return &TransactionClosingDateChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionClosingDateChanged, AggregateTypeTransaction, t.ID, t.TenantID),
		Address:         t.Address.String(),
		OldClosingDate:  old,
		NewClosingDate:  updated,
	}
}

// TransactionClosedEvent is published when a transaction closes.
// Handlers congratulate the channel and archive it.
type TransactionClosedEvent struct {
	shared.BaseDomainEvent
	Address       string          `json:"address"`
	ClosePrice    decimal.Decimal `json:"close_price"`
	SlackChannel  string          `json:"slack_channel,omitempty"`
	CoordinatorID string          `json:"coordinator_id,omitempty"`
}

// NewTransactionClosedEvent creates a new TransactionClosedEvent
func NewTransactionClosedEvent(t *Transaction) *TransactionClosedEvent {
	evt := &TransactionClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionClosed, AggregateTypeTransaction, t.ID, t.TenantID),
		Address:         t.Address.String(),
		ClosePrice:      t.EffectivePrice(),
		SlackChannel:    t.SlackChannelID,
	}
	if t.CoordinatorID != nil {
		evt.CoordinatorID = t.CoordinatorID.String()
	}
	return evt
}

// TransactionCancelledEvent is published when a transaction is cancelled
// or withdrawn
type TransactionCancelledEvent struct {
	shared.BaseDomainEvent
	Address      string `json:"address"`
	FinalStatus  Status `json:"final_status"`
	Reason       string `json:"reason,omitempty"`
	SlackChannel string `json:"slack_channel,omitempty"`
}

// NewTransactionCancelledEvent creates a new TransactionCancelledEvent
func NewTransactionCancelledEvent(t *Transaction, finalStatus Status, reason string) *TransactionCancelledEvent {
	return &TransactionCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionCancelled, AggregateTypeTransaction, t.ID, t.TenantID),
		Address:         t.Address.String(),
		FinalStatus:     finalStatus,
		Reason:          reason,
		SlackChannel:    t.SlackChannelID,
	}
}
