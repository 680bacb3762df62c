package transaction

import (
	"math"
	"strings"
	"time"

	"github.com/closeline/backend/internal/domain/shared"
	"github.com/closeline/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Side distinguishes which side of the deal the brokerage represents
type Side string

const (
	SideListing  Side = "listing"
	SidePurchase Side = "purchase"
)

// Status is the transaction pipeline state
type Status string

const (
	StatusIntake        Status = "intake"
	StatusActive        Status = "active"
	StatusUnderContract Status = "under_contract"
	StatusClearToClose  Status = "clear_to_close"
	StatusClosed        Status = "closed"
	StatusCancelled     Status = "cancelled"
	StatusWithdrawn     Status = "withdrawn"
)

// validTransitions defines the pipeline state machine. Terminal states
// (closed, cancelled, withdrawn) have no outgoing transitions.
var validTransitions = map[Status][]Status{
	StatusIntake:        {StatusActive, StatusCancelled, StatusWithdrawn},
	StatusActive:        {StatusUnderContract, StatusCancelled, StatusWithdrawn},
	StatusUnderContract: {StatusClearToClose, StatusCancelled, StatusWithdrawn},
	StatusClearToClose:  {StatusClosed, StatusCancelled, StatusWithdrawn},
}

// Client is the buyer or seller the agent represents
type Client struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Transaction is a listing or purchase file moving through the pipeline
// from intake to closing. It owns the Slack channel provisioned for it
// and is the subject of closing reminders.
type Transaction struct {
	shared.TenantAggregateRoot
	Side           Side
	Status         Status
	Address        valueobject.Address
	MLSNumber      string
	ListPrice      decimal.Decimal
	ContractPrice  *decimal.Decimal
	CommissionRate decimal.Decimal // percent, e.g. 3.00
	Client         Client
	AgentUserID    uuid.UUID
	CoordinatorID  *uuid.UUID
	ListingDate    *time.Time
	ContractDate   *time.Time
	ClosingDate    *time.Time
	SlackChannelID string
	Notes          string
}

// NewTransaction creates a new transaction in intake status
func NewTransaction(brokerageID, agentUserID uuid.UUID, side Side, addr valueobject.Address, client Client) (*Transaction, error) {
	if agentUserID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AGENT", "Agent user ID cannot be empty")
	}
	if side != SideListing && side != SidePurchase {
		return nil, shared.NewDomainError("INVALID_SIDE", "Side must be listing or purchase")
	}
	if addr.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Property address is required")
	}
	if strings.TrimSpace(client.Name) == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client name is required")
	}

	t := &Transaction{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(brokerageID),
		Side:                side,
		Status:              StatusIntake,
		Address:             addr,
		Client:              client,
		AgentUserID:         agentUserID,
		ListPrice:           decimal.Zero,
		CommissionRate:      decimal.Zero,
	}

	t.AddDomainEvent(NewTransactionCreatedEvent(t))

	return t, nil
}

// IsTerminal reports whether the transaction has reached a final state
func (t *Transaction) IsTerminal() bool {
	switch t.Status {
	case StatusClosed, StatusCancelled, StatusWithdrawn:
		return true
	}
	return false
}

// IsOpen is the inverse of IsTerminal
func (t *Transaction) IsOpen() bool {
	return !t.IsTerminal()
}

func (t *Transaction) canTransitionTo(target Status) bool {
	for _, s := range validTransitions[t.Status] {
		if s == target {
			return true
		}
	}
	return false
}

func (t *Transaction) transition(target Status) error {
	if !t.canTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot move transaction from "+string(t.Status)+" to "+string(target))
	}
	t.Status = target
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// UpdateDetails updates property and pricing details on an open transaction
func (t *Transaction) UpdateDetails(addr valueobject.Address, mlsNumber string, listPrice, commissionRate decimal.Decimal) error {
	if t.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot edit a closed or cancelled transaction")
	}
	if addr.IsEmpty() {
		return shared.NewDomainError("INVALID_ADDRESS", "Property address is required")
	}
	if len(mlsNumber) > 50 {
		return shared.NewDomainError("INVALID_MLS", "MLS number cannot exceed 50 characters")
	}
	if listPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "List price cannot be negative")
	}
	if commissionRate.IsNegative() || commissionRate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_COMMISSION", "Commission rate must be between 0 and 100")
	}

	t.Address = addr
	t.MLSNumber = strings.TrimSpace(mlsNumber)
	t.ListPrice = listPrice
	t.CommissionRate = commissionRate
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// UpdateClient updates the client's contact details on an open transaction
func (t *Transaction) UpdateClient(client Client) error {
	if t.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot edit a closed or cancelled transaction")
	}
	if strings.TrimSpace(client.Name) == "" {
		return shared.NewDomainError("INVALID_CLIENT", "Client name is required")
	}

	t.Client = client
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// Activate moves the transaction from intake to active
func (t *Transaction) Activate(listingDate *time.Time) error {
	if err := t.transition(StatusActive); err != nil {
		return err
	}
	if listingDate != nil {
		d := dateOnly(*listingDate)
		t.ListingDate = &d
	}
	return nil
}

// MarkUnderContract records the executed contract. Contract price and
// date are required to enter under_contract.
func (t *Transaction) MarkUnderContract(contractPrice decimal.Decimal, contractDate time.Time) error {
	if contractPrice.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_PRICE", "Contract price must be positive")
	}
	if err := t.transition(StatusUnderContract); err != nil {
		return err
	}

	t.ContractPrice = &contractPrice
	d := dateOnly(contractDate)
	t.ContractDate = &d

	t.AddDomainEvent(NewTransactionWentUnderContractEvent(t))

	return nil
}

// MarkClearToClose moves the transaction to clear_to_close.
// A closing date must already be set.
func (t *Transaction) MarkClearToClose() error {
	if t.ClosingDate == nil {
		return shared.NewDomainError("CLOSING_DATE_REQUIRED", "Closing date must be set before clear to close")
	}
	return t.transition(StatusClearToClose)
}

// Close finalizes the transaction
func (t *Transaction) Close() error {
	if err := t.transition(StatusClosed); err != nil {
		return err
	}

	t.AddDomainEvent(NewTransactionClosedEvent(t))

	return nil
}

// Cancel terminates the transaction before closing
func (t *Transaction) Cancel(reason string) error {
	if err := t.transition(StatusCancelled); err != nil {
		return err
	}

	t.AddDomainEvent(NewTransactionCancelledEvent(t, StatusCancelled, reason))

	return nil
}

// Withdraw terminates a listing pulled from the market
func (t *Transaction) Withdraw(reason string) error {
	if err := t.transition(StatusWithdrawn); err != nil {
		return err
	}

	t.AddDomainEvent(NewTransactionCancelledEvent(t, StatusWithdrawn, reason))

	return nil
}

// SetClosingDate sets or moves the closing date. The date must not be in
// the past for an open transaction.
func (t *Transaction) SetClosingDate(closingDate time.Time, now time.Time) error {
	if t.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot set closing date on a terminal transaction")
	}

	d := dateOnly(closingDate)
	if d.Before(dateOnly(now)) {
		return shared.NewDomainError("INVALID_CLOSING_DATE", "Closing date cannot be in the past")
	}

	var old *time.Time
	if t.ClosingDate != nil {
		prev := *t.ClosingDate
		old = &prev
		if prev.Equal(d) {
			return nil
		}
	}

	t.ClosingDate = &d
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTransactionClosingDateChangedEvent(t, old, d))

	return nil
}

// AssignCoordinator assigns a coordinator to the transaction
func (t *Transaction) AssignCoordinator(coordinatorID uuid.UUID) error {
	if t.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot assign coordinator on a terminal transaction")
	}
	if coordinatorID == uuid.Nil {
		return shared.NewDomainError("INVALID_COORDINATOR", "Coordinator ID cannot be empty")
	}

	t.CoordinatorID = &coordinatorID
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// UnassignCoordinator removes the coordinator assignment
func (t *Transaction) UnassignCoordinator() {
	t.CoordinatorID = nil
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// SetSlackChannel records the provisioned Slack channel
func (t *Transaction) SetSlackChannel(channelID string) error {
	if channelID == "" {
		return shared.NewDomainError("INVALID_CHANNEL", "Slack channel ID cannot be empty")
	}
	if t.SlackChannelID != "" {
		return shared.NewDomainError("ALREADY_EXISTS", "Transaction already has a Slack channel")
	}

	t.SlackChannelID = channelID
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// SetNotes sets the transaction notes. Allowed even on terminal
// transactions, which are otherwise immutable.
func (t *Transaction) SetNotes(notes string) {
	t.Notes = notes
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// EffectivePrice returns the contract price when set, otherwise the list price
func (t *Transaction) EffectivePrice() decimal.Decimal {
	if t.ContractPrice != nil {
		return *t.ContractPrice
	}
	return t.ListPrice
}

// GrossCommission returns the commission amount at the effective price
func (t *Transaction) GrossCommission() decimal.Decimal {
	return t.EffectivePrice().Mul(t.CommissionRate).Div(decimal.NewFromInt(100))
}

// DaysUntilClosing returns whole calendar days between now and the
// closing date in the given location. Negative when past due; second
// return is false when no closing date is set.
func (t *Transaction) DaysUntilClosing(now time.Time, loc *time.Location) (int, bool) {
	if t.ClosingDate == nil {
		return 0, false
	}
	today := dateOnly(now.In(loc))
	c := *t.ClosingDate
	// Rebuild the closing midnight in loc so the difference is whole
	// days even when the stored date carries another zone, and round to
	// absorb DST-shortened days
	closing := time.Date(c.Year(), c.Month(), c.Day(), 0, 0, 0, 0, loc)
	return int(math.Round(closing.Sub(today).Hours() / 24)), true
}

// ChannelName derives the Slack channel name for this transaction:
// "txn-" + street slug + short id, lowercased, capped at 80 chars.
func (t *Transaction) ChannelName() string {
	slug := strings.ToLower(t.Address.Street())
	var b strings.Builder
	lastDash := true
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	name := "txn-" + strings.Trim(b.String(), "-") + "-" + t.ID.String()[:4]
	if len(name) > 80 {
		name = name[:80]
	}
	return name
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
