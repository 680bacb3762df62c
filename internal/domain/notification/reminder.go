package notification

import (
	"fmt"
	"time"

	"github.com/closeline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReminderStatus is the delivery outcome of one reminder
type ReminderStatus string

const (
	ReminderStatusSent   ReminderStatus = "sent"
	ReminderStatusFailed ReminderStatus = "failed"
)

// ReminderLog records one closing-reminder delivery attempt for a
// transaction at a given offset on a given day
type ReminderLog struct {
	shared.TenantAggregateRoot
	TransactionID uuid.UUID
	OffsetDays    int
	ClosingDate   time.Time
	Channel       Channel
	Target        string // Slack channel ID or email address
	Status        ReminderStatus
	ErrorMsg      string
	SentAt        time.Time
}

// NewReminderLog records a delivery attempt that just happened
func NewReminderLog(brokerageID, transactionID uuid.UUID, offsetDays int, closingDate time.Time, channel Channel, target string, deliveryErr error) (*ReminderLog, error) {
	if transactionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TRANSACTION", "Transaction ID cannot be empty")
	}
	if offsetDays < 0 {
		return nil, shared.NewDomainError("INVALID_OFFSET", "Offset cannot be negative")
	}

	log := &ReminderLog{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(brokerageID),
		TransactionID:       transactionID,
		OffsetDays:          offsetDays,
		ClosingDate:         closingDate,
		Channel:             channel,
		Target:              target,
		Status:              ReminderStatusSent,
		SentAt:              time.Now(),
	}
	if deliveryErr != nil {
		log.Status = ReminderStatusFailed
		log.ErrorMsg = deliveryErr.Error()
	}

	return log, nil
}

// DedupeKey identifies a reminder for suppression of repeat sends. The
// date is the sweep day in the tenant's timezone, so a rescheduled
// closing produces a new key.
func DedupeKey(transactionID uuid.UUID, offsetDays int, day time.Time) string {
	return fmt.Sprintf("reminder:%s:%d:%s", transactionID, offsetDays, day.Format("2006-01-02"))
}
