package cma

import (
	"time"

	"github.com/closeline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ExportStatus is the lifecycle of a PDF export job
type ExportStatus string

const (
	ExportStatusPending   ExportStatus = "pending"
	ExportStatusRendering ExportStatus = "rendering"
	ExportStatusCompleted ExportStatus = "completed"
	ExportStatusFailed    ExportStatus = "failed"
)

// ReportExport tracks one asynchronous PDF rendering of a CMA. Clients
// poll it until completed, then download the stored object.
type ReportExport struct {
	shared.TenantAggregateRoot
	CmaID       uuid.UUID
	Status      ExportStatus
	RequestedBy uuid.UUID
	ObjectKey   string // set when completed
	PageCount   int
	ByteSize    int64
	DurationMS  int64
	ErrorCode   string
	ErrorMsg    string
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// NewReportExport creates a pending export job
func NewReportExport(brokerageID, cmaID, requestedBy uuid.UUID) (*ReportExport, error) {
	if cmaID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CMA_ID", "CMA ID cannot be empty")
	}

	return &ReportExport{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(brokerageID),
		CmaID:               cmaID,
		Status:              ExportStatusPending,
		RequestedBy:         requestedBy,
	}, nil
}

// Start marks the job as rendering
func (e *ReportExport) Start() error {
	if e.Status != ExportStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only a pending export can start")
	}

	now := time.Now()
	e.Status = ExportStatusRendering
	e.StartedAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()

	return nil
}

// Complete records a successful render
func (e *ReportExport) Complete(objectKey string, pageCount int, byteSize int64) error {
	if e.Status != ExportStatusRendering {
		return shared.NewDomainError("INVALID_STATE", "Only a rendering export can complete")
	}
	if objectKey == "" {
		return shared.NewDomainError("INVALID_KEY", "Object key cannot be empty")
	}

	now := time.Now()
	e.Status = ExportStatusCompleted
	e.ObjectKey = objectKey
	e.PageCount = pageCount
	e.ByteSize = byteSize
	e.CompletedAt = &now
	if e.StartedAt != nil {
		e.DurationMS = now.Sub(*e.StartedAt).Milliseconds()
	}
	e.UpdatedAt = now
	e.IncrementVersion()

	return nil
}

// Fail records a failed render
func (e *ReportExport) Fail(code, message string) error {
	if e.Status == ExportStatusCompleted || e.Status == ExportStatusFailed {
		return shared.NewDomainError("INVALID_STATE", "Export already finished")
	}

	now := time.Now()
	e.Status = ExportStatusFailed
	e.ErrorCode = code
	e.ErrorMsg = message
	e.CompletedAt = &now
	if e.StartedAt != nil {
		e.DurationMS = now.Sub(*e.StartedAt).Milliseconds()
	}
	e.UpdatedAt = now
	e.IncrementVersion()

	return nil
}

// IsFinished reports whether the job reached a terminal state
func (e *ReportExport) IsFinished() bool {
	return e.Status == ExportStatusCompleted || e.Status == ExportStatusFailed
}

// ShareLog records one email share of a CMA report
type ShareLog struct {
	shared.TenantAggregateRoot
	CmaID      uuid.UUID
	SentBy     uuid.UUID
	Recipients []string
	Message    string
	AttachPDF  bool
	SentAt     time.Time
}

// NewShareLog records a share that was just sent
func NewShareLog(brokerageID, cmaID, sentBy uuid.UUID, recipients []string, message string, attachPDF bool) (*ShareLog, error) {
	if cmaID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CMA_ID", "CMA ID cannot be empty")
	}
	if len(recipients) == 0 {
		return nil, shared.NewDomainError("INVALID_RECIPIENTS", "At least one recipient is required")
	}
	if len(recipients) > 20 {
		return nil, shared.NewDomainError("INVALID_RECIPIENTS", "At most 20 recipients per share")
	}

	return &ShareLog{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(brokerageID),
		CmaID:               cmaID,
		SentBy:              sentBy,
		Recipients:          recipients,
		Message:             message,
		AttachPDF:           attachPDF,
		SentAt:              time.Now(),
	}, nil
}
