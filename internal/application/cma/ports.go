package cma

import (
	"context"
	"time"

	"github.com/closeline/backend/internal/domain/cma"
	"github.com/closeline/backend/internal/domain/identity"
	"github.com/closeline/backend/internal/domain/team"
	"github.com/google/uuid"
)

// RenderInput is everything the renderer needs to produce the report
type RenderInput struct {
	Cma       *cma.Cma
	Config    *cma.ReportConfig
	Stats     cma.Statistics
	Brokerage *identity.Brokerage
	Agent     *identity.User
	// Profile enriches the agent resume section; nil when the agent has
	// not filled one in
	Profile *team.AgentProfile
}

// RenderResult is the rendered PDF document
type RenderResult struct {
	PDF       []byte
	PageCount int
}

// Renderer turns a CMA into a PDF document
type Renderer interface {
	Render(ctx context.Context, input RenderInput) (*RenderResult, error)
}

// ObjectStorage stores rendered reports and uploaded photos
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	GenerateDownloadURL(ctx context.Context, key string, expiration time.Duration) (string, error)
	DeleteObject(ctx context.Context, key string) error
}

// ExportQueue hands an export job to the background workers
type ExportQueue interface {
	Enqueue(ctx context.Context, brokerageID, exportID uuid.UUID) error
}

// EmailAttachment is a file attached to an outgoing email
type EmailAttachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// EmailMessage is an outgoing email
type EmailMessage struct {
	To         []string
	Subject    string
	HTML       string
	Attachment *EmailAttachment
}

// EmailSender delivers outgoing email
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}
