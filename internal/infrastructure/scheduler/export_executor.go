package scheduler

import (
	"context"

	appcma "github.com/closeline/backend/internal/application/cma"
)

// ExportJobExecutor bridges queued jobs to the export processor
type ExportJobExecutor struct {
	processor *appcma.ExportProcessor
}

// NewExportJobExecutor creates a new export job executor
func NewExportJobExecutor(processor *appcma.ExportProcessor) *ExportJobExecutor {
	return &ExportJobExecutor{processor: processor}
}

// Execute runs the export. Redeliveries are safe: the processor skips
// jobs that already finished.
func (e *ExportJobExecutor) Execute(ctx context.Context, job *Job) error {
	return e.processor.Process(ctx, job.ExportID)
}

// Ensure ExportJobExecutor implements JobExecutor
var _ JobExecutor = (*ExportJobExecutor)(nil)
