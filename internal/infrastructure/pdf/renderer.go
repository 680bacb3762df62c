package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	appcma "github.com/closeline/backend/internal/application/cma"
	infraconfig "github.com/closeline/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const defaultRenderTimeout = 60 * time.Second

// US Letter in inches; Chrome's print API takes inches
const (
	letterWidthInches  = 8.5
	letterHeightInches = 11.0
	marginInches       = 0.4
)

// ErrRenderTimeout is returned when Chrome does not produce the PDF
// within the configured timeout
var ErrRenderTimeout = errors.New("pdf: render timed out")

// Ensure ChromedpRenderer implements the renderer port
var _ appcma.Renderer = (*ChromedpRenderer)(nil)

// ChromedpRenderer renders CMA reports to PDF through the Chrome
// DevTools Protocol. One allocator is shared across renders; each
// render gets its own browser tab.
type ChromedpRenderer struct {
	timeout     time.Duration
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates a renderer backed by a local Chrome binary
func NewChromedpRenderer(cfg infraconfig.PDFConfig, logger *zap.Logger) *ChromedpRenderer {
	timeout := cfg.RenderTimeout
	if timeout <= 0 {
		timeout = defaultRenderTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromedpRenderer{
		timeout:     timeout,
		logger:      logger,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}
}

// Render builds the report HTML and prints it to a Letter-size PDF
func (r *ChromedpRenderer) Render(ctx context.Context, input appcma.RenderInput) (*appcma.RenderResult, error) {
	html, err := BuildReportHTML(input)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	var pdfData []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(letterWidthInches).
				WithPaperHeight(letterHeightInches).
				WithMarginTop(marginInches).
				WithMarginRight(marginInches).
				WithMarginBottom(marginInches).
				WithMarginLeft(marginInches).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w after %v", ErrRenderTimeout, r.timeout)
		}
		r.logger.Error("Chrome rendering failed", zap.Error(err))
		return nil, fmt.Errorf("pdf: chrome execution failed: %w", err)
	}
	if len(pdfData) == 0 {
		return nil, errors.New("pdf: generated document is empty")
	}

	pageCount := estimatePageCount(pdfData)

	r.logger.Info("Report rendered",
		zap.String("cma_id", input.Cma.ID.String()),
		zap.Int("bytes", len(pdfData)),
		zap.Int("pages", pageCount),
		zap.Duration("duration", time.Since(start)))

	return &appcma.RenderResult{
		PDF:       pdfData,
		PageCount: pageCount,
	}, nil
}

// Close releases the Chrome allocator
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

// estimatePageCount counts "/Type /Page" objects in the PDF, minus the
// parent "/Type /Pages" nodes the count also matches
func estimatePageCount(pdfData []byte) int {
	count := bytes.Count(pdfData, []byte("/Type /Page"))
	count -= bytes.Count(pdfData, []byte("/Type /Pages"))
	if count < 1 {
		return 1
	}
	return count
}
