package cma

import (
	"context"
	"errors"

	"github.com/closeline/backend/internal/domain/cma"
	"github.com/closeline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CmaService handles CMA report building use cases
type CmaService struct {
	cmaRepo        cma.Repository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCmaService creates a new CMA service
func NewCmaService(
	cmaRepo cma.Repository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *CmaService {
	return &CmaService{
		cmaRepo:        cmaRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Create creates a new draft CMA for the subject property
func (s *CmaService) Create(ctx context.Context, input CreateCmaInput) (*CmaInfo, error) {
	subject, err := input.Subject.toSubject()
	if err != nil {
		return nil, err
	}

	c, err := cma.NewCma(input.BrokerageID, input.AgentUserID, input.Title, subject)
	if err != nil {
		return nil, err
	}
	if input.Notes != "" {
		c.SetNotes(input.Notes)
	}

	if err := s.cmaRepo.Save(ctx, c); err != nil {
		s.logger.Error("Failed to save CMA", zap.Error(err))
		return nil, err
	}

	s.publishDomainEvents(ctx, c)

	s.logger.Info("CMA created",
		zap.String("cma_id", c.ID.String()),
		zap.String("title", c.Title))

	info := toCmaInfo(c)
	return &info, nil
}

// Get returns one CMA with its comparables
func (s *CmaService) Get(ctx context.Context, brokerageID, cmaID uuid.UUID) (*CmaInfo, error) {
	c, err := s.cmaRepo.FindByIDForTenant(ctx, brokerageID, cmaID)
	if err != nil {
		return nil, err
	}
	info := toCmaInfo(c)
	return &info, nil
}

// List returns CMAs for the brokerage with pagination
func (s *CmaService) List(ctx context.Context, brokerageID uuid.UUID, filter shared.Filter) (*shared.Paginated[CmaInfo], error) {
	cmas, err := s.cmaRepo.FindAllForTenant(ctx, brokerageID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.cmaRepo.CountForTenant(ctx, brokerageID, filter)
	if err != nil {
		return nil, err
	}

	infos := make([]CmaInfo, len(cmas))
	for i := range cmas {
		infos[i] = toCmaInfo(&cmas[i])
	}

	result := shared.NewPaginated(infos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update replaces the title and subject property of a draft CMA
func (s *CmaService) Update(ctx context.Context, input UpdateCmaInput) (*CmaInfo, error) {
	c, err := s.cmaRepo.FindByIDForTenant(ctx, input.BrokerageID, input.CmaID)
	if err != nil {
		return nil, err
	}

	subject, err := input.Subject.toSubject()
	if err != nil {
		return nil, err
	}
	if err := c.Update(input.Title, subject); err != nil {
		return nil, err
	}

	return s.save(ctx, c)
}

// SetNotes updates the free-form notes
func (s *CmaService) SetNotes(ctx context.Context, brokerageID, cmaID uuid.UUID, notes string) (*CmaInfo, error) {
	c, err := s.cmaRepo.FindByIDForTenant(ctx, brokerageID, cmaID)
	if err != nil {
		return nil, err
	}
	c.SetNotes(notes)
	return s.save(ctx, c)
}

// AddComparable appends a comparable property to the CMA
func (s *CmaService) AddComparable(ctx context.Context, brokerageID, cmaID uuid.UUID, fields ComparableFields) (*CmaInfo, error) {
	c, err := s.cmaRepo.FindByIDForTenant(ctx, brokerageID, cmaID)
	if err != nil {
		return nil, err
	}

	in, err := fields.toInput()
	if err != nil {
		return nil, err
	}
	if _, err := c.AddComparable(in); err != nil {
		return nil, err
	}

	return s.save(ctx, c)
}

// UpdateComparable replaces the fields of an existing comparable
func (s *CmaService) UpdateComparable(ctx context.Context, brokerageID, cmaID, compID uuid.UUID, fields ComparableFields) (*CmaInfo, error) {
	c, err := s.cmaRepo.FindByIDForTenant(ctx, brokerageID, cmaID)
	if err != nil {
		return nil, err
	}

	in, err := fields.toInput()
	if err != nil {
		return nil, err
	}
	if err := c.UpdateComparable(compID, in); err != nil {
		return nil, err
	}

	return s.save(ctx, c)
}

// RemoveComparable removes a comparable and compacts positions
func (s *CmaService) RemoveComparable(ctx context.Context, brokerageID, cmaID, compID uuid.UUID) (*CmaInfo, error) {
	c, err := s.cmaRepo.FindByIDForTenant(ctx, brokerageID, cmaID)
	if err != nil {
		return nil, err
	}
	if err := c.RemoveComparable(compID); err != nil {
		return nil, err
	}
	return s.save(ctx, c)
}

// SetAdjustments replaces the adjustment line items of a comparable
func (s *CmaService) SetAdjustments(ctx context.Context, brokerageID, cmaID, compID uuid.UUID, inputs []AdjustmentInput) (*CmaInfo, error) {
	c, err := s.cmaRepo.FindByIDForTenant(ctx, brokerageID, cmaID)
	if err != nil {
		return nil, err
	}

	adjustments := make([]cma.Adjustment, len(inputs))
	for i, in := range inputs {
		adjustments[i] = cma.Adjustment{Label: in.Label, Amount: in.Amount}
	}
	if err := c.SetAdjustments(compID, adjustments); err != nil {
		return nil, err
	}

	return s.save(ctx, c)
}

// ReorderComparables applies a new display order; orderedIDs must be a
// permutation of the current comparable IDs
func (s *CmaService) ReorderComparables(ctx context.Context, brokerageID, cmaID uuid.UUID, orderedIDs []uuid.UUID) (*CmaInfo, error) {
	c, err := s.cmaRepo.FindByIDForTenant(ctx, brokerageID, cmaID)
	if err != nil {
		return nil, err
	}
	if err := c.ReorderComparables(orderedIDs); err != nil {
		return nil, err
	}
	return s.save(ctx, c)
}

// SetPriceRange sets the recommended price range
func (s *CmaService) SetPriceRange(ctx context.Context, brokerageID, cmaID uuid.UUID, low, high decimal.Decimal) (*CmaInfo, error) {
	c, err := s.cmaRepo.FindByIDForTenant(ctx, brokerageID, cmaID)
	if err != nil {
		return nil, err
	}
	if err := c.SetPriceRange(low, high); err != nil {
		return nil, err
	}
	return s.save(ctx, c)
}

// ApplySuggestedRange derives the price range from the sold comparables
func (s *CmaService) ApplySuggestedRange(ctx context.Context, brokerageID, cmaID uuid.UUID) (*CmaInfo, error) {
	c, err := s.cmaRepo.FindByIDForTenant(ctx, brokerageID, cmaID)
	if err != nil {
		return nil, err
	}
	if err := c.ApplySuggestedRange(); err != nil {
		return nil, err
	}
	return s.save(ctx, c)
}

// Statistics computes the summary statistics over the comparables
func (s *CmaService) Statistics(ctx context.Context, brokerageID, cmaID uuid.UUID) (*cma.Statistics, error) {
	c, err := s.cmaRepo.FindByIDForTenant(ctx, brokerageID, cmaID)
	if err != nil {
		return nil, err
	}
	stats := c.Statistics()
	return &stats, nil
}

// MarkReady transitions a draft CMA with comparables to ready
func (s *CmaService) MarkReady(ctx context.Context, brokerageID, cmaID uuid.UUID) (*CmaInfo, error) {
	return s.transition(ctx, brokerageID, cmaID, (*cma.Cma).MarkReady)
}

// Reopen transitions a ready CMA back to draft
func (s *CmaService) Reopen(ctx context.Context, brokerageID, cmaID uuid.UUID) (*CmaInfo, error) {
	return s.transition(ctx, brokerageID, cmaID, (*cma.Cma).Reopen)
}

// Archive retires the CMA from active use
func (s *CmaService) Archive(ctx context.Context, brokerageID, cmaID uuid.UUID) (*CmaInfo, error) {
	return s.transition(ctx, brokerageID, cmaID, (*cma.Cma).Archive)
}

// Duplicate creates a new draft copy with fresh comparable IDs
func (s *CmaService) Duplicate(ctx context.Context, brokerageID, cmaID uuid.UUID, title string) (*CmaInfo, error) {
	c, err := s.cmaRepo.FindByIDForTenant(ctx, brokerageID, cmaID)
	if err != nil {
		return nil, err
	}

	copy, err := c.Duplicate(title)
	if err != nil {
		return nil, err
	}
	if err := s.cmaRepo.Save(ctx, copy); err != nil {
		s.logger.Error("Failed to save duplicated CMA", zap.Error(err))
		return nil, err
	}

	s.publishDomainEvents(ctx, copy)

	info := toCmaInfo(copy)
	return &info, nil
}

// Delete removes a CMA; ready CMAs must be archived or reopened first
func (s *CmaService) Delete(ctx context.Context, brokerageID, cmaID uuid.UUID) error {
	c, err := s.cmaRepo.FindByIDForTenant(ctx, brokerageID, cmaID)
	if err != nil {
		return err
	}
	if c.Status == cma.CmaStatusReady {
		return shared.NewDomainError("CMA_READY", "ready CMAs cannot be deleted")
	}
	return s.cmaRepo.Delete(ctx, c.ID)
}

func (s *CmaService) transition(ctx context.Context, brokerageID, cmaID uuid.UUID, op func(*cma.Cma) error) (*CmaInfo, error) {
	c, err := s.cmaRepo.FindByIDForTenant(ctx, brokerageID, cmaID)
	if err != nil {
		return nil, err
	}
	if err := op(c); err != nil {
		return nil, err
	}
	return s.save(ctx, c)
}

func (s *CmaService) save(ctx context.Context, c *cma.Cma) (*CmaInfo, error) {
	if err := s.cmaRepo.SaveWithLock(ctx, c); err != nil {
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			s.logger.Error("Failed to save CMA",
				zap.String("cma_id", c.ID.String()),
				zap.Error(err))
		}
		return nil, err
	}
	s.publishDomainEvents(ctx, c)
	info := toCmaInfo(c)
	return &info, nil
}

func (s *CmaService) publishDomainEvents(ctx context.Context, c *cma.Cma) {
	events := c.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	c.ClearDomainEvents()
}
