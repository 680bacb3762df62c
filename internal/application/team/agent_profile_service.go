package team

import (
	"context"

	"github.com/closeline/backend/internal/domain/shared"
	"github.com/closeline/backend/internal/domain/team"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AgentProfileService manages agent profiles shown on CMA covers
type AgentProfileService struct {
	profileRepo team.AgentProfileRepository
	logger      *zap.Logger
}

// NewAgentProfileService creates a new agent profile service
func NewAgentProfileService(profileRepo team.AgentProfileRepository, logger *zap.Logger) *AgentProfileService {
	return &AgentProfileService{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// Get returns the profile for a user
func (s *AgentProfileService) Get(ctx context.Context, brokerageID, userID uuid.UUID) (*AgentProfileInfo, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, brokerageID, userID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	info := toProfileInfo(profile)
	return &info, nil
}

// Upsert creates the profile on first write and updates it afterwards
func (s *AgentProfileService) Upsert(ctx context.Context, input UpsertAgentProfileInput) (*AgentProfileInfo, error) {
	created := false
	profile, err := s.profileRepo.FindByUserID(ctx, input.BrokerageID, input.UserID)
	if err != nil {
		profile, err = team.NewAgentProfile(input.BrokerageID, input.UserID, input.LicenseNumber)
		if err != nil {
			return nil, err
		}
		created = true
	}

	if err := profile.Update(input.LicenseNumber, input.Phone, input.Title, input.Bio, input.YearsExperience); err != nil {
		return nil, err
	}
	if input.ServiceAreas != nil {
		if err := profile.SetServiceAreas(input.ServiceAreas); err != nil {
			return nil, err
		}
	}

	// First write inserts; later writes go through the version check
	var saveErr error
	if created {
		saveErr = s.profileRepo.Save(ctx, profile)
	} else {
		saveErr = s.profileRepo.SaveWithLock(ctx, profile)
	}
	if saveErr != nil {
		s.logger.Error("Failed to save agent profile", zap.Error(saveErr))
		return nil, saveErr
	}

	s.logger.Info("Agent profile saved",
		zap.String("user_id", input.UserID.String()),
		zap.String("profile_id", profile.ID.String()))

	info := toProfileInfo(profile)
	return &info, nil
}

// SetHeadshot stores the object key of an uploaded headshot
func (s *AgentProfileService) SetHeadshot(ctx context.Context, brokerageID, userID uuid.UUID, objectKey string) error {
	profile, err := s.profileRepo.FindByUserID(ctx, brokerageID, userID)
	if err != nil {
		return shared.ErrNotFound
	}

	if err := profile.SetHeadshotKey(objectKey); err != nil {
		return err
	}

	if err := s.profileRepo.SaveWithLock(ctx, profile); err != nil {
		s.logger.Error("Failed to save headshot key", zap.Error(err))
		return err
	}

	return nil
}

func toProfileInfo(p *team.AgentProfile) AgentProfileInfo {
	return AgentProfileInfo{
		ID:              p.ID,
		UserID:          p.UserID,
		LicenseNumber:   p.LicenseNumber,
		Phone:           p.Phone,
		Title:           p.Title,
		Bio:             p.Bio,
		YearsExperience: p.YearsExperience,
		ServiceAreas:    p.ServiceAreas,
		HeadshotKey:     p.HeadshotKey,
	}
}
