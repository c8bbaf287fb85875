package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"adventure-server/internal/interfaces"
	"adventure-server/internal/models"

	"go.uber.org/zap"
)

// AdventureInput carries the caller-editable adventure fields.
type AdventureInput struct {
	Title       string
	Description string
	Setting     string
}

// AdventureService handles adventure CRUD, membership and the derived
// last-narration projection.
type AdventureService interface {
	Create(ctx context.Context, creatorID int64, input AdventureInput) (*models.Adventure, error)
	List(ctx context.Context, userID int64) ([]*models.Adventure, error)
	Get(ctx context.Context, userID, adventureID int64) (*models.Adventure, error)
	Update(ctx context.Context, userID, adventureID int64, input AdventureInput) (*models.Adventure, error)
	Delete(ctx context.Context, userID, adventureID int64) error
	Conclude(ctx context.Context, userID, adventureID int64) error
	UpdateRules(ctx context.Context, userID, adventureID int64, rules models.RollRules) error
	UpdateSummary(ctx context.Context, userID, adventureID int64, summary string) error
	Join(ctx context.Context, userID, adventureID int64, characterID *int64) (*models.Participation, error)
	SelectCharacter(ctx context.Context, userID, adventureID, characterID int64) error
	Transcript(ctx context.Context, userID, adventureID int64) ([]*models.Message, error)
	LastNarration(ctx context.Context, userID, adventureID int64) (string, error)
}

type adventureServiceImpl struct {
	db                interfaces.DBTX
	adventureRepo     interfaces.AdventureRepository
	participationRepo interfaces.ParticipationRepository
	characterRepo     interfaces.CharacterRepository
	messageRepo       interfaces.MessageRepository
	sessionRepo       interfaces.TurnSessionRepository
	narrationCache    interfaces.NarrationCache
	logger            *zap.Logger
}

// NewAdventureService creates the adventure service.
func NewAdventureService(
	db interfaces.DBTX,
	adventureRepo interfaces.AdventureRepository,
	participationRepo interfaces.ParticipationRepository,
	characterRepo interfaces.CharacterRepository,
	messageRepo interfaces.MessageRepository,
	sessionRepo interfaces.TurnSessionRepository,
	narrationCache interfaces.NarrationCache,
	logger *zap.Logger,
) AdventureService {
	return &adventureServiceImpl{
		db:                db,
		adventureRepo:     adventureRepo,
		participationRepo: participationRepo,
		characterRepo:     characterRepo,
		messageRepo:       messageRepo,
		sessionRepo:       sessionRepo,
		narrationCache:    narrationCache,
		logger:            logger.Named("AdventureService"),
	}
}

func (s *adventureServiceImpl) validateInput(input AdventureInput) (AdventureInput, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" || len(input.Title) > 255 {
		return input, models.ErrInvalidInput
	}
	return input, nil
}

// Create opens a new adventure in the preparing state and enrolls the
// creator as its master.
func (s *adventureServiceImpl) Create(ctx context.Context, creatorID int64, input AdventureInput) (*models.Adventure, error) {
	input, err := s.validateInput(input)
	if err != nil {
		return nil, err
	}

	adventure := &models.Adventure{
		CreatorID:   creatorID,
		Title:       input.Title,
		Description: input.Description,
		Setting:     input.Setting,
		Rules:       models.DefaultRollRules(),
		Status:      models.StatusPreparing,
	}
	if err := s.adventureRepo.Create(ctx, s.db, adventure); err != nil {
		return nil, err
	}

	participation := &models.Participation{
		UserID:      creatorID,
		AdventureID: adventure.ID,
		Role:        models.RoleMaster,
	}
	if _, err := s.participationRepo.Join(ctx, s.db, participation); err != nil {
		s.logger.Error("Failed to enroll creator in new adventure", zap.Error(err), zap.Int64("adventureID", adventure.ID))
		return nil, err
	}

	s.logger.Info("Adventure created", zap.Int64("adventureID", adventure.ID), zap.Int64("creatorID", creatorID))
	return adventure, nil
}

// List returns the adventures the user participates in, newest first.
func (s *adventureServiceImpl) List(ctx context.Context, userID int64) ([]*models.Adventure, error) {
	return s.adventureRepo.ListByParticipant(ctx, s.db, userID)
}

// Get returns an adventure the user participates in.
func (s *adventureServiceImpl) Get(ctx context.Context, userID, adventureID int64) (*models.Adventure, error) {
	adventure, err := s.adventureRepo.GetByID(ctx, s.db, adventureID)
	if err != nil {
		return nil, err
	}
	if _, err := s.participationRepo.Get(ctx, s.db, userID, adventureID); err != nil {
		if errors.Is(err, models.ErrParticipationNotFound) {
			return nil, models.ErrNotParticipant
		}
		return nil, err
	}
	adventure.Rules = adventure.Rules.Normalized()
	return adventure, nil
}

// requireCreator loads the adventure and checks creator ownership.
func (s *adventureServiceImpl) requireCreator(ctx context.Context, userID, adventureID int64) (*models.Adventure, error) {
	adventure, err := s.adventureRepo.GetByID(ctx, s.db, adventureID)
	if err != nil {
		return nil, err
	}
	if adventure.CreatorID != userID {
		return nil, models.ErrForbidden
	}
	return adventure, nil
}

// Update rewrites the descriptive fields. Creator only.
func (s *adventureServiceImpl) Update(ctx context.Context, userID, adventureID int64, input AdventureInput) (*models.Adventure, error) {
	adventure, err := s.requireCreator(ctx, userID, adventureID)
	if err != nil {
		return nil, err
	}
	input, err = s.validateInput(input)
	if err != nil {
		return nil, err
	}

	adventure.Title = input.Title
	adventure.Description = input.Description
	adventure.Setting = input.Setting
	if err := s.adventureRepo.Update(ctx, s.db, adventure); err != nil {
		return nil, err
	}
	return adventure, nil
}

// Delete removes the adventure. Creator only.
func (s *adventureServiceImpl) Delete(ctx context.Context, userID, adventureID int64) error {
	if _, err := s.requireCreator(ctx, userID, adventureID); err != nil {
		return err
	}
	if err := s.adventureRepo.Delete(ctx, s.db, adventureID); err != nil {
		return err
	}
	if err := s.narrationCache.InvalidateLastNarration(ctx, adventureID); err != nil {
		s.logger.Warn("Failed to invalidate narration cache", zap.Error(err), zap.Int64("adventureID", adventureID))
	}
	return nil
}

// Conclude moves the adventure to the concluded state. Creator only.
func (s *adventureServiceImpl) Conclude(ctx context.Context, userID, adventureID int64) error {
	adventure, err := s.requireCreator(ctx, userID, adventureID)
	if err != nil {
		return err
	}
	if adventure.Status == models.StatusConcluded {
		return nil
	}
	return s.adventureRepo.UpdateStatus(ctx, s.db, adventureID, models.StatusConcluded)
}

// UpdateRules replaces the roll thresholds. Creator only. The stored
// rules are normalized so reads always see four ordered thresholds.
func (s *adventureServiceImpl) UpdateRules(ctx context.Context, userID, adventureID int64, rules models.RollRules) error {
	if _, err := s.requireCreator(ctx, userID, adventureID); err != nil {
		return err
	}
	return s.adventureRepo.UpdateRules(ctx, s.db, adventureID, rules.Normalized())
}

// UpdateSummary rewrites the running story summary fed into the
// "Summary so far" prompt section. Creator only.
func (s *adventureServiceImpl) UpdateSummary(ctx context.Context, userID, adventureID int64, summary string) error {
	if _, err := s.requireCreator(ctx, userID, adventureID); err != nil {
		return err
	}
	return s.adventureRepo.UpdateSummary(ctx, s.db, adventureID, strings.TrimSpace(summary))
}

// Join enrolls the user in an adventure. Joining twice is a no-op that
// keeps the existing character binding.
func (s *adventureServiceImpl) Join(ctx context.Context, userID, adventureID int64, characterID *int64) (*models.Participation, error) {
	adventure, err := s.adventureRepo.GetByID(ctx, s.db, adventureID)
	if err != nil {
		return nil, err
	}
	if adventure.Status == models.StatusConcluded {
		return nil, models.ErrAdventureConcluded
	}

	if characterID != nil {
		if err := s.requireOwnedCharacter(ctx, userID, *characterID); err != nil {
			return nil, err
		}
	}

	participation := &models.Participation{
		UserID:      userID,
		AdventureID: adventureID,
		CharacterID: characterID,
		Role:        models.RolePlayer,
	}
	created, err := s.participationRepo.Join(ctx, s.db, participation)
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.Info("User joined adventure", zap.Int64("userID", userID), zap.Int64("adventureID", adventureID))
	}
	return participation, nil
}

// SelectCharacter binds one of the user's characters to their
// participation.
func (s *adventureServiceImpl) SelectCharacter(ctx context.Context, userID, adventureID, characterID int64) error {
	if err := s.requireOwnedCharacter(ctx, userID, characterID); err != nil {
		return err
	}
	return s.participationRepo.SetCharacter(ctx, s.db, userID, adventureID, &characterID)
}

func (s *adventureServiceImpl) requireOwnedCharacter(ctx context.Context, userID, characterID int64) error {
	character, err := s.characterRepo.GetByID(ctx, s.db, characterID)
	if err != nil {
		return err
	}
	if character.UserID != userID {
		return models.ErrForbidden
	}
	return nil
}

// Transcript returns the ordered message log. Participants only.
func (s *adventureServiceImpl) Transcript(ctx context.Context, userID, adventureID int64) ([]*models.Message, error) {
	if _, err := s.participationRepo.Get(ctx, s.db, userID, adventureID); err != nil {
		if errors.Is(err, models.ErrParticipationNotFound) {
			return nil, models.ErrNotParticipant
		}
		return nil, err
	}
	return s.messageRepo.ListByAdventure(ctx, s.db, adventureID)
}

// LastNarration returns the most recent narration. The Redis mirror is
// consulted first; on a miss the newest session row is projected and
// the mirror refreshed.
func (s *adventureServiceImpl) LastNarration(ctx context.Context, userID, adventureID int64) (string, error) {
	if _, err := s.participationRepo.Get(ctx, s.db, userID, adventureID); err != nil {
		if errors.Is(err, models.ErrParticipationNotFound) {
			return "", models.ErrNotParticipant
		}
		return "", err
	}

	narration, err := s.narrationCache.GetLastNarration(ctx, adventureID)
	if err == nil {
		return narration, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		s.logger.Warn("Narration cache read failed, falling back to store", zap.Error(err), zap.Int64("adventureID", adventureID))
	}

	session, err := s.sessionRepo.LatestByAdventure(ctx, s.db, adventureID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to project last narration: %w", err)
	}

	if err := s.narrationCache.SetLastNarration(ctx, adventureID, session.Narration); err != nil {
		s.logger.Warn("Failed to refresh narration cache", zap.Error(err), zap.Int64("adventureID", adventureID))
	}
	return session.Narration, nil
}
