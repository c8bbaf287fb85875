package service

import (
	"context"
	"errors"
	"strings"

	"adventure-server/internal/ai"
	"adventure-server/internal/interfaces"
	"adventure-server/internal/models"
	"adventure-server/internal/prompt"

	"go.uber.org/zap"
)

// CharacterInput carries the caller-editable character fields.
type CharacterInput struct {
	Name        string
	Class       string
	Race        string
	Attributes  map[string]int
	Description string
}

// CharacterService handles character CRUD plus the in-adventure
// creation flow that narrates the character's entrance.
type CharacterService interface {
	Create(ctx context.Context, userID int64, input CharacterInput) (*models.Character, error)
	List(ctx context.Context, userID int64) ([]*models.Character, error)
	Get(ctx context.Context, userID, characterID int64) (*models.Character, error)
	Update(ctx context.Context, userID, characterID int64, input CharacterInput) (*models.Character, error)
	Delete(ctx context.Context, userID, characterID int64) error

	// CreateInAdventure validates the attribute budget, asks the
	// narrator to introduce the character, and commits character,
	// participation binding, session and narrator message atomically.
	CreateInAdventure(ctx context.Context, userID, adventureID int64, input CharacterInput) (*models.Character, []*models.Message, error)
}

type characterServiceImpl struct {
	db                interfaces.DBTX
	txManager         interfaces.TxManager
	characterRepo     interfaces.CharacterRepository
	adventureRepo     interfaces.AdventureRepository
	participationRepo interfaces.ParticipationRepository
	sessionRepo       interfaces.TurnSessionRepository
	messageRepo       interfaces.MessageRepository
	narrationCache    interfaces.NarrationCache
	narrator          interfaces.Narrator
	logger            *zap.Logger
}

// NewCharacterService creates the character service.
func NewCharacterService(
	db interfaces.DBTX,
	txManager interfaces.TxManager,
	characterRepo interfaces.CharacterRepository,
	adventureRepo interfaces.AdventureRepository,
	participationRepo interfaces.ParticipationRepository,
	sessionRepo interfaces.TurnSessionRepository,
	messageRepo interfaces.MessageRepository,
	narrationCache interfaces.NarrationCache,
	narrator interfaces.Narrator,
	logger *zap.Logger,
) CharacterService {
	return &characterServiceImpl{
		db:                db,
		txManager:         txManager,
		characterRepo:     characterRepo,
		adventureRepo:     adventureRepo,
		participationRepo: participationRepo,
		sessionRepo:       sessionRepo,
		messageRepo:       messageRepo,
		narrationCache:    narrationCache,
		narrator:          narrator,
		logger:            logger.Named("CharacterService"),
	}
}

// normalizeAttributes clamps the primary attributes into [1, 99] and
// enforces the total point budget over them.
func normalizeAttributes(attributes map[string]int) (map[string]int, error) {
	if attributes == nil {
		attributes = map[string]int{}
	}
	normalized := make(map[string]int, len(attributes))
	for key, value := range attributes {
		normalized[key] = value
	}

	total := 0
	for _, key := range []string{models.AttrStrength, models.AttrDexterity, models.AttrIntelligence} {
		value, ok := normalized[key]
		if !ok {
			value = models.AttributeMin
		}
		total += value
		normalized[key] = models.ClampAttribute(value)
	}
	// The ceiling applies to the submitted values, before clamping can
	// shrink an oversized attribute back into range.
	if total > models.AttributePointBudget {
		return nil, models.ErrAttributeBudget
	}
	return normalized, nil
}

func validateCharacterInput(input CharacterInput) (CharacterInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" || len(input.Name) > 255 {
		return input, models.ErrInvalidInput
	}
	normalized, err := normalizeAttributes(input.Attributes)
	if err != nil {
		return input, err
	}
	input.Attributes = normalized
	return input, nil
}

// Create adds a character to the user's roster.
func (s *characterServiceImpl) Create(ctx context.Context, userID int64, input CharacterInput) (*models.Character, error) {
	input, err := validateCharacterInput(input)
	if err != nil {
		return nil, err
	}

	character := &models.Character{
		UserID:      userID,
		Name:        input.Name,
		Class:       input.Class,
		Race:        input.Race,
		Attributes:  input.Attributes,
		Level:       1,
		Description: input.Description,
	}
	if err := s.characterRepo.Create(ctx, s.db, character); err != nil {
		return nil, err
	}
	return character, nil
}

// List returns the user's characters.
func (s *characterServiceImpl) List(ctx context.Context, userID int64) ([]*models.Character, error) {
	return s.characterRepo.ListByUser(ctx, s.db, userID)
}

// Get returns one of the user's characters.
func (s *characterServiceImpl) Get(ctx context.Context, userID, characterID int64) (*models.Character, error) {
	character, err := s.characterRepo.GetByID(ctx, s.db, characterID)
	if err != nil {
		return nil, err
	}
	if character.UserID != userID {
		return nil, models.ErrForbidden
	}
	return character, nil
}

// Update rewrites a character sheet. Owner only, budget re-checked.
func (s *characterServiceImpl) Update(ctx context.Context, userID, characterID int64, input CharacterInput) (*models.Character, error) {
	character, err := s.Get(ctx, userID, characterID)
	if err != nil {
		return nil, err
	}
	input, err = validateCharacterInput(input)
	if err != nil {
		return nil, err
	}

	character.Name = input.Name
	character.Class = input.Class
	character.Race = input.Race
	character.Attributes = input.Attributes
	character.Description = input.Description
	if err := s.characterRepo.Update(ctx, s.db, character); err != nil {
		return nil, err
	}
	return character, nil
}

// Delete removes a character. Owner only.
func (s *characterServiceImpl) Delete(ctx context.Context, userID, characterID int64) error {
	if _, err := s.Get(ctx, userID, characterID); err != nil {
		return err
	}
	return s.characterRepo.Delete(ctx, s.db, characterID)
}

// CreateInAdventure runs the character-introduction flow: budget check,
// introduction narration, then one transaction committing the character
// row, the participation binding, the session and the narrator message.
// A narration failure leaves the store untouched.
func (s *characterServiceImpl) CreateInAdventure(ctx context.Context, userID, adventureID int64, input CharacterInput) (*models.Character, []*models.Message, error) {
	input, err := validateCharacterInput(input)
	if err != nil {
		return nil, nil, err
	}

	adventure, err := s.adventureRepo.GetByID(ctx, s.db, adventureID)
	if err != nil {
		return nil, nil, err
	}
	if adventure.Status == models.StatusConcluded {
		return nil, nil, models.ErrAdventureConcluded
	}
	if _, err := s.participationRepo.Get(ctx, s.db, userID, adventureID); err != nil {
		if errors.Is(err, models.ErrParticipationNotFound) {
			return nil, nil, models.ErrNotParticipant
		}
		return nil, nil, err
	}

	lastTurn := ""
	if session, err := s.sessionRepo.LatestByAdventure(ctx, s.db, adventureID); err == nil {
		lastTurn = session.Narration
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, nil, err
	}

	character := &models.Character{
		UserID:        userID,
		Name:          input.Name,
		Class:         input.Class,
		Race:          input.Race,
		Attributes:    input.Attributes,
		Level:         1,
		Description:   input.Description,
		ActiveInScene: true,
	}

	// Introduction framing, empty action and roll set.
	promptText := prompt.Assemble(prompt.Input{
		Summary:          adventure.Summary,
		LastTurn:         lastTurn,
		CharacterName:    character.Name,
		ActionText:       "joins the adventure",
		ActiveCharacters: []*models.Character{character},
	})

	narration, raw, err := s.narrator.Narrate(ctx, ai.IntroductionPersona, promptText)
	if err != nil {
		s.logger.Error("Introduction narration failed", zap.Error(err), zap.Int64("adventureID", adventureID))
		return nil, nil, err
	}

	err = s.txManager.WithTx(ctx, func(tx interfaces.DBTX) error {
		if err := s.characterRepo.Create(ctx, tx, character); err != nil {
			return err
		}
		if err := s.participationRepo.SetCharacter(ctx, tx, userID, adventureID, &character.ID); err != nil {
			return err
		}
		session := &models.TurnSession{
			AdventureID:   adventureID,
			Narration:     narration,
			PlayerActions: []string{},
			Prompt:        promptText,
			RawResponse:   raw,
		}
		if err := s.sessionRepo.Create(ctx, tx, session); err != nil {
			return err
		}
		narratorMessage := &models.Message{
			AdventureID: adventureID,
			Author:      models.AuthorNarrator,
			Text:        narration,
		}
		return s.messageRepo.Create(ctx, tx, narratorMessage)
	})
	if err != nil {
		return nil, nil, err
	}

	if err := s.narrationCache.SetLastNarration(ctx, adventureID, narration); err != nil {
		s.logger.Warn("Failed to mirror introduction narration", zap.Error(err), zap.Int64("adventureID", adventureID))
	}

	messages, err := s.messageRepo.ListByAdventure(ctx, s.db, adventureID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Character introduced into adventure",
		zap.Int64("characterID", character.ID), zap.Int64("adventureID", adventureID))
	return character, messages, nil
}
