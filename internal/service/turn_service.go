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

// Limits on the free-text turn fields.
const (
	maxActionLength  = 2000
	maxContextLength = 4000
)

// TurnSubmission is the transport-free form of one turn request. The
// active adventure is an explicit parameter, never ambient state.
type TurnSubmission struct {
	UserID      int64
	AdventureID int64
	ActionText  string
	ContextText string
	// RawRolls holds the unparsed roll payload fragments in any of the
	// accepted wire shapes.
	RawRolls []string
	// ActivationFlags maps character id to the submitted in-scene flag.
	ActivationFlags map[int64]bool
}

// TurnOutcome is the transport-free result of a processed turn; the
// handler layer adapts it to JSON or a redirect.
type TurnOutcome struct {
	Narration string
	Messages  []*models.Message
	Session   *models.TurnSession
}

// TurnService orchestrates the turn workflow: guards, validation,
// activation bookkeeping, prompt assembly, narration and the atomic
// commit.
type TurnService interface {
	SubmitTurn(ctx context.Context, submission TurnSubmission) (*TurnOutcome, error)
	// ApplyActivationFlags persists changed in-scene flags. Exposed for
	// the dashboard; SubmitTurn calls it internally best-effort.
	ApplyActivationFlags(ctx context.Context, userID int64, flags map[int64]bool) error
}

type turnServiceImpl struct {
	db                interfaces.DBTX
	txManager         interfaces.TxManager
	adventureRepo     interfaces.AdventureRepository
	participationRepo interfaces.ParticipationRepository
	characterRepo     interfaces.CharacterRepository
	sessionRepo       interfaces.TurnSessionRepository
	messageRepo       interfaces.MessageRepository
	narrationCache    interfaces.NarrationCache
	narrator          interfaces.Narrator
	tokenCounter      interfaces.TokenCounter
	promptTokenLimit  int
	logger            *zap.Logger
}

// NewTurnService creates the turn service. tokenCounter may be nil to
// disable the prompt size cap.
func NewTurnService(
	db interfaces.DBTX,
	txManager interfaces.TxManager,
	adventureRepo interfaces.AdventureRepository,
	participationRepo interfaces.ParticipationRepository,
	characterRepo interfaces.CharacterRepository,
	sessionRepo interfaces.TurnSessionRepository,
	messageRepo interfaces.MessageRepository,
	narrationCache interfaces.NarrationCache,
	narrator interfaces.Narrator,
	tokenCounter interfaces.TokenCounter,
	promptTokenLimit int,
	logger *zap.Logger,
) TurnService {
	return &turnServiceImpl{
		db:                db,
		txManager:         txManager,
		adventureRepo:     adventureRepo,
		participationRepo: participationRepo,
		characterRepo:     characterRepo,
		sessionRepo:       sessionRepo,
		messageRepo:       messageRepo,
		narrationCache:    narrationCache,
		narrator:          narrator,
		tokenCounter:      tokenCounter,
		promptTokenLimit:  promptTokenLimit,
		logger:            logger.Named("TurnService"),
	}
}

// SubmitTurn runs one turn to completion. Narration failures and guard
// failures leave the store untouched; only the final transaction
// writes.
func (s *turnServiceImpl) SubmitTurn(ctx context.Context, submission TurnSubmission) (*TurnOutcome, error) {
	log := s.logger.With(zap.Int64("userID", submission.UserID), zap.Int64("adventureID", submission.AdventureID))

	// Guards: active adventure reference and a participation with a
	// chosen character.
	if submission.AdventureID == 0 {
		return nil, models.ErrNoActiveAdventure
	}
	adventure, err := s.adventureRepo.GetByID(ctx, s.db, submission.AdventureID)
	if err != nil {
		if errors.Is(err, models.ErrAdventureNotFound) {
			return nil, models.ErrNoActiveAdventure
		}
		return nil, err
	}
	if adventure.Status == models.StatusConcluded {
		return nil, models.ErrAdventureConcluded
	}

	participation, err := s.participationRepo.Get(ctx, s.db, submission.UserID, submission.AdventureID)
	if err != nil {
		if errors.Is(err, models.ErrParticipationNotFound) {
			return nil, models.ErrNotParticipant
		}
		return nil, err
	}
	if participation.CharacterID == nil {
		return nil, models.ErrNoCharacterSelected
	}

	// Validation.
	actionText := strings.TrimSpace(submission.ActionText)
	if actionText == "" || len(actionText) > maxActionLength {
		return nil, models.ErrInvalidInput
	}
	contextText := strings.TrimSpace(submission.ContextText)
	if len(contextText) > maxContextLength {
		return nil, models.ErrInvalidInput
	}

	actingCharacter, err := s.characterRepo.GetByID(ctx, s.db, *participation.CharacterID)
	if err != nil {
		return nil, err
	}

	// Activation flags are best-effort: a failure here is logged and
	// the turn proceeds with whatever state was already committed.
	if len(submission.ActivationFlags) > 0 {
		if err := s.ApplyActivationFlags(ctx, submission.UserID, submission.ActivationFlags); err != nil {
			log.Warn("Activation flag update failed, continuing turn", zap.Error(err))
		}
	}

	lastTurn := ""
	if session, err := s.sessionRepo.LatestByAdventure(ctx, s.db, submission.AdventureID); err == nil {
		lastTurn = session.Narration
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	activeCharacters, err := s.activeCharactersInScene(ctx, submission.AdventureID)
	if err != nil {
		return nil, err
	}

	rolls := prompt.ParseRolls(submission.RawRolls, adventure.Rules)

	promptText := prompt.Assemble(prompt.Input{
		Summary:          adventure.Summary,
		LastTurn:         lastTurn,
		Context:          contextText,
		CharacterName:    actingCharacter.Name,
		ActionText:       actionText,
		Rolls:            rolls,
		ActiveCharacters: activeCharacters,
	})

	if s.tokenCounter != nil && s.promptTokenLimit > 0 {
		tokens := s.tokenCounter.Count(promptText)
		promptTokens.Observe(float64(tokens))
		if tokens > s.promptTokenLimit {
			log.Warn("Prompt exceeds token limit", zap.Int("tokens", tokens), zap.Int("limit", s.promptTokenLimit))
			return nil, models.ErrPromptTooLarge
		}
	}

	narration, raw, err := s.narrator.Narrate(ctx, ai.NarratorPersona, promptText)
	if err != nil {
		narrationFailures.Inc()
		turnsFailed.Inc()
		return nil, err
	}

	outcome := &TurnOutcome{Narration: narration}
	err = s.txManager.WithTx(ctx, func(tx interfaces.DBTX) error {
		// The row lock serializes concurrent turn commits for one
		// adventure.
		locked, err := s.adventureRepo.GetByIDForUpdate(ctx, tx, submission.AdventureID)
		if err != nil {
			return err
		}

		session := &models.TurnSession{
			AdventureID:   submission.AdventureID,
			Narration:     narration,
			PlayerActions: []string{actionText},
			Prompt:        promptText,
			RawResponse:   raw,
		}
		if err := s.sessionRepo.Create(ctx, tx, session); err != nil {
			return err
		}
		outcome.Session = session

		playerMessage := &models.Message{
			AdventureID: submission.AdventureID,
			UserID:      &submission.UserID,
			Author:      models.AuthorPlayer,
			Text:        actionText,
		}
		if err := s.messageRepo.Create(ctx, tx, playerMessage); err != nil {
			return err
		}
		narratorMessage := &models.Message{
			AdventureID: submission.AdventureID,
			Author:      models.AuthorNarrator,
			Text:        narration,
		}
		if err := s.messageRepo.Create(ctx, tx, narratorMessage); err != nil {
			return err
		}

		if locked.Status == models.StatusPreparing {
			return s.adventureRepo.UpdateStatus(ctx, tx, submission.AdventureID, models.StatusInProgress)
		}
		return nil
	})
	if err != nil {
		turnsFailed.Inc()
		return nil, err
	}

	// Best-effort mirror of the newest narration for dashboard reads.
	if err := s.narrationCache.SetLastNarration(ctx, submission.AdventureID, narration); err != nil {
		log.Warn("Failed to mirror last narration", zap.Error(err))
	}

	messages, err := s.messageRepo.ListByAdventure(ctx, s.db, submission.AdventureID)
	if err != nil {
		return nil, err
	}
	outcome.Messages = messages

	turnsProcessed.Inc()
	log.Info("Turn processed", zap.Int("transcriptLen", len(messages)))
	return outcome, nil
}

// ApplyActivationFlags persists only the flags that differ from the
// stored state. Resubmitting the same flags issues no writes.
func (s *turnServiceImpl) ApplyActivationFlags(ctx context.Context, userID int64, flags map[int64]bool) error {
	if len(flags) == 0 {
		return nil
	}
	roster, err := s.characterRepo.ListByUser(ctx, s.db, userID)
	if err != nil {
		return err
	}

	var firstErr error
	for _, character := range roster {
		submitted, ok := flags[character.ID]
		if !ok || submitted == character.ActiveInScene {
			continue
		}
		character.ActiveInScene = submitted
		if err := s.characterRepo.Update(ctx, s.db, character); err != nil {
			s.logger.Warn("Failed to persist activation flag",
				zap.Error(err), zap.Int64("characterID", character.ID))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// activeCharactersInScene resolves the characters currently flagged
// active among the adventure's bound participants.
func (s *turnServiceImpl) activeCharactersInScene(ctx context.Context, adventureID int64) ([]*models.Character, error) {
	participations, err := s.participationRepo.ListByAdventure(ctx, s.db, adventureID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(participations))
	for _, p := range participations {
		if p.CharacterID != nil {
			ids = append(ids, *p.CharacterID)
		}
	}
	characters, err := s.characterRepo.ListByIDs(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	active := characters[:0]
	for _, character := range characters {
		if character.ActiveInScene {
			active = append(active, character)
		}
	}
	return active, nil
}
