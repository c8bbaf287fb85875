package service_test

import (
	"context"
	"testing"

	"adventure-server/internal/interfaces/mocks"
	"adventure-server/internal/models"
	"adventure-server/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type characterFixture struct {
	characterRepo     *mocks.CharacterRepository
	adventureRepo     *mocks.AdventureRepository
	participationRepo *mocks.ParticipationRepository
	sessionRepo       *mocks.TurnSessionRepository
	messageRepo       *mocks.MessageRepository
	narrationCache    *mocks.NarrationCache
	narrator          *mocks.Narrator
	txManager         *mocks.TxManager
	svc               service.CharacterService
}

func newCharacterFixture() *characterFixture {
	f := &characterFixture{
		characterRepo:     new(mocks.CharacterRepository),
		adventureRepo:     new(mocks.AdventureRepository),
		participationRepo: new(mocks.ParticipationRepository),
		sessionRepo:       new(mocks.TurnSessionRepository),
		messageRepo:       new(mocks.MessageRepository),
		narrationCache:    new(mocks.NarrationCache),
		narrator:          new(mocks.Narrator),
		txManager:         new(mocks.TxManager),
	}
	f.svc = service.NewCharacterService(
		nil,
		f.txManager,
		f.characterRepo,
		f.adventureRepo,
		f.participationRepo,
		f.sessionRepo,
		f.messageRepo,
		f.narrationCache,
		f.narrator,
		zap.NewNop(),
	)
	return f
}

func TestCreateCharacter_AttributeBudget(t *testing.T) {
	ctx := context.Background()

	t.Run("over budget rejected before any write", func(t *testing.T) {
		f := newCharacterFixture()
		_, err := f.svc.Create(ctx, 1, service.CharacterInput{
			Name: "Borin",
			Attributes: map[string]int{
				models.AttrStrength:     80,
				models.AttrDexterity:    80,
				models.AttrIntelligence: 80,
			},
		})
		assert.ErrorIs(t, err, models.ErrAttributeBudget)
		f.characterRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("within budget accepted unchanged", func(t *testing.T) {
		f := newCharacterFixture()
		f.characterRepo.On("Create", ctx, mock.Anything, mock.MatchedBy(func(c *models.Character) bool {
			return c.Attributes[models.AttrStrength] == 60 &&
				c.Attributes[models.AttrDexterity] == 60 &&
				c.Attributes[models.AttrIntelligence] == 60
		})).Return(nil).Once()

		character, err := f.svc.Create(ctx, 1, service.CharacterInput{
			Name: "Borin",
			Attributes: map[string]int{
				models.AttrStrength:     60,
				models.AttrDexterity:    60,
				models.AttrIntelligence: 60,
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, character.Level)
		f.characterRepo.AssertExpectations(t)
	})

	t.Run("values clamped into range", func(t *testing.T) {
		f := newCharacterFixture()
		f.characterRepo.On("Create", ctx, mock.Anything, mock.MatchedBy(func(c *models.Character) bool {
			return c.Attributes[models.AttrStrength] == models.AttributeMin &&
				c.Attributes[models.AttrDexterity] == models.AttributeMin
		})).Return(nil).Once()

		_, err := f.svc.Create(ctx, 1, service.CharacterInput{
			Name: "Borin",
			Attributes: map[string]int{
				models.AttrStrength:     0,
				models.AttrDexterity:    -5,
				models.AttrIntelligence: 50,
			},
		})
		require.NoError(t, err)
	})
}

func TestCharacter_OwnerChecks(t *testing.T) {
	ctx := context.Background()
	f := newCharacterFixture()

	f.characterRepo.On("GetByID", ctx, mock.Anything, int64(3)).
		Return(&models.Character{ID: 3, UserID: 99}, nil)

	_, err := f.svc.Get(ctx, 1, 3)
	assert.ErrorIs(t, err, models.ErrForbidden)

	err = f.svc.Delete(ctx, 1, 3)
	assert.ErrorIs(t, err, models.ErrForbidden)
	f.characterRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateInAdventure_CommitsAtomically(t *testing.T) {
	ctx := context.Background()
	f := newCharacterFixture()
	userID := int64(5)

	f.adventureRepo.On("GetByID", ctx, mock.Anything, int64(7)).
		Return(&models.Adventure{ID: 7, Status: models.StatusInProgress, Summary: "So far so good."}, nil).Once()
	f.participationRepo.On("Get", ctx, mock.Anything, userID, int64(7)).
		Return(&models.Participation{UserID: userID, AdventureID: 7}, nil).Once()
	f.sessionRepo.On("LatestByAdventure", ctx, mock.Anything, int64(7)).
		Return(&models.TurnSession{Narration: "A storm rolls in."}, nil).Once()

	f.narrator.On("Narrate", mock.Anything, mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return assert.Contains(t, prompt, "Summary so far:\nSo far so good.") &&
			assert.Contains(t, prompt, "Last turn:\nA storm rolls in.")
	})).Return("Borin steps out of the rain.", "{}", nil).Once()

	f.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
	f.characterRepo.On("Create", ctx, mock.Anything, mock.MatchedBy(func(c *models.Character) bool {
		c.ID = 11 // simulate the insert assigning an id
		return c.Name == "Borin" && c.ActiveInScene
	})).Return(nil).Once()
	f.participationRepo.On("SetCharacter", ctx, mock.Anything, userID, int64(7), mock.Anything).Return(nil).Once()
	f.sessionRepo.On("Create", ctx, mock.Anything, mock.MatchedBy(func(s *models.TurnSession) bool {
		return s.AdventureID == 7 && len(s.PlayerActions) == 0
	})).Return(nil).Once()
	f.messageRepo.On("Create", ctx, mock.Anything, mock.MatchedBy(func(m *models.Message) bool {
		return m.Author == models.AuthorNarrator && m.UserID == nil
	})).Return(nil).Once()

	f.narrationCache.On("SetLastNarration", ctx, int64(7), "Borin steps out of the rain.").Return(nil).Once()
	f.messageRepo.On("ListByAdventure", ctx, mock.Anything, int64(7)).
		Return([]*models.Message{{Author: models.AuthorNarrator}}, nil).Once()

	character, messages, err := f.svc.CreateInAdventure(ctx, userID, 7, service.CharacterInput{
		Name: "Borin",
		Attributes: map[string]int{
			models.AttrStrength:     60,
			models.AttrDexterity:    50,
			models.AttrIntelligence: 40,
		},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), character.ID)
	assert.Len(t, messages, 1)
	f.characterRepo.AssertExpectations(t)
	f.participationRepo.AssertExpectations(t)
}

func TestCreateInAdventure_NarrationFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newCharacterFixture()
	userID := int64(5)

	f.adventureRepo.On("GetByID", ctx, mock.Anything, int64(7)).
		Return(&models.Adventure{ID: 7, Status: models.StatusPreparing}, nil).Once()
	f.participationRepo.On("Get", ctx, mock.Anything, userID, int64(7)).
		Return(&models.Participation{UserID: userID, AdventureID: 7}, nil).Once()
	f.sessionRepo.On("LatestByAdventure", ctx, mock.Anything, int64(7)).Return(nil, models.ErrNotFound).Once()
	f.narrator.On("Narrate", mock.Anything, mock.Anything, mock.Anything).
		Return("", "", models.ErrNarrationFailed).Once()

	_, _, err := f.svc.CreateInAdventure(ctx, userID, 7, service.CharacterInput{Name: "Borin"})

	assert.ErrorIs(t, err, models.ErrNarrationFailed)
	f.txManager.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
	f.characterRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}
