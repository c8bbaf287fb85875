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

type adventureFixture struct {
	adventureRepo     *mocks.AdventureRepository
	participationRepo *mocks.ParticipationRepository
	characterRepo     *mocks.CharacterRepository
	messageRepo       *mocks.MessageRepository
	sessionRepo       *mocks.TurnSessionRepository
	narrationCache    *mocks.NarrationCache
	svc               service.AdventureService
}

func newAdventureFixture() *adventureFixture {
	f := &adventureFixture{
		adventureRepo:     new(mocks.AdventureRepository),
		participationRepo: new(mocks.ParticipationRepository),
		characterRepo:     new(mocks.CharacterRepository),
		messageRepo:       new(mocks.MessageRepository),
		sessionRepo:       new(mocks.TurnSessionRepository),
		narrationCache:    new(mocks.NarrationCache),
	}
	f.svc = service.NewAdventureService(
		nil,
		f.adventureRepo,
		f.participationRepo,
		f.characterRepo,
		f.messageRepo,
		f.sessionRepo,
		f.narrationCache,
		zap.NewNop(),
	)
	return f
}

func TestCreateAdventure_EnrollsCreatorAsMaster(t *testing.T) {
	ctx := context.Background()
	f := newAdventureFixture()

	f.adventureRepo.On("Create", ctx, mock.Anything, mock.MatchedBy(func(a *models.Adventure) bool {
		a.ID = 7
		return a.Status == models.StatusPreparing && a.Rules == models.DefaultRollRules()
	})).Return(nil).Once()
	f.participationRepo.On("Join", ctx, mock.Anything, mock.MatchedBy(func(p *models.Participation) bool {
		return p.UserID == 1 && p.AdventureID == 7 && p.Role == models.RoleMaster
	})).Return(true, nil).Once()

	adventure, err := f.svc.Create(ctx, 1, service.AdventureInput{Title: "The Sunken Keep"})

	require.NoError(t, err)
	assert.Equal(t, int64(7), adventure.ID)
	f.participationRepo.AssertExpectations(t)
}

func TestJoin_SecondJoinPreservesCharacter(t *testing.T) {
	ctx := context.Background()
	f := newAdventureFixture()
	boundCharacter := int64(3)

	f.adventureRepo.On("GetByID", ctx, mock.Anything, int64(7)).
		Return(&models.Adventure{ID: 7, Status: models.StatusInProgress}, nil).Once()
	// The repository reports "no new row" and hands back the existing
	// participation with its character binding untouched.
	f.participationRepo.On("Join", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			p := args.Get(2).(*models.Participation)
			*p = models.Participation{ID: 55, UserID: 2, AdventureID: 7, CharacterID: &boundCharacter, Role: models.RolePlayer}
		}).Return(false, nil).Once()

	participation, err := f.svc.Join(ctx, 2, 7, nil)

	require.NoError(t, err)
	require.NotNil(t, participation.CharacterID)
	assert.Equal(t, boundCharacter, *participation.CharacterID)
}

func TestJoin_ConcludedAdventureRejected(t *testing.T) {
	ctx := context.Background()
	f := newAdventureFixture()

	f.adventureRepo.On("GetByID", ctx, mock.Anything, int64(7)).
		Return(&models.Adventure{ID: 7, Status: models.StatusConcluded}, nil).Once()

	_, err := f.svc.Join(ctx, 2, 7, nil)
	assert.ErrorIs(t, err, models.ErrAdventureConcluded)
	f.participationRepo.AssertNotCalled(t, "Join", mock.Anything, mock.Anything, mock.Anything)
}

func TestJoin_ForeignCharacterRejected(t *testing.T) {
	ctx := context.Background()
	f := newAdventureFixture()
	foreign := int64(3)

	f.adventureRepo.On("GetByID", ctx, mock.Anything, int64(7)).
		Return(&models.Adventure{ID: 7, Status: models.StatusPreparing}, nil).Once()
	f.characterRepo.On("GetByID", ctx, mock.Anything, foreign).
		Return(&models.Character{ID: foreign, UserID: 99}, nil).Once()

	_, err := f.svc.Join(ctx, 2, 7, &foreign)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestUpdateAdventure_CreatorOnly(t *testing.T) {
	ctx := context.Background()
	f := newAdventureFixture()

	f.adventureRepo.On("GetByID", ctx, mock.Anything, int64(7)).
		Return(&models.Adventure{ID: 7, CreatorID: 1}, nil)

	_, err := f.svc.Update(ctx, 2, 7, service.AdventureInput{Title: "New title"})
	assert.ErrorIs(t, err, models.ErrForbidden)

	err = f.svc.Delete(ctx, 2, 7)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestTranscript_ParticipantsOnly(t *testing.T) {
	ctx := context.Background()
	f := newAdventureFixture()

	f.participationRepo.On("Get", ctx, mock.Anything, int64(2), int64(7)).
		Return(nil, models.ErrParticipationNotFound).Once()

	_, err := f.svc.Transcript(ctx, 2, 7)
	assert.ErrorIs(t, err, models.ErrNotParticipant)
}

func TestLastNarration_ProjectsFromNewestSession(t *testing.T) {
	ctx := context.Background()
	f := newAdventureFixture()

	f.participationRepo.On("Get", ctx, mock.Anything, int64(2), int64(7)).
		Return(&models.Participation{UserID: 2, AdventureID: 7}, nil)

	t.Run("cache hit", func(t *testing.T) {
		f.narrationCache.On("GetLastNarration", ctx, int64(7)).Return("cached text", nil).Once()
		narration, err := f.svc.LastNarration(ctx, 2, 7)
		require.NoError(t, err)
		assert.Equal(t, "cached text", narration)
	})

	t.Run("cache miss projects and refreshes", func(t *testing.T) {
		f.narrationCache.On("GetLastNarration", ctx, int64(7)).Return("", models.ErrNotFound).Once()
		f.sessionRepo.On("LatestByAdventure", ctx, mock.Anything, int64(7)).
			Return(&models.TurnSession{Narration: "projected text"}, nil).Once()
		f.narrationCache.On("SetLastNarration", ctx, int64(7), "projected text").Return(nil).Once()

		narration, err := f.svc.LastNarration(ctx, 2, 7)
		require.NoError(t, err)
		assert.Equal(t, "projected text", narration)
	})

	t.Run("no turns yet yields empty", func(t *testing.T) {
		f.narrationCache.On("GetLastNarration", ctx, int64(7)).Return("", models.ErrNotFound).Once()
		f.sessionRepo.On("LatestByAdventure", ctx, mock.Anything, int64(7)).
			Return(nil, models.ErrNotFound).Once()

		narration, err := f.svc.LastNarration(ctx, 2, 7)
		require.NoError(t, err)
		assert.Empty(t, narration)
	})
}

func TestUpdateRules_NormalizesBeforeStore(t *testing.T) {
	ctx := context.Background()
	f := newAdventureFixture()

	f.adventureRepo.On("GetByID", ctx, mock.Anything, int64(7)).
		Return(&models.Adventure{ID: 7, CreatorID: 1}, nil).Once()
	// Broken ordering falls back to the defaults.
	f.adventureRepo.On("UpdateRules", ctx, mock.Anything, int64(7), models.DefaultRollRules()).
		Return(nil).Once()

	err := f.svc.UpdateRules(ctx, 1, 7, models.RollRules{
		CriticalFailureMax: 90,
		FailureMax:         50,
		SuccessMax:         10,
		CriticalSuccessMin: 5,
	})

	require.NoError(t, err)
	f.adventureRepo.AssertExpectations(t)
}

func TestUpdateSummary_CreatorOnly(t *testing.T) {
	ctx := context.Background()
	f := newAdventureFixture()

	f.adventureRepo.On("GetByID", ctx, mock.Anything, int64(7)).
		Return(&models.Adventure{ID: 7, CreatorID: 1}, nil).Twice()
	f.adventureRepo.On("UpdateSummary", ctx, mock.Anything, int64(7), "The party reached the vault.").
		Return(nil).Once()

	err := f.svc.UpdateSummary(ctx, 1, 7, "  The party reached the vault.  ")
	require.NoError(t, err)

	err = f.svc.UpdateSummary(ctx, 2, 7, "rewrite attempt")
	require.ErrorIs(t, err, models.ErrForbidden)

	f.adventureRepo.AssertExpectations(t)
}
