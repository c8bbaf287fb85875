package database_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"adventure-server/internal/database"
	"adventure-server/internal/database/migrations"
	"adventure-server/internal/interfaces"
	"adventure-server/internal/models"

	"github.com/docker/docker/client"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// IntegrationTestSuite runs the repository layer against real Postgres
// and Redis containers.
type IntegrationTestSuite struct {
	suite.Suite
	ctx         context.Context
	pgContainer *postgres.PostgresContainer
	rdContainer *tcredis.RedisContainer
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	logger      *zap.Logger

	userRepo          interfaces.UserRepository
	characterRepo     interfaces.CharacterRepository
	adventureRepo     interfaces.AdventureRepository
	participationRepo interfaces.ParticipationRepository
	sessionRepo       interfaces.TurnSessionRepository
	messageRepo       interfaces.MessageRepository
	tokenRepo         interfaces.TokenRepository
	stateRepo         interfaces.ResetTokenRepository
}

func (s *IntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error

	s.logger, err = zap.NewDevelopment()
	require.NoError(s.T(), err, "Failed to create logger for tests")

	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to start postgres container")

	pgConnStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get postgres connection string")

	s.pgPool, err = pgxpool.New(s.ctx, pgConnStr)
	require.NoError(s.T(), err, "Failed to connect to test postgres")

	require.NoError(s.T(), s.runMigrations(pgConnStr), "Failed to run migrations")

	s.rdContainer, err = tcredis.Run(s.ctx,
		"docker.io/redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("* Ready to accept connections").
				WithOccurrence(1).
				WithStartupTimeout(1*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to start redis container")

	redisHost, err := s.rdContainer.Host(s.ctx)
	require.NoError(s.T(), err)
	redisPort, err := s.rdContainer.MappedPort(s.ctx, "6379/tcp")
	require.NoError(s.T(), err)

	s.redisClient = redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", redisHost, redisPort.Port())})
	_, err = s.redisClient.Ping(s.ctx).Result()
	require.NoError(s.T(), err, "Failed to connect to test redis")

	s.userRepo = database.NewPgUserRepository(s.pgPool, s.logger)
	s.characterRepo = database.NewPgCharacterRepository(s.logger)
	s.adventureRepo = database.NewPgAdventureRepository(s.logger)
	s.participationRepo = database.NewPgParticipationRepository(s.logger)
	s.sessionRepo = database.NewPgTurnSessionRepository(s.logger)
	s.messageRepo = database.NewPgMessageRepository(s.logger)
	s.tokenRepo = database.NewRedisTokenRepository(s.redisClient, s.logger)
	s.stateRepo = database.NewRedisStateRepository(s.redisClient, s.logger)
}

func (s *IntegrationTestSuite) TearDownSuite() {
	if s.pgPool != nil {
		s.pgPool.Close()
	}
	if s.redisClient != nil {
		s.redisClient.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Error("Failed to terminate postgres container", zap.Error(err))
		}
	}
	if s.rdContainer != nil {
		if err := s.rdContainer.Terminate(s.ctx); err != nil {
			s.logger.Error("Failed to terminate redis container", zap.Error(err))
		}
	}
}

func (s *IntegrationTestSuite) SetupTest() {
	require.NoError(s.T(), s.redisClient.FlushDB(s.ctx).Err(), "Failed to flush Redis DB")

	_, err := s.pgPool.Exec(s.ctx, "TRUNCATE TABLE users RESTART IDENTITY CASCADE")
	require.NoError(s.T(), err, "Failed to truncate users table")
}

func (s *IntegrationTestSuite) runMigrations(dbURL string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create iofs source driver: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, dbURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func TestIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	cli, err := client.NewClientWithOpts(client.FromEnv)
	if err != nil {
		t.Fatalf("Docker client init error: %v. Ensure Docker is running and accessible.", err)
	}
	if _, err := cli.Ping(context.Background()); err != nil {
		t.Fatalf("Docker daemon is not running or accessible: %v", err)
	}
	cli.Close()

	suite.Run(t, new(IntegrationTestSuite))
}

// --- Fixtures ---

func (s *IntegrationTestSuite) createUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$2a$10$fixturefixturefixturefixturefixturefixturefixturefix",
	}
	require.NoError(s.T(), s.userRepo.CreateUser(s.ctx, user))
	return user
}

func (s *IntegrationTestSuite) createAdventure(creatorID int64, title string) *models.Adventure {
	adventure := &models.Adventure{
		CreatorID: creatorID,
		Title:     title,
		Setting:   "a misty archipelago",
		Rules:     models.DefaultRollRules(),
		Status:    models.StatusPreparing,
	}
	require.NoError(s.T(), s.adventureRepo.Create(s.ctx, s.pgPool, adventure))
	return adventure
}

func (s *IntegrationTestSuite) createCharacter(userID int64, name string) *models.Character {
	character := &models.Character{
		UserID: userID,
		Name:   name,
		Class:  "Rogue",
		Race:   "Elf",
		Attributes: map[string]int{
			models.AttrStrength:     40,
			models.AttrDexterity:    80,
			models.AttrIntelligence: 60,
		},
		Level:         1,
		ActiveInScene: true,
	}
	require.NoError(s.T(), s.characterRepo.Create(s.ctx, s.pgPool, character))
	return character
}

// --- Tests ---

func (s *IntegrationTestSuite) TestCreateUser_DuplicateMapping() {
	t := s.T()
	s.createUser("dupuser")

	err := s.userRepo.CreateUser(s.ctx, &models.User{
		Username:     "dupuser",
		Email:        "other@example.com",
		PasswordHash: "x",
	})
	require.ErrorIs(t, err, models.ErrUserAlreadyExists)

	err = s.userRepo.CreateUser(s.ctx, &models.User{
		Username:     "otheruser",
		Email:        "dupuser@example.com",
		PasswordHash: "x",
	})
	require.ErrorIs(t, err, models.ErrEmailAlreadyExists)
}

func (s *IntegrationTestSuite) TestJoin_SecondJoinPreservesSelection() {
	t := s.T()
	user := s.createUser("joiner")
	adventure := s.createAdventure(user.ID, "The Sunken Vault")
	character := s.createCharacter(user.ID, "Aria")

	first := &models.Participation{
		UserID:      user.ID,
		AdventureID: adventure.ID,
		CharacterID: &character.ID,
		Role:        models.RolePlayer,
	}
	created, err := s.participationRepo.Join(s.ctx, s.pgPool, first)
	require.NoError(t, err)
	require.True(t, created)

	// Re-joining must not create a second row and must not clobber the
	// existing character selection.
	second := &models.Participation{
		UserID:      user.ID,
		AdventureID: adventure.ID,
		Role:        models.RolePlayer,
	}
	created, err = s.participationRepo.Join(s.ctx, s.pgPool, second)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.CharacterID)
	require.Equal(t, character.ID, *second.CharacterID)

	participants, err := s.participationRepo.ListByAdventure(s.ctx, s.pgPool, adventure.ID)
	require.NoError(t, err)
	require.Len(t, participants, 1)
}

func (s *IntegrationTestSuite) TestSetCharacter_ClearedOnCharacterDelete() {
	t := s.T()
	user := s.createUser("selector")
	adventure := s.createAdventure(user.ID, "Ashfall")
	character := s.createCharacter(user.ID, "Borin")

	_, err := s.participationRepo.Join(s.ctx, s.pgPool, &models.Participation{
		UserID:      user.ID,
		AdventureID: adventure.ID,
		Role:        models.RolePlayer,
	})
	require.NoError(t, err)

	require.NoError(t, s.participationRepo.SetCharacter(s.ctx, s.pgPool, user.ID, adventure.ID, &character.ID))

	participation, err := s.participationRepo.Get(s.ctx, s.pgPool, user.ID, adventure.ID)
	require.NoError(t, err)
	require.NotNil(t, participation.CharacterID)

	// Deleting the character leaves the membership intact but clears
	// the selection (ON DELETE SET NULL).
	require.NoError(t, s.characterRepo.Delete(s.ctx, s.pgPool, character.ID))

	participation, err = s.participationRepo.Get(s.ctx, s.pgPool, user.ID, adventure.ID)
	require.NoError(t, err)
	require.Nil(t, participation.CharacterID)
}

func (s *IntegrationTestSuite) TestAdventureDelete_Cascades() {
	t := s.T()
	user := s.createUser("cascade")
	adventure := s.createAdventure(user.ID, "Doomed Keep")

	_, err := s.participationRepo.Join(s.ctx, s.pgPool, &models.Participation{
		UserID:      user.ID,
		AdventureID: adventure.ID,
		Role:        models.RoleMaster,
	})
	require.NoError(t, err)

	require.NoError(t, s.sessionRepo.Create(s.ctx, s.pgPool, &models.TurnSession{
		AdventureID:   adventure.ID,
		Narration:     "The keep looms.",
		PlayerActions: []string{"approach the gate"},
		Prompt:        "prompt",
		RawResponse:   "{}",
	}))
	require.NoError(t, s.messageRepo.Create(s.ctx, s.pgPool, &models.Message{
		AdventureID: adventure.ID,
		Author:      models.AuthorNarrator,
		Text:        "The keep looms.",
	}))

	require.NoError(t, s.adventureRepo.Delete(s.ctx, s.pgPool, adventure.ID))

	_, err = s.participationRepo.Get(s.ctx, s.pgPool, user.ID, adventure.ID)
	require.ErrorIs(t, err, models.ErrParticipationNotFound)

	_, err = s.sessionRepo.LatestByAdventure(s.ctx, s.pgPool, adventure.ID)
	require.ErrorIs(t, err, models.ErrNotFound)

	messages, err := s.messageRepo.ListByAdventure(s.ctx, s.pgPool, adventure.ID)
	require.NoError(t, err)
	require.Empty(t, messages)
}

func (s *IntegrationTestSuite) TestTurnSessions_Ordering() {
	t := s.T()
	user := s.createUser("chronicler")
	adventure := s.createAdventure(user.ID, "Spire of Hours")

	for i := 1; i <= 3; i++ {
		require.NoError(t, s.sessionRepo.Create(s.ctx, s.pgPool, &models.TurnSession{
			AdventureID:   adventure.ID,
			Narration:     fmt.Sprintf("turn %d", i),
			PlayerActions: []string{fmt.Sprintf("action %d", i)},
			Prompt:        "p",
			RawResponse:   "{}",
		}))
	}

	latest, err := s.sessionRepo.LatestByAdventure(s.ctx, s.pgPool, adventure.ID)
	require.NoError(t, err)
	require.Equal(t, "turn 3", latest.Narration)

	sessions, err := s.sessionRepo.ListByAdventure(s.ctx, s.pgPool, adventure.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	require.Equal(t, "turn 1", sessions[0].Narration)
	require.Equal(t, "turn 3", sessions[2].Narration)
	require.Equal(t, []string{"action 1"}, sessions[0].PlayerActions)
}

func (s *IntegrationTestSuite) TestCharacterAttributes_RoundTrip() {
	t := s.T()
	user := s.createUser("sheets")
	character := s.createCharacter(user.ID, "Mira")

	loaded, err := s.characterRepo.GetByID(s.ctx, s.pgPool, character.ID)
	require.NoError(t, err)
	require.Equal(t, character.Attributes, loaded.Attributes)
	require.True(t, loaded.ActiveInScene)

	loaded.Attributes[models.AttrStrength] = 55
	loaded.ActiveInScene = false
	require.NoError(t, s.characterRepo.Update(s.ctx, s.pgPool, loaded))

	reloaded, err := s.characterRepo.GetByID(s.ctx, s.pgPool, character.ID)
	require.NoError(t, err)
	require.Equal(t, 55, reloaded.Attributes[models.AttrStrength])
	require.False(t, reloaded.ActiveInScene)
}

func (s *IntegrationTestSuite) TestTokenRepository_Lifecycle() {
	t := s.T()
	details := &models.TokenDetails{
		AccessUUID:  "access-uuid-1",
		RefreshUUID: "refresh-uuid-1",
		AtExpires:   time.Now().Add(time.Minute).Unix(),
		RtExpires:   time.Now().Add(time.Hour).Unix(),
	}
	require.NoError(t, s.tokenRepo.SaveTokens(s.ctx, 42, details))

	userID, err := s.tokenRepo.FetchAuth(s.ctx, "access-uuid-1")
	require.NoError(t, err)
	require.Equal(t, int64(42), userID)

	require.NoError(t, s.tokenRepo.DeleteAuth(s.ctx, "access-uuid-1"))
	_, err = s.tokenRepo.FetchAuth(s.ctx, "access-uuid-1")
	require.ErrorIs(t, err, models.ErrTokenNotFound)

	// Revoking an already revoked id stays silent.
	require.NoError(t, s.tokenRepo.DeleteAuth(s.ctx, "access-uuid-1"))
}

func (s *IntegrationTestSuite) TestResetToken_ConsumedOnce() {
	t := s.T()
	require.NoError(t, s.stateRepo.SaveResetToken(s.ctx, "single-use", 7, time.Minute))

	userID, err := s.stateRepo.ConsumeResetToken(s.ctx, "single-use")
	require.NoError(t, err)
	require.Equal(t, int64(7), userID)

	_, err = s.stateRepo.ConsumeResetToken(s.ctx, "single-use")
	require.ErrorIs(t, err, models.ErrResetTokenInvalid)
}
