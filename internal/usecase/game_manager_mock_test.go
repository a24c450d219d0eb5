package usecase

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

var errRedisDown = errors.New("redis down")

type mockGameRepo struct {
	mock.Mock
}

func (that *mockGameRepo) Create(ctx context.Context, game *entity.Game) (uint32, error) {
	args := that.Called(ctx, game)
	return args.Get(0).(uint32), args.Error(1)
}

func (that *mockGameRepo) GetByID(ctx context.Context, id uint32) (*entity.Game, error) {
	args := that.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameRepo) Update(ctx context.Context, id uint32, fn func(game *entity.Game) error) (*entity.Game, error) {
	args := that.Called(ctx, id, fn)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameRepo) Count(ctx context.Context) (uint32, error) {
	args := that.Called(ctx)
	return args.Get(0).(uint32), args.Error(1)
}

type mockValidator struct {
	mock.Mock
}

func (that *mockValidator) Validate(address string) error {
	return that.Called(address).Error(0)
}

func newMockedManager(t *testing.T) (*GameManager, *mockValidator, *mockGameRepo) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	validator := &mockValidator{}
	gameRepo := &mockGameRepo{}

	t.Cleanup(func() {
		validator.AssertExpectations(t)
		gameRepo.AssertExpectations(t)
	})

	return NewGameManager(logger, entity.Rules{}, validator, gameRepo), validator, gameRepo
}

func TestGameManager_CreateGame_Mocked(t *testing.T) {
	ctx := context.Background()

	t.Run("Invalid invitee never reaches the repository", func(t *testing.T) {
		// Given: a validator that rejects the invitee
		manager, validator, gameRepo := newMockedManager(t)
		validator.On("Validate", "bad").Return(apperror.ErrInvalidAddress).Once()

		// When: creating a game
		_, err := manager.CreateGame(ctx, alice, "bad")

		// Then: the error is returned and Create is not called
		require.ErrorIs(t, err, apperror.ErrInvalidAddress)
		gameRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Repository failure is returned", func(t *testing.T) {
		manager, validator, gameRepo := newMockedManager(t)
		validator.On("Validate", bob).Return(nil).Once()
		gameRepo.On("Create", ctx, mock.AnythingOfType("*entity.Game")).Return(uint32(0), errRedisDown).Once()

		_, err := manager.CreateGame(ctx, alice, bob)

		require.ErrorIs(t, err, errRedisDown)
	})

	t.Run("New game is passed in its initial state", func(t *testing.T) {
		manager, validator, gameRepo := newMockedManager(t)
		validator.On("Validate", bob).Return(nil).Once()
		gameRepo.On("Create", ctx, mock.MatchedBy(func(game *entity.Game) bool {
			return game.IsInstantiated() &&
				game.Initiator() == alice &&
				game.Invitee() == bob &&
				game.Outcome == entity.OutcomeNone &&
				len(game.Board.EmptyCells()) == 9
		})).Return(uint32(7), nil).Once()

		id, err := manager.CreateGame(ctx, alice, bob)

		require.NoError(t, err)
		assert.Equal(t, uint32(7), id)
	})
}

func TestGameManager_PlayMove_Mocked(t *testing.T) {
	ctx := context.Background()

	t.Run("Repository failure is returned", func(t *testing.T) {
		manager, _, gameRepo := newMockedManager(t)
		gameRepo.On("Update", ctx, uint32(1), mock.Anything).Return(nil, errRedisDown).Once()

		game, _, err := manager.PlayMove(ctx, 1, bob, 0, 0)

		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, game)
	})

	t.Run("Count failure is returned", func(t *testing.T) {
		manager, _, gameRepo := newMockedManager(t)
		gameRepo.On("Count", ctx).Return(uint32(0), errRedisDown).Once()

		_, err := manager.GetGameCount(ctx)

		require.ErrorIs(t, err, errRedisDown)
	})
}
