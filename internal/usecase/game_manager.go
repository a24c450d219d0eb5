package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type gameRepo interface {
	Create(ctx context.Context, game *entity.Game) (uint32, error)
	GetByID(ctx context.Context, id uint32) (*entity.Game, error)
	Update(ctx context.Context, id uint32, fn func(game *entity.Game) error) (*entity.Game, error)
	Count(ctx context.Context) (uint32, error)
}

type addressValidator interface {
	Validate(address string) error
}

// GameManager - runs the game lifecycle against the game directory.
// Every transition is a single load, mutate, save step.
type GameManager struct {
	logger *slog.Logger
	rules  entity.Rules

	validator addressValidator
	gameRepo  gameRepo
}

func NewGameManager(logger *slog.Logger, rules entity.Rules, validator addressValidator, gameRepo gameRepo) *GameManager {
	return &GameManager{
		logger: logger.With("component", "gameManager"),
		rules:  rules,

		validator: validator,
		gameRepo:  gameRepo,
	}
}

// CreateGame - starts a game between initiator and invitee and returns its id.
func (that *GameManager) CreateGame(ctx context.Context, initiator, invitee string) (uint32, error) {
	log := that.logger.With("method", "CreateGame")

	if err := that.validator.Validate(invitee); err != nil {
		return 0, fmt.Errorf("failed to validate invitee: %w", err)
	}

	if initiator == invitee {
		return 0, fmt.Errorf("%w: %s", apperror.ErrSelfInvite, initiator)
	}

	id, err := that.gameRepo.Create(ctx, entity.NewGame(initiator, invitee))
	if err != nil {
		return 0, fmt.Errorf("failed to create game: %w", err)
	}

	log.Info("game created", "gameID", id, "initiator", initiator, "invitee", invitee)

	return id, nil
}

// AcceptGame - confirms the invitation on behalf of caller.
func (that *GameManager) AcceptGame(ctx context.Context, gameID uint32, caller string) (*entity.Game, error) {
	log := that.logger.With("method", "AcceptGame", "gameID", gameID)

	var changed bool

	game, err := that.gameRepo.Update(ctx, gameID, func(game *entity.Game) error {
		var err error
		changed, err = game.Accept(caller, that.rules)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to accept game: %w", err)
	}

	if changed {
		log.Info("game accepted", "invitee", caller)
	} else {
		log.Debug("accept ignored", "caller", caller, "status", game.Phase)
	}

	return game, nil
}

// PlayMove - places caller's symbol on (row, col) and settles the game.
func (that *GameManager) PlayMove(ctx context.Context, gameID uint32, caller string, row, col int) (*entity.Game, entity.MoveResult, error) {
	log := that.logger.With("method", "PlayMove", "gameID", gameID)

	var result entity.MoveResult

	game, err := that.gameRepo.Update(ctx, gameID, func(game *entity.Game) error {
		var err error
		result, err = game.Play(caller, row, col, that.rules)
		return err
	})
	if err != nil {
		return nil, entity.MoveResult{}, fmt.Errorf("failed to make move: %w", err)
	}

	if result.Claim == entity.ClaimOccupied {
		log.Warn("move onto an occupied cell dropped", "caller", caller, "row", row, "col", col)
	}

	if game.IsEnded() {
		log.Info("game ended", "outcome", game.Outcome)
	}

	return game, result, nil
}

func (that *GameManager) GetGame(ctx context.Context, gameID uint32) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// GetGameCount - the counter value, which is also the id of the next game.
func (that *GameManager) GetGameCount(ctx context.Context) (uint32, error) {
	count, err := that.gameRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get game count: %w", err)
	}

	return count, nil
}

func (that *GameManager) GetFreeCells(ctx context.Context, gameID uint32) (entity.FreeCells, error) {
	game, err := that.GetGame(ctx, gameID)
	if err != nil {
		return entity.FreeCells{}, err
	}

	return game.FreeCells(), nil
}

func (that *GameManager) GetCurrentTurn(ctx context.Context, gameID uint32) (uint8, error) {
	game, err := that.GetGame(ctx, gameID)
	if err != nil {
		return 0, err
	}

	return game.PlayerTurn, nil
}
