package repository

import (
	"context"
	"errors"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

var (
	ErrCounterNotInitialized = errors.New("game counter is not initialized")
	ErrTooManyRetries        = errors.New("too many concurrent updates")
)

// firstGameID - the counter value right after initialization.
const firstGameID uint32 = 1

// GameRepository - the game directory: a counter and games keyed by id.
type GameRepository interface {
	// Init sets the counter to 1 unless it already exists.
	Init(ctx context.Context) error
	// Create stores the game under the current counter value and increments the counter.
	Create(ctx context.Context, game *entity.Game) (uint32, error)
	GetByID(ctx context.Context, id uint32) (*entity.Game, error)
	// Update loads the game, applies fn and saves the result as one atomic step.
	// Nothing is saved when fn returns an error.
	Update(ctx context.Context, id uint32, fn func(game *entity.Game) error) (*entity.Game, error)
	Count(ctx context.Context) (uint32, error)
	Close() error
}
