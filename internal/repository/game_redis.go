package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	countKey      = "game_count"
	gameKeyPrefix = "game:"

	maxRetries  = 10
	baseBackoff = time.Millisecond
)

// createGameScript stores the game under the current counter value and increments the counter
// in one step. The id placeholder written by json.Marshal is replaced with the allocated id.
var createGameScript = redis.NewScript(`
local id = redis.call('GET', KEYS[1])
if not id then
	return false
end
local data = string.gsub(ARGV[2], '^{"id":0,', '{"id":' .. id .. ',', 1)
redis.call('SET', ARGV[1] .. id, data)
redis.call('INCR', KEYS[1])
return tonumber(id)
`)

type redisGames struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &redisGames{
		client: client,
	}
}

func gameKey(id uint32) string {
	return gameKeyPrefix + strconv.FormatUint(uint64(id), 10)
}

func (that *redisGames) Init(ctx context.Context) error {
	if err := that.client.SetNX(ctx, countKey, firstGameID, 0).Err(); err != nil {
		return fmt.Errorf("failed to init game counter: %w", err)
	}

	return nil
}

func (that *redisGames) Create(ctx context.Context, game *entity.Game) (uint32, error) {
	game.ID = 0

	gameJSON, err := json.Marshal(game)
	if err != nil {
		return 0, fmt.Errorf("could not marshal game: %w", err)
	}

	id, err := createGameScript.Run(ctx, that.client, []string{countKey}, gameKeyPrefix, gameJSON).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("failed to create game: %w", ErrCounterNotInitialized)
	}

	if err != nil {
		return 0, fmt.Errorf("failed to create game: %w", err)
	}

	game.ID = uint32(id)

	return game.ID, nil
}

func (that *redisGames) GetByID(ctx context.Context, id uint32) (*entity.Game, error) {
	return loadGame(ctx, that.client, id)
}

func (that *redisGames) Update(ctx context.Context, id uint32, fn func(game *entity.Game) error) (*entity.Game, error) {
	var game *entity.Game

	txf := func(tx *redis.Tx) error {
		existingGame, err := loadGame(ctx, tx, id)
		if err != nil {
			return err
		}

		if err = fn(existingGame); err != nil {
			return err
		}

		gameJSON, err := json.Marshal(existingGame)
		if err != nil {
			return fmt.Errorf("could not marshal game: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, gameKey(id), gameJSON, 0)
			return nil
		})
		if err != nil {
			return err
		}

		game = existingGame

		return nil
	}

	if err := that.watch(ctx, txf, gameKey(id)); err != nil {
		return nil, err
	}

	return game, nil
}

func (that *redisGames) Count(ctx context.Context) (uint32, error) {
	count, err := that.client.Get(ctx, countKey).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, ErrCounterNotInitialized
	}

	if err != nil {
		return 0, fmt.Errorf("failed to get game counter: %w", err)
	}

	return uint32(count), nil
}

func (that *redisGames) Close() error {
	return that.client.Close()
}

// watch - runs txf as an optimistic transaction, retrying with jittered backoff when a watched key
// changes underneath.
func (that *redisGames) watch(ctx context.Context, txf func(tx *redis.Tx) error, keys ...string) error {
	for attempt := range maxRetries {
		err := that.client.Watch(ctx, txf, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff(attempt)):
		}
	}

	return ErrTooManyRetries
}

func backoff(attempt int) time.Duration {
	window := baseBackoff << attempt

	return window/2 + rand.N(window/2+1)
}

// getter - the part of *redis.Client and *redis.Tx used to read a game.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func loadGame(ctx context.Context, client getter, id uint32) (*entity.Game, error) {
	response, err := client.Get(ctx, gameKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: id %d", apperror.ErrGameNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	var existingGame entity.Game
	if err = json.Unmarshal(response, &existingGame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}
