package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
)

var errRejected = errors.New("rejected")

// forEachRepository runs fn against every storage backend.
func forEachRepository(t *testing.T, fn func(t *testing.T, ctx context.Context, repo GameRepository)) {
	t.Helper()

	t.Run("redis", func(t *testing.T) {
		ctx, st := suite.New(t)
		fn(t, ctx, NewGameRepository(st.Storage))
	})

	t.Run("sqlite", func(t *testing.T) {
		ctx, st := suite.New(t)
		fn(t, ctx, NewSQLiteGameRepository(st.SQLite))
	})
}

func TestGameRepository_Init(t *testing.T) {
	forEachRepository(t, func(t *testing.T, ctx context.Context, repo GameRepository) {
		// Given: an empty store
		_, err := repo.Count(ctx)
		require.ErrorIs(t, err, ErrCounterNotInitialized)

		// When: Init is called twice
		require.NoError(t, repo.Init(ctx))
		require.NoError(t, repo.Init(ctx))

		// Then: the counter starts at 1
		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint32(1), count)
	})
}

func TestGameRepository_Create(t *testing.T) {
	t.Run("Assigns sequential ids starting at 1", func(t *testing.T) {
		forEachRepository(t, func(t *testing.T, ctx context.Context, repo GameRepository) {
			require.NoError(t, repo.Init(ctx))

			// When: three games are created
			for expected := uint32(1); expected <= 3; expected++ {
				game := entity.NewGame("alice", "bob")
				id, err := repo.Create(ctx, game)

				// Then: each gets the next id
				require.NoError(t, err)
				assert.Equal(t, expected, id)
				assert.Equal(t, expected, game.ID)
			}

			// And: the counter moved past the last id
			count, err := repo.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, uint32(4), count)
		})
	})

	t.Run("Fails without an initialized counter", func(t *testing.T) {
		forEachRepository(t, func(t *testing.T, ctx context.Context, repo GameRepository) {
			_, err := repo.Create(ctx, entity.NewGame("alice", "bob"))

			require.ErrorIs(t, err, ErrCounterNotInitialized)
		})
	})
}

func TestGameRepository_GetByID(t *testing.T) {
	t.Run("Returns the stored game", func(t *testing.T) {
		forEachRepository(t, func(t *testing.T, ctx context.Context, repo GameRepository) {
			// Given: a stored game with a claimed cell
			require.NoError(t, repo.Init(ctx))

			game := entity.NewGame("alice", "bob")
			_, err := game.Board.Claim(2, 1, entity.SymbolO)
			require.NoError(t, err)

			id, err := repo.Create(ctx, game)
			require.NoError(t, err)

			// When: it is loaded by id
			retrievedGame, err := repo.GetByID(ctx, id)

			// Then: it matches the saved game
			require.NoError(t, err)
			assert.Equal(t, game, retrievedGame)
		})
	})

	t.Run("Returns ErrGameNotFound for unknown ids", func(t *testing.T) {
		forEachRepository(t, func(t *testing.T, ctx context.Context, repo GameRepository) {
			retrievedGame, err := repo.GetByID(ctx, 9999)

			require.ErrorIs(t, err, apperror.ErrGameNotFound)
			assert.Nil(t, retrievedGame)
		})
	})
}

func TestGameRepository_Update(t *testing.T) {
	t.Run("Saves the mutated game", func(t *testing.T) {
		forEachRepository(t, func(t *testing.T, ctx context.Context, repo GameRepository) {
			// Given: a stored game
			require.NoError(t, repo.Init(ctx))
			id, err := repo.Create(ctx, entity.NewGame("alice", "bob"))
			require.NoError(t, err)

			// When: it is accepted inside Update
			updated, err := repo.Update(ctx, id, func(game *entity.Game) error {
				_, err := game.Accept("bob", entity.Rules{})
				return err
			})

			// Then: the returned and stored games are progressing
			require.NoError(t, err)
			assert.Equal(t, entity.PhaseProgressing, updated.Phase)

			stored, err := repo.GetByID(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, updated, stored)
		})
	})

	t.Run("Nothing is saved when fn fails", func(t *testing.T) {
		forEachRepository(t, func(t *testing.T, ctx context.Context, repo GameRepository) {
			require.NoError(t, repo.Init(ctx))
			id, err := repo.Create(ctx, entity.NewGame("alice", "bob"))
			require.NoError(t, err)

			_, err = repo.Update(ctx, id, func(game *entity.Game) error {
				game.Phase = entity.PhaseEnded
				return errRejected
			})

			require.ErrorIs(t, err, errRejected)

			stored, err := repo.GetByID(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, entity.PhaseInstantiated, stored.Phase)
		})
	})

	t.Run("Returns ErrGameNotFound for unknown ids", func(t *testing.T) {
		forEachRepository(t, func(t *testing.T, ctx context.Context, repo GameRepository) {
			called := false

			_, err := repo.Update(ctx, 42, func(*entity.Game) error {
				called = true
				return nil
			})

			require.ErrorIs(t, err, apperror.ErrGameNotFound)
			assert.False(t, called)
		})
	})
}

func TestGameRepository_Concurrency(t *testing.T) {
	t.Run("Parallel creates get unique ids", func(t *testing.T) {
		forEachRepository(t, func(t *testing.T, ctx context.Context, repo GameRepository) {
			require.NoError(t, repo.Init(ctx))

			const creators = 30

			// When: games are created from many goroutines at once
			var wg sync.WaitGroup

			ids := make([]uint32, creators)
			errs := make([]error, creators)

			for i := range creators {
				wg.Add(1)

				go func() {
					defer wg.Done()
					ids[i], errs[i] = repo.Create(ctx, entity.NewGame("alice", "bob"))
				}()
			}

			wg.Wait()

			// Then: every create succeeded with its own id
			seen := make(map[uint32]struct{}, creators)
			for i := range creators {
				require.NoError(t, errs[i])
				assert.NotContains(t, seen, ids[i])
				seen[ids[i]] = struct{}{}

				stored, err := repo.GetByID(ctx, ids[i])
				require.NoError(t, err)
				assert.Equal(t, ids[i], stored.ID)
			}

			// And: the counter moved once per game
			count, err := repo.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, uint32(creators+1), count)
		})
	})

	t.Run("Parallel updates of one game are not lost", func(t *testing.T) {
		forEachRepository(t, func(t *testing.T, ctx context.Context, repo GameRepository) {
			require.NoError(t, repo.Init(ctx))
			id, err := repo.Create(ctx, entity.NewGame("alice", "bob"))
			require.NoError(t, err)

			// When: eight goroutines each claim a different cell of the same game
			var wg sync.WaitGroup

			errs := make([]error, 8)

			for i := range 8 {
				wg.Add(1)

				go func() {
					defer wg.Done()
					_, errs[i] = repo.Update(ctx, id, func(game *entity.Game) error {
						_, err := game.Board.Claim(i/entity.BoardSize, i%entity.BoardSize, entity.SymbolX)
						return err
					})
				}()
			}

			wg.Wait()

			for _, err := range errs {
				require.NoError(t, err)
			}

			// Then: every claim reached the stored board
			stored, err := repo.GetByID(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, []entity.Coord{{Row: 2, Col: 2}}, stored.Board.EmptyCells())
		})
	})
}

func TestBackoff(t *testing.T) {
	for attempt := range maxRetries {
		window := baseBackoff << attempt

		delay := backoff(attempt)

		assert.GreaterOrEqual(t, delay, window/2)
		assert.LessOrEqual(t, delay, window)
	}
}
