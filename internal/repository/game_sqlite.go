package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type sqliteGames struct {
	db *sqlx.DB
}

// NewSQLiteGameRepository - expects the schema created by storage.NewSQLite.
func NewSQLiteGameRepository(db *sqlx.DB) GameRepository {
	return &sqliteGames{
		db: db,
	}
}

func (that *sqliteGames) Init(ctx context.Context) error {
	query := `INSERT OR IGNORE INTO game_count (id, current_count) VALUES (1, ?)`

	if _, err := that.db.ExecContext(ctx, query, firstGameID); err != nil {
		return fmt.Errorf("failed to init game counter: %w", err)
	}

	return nil
}

func (that *sqliteGames) Create(ctx context.Context, game *entity.Game) (uint32, error) {
	var id uint32

	err := that.inTx(ctx, func(tx *sqlx.Tx) error {
		count, err := selectCount(ctx, tx)
		if err != nil {
			return err
		}

		id = count
		game.ID = id

		gameJSON, err := json.Marshal(game)
		if err != nil {
			return fmt.Errorf("could not marshal game: %w", err)
		}

		if _, err = tx.ExecContext(ctx, `INSERT INTO games (id, data) VALUES (?, ?)`, id, string(gameJSON)); err != nil {
			return fmt.Errorf("failed to insert game: %w", err)
		}

		if _, err = tx.ExecContext(ctx, `UPDATE game_count SET current_count = ? WHERE id = 1`, count+1); err != nil {
			return fmt.Errorf("failed to increment game counter: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create game: %w", err)
	}

	return id, nil
}

func (that *sqliteGames) GetByID(ctx context.Context, id uint32) (*entity.Game, error) {
	return selectGame(ctx, that.db, id)
}

func (that *sqliteGames) Update(ctx context.Context, id uint32, fn func(game *entity.Game) error) (*entity.Game, error) {
	var game *entity.Game

	err := that.inTx(ctx, func(tx *sqlx.Tx) error {
		existingGame, err := selectGame(ctx, tx, id)
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

		if _, err = tx.ExecContext(ctx, `UPDATE games SET data = ? WHERE id = ?`, string(gameJSON), id); err != nil {
			return fmt.Errorf("failed to update game: %w", err)
		}

		game = existingGame

		return nil
	})
	if err != nil {
		return nil, err
	}

	return game, nil
}

func (that *sqliteGames) Count(ctx context.Context) (uint32, error) {
	return selectCount(ctx, that.db)
}

func (that *sqliteGames) Close() error {
	return that.db.Close()
}

func (that *sqliteGames) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := that.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func selectCount(ctx context.Context, q sqlx.QueryerContext) (uint32, error) {
	var count uint32

	err := sqlx.GetContext(ctx, q, &count, `SELECT current_count FROM game_count WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrCounterNotInitialized
	}

	if err != nil {
		return 0, fmt.Errorf("failed to get game counter: %w", err)
	}

	return count, nil
}

func selectGame(ctx context.Context, q sqlx.QueryerContext, id uint32) (*entity.Game, error) {
	var data string

	err := sqlx.GetContext(ctx, q, &data, `SELECT data FROM games WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", apperror.ErrGameNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	var existingGame entity.Game
	if err = json.Unmarshal([]byte(data), &existingGame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}
