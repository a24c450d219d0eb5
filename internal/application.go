package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-engine/internal/address"
	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-engine/transport/rest"
	"github.com/rocketscienceinc/tictactoe-engine/transport/websocket"
)

var (
	ErrAddrNotFound     = errors.New("redis host is empty")
	ErrSQLitePathNotSet = errors.New("sqlite path is empty")
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	gameRepo, err := openGameRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = gameRepo.Close(); err != nil {
			log.Error("could not close game storage", "error", err)
		}
	}()

	if err = gameRepo.Init(ctx); err != nil {
		return fmt.Errorf("could not initialize game storage: %w", err)
	}

	validator := address.NewValidator()
	gameManager := usecase.NewGameManager(logger, conf.Rules.EntityRules(), validator, gameRepo)

	log.Info("Game storage ready", "driver", conf.Storage.Driver)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.New(logger, gameManager).Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameManager, validator)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

func openGameRepository(ctx context.Context, conf *config.Config) (repository.GameRepository, error) {
	switch conf.Storage.Driver {
	case config.DriverSQLite:
		if conf.SQLite.Path == "" {
			return nil, ErrSQLitePathNotSet
		}

		db, err := storage.NewSQLite(ctx, conf.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("could not open sqlite storage: %w", err)
		}

		return repository.NewSQLiteGameRepository(db), nil
	default:
		if conf.Redis.Host == "" {
			return nil, ErrAddrNotFound
		}

		client, err := storage.NewRedis(ctx, conf.Redis.GetRedisAddr(), conf.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repository.NewGameRepository(client), nil
	}
}
