package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type gameQueries interface {
	GetGame(ctx context.Context, gameID uint32) (*entity.Game, error)
	GetGameCount(ctx context.Context) (uint32, error)
	GetFreeCells(ctx context.Context, gameID uint32) (entity.FreeCells, error)
	GetCurrentTurn(ctx context.Context, gameID uint32) (uint8, error)
}

// Server - read-only HTTP view over the games.
type Server struct {
	logger *slog.Logger
	games  gameQueries
}

func New(logger *slog.Logger, games gameQueries) *Server {
	return &Server{
		logger: logger.With("component", "rest"),
		games:  games,
	}
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", that.pingHandler)
	mux.HandleFunc("GET /games/count", that.gameCountHandler)
	mux.HandleFunc("GET /games/{id}", that.gameHandler)
	mux.HandleFunc("GET /games/{id}/free-cells", that.freeCellsHandler)
	mux.HandleFunc("GET /games/{id}/next-player", that.nextPlayerHandler)

	return mux
}

// Start - serves HTTP until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
