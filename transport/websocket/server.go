package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
)

const (
	readLimit       = 4096
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	writeWait       = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

type gameUseCase interface {
	CreateGame(ctx context.Context, initiator, invitee string) (uint32, error)
	AcceptGame(ctx context.Context, gameID uint32, caller string) (*entity.Game, error)
	PlayMove(ctx context.Context, gameID uint32, caller string, row, col int) (*entity.Game, entity.MoveResult, error)

	GetGame(ctx context.Context, gameID uint32) (*entity.Game, error)
	GetGameCount(ctx context.Context) (uint32, error)
	GetFreeCells(ctx context.Context, gameID uint32) (entity.FreeCells, error)
	GetCurrentTurn(ctx context.Context, gameID uint32) (uint8, error)
}

type addressValidator interface {
	Validate(address string) error
}

// session - one client connection. Sender is empty until the client connects with an address.
type session struct {
	id     string
	conn   *websocket.Conn
	sender string
}

type handlerFunc func(ctx context.Context, sess *session, req *Request) (Response, error)

type Server struct {
	logger    *slog.Logger
	games     gameUseCase
	validator addressValidator
	upgrader  websocket.Upgrader

	// pingPeriod must stay below pongWait so a live peer always answers in time.
	pingPeriod time.Duration
	pongWait   time.Duration

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, games gameUseCase, validator addressValidator) *Server {
	server := &Server{
		logger:    logger.With("component", "websocket"),
		games:     games,
		validator: validator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		pingPeriod: pingPeriod,
		pongWait:   pongWait,
	}

	server.handlers = map[string]handlerFunc{
		actionConnect:    server.handleConnect,
		actionCreate:     server.handleCreate,
		actionAccept:     server.handleAccept,
		actionPlay:       server.handlePlay,
		actionInfo:       server.handleInfo,
		actionCount:      server.handleCount,
		actionFreeCells:  server.handleFreeCells,
		actionNextPlayer: server.handleNextPlayer,
	}

	return server
}

func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWS(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server and stops it when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
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

// serveWS - upgrades the connection and processes its messages one at a time.
func (that *Server) serveWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		that.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	sess := &session{
		id:   pkg.GenerateSessionID(),
		conn: conn,
	}

	log := that.logger.With("sessionID", sess.id)
	log.Info("WebSocket connection established")

	done := make(chan struct{})

	defer func() {
		close(done)
		_ = conn.Close()
		log.Info("WebSocket connection closed")
	}()

	go that.keepAlive(ctx, sess, done)

	if err = that.handleMessages(ctx, sess); err != nil {
		log.Debug("stopped reading messages", "error", err)
	}
}

func (that *Server) handleMessages(ctx context.Context, sess *session) error {
	log := that.logger.With("method", "handleMessages", "sessionID", sess.id)

	sess.conn.SetReadLimit(readLimit)
	_ = sess.conn.SetReadDeadline(time.Now().Add(that.pongWait))
	sess.conn.SetPongHandler(func(string) error {
		return sess.conn.SetReadDeadline(time.Now().Add(that.pongWait))
	})

	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("unexpected close", "error", err)
			}

			return err
		}

		_ = sess.conn.SetReadDeadline(time.Now().Add(that.pongWait))

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)

			if err = that.send(sess, actionError, Response{Error: "invalid message format"}); err != nil {
				return err
			}

			continue
		}

		if err = that.dispatch(ctx, sess, &message); err != nil {
			return err
		}
	}
}

// keepAlive - pings the peer until the connection is done, and closes it when ctx is canceled.
// Control frames may be written concurrently with the read loop's responses.
func (that *Server) keepAlive(ctx context.Context, sess *session, done <-chan struct{}) {
	log := that.logger.With("method", "keepAlive", "sessionID", sess.id)

	ticker := time.NewTicker(that.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			closeMessage := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = sess.conn.WriteControl(websocket.CloseMessage, closeMessage, time.Now().Add(writeWait))
			_ = sess.conn.Close()

			return
		case <-ticker.C:
			if err := sess.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Debug("failed to send ping", "error", err)
				return
			}
		}
	}
}

// dispatch - runs the handler for the message action and answers on the same action.
func (that *Server) dispatch(ctx context.Context, sess *session, message *Message) error {
	log := that.logger.With("method", "dispatch", "sessionID", sess.id, "action", message.Action)

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Warn("unknown action")
		return that.send(sess, message.Action, Response{Error: "unknown action"})
	}

	var req Request
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &req); err != nil {
			log.Error("failed to unmarshal payload", "error", err)
			return that.send(sess, message.Action, Response{Error: "invalid payload"})
		}
	}

	resp, err := handler(ctx, sess, &req)
	if err != nil {
		log.Info("request rejected", "sender", sess.sender, "error", err)
		resp = Response{Error: err.Error()}
	}

	return that.send(sess, message.Action, resp)
}

func (that *Server) send(sess *session, action string, resp Response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	_ = sess.conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err = sess.conn.WriteJSON(Message{Action: action, Payload: payload}); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}

	return nil
}
