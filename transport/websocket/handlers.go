package websocket

import (
	"context"
	"errors"
	"fmt"
)

var (
	errNotConnected  = errors.New("connect with an address first")
	errMissingGameID = errors.New("game_id is required")
	errMissingCell   = errors.New("cell is required")
	errInvalidCell   = errors.New("cell must be exactly [row, col]")
)

func (that *Server) handleConnect(_ context.Context, sess *session, req *Request) (Response, error) {
	if err := that.validator.Validate(req.Address); err != nil {
		return Response{}, fmt.Errorf("failed to connect: %w", err)
	}

	sess.sender = req.Address
	that.logger.Info("player connected", "sessionID", sess.id, "address", sess.sender)

	return Response{Address: sess.sender}, nil
}

func (that *Server) handleCreate(ctx context.Context, sess *session, req *Request) (Response, error) {
	if sess.sender == "" {
		return Response{}, errNotConnected
	}

	gameID, err := that.games.CreateGame(ctx, sess.sender, req.Invitee)
	if err != nil {
		return Response{}, err
	}

	return Response{GameID: gameID}, nil
}

func (that *Server) handleAccept(ctx context.Context, sess *session, req *Request) (Response, error) {
	if sess.sender == "" {
		return Response{}, errNotConnected
	}

	if req.GameID == 0 {
		return Response{}, errMissingGameID
	}

	game, err := that.games.AcceptGame(ctx, req.GameID, sess.sender)
	if err != nil {
		return Response{}, err
	}

	return Response{GameID: game.ID, Game: game}, nil
}

func (that *Server) handlePlay(ctx context.Context, sess *session, req *Request) (Response, error) {
	if sess.sender == "" {
		return Response{}, errNotConnected
	}

	if req.GameID == 0 {
		return Response{}, errMissingGameID
	}

	if req.Cell == nil {
		return Response{}, errMissingCell
	}

	if len(req.Cell) != 2 {
		return Response{}, errInvalidCell
	}

	game, result, err := that.games.PlayMove(ctx, req.GameID, sess.sender, req.Cell[0], req.Cell[1])
	if err != nil {
		return Response{}, err
	}

	return Response{GameID: game.ID, Game: game, WinningLine: result.WinnerLine}, nil
}

func (that *Server) handleInfo(ctx context.Context, _ *session, req *Request) (Response, error) {
	if req.GameID == 0 {
		return Response{}, errMissingGameID
	}

	game, err := that.games.GetGame(ctx, req.GameID)
	if err != nil {
		return Response{}, err
	}

	return Response{GameID: game.ID, Game: game}, nil
}

func (that *Server) handleCount(ctx context.Context, _ *session, _ *Request) (Response, error) {
	count, err := that.games.GetGameCount(ctx)
	if err != nil {
		return Response{}, err
	}

	return Response{Count: &count}, nil
}

func (that *Server) handleFreeCells(ctx context.Context, _ *session, req *Request) (Response, error) {
	if req.GameID == 0 {
		return Response{}, errMissingGameID
	}

	freeCells, err := that.games.GetFreeCells(ctx, req.GameID)
	if err != nil {
		return Response{}, err
	}

	return Response{GameID: req.GameID, FreeCells: &freeCells}, nil
}

func (that *Server) handleNextPlayer(ctx context.Context, _ *session, req *Request) (Response, error) {
	if req.GameID == 0 {
		return Response{}, errMissingGameID
	}

	turn, err := that.games.GetCurrentTurn(ctx, req.GameID)
	if err != nil {
		return Response{}, err
	}

	return Response{GameID: req.GameID, PlayerTurn: &turn}, nil
}
