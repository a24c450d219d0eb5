package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	actionConnect    = "connect"
	actionCreate     = "game:create"
	actionAccept     = "game:accept"
	actionPlay       = "game:play"
	actionInfo       = "game:info"
	actionCount      = "game:count"
	actionFreeCells  = "game:free_cells"
	actionNextPlayer = "game:next_player"
	actionError      = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Request struct {
	Address string `json:"address,omitempty"`
	Invitee string `json:"invitee,omitempty"`
	GameID  uint32 `json:"game_id,omitempty"`
	// Cell is [row, col].
	Cell []int `json:"cell,omitempty"`
}

type Response struct {
	Error       string            `json:"error,omitempty"`
	Address     string            `json:"address,omitempty"`
	GameID      uint32            `json:"game_id,omitempty"`
	Game        *entity.Game      `json:"game,omitempty"`
	WinningLine *entity.Line      `json:"winning_line,omitempty"`
	Count       *uint32           `json:"count,omitempty"`
	FreeCells   *entity.FreeCells `json:"free_cells,omitempty"`
	PlayerTurn  *uint8            `json:"player_turn,omitempty"`
}
