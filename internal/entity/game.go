package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

type Phase string

const (
	PhaseInstantiated Phase = "INSTANTIATED"
	PhaseProgressing  Phase = "PROGRESSING"
	PhaseEnded        Phase = "ENDED"
)

type Outcome string

const (
	OutcomePlayerOne Outcome = "PLAYERONE"
	OutcomePlayerTwo Outcome = "PLAYERTWO"
	OutcomeDraw      Outcome = "DRAW"
	OutcomeNone      Outcome = "NONE"
)

const (
	InitiatorIndex uint8 = 0
	InviteeIndex   uint8 = 1
)

// Rules - switches between the permissive legacy behavior and explicit rejections.
type Rules struct {
	// StrictMoves rejects a move onto an occupied cell instead of dropping it.
	StrictMoves bool
	// StrictAccept rejects an accept by anyone but the invitee, or of a game that is already accepted.
	StrictAccept bool
	// EnforceTurnOrder rejects a move by the participant whose turn it is not.
	EnforceTurnOrder bool
}

type Game struct {
	ID         uint32    `json:"id"`
	Phase      Phase     `json:"status"`
	PlayerTurn uint8     `json:"player_turn"`
	Players    [2]string `json:"players"`
	Board      Board     `json:"board"`
	Outcome    Outcome   `json:"game_result"`
}

// MoveResult - what a single Play call did to the game.
type MoveResult struct {
	Claim      ClaimResult `json:"-"`
	WinnerLine *Line       `json:"winning_line,omitempty"`
}

func NewGame(initiator, invitee string) *Game {
	return &Game{
		Phase:      PhaseInstantiated,
		PlayerTurn: InitiatorIndex,
		Players:    [2]string{initiator, invitee},
		Outcome:    OutcomeNone,
	}
}

func (that *Game) Initiator() string {
	return that.Players[InitiatorIndex]
}

func (that *Game) Invitee() string {
	return that.Players[InviteeIndex]
}

func (that *Game) IsInstantiated() bool {
	return that.Phase == PhaseInstantiated
}

func (that *Game) IsProgressing() bool {
	return that.Phase == PhaseProgressing
}

func (that *Game) IsEnded() bool {
	return that.Phase == PhaseEnded
}

// ParticipantIndex - 0 for the initiator, 1 for the invitee.
func (that *Game) ParticipantIndex(caller string) (uint8, error) {
	switch caller {
	case that.Initiator():
		return InitiatorIndex, nil
	case that.Invitee():
		return InviteeIndex, nil
	default:
		return 0, fmt.Errorf("%w: %s", apperror.ErrNotAParticipant, caller)
	}
}

func (that *Game) SymbolOf(caller string) (Symbol, error) {
	index, err := that.ParticipantIndex(caller)
	if err != nil {
		return SymbolNone, err
	}

	initiatorSymbol, inviteeSymbol := AssignSymbol(that.Initiator(), that.Invitee())
	if index == InitiatorIndex {
		return initiatorSymbol, nil
	}

	return inviteeSymbol, nil
}

// Accept - moves the game to PROGRESSING when called by the invitee. The invitee moves first.
// It reports whether the game changed.
func (that *Game) Accept(caller string, rules Rules) (bool, error) {
	if caller != that.Invitee() {
		if rules.StrictAccept {
			return false, fmt.Errorf("%w: %s", apperror.ErrNotInvitee, caller)
		}

		return false, nil
	}

	if !that.IsInstantiated() {
		if rules.StrictAccept {
			return false, fmt.Errorf("%w: status %s", apperror.ErrGameAlreadyAccepted, that.Phase)
		}

		return false, nil
	}

	that.Phase = PhaseProgressing
	that.PlayerTurn = InviteeIndex
	that.Outcome = OutcomeNone

	return true, nil
}

// Play - applies a move by caller and settles the game state.
// Unless StrictMoves is set, a move onto an occupied cell is dropped and the game still advances.
func (that *Game) Play(caller string, row, col int, rules Rules) (MoveResult, error) {
	if !that.IsProgressing() {
		return MoveResult{}, fmt.Errorf("%w: status %s", apperror.ErrGameEndedOrUnaccepted, that.Phase)
	}

	index, err := that.ParticipantIndex(caller)
	if err != nil {
		return MoveResult{}, err
	}

	if rules.EnforceTurnOrder && index != that.PlayerTurn {
		return MoveResult{}, apperror.ErrNotYourTurn
	}

	symbol, err := that.SymbolOf(caller)
	if err != nil {
		return MoveResult{}, err
	}

	if rules.StrictMoves {
		if current, err := that.Board.Get(row, col); err != nil {
			return MoveResult{}, err
		} else if current != SymbolNone {
			return MoveResult{}, fmt.Errorf("%w: (%d, %d)", apperror.ErrCellOccupied, row, col)
		}
	}

	claim, err := that.Board.Claim(row, col, symbol)
	if err != nil {
		return MoveResult{}, err
	}

	result := MoveResult{Claim: claim}

	if line, won := Evaluate(&that.Board, symbol); won {
		that.Phase = PhaseEnded
		that.Outcome = outcomeFor(index)
		result.WinnerLine = &line

		return result, nil
	}

	if IsDraw(&that.Board) {
		that.Phase = PhaseEnded
		that.Outcome = OutcomeDraw

		return result, nil
	}

	that.PlayerTurn = 1 - that.PlayerTurn

	return result, nil
}

func outcomeFor(index uint8) Outcome {
	if index == InitiatorIndex {
		return OutcomePlayerOne
	}

	return OutcomePlayerTwo
}

func (that *Game) FreeCells() FreeCells {
	return that.Board.FreeCells()
}
