package apperror

import "errors"

var (
	ErrGameNotFound          = errors.New("game not found")
	ErrInvalidAddress        = errors.New("invalid address format")
	ErrGameEndedOrUnaccepted = errors.New("game has ended or has not been accepted")
	ErrNotAParticipant       = errors.New("caller is not a participant of the game")
	ErrOutOfRange            = errors.New("cell coordinate is out of range")
	ErrSelfInvite            = errors.New("a player cannot invite themselves")

	// returned only when the matching strict rule is enabled.
	ErrCellOccupied        = errors.New("cell is already occupied")
	ErrNotInvitee          = errors.New("only the invitee can accept the game")
	ErrNotYourTurn         = errors.New("it's not your turn")
	ErrGameAlreadyAccepted = errors.New("game is already accepted")
)
