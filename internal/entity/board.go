package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const BoardSize = 3

type ClaimResult int

const (
	ClaimApplied ClaimResult = iota
	ClaimOccupied
)

type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Cell struct {
	Symbol Symbol `json:"choice"`
}

// claim - writes the symbol only into an empty cell.
func (that *Cell) claim(symbol Symbol) ClaimResult {
	if that.Symbol != SymbolNone {
		return ClaimOccupied
	}

	that.Symbol = symbol

	return ClaimApplied
}

// Board - 3x3 grid addressed as [row][col].
type Board struct {
	Cells [BoardSize][BoardSize]Cell `json:"cells"`
}

func validateCoord(row, col int) error {
	if row < 0 || row >= BoardSize || col < 0 || col >= BoardSize {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrOutOfRange, row, col)
	}

	return nil
}

func (that *Board) Get(row, col int) (Symbol, error) {
	if err := validateCoord(row, col); err != nil {
		return SymbolNone, err
	}

	return that.Cells[row][col].Symbol, nil
}

// Claim - places the symbol on an empty cell. An occupied cell is left as is and reported as ClaimOccupied.
func (that *Board) Claim(row, col int, symbol Symbol) (ClaimResult, error) {
	if err := validateCoord(row, col); err != nil {
		return ClaimOccupied, err
	}

	return that.Cells[row][col].claim(symbol), nil
}

// EmptyCells - lists every empty coordinate in row-major order.
func (that *Board) EmptyCells() []Coord {
	empty := make([]Coord, 0, BoardSize*BoardSize)

	for row := range BoardSize {
		for col := range BoardSize {
			if that.Cells[row][col].Symbol == SymbolNone {
				empty = append(empty, Coord{Row: row, Col: col})
			}
		}
	}

	return empty
}

func (that *Board) IsFull() bool {
	return len(that.EmptyCells()) == 0
}

// FreeCells - empty coordinates grouped by row.
type FreeCells struct {
	Column0 []Coord `json:"column_0"`
	Column1 []Coord `json:"column_1"`
	Column2 []Coord `json:"column_2"`
}

func (that *Board) FreeCells() FreeCells {
	free := FreeCells{
		Column0: []Coord{},
		Column1: []Coord{},
		Column2: []Coord{},
	}

	for _, coord := range that.EmptyCells() {
		switch coord.Row {
		case 0:
			free.Column0 = append(free.Column0, coord)
		case 1:
			free.Column1 = append(free.Column1, coord)
		case 2:
			free.Column2 = append(free.Column2, coord)
		}
	}

	return free
}
