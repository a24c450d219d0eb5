package entity

// Line - one of the eight runs that end the game when fully held by one symbol.
type Line struct {
	Index int      `json:"index"`
	Cells [3]Coord `json:"cells"`
}

// Lines in canonical order: rows, columns, then the two diagonals.
var Lines = [8]Line{
	{Index: 1, Cells: [3]Coord{{0, 0}, {0, 1}, {0, 2}}},
	{Index: 2, Cells: [3]Coord{{1, 0}, {1, 1}, {1, 2}}},
	{Index: 3, Cells: [3]Coord{{2, 0}, {2, 1}, {2, 2}}},
	{Index: 4, Cells: [3]Coord{{0, 0}, {1, 0}, {2, 0}}},
	{Index: 5, Cells: [3]Coord{{0, 1}, {1, 1}, {2, 1}}},
	{Index: 6, Cells: [3]Coord{{0, 2}, {1, 2}, {2, 2}}},
	{Index: 7, Cells: [3]Coord{{0, 2}, {1, 1}, {2, 0}}},
	{Index: 8, Cells: [3]Coord{{0, 0}, {1, 1}, {2, 2}}},
}

// Evaluate - returns the first line fully held by symbol.
func Evaluate(board *Board, symbol Symbol) (Line, bool) {
	if symbol == SymbolNone {
		return Line{}, false
	}

	for _, line := range Lines {
		a := board.Cells[line.Cells[0].Row][line.Cells[0].Col].Symbol
		b := board.Cells[line.Cells[1].Row][line.Cells[1].Col].Symbol
		c := board.Cells[line.Cells[2].Row][line.Cells[2].Col].Symbol

		if a == b && b == c && c == symbol {
			return line, true
		}
	}

	return Line{}, false
}

// IsDraw - no line is held by either symbol and no empty cell remains.
func IsDraw(board *Board) bool {
	if _, won := Evaluate(board, SymbolX); won {
		return false
	}

	if _, won := Evaluate(board, SymbolO); won {
		return false
	}

	return board.IsFull()
}
