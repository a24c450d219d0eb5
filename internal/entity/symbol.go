package entity

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

type Symbol string

const (
	SymbolNone Symbol = ""
	SymbolX    Symbol = "X"
	SymbolO    Symbol = "O"
)

// AssignSymbol - derives the symbols of both participants from the pair of identifiers.
// The result depends only on the pair, so it is recomputed instead of being stored.
func AssignSymbol(initiator, invitee string) (Symbol, Symbol) {
	digest := sha256.Sum256([]byte(initiator + invitee))

	if digest[0] == 0 {
		return SymbolO, SymbolX
	}

	return SymbolX, SymbolO
}

func (that Symbol) String() string {
	if that == SymbolNone {
		return "None"
	}

	return string(that)
}

func (that Symbol) MarshalJSON() ([]byte, error) {
	return json.Marshal(that.String())
}

func (that *Symbol) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal symbol: %w", err)
	}

	switch raw {
	case "X":
		*that = SymbolX
	case "O":
		*that = SymbolO
	case "None", "":
		*that = SymbolNone
	default:
		return fmt.Errorf("unknown symbol %q", raw)
	}

	return nil
}
