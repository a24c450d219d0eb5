package address

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// addressRule - lowercase alphanumeric identifiers between 3 and 90 characters (bech32-like).
const addressRule = "required,min=3,max=90,lowercase,alphanum"

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterAlias("address", addressRule)

	return &Validator{validate: validate}
}

// Validate - returns apperror.ErrInvalidAddress if the identifier is not well-formed.
func (that *Validator) Validate(address string) error {
	if err := that.validate.Var(address, "address"); err != nil {
		return fmt.Errorf("%w: %q: %s", apperror.ErrInvalidAddress, address, err.Error())
	}

	return nil
}
