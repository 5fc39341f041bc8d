package entity

import (
	"fmt"

	"github.com/catamarca-exporta/padron-api/internal/domain"
)

func errSlots(tipo string) error {
	return fmt.Errorf("%w: slots de subrubro incoherentes para tipo %q", domain.ErrInvarianteViolada, tipo)
}
