package billing

import (
	"fmt"

	"github.com/jhoicas/billing-api/internal/domain"
	"github.com/jhoicas/billing-api/internal/domain/entity"
)

// StatusPolicy decide si un cambio de estado es aceptable.
type StatusPolicy interface {
	CanTransition(from, to entity.DocumentStatus) bool
}

// FreeStatusPolicy cualquier estado puede pasar a cualquier otro (comportamiento por defecto).
type FreeStatusPolicy struct{}

func (FreeStatusPolicy) CanTransition(_, _ entity.DocumentStatus) bool { return true }

// strictTransitions Draft → Pending → Processed → Completed; Cancelled desde cualquier estado no final.
var strictTransitions = map[entity.DocumentStatus][]entity.DocumentStatus{
	entity.StatusDraft:     {entity.StatusPending, entity.StatusCancelled},
	entity.StatusPending:   {entity.StatusDraft, entity.StatusProcessed, entity.StatusCancelled},
	entity.StatusProcessed: {entity.StatusCompleted, entity.StatusCancelled},
	entity.StatusCompleted: nil,
	entity.StatusCancelled: nil,
}

// StrictStatusPolicy aplica la tabla de transiciones; Completed y Cancelled son finales.
type StrictStatusPolicy struct{}

func (StrictStatusPolicy) CanTransition(from, to entity.DocumentStatus) bool {
	if from == to {
		return true
	}
	for _, next := range strictTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition devuelve domain.ErrConflict si la política rechaza el cambio.
func CheckTransition(p StatusPolicy, from, to entity.DocumentStatus) error {
	if p == nil || p.CanTransition(from, to) {
		return nil
	}
	return fmt.Errorf("%w: transición de estado %s → %s no permitida", domain.ErrConflict, from, to)
}
