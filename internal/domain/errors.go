package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrInternal     = errors.New("error interno")
)

// Recursos no encontrados del módulo de facturación.
var (
	ErrDocumentNotFound error = &NotFoundError{Resource: "documento"}
	ErrItemNotFound     error = &NotFoundError{Resource: "ítem"}
)

// NotFoundError indica que el documento o ítem referenciado no existe.
// errors.Is(err, ErrNotFound) es verdadero para cualquier recurso.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " no encontrado" }

// Is permite comparar contra el sentinel genérico ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError campo requerido ausente, valor fuera del enumerado o fecha malformada.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un error de validación para el campo indicado.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// InternalError falla del store no clasificada. Error() devuelve un mensaje genérico;
// la causa queda disponible vía errors.Unwrap para los logs.
type InternalError struct {
	Op  string
	Err error
}

// Internal envuelve una falla del store. Si err ya es un error clasificado se devuelve tal cual.
func Internal(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInternal) || errors.Is(err, ErrDuplicate) {
		return err
	}
	return &InternalError{Op: op, Err: err}
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInternal.Error(), e.Op)
}

func (e *InternalError) Unwrap() []error { return []error{ErrInternal, e.Err} }

// Códigos de error expuestos por la capa de transporte.
const (
	KindValidation   = "VALIDATION"
	KindNotFound     = "NOT_FOUND"
	KindDuplicate    = "DUPLICATE"
	KindConflict     = "CONFLICT"
	KindUnauthorized = "UNAUTHORIZED"
	KindInternal     = "INTERNAL"
)

// Kind clasifica un error según la taxonomía del dominio.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicate):
		return KindDuplicate
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	default:
		return KindInternal
	}
}
