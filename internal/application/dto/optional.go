package dto

import (
	"bytes"
	"encoding/json"
)

// Optional campo de un PATCH parcial que distingue tres casos:
//   - ausente en el JSON: Set == false (no tocar)
//   - null explícito:     Set == true, Null == true (limpiar)
//   - con valor:          Set == true, Null == false
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some construye un Optional con valor.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Null construye un Optional con null explícito.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON solo se invoca cuando la clave está presente, lo que marca Set.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Value = zero
		o.Null = true
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON escribe null cuando no hay valor.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Ptr devuelve nil si el campo es null, o un puntero al valor.
func (o Optional[T]) Ptr() *T {
	if o.Null {
		return nil
	}
	v := o.Value
	return &v
}
