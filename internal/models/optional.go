package models

import (
	"bytes"
	"encoding/json"
)

// Optional records whether a JSON field was present in a request body.
// An absent key leaves Set false; an explicit null sets Set with a nil Value.
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// Some returns a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns a present Optional holding JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// applyRequired overwrites dst when o is set. A null for a non-nullable field
// is reported to e instead of being applied.
func applyRequired[T any](e ValidationError, field string, o Optional[T], dst *T) {
	if !o.Set {
		return
	}
	if o.Value == nil {
		e.add(field, "must not be null")
		return
	}
	*dst = *o.Value
}

// applyNullable overwrites dst when o is set; null clears it.
func applyNullable[T any](o Optional[T], dst **T) {
	if !o.Set {
		return
	}
	if o.Value == nil {
		*dst = nil
		return
	}
	v := *o.Value
	*dst = &v
}
