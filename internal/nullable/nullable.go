// Package nullable provides a JSON field type that tells an omitted key apart
// from an explicit null, for partial updates.
package nullable

import (
	"bytes"
	"encoding/json"
)

// Field holds a value decoded from an optional, nullable JSON key.
//
//	key omitted  -> Set == false
//	key is null  -> Set == true, Null == true
//	key is value -> Set == true, Null == false, Value holds it
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.Null = true
		f.Value = zero
		return nil
	}

	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Ptr returns nil for an omitted or null field.
func (f Field[T]) Ptr() *T {
	if !f.Set || f.Null {
		return nil
	}
	v := f.Value
	return &v
}

// ValidationValue exposes the value to struct validators; omitted and null
// fields report nil so that "omitempty" rules skip them.
func (f Field[T]) ValidationValue() any {
	if !f.Set || f.Null {
		return nil
	}
	return f.Value
}
