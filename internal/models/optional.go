package models

import "encoding/json"

// Optional значение JSON-поля, различающее отсутствие, null и значение.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some возвращает заданное значение.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null возвращает явный null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON вызывается только для присутствующих в объекте ключей.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON пишет null для отсутствующего и пустого значения.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Ptr возвращает указатель на значение или nil.
func (o Optional[T]) Ptr() *T {
	if !o.Set || o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// SQLValue значение для плейсхолдера: nil для null.
func (o Optional[T]) SQLValue() any {
	if o.Null {
		return nil
	}
	return o.Value
}
