package domain

import "encoding/json"

// Optional distinguishes an absent JSON field from an explicit null.
// Absent: Set=false. Null: Set=true, Value=nil. Present: Set=true,
// Value non-nil. Patch structs use it for fields the domain allows to
// be cleared.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON marks the field as set; a JSON null leaves Value nil.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
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

// MarshalJSON round-trips the stored value; an unset or null Optional
// marshals as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// IsZero reports whether the field was absent, so omitzero skips it.
func (o Optional[T]) IsZero() bool { return !o.Set }

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] { return Optional[T]{Set: true, Value: &v} }

// Null returns an Optional explicitly set to null.
func Null[T any]() Optional[T] { return Optional[T]{Set: true} }
