package domain

import (
	"encoding/json"
	"time"
)

// Opt is an optional request field. It records whether the field appeared
// in the payload at all (Set) and whether it carried a non-null value
// (Valid). The distinction matters to the transition engine: an absent
// field is "no opinion", a null one is an explicit non-value.
type Opt[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// Provided reports whether the field carried a usable value.
func (o Opt[T]) Provided() bool {
	return o.Set && o.Valid
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.Provided() {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// OptOf wraps a value as a provided optional.
func OptOf[T any](v T) Opt[T] {
	return Opt[T]{Set: true, Valid: true, Value: v}
}

// TicketPatch is a proposed partial update to a ticket. Fields that do
// not belong to the target kind are ignored by the transition engine.
type TicketPatch struct {
	Description Opt[string]
	Urgency     Opt[string]
	DBName      Opt[string]
	AdminName   Opt[string]
	IP          Opt[string]
	Permission  Opt[bool]
	Status      Opt[TicketStatus]
	Deadline    Opt[time.Time]
}
