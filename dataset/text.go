package dataset

import "encoding/json"

// Text is an optional string field. The zero value is absent. Absent values
// are equal to each other and unequal to every present value, including the
// empty string.
type Text struct {
	Value string
	Valid bool
}

// Some returns a present Text.
func Some(s string) Text { return Text{Value: s, Valid: true} }

// None returns an absent Text.
func None() Text { return Text{} }

// String renders an absent value as null, the same way dumps and JSON show
// every other missing value.
func (t Text) String() string {
	if !t.Valid {
		return "null"
	}
	return t.Value
}

// IsEmpty reports whether t is absent or the empty string.
func (t Text) IsEmpty() bool { return !t.Valid || t.Value == "" }

func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Value)
}

func (t *Text) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = None()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = Some(s)
	return nil
}
