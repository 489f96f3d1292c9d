package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

var jsonNull = []byte("null")

// OptionalString distinguishes an omitted field (Set is false) from a field
// that was sent, possibly as null or "" to clear the stored value.
type OptionalString struct {
	Set   bool
	Value string
}

// SomeString returns a set OptionalString.
func SomeString(v string) OptionalString {
	return OptionalString{Set: true, Value: v}
}

// IsZero reports an omitted field, for use with the omitzero tag option.
func (o OptionalString) IsZero() bool { return !o.Set }

func (o OptionalString) MarshalJSON() ([]byte, error) {
	if o.Value == "" {
		return jsonNull, nil
	}
	return json.Marshal(o.Value)
}

// UnmarshalJSON is only invoked when the key is present, which is what marks Set.
func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), jsonNull) {
		o.Value = ""
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// OptionalYear is a publication year sent as a number or numeric string.
// Null, blank and unparseable input leave Value nil rather than zero.
type OptionalYear struct {
	Set   bool
	Value *int
}

// SomeYear returns a set OptionalYear holding y.
func SomeYear(y int) OptionalYear {
	return OptionalYear{Set: true, Value: &y}
}

// NoYear returns a set OptionalYear without a value, which clears the year on update.
func NoYear() OptionalYear {
	return OptionalYear{Set: true}
}

func (o OptionalYear) IsZero() bool { return !o.Set }

func (o OptionalYear) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return jsonNull, nil
	}
	return json.Marshal(*o.Value)
}

func (o *OptionalYear) UnmarshalJSON(b []byte) error {
	o.Set = true
	o.Value = nil

	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	// The year column is an INTEGER; anything outside int32 clears like an
	// unparseable value.
	switch v := raw.(type) {
	case float64:
		if v >= math.MinInt32 && v <= math.MaxInt32 {
			y := int(v)
			o.Value = &y
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 32); err == nil {
			y := int(n)
			o.Value = &y
		}
	}
	return nil
}
