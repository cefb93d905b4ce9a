// Package member defines the typed values that occur in dimension columns.
//
// A member is one distinct value of a dimension. The representation is a
// small tagged struct rather than an interface so that filtering stays
// predictable: no reflection and no fmt-based stringification on the
// query path.
package member

import (
	"encoding/json"
	"strconv"
	"time"
	"unique"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindNull represents a missing value. Every dimension indexes its
	// missing values under a single null member bucket.
	KindNull
	// KindString represents a string value.
	KindString
	// KindBool represents a boolean value.
	KindBool
	// KindInt represents an integer value.
	KindInt
	// KindTime represents a temporal value (nanosecond precision, UTC).
	KindTime
)

// Value is one member of a dimension.
//
// NOTE: This is also used in snapshot metadata; keep the encoding stable.
type Value struct {
	Kind Kind                  `json:"k"`
	I64  int64                 `json:"i,omitempty"`
	B    bool                  `json:"b,omitempty"`
	s    unique.Handle[string] `json:"-"` // interned string payload
}

// Null returns the null member.
func Null() Value { return Value{Kind: KindNull} }

// String returns a string member. Equal strings share one interned handle,
// so map keys and comparisons stay cheap for high-repetition columns.
func String(s string) Value { return Value{Kind: KindString, s: unique.Make(s)} }

// Bool returns a boolean member.
func Bool(b bool) Value { return Value{Kind: KindBool, B: b} }

// Int returns an integer member.
func Int(i int64) Value { return Value{Kind: KindInt, I64: i} }

// Time returns a temporal member. The value is truncated to UTC nanoseconds.
func Time(t time.Time) Value { return Value{Kind: KindTime, I64: t.UTC().UnixNano()} }

// IsNull reports whether the value is the null member.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// StringValue returns the string payload if Kind is KindString, otherwise "".
func (v Value) StringValue() string {
	if v.Kind == KindString {
		return v.s.Value()
	}
	return ""
}

// BoolValue returns the bool payload if Kind is KindBool.
func (v Value) BoolValue() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.B, true
}

// IntValue returns the int payload if Kind is KindInt.
func (v Value) IntValue() (int64, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	return v.I64, true
}

// TimeValue returns the time payload if Kind is KindTime.
func (v Value) TimeValue() (time.Time, bool) {
	if v.Kind != KindTime {
		return time.Time{}, false
	}
	return time.Unix(0, v.I64).UTC(), true
}

// Key returns a stable string representation for use as a map key.
//
// It is used for the per-dimension member index and inside snapshot
// metadata, and must remain stable across versions.
func (v Value) Key() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindString:
		return "s:" + v.s.Value()
	case KindBool:
		if v.B {
			return "b:1"
		}
		return "b:0"
	case KindInt:
		return "i:" + strconv.FormatInt(v.I64, 10)
	case KindTime:
		return "t:" + strconv.FormatInt(v.I64, 10)
	default:
		return "invalid"
	}
}

// Less defines a total order over members: null first, then by kind, then
// by payload. Dimension.Members relies on it for a deterministic listing.
func (v Value) Less(other Value) bool {
	if v.Kind != other.Kind {
		return v.Kind < other.Kind
	}
	switch v.Kind {
	case KindString:
		return v.s.Value() < other.s.Value()
	case KindBool:
		return !v.B && other.B
	case KindInt, KindTime:
		return v.I64 < other.I64
	default:
		return false
	}
}

// Equal reports whether two members are the same value.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindString:
		return v.s == other.s
	case KindBool:
		return v.B == other.B
	case KindInt, KindTime:
		return v.I64 == other.I64
	default:
		return true
	}
}

// MarshalJSON implements json.Marshaler. The interned string payload is
// not exported, so it is spliced in explicitly.
func (v Value) MarshalJSON() ([]byte, error) {
	type Alias Value
	aux := &struct {
		S string `json:"s,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(&v),
	}
	if v.Kind == KindString {
		aux.S = v.s.Value()
	}
	return json.Marshal(aux)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	type Alias Value
	aux := &struct {
		S string `json:"s,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(v),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if v.Kind == KindString {
		v.s = unique.Make(aux.S)
	}
	return nil
}
