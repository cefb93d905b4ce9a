package member

import (
	"encoding/json"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null(), "null"},
		{"string", String("apple"), "s:apple"},
		{"empty string", String(""), "s:"},
		{"bool true", Bool(true), "b:1"},
		{"bool false", Bool(false), "b:0"},
		{"int", Int(-42), "i:-42"},
		{"time", Time(ts), "t:1709294400000000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Key())
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, String("a").Equal(String("a")))
	assert.False(t, String("a").Equal(String("b")))
	assert.True(t, Null().Equal(Null()))
	assert.False(t, Null().Equal(String("null")))
	assert.True(t, Int(7).Equal(Int(7)))
	assert.False(t, Int(7).Equal(Bool(true)))
}

func TestLessOrdering(t *testing.T) {
	vs := []Value{String("b"), Int(2), Null(), Bool(true), String("a"), Int(1), Bool(false)}
	sort.Slice(vs, func(i, j int) bool { return vs[i].Less(vs[j]) })

	want := []Value{Null(), String("a"), String("b"), Bool(false), Bool(true), Int(1), Int(2)}
	require.Len(t, vs, len(want))
	for i := range want {
		assert.True(t, vs[i].Equal(want[i]), "position %d: got %s, want %s", i, vs[i].Key(), want[i].Key())
	}
}

func TestAccessors(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "apple", String("apple").StringValue())
	assert.Equal(t, "", Int(1).StringValue())

	b, ok := Bool(true).BoolValue()
	require.True(t, ok)
	assert.True(t, b)
	_, ok = Int(1).BoolValue()
	assert.False(t, ok)

	i, ok := Int(-5).IntValue()
	require.True(t, ok)
	assert.Equal(t, int64(-5), i)

	got, ok := Time(ts).TimeValue()
	require.True(t, ok)
	assert.True(t, got.Equal(ts))

	assert.True(t, Null().IsNull())
	assert.False(t, String("").IsNull())
}

func TestJSONRoundTrip(t *testing.T) {
	values := []Value{Null(), String("café"), Bool(true), Int(-99), Time(time.Now())}
	for _, v := range values {
		data, err := json.Marshal(v)
		require.NoError(t, err)

		var got Value
		require.NoError(t, json.Unmarshal(data, &got))
		assert.True(t, v.Equal(got), "round trip of %s", v.Key())
	}
}

func TestStringInterning(t *testing.T) {
	// Two independently constructed equal strings share the same handle.
	a := String("shared")
	b := String("shared")
	assert.True(t, a.Equal(b))
	assert.Equal(t, a, b)
}
