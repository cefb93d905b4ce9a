package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Ratio float64 `json:"ratio"`
}

func TestRoundTrip(t *testing.T) {
	in := sample{Name: "revenue", Count: 3, Ratio: 0.5}

	for _, name := range []string{"json", "go-json"} {
		t.Run(name, func(t *testing.T) {
			c, ok := ByName(name)
			require.True(t, ok)
			assert.Equal(t, name, c.Name())

			data, err := c.Marshal(in)
			require.NoError(t, err)

			var out sample
			require.NoError(t, c.Unmarshal(data, &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestCrossCodecCompatibility(t *testing.T) {
	// Both codecs speak JSON; a snapshot written with one must decode
	// with the other.
	j, _ := ByName("json")
	g, _ := ByName("go-json")

	data, err := j.Marshal(sample{Name: "x", Count: 1})
	require.NoError(t, err)

	var out sample
	require.NoError(t, g.Unmarshal(data, &out))
	assert.Equal(t, "x", out.Name)
}

func TestByNameUnknown(t *testing.T) {
	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestMustMarshal(t *testing.T) {
	data := MustMarshal(nil, map[string]int{"a": 1})
	assert.NotEmpty(t, data)

	assert.Panics(t, func() {
		MustMarshal(Default, make(chan int))
	})
}
