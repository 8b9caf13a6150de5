package set_test

import (
	"encoding/json"
	"testing"

	"github.com/capitalninja/ninja/lib/set"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdered(t *testing.T) {
	t.Run("keeps first insertion order and drops duplicates", func(t *testing.T) {
		s := set.NewOrdered[int64](3, 1, 3, 2, 1)
		assert.Equal(t, []int64{3, 1, 2}, s.Values())
		assert.Equal(t, 3, s.Len())
		assert.True(t, s.Contains(2))
		assert.False(t, s.Contains(4))
	})

	t.Run("add reports whether the value was new", func(t *testing.T) {
		var s set.Ordered[string]
		assert.True(t, s.Add("a"))
		assert.False(t, s.Add("a"))
	})

	t.Run("json encode", func(t *testing.T) {
		b, err := json.Marshal(set.NewOrdered("b", "a", "b"))
		require.NoError(t, err)
		assert.JSONEq(t, `["b","a"]`, string(b))

		b, err = json.Marshal(set.NewOrdered[string]())
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(b))
	})

	t.Run("json decode", func(t *testing.T) {
		s := set.NewOrdered("stale")
		var ints set.Ordered[int]
		require.NoError(t, json.Unmarshal([]byte(`[7, 7, 8]`), &ints))
		assert.Equal(t, []int{7, 8}, ints.Values())

		require.NoError(t, json.Unmarshal([]byte(`["fresh"]`), s))
		assert.Equal(t, []string{"fresh"}, s.Values())
	})
}
