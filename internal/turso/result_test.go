package turso

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCellToValue(t *testing.T) {
	t.Run("null", func(t *testing.T) {
		require.True(t, cellToValue(nil, "INTEGER", false).IsNull())
	})

	t.Run("integer", func(t *testing.T) {
		v := cellToValue(int64(8), "INTEGER", false)
		n, ok := v.AsInt()
		require.True(t, ok)
		require.Equal(t, int64(8), n)
	})

	t.Run("text without promotion stays text", func(t *testing.T) {
		v := cellToValue("2026-07-31 00:00:00", "TEXT", false)
		s, ok := v.AsText()
		require.True(t, ok)
		require.Equal(t, "2026-07-31 00:00:00", s)
	})

	t.Run("text promotes to timestamp when opted in", func(t *testing.T) {
		v := cellToValue("2026-07-31 00:00:00", "TEXT", true)
		require.Equal(t, "timestamp", v.Kind().String())
	})

	t.Run("text promotes to json when opted in", func(t *testing.T) {
		v := cellToValue(`{"a":1}`, "TEXT", true)
		require.Equal(t, "json", v.Kind().String())
	})

	t.Run("blob", func(t *testing.T) {
		v := cellToValue([]byte{1, 2, 3}, "BLOB", false)
		b, ok := v.AsBlob()
		require.True(t, ok)
		require.Equal(t, []byte{1, 2, 3}, b)
	})
}
