package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCellToValue(t *testing.T) {
	t.Run("null", func(t *testing.T) {
		require.True(t, cellToValue(nil, "INT4").IsNull())
	})

	t.Run("int", func(t *testing.T) {
		v := cellToValue(int64(5), "INT8")
		n, ok := v.AsInt()
		require.True(t, ok)
		require.Equal(t, int64(5), n)
	})

	t.Run("bool", func(t *testing.T) {
		v := cellToValue(true, "BOOL")
		b, ok := v.AsBool()
		require.True(t, ok)
		require.True(t, b)
	})

	t.Run("timestamptz", func(t *testing.T) {
		ts := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
		v := cellToValue(ts, "TIMESTAMPTZ")
		got, ok := v.AsTimestamp()
		require.True(t, ok)
		require.True(t, ts.Equal(got))
	})

	t.Run("jsonb comes back as text", func(t *testing.T) {
		v := cellToValue([]byte(`{"a":1}`), "JSONB")
		s, ok := v.AsText()
		require.True(t, ok)
		require.Equal(t, `{"a":1}`, s)
	})

	t.Run("bytea", func(t *testing.T) {
		v := cellToValue([]byte{1, 2}, "BYTEA")
		b, ok := v.AsBlob()
		require.True(t, ok)
		require.Equal(t, []byte{1, 2}, b)
	})

	t.Run("float from text encoding", func(t *testing.T) {
		v := cellToValue([]byte("3.5"), "NUMERIC")
		f, ok := v.AsFloat()
		require.True(t, ok)
		require.Equal(t, 3.5, f)
	})
}
