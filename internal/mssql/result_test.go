package mssql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCellToValue(t *testing.T) {
	t.Run("null", func(t *testing.T) {
		require.True(t, cellToValue(nil, "INT").IsNull())
	})

	t.Run("int", func(t *testing.T) {
		v := cellToValue(int64(7), "BIGINT")
		n, ok := v.AsInt()
		require.True(t, ok)
		require.Equal(t, int64(7), n)
	})

	t.Run("bit", func(t *testing.T) {
		v := cellToValue(true, "BIT")
		b, ok := v.AsBool()
		require.True(t, ok)
		require.True(t, b)
	})

	t.Run("datetime2", func(t *testing.T) {
		ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		v := cellToValue(ts, "DATETIME2")
		got, ok := v.AsTimestamp()
		require.True(t, ok)
		require.True(t, ts.Equal(got))
	})

	t.Run("varbinary", func(t *testing.T) {
		v := cellToValue([]byte{9, 9}, "VARBINARY")
		b, ok := v.AsBlob()
		require.True(t, ok)
		require.Equal(t, []byte{9, 9}, b)
	})

	t.Run("default is text", func(t *testing.T) {
		v := cellToValue("hi", "NVARCHAR")
		s, ok := v.AsText()
		require.True(t, ok)
		require.Equal(t, "hi", s)
	})
}
