package mssql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sqlmw/go-sql-middleware/value"
)

func TestConvertParam(t *testing.T) {
	t.Run("null", func(t *testing.T) {
		v, err := convertParam(value.Null())
		require.NoError(t, err)
		require.Nil(t, v)
	})

	t.Run("int", func(t *testing.T) {
		v, err := convertParam(value.Int(42))
		require.NoError(t, err)
		require.Equal(t, int64(42), v)
	})

	t.Run("bool", func(t *testing.T) {
		v, err := convertParam(value.Bool(true))
		require.NoError(t, err)
		require.Equal(t, true, v)
	})

	t.Run("timestamp formats as RFC3339Nano", func(t *testing.T) {
		ts := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)
		v, err := convertParam(value.Timestamp(ts))
		require.NoError(t, err)
		require.Equal(t, "2026-07-31T10:00:00Z", v)
	})

	t.Run("blob", func(t *testing.T) {
		v, err := convertParam(value.Blob([]byte{1, 2, 3}))
		require.NoError(t, err)
		require.Equal(t, []byte{1, 2, 3}, v)
	})

	t.Run("json is marshaled", func(t *testing.T) {
		v, err := convertParam(value.JSON(map[string]any{"a": 1.0}))
		require.NoError(t, err)
		require.Equal(t, `{"a":1}`, v)
	})
}

func TestConvertParams(t *testing.T) {
	out, err := convertParams([]value.Value{value.Int(1), value.Text("x")})
	require.NoError(t, err)
	require.Equal(t, []any{int64(1), "x"}, out)
}
