package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sqlmw/go-sql-middleware/value"
)

func TestConvertParamUnspecified(t *testing.T) {
	v, err := convertParam(value.Int(9000), columnTypeUnspecified)
	require.NoError(t, err)
	require.Equal(t, int64(9000), v)
}

func TestConvertParamNarrowsInt2(t *testing.T) {
	v, err := convertParam(value.Int(100), columnTypeInt2)
	require.NoError(t, err)
	require.Equal(t, int16(100), v)
}

func TestConvertParamInt2OverflowIsExecutionError(t *testing.T) {
	_, err := convertParam(value.Int(40000), columnTypeInt2)
	require.Error(t, err)
}

func TestConvertParamInt4OverflowIsExecutionError(t *testing.T) {
	_, err := convertParam(value.Int(1<<33), columnTypeInt4)
	require.Error(t, err)
}

func TestConvertParamNull(t *testing.T) {
	v, err := convertParam(value.Null(), columnTypeUnspecified)
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestConvertParamTimestampPassesThroughAsTimeTime(t *testing.T) {
	ts := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	v, err := convertParam(value.Timestamp(ts), columnTypeUnspecified)
	require.NoError(t, err)
	require.Equal(t, ts, v)
}

func TestConvertParamJSONMarshalsToText(t *testing.T) {
	v, err := convertParam(value.JSON([]int{1, 2, 3}), columnTypeUnspecified)
	require.NoError(t, err)
	require.Equal(t, "[1,2,3]", v)
}

func TestConvertParams(t *testing.T) {
	out, err := convertParams([]value.Value{value.Int(1), value.Bool(true), value.Null()})
	require.NoError(t, err)
	require.Equal(t, []any{int64(1), true, nil}, out)
}
