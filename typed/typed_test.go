package typed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sqlmw/go-sql-middleware/rows"
	"github.com/sqlmw/go-sql-middleware/value"
)

type host struct {
	ID          int64  `db:"id"`
	DisplayName string `db:"display_name"`
	Notes       *string
	State       bool
	CreatedAt   time.Time
}

func buildResultSet(t *testing.T, columns []string, rowValues [][]value.Value) *rows.ResultSet {
	t.Helper()

	b := rows.NewBuilder(columns)
	for _, vs := range rowValues {
		require.NoError(t, b.Append(vs))
	}
	return b.Build()
}

func TestSelect(t *testing.T) {
	rs := buildResultSet(t, []string{"id", "display_name", "notes", "state", "created_at"}, [][]value.Value{
		{
			value.Int(1),
			value.Text("icinga2-master"),
			value.Null(),
			value.Bool(true),
			value.Timestamp(time.Date(2026, 7, 31, 9, 30, 0, 0, time.UTC)),
		},
		{
			value.Int(2),
			value.Text("icinga2-satellite"),
			value.Text("maintenance window pending"),
			value.Bool(false),
			value.Timestamp(time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)),
		},
	})

	hosts, err := Select[host](rs)
	require.NoError(t, err)
	require.Len(t, hosts, 2)

	require.Equal(t, int64(1), hosts[0].ID)
	require.Equal(t, "icinga2-master", hosts[0].DisplayName)
	require.Nil(t, hosts[0].Notes)
	require.True(t, hosts[0].State)
	require.True(t, hosts[0].CreatedAt.Equal(time.Date(2026, 7, 31, 9, 30, 0, 0, time.UTC)))

	require.NotNil(t, hosts[1].Notes)
	require.Equal(t, "maintenance window pending", *hosts[1].Notes)
	require.False(t, hosts[1].State)
}

func TestSelectIgnoresUnmatchedColumns(t *testing.T) {
	rs := buildResultSet(t, []string{"id", "display_name", "extra_column"}, [][]value.Value{
		{value.Int(1), value.Text("h1"), value.Text("unused")},
	})

	type minimalHost struct {
		ID          int64 `db:"id"`
		DisplayName string
	}

	out, err := Select[minimalHost](rs)
	require.NoError(t, err)
	require.Equal(t, []minimalHost{{ID: 1, DisplayName: "h1"}}, out)
}

func TestSelectOneEmptyResultSetErrors(t *testing.T) {
	rs := buildResultSet(t, []string{"id"}, nil)

	_, err := SelectOne[host](rs)
	require.Error(t, err)
}

func TestSelectOneReturnsFirstRow(t *testing.T) {
	rs := buildResultSet(t, []string{"id", "display_name"}, [][]value.Value{
		{value.Int(42), value.Text("only-row")},
	})

	type idOnly struct {
		ID          int64 `db:"id"`
		DisplayName string
	}

	got, err := SelectOne[idOnly](rs)
	require.NoError(t, err)
	require.Equal(t, int64(42), got.ID)
	require.Equal(t, "only-row", got.DisplayName)
}

func TestSelectRejectsNonStructType(t *testing.T) {
	rs := buildResultSet(t, []string{"id"}, [][]value.Value{{value.Int(1)}})

	_, err := Select[int64](rs)
	require.Error(t, err)
}
