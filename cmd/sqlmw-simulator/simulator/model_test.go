package simulator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOracleCheckPassesOnFreshPool(t *testing.T) {
	pool := newPoolModel(2)
	tasks := []taskState{{id: 0, connID: -1}, {id: 1, connID: -1}}
	require.NoError(t, oracleCheck(tasks, pool))
}

func TestOracleCheckCatchesDoubleCheckout(t *testing.T) {
	pool := newPoolModel(1)
	pool.conns[0].checkedOutBy = 0

	tasks := []taskState{{id: 0, connID: 0}, {id: 1, connID: 0}}
	require.Error(t, oracleCheck(tasks, pool))
}

func TestOracleCheckCatchesBrokenButOwnedConnection(t *testing.T) {
	pool := newPoolModel(1)
	pool.conns[0].checkedOutBy = 0
	pool.conns[0].state = connBroken

	tasks := []taskState{{id: 0, connID: 0}}
	require.Error(t, oracleCheck(tasks, pool))
}

func TestOracleCheckCatchesInTxMismatch(t *testing.T) {
	pool := newPoolModel(1)
	pool.conns[0].checkedOutBy = 0
	pool.conns[0].state = connInTx

	tasks := []taskState{{id: 0, connID: 0, inTx: false}}
	require.Error(t, oracleCheck(tasks, pool))
}

func TestAvailableConnIDsExcludesCheckedOut(t *testing.T) {
	pool := newPoolModel(3)
	pool.conns[1].checkedOutBy = 5

	ids := pool.availableConnIDs()
	require.ElementsMatch(t, []int{0, 2}, ids)
}
