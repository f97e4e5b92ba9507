package simulator

import "fmt"

// connState is the Go encoding of original_source's ConnState.
type connState int

const (
	connIdle connState = iota
	connInTx
	connBusy
	connBroken
)

func (s connState) String() string {
	switch s {
	case connIdle:
		return "idle"
	case connInTx:
		return "in_tx"
	case connBusy:
		return "busy"
	case connBroken:
		return "broken"
	default:
		return "unknown"
	}
}

// connSlot is one pooled connection's simulated state.
type connSlot struct {
	state        connState
	checkedOutBy int // -1 when unowned
}

// poolModel is the simulator's model of a sqlmw.Pool: a fixed slice of
// connSlots, grounded on original_source's PoolModel.
type poolModel struct {
	conns []connSlot
}

func newPoolModel(size int) *poolModel {
	conns := make([]connSlot, size)
	for i := range conns {
		conns[i] = connSlot{state: connIdle, checkedOutBy: -1}
	}
	return &poolModel{conns: conns}
}

func (p *poolModel) availableConnIDs() []int {
	var ids []int
	for id, slot := range p.conns {
		if slot.state == connIdle && slot.checkedOutBy == -1 {
			ids = append(ids, id)
		}
	}
	return ids
}

// taskState is one simulated caller's view of its own checkout/tx state.
type taskState struct {
	id     int
	connID int // -1 when not checked out
	inTx   bool
}

// simError is the Go encoding of original_source's SimError.
type simError int

const (
	errBusy simError = iota
	errIO
	errPanic
	errPoolEmpty
)

func (e simError) String() string {
	switch e {
	case errBusy:
		return "Busy"
	case errIO:
		return "Io"
	case errPanic:
		return "Panic"
	case errPoolEmpty:
		return "PoolEmpty"
	default:
		return "Unknown"
	}
}

// stepOutcome reports the result of applying one op to one task.
type stepOutcome struct {
	err    *simError // nil on success
	connID int       // -1 if the op never touched a connection
}

// oracleCheck verifies the pool/task invariants original_source's Oracle::check
// enforces after every step: no connection checked out by two tasks, no
// connection broken while still checked out, in-tx state agrees between the
// task and its connection, and every task's checkout is mutually consistent
// with the connection that claims to hold it.
func oracleCheck(tasks []taskState, pool *poolModel) error {
	seen := make(map[int]int, len(pool.conns))

	for connID, slot := range pool.conns {
		if slot.checkedOutBy == -1 {
			if slot.state == connInTx {
				return fmt.Errorf("conn %d in tx without owner", connID)
			}
			continue
		}

		taskID := slot.checkedOutBy
		if slot.state == connBroken {
			return fmt.Errorf("conn %d is broken but checked out by task %d", connID, taskID)
		}
		if prev, ok := seen[connID]; ok {
			return fmt.Errorf("conn %d checked out multiple times (tasks %d and %d)", connID, prev, taskID)
		}
		seen[connID] = taskID

		if taskID < 0 || taskID >= len(tasks) {
			return fmt.Errorf("task %d missing", taskID)
		}
		task := tasks[taskID]
		if task.connID != connID {
			return fmt.Errorf("task %d and conn %d mismatch", taskID, connID)
		}
		if slot.state == connInTx && !task.inTx {
			return fmt.Errorf("conn %d is in tx but task %d is not", connID, taskID)
		}
	}

	for _, task := range tasks {
		if task.inTx && task.connID == -1 {
			return fmt.Errorf("task %d in tx without conn", task.id)
		}
		if task.connID != -1 {
			if task.connID < 0 || task.connID >= len(pool.conns) {
				return fmt.Errorf("task %d references missing conn %d", task.id, task.connID)
			}
			if pool.conns[task.connID].checkedOutBy != task.id {
				return fmt.Errorf("task %d claims conn %d without ownership", task.id, task.connID)
			}
		}
	}

	return nil
}
