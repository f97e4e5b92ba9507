package simulator

import (
	"errors"
	"fmt"
	"math/rand"
)

// op is the Go encoding of original_source's Op enum: the action a task
// attempts on its next scheduler turn.
type op int

const (
	opCheckout op = iota
	opReturn
	opBegin
	opCommit
	opRollback
	opExecute
	opSelect
	opDDL
	opSleep
)

func (o op) String() string {
	switch o {
	case opCheckout:
		return "Checkout"
	case opReturn:
		return "Return"
	case opBegin:
		return "Begin"
	case opCommit:
		return "Commit"
	case opRollback:
		return "Rollback"
	case opExecute:
		return "Execute"
	case opSelect:
		return "Select"
	case opDDL:
		return "Ddl"
	case opSleep:
		return "Sleep"
	default:
		return "Unknown"
	}
}

// backendShim is the simulator's stand-in for a real sqlmw.Pool: it mutates
// a poolModel the way real checkout/begin/commit/rollback/execute calls
// would mutate a real pool's connection states, without touching a real
// database - original_source's BackendShim.
type backendShim struct {
	pool *poolModel
	cfg  Config
}

func newBackendShim(cfg Config) *backendShim {
	return &backendShim{pool: newPoolModel(cfg.PoolSize), cfg: cfg}
}

// apply runs one op against one task, mutating both in place, and reports a
// fatal protocol error (double checkout, commit without begin, etc. - bugs
// in the simulator's own task-selection logic, never in the thing being
// modeled) separately from a simulated runtime error (busy/io/panic).
func (b *backendShim) apply(task *taskState, o op, sleepMs uint64, rng *rand.Rand) (stepOutcome, error) {
	switch o {
	case opSleep:
		return stepOutcome{connID: task.connID}, nil
	case opCheckout:
		return b.checkout(task, rng)
	case opReturn:
		return b.returnConn(task)
	case opBegin:
		return b.beginTx(task, rng)
	case opCommit:
		return b.commitTx(task, rng)
	case opRollback:
		return b.rollbackTx(task, rng)
	case opExecute, opSelect, opDDL:
		return b.execute(task, rng)
	default:
		return stepOutcome{}, fmt.Errorf("unknown op %v", o)
	}
}

func (b *backendShim) checkout(task *taskState, rng *rand.Rand) (stepOutcome, error) {
	if task.connID != -1 {
		return stepOutcome{}, errors.New("task attempted double checkout")
	}

	available := b.pool.availableConnIDs()
	if len(available) == 0 {
		err := errPoolEmpty
		return stepOutcome{err: &err, connID: -1}, nil
	}

	connID := available[rng.Intn(len(available))]
	slot := &b.pool.conns[connID]
	slot.checkedOutBy = task.id
	slot.state = connIdle
	task.connID = connID

	return stepOutcome{connID: connID}, nil
}

func (b *backendShim) returnConn(task *taskState) (stepOutcome, error) {
	if task.connID == -1 {
		return stepOutcome{}, errors.New("task returned without a checkout")
	}
	if task.inTx {
		return stepOutcome{}, errors.New("task returned while in transaction")
	}

	connID := task.connID
	slot := &b.pool.conns[connID]
	slot.checkedOutBy = -1
	if slot.state != connBroken {
		slot.state = connIdle
	}
	task.connID = -1

	return stepOutcome{connID: connID}, nil
}

func (b *backendShim) beginTx(task *taskState, rng *rand.Rand) (stepOutcome, error) {
	if task.connID == -1 {
		return stepOutcome{}, errors.New("task began without a checkout")
	}
	if task.inTx {
		return stepOutcome{}, errors.New("task attempted nested begin")
	}

	connID := task.connID
	if outcome, injected := b.injectError(task, connID, rng); injected {
		return outcome, nil
	}

	b.pool.conns[connID].state = connInTx
	task.inTx = true
	return stepOutcome{connID: connID}, nil
}

func (b *backendShim) commitTx(task *taskState, rng *rand.Rand) (stepOutcome, error) {
	if task.connID == -1 {
		return stepOutcome{}, errors.New("task committed without a checkout")
	}
	if !task.inTx {
		return stepOutcome{}, errors.New("task committed without an active tx")
	}

	connID := task.connID
	if outcome, injected := b.injectError(task, connID, rng); injected {
		return outcome, nil
	}

	b.pool.conns[connID].state = connIdle
	task.inTx = false
	return stepOutcome{connID: connID}, nil
}

func (b *backendShim) rollbackTx(task *taskState, rng *rand.Rand) (stepOutcome, error) {
	if task.connID == -1 {
		return stepOutcome{}, errors.New("task rolled back without a checkout")
	}
	if !task.inTx {
		return stepOutcome{}, errors.New("task rolled back without an active tx")
	}

	connID := task.connID
	if outcome, injected := b.injectError(task, connID, rng); injected {
		return outcome, nil
	}

	b.pool.conns[connID].state = connIdle
	task.inTx = false
	return stepOutcome{connID: connID}, nil
}

func (b *backendShim) execute(task *taskState, rng *rand.Rand) (stepOutcome, error) {
	if task.connID == -1 {
		return stepOutcome{}, errors.New("task executed without a checkout")
	}

	connID := task.connID
	if outcome, injected := b.injectError(task, connID, rng); injected {
		return outcome, nil
	}

	if !task.inTx {
		slot := &b.pool.conns[connID]
		if slot.state != connBroken {
			slot.state = connIdle
		}
	}

	return stepOutcome{connID: connID}, nil
}

// injectError rolls for a simulated runtime failure (panic/busy/io) at the
// configured rates, mutating pool/task state the same way a real failure
// would (breaking the connection, marking it busy) before reporting it.
func (b *backendShim) injectError(task *taskState, connID int, rng *rand.Rand) (stepOutcome, bool) {
	roll := rng.Float64()

	if roll < b.cfg.PanicRate {
		b.breakConnection(task, connID)
		err := errPanic
		return stepOutcome{err: &err, connID: connID}, true
	}
	if roll < b.cfg.PanicRate+b.cfg.BusyRate {
		if !task.inTx {
			b.pool.conns[connID].state = connBusy
		}
		err := errBusy
		return stepOutcome{err: &err, connID: connID}, true
	}
	if roll < b.cfg.PanicRate+b.cfg.BusyRate+0.01 {
		b.breakConnection(task, connID)
		err := errIO
		return stepOutcome{err: &err, connID: connID}, true
	}

	return stepOutcome{}, false
}

func (b *backendShim) breakConnection(task *taskState, connID int) {
	slot := &b.pool.conns[connID]
	slot.state = connBroken
	slot.checkedOutBy = -1
	task.connID = -1
	task.inTx = false
}

// nextOp picks the next op for a task the way original_source's next_op
// does: a flat chance to sleep, a forced checkout if the task holds no
// connection, and otherwise a weighted choice that differs depending on
// whether the task is mid-transaction.
func nextOp(task taskState, inFlightTx int, cfg Config, rng *rand.Rand) (op, uint64) {
	if rng.Float64() < cfg.SleepRate {
		return opSleep, uint64(1 + rng.Intn(50))
	}

	if task.connID == -1 {
		return opCheckout, 0
	}

	if task.inTx {
		weights := []weightedOp{
			{opExecute, 0.45},
			{opSelect, 0.25},
			{opCommit, 0.15},
			{opRollback, 0.10},
			{opDDL, cfg.DDLRate},
		}
		return chooseWeighted(weights, rng), 0
	}

	weights := []weightedOp{
		{opExecute, 0.35},
		{opSelect, 0.25},
		{opReturn, 0.15},
		{opDDL, cfg.DDLRate},
	}
	if inFlightTx < cfg.MaxInFlightTx {
		weights = append(weights, weightedOp{opBegin, 0.20})
	}
	return chooseWeighted(weights, rng), 0
}

type weightedOp struct {
	op     op
	weight float64
}

func chooseWeighted(items []weightedOp, rng *rand.Rand) op {
	var total float64
	for _, it := range items {
		if it.weight > 0 {
			total += it.weight
		}
	}
	if total <= 1e-12 {
		if len(items) == 0 {
			return opSleep
		}
		return items[0].op
	}

	target := rng.Float64() * total
	for _, it := range items {
		w := it.weight
		if w < 0 {
			w = 0
		}
		if target <= w {
			return it.op
		}
		target -= w
	}
	return items[len(items)-1].op
}
