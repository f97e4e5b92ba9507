package simulator

import (
	"fmt"
	"math/rand"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// eventLog keeps the first FirstStepsLimit and most recent TailStepsLimit
// step messages in memory so a failed run can dump the lead-up to the
// failure without having replayed the whole log, the same trade-off
// original_source's EventLog makes.
type eventLog struct {
	logger  *zap.Logger
	first   []string
	tail    []string
	tailCap int
}

func newEventLog(logger *zap.Logger, firstLimit, tailLimit int) *eventLog {
	return &eventLog{logger: logger, first: make([]string, 0, firstLimit), tailCap: tailLimit}
}

func (e *eventLog) record(step uint64, nowMs uint64, taskID int, o op, sleepMs uint64, connID int, result string) {
	opDisplay := o.String()
	if o == opSleep {
		opDisplay = fmt.Sprintf("Sleep(%dms)", sleepMs)
	}

	connLabel := "-"
	if connID != -1 {
		connLabel = fmt.Sprint(connID)
	}

	msg := fmt.Sprintf("step=%d time=%dms task=%d op=%s conn=%s result=%s",
		step, nowMs, taskID, opDisplay, connLabel, result)

	if len(e.first) < cap(e.first) {
		e.first = append(e.first, msg)
	}
	if e.tailCap > 0 {
		e.tail = append(e.tail, msg)
		if len(e.tail) > e.tailCap {
			e.tail = e.tail[len(e.tail)-e.tailCap:]
		}
	}

	e.logger.Info("step",
		zap.Uint64("step", step), zap.Uint64("time_ms", nowMs), zap.Int("task", taskID),
		zap.String("op", opDisplay), zap.String("conn", connLabel), zap.String("result", result))
}

func (e *eventLog) dumpFailure(reason string) {
	e.logger.Error("failure", zap.String("reason", reason))

	if len(e.first) > 0 {
		e.logger.Error("first steps")
		for _, line := range e.first {
			e.logger.Error(line)
		}
	}

	if len(e.tail) > 0 {
		e.logger.Error("tail steps")
		for _, line := range e.tail {
			e.logger.Error(line)
		}
	}
}

// newLogger builds a plain console/JSON zap core writing to stdout, teed
// into logPath if one was given - this CLI has no daemon-mode journald
// output to pick between the way logging.Config does, so it skips straight
// to the one core it needs.
func newLogger(logPath string) (*zap.Logger, func(), error) {
	writers := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	cleanup := func() {}

	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, zapcore.AddSync(f))
		cleanup = func() { _ = f.Close() }
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.NewMultiWriteSyncer(writers...), zapcore.InfoLevel)

	return zap.New(core), cleanup, nil
}

// Run executes the simulator to completion (iteration/duration limit or a
// broken invariant) and returns the reason it stopped as an error - a nil
// error on clean completion.
func Run(cfg Config) error {
	logger, cleanup, err := newLogger(cfg.LogPath)
	if err != nil {
		return err
	}
	defer cleanup()
	defer func() { _ = logger.Sync() }()

	logger.Info("config",
		zap.Uint64("seed", cfg.Seed), zap.Int("pool_size", cfg.PoolSize), zap.Int("tasks", cfg.Tasks),
		zap.Float64("ddl_rate", cfg.DDLRate), zap.Float64("busy_rate", cfg.BusyRate),
		zap.Float64("panic_rate", cfg.PanicRate), zap.Float64("sleep_rate", cfg.SleepRate),
		zap.Int("max_in_flight_tx", cfg.MaxInFlightTx), zap.String("preset", cfg.Preset))

	rng := rand.New(rand.NewSource(int64(cfg.Seed)))
	backend := newBackendShim(cfg)

	tasks := make([]taskState, cfg.Tasks)
	for i := range tasks {
		tasks[i] = taskState{id: i, connID: -1}
	}

	sched := newScheduler(cfg.Tasks)
	events := newEventLog(logger, cfg.FirstStepsLimit, cfg.TailStepsLimit)

	maxSteps := cfg.Iterations
	if maxSteps == 0 {
		maxSteps = ^uint64(0)
	}
	maxTimeMs := uint64(cfg.Duration.Milliseconds())
	if maxTimeMs == 0 {
		maxTimeMs = ^uint64(0)
	}

	var step uint64
	for step < maxSteps && sched.nowMs <= maxTimeMs {
		taskID, ok := sched.nextReady(rng)
		if !ok {
			break
		}

		inFlightTx := 0
		for _, t := range tasks {
			if t.inTx {
				inFlightTx++
			}
		}

		chosenOp, sleepMs := nextOp(tasks[taskID], inFlightTx, cfg, rng)
		outcome, applyErr := backend.apply(&tasks[taskID], chosenOp, sleepMs, rng)
		if applyErr != nil {
			events.dumpFailure(applyErr.Error())
			return applyErr
		}

		if chosenOp == opSleep {
			sched.sleep(taskID, sleepMs)
		} else {
			sched.markReady(taskID)
		}

		result := "Ok"
		if outcome.err != nil {
			result = fmt.Sprintf("Err(%s)", outcome.err.String())
		}
		events.record(step, sched.nowMs, taskID, chosenOp, sleepMs, outcome.connID, result)

		if err := oracleCheck(tasks, backend.pool); err != nil {
			events.dumpFailure(err.Error())
			return err
		}

		sched.advanceTime(1)
		step++
	}

	logger.Info("complete",
		zap.Uint64("steps", step), zap.Uint64("time_ms", sched.nowMs),
		zap.Int("tasks", cfg.Tasks), zap.Int("pool_size", cfg.PoolSize))

	return nil
}
