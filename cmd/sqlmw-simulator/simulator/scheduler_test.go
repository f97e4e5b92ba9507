package simulator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchedulerStartsWithEveryTaskReady(t *testing.T) {
	s := newScheduler(3)
	rng := rand.New(rand.NewSource(1))

	seen := map[int]bool{}
	for len(seen) < 3 {
		taskID, ok := s.nextReady(rng)
		require.True(t, ok)
		seen[taskID] = true
	}
}

func TestSchedulerSleepDelaysReadiness(t *testing.T) {
	s := newScheduler(1)
	rng := rand.New(rand.NewSource(1))

	taskID, ok := s.nextReady(rng)
	require.True(t, ok)

	s.sleep(taskID, 10)

	// No other task is ready, and the timer hasn't fired yet.
	woken, ok := s.nextReady(rng)
	require.True(t, ok)
	require.Equal(t, taskID, woken)
	require.GreaterOrEqual(t, s.nowMs, uint64(10))
}

func TestSchedulerExhaustsWhenNoTasksRemain(t *testing.T) {
	s := &scheduler{timers: map[uint64][]int{}}
	_, ok := s.nextReady(rand.New(rand.NewSource(1)))
	require.False(t, ok)
}

func TestChooseWeightedHandlesAllZeroWeights(t *testing.T) {
	items := []weightedOp{{opBegin, 0}, {opCommit, 0}}
	got := chooseWeighted(items, rand.New(rand.NewSource(1)))
	require.Equal(t, opBegin, got)
}
