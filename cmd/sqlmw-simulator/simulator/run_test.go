package simulator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunIsDeterministicForAFixedSeed(t *testing.T) {
	cfg := defaultConfig()
	cfg.applyQuick()
	cfg.Seed = 42
	pathA := filepath.Join(t.TempDir(), "trace-a.json")
	cfg.LogPath = pathA

	require.NoError(t, Run(cfg))

	pathB := filepath.Join(t.TempDir(), "trace-b.json")
	cfg.LogPath = pathB
	require.NoError(t, Run(cfg))

	a, err := os.ReadFile(pathA)
	require.NoError(t, err)
	b, err := os.ReadFile(pathB)
	require.NoError(t, err)
	require.Equal(t, string(a), string(b))
}

func TestRunRespectsIterationLimit(t *testing.T) {
	cfg := defaultConfig()
	cfg.Seed = 7
	cfg.Iterations = 500
	cfg.PoolSize = 4
	cfg.Tasks = 8

	require.NoError(t, Run(cfg))
}

func TestRunWritesLogFile(t *testing.T) {
	cfg := defaultConfig()
	cfg.applyQuick()
	cfg.Seed = 1
	cfg.Iterations = 200
	logPath := filepath.Join(t.TempDir(), "trace.json")
	cfg.LogPath = logPath

	require.NoError(t, Run(cfg))

	info, err := os.Stat(logPath)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}
