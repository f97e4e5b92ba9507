package simulator

import "time"

// Config is the simulator's run configuration, the Go encoding of
// original_source/simulator/src/main.rs's SimConfig.
type Config struct {
	Duration        time.Duration `json:"durationMs"`
	Iterations      uint64        `json:"iterations"`
	Seed            uint64        `json:"seed"`
	PoolSize        int           `json:"poolSize"`
	Tasks           int           `json:"tasks"`
	DDLRate         float64       `json:"ddlRate"`
	BusyRate        float64       `json:"busyRate"`
	PanicRate       float64       `json:"panicRate"`
	SleepRate       float64       `json:"sleepRate"`
	MaxInFlightTx   int           `json:"maxInFlightTx"`
	LogPath         string        `json:"log,omitempty"`
	Preset          string        `json:"preset,omitempty"`
	FirstStepsLimit int           `json:"-"`
	TailStepsLimit  int           `json:"-"`
}

func defaultConfig() Config {
	return Config{
		PoolSize:        8,
		Tasks:           16,
		DDLRate:         0.02,
		BusyRate:        0.01,
		PanicRate:       0.001,
		SleepRate:       0.05,
		MaxInFlightTx:   4,
		FirstStepsLimit: 30,
		TailStepsLimit:  80,
	}
}

// applyQuick mirrors SimConfig::apply_quick: a short, low-risk preset for
// smoke-testing a change before reaching for --stress.
func (c *Config) applyQuick() {
	c.Preset = "quick"
	c.Iterations = 10_000
	c.Duration = 0
	c.PoolSize = 4
	c.Tasks = 4
	c.DDLRate = 0.01
	c.BusyRate = 0.01
	c.PanicRate = 0.0005
	c.SleepRate = 0.05
	c.MaxInFlightTx = 2
}

// applyStress mirrors SimConfig::apply_stress.
func (c *Config) applyStress() {
	c.Preset = "stress"
	c.Iterations = 250_000
	c.Duration = 0
	c.PoolSize = 16
	c.Tasks = 64
	c.DDLRate = 0.05
	c.BusyRate = 0.03
	c.PanicRate = 0.002
	c.SleepRate = 0.08
	c.MaxInFlightTx = 8
}

func clampRate(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
