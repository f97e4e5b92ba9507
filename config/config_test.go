package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlmw/go-sql-middleware/testutils"
)

type samplePoolConfig struct {
	Backend  string `yaml:"backend" default:"sqlite"`
	PoolSize int    `yaml:"pool_size" default:"4"`
}

func (c *samplePoolConfig) Validate() error {
	if c.PoolSize <= 0 {
		return ErrInvalidArgument
	}
	return nil
}

func TestFromYAMLFileAppliesDefaults(t *testing.T) {
	testutils.WithYAMLFile(t, "backend: postgres\n", func(f *os.File) {
		var cfg samplePoolConfig
		require.NoError(t, FromYAMLFile(f.Name(), &cfg))
		require.Equal(t, "postgres", cfg.Backend)
		require.Equal(t, 4, cfg.PoolSize)
	})
}

func TestFromYAMLFilePropagatesValidationError(t *testing.T) {
	testutils.WithYAMLFile(t, "pool_size: 0\n", func(f *os.File) {
		var cfg samplePoolConfig
		err := FromYAMLFile(f.Name(), &cfg)
		testutils.ErrorIs(ErrInvalidConfiguration)(t, err)
	})
}

func TestFromYAMLFileRejectsNonStructPointer(t *testing.T) {
	err := FromYAMLFile("irrelevant.yaml", new(intValidator))
	testutils.ErrorIs(ErrInvalidArgument)(t, err)
}

// intValidator lets TestFromYAMLFileRejectsNonStructPointer pass a
// non-struct pointer through the Validator interface FromYAMLFile requires.
type intValidator int

func (*intValidator) Validate() error { return nil }
