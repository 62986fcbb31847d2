// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/lssa-labs/treasuryvm/chain"
	"github.com/lssa-labs/treasuryvm/pebble"
	"github.com/lssa-labs/treasuryvm/trace"
)

const (
	defaultDataDir = ".treasury"
	defaultLogDir  = ".treasury/logs"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	// Logging
	LogLevel        logging.Level `json:"logLevel"`
	LogDisplayLevel logging.Level `json:"logDisplayLevel"`
	LogDir          string        `json:"logDir"`

	// Ledger
	DataDir string        `json:"dataDir"`
	Pebble  pebble.Config `json:"pebble"`

	Chain chain.Config `json:"chain"`
	Trace trace.Config `json:"trace"`
}

// New parses [b] over the defaults. Empty [b] yields the defaults.
func New(b []byte) (*Config, error) {
	c := &Config{
		LogLevel:        logging.Info,
		LogDisplayLevel: logging.Error,
		LogDir:          defaultLogDir,
		DataDir:         defaultDataDir,
		Pebble:          pebble.NewDefaultConfig(),
		Chain:           chain.NewDefaultConfig(),
	}
	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
	}
	if err := c.Verify(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the config at [path]. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(nil)
	}
	if err != nil {
		return nil, err
	}
	return New(b)
}

func (c *Config) Verify() error {
	switch {
	case len(c.DataDir) == 0:
		return fmt.Errorf("%w: dataDir is empty", ErrInvalidConfig)
	case c.Chain.MaxCallDepth < 1:
		return fmt.Errorf("%w: maxCallDepth must be positive", ErrInvalidConfig)
	case c.Chain.MaxChainedCalls < 1:
		return fmt.Errorf("%w: maxChainedCalls must be positive", ErrInvalidConfig)
	case c.Chain.ExecutionCores < 1:
		return fmt.Errorf("%w: executionCores must be positive", ErrInvalidConfig)
	default:
		return nil
	}
}
