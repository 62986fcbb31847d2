// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"runtime"

	"github.com/lssa-labs/treasuryvm/consts"
)

type Config struct {
	// MaxCallDepth caps chained-call nesting below the top-level call.
	MaxCallDepth int `json:"maxCallDepth"`
	// MaxChainedCalls caps the chained calls run by one transaction.
	MaxChainedCalls int `json:"maxChainedCalls"`
	// ExecutionCores bounds how many transactions of a batch run at once.
	ExecutionCores int `json:"executionCores"`
}

func NewDefaultConfig() Config {
	return Config{
		MaxCallDepth:    consts.DefaultMaxCallDepth,
		MaxChainedCalls: consts.DefaultMaxChainedCalls,
		ExecutionCores:  runtime.NumCPU(),
	}
}
