// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lssa-labs/treasuryvm/pebble"
	"github.com/lssa-labs/treasuryvm/utils"
)

// New opens the ledger under [dataDir]/[namespace] and returns it with the
// registry its metrics are recorded in.
func New(cfg pebble.Config, dataDir string, namespace string) (*pebble.Database, *prometheus.Registry, error) {
	path, err := utils.InitSubDirectory(dataDir, namespace)
	if err != nil {
		return nil, nil, err
	}
	return pebble.New(path, cfg)
}
