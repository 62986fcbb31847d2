// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/consts"
)

func TestDefaults(t *testing.T) {
	require := require.New(t)

	c, err := New(nil)
	require.NoError(err)
	require.Equal(logging.Info, c.LogLevel)
	require.Equal(defaultDataDir, c.DataDir)
	require.Equal(consts.DefaultMaxCallDepth, c.Chain.MaxCallDepth)
	require.Equal(consts.DefaultMaxChainedCalls, c.Chain.MaxChainedCalls)
	require.True(c.Pebble.Sync)
	require.False(c.Trace.Enabled)
}

func TestOverrides(t *testing.T) {
	require := require.New(t)

	c, err := New([]byte(`{
		"logLevel": "debug",
		"dataDir": "/tmp/ledger",
		"chain": {"maxCallDepth": 4},
		"pebble": {"sync": false},
		"trace": {"enabled": true, "sampleRate": 0.5}
	}`))
	require.NoError(err)
	require.Equal(logging.Debug, c.LogLevel)
	require.Equal("/tmp/ledger", c.DataDir)
	require.Equal(4, c.Chain.MaxCallDepth)
	// Fields left out keep their defaults.
	require.Equal(consts.DefaultMaxChainedCalls, c.Chain.MaxChainedCalls)
	require.False(c.Pebble.Sync)
	require.True(c.Trace.Enabled)
	require.Equal(0.5, c.Trace.SampleRate)
}

func TestInvalid(t *testing.T) {
	require := require.New(t)

	_, err := New([]byte(`{"chain": {"maxCallDepth": 0}}`))
	require.ErrorIs(err, ErrInvalidConfig)

	_, err = New([]byte(`{"dataDir": ""}`))
	require.ErrorIs(err, ErrInvalidConfig)

	_, err = New([]byte(`{`))
	require.Error(err)
}

func TestLoadMissing(t *testing.T) {
	require := require.New(t)

	c, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(err)
	require.Equal(defaultDataDir, c.DataDir)
}

func TestLoadFile(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(os.WriteFile(path, []byte(`{"logDir": "/var/log/treasury"}`), 0o600))
	c, err := Load(path)
	require.NoError(err)
	require.Equal("/var/log/treasury", c.LogDir)
}

func TestSessionRoundTrip(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "session.yaml")
	s, err := LoadSession(path)
	require.NoError(err)
	_, ok := s.KeyFile("")
	require.False(ok)

	key := codec.Address{0x1}
	definition := codec.Address{0xd}
	s.AddKey(key, "/keys/a.pk")
	s.AddKey(codec.Address{0x2}, "/keys/b.pk")
	s.AddToken("GOLD", definition)
	s.Multisig = codec.Address{0x3}.String()
	require.NoError(s.Save(path))

	loaded, err := LoadSession(path)
	require.NoError(err)
	require.Equal(s, loaded)
	require.Equal(key.String(), loaded.DefaultKey)

	file, ok := loaded.KeyFile("")
	require.True(ok)
	require.Equal("/keys/a.pk", file)
	file, ok = loaded.KeyFile(codec.Address{0x2}.String())
	require.True(ok)
	require.Equal("/keys/b.pk", file)

	got, ok, err := loaded.Token("GOLD")
	require.NoError(err)
	require.True(ok)
	require.Equal(definition, got)
	_, ok, err = loaded.Token("SILVER")
	require.NoError(err)
	require.False(ok)
}
