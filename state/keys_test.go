// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermissionsHas(t *testing.T) {
	tests := []struct {
		name     string
		perm     Permissions
		canRead  bool
		canWrite bool
	}{
		{name: "none", perm: None},
		{name: "read", perm: Read, canRead: true},
		{name: "write implies read", perm: Write, canRead: true, canWrite: true},
		{name: "all", perm: All, canRead: true, canWrite: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			require.Equal(tt.canRead, tt.perm.Has(Read))
			require.Equal(tt.canWrite, tt.perm.Has(Write))
			require.True(tt.perm.Has(None))
		})
	}
}

func TestKeysAddUnions(t *testing.T) {
	require := require.New(t)

	keys := Keys{}
	keys.Add("vault", Write)
	keys.Add("vault", Read)
	require.Equal(Write, keys["vault"])

	keys.Add("state", Read)
	require.True(keys["state"].Has(Read))
	require.False(keys["state"].Has(Write))
	require.Equal("read", keys["state"].String())
	require.Len(keys, 2)
}
