// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package treasury

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchemaOrder(t *testing.T) {
	require := require.New(t)

	for i, spec := range Schema {
		require.Equal(uint8(i), spec.TypeID, spec.Name)
		found, ok := Lookup(spec.TypeID)
		require.True(ok)
		require.Equal(spec.Name, found.Name)
	}
	_, ok := Lookup(ChangeThresholdID + 1)
	require.False(ok)
}

func TestSchemaPrivileged(t *testing.T) {
	privileged := map[uint8]bool{
		ExecuteID:         true,
		AddMemberID:       true,
		RemoveMemberID:    true,
		ChangeThresholdID: true,
	}
	for _, spec := range Schema {
		require.Equal(t, privileged[spec.TypeID], spec.Privileged, spec.Name)
	}
}

func TestIDLJSON(t *testing.T) {
	require := require.New(t)

	b, err := NewIDL("0.1.0", ID).JSON()
	require.NoError(err)

	var decoded IDL
	require.NoError(json.Unmarshal(b, &decoded))
	require.Equal(Name, decoded.Name)
	require.Equal("0.1.0", decoded.Version)
	require.Equal(ID, decoded.ProgramID)
	require.Equal(Schema, decoded.Instructions)
	require.Contains(string(b), `"name": "create_vault"`)
}
