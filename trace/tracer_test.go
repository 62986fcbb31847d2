// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisabledTracer(t *testing.T) {
	require := require.New(t)

	tracer, err := New(&Config{AppName: "treasuryvm"})
	require.NoError(err)
	_, span := tracer.Start(context.Background(), "span")
	require.False(span.SpanContext().IsSampled())
	span.End()
	require.NoError(tracer.Close())
}

func TestEnabledTracer(t *testing.T) {
	require := require.New(t)

	tracer, err := New(&Config{
		Enabled:    true,
		SampleRate: 1,
		AppName:    "treasuryvm",
		Agent:      "test",
		Version:    "v0.0.1",
	})
	require.NoError(err)
	_, span := tracer.Start(context.Background(), "span")
	require.True(span.SpanContext().IsSampled())
	span.End()
}
