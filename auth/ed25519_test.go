// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lssa-labs/treasuryvm/auth"
	"github.com/lssa-labs/treasuryvm/auth/authtest"
	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/crypto"
	"github.com/lssa-labs/treasuryvm/crypto/ed25519"
)

func newFactory(t *testing.T) *auth.ED25519Factory {
	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(t, err)
	return auth.NewED25519Factory(priv)
}

func TestWitnessVerify(t *testing.T) {
	require := require.New(t)

	f := newFactory(t)
	msg := []byte("payload")
	w := f.Sign(msg)
	require.Equal(f.Address(), w.Address())
	require.NoError(w.Verify(auth.ED25519Verifier{}, msg))
	require.ErrorIs(w.Verify(auth.ED25519Verifier{}, []byte("other")), crypto.ErrInvalidSignature)
}

func TestWitnessVerifyMock(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	f := newFactory(t)
	msg := []byte("payload")
	w := f.Sign(msg)

	v := authtest.NewMockVerifier(ctrl)
	v.EXPECT().Verify(w.Signer, msg, w.Signature).Return(false)
	require.ErrorIs(w.Verify(v, msg), crypto.ErrInvalidSignature)
}

func TestWitnessMarshal(t *testing.T) {
	require := require.New(t)

	w := newFactory(t).Sign([]byte("payload"))
	p := codec.NewWriter(w.Size(), w.Size())
	w.Marshal(p)
	require.NoError(p.Err())

	decoded, err := auth.UnmarshalWitness(codec.NewReader(p.Bytes(), w.Size()))
	require.NoError(err)
	require.Equal(w.Signer, decoded.Signer)
	require.Equal(w.Signature, decoded.Signature)

	b := p.Bytes()
	b[0] = 7
	_, err = auth.UnmarshalWitness(codec.NewReader(b, w.Size()))
	require.Error(err)
}

func TestKeyedAddressDistinct(t *testing.T) {
	require := require.New(t)

	a, b := newFactory(t), newFactory(t)
	require.NotEqual(a.Address(), b.Address())
	require.Equal(a.Address(), auth.NewED25519Address(a.PublicKey()))
}

func TestVerifyAll(t *testing.T) {
	msg := []byte("payload")
	for _, n := range []int{1, ed25519.MinBatchSize, 2 * ed25519.MinBatchSize} {
		witnesses := make([]*auth.Witness, n)
		for i := range witnesses {
			witnesses[i] = newFactory(t).Sign(msg)
		}
		require.NoError(t, auth.VerifyAll(auth.ED25519Verifier{}, msg, witnesses))

		witnesses[n-1].Signature[0]++
		require.ErrorIs(t, auth.VerifyAll(auth.ED25519Verifier{}, msg, witnesses), crypto.ErrInvalidSignature)
	}
}
