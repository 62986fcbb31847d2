// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"fmt"

	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/crypto"
	"github.com/lssa-labs/treasuryvm/crypto/ed25519"
)

const (
	WitnessSize = 1 + ed25519.PublicKeyLen + ed25519.SignatureLen

	keyedDomain = "treasuryvm/keyed/v1"
)

// Witness is a signature together with the key that produced it.
type Witness struct {
	Signer    ed25519.PublicKey `json:"signer"`
	Signature ed25519.Signature `json:"signature"`

	addr codec.Address
}

func (*Witness) GetTypeID() uint8 {
	return ED25519ID
}

// Address returns the keyed account controlled by the signer.
func (w *Witness) Address() codec.Address {
	if w.addr == codec.EmptyAddress {
		w.addr = NewED25519Address(w.Signer)
	}
	return w.addr
}

func (w *Witness) Verify(v Verifier, msg []byte) error {
	if !v.Verify(w.Signer, msg, w.Signature) {
		return crypto.ErrInvalidSignature
	}
	return nil
}

func (*Witness) Size() int {
	return WitnessSize
}

func (w *Witness) Marshal(p *codec.Packer) {
	p.PackByte(ED25519ID)
	p.PackFixedBytes(w.Signer[:])
	p.PackFixedBytes(w.Signature[:])
}

func UnmarshalWitness(p *codec.Packer) (*Witness, error) {
	if typeID := p.UnpackByte(); p.Err() == nil && typeID != ED25519ID {
		return nil, fmt.Errorf("unexpected witness typeID: %d != %d", typeID, ED25519ID)
	}
	var (
		w      Witness
		signer []byte
		sig    []byte
	)
	p.UnpackFixedBytes(ed25519.PublicKeyLen, &signer)
	p.UnpackFixedBytes(ed25519.SignatureLen, &sig)
	if err := p.Err(); err != nil {
		return nil, err
	}
	copy(w.Signer[:], signer)
	copy(w.Signature[:], sig)
	return &w, nil
}

// ED25519Factory produces witnesses with a private key.
type ED25519Factory struct {
	priv ed25519.PrivateKey
}

func NewED25519Factory(priv ed25519.PrivateKey) *ED25519Factory {
	return &ED25519Factory{priv}
}

func (f *ED25519Factory) Sign(msg []byte) *Witness {
	return &Witness{Signer: f.priv.PublicKey(), Signature: ed25519.Sign(msg, f.priv)}
}

func (f *ED25519Factory) PublicKey() ed25519.PublicKey {
	return f.priv.PublicKey()
}

func (f *ED25519Factory) Address() codec.Address {
	return NewED25519Address(f.priv.PublicKey())
}

// NewED25519Address returns the keyed account id of [pk].
func NewED25519Address(pk ed25519.PublicKey) codec.Address {
	b := make([]byte, 0, len(keyedDomain)+1+ed25519.PublicKeyLen)
	b = append(b, keyedDomain...)
	b = append(b, 0x00)
	b = append(b, pk[:]...)
	return codec.Address(hashing.ComputeHash256Array(b))
}

// VerifyAll checks every witness over [msg], batching when there are enough
// of them for batch verification to pay off.
func VerifyAll(v Verifier, msg []byte, witnesses []*Witness) error {
	if _, ok := v.(ED25519Verifier); ok && len(witnesses) >= ed25519.MinBatchSize {
		batch := ed25519.NewBatch(len(witnesses))
		for _, w := range witnesses {
			batch.Add(msg, w.Signer, w.Signature)
		}
		return batch.VerifyAsync()()
	}
	for i, w := range witnesses {
		if err := w.Verify(v, msg); err != nil {
			return fmt.Errorf("%w: witness %d", err, i)
		}
	}
	return nil
}
