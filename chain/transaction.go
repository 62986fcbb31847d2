// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/lssa-labs/treasuryvm/auth"
	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/consts"
	"github.com/lssa-labs/treasuryvm/state"
	"github.com/lssa-labs/treasuryvm/storage"
	"github.com/lssa-labs/treasuryvm/utils"
)

// Message is the part of a transaction its signers commit to.
type Message struct {
	Program  codec.ProgramID `json:"program"`
	Accounts []codec.Address `json:"accounts"`
	// Nonces holds, for each witness in order, the nonce the signer's
	// account must have when the transaction runs.
	Nonces      []uint64    `json:"nonces"`
	Instruction codec.Bytes `json:"instruction"`
}

func (m *Message) Size() int {
	return codec.ProgramIDLen +
		consts.ByteLen + len(m.Accounts)*codec.AddressLen +
		consts.ByteLen + len(m.Nonces)*consts.Uint64Len +
		codec.BytesLen(m.Instruction)
}

func (m *Message) Marshal(p *codec.Packer) {
	p.PackProgramID(m.Program)
	p.PackAddresses(m.Accounts)
	p.PackUint64s(m.Nonces)
	p.PackBytes(m.Instruction)
}

func UnmarshalMessage(p *codec.Packer) (*Message, error) {
	var m Message
	p.UnpackProgramID(true, &m.Program)
	m.Accounts = p.UnpackAddresses(consts.MaxTransactionAccounts, false)
	m.Nonces = p.UnpackUint64s(consts.MaxWitnesses)
	var ix []byte
	p.UnpackBytes(consts.MaxInstructionSize, false, &ix)
	m.Instruction = ix
	if err := p.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Digest is the SHA-256 of the packed message. Witnesses sign it.
func (m *Message) Digest() ([]byte, error) {
	p := codec.NewWriter(m.Size(), consts.MaxTransactionSize)
	m.Marshal(p)
	if err := p.Err(); err != nil {
		return nil, err
	}
	return hashing.ComputeHash256(p.Bytes()), nil
}

// Transaction is a signed message plus the multisig approvals forwarded
// to the top-level program.
type Transaction struct {
	Message   *Message        `json:"message"`
	Witnesses []*auth.Witness `json:"witnesses"`
	Approvals []*auth.Witness `json:"approvals"`

	digest []byte
	bytes  []byte
	id     ids.ID
}

func NewTx(msg *Message) *Transaction {
	return &Transaction{Message: msg}
}

func (t *Transaction) Digest() ([]byte, error) {
	if len(t.digest) > 0 {
		return t.digest, nil
	}
	digest, err := t.Message.Digest()
	if err != nil {
		return nil, err
	}
	t.digest = digest
	return digest, nil
}

// Sign adds a witness for every factory over the message digest. The
// message's nonces must already list each signer's nonce in the same order.
func (t *Transaction) Sign(factories ...*auth.ED25519Factory) (*Transaction, error) {
	msg, err := t.Digest()
	if err != nil {
		return nil, err
	}
	for _, f := range factories {
		t.Witnesses = append(t.Witnesses, f.Sign(msg))
	}
	return t.reload()
}

// Approve attaches multisig approvals. Approvals are not covered by the
// digest; each one signs its own payload.
func (t *Transaction) Approve(approvals ...*auth.Witness) (*Transaction, error) {
	t.Approvals = append(t.Approvals, approvals...)
	return t.reload()
}

// reload ensures the transaction is fully initialized and correct by
// reloading it from bytes.
func (t *Transaction) reload() (*Transaction, error) {
	t.bytes = nil
	p := codec.NewWriter(t.Size(), consts.MaxTransactionSize)
	t.Marshal(p)
	if err := p.Err(); err != nil {
		return nil, err
	}
	return UnmarshalTx(codec.NewReader(p.Bytes(), consts.MaxTransactionSize))
}

func (t *Transaction) Bytes() []byte { return t.bytes }

func (t *Transaction) ID() ids.ID { return t.id }

func (t *Transaction) Size() int {
	return t.Message.Size() +
		consts.ByteLen + len(t.Witnesses)*auth.WitnessSize +
		consts.ByteLen + len(t.Approvals)*auth.WitnessSize
}

func (t *Transaction) Marshal(p *codec.Packer) {
	if len(t.bytes) > 0 {
		p.PackFixedBytes(t.bytes)
		return
	}
	t.Message.Marshal(p)
	marshalWitnesses(p, t.Witnesses)
	marshalWitnesses(p, t.Approvals)
}

func marshalWitnesses(p *codec.Packer, witnesses []*auth.Witness) {
	if len(witnesses) > int(consts.MaxUint8) {
		p.AddErr(codec.ErrTooManyItems)
		return
	}
	p.PackByte(uint8(len(witnesses)))
	for _, w := range witnesses {
		w.Marshal(p)
	}
}

func unmarshalWitnesses(p *codec.Packer) ([]*auth.Witness, error) {
	n := int(p.UnpackByte())
	if err := p.Err(); err != nil {
		return nil, err
	}
	if n > consts.MaxWitnesses {
		return nil, fmt.Errorf("%w: %d", ErrTooManyWitnesses, n)
	}
	if n == 0 {
		return nil, nil
	}
	witnesses := make([]*auth.Witness, n)
	for i := range witnesses {
		w, err := auth.UnmarshalWitness(p)
		if err != nil {
			return nil, err
		}
		witnesses[i] = w
	}
	return witnesses, nil
}

func UnmarshalTx(p *codec.Packer) (*Transaction, error) {
	start := p.Offset()
	msg, err := UnmarshalMessage(p)
	if err != nil {
		return nil, fmt.Errorf("%w: could not unmarshal message: %w", ErrMalformedTx, err)
	}
	witnesses, err := unmarshalWitnesses(p)
	if err != nil {
		return nil, fmt.Errorf("%w: could not unmarshal witnesses: %w", ErrMalformedTx, err)
	}
	approvals, err := unmarshalWitnesses(p)
	if err != nil {
		return nil, fmt.Errorf("%w: could not unmarshal approvals: %w", ErrMalformedTx, err)
	}
	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTx, err)
	}
	tx := &Transaction{
		Message:   msg,
		Witnesses: witnesses,
		Approvals: approvals,
	}
	codecBytes := p.Bytes()
	tx.bytes = codecBytes[start:p.Offset()]
	tx.id = utils.ToID(tx.bytes)
	return tx, nil
}

// ParseTx decodes a transaction that must fill [b] exactly.
func ParseTx(b []byte) (*Transaction, error) {
	p := codec.NewReader(b, consts.MaxTransactionSize)
	tx, err := UnmarshalTx(p)
	if err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTx, codec.ErrExtraBytes)
	}
	return tx, nil
}

// StateKeys returns the storage key of every declared account. All of
// them may be written.
func (t *Transaction) StateKeys() state.Keys {
	keys := make(state.Keys, len(t.Message.Accounts))
	for _, addr := range t.Message.Accounts {
		keys.Add(string(storage.AccountKey(addr)), state.Write)
	}
	return keys
}

// SyntacticVerify runs the checks that need no state.
func (t *Transaction) SyntacticVerify() error {
	msg := t.Message
	if len(msg.Accounts) > consts.MaxTransactionAccounts {
		return fmt.Errorf("%w: %d", ErrTooManyAccounts, len(msg.Accounts))
	}
	declared := make(map[codec.Address]struct{}, len(msg.Accounts))
	for _, addr := range msg.Accounts {
		if _, ok := declared[addr]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateAccount, addr)
		}
		declared[addr] = struct{}{}
	}
	if len(msg.Instruction) > consts.MaxInstructionSize {
		return fmt.Errorf("%w: %d bytes", ErrInstructionTooLarge, len(msg.Instruction))
	}
	if len(t.Witnesses) > consts.MaxWitnesses || len(t.Approvals) > consts.MaxWitnesses {
		return fmt.Errorf("%w: %d witnesses, %d approvals", ErrTooManyWitnesses, len(t.Witnesses), len(t.Approvals))
	}
	if len(t.Witnesses) != len(msg.Nonces) {
		return fmt.Errorf("%w: %d nonces, %d witnesses", ErrNonceCountMismatch, len(msg.Nonces), len(t.Witnesses))
	}
	signers := make(map[codec.Address]struct{}, len(t.Witnesses))
	for _, w := range t.Witnesses {
		addr := w.Address()
		if _, ok := signers[addr]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateSigner, addr)
		}
		if _, ok := declared[addr]; !ok {
			return fmt.Errorf("%w: %s", ErrSignerNotDeclared, addr)
		}
		signers[addr] = struct{}{}
	}
	return nil
}
