// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/hex"

	"github.com/ava-labs/avalanchego/utils/hashing"
)

const (
	AddressLen   = 32
	ProgramIDLen = 32
)

// Address identifies a ledger account. It is either derived from a public key
// (keyed accounts) or from a program id and a seed (program-derived accounts).
type Address [AddressLen]byte

// ProgramID identifies a program that may own accounts.
type ProgramID [ProgramIDLen]byte

var (
	EmptyAddress   = Address{}
	EmptyProgramID = ProgramID{}
)

const programDomain = "treasuryvm/program/v1"

// NewProgramID returns the id of the program registered under [name].
func NewProgramID(name string) ProgramID {
	b := make([]byte, 0, len(programDomain)+1+len(name))
	b = append(b, programDomain...)
	b = append(b, 0x00)
	b = append(b, name...)
	return ProgramID(hashing.ComputeHash256Array(b))
}

// StringToAddress parses a hex address (with or without the 0x prefix).
func StringToAddress(s string) (Address, error) {
	b, err := LoadHex(s, AddressLen)
	if err != nil {
		return EmptyAddress, err
	}
	return Address(b), nil
}

// StringToProgramID parses a hex program id (with or without the 0x prefix).
func StringToProgramID(s string) (ProgramID, error) {
	b, err := LoadHex(s, ProgramIDLen)
	if err != nil {
		return EmptyProgramID, err
	}
	return ProgramID(b), nil
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// MarshalText returns the hex representation of a.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses a hex-encoded address.
func (a *Address) UnmarshalText(input []byte) error {
	parsed, err := StringToAddress(string(input))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// String implements fmt.Stringer.
func (p ProgramID) String() string {
	return "0x" + hex.EncodeToString(p[:])
}

// IsEmpty reports whether p is the unset program id.
func (p ProgramID) IsEmpty() bool {
	return p == EmptyProgramID
}

// MarshalText returns the hex representation of p.
func (p ProgramID) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a hex-encoded program id.
func (p *ProgramID) UnmarshalText(input []byte) error {
	parsed, err := StringToProgramID(string(input))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
