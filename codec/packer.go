// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/lssa-labs/treasuryvm/consts"
)

// Packer is a wrapper struct for the Packer struct
// from avalanchego/utils/wrappers/packing.go. A bool [required] parameter is
// added to many unpacking methods, which signals the packer to add an error
// if the expected method does not unpack properly.
type Packer struct {
	p *wrappers.Packer
}

// NewReader returns a Packer instance that reads from [src] and
// refuses to read more than [limit] bytes.
func NewReader(src []byte, limit int) *Packer {
	return &Packer{
		p: &wrappers.Packer{Bytes: src, MaxSize: limit},
	}
}

// NewWriter returns a Packer instance with an initial size of [initial] and a
// maximum size of [limit].
func NewWriter(initial, limit int) *Packer {
	return &Packer{
		p: &wrappers.Packer{
			MaxSize: limit,
			Bytes:   make([]byte, 0, initial),
		},
	}
}

// Bytes returns the bytes written so far.
func (p *Packer) Bytes() []byte {
	return p.p.Bytes
}

func (p *Packer) Offset() int {
	return p.p.Offset
}

func (p *Packer) Err() error {
	return p.p.Err
}

// Empty reports whether every byte of the source has been consumed.
func (p *Packer) Empty() bool {
	return p.p.Offset == len(p.p.Bytes)
}

func (p *Packer) PackByte(b byte) {
	p.p.PackByte(b)
}

func (p *Packer) UnpackByte() byte {
	return p.p.UnpackByte()
}

func (p *Packer) PackBool(b bool) {
	p.p.PackBool(b)
}

func (p *Packer) UnpackBool() bool {
	return p.p.UnpackBool()
}

func (p *Packer) PackUint64(v uint64) {
	p.p.PackLong(v)
}

func (p *Packer) UnpackUint64(required bool) uint64 {
	v := p.p.UnpackLong()
	if required && v == 0 {
		p.addErr(ErrFieldNotPopulated)
	}
	return v
}

func (p *Packer) PackInt(v uint32) {
	p.p.PackInt(v)
}

func (p *Packer) UnpackInt(required bool) uint32 {
	v := p.p.UnpackInt()
	if required && v == 0 {
		p.addErr(ErrFieldNotPopulated)
	}
	return v
}

// PackFixedBytes packs [b] without a length prefix.
func (p *Packer) PackFixedBytes(b []byte) {
	p.p.PackFixedBytes(b)
}

// UnpackFixedBytes unpacks [size] bytes into [dest]. A copy is made so the
// result does not alias the source buffer.
func (p *Packer) UnpackFixedBytes(size int, dest *[]byte) {
	b := p.p.UnpackFixedBytes(size)
	if p.p.Err != nil {
		return
	}
	copied := make([]byte, len(b))
	copy(copied, b)
	*dest = copied
}

// PackBytes packs [b] behind a 4-byte length prefix.
func (p *Packer) PackBytes(b []byte) {
	p.p.PackBytes(b)
}

// UnpackBytes unpacks a length-prefixed slice of at most [limit] bytes into
// [dest]. If [limit] is negative, any length is accepted.
func (p *Packer) UnpackBytes(limit int, required bool, dest *[]byte) {
	if p.p.Err != nil {
		return
	}
	start := p.p.Offset
	size := p.p.UnpackInt()
	if p.p.Err != nil {
		return
	}
	if limit >= 0 && int(size) > limit {
		p.p.Offset = start
		p.addErr(ErrTooManyItems)
		return
	}
	if size == 0 {
		if required {
			p.addErr(ErrFieldNotPopulated)
		}
		*dest = nil
		return
	}
	b := p.p.UnpackFixedBytes(int(size))
	if p.p.Err != nil {
		return
	}
	copied := make([]byte, len(b))
	copy(copied, b)
	*dest = copied
}

func (p *Packer) PackString(s string) {
	p.p.PackStr(s)
}

func (p *Packer) UnpackString(required bool) string {
	s := p.p.UnpackStr()
	if required && len(s) == 0 {
		p.addErr(ErrFieldNotPopulated)
	}
	return s
}

func (p *Packer) PackAddress(a Address) {
	p.p.PackFixedBytes(a[:])
}

// UnpackAddress reads an address into [dest]. When [required] is set, the
// empty address is rejected.
func (p *Packer) UnpackAddress(required bool, dest *Address) {
	b := p.p.UnpackFixedBytes(AddressLen)
	if p.p.Err != nil {
		return
	}
	copy((*dest)[:], b)
	if required && *dest == EmptyAddress {
		p.addErr(ErrFieldNotPopulated)
	}
}

func (p *Packer) PackProgramID(id ProgramID) {
	p.p.PackFixedBytes(id[:])
}

func (p *Packer) UnpackProgramID(required bool, dest *ProgramID) {
	b := p.p.UnpackFixedBytes(ProgramIDLen)
	if p.p.Err != nil {
		return
	}
	copy((*dest)[:], b)
	if required && *dest == EmptyProgramID {
		p.addErr(ErrFieldNotPopulated)
	}
}

// PackAddresses packs a uint8-length-prefixed list of addresses.
func (p *Packer) PackAddresses(addrs []Address) {
	if len(addrs) > int(consts.MaxUint8) {
		p.addErr(ErrTooManyItems)
		return
	}
	p.p.PackByte(uint8(len(addrs)))
	for _, a := range addrs {
		p.PackAddress(a)
	}
}

// UnpackAddresses unpacks at most [limit] addresses.
func (p *Packer) UnpackAddresses(limit int, required bool) []Address {
	n := int(p.p.UnpackByte())
	if p.p.Err != nil {
		return nil
	}
	if n > limit {
		p.addErr(ErrTooManyItems)
		return nil
	}
	if n == 0 {
		if required {
			p.addErr(ErrFieldNotPopulated)
		}
		return nil
	}
	addrs := make([]Address, n)
	for i := range addrs {
		p.UnpackAddress(false, &addrs[i])
	}
	if p.p.Err != nil {
		return nil
	}
	return addrs
}

// PackUint64s packs a uint8-length-prefixed list of integers.
func (p *Packer) PackUint64s(vs []uint64) {
	if len(vs) > int(consts.MaxUint8) {
		p.addErr(ErrTooManyItems)
		return
	}
	p.p.PackByte(uint8(len(vs)))
	for _, v := range vs {
		p.p.PackLong(v)
	}
}

// UnpackUint64s unpacks at most [limit] integers.
func (p *Packer) UnpackUint64s(limit int) []uint64 {
	n := int(p.p.UnpackByte())
	if p.p.Err != nil {
		return nil
	}
	if n > limit {
		p.addErr(ErrTooManyItems)
		return nil
	}
	if n == 0 {
		return nil
	}
	vs := make([]uint64, n)
	for i := range vs {
		vs[i] = p.p.UnpackLong()
	}
	if p.p.Err != nil {
		return nil
	}
	return vs
}

// AddErr records [err] unless an earlier error is already set.
func (p *Packer) AddErr(err error) {
	p.addErr(err)
}

func (p *Packer) addErr(err error) {
	if p.p.Err == nil {
		p.p.Err = err
	}
}
