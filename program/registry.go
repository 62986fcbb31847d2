// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"errors"
	"fmt"

	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/faults"
)

var (
	ErrDuplicateProgram = errors.New("duplicate program")
	ErrUnknownProgram   = fmt.Errorf("%w: unknown program", faults.ErrValidation)
)

// Registry maps program ids to their implementation.
type Registry struct {
	programs map[codec.ProgramID]Program
}

func NewRegistry(programs ...Program) (*Registry, error) {
	r := &Registry{programs: make(map[codec.ProgramID]Program, len(programs))}
	for _, p := range programs {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(p Program) error {
	if _, ok := r.programs[p.ID()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateProgram, p.ID())
	}
	r.programs[p.ID()] = p
	return nil
}

func (r *Registry) Get(id codec.ProgramID) (Program, error) {
	p, ok := r.programs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProgram, id)
	}
	return p, nil
}
