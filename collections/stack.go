// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package collections

import "errors"

var ErrMaxStackSize = errors.New("stack limit")

// FixedSizeStack is a LIFO stack that refuses to grow beyond the size it
// was created with.
type FixedSizeStack[T any] struct {
	vals   []T
	length int
}

func NewFixedSizeStack[T any](size int) *FixedSizeStack[T] {
	return &FixedSizeStack[T]{vals: make([]T, 0, size), length: size}
}

func (s *FixedSizeStack[T]) Push(v T) error {
	if len(s.vals) >= s.length {
		return ErrMaxStackSize
	}

	s.vals = append(s.vals, v)
	return nil
}

// Pop removes and returns the top of the stack. It panics on an empty
// stack; check [Len] first.
func (s *FixedSizeStack[T]) Pop() T {
	res := s.vals[len(s.vals)-1]
	var zero T
	s.vals[len(s.vals)-1] = zero
	s.vals = s.vals[:len(s.vals)-1]
	return res
}

func (s *FixedSizeStack[T]) Peek() T {
	return s.vals[len(s.vals)-1]
}

func (s *FixedSizeStack[T]) Len() int {
	return len(s.vals)
}

func (s *FixedSizeStack[T]) Cap() int {
	return s.length
}
