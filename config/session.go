// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"
	"os"

	"github.com/ava-labs/avalanchego/utils/perms"
	"gopkg.in/yaml.v2"

	"github.com/lssa-labs/treasuryvm/codec"
)

// Session caches identifiers between CLI invocations so they need not be
// retyped. Addresses are kept in their hex form.
type Session struct {
	// DefaultKey is the hex address of the key used when none is given.
	DefaultKey string `yaml:"defaultKey,omitempty"`
	// Keys maps a hex address to the file holding its private key.
	Keys map[string]string `yaml:"keys,omitempty"`
	// Tokens maps a token name to its definition address.
	Tokens map[string]string `yaml:"tokens,omitempty"`
	// Multisig is the multisig state address once created.
	Multisig string `yaml:"multisig,omitempty"`
}

// LoadSession reads the session at [path]. A missing file yields an empty
// session.
func LoadSession(path string) (*Session, error) {
	s := &Session{}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) Save(path string) error {
	b, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, perms.ReadWrite)
}

func (s *Session) AddKey(addr codec.Address, file string) {
	if s.Keys == nil {
		s.Keys = map[string]string{}
	}
	s.Keys[addr.String()] = file
	if len(s.DefaultKey) == 0 {
		s.DefaultKey = addr.String()
	}
}

// KeyFile returns the key file of [addr], or of the default key when
// [addr] is empty.
func (s *Session) KeyFile(addr string) (string, bool) {
	if len(addr) == 0 {
		addr = s.DefaultKey
	}
	file, ok := s.Keys[addr]
	return file, ok
}

func (s *Session) AddToken(name string, definition codec.Address) {
	if s.Tokens == nil {
		s.Tokens = map[string]string{}
	}
	s.Tokens[name] = definition.String()
}

// Token returns the definition address of [name].
func (s *Session) Token(name string) (codec.Address, bool, error) {
	v, ok := s.Tokens[name]
	if !ok {
		return codec.EmptyAddress, false, nil
	}
	addr, err := codec.StringToAddress(v)
	return addr, true, err
}
