// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package int128

import (
	"bytes"
	"fmt"
)

// MarshalText encodes x as a decimal string.
func (x Int) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}

func (x *Int) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*x = v
	return nil
}

// UnmarshalJSON accepts both quoted and bare decimal numbers.
func (x *Int) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	return x.UnmarshalText(b)
}

func (x Int) MarshalYAML() (interface{}, error) {
	return x.String(), nil
}

func (x *Int) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidString, err)
	}
	return x.UnmarshalText([]byte(s))
}
