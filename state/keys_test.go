// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddPermissions(t *testing.T) {
	tests := []struct {
		name     string
		add      []Permissions
		canRead  bool
		canAlloc bool
		canWrite bool
	}{
		{
			name:    "read only",
			add:     []Permissions{Read},
			canRead: true,
		},
		{
			name:     "read then write",
			add:      []Permissions{Read, Write},
			canRead:  true,
			canWrite: true,
		},
		{
			name:     "allocate implies read",
			add:      []Permissions{Allocate},
			canRead:  true,
			canAlloc: true,
		},
		{
			name:     "all",
			add:      []Permissions{All},
			canRead:  true,
			canAlloc: true,
			canWrite: true,
		},
		{
			name: "none",
			add:  []Permissions{None},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			keys := Keys{}
			for _, p := range tt.add {
				keys.Add("key", p)
			}
			perm := keys["key"]
			require.Equal(tt.canRead, perm.Has(Read))
			require.Equal(tt.canAlloc, perm.Has(Allocate))
			require.Equal(tt.canWrite, perm.Has(Write))
		})
	}
}
