// SPDX-License-Identifier: Apache-2.0
package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinValues(t *testing.T) {
	tests := map[string]struct {
		args []string
		want []string
	}{
		"long name": {
			args: []string{"wj", "build", "--output", "out", "."},
			want: []string{"wj", "build", "--output=out", "."},
		},
		"short name": {
			args: []string{"wj", "build", "-t", "script", "."},
			want: []string{"wj", "build", "-t=script", "."},
		},
		"already joined": {
			args: []string{"wj", "build", "--target=wasm", "."},
			want: []string{"wj", "build", "--target=wasm", "."},
		},
		"flags are untouched": {
			args: []string{"wj", "build", "--no-cargo", "."},
			want: []string{"wj", "build", "--no-cargo", "."},
		},
		"missing value": {
			args: []string{"wj", "build", ".", "--output"},
			want: []string{"wj", "build", ".", "--output"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, joinValues(tt.args))
		})
	}
}

func TestParseBuildArgs(t *testing.T) {
	result, err := parseArgs([]string{"wj", "build", "--no-cargo", "--output", "out", "--target", "script", "."})
	require.NoError(t, err)

	name, sub, ok := result.Subcommand()
	require.True(t, ok)
	assert.Equal(t, "build", name)
	path, _ := sub.PrimaryArg()
	assert.Equal(t, ".", path)
	assert.True(t, sub.HasFlag("no-cargo"))
	assert.Equal(t, "out", sub.Arguments["output"])
	assert.Equal(t, "script", sub.Arguments["target"])

	o := overrides(sub)
	assert.Equal(t, "script", o.Target)
	assert.Equal(t, "out", o.Output)
}

func TestParseRejectsUnknownTarget(t *testing.T) {
	_, err := parseArgs([]string{"wj", "build", "--target", "cobol", "."})
	assert.Error(t, err)
}
