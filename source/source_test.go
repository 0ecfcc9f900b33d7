// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package source_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"go.qapic.dev/qapic/source"
)

func TestInfo(t *testing.T) {
	t.Parallel()

	pragma := &source.Pragma{}
	parent := source.NewInfo("main.json", nil, pragma)
	info := source.NewInfo("sub.json", parent, pragma)

	require.Equal(t, "sub.json:1", info.Loc())
	require.Same(t, parent, info.Parent())
	require.Same(t, pragma, info.Pragma())

	// NextLine returns a new value; the original is unchanged
	next := info.NextLine().NextLine()
	require.Equal(t, "sub.json:3", next.Loc())
	require.Equal(t, 1, info.Line())
	require.Same(t, parent, next.Parent())

	info.SetDefn("command", "query")
	require.Equal(t, "command", info.DefnMeta())
	require.Equal(t, "query", info.DefnName())
}

func TestPragmaWhitelists(t *testing.T) {
	t.Parallel()

	pragma := &source.Pragma{
		ReturnsWhitelist:  []string{"query-foo"},
		NameCaseWhitelist: []string{"X_Y"},
	}
	require.True(t, pragma.ReturnsWhitelisted("query-foo"))
	require.False(t, pragma.ReturnsWhitelisted("query-bar"))
	require.True(t, pragma.NameCaseWhitelisted("X_Y"))
	require.False(t, pragma.NameCaseWhitelisted("x-y"))
}
