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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"go.qapic.dev/qapic/schema"
)

func writeSchema(t *testing.T, src string) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "test.json")
	require.NoError(t, os.WriteFile(fname, []byte(src), 0o666))
	return fname
}

func TestCmdCheck(t *testing.T) {
	ctx := context.Background()

	good := writeSchema(t, "{ 'enum': 'E', 'data': ['x'] }\n")
	bad := writeSchema(t, "{ 'enum': 'E', 'data': ['x'], 'bogus': @ }\n")

	cmd := &cmdCheck{}
	require.Equal(t, 0, cmd.run(ctx, []string{good}))
	require.Equal(t, 1, cmd.run(ctx, []string{bad}))
	require.Equal(t, 1, cmd.run(ctx, []string{good, bad}))
	require.Equal(t, 1, cmd.run(ctx, nil))
}

func TestTreePrinter(t *testing.T) {
	fname := writeSchema(t, `{ 'enum': 'Kind', 'data': ['one', 'two'] }
{ 'struct': 'Base', 'data': { 'kind': 'Kind' } }
{ 'struct': 'One', 'data': { 'x': 'int', '*y': 'str' } }
{ 'union': 'U', 'base': 'Base', 'discriminator': 'kind',
  'data': { 'one': 'One' } }
{ 'command': 'query', 'data': { 'q': 'str' }, 'returns': 'One' }
{ 'event': 'PING' }
`)
	s, err := schema.Load(fname)
	require.NoError(t, err)

	var buf bytes.Buffer
	s.Visit(&treePrinter{w: &buf})

	want := `module <builtin>
module test.json
enum Kind
    value one
    value two
object Base
    member kind: Kind
object One
    member x: int
    member *y: str
object U
    base Base
    tag kind
    case one: One
    case two: q_empty
command query q_obj_query-arg -> One
    gen=true success_response=true boxed=false oob=false preconfig=false coroutine=false
event PING
    boxed=false
`
	require.Equal(t, want, buf.String())
}
