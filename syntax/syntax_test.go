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

package syntax_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"go.qapic.dev/qapic/syntax"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	fname := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(fname, []byte(content), 0o666))
	return fname
}

func parseString(t *testing.T, src string) (*syntax.Result, error) {
	t.Helper()
	fname := writeFile(t, t.TempDir(), "test.json", src)
	return syntax.ParseFile(fname)
}

func TestParseSimple(t *testing.T) {
	t.Parallel()

	result, err := parseString(t, `# leading comment
{ 'struct': 'Point',
  'data': { 'x': 'int', '*y': ['int'], 'deep': true } }
`)
	require.NoError(t, err)
	require.Len(t, result.Exprs, 1)

	expr := result.Exprs[0]
	require.Equal(t, 2, expr.Info.Line())
	require.Nil(t, expr.Doc)

	name, ok := expr.Expr.Get("struct")
	require.True(t, ok)
	require.Equal(t, syntax.String("Point"), name)

	dataVal, ok := expr.Expr.Get("data")
	require.True(t, ok)
	data, ok := dataVal.(*syntax.Object)
	require.True(t, ok)

	var keys []string
	for key := range data.Pairs() {
		keys = append(keys, key)
	}
	if diff := cmp.Diff([]string{"x", "*y", "deep"}, keys); diff != "" {
		t.Fatalf("member order mismatch (-want +got):\n%s", diff)
	}

	yVal, _ := data.Get("*y")
	require.Equal(t, syntax.List{syntax.String("int")}, yVal)
	deepVal, _ := data.Get("deep")
	require.Equal(t, syntax.Bool(true), deepVal)
}

func TestParseNoTrailingNewline(t *testing.T) {
	t.Parallel()

	result, err := parseString(t, `{ 'enum': 'E', 'data': [] }`)
	require.NoError(t, err)
	require.Len(t, result.Exprs, 1)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "stray character",
			src:  "{ 'a': @ }\n",
			want: "test.json:1:8: stray '@'",
		},
		{
			name: "tab expands to multiple of eight",
			src:  "\t@\n",
			want: "test.json:1:9: stray '@'",
		},
		{
			name: "unterminated string",
			src:  "{ 'enum': 'E\n",
			want: "test.json:1:11: missing terminating \"'\"",
		},
		{
			name: "unknown escape",
			src:  `{ 'a': '\n' }` + "\n",
			want: `test.json:1:8: unknown escape \n`,
		},
		{
			name: "control character in string",
			src:  "{ 'a': '\x01' }\n",
			want: "test.json:1:8: funny character in string",
		},
		{
			name: "top level must be an object",
			src:  "'nope'\n",
			want: "test.json:1:1: expected '{'",
		},
		{
			name: "missing colon",
			src:  "{ 'a' 'b' }\n",
			want: "test.json:1:7: expected ':'",
		},
		{
			name: "duplicate key",
			src:  "{ 'a': 'x', 'a': 'y' }\n",
			want: "test.json:1:18: duplicate key 'a'",
		},
		{
			name: "junk after doc start",
			src:  "##!\n",
			want: "test.json:1:1: junk after '##' at start of documentation comment",
		},
		{
			name: "unterminated doc block",
			src:  "##\n# hello\n{ 'enum': 'E', 'data': [] }\n",
			want: "test.json:3:1: documentation comment must end with '##'",
		},
		{
			name: "invalid include directive",
			src:  "{ 'include': 'x.json', 'extra': 'y' }\n",
			want: "test.json:1: invalid 'include' directive",
		},
		{
			name: "include value must be string",
			src:  "{ 'include': true }\n",
			want: "test.json:1: value of 'include' must be a string",
		},
		{
			name: "pragma doc-required must be boolean",
			src:  "{ 'pragma': { 'doc-required': 'yes' } }\n",
			want: "test.json:1: pragma 'doc-required' must be boolean",
		},
		{
			name: "unknown pragma",
			src:  "{ 'pragma': { 'bogus': true } }\n",
			want: "test.json:1: unknown pragma 'bogus'",
		},
		{
			name: "free-form doc before definition",
			src:  "##\n# hello\n##\n{ 'enum': 'E', 'data': [] }\n",
			want: "test.json:1: definition documentation required",
		},
		{
			name: "named doc without definition",
			src:  "##\n# @foo:\n##\n",
			want: "test.json:1: documentation for 'foo' is not followed by the definition",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			fname := writeFile(t, dir, "test.json", test.src)
			_, err := syntax.ParseFile(fname)
			require.Error(t, err)
			require.Equal(t, fname+test.want[len("test.json"):], err.Error())
		})
	}
}

func TestParseFileMissing(t *testing.T) {
	t.Parallel()

	fname := filepath.Join(t.TempDir(), "nope.json")
	_, err := syntax.ParseFile(fname)
	require.Error(t, err)
	require.Contains(t, err.Error(), "can't read schema file")
	require.Contains(t, err.Error(), "nope.json")
}

func TestInclude(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "sub.json", "{ 'enum': 'Sub', 'data': [] }\n")
	main := writeFile(t, dir, "main.json", `{ 'include': 'sub.json' }
{ 'include': 'sub.json' }
{ 'enum': 'Main', 'data': [] }
`)
	result, err := syntax.ParseFile(main)
	require.NoError(t, err)

	// include marker, sub's expr, second include marker (file already
	// included, so no repeated contents), main's expr
	require.Len(t, result.Exprs, 4)
	require.True(t, result.Exprs[0].Expr.Has("include"))
	require.True(t, result.Exprs[1].Expr.Has("enum"))
	require.Equal(t, filepath.Join(dir, "sub.json"),
		result.Exprs[1].Info.Fname())
	require.True(t, result.Exprs[2].Expr.Has("include"))
	require.True(t, result.Exprs[3].Expr.Has("enum"))
	require.Equal(t, main, result.Exprs[3].Info.Fname())
}

func TestIncludeLoop(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.json", "{ 'include': 'b.json' }\n")
	fname := writeFile(t, dir, "b.json", "{ 'include': 'a.json' }\n")
	// Parse a.json: a includes b, and b including a closes the loop.
	_, err := syntax.ParseFile(filepath.Join(dir, "a.json"))
	require.Error(t, err)
	require.Contains(t, err.Error(), fname+":1: inclusion loop for a.json")
}

func TestIncludeSelf(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fname := writeFile(t, dir, "self.json", "{ 'include': 'self.json' }\n")
	_, err := syntax.ParseFile(fname)
	require.Error(t, err)
	require.Contains(t, err.Error(), "inclusion loop for self.json")
}

func TestIncludeMissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fname := writeFile(t, dir, "main.json", "{ 'include': 'nope.json' }\n")
	_, err := syntax.ParseFile(fname)
	require.Error(t, err)
	require.Contains(t, err.Error(), "can't read include file")
	require.Contains(t, err.Error(), fname+":1:")
}

func TestPragma(t *testing.T) {
	t.Parallel()

	result, err := parseString(t, `{ 'pragma': { 'doc-required': true } }
{ 'pragma': { 'returns-whitelist': ['query-foo'],
              'name-case-whitelist': ['X_Y'] } }
`)
	require.NoError(t, err)
	require.Empty(t, result.Exprs)
	require.True(t, result.Pragma.DocRequired)
	require.Equal(t, []string{"query-foo"}, result.Pragma.ReturnsWhitelist)
	require.True(t, result.Pragma.ReturnsWhitelisted("query-foo"))
	require.False(t, result.Pragma.ReturnsWhitelisted("other"))
	require.True(t, result.Pragma.NameCaseWhitelisted("X_Y"))
}
