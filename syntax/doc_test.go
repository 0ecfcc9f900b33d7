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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"go.qapic.dev/qapic/syntax"
)

func TestDocDefinition(t *testing.T) {
	t.Parallel()

	result, err := parseString(t, `##
# @do-thing:
#
# Does the thing.
#
# @arg: the argument
#
# Features:
# @fast: skip checks
#
# Returns: a thing
#
# Since: 1.0
##
{ 'command': 'do-thing',
  'data': { 'arg': 'str' },
  'returns': 'str',
  'features': ['fast'] }
`)
	require.NoError(t, err)
	require.Len(t, result.Docs, 1)
	require.Len(t, result.Exprs, 1)

	doc := result.Docs[0]
	require.Same(t, doc, result.Exprs[0].Doc)
	require.Equal(t, "do-thing", doc.Symbol())
	require.Equal(t, 1, doc.Info().Line())
	require.Equal(t, "Does the thing.", doc.Body())

	argText, ok := doc.Arg("arg")
	require.True(t, ok)
	require.Equal(t, "the argument", argText)

	featText, ok := doc.FeatureSection("fast")
	require.True(t, ok)
	require.Equal(t, "skip checks", featText)

	require.True(t, doc.HasSection("Returns"))
	require.True(t, doc.HasSection("Since"))
	want := []syntax.DocSection{
		{Name: "Returns", Text: "a thing"},
		{Name: "Since", Text: "1.0"},
	}
	if diff := cmp.Diff(want, doc.Sections()); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
}

func TestDocMultilineArg(t *testing.T) {
	t.Parallel()

	result, err := parseString(t, `##
# @cmd:
#
# @arg: first line
#       second line
##
{ 'command': 'cmd', 'data': { 'arg': 'str' } }
`)
	require.NoError(t, err)
	doc := result.Docs[0]
	argText, ok := doc.Arg("arg")
	require.True(t, ok)
	require.Equal(t, "first line\nsecond line", argText)
}

func TestDocFreeform(t *testing.T) {
	t.Parallel()

	result, err := parseString(t, `##
# Just some prose.
##
`)
	require.NoError(t, err)
	require.Len(t, result.Docs, 1)
	doc := result.Docs[0]
	require.Equal(t, "", doc.Symbol())
	require.Equal(t, "Just some prose.", doc.Body())
}

// A free-form block is split into multiple docs at heading markup.
func TestDocHeadingSplit(t *testing.T) {
	t.Parallel()

	result, err := parseString(t, `##
# = First part
#
# Text one.
#
# = Second part
#
# Text two.
##
`)
	require.NoError(t, err)
	require.Len(t, result.Docs, 2)
	require.Contains(t, result.Docs[0].Body(), "= First part")
	require.Contains(t, result.Docs[0].Body(), "Text one.")
	require.Contains(t, result.Docs[1].Body(), "= Second part")
	require.Contains(t, result.Docs[1].Body(), "Text two.")
}

func TestDocErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "missing space after hash",
			src:  "##\n#x\n##\n",
			want: "missing space after #",
		},
		{
			name: "symbol line must end with colon",
			src:  "##\n# @sym\n##\n",
			want: "line should end with ':'",
		},
		{
			name: "empty symbol",
			src:  "##\n# @:\n##\n",
			want: "invalid name",
		},
		{
			name: "de-indent in argument section",
			src:  "##\n# @sym:\n#\n# @a: one\n#  two\n##\n",
			want: "unexpected de-indent (expected at least 4 spaces)",
		},
		{
			name: "duplicated argument",
			src:  "##\n# @sym:\n#\n# @a: one\n# @a: two\n##\n",
			want: "'a' parameter name duplicated",
		},
		{
			name: "duplicated Returns section",
			src:  "##\n# @sym:\n#\n# Returns: x\n#\n# Returns: y\n##\n",
			want: "duplicated 'Returns' section",
		},
		{
			name: "empty tagged section",
			src:  "##\n# @sym:\n#\n# Returns:\n##\n",
			want: "empty doc section 'Returns'",
		},
		{
			name: "argument after tagged section",
			src:  "##\n# @sym:\n#\n# Returns: x\n# @a: nope\n##\n",
			want: "'@a:' can't follow 'Returns' section",
		},
		{
			name: "argument markup in free-form doc",
			src:  "##\n# prose\n#\n# @a: nope\n##\n",
			want: "'@a:' not allowed in free-form documentation",
		},
		{
			name: "heading in definition doc",
			src:  "##\n# @sym:\n#\n# = heading\n##\n{ 'enum': 'sym', 'data': [] }\n",
			want: "unexpected '=' markup in definition documentation",
		},
		{
			name: "junk after doc end",
			src:  "##\n# prose\n## trailing\n",
			want: "junk after '##' at end of documentation comment",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			_, err := parseString(t, test.src)
			require.Error(t, err)
			require.Contains(t, err.Error(), test.want)
		})
	}
}
