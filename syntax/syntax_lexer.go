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

package syntax

import (
	"strings"
)

// Token kinds are single bytes, mirroring the grammar's sigils:
//
//	'{' '}' ':' ',' '[' ']'  structural tokens
//	'#'                      comment line (value is the line, without newline)
//	'\''                     string literal (value excludes the quotes)
//	't' / 'f'                the literals true / false
//	0                        end of input
const tokEOF = byte(0)

// accept reads the next lexeme into p.tok / p.val. Whitespace and newlines
// are consumed directly; newlines advance p.info and p.linePos. Plain
// comments are discarded unless skipComment is false or the line opens a
// documentation block ("##").
func (p *Parser) accept(skipComment bool) error {
	for {
		p.tok = p.src[p.cursor]
		p.pos = p.cursor
		p.cursor++
		p.val = nil

		switch {
		case p.tok == '#':
			if p.src[p.cursor] == '#' {
				// Start of doc comment
				skipComment = false
			}
			eol := strings.IndexByte(p.src[p.cursor:], '\n')
			p.cursor += eol
			if !skipComment {
				p.val = String(p.src[p.pos:p.cursor])
				return nil
			}

		case p.tok == '{' || p.tok == '}' || p.tok == ':' ||
			p.tok == ',' || p.tok == '[' || p.tok == ']':
			return nil

		case p.tok == '\'':
			return p.acceptString()

		case strings.HasPrefix(p.src[p.pos:], "true"):
			p.val = Bool(true)
			p.cursor += 3
			return nil

		case strings.HasPrefix(p.src[p.pos:], "false"):
			p.val = Bool(false)
			p.cursor += 4
			return nil

		case p.tok == '\n':
			if p.cursor == len(p.src) {
				p.tok = tokEOF
				return nil
			}
			p.info = p.info.NextLine()
			p.linePos = p.cursor

		case isLexSpace(p.tok):
			// skip

		default:
			return p.parseErrorf("stray '%s'", strayRun(p.src[p.pos:]))
		}
	}
}

// Note: we accept only printable ASCII, and only the escape \\ because we
// have no use for funny characters in strings.
func (p *Parser) acceptString() error {
	var sb strings.Builder
	esc := false
	for {
		ch := p.src[p.cursor]
		p.cursor++
		if ch == '\n' {
			return p.parseErrorf("missing terminating \"'\"")
		}
		if esc {
			if ch != '\\' {
				return p.parseErrorf("unknown escape \\%c", ch)
			}
			esc = false
		} else if ch == '\\' {
			esc = true
			continue
		} else if ch == '\'' {
			p.val = String(sb.String())
			return nil
		}
		if ch < 32 || ch >= 127 {
			return p.parseErrorf("funny character in string")
		}
		sb.WriteByte(ch)
	}
}

func isLexSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\v', '\f':
		return true
	}
	return false
}

// strayRun extracts the run of junk up to the next structural, whitespace,
// or quote character, for the "stray" diagnostic.
func strayRun(src string) string {
	end := strings.IndexAny(src, "[]{}:,'\" \t\r\n\v\f")
	if end < 0 {
		return src
	}
	return src[:end]
}
