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
	"fmt"

	"go.qapic.dev/qapic/source"
)

// Error is a lexical, structural, or directive error in a schema document.
// Column is 1-based and only set for errors raised with lexer context.
type Error struct {
	info *source.Info
	msg  string
	col  int
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	loc := err.info.Loc()
	if err.col > 0 {
		loc = fmt.Sprintf("%s:%d", loc, err.col)
	}
	return loc + ": " + err.msg
}

func (err *Error) Info() *source.Info { return err.info }
func (err *Error) Message() string    { return err.msg }
func (err *Error) Column() int        { return err.col }

func errAt(info *source.Info, format string, args ...any) *Error {
	return &Error{info: info, msg: fmt.Sprintf(format, args...)}
}

// parseErrorf raises an error at the token the lexer last produced. The
// column is recovered by re-scanning from the start of the current line,
// with tabs expanding to the next multiple of 8.
func (p *Parser) parseErrorf(format string, args ...any) *Error {
	col := 1
	for _, ch := range p.src[p.linePos:p.pos] {
		if ch == '\t' {
			col = (col+7)/8*8 + 1
		} else {
			col++
		}
	}
	return &Error{
		info: p.info,
		msg:  fmt.Sprintf(format, args...),
		col:  col,
	}
}

// docError is a documentation markup error. It has no location of its own;
// the parser converts it to an *Error at the current lexer position.
type docError struct {
	msg string
}

func (err *docError) Error() string {
	return err.msg
}

func docErrorf(format string, args ...any) error {
	return &docError{msg: fmt.Sprintf(format, args...)}
}
