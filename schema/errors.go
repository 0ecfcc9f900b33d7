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

package schema

import (
	"fmt"

	"go.qapic.dev/qapic/source"
)

// Error is a semantic error: a consistency rule violated by an otherwise
// well-formed schema document.
type Error struct {
	info *source.Info
	msg  string
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	if err.info == nil {
		return err.msg
	}
	return err.info.Loc() + ": " + err.msg
}

func (err *Error) Info() *source.Info { return err.info }
func (err *Error) Message() string    { return err.msg }

func semErrf(info *source.Info, format string, args ...any) *Error {
	return &Error{info: info, msg: fmt.Sprintf(format, args...)}
}
