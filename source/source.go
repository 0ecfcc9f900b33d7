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

// Package source tracks source locations across schema files, including
// locations reached through 'include' directives.
package source

import (
	"fmt"
	"slices"
)

// Pragma is the per-compilation configuration set by 'pragma' directives.
// One instance is shared by every Info of a single compiler invocation, so
// independent compilations cannot interfere with each other.
type Pragma struct {
	// DocRequired requires every definition to carry a documentation
	// comment.
	DocRequired bool

	// ReturnsWhitelist lists commands allowed to return something other
	// than an object or an array of objects.
	ReturnsWhitelist []string

	// NameCaseWhitelist lists entity names exempt from naming-convention
	// checks.
	NameCaseWhitelist []string
}

func (p *Pragma) ReturnsWhitelisted(name string) bool {
	return slices.Contains(p.ReturnsWhitelist, name)
}

func (p *Pragma) NameCaseWhitelisted(name string) bool {
	return slices.Contains(p.NameCaseWhitelist, name)
}

// Info identifies a position in a schema source file. It is a value type:
// NextLine returns a new Info sharing the parent chain and pragma. The
// column of parse errors is not stored here; it is computed from the lexer
// cursor when an error is raised.
type Info struct {
	fname  string
	line   int
	parent *Info
	pragma *Pragma

	defnMeta string
	defnName string
}

func NewInfo(fname string, parent *Info, pragma *Pragma) *Info {
	return &Info{
		fname:  fname,
		line:   1,
		parent: parent,
		pragma: pragma,
	}
}

func (info *Info) Fname() string   { return info.fname }
func (info *Info) Line() int       { return info.line }
func (info *Info) Parent() *Info   { return info.parent }
func (info *Info) Pragma() *Pragma { return info.pragma }

// NextLine returns a copy of info advanced by one line.
func (info *Info) NextLine() *Info {
	next := *info
	next.line++
	return &next
}

// SetDefn records the definition being built at this location, for use in
// diagnostics about that definition's members.
func (info *Info) SetDefn(meta, name string) {
	info.defnMeta = meta
	info.defnName = name
}

func (info *Info) DefnMeta() string { return info.defnMeta }
func (info *Info) DefnName() string { return info.defnName }

func (info *Info) Loc() string {
	return fmt.Sprintf("%s:%d", info.fname, info.line)
}

func (info *Info) String() string {
	return info.Loc()
}
