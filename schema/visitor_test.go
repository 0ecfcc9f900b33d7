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

package schema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"go.qapic.dev/qapic/schema"
	"go.qapic.dev/qapic/source"
)

// recordingVisitor logs one line per visit, skipping implicit entities.
type recordingVisitor struct {
	schema.BaseVisitor
	log   []string
	begun bool
	ended bool
}

func (v *recordingVisitor) VisitBegin(s *schema.Schema) { v.begun = true }
func (v *recordingVisitor) VisitEnd()                   { v.ended = true }

func (v *recordingVisitor) VisitNeeded(ent schema.Entity) bool {
	return !ent.IsImplicit()
}

func (v *recordingVisitor) VisitModule(name string) {
	v.log = append(v.log, "module "+name)
}

func (v *recordingVisitor) VisitInclude(name string, info *source.Info) {
	v.log = append(v.log, "include "+name)
}

func (v *recordingVisitor) VisitEnumType(name string, info *source.Info,
	ifcond []string, features []*schema.Feature,
	members []*schema.EnumMember, prefix string) {
	v.log = append(v.log, "enum "+name)
}

func (v *recordingVisitor) VisitObjectType(name string, info *source.Info,
	ifcond []string, features []*schema.Feature, base *schema.ObjectType,
	members []*schema.ObjectMember, variants *schema.Variants) {
	v.log = append(v.log, "object "+name)
}

func (v *recordingVisitor) VisitCommand(name string, info *source.Info,
	ifcond []string, features []*schema.Feature, argType *schema.ObjectType,
	retType schema.Type, cmd *schema.Command) {
	entry := "command " + name
	if retType != nil {
		entry += " -> " + retType.Name()
	}
	v.log = append(v.log, entry)
}

func (v *recordingVisitor) VisitEvent(name string, info *source.Info,
	ifcond []string, features []*schema.Feature, argType *schema.ObjectType,
	boxed bool) {
	v.log = append(v.log, "event "+name)
}

func TestVisitOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "sub.json", `{ 'struct': 'FromSub', 'data': {} }
`)
	main := writeFile(t, dir, "main.json", `{ 'include': 'sub.json' }
{ 'enum': 'Color', 'data': ['red'] }
{ 'struct': 'Thing', 'data': { 'c': 'Color' } }
{ 'command': 'get-thing', 'returns': 'Thing' }
{ 'event': 'GONE' }
`)
	s, err := schema.Load(main)
	require.NoError(t, err)

	v := &recordingVisitor{}
	s.Visit(v)
	require.True(t, v.begun)
	require.True(t, v.ended)

	// The builtin module is visited first; implicit entities are filtered
	// by VisitNeeded, so only the module headers remain for it. Entities
	// appear in definition order within their module.
	want := []string{
		"module ",
		"module main.json",
		"include sub.json",
		"enum Color",
		"object Thing",
		"command get-thing -> Thing",
		"event GONE",
		"module sub.json",
		"object FromSub",
	}
	if diff := cmp.Diff(want, v.log); diff != "" {
		t.Fatalf("visit order mismatch (-want +got):\n%s", diff)
	}
}

// countingVisitor visits everything, including implicit entities.
type countingVisitor struct {
	schema.BaseVisitor
	builtins int
	arrays   int
	objects  int
}

func (v *countingVisitor) VisitBuiltinType(name string, info *source.Info,
	jsonType string) {
	v.builtins++
}

func (v *countingVisitor) VisitArrayType(name string, info *source.Info,
	ifcond []string, elementType schema.Type) {
	v.arrays++
}

func (v *countingVisitor) VisitObjectTypeFlat(name string, info *source.Info,
	ifcond []string, features []*schema.Feature,
	members []*schema.ObjectMember, variants *schema.Variants) {
	v.objects++
}

func TestVisitImplicit(t *testing.T) {
	t.Parallel()

	s := mustLoad(t, `{ 'command': 'c', 'data': { 'x': 'str' } }
`)
	v := &countingVisitor{}
	s.Visit(v)
	require.Equal(t, 15, v.builtins)
	require.Equal(t, 15, v.arrays)
	// q_empty and the implicit argument type
	require.Equal(t, 2, v.objects)
}
