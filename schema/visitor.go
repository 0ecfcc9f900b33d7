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
	"go.qapic.dev/qapic/source"
)

// Visitor receives the validated model entity by entity, grouped into
// modules in the order their source files were first reached. Backends
// implement it by embedding BaseVisitor and overriding what they need.
//
// Object types are delivered twice: VisitObjectType with the inheritance
// structure intact, then VisitObjectTypeFlat with the flattened member
// list. A backend normally uses one of the two.
type Visitor interface {
	VisitBegin(s *Schema)
	VisitEnd()

	// VisitModule opens a module; entities visited afterwards belong to
	// it, until the next VisitModule. The builtin module has the empty
	// name.
	VisitModule(name string)

	// VisitNeeded filters entities; returning false skips the entity's
	// visit method.
	VisitNeeded(ent Entity) bool

	VisitInclude(name string, info *source.Info)
	VisitBuiltinType(name string, info *source.Info, jsonType string)
	VisitEnumType(name string, info *source.Info, ifcond []string,
		features []*Feature, members []*EnumMember, prefix string)
	VisitArrayType(name string, info *source.Info, ifcond []string,
		elementType Type)
	VisitObjectType(name string, info *source.Info, ifcond []string,
		features []*Feature, base *ObjectType, members []*ObjectMember,
		variants *Variants)
	VisitObjectTypeFlat(name string, info *source.Info, ifcond []string,
		features []*Feature, members []*ObjectMember, variants *Variants)
	VisitAlternateType(name string, info *source.Info, ifcond []string,
		features []*Feature, variants *Variants)
	VisitCommand(name string, info *source.Info, ifcond []string,
		features []*Feature, argType *ObjectType, retType Type, cmd *Command)
	VisitEvent(name string, info *source.Info, ifcond []string,
		features []*Feature, argType *ObjectType, boxed bool)
}

// BaseVisitor implements Visitor with no-ops, visiting every entity.
type BaseVisitor struct{}

var _ Visitor = BaseVisitor{}

func (BaseVisitor) VisitBegin(s *Schema)        {}
func (BaseVisitor) VisitEnd()                   {}
func (BaseVisitor) VisitModule(name string)     {}
func (BaseVisitor) VisitNeeded(ent Entity) bool { return true }

func (BaseVisitor) VisitInclude(name string, info *source.Info) {}

func (BaseVisitor) VisitBuiltinType(name string, info *source.Info,
	jsonType string) {
}

func (BaseVisitor) VisitEnumType(name string, info *source.Info,
	ifcond []string, features []*Feature, members []*EnumMember,
	prefix string) {
}

func (BaseVisitor) VisitArrayType(name string, info *source.Info,
	ifcond []string, elementType Type) {
}

func (BaseVisitor) VisitObjectType(name string, info *source.Info,
	ifcond []string, features []*Feature, base *ObjectType,
	members []*ObjectMember, variants *Variants) {
}

func (BaseVisitor) VisitObjectTypeFlat(name string, info *source.Info,
	ifcond []string, features []*Feature, members []*ObjectMember,
	variants *Variants) {
}

func (BaseVisitor) VisitAlternateType(name string, info *source.Info,
	ifcond []string, features []*Feature, variants *Variants) {
}

func (BaseVisitor) VisitCommand(name string, info *source.Info,
	ifcond []string, features []*Feature, argType *ObjectType,
	retType Type, cmd *Command) {
}

func (BaseVisitor) VisitEvent(name string, info *source.Info,
	ifcond []string, features []*Feature, argType *ObjectType,
	boxed bool) {
}

// Visit walks the model in module order, dispatching each entity to the
// visitor method matching its kind.
func (s *Schema) Visit(v Visitor) {
	v.VisitBegin(s)
	for _, mod := range s.modules {
		v.VisitModule(mod.name)
		for _, ent := range mod.entities {
			if !v.VisitNeeded(ent) {
				continue
			}
			visitEntity(v, ent)
		}
	}
	v.VisitEnd()
}

func visitEntity(v Visitor, ent Entity) {
	switch e := ent.(type) {
	case *Include:
		v.VisitInclude(e.subModule.name, e.info)
	case *BuiltinType:
		v.VisitBuiltinType(e.name, e.info, e.jsonType)
	case *EnumType:
		v.VisitEnumType(e.name, e.info, e.IfCond(), e.features,
			e.members, e.prefix)
	case *ArrayType:
		v.VisitArrayType(e.name, e.info, e.IfCond(), e.elementType)
	case *ObjectType:
		v.VisitObjectType(e.name, e.info, e.IfCond(), e.features,
			e.base, e.localMembers, e.variants)
		v.VisitObjectTypeFlat(e.name, e.info, e.IfCond(), e.features,
			e.members, e.variants)
	case *AlternateType:
		v.VisitAlternateType(e.name, e.info, e.IfCond(), e.features,
			e.variants)
	case *Command:
		v.VisitCommand(e.name, e.info, e.IfCond(), e.features,
			e.argType, e.retType, e)
	case *Event:
		v.VisitEvent(e.name, e.info, e.IfCond(), e.features,
			e.argType, e.boxed)
	}
}
