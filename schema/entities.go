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
	"maps"
	"strings"

	"go.qapic.dev/qapic/source"
	"go.qapic.dev/qapic/syntax"
)

// Entity is any top-level definition in the model: a type, command, event,
// or include marker. Entities are owned by their Schema and never copied;
// cross-references are name lookups until the validator resolves them into
// direct references.
type Entity interface {
	Name() string
	Info() *source.Info
	Doc() *syntax.Doc
	IfCond() []string
	Features() []*Feature
	Meta() string
	Describe() string
	IsImplicit() bool

	check(s *Schema) error
	connectDoc(doc *syntax.Doc) error
	checkDoc() error
}

// Type is an entity usable as a member, argument, or return type.
type Type interface {
	Entity

	// JSONType is the wire category of this type: one of string, number,
	// int, boolean, null, object, array, or value.
	JSONType() string
}

type entityBase struct {
	name     string
	info     *source.Info
	doc      *syntax.Doc
	ifcond   []string
	features []*Feature
	checked  bool
	meta     string
}

func (e *entityBase) Name() string         { return e.name }
func (e *entityBase) Info() *source.Info   { return e.info }
func (e *entityBase) Doc() *syntax.Doc     { return e.doc }
func (e *entityBase) IfCond() []string     { return e.ifcond }
func (e *entityBase) Features() []*Feature { return e.features }
func (e *entityBase) Meta() string         { return e.meta }

func (e *entityBase) Describe() string {
	return fmt.Sprintf("%s '%s'", e.meta, e.name)
}

// For explicitly defined entities, info points to the definition. For
// builtins (and their arrays), info is nil. For implicitly defined
// entities, info points to a place that triggered the implicit definition.
func (e *entityBase) IsImplicit() bool {
	return e.info == nil
}

func (e *entityBase) checkDoc() error {
	if e.doc != nil {
		return e.doc.Check()
	}
	return nil
}

func (e *entityBase) checkBase(s *Schema) error {
	seen := make(map[string]*Member)
	for _, feature := range e.features {
		if err := feature.checkClash(e.info, seen); err != nil {
			return err
		}
	}
	e.checked = true
	return nil
}

// connectDocTo binds an entity's feature sections; every declared
// feature must be documented.
func (e *entityBase) connectDocTo(doc *syntax.Doc) error {
	if doc == nil {
		doc = e.doc
	}
	if doc == nil {
		return nil
	}
	for _, feature := range e.features {
		if !doc.ConnectFeature(feature.name) {
			return semErrf(feature.info,
				"feature '%s' lacks documentation", feature.name)
		}
	}
	return nil
}

func (e *entityBase) connectDoc(doc *syntax.Doc) error {
	return e.connectDocTo(doc)
}

// checkTypeBase runs the entity-level checks shared by all types.
func checkTypeBase(s *Schema, e *entityBase) error {
	if err := e.checkBase(s); err != nil {
		return err
	}
	for _, feature := range e.features {
		if feature.name == "deprecated" {
			return semErrf(e.info,
				"feature 'deprecated' is not supported for types")
		}
	}
	return nil
}

func typeDescribe(e *entityBase) string {
	return fmt.Sprintf("%s type '%s'", e.meta, e.name)
}

// BuiltinType is a predefined scalar type. Builtins have no source info
// and belong to the nameless builtin module.
type BuiltinType struct {
	entityBase
	jsonType string
}

func newBuiltinType(name, jsonType string) *BuiltinType {
	return &BuiltinType{
		entityBase: entityBase{name: name, meta: "built-in"},
		jsonType:   jsonType,
	}
}

func (t *BuiltinType) JSONType() string { return t.jsonType }
func (t *BuiltinType) Describe() string { return typeDescribe(&t.entityBase) }

func (t *BuiltinType) check(s *Schema) error {
	return checkTypeBase(s, &t.entityBase)
}

// EnumType is an enumeration of named values.
type EnumType struct {
	entityBase
	members []*EnumMember
	prefix  string
}

func newEnumType(
	name string,
	info *source.Info,
	doc *syntax.Doc,
	ifcond []string,
	features []*Feature,
	members []*EnumMember,
	prefix string,
) *EnumType {
	for _, member := range members {
		member.definedIn = name
	}
	return &EnumType{
		entityBase: entityBase{
			name: name, info: info, doc: doc,
			ifcond: ifcond, features: features, meta: "enum",
		},
		members: members,
		prefix:  prefix,
	}
}

func (t *EnumType) Members() []*EnumMember { return t.members }
func (t *EnumType) Prefix() string         { return t.prefix }
func (t *EnumType) JSONType() string       { return "string" }
func (t *EnumType) Describe() string       { return typeDescribe(&t.entityBase) }

func (t *EnumType) IsImplicit() bool {
	// Discriminator enums are synthesized with a 'Kind' suffix; QType is
	// predefined.
	return strings.HasSuffix(t.name, "Kind") || t.name == "QType"
}

func (t *EnumType) check(s *Schema) error {
	if err := checkTypeBase(s, &t.entityBase); err != nil {
		return err
	}
	seen := make(map[string]*Member)
	for _, member := range t.members {
		if err := member.checkClash(t.info, seen); err != nil {
			return err
		}
	}
	return nil
}

func (t *EnumType) connectDoc(doc *syntax.Doc) error {
	if err := t.connectDocTo(doc); err != nil {
		return err
	}
	if doc == nil {
		doc = t.doc
	}
	if doc != nil {
		for _, member := range t.members {
			doc.ConnectMember(member.name)
		}
	}
	return nil
}

func (t *EnumType) hasMember(name string) bool {
	for _, member := range t.members {
		if member.name == name {
			return true
		}
	}
	return false
}

// ArrayType is the implicit list type of some element type. Its condition
// is always the element type's condition.
type ArrayType struct {
	entityBase
	elementTypeName string
	elementType     Type
}

func newArrayType(name string, info *source.Info, elementType string) *ArrayType {
	return &ArrayType{
		entityBase:      entityBase{name: name, info: info, meta: "array"},
		elementTypeName: elementType,
	}
}

func (t *ArrayType) ElementType() Type { return t.elementType }
func (t *ArrayType) JSONType() string  { return "array" }
func (t *ArrayType) IsImplicit() bool  { return true }

func (t *ArrayType) Describe() string {
	return fmt.Sprintf("%s type ['%s']", t.meta, t.elementTypeName)
}

func (t *ArrayType) IfCond() []string {
	if t.elementType != nil {
		return t.elementType.IfCond()
	}
	return t.ifcond
}

func (t *ArrayType) check(s *Schema) error {
	if err := checkTypeBase(s, &t.entityBase); err != nil {
		return err
	}
	what := ""
	if t.info != nil {
		what = t.info.DefnMeta()
	}
	elementType, err := s.resolveType(t.elementTypeName, t.info, what)
	if err != nil {
		return err
	}
	t.elementType = elementType
	return nil
}

// ObjectType covers the three object forms of the language:
//
//   - struct: local members, optional base, no variants
//   - flat union: base and variants, no local members
//   - simple union: local members (the synthesized tag) and variants
//
// members is the fully resolved own+inherited member list; it is only
// populated once check() succeeds, and doubles as the completion marker.
type ObjectType struct {
	entityBase
	baseName     string
	base         *ObjectType
	localMembers []*ObjectMember
	variants     *Variants
	members      []*ObjectMember

	// Simple-union wrapper types inherit the wrapped type's condition.
	wrappedIf Type
}

func newObjectType(
	name string,
	info *source.Info,
	doc *syntax.Doc,
	ifcond []string,
	features []*Feature,
	base string,
	localMembers []*ObjectMember,
	variants *Variants,
) *ObjectType {
	meta := "struct"
	if variants != nil {
		meta = "union"
	}
	for _, member := range localMembers {
		member.definedIn = name
	}
	if variants != nil {
		variants.setDefinedIn(name)
	}
	return &ObjectType{
		entityBase: entityBase{
			name: name, info: info, doc: doc,
			ifcond: ifcond, features: features, meta: meta,
		},
		baseName:     base,
		localMembers: localMembers,
		variants:     variants,
	}
}

func (t *ObjectType) Base() *ObjectType             { return t.base }
func (t *ObjectType) LocalMembers() []*ObjectMember { return t.localMembers }
func (t *ObjectType) Variants() *Variants           { return t.variants }
func (t *ObjectType) JSONType() string              { return "object" }
func (t *ObjectType) Describe() string              { return typeDescribe(&t.entityBase) }

// Members is the flattened inherited+own member list, valid only after
// validation.
func (t *ObjectType) Members() []*ObjectMember { return t.members }

func (t *ObjectType) IsImplicit() bool {
	// System-synthesized object types carry the reserved q_ prefix.
	return strings.HasPrefix(t.name, "q_")
}

func (t *ObjectType) IsEmpty() bool {
	return len(t.members) == 0 && t.variants == nil
}

func (t *ObjectType) IfCond() []string {
	if t.wrappedIf != nil {
		return t.wrappedIf.IfCond()
	}
	return t.ifcond
}

// check resolves and flattens the type. It recurses into exactly the
// types whose unboxed layout this type contains, so re-entry into a type
// still mid-resolution means the value graph contains itself.
func (t *ObjectType) check(s *Schema) error {
	if t.members != nil {
		// A previous check() completed: nothing to do
		return nil
	}
	if t.checked {
		// Recursed: the type contains itself
		return semErrf(t.info, "object %s contains itself", t.name)
	}

	if err := checkTypeBase(s, &t.entityBase); err != nil {
		return err
	}

	seen := make(map[string]*ObjectMember)
	members := make([]*ObjectMember, 0, len(t.localMembers))
	if t.baseName != "" {
		baseType, err := s.resolveType(t.baseName, t.info, "'base'")
		if err != nil {
			return err
		}
		base, ok := baseType.(*ObjectType)
		if !ok || base.variants != nil {
			return semErrf(t.info,
				"'base' requires a struct type, %s isn't",
				baseType.Describe())
		}
		t.base = base
		if err := base.check(s); err != nil {
			return err
		}
		if err := base.checkClash(t.info, seen); err != nil {
			return err
		}
		members = append(members, base.members...)
	}
	for _, member := range t.localMembers {
		if err := member.check(s); err != nil {
			return err
		}
		if err := member.checkClash(t.info, seen); err != nil {
			return err
		}
		members = append(members, member)
	}

	if t.variants != nil {
		if err := t.variants.check(s, seen); err != nil {
			return err
		}
		if err := t.variants.checkClash(t.info, seen); err != nil {
			return err
		}
	}

	t.members = members // mark completed
	return nil
}

// checkClash checks that this type's flattened members do not collide
// with the members seen so far, updating seen. Errors are reported on
// behalf of info, which is not necessarily t.info.
func (t *ObjectType) checkClash(
	info *source.Info,
	seen map[string]*ObjectMember,
) error {
	for _, member := range t.members {
		if err := member.checkClash(info, seen); err != nil {
			return err
		}
	}
	return nil
}

func (t *ObjectType) connectDoc(doc *syntax.Doc) error {
	if err := t.connectDocTo(doc); err != nil {
		return err
	}
	if doc == nil {
		doc = t.doc
	}
	if doc == nil {
		return nil
	}
	if t.base != nil && t.base.IsImplicit() {
		if err := t.base.connectDoc(doc); err != nil {
			return err
		}
	}
	for _, member := range t.localMembers {
		if err := member.connectDoc(doc); err != nil {
			return err
		}
	}
	return nil
}

// AlternateType is a tagged choice between heterogeneous types, where the
// tag is the wire-level data kind rather than a declared enum.
type AlternateType struct {
	entityBase
	variants *Variants
}

func newAlternateType(
	name string,
	info *source.Info,
	doc *syntax.Doc,
	ifcond []string,
	features []*Feature,
	variants *Variants,
) *AlternateType {
	variants.setDefinedIn(name)
	variants.tagMember.definedIn = name
	return &AlternateType{
		entityBase: entityBase{
			name: name, info: info, doc: doc,
			ifcond: ifcond, features: features, meta: "alternate",
		},
		variants: variants,
	}
}

func (t *AlternateType) Variants() *Variants { return t.variants }
func (t *AlternateType) JSONType() string    { return "value" }
func (t *AlternateType) Describe() string    { return typeDescribe(&t.entityBase) }

func (t *AlternateType) check(s *Schema) error {
	if err := checkTypeBase(s, &t.entityBase); err != nil {
		return err
	}
	if err := t.variants.tagMember.check(s); err != nil {
		return err
	}
	// Not calling t.variants.checkClash(): there is nothing to clash with
	if err := t.variants.check(s, make(map[string]*ObjectMember)); err != nil {
		return err
	}

	// Alternate branch names have no relation to the tag enum values, so
	// name collisions need checking here.
	seen := make(map[string]*ObjectMember)
	typesSeen := make(map[string]string)
	for _, variant := range t.variants.variants {
		if err := variant.checkClash(t.info, seen); err != nil {
			return err
		}

		kind, ok := alternateKind(variant.typ)
		if !ok {
			return semErrf(t.info, "%s cannot use %s",
				variant.describe(t.info), variant.typ.Describe())
		}

		conflicting := map[string]bool{kind: true}
		if kind == kindString {
			if enum, ok := variant.typ.(*EnumType); ok {
				for _, member := range enum.members {
					if member.name == "on" || member.name == "off" {
						conflicting[kindBool] = true
					}
					if member.name != "" &&
						strings.ContainsAny(member.name[:1], "-+0123456789.") {
						// lazy, could be tightened
						conflicting[kindNumber] = true
					}
				}
			} else {
				conflicting[kindNumber] = true
				conflicting[kindBool] = true
			}
		}

		for kind := range conflicting {
			if prev, ok := typesSeen[kind]; ok {
				return semErrf(t.info, "%s can't be distinguished from '%s'",
					variant.describe(t.info), prev)
			}
			typesSeen[kind] = variant.name
		}
	}
	return nil
}

func (t *AlternateType) connectDoc(doc *syntax.Doc) error {
	if err := t.connectDocTo(doc); err != nil {
		return err
	}
	if doc == nil {
		doc = t.doc
	}
	if doc != nil {
		for _, variant := range t.variants.variants {
			doc.ConnectMember(variant.name)
		}
	}
	return nil
}

// Wire kinds: the coarse categories used to disambiguate alternate
// branches.
const (
	kindNull   = "null"
	kindString = "string"
	kindNumber = "number"
	kindBool   = "boolean"
	kindObject = "object"
)

func alternateKind(typ Type) (string, bool) {
	switch typ.JSONType() {
	case "null":
		return kindNull, true
	case "string":
		return kindString, true
	case "number", "int":
		return kindNumber, true
	case "boolean":
		return kindBool, true
	case "object":
		return kindObject, true
	}
	return "", false
}

// Variants is the branch block of a union or alternate. Flat unions have
// tagName set and resolve tagMember during validation; simple unions and
// alternates are built with a synthesized tagMember and no tagName, which
// keeps tagName a reliable witness of flat-union-ness.
type Variants struct {
	tagName   string
	info      *source.Info
	tagMember *ObjectMember
	variants  []*Variant
}

func (v *Variants) TagName() string          { return v.tagName }
func (v *Variants) TagMember() *ObjectMember { return v.tagMember }
func (v *Variants) Variants() []*Variant     { return v.variants }

func (v *Variants) setDefinedIn(name string) {
	for _, variant := range v.variants {
		variant.definedIn = name
	}
}

func (v *Variants) check(s *Schema, seen map[string]*ObjectMember) error {
	if v.tagMember == nil { // flat union
		tagMember := seen[mangleName(v.tagName)]
		base := "'base'"
		if tagMember == nil || v.tagName != tagMember.name {
			return semErrf(v.info,
				"discriminator '%s' is not a member of %s",
				v.tagName, base)
		}
		v.tagMember = tagMember
		if baseType := s.lookupType(tagMember.definedIn); baseType != nil &&
			!baseType.IsImplicit() {
			base = fmt.Sprintf("base type '%s'", tagMember.definedIn)
		}
		if _, ok := tagMember.typ.(*EnumType); !ok {
			return semErrf(v.info,
				"discriminator member '%s' of %s must be of enum type",
				v.tagName, base)
		}
		if tagMember.optional {
			return semErrf(v.info,
				"discriminator member '%s' of %s must not be optional",
				v.tagName, base)
		}
		if len(tagMember.ifcond) > 0 {
			return semErrf(v.info,
				"discriminator member '%s' of %s must not be conditional",
				v.tagName, base)
		}
	}
	if v.tagName != "" { // flat union
		// Branches not explicitly covered get an empty type, so unions
		// are total over the discriminator's domain.
		cases := make(map[string]bool, len(v.variants))
		for _, variant := range v.variants {
			cases[variant.name] = true
		}
		tagEnum := v.tagMember.typ.(*EnumType)
		for _, member := range tagEnum.members {
			if !cases[member.name] {
				variant := newVariant(member.name, v.info, "q_empty",
					member.ifcond)
				variant.definedIn = v.tagMember.definedIn
				v.variants = append(v.variants, variant)
			}
		}
	}
	if len(v.variants) == 0 {
		return semErrf(v.info, "union has no branches")
	}
	for _, variant := range v.variants {
		if err := variant.check(s); err != nil {
			return err
		}
		// Union branch names must match enum values; alternate branch
		// names are checked separately. seen tells the two apart.
		if len(seen) > 0 {
			tagEnum := v.tagMember.typ.(*EnumType)
			if !tagEnum.hasMember(variant.name) {
				return semErrf(v.info, "branch '%s' is not a value of %s",
					variant.name, tagEnum.Describe())
			}
			variantType, ok := variant.typ.(*ObjectType)
			if !ok || variantType.variants != nil {
				return semErrf(v.info, "%s cannot use %s",
					variant.describe(v.info), variant.typ.Describe())
			}
			if err := variantType.check(s); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkClash checks each branch against a fresh copy of the members seen
// so far: names from one branch do not affect another branch.
func (v *Variants) checkClash(
	info *source.Info,
	seen map[string]*ObjectMember,
) error {
	for _, variant := range v.variants {
		variantType := variant.typ.(*ObjectType)
		if err := variantType.checkClash(info, maps.Clone(seen)); err != nil {
			return err
		}
	}
	return nil
}

// Command is a callable operation. The generation flags are opaque to the
// model and forwarded to backends unchanged.
type Command struct {
	entityBase
	argTypeName string
	argType     *ObjectType
	retTypeName string
	retType     Type

	gen             bool
	successResponse bool
	boxed           bool
	allowOOB        bool
	allowPreconfig  bool
	coroutine       bool
}

func (c *Command) ArgType() *ObjectType  { return c.argType }
func (c *Command) RetType() Type         { return c.retType }
func (c *Command) Gen() bool             { return c.gen }
func (c *Command) SuccessResponse() bool { return c.successResponse }
func (c *Command) Boxed() bool           { return c.boxed }
func (c *Command) AllowOOB() bool        { return c.allowOOB }
func (c *Command) AllowPreconfig() bool  { return c.allowPreconfig }
func (c *Command) Coroutine() bool       { return c.coroutine }

func (c *Command) check(s *Schema) error {
	if err := c.checkBase(s); err != nil {
		return err
	}
	if c.argTypeName != "" {
		argType, err := s.resolveType(c.argTypeName, c.info, "command's 'data'")
		if err != nil {
			return err
		}
		objType, ok := argType.(*ObjectType)
		if !ok {
			return semErrf(c.info, "command's 'data' cannot take %s",
				argType.Describe())
		}
		c.argType = objType
		if c.argType.variants != nil && !c.boxed {
			return semErrf(c.info,
				"command's 'data' can take %s only with 'boxed': true",
				c.argType.Describe())
		}
	}
	if c.retTypeName != "" {
		retType, err := s.resolveType(c.retTypeName, c.info, "command's 'returns'")
		if err != nil {
			return err
		}
		c.retType = retType
		if !c.info.Pragma().ReturnsWhitelisted(c.name) {
			typ := retType
			if arrayType, ok := typ.(*ArrayType); ok {
				typ = arrayType.elementType
			}
			if _, ok := typ.(*ObjectType); !ok {
				return semErrf(c.info,
					"command's 'returns' cannot take %s",
					c.retType.Describe())
			}
		}
	}
	return nil
}

func (c *Command) connectDoc(doc *syntax.Doc) error {
	if err := c.connectDocTo(doc); err != nil {
		return err
	}
	if doc == nil {
		doc = c.doc
	}
	if doc != nil && c.argType != nil && c.argType.IsImplicit() {
		return c.argType.connectDoc(doc)
	}
	return nil
}

// Event is a one-way notification.
type Event struct {
	entityBase
	argTypeName string
	argType     *ObjectType
	boxed       bool
}

func (e *Event) ArgType() *ObjectType { return e.argType }
func (e *Event) Boxed() bool          { return e.boxed }

func (e *Event) check(s *Schema) error {
	if err := e.checkBase(s); err != nil {
		return err
	}
	if e.argTypeName != "" {
		argType, err := s.resolveType(e.argTypeName, e.info, "event's 'data'")
		if err != nil {
			return err
		}
		objType, ok := argType.(*ObjectType)
		if !ok {
			return semErrf(e.info, "event's 'data' cannot take %s",
				argType.Describe())
		}
		e.argType = objType
		if e.argType.variants != nil && !e.boxed {
			return semErrf(e.info,
				"event's 'data' can take %s only with 'boxed': true",
				e.argType.Describe())
		}
	}
	return nil
}

func (e *Event) connectDoc(doc *syntax.Doc) error {
	if err := e.connectDocTo(doc); err != nil {
		return err
	}
	if doc == nil {
		doc = e.doc
	}
	if doc != nil && e.argType != nil && e.argType.IsImplicit() {
		return e.argType.connectDoc(doc)
	}
	return nil
}

// Include is the anonymous entity linking a module to the sub-module it
// includes, preserving traversal order.
type Include struct {
	entityBase
	subModule *Module
}

func (inc *Include) SubModule() *Module { return inc.subModule }

func (inc *Include) check(s *Schema) error {
	return inc.checkBase(s)
}

// Member represents enum members and features, and is embedded by object
// members and variants.
type Member struct {
	name      string
	info      *source.Info
	ifcond    []string
	definedIn string
	role      string
}

func (m *Member) Name() string       { return m.name }
func (m *Member) Info() *source.Info { return m.info }
func (m *Member) IfCond() []string   { return m.ifcond }

func (m *Member) checkClash(info *source.Info, seen map[string]*Member) error {
	cname := mangleName(m.name)
	if other, ok := seen[cname]; ok {
		return semErrf(info, "%s collides with %s",
			m.describe(info), other.describe(info))
	}
	seen[cname] = m
	return nil
}

// describe renders a member for diagnostics, unwrapping the synthesized
// container names into the role the user actually wrote.
func (m *Member) describe(info *source.Info) string {
	role := m.role
	definedIn := m.definedIn
	if rest, ok := strings.CutPrefix(definedIn, "q_obj_"); ok {
		definedIn = rest
		if strings.HasSuffix(definedIn, "-arg") {
			// Implicit type created for a command's inline 'data'
			role = "parameter"
		} else if strings.HasSuffix(definedIn, "-base") {
			// Implicit type created for a flat union's inline 'base'
			role = "base " + role
		}
	} else if strings.HasSuffix(definedIn, "Kind") {
		// Implicit enum created for a simple union's branches
		role = "branch"
	} else if info != nil && definedIn != "" && definedIn != info.DefnName() {
		return fmt.Sprintf("%s '%s' of type '%s'", role, m.name, definedIn)
	}
	return fmt.Sprintf("%s '%s'", role, m.name)
}

// EnumMember is one value of an enum type.
type EnumMember struct {
	Member
}

func newEnumMember(name string, info *source.Info, ifcond []string) *EnumMember {
	return &EnumMember{Member{name: name, info: info, ifcond: ifcond, role: "value"}}
}

// Feature is a named feature flag on an entity or object member.
type Feature struct {
	Member
}

func newFeature(name string, info *source.Info, ifcond []string) *Feature {
	return &Feature{Member{name: name, info: info, ifcond: ifcond, role: "feature"}}
}

// ObjectMember is a member of an object type, referencing its type by
// name until resolved.
type ObjectMember struct {
	Member
	typeName string
	typ      Type
	optional bool
	features []*Feature
}

func newObjectMember(
	name string,
	info *source.Info,
	typeName string,
	optional bool,
	ifcond []string,
	features []*Feature,
) *ObjectMember {
	for _, feature := range features {
		feature.definedIn = name
	}
	return &ObjectMember{
		Member:   Member{name: name, info: info, ifcond: ifcond, role: "member"},
		typeName: typeName,
		optional: optional,
		features: features,
	}
}

func (m *ObjectMember) Type() Type           { return m.typ }
func (m *ObjectMember) Optional() bool       { return m.optional }
func (m *ObjectMember) Features() []*Feature { return m.features }

func (m *ObjectMember) check(s *Schema) error {
	typ, err := s.resolveType(m.typeName, m.info, m.describe(m.info))
	if err != nil {
		return err
	}
	m.typ = typ
	seen := make(map[string]*Member)
	for _, feature := range m.features {
		if err := feature.checkClash(m.info, seen); err != nil {
			return err
		}
	}
	return nil
}

func (m *ObjectMember) checkClash(
	info *source.Info,
	seen map[string]*ObjectMember,
) error {
	cname := mangleName(m.name)
	if other, ok := seen[cname]; ok {
		return semErrf(info, "%s collides with %s",
			m.describe(info), other.describe(info))
	}
	seen[cname] = m
	return nil
}

func (m *ObjectMember) connectDoc(doc *syntax.Doc) error {
	if doc == nil {
		return nil
	}
	doc.ConnectMember(m.name)
	for _, feature := range m.features {
		if !doc.ConnectFeature(feature.name) {
			return semErrf(feature.info,
				"feature '%s' lacks documentation", feature.name)
		}
	}
	return nil
}

// Variant is one branch of a union or alternate.
type Variant struct {
	ObjectMember
}

func newVariant(name string, info *source.Info, typeName string, ifcond []string) *Variant {
	return &Variant{ObjectMember{
		Member:   Member{name: name, info: info, ifcond: ifcond, role: "branch"},
		typeName: typeName,
	}}
}

// Module is the partition of entities by originating source file. The
// builtin module has the empty name.
type Module struct {
	name     string
	entities []Entity
}

func (m *Module) Name() string       { return m.name }
func (m *Module) Entities() []Entity { return m.entities }

func (m *Module) add(ent Entity) {
	m.entities = append(m.entities, ent)
}
