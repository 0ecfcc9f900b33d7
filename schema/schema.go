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

// Package schema builds the semantic model of a schema document: named
// entities with resolved type references, flattened object members, and
// documentation bound to what it documents.
package schema

import (
	"fmt"
	"path/filepath"
	"slices"

	"go.qapic.dev/qapic/source"
	"go.qapic.dev/qapic/syntax"
)

// Schema is the validated semantic model of one schema document and
// everything it includes, partitioned into per-file modules.
type Schema struct {
	fname     string
	schemaDir string
	pragma    *source.Pragma
	docs      []*syntax.Doc

	entityList  []Entity
	entityDict  map[string]Entity
	modules     []*Module
	moduleDict  map[string]*Module
	emptyObject *ObjectType
}

// Load parses and validates the schema document at fname.
func Load(fname string) (*Schema, error) {
	parsed, err := syntax.ParseFile(fname)
	if err != nil {
		return nil, err
	}
	return New(fname, parsed)
}

// New validates a parsed schema document into a semantic model.
func New(fname string, parsed *syntax.Result) (*Schema, error) {
	s := &Schema{
		fname:      fname,
		schemaDir:  filepath.Dir(fname),
		pragma:     parsed.Pragma,
		docs:       parsed.Docs,
		entityDict: make(map[string]Entity),
		moduleDict: make(map[string]*Module),
	}
	s.module("") // builtins
	s.module(s.moduleName(fname))
	if err := s.defPredefineds(); err != nil {
		return nil, err
	}
	if err := s.defExprs(parsed.Exprs); err != nil {
		return nil, err
	}
	if err := s.check(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Schema) Fname() string          { return s.fname }
func (s *Schema) Pragma() *source.Pragma { return s.pragma }
func (s *Schema) Docs() []*syntax.Doc    { return s.docs }
func (s *Schema) Modules() []*Module     { return s.modules }
func (s *Schema) Entities() []Entity     { return s.entityList }

// moduleName keys modules by their path relative to the main document's
// directory. The empty name is reserved for the builtin module.
func (s *Schema) moduleName(fname string) string {
	if fname == "" {
		return ""
	}
	if rel, err := filepath.Rel(s.schemaDir, fname); err == nil {
		return rel
	}
	return fname
}

func (s *Schema) module(name string) *Module {
	mod, ok := s.moduleDict[name]
	if !ok {
		mod = &Module{name: name}
		s.moduleDict[name] = mod
		s.modules = append(s.modules, mod)
	}
	return mod
}

func (s *Schema) defEntity(ent Entity) error {
	name := ent.Name()
	if other, ok := s.entityDict[name]; ok {
		if other.Info() != nil {
			return semErrf(ent.Info(),
				"'%s' is already defined\n%s: previous definition",
				name, other.Info().Loc())
		}
		return semErrf(ent.Info(), "%s is already defined", other.Describe())
	}
	s.entityList = append(s.entityList, ent)
	s.entityDict[name] = ent
	return nil
}

func (s *Schema) LookupEntity(name string) Entity {
	return s.entityDict[name]
}

func (s *Schema) LookupType(name string) Type {
	return s.lookupType(name)
}

func (s *Schema) lookupType(name string) Type {
	if typ, ok := s.entityDict[name].(Type); ok {
		return typ
	}
	return nil
}

// The empty object type, shared by all synthesized uses.
func (s *Schema) EmptyObjectType() *ObjectType {
	return s.emptyObject
}

func (s *Schema) resolveType(
	name string,
	info *source.Info,
	what string,
) (Type, error) {
	typ := s.lookupType(name)
	if typ == nil {
		return nil, semErrf(info, "%s uses unknown type '%s'", what, name)
	}
	return typ, nil
}

func (s *Schema) defBuiltinType(name, jsonType string) error {
	if err := s.defEntity(newBuiltinType(name, jsonType)); err != nil {
		return err
	}
	// Declare the corresponding array type eagerly, so backends see a
	// stable set of builtin arrays.
	_, err := s.makeArrayType(name, nil)
	return err
}

func (s *Schema) defPredefineds() error {
	builtins := []struct{ name, jsonType string }{
		{"str", "string"},
		{"number", "number"},
		{"int", "int"},
		{"int8", "int"},
		{"int16", "int"},
		{"int32", "int"},
		{"int64", "int"},
		{"uint8", "int"},
		{"uint16", "int"},
		{"uint32", "int"},
		{"uint64", "int"},
		{"size", "int"},
		{"bool", "boolean"},
		{"any", "value"},
		{"null", "null"},
	}
	for _, b := range builtins {
		if err := s.defBuiltinType(b.name, b.jsonType); err != nil {
			return err
		}
	}

	s.emptyObject = newObjectType("q_empty", nil, nil, nil, nil, "", nil, nil)
	if err := s.defEntity(s.emptyObject); err != nil {
		return err
	}

	qtypes := []string{"none", "qnull", "qnum", "qstring", "qdict", "qlist", "qbool"}
	members := make([]*EnumMember, 0, len(qtypes))
	for _, qt := range qtypes {
		members = append(members, newEnumMember(qt, nil, nil))
	}
	return s.defEntity(newEnumType("QType", nil, nil, nil, nil, members, "QTYPE"))
}

func (s *Schema) makeArrayType(
	elementType string,
	info *source.Info,
) (string, error) {
	name := elementType + "List"
	if s.lookupType(name) == nil {
		if err := s.defEntity(newArrayType(name, info, elementType)); err != nil {
			return "", err
		}
	}
	return name, nil
}

func (s *Schema) makeImplicitEnumType(
	name string,
	info *source.Info,
	ifcond []string,
	members []*EnumMember,
) (string, error) {
	name = name + "Kind"
	// See also ObjectType.IsImplicit()
	return name, s.defEntity(newEnumType(name, info, nil, ifcond, nil, members, ""))
}

// makeImplicitObjectType synthesizes (or reuses) the q_obj_<name>-<role>
// container for inline members. A reused type must carry the same
// condition: the correct merged condition is not computed, merely
// asserted.
func (s *Schema) makeImplicitObjectType(
	name string,
	info *source.Info,
	ifcond []string,
	wrappedIf Type,
	role string,
	members []*ObjectMember,
) (string, error) {
	if len(members) == 0 {
		return "", nil
	}
	// See also ObjectType.IsImplicit()
	typeName := "q_obj_" + name + "-" + role
	if existing, ok := s.entityDict[typeName].(*ObjectType); ok {
		if wrappedIf != nil {
			if existing.wrappedIf != wrappedIf {
				panic(fmt.Sprintf(
					"conflicting conditions for implicit type %s", typeName))
			}
		} else if !slices.Equal(ifcond, existing.ifcond) {
			panic(fmt.Sprintf(
				"conflicting conditions for implicit type %s", typeName))
		}
		return typeName, nil
	}
	typ := newObjectType(typeName, info, nil, ifcond, nil, "", members, nil)
	typ.wrappedIf = wrappedIf
	return typeName, s.defEntity(typ)
}

// Raw-shape helpers. The parser guarantees only the expression grammar;
// the shapes of individual definition keys are normalized here.

func condOf(val syntax.Value, info *source.Info, what string) ([]string, error) {
	switch v := val.(type) {
	case nil:
		return nil, nil
	case syntax.String:
		return []string{string(v)}, nil
	case syntax.List:
		conds := make([]string, 0, len(v))
		for _, elem := range v {
			cond, ok := elem.(syntax.String)
			if !ok {
				return nil, semErrf(info,
					"'if' condition of %s must be a string or a list of strings",
					what)
			}
			conds = append(conds, string(cond))
		}
		return conds, nil
	}
	return nil, semErrf(info,
		"'if' condition of %s must be a string or a list of strings", what)
}

func (s *Schema) makeFeatures(
	val syntax.Value,
	info *source.Info,
) ([]*Feature, error) {
	if val == nil {
		return nil, nil
	}
	list, ok := val.(syntax.List)
	if !ok {
		return nil, semErrf(info, "'features' must be an array")
	}
	features := make([]*Feature, 0, len(list))
	for _, elem := range list {
		switch f := elem.(type) {
		case syntax.String:
			features = append(features, newFeature(string(f), info, nil))
		case *syntax.Object:
			nameVal, _ := f.Get("name")
			name, ok := nameVal.(syntax.String)
			if !ok {
				return nil, semErrf(info, "feature requires a string 'name'")
			}
			ifVal, _ := f.Get("if")
			ifcond, err := condOf(ifVal, info,
				fmt.Sprintf("feature '%s'", name))
			if err != nil {
				return nil, err
			}
			features = append(features, newFeature(string(name), info, ifcond))
		default:
			return nil, semErrf(info,
				"'features' must be an array of strings or objects")
		}
	}
	return features, nil
}

func makeEnumMembers(
	val syntax.Value,
	info *source.Info,
) ([]*EnumMember, error) {
	list, ok := val.(syntax.List)
	if !ok {
		return nil, semErrf(info, "enum 'data' must be an array")
	}
	members := make([]*EnumMember, 0, len(list))
	for _, elem := range list {
		switch m := elem.(type) {
		case syntax.String:
			members = append(members, newEnumMember(string(m), info, nil))
		case *syntax.Object:
			nameVal, _ := m.Get("name")
			name, ok := nameVal.(syntax.String)
			if !ok {
				return nil, semErrf(info, "enum member requires a string 'name'")
			}
			ifVal, _ := m.Get("if")
			ifcond, err := condOf(ifVal, info,
				fmt.Sprintf("enum member '%s'", name))
			if err != nil {
				return nil, err
			}
			members = append(members, newEnumMember(string(name), info, ifcond))
		default:
			return nil, semErrf(info,
				"enum 'data' must be an array of strings or objects")
		}
	}
	return members, nil
}

// typeNameOf resolves a type reference written as either a type name or a
// single-element array of a type name, declaring the array type on demand.
func (s *Schema) typeNameOf(
	val syntax.Value,
	info *source.Info,
	what string,
) (string, error) {
	switch t := val.(type) {
	case syntax.String:
		return string(t), nil
	case syntax.List:
		if len(t) == 1 {
			if elem, ok := t[0].(syntax.String); ok {
				return s.makeArrayType(string(elem), info)
			}
		}
		return "", semErrf(info,
			"%s: array type must contain single type name", what)
	}
	return "", semErrf(info, "%s should be a type name or array", what)
}

func (s *Schema) makeMember(
	name string,
	val syntax.Value,
	info *source.Info,
) (*ObjectMember, error) {
	optional := false
	if len(name) > 0 && name[0] == '*' {
		name = name[1:]
		optional = true
	}

	typVal := val
	var ifcond []string
	var features []*Feature
	if obj, ok := val.(*syntax.Object); ok {
		typVal, _ = obj.Get("type")
		if typVal == nil {
			return nil, semErrf(info, "member '%s' requires a 'type'", name)
		}
		ifVal, _ := obj.Get("if")
		var err error
		ifcond, err = condOf(ifVal, info, fmt.Sprintf("member '%s'", name))
		if err != nil {
			return nil, err
		}
		featVal, _ := obj.Get("features")
		features, err = s.makeFeatures(featVal, info)
		if err != nil {
			return nil, err
		}
	}
	typeName, err := s.typeNameOf(typVal, info,
		fmt.Sprintf("member '%s'", name))
	if err != nil {
		return nil, err
	}
	return newObjectMember(name, info, typeName, optional, ifcond, features), nil
}

func (s *Schema) makeMembers(
	val syntax.Value,
	info *source.Info,
) ([]*ObjectMember, error) {
	if val == nil {
		return nil, nil
	}
	obj, ok := val.(*syntax.Object)
	if !ok {
		return nil, semErrf(info, "'data' must be an object")
	}
	members := make([]*ObjectMember, 0, obj.Len())
	for key, value := range obj.Pairs() {
		member, err := s.makeMember(key, value, info)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, nil
}

func (s *Schema) makeVariant(
	caseName string,
	val syntax.Value,
	info *source.Info,
) (*Variant, error) {
	typVal := val
	var ifcond []string
	if obj, ok := val.(*syntax.Object); ok {
		typVal, _ = obj.Get("type")
		if typVal == nil {
			return nil, semErrf(info, "branch '%s' requires a 'type'", caseName)
		}
		ifVal, _ := obj.Get("if")
		var err error
		ifcond, err = condOf(ifVal, info,
			fmt.Sprintf("branch '%s'", caseName))
		if err != nil {
			return nil, err
		}
	}
	typeName, err := s.typeNameOf(typVal, info,
		fmt.Sprintf("branch '%s'", caseName))
	if err != nil {
		return nil, err
	}
	return newVariant(caseName, info, typeName, ifcond), nil
}

// makeSimpleVariant wraps a simple-union branch type into the implicit
// q_obj_<type>-wrapper object with the single member 'data'.
func (s *Schema) makeSimpleVariant(
	caseName string,
	val syntax.Value,
	info *source.Info,
) (*Variant, error) {
	typVal := val
	var ifcond []string
	if obj, ok := val.(*syntax.Object); ok {
		typVal, _ = obj.Get("type")
		if typVal == nil {
			return nil, semErrf(info, "branch '%s' requires a 'type'", caseName)
		}
		ifVal, _ := obj.Get("if")
		var err error
		ifcond, err = condOf(ifVal, info,
			fmt.Sprintf("branch '%s'", caseName))
		if err != nil {
			return nil, err
		}
	}
	typeName, err := s.typeNameOf(typVal, info,
		fmt.Sprintf("branch '%s'", caseName))
	if err != nil {
		return nil, err
	}
	// The wrapper's condition is the wrapped type's, which may not be
	// defined yet; resolution of the 'data' member reports that later.
	wrapped := s.lookupType(typeName)
	member := newObjectMember("data", info, typeName, false, nil, nil)
	wrapperName, err := s.makeImplicitObjectType(
		typeName, info, nil, wrapped, "wrapper", []*ObjectMember{member})
	if err != nil {
		return nil, err
	}
	return newVariant(caseName, info, wrapperName, ifcond), nil
}

// Definition builders, one per metatype.

func (s *Schema) defEnumType(
	expr *syntax.Object,
	info *source.Info,
	doc *syntax.Doc,
	name string,
	ifcond []string,
	features []*Feature,
) error {
	dataVal, _ := expr.Get("data")
	members, err := makeEnumMembers(dataVal, info)
	if err != nil {
		return err
	}
	prefix := ""
	if prefixVal, ok := expr.Get("prefix"); ok {
		p, ok := prefixVal.(syntax.String)
		if !ok {
			return semErrf(info, "'prefix' must be a string")
		}
		prefix = string(p)
	}
	return s.defEntity(newEnumType(name, info, doc, ifcond, features,
		members, prefix))
}

func (s *Schema) defStructType(
	expr *syntax.Object,
	info *source.Info,
	doc *syntax.Doc,
	name string,
	ifcond []string,
	features []*Feature,
) error {
	base := ""
	if baseVal, ok := expr.Get("base"); ok {
		b, ok := baseVal.(syntax.String)
		if !ok {
			return semErrf(info, "'base' must be a type name")
		}
		base = string(b)
	}
	dataVal, _ := expr.Get("data")
	members, err := s.makeMembers(dataVal, info)
	if err != nil {
		return err
	}
	return s.defEntity(newObjectType(name, info, doc, ifcond, features,
		base, members, nil))
}

func (s *Schema) defUnionType(
	expr *syntax.Object,
	info *source.Info,
	doc *syntax.Doc,
	name string,
	ifcond []string,
	features []*Feature,
) error {
	dataVal, _ := expr.Get("data")
	data, ok := dataVal.(*syntax.Object)
	if !ok {
		return semErrf(info, "'data' must be an object")
	}

	tagName := ""
	if tagVal, ok := expr.Get("discriminator"); ok {
		t, ok := tagVal.(syntax.String)
		if !ok {
			return semErrf(info, "'discriminator' must be a string")
		}
		tagName = string(t)
	}

	base := ""
	if baseVal, ok := expr.Get("base"); ok {
		switch b := baseVal.(type) {
		case syntax.String:
			base = string(b)
		case *syntax.Object:
			// Inline base: synthesize the q_obj_<name>-base type
			baseMembers, err := s.makeMembers(b, info)
			if err != nil {
				return err
			}
			base, err = s.makeImplicitObjectType(name, info, ifcond, nil,
				"base", baseMembers)
			if err != nil {
				return err
			}
		default:
			return semErrf(info, "'base' must be a type name or an object")
		}
	}

	var members []*ObjectMember
	var tagMember *ObjectMember
	var variants []*Variant
	if tagName != "" { // flat union
		for key, value := range data.Pairs() {
			variant, err := s.makeVariant(key, value, info)
			if err != nil {
				return err
			}
			variants = append(variants, variant)
		}
	} else { // simple union: synthesize the tag enum and member
		enumMembers := make([]*EnumMember, 0, data.Len())
		for key, value := range data.Pairs() {
			variant, err := s.makeSimpleVariant(key, value, info)
			if err != nil {
				return err
			}
			variants = append(variants, variant)
			enumMembers = append(enumMembers,
				newEnumMember(key, info, variant.ifcond))
		}
		typeName, err := s.makeImplicitEnumType(name, info, ifcond, enumMembers)
		if err != nil {
			return err
		}
		tagMember = newObjectMember("type", info, typeName, false, nil, nil)
		members = []*ObjectMember{tagMember}
	}

	return s.defEntity(newObjectType(name, info, doc, ifcond, features,
		base, members,
		&Variants{tagName: tagName, info: info, tagMember: tagMember,
			variants: variants}))
}

func (s *Schema) defAlternateType(
	expr *syntax.Object,
	info *source.Info,
	doc *syntax.Doc,
	name string,
	ifcond []string,
	features []*Feature,
) error {
	dataVal, _ := expr.Get("data")
	data, ok := dataVal.(*syntax.Object)
	if !ok {
		return semErrf(info, "'data' must be an object")
	}
	var variants []*Variant
	for key, value := range data.Pairs() {
		variant, err := s.makeVariant(key, value, info)
		if err != nil {
			return err
		}
		variants = append(variants, variant)
	}
	tagMember := newObjectMember("type", info, "QType", false, nil, nil)
	return s.defEntity(newAlternateType(name, info, doc, ifcond, features,
		&Variants{info: info, tagMember: tagMember, variants: variants}))
}

func boolOpt(
	expr *syntax.Object,
	key string,
	def bool,
	info *source.Info,
) (bool, error) {
	val, ok := expr.Get(key)
	if !ok {
		return def, nil
	}
	b, ok := val.(syntax.Bool)
	if !ok {
		return def, semErrf(info, "'%s' must be boolean", key)
	}
	return bool(b), nil
}

// defDataType resolves a command's or event's 'data' into a type name,
// synthesizing the q_obj_<name>-arg container for inline members. Boxed
// data must name a type.
func (s *Schema) defDataType(
	expr *syntax.Object,
	info *source.Info,
	name string,
	ifcond []string,
	boxed bool,
) (string, error) {
	dataVal, ok := expr.Get("data")
	if !ok {
		return "", nil
	}
	if data, ok := dataVal.(syntax.String); ok {
		return string(data), nil
	}
	if boxed {
		return "", semErrf(info, "'data' must be a type name when boxed")
	}
	members, err := s.makeMembers(dataVal, info)
	if err != nil {
		return "", err
	}
	return s.makeImplicitObjectType(name, info, ifcond, nil, "arg", members)
}

func (s *Schema) defCommand(
	expr *syntax.Object,
	info *source.Info,
	doc *syntax.Doc,
	name string,
	ifcond []string,
	features []*Feature,
) error {
	boxed, err := boolOpt(expr, "boxed", false, info)
	if err != nil {
		return err
	}
	data, err := s.defDataType(expr, info, name, ifcond, boxed)
	if err != nil {
		return err
	}
	rets := ""
	if retVal, ok := expr.Get("returns"); ok {
		rets, err = s.typeNameOf(retVal, info, "command's 'returns'")
		if err != nil {
			return err
		}
	}
	cmd := &Command{
		entityBase: entityBase{
			name: name, info: info, doc: doc,
			ifcond: ifcond, features: features, meta: "command",
		},
		argTypeName: data,
		retTypeName: rets,
		boxed:       boxed,
	}
	for _, flag := range []struct {
		key string
		def bool
		dst *bool
	}{
		{"gen", true, &cmd.gen},
		{"success-response", true, &cmd.successResponse},
		{"allow-oob", false, &cmd.allowOOB},
		{"allow-preconfig", false, &cmd.allowPreconfig},
		{"coroutine", false, &cmd.coroutine},
	} {
		*flag.dst, err = boolOpt(expr, flag.key, flag.def, info)
		if err != nil {
			return err
		}
	}
	return s.defEntity(cmd)
}

func (s *Schema) defEvent(
	expr *syntax.Object,
	info *source.Info,
	doc *syntax.Doc,
	name string,
	ifcond []string,
	features []*Feature,
) error {
	boxed, err := boolOpt(expr, "boxed", false, info)
	if err != nil {
		return err
	}
	data, err := s.defDataType(expr, info, name, ifcond, boxed)
	if err != nil {
		return err
	}
	return s.defEntity(&Event{
		entityBase: entityBase{
			name: name, info: info, doc: doc,
			ifcond: ifcond, features: features, meta: "event",
		},
		argTypeName: data,
		boxed:       boxed,
	})
}

// defInclude records the inclusion as an anonymous entity in the
// including module, keeping traversal aware of the module graph. Include
// entities are appended to the list directly: they have no name to
// register.
func (s *Schema) defInclude(
	expr *syntax.Object,
	info *source.Info,
) error {
	val, _ := expr.Get("include")
	include := string(val.(syntax.String))
	name := s.moduleName(include)
	s.entityList = append(s.entityList, &Include{
		entityBase: entityBase{info: info, meta: "include"},
		subModule:  s.module(name),
	})
	return nil
}

var metaKeys = []string{"enum", "struct", "union", "alternate",
	"command", "event"}

func (s *Schema) defExprs(exprs []syntax.ParsedExpression) error {
	for _, parsed := range exprs {
		expr := parsed.Expr
		info := parsed.Info
		doc := parsed.Doc

		if expr.Has("include") {
			if err := s.defInclude(expr, info); err != nil {
				return err
			}
			continue
		}

		meta := ""
		for _, key := range metaKeys {
			if !expr.Has(key) {
				continue
			}
			if meta != "" {
				return semErrf(info,
					"expression has multiple metatypes '%s' and '%s'",
					meta, key)
			}
			meta = key
		}
		if meta == "" {
			return semErrf(info, "expression is missing metatype")
		}

		nameVal, _ := expr.Get(meta)
		name, ok := nameVal.(syntax.String)
		if !ok {
			return semErrf(info, "'%s' requires a string name", meta)
		}
		info.SetDefn(meta, string(name))

		if doc == nil {
			if info.Pragma().DocRequired {
				return semErrf(info, "documentation comment required")
			}
		} else {
			if doc.Symbol() != string(name) {
				return semErrf(doc.Info(),
					"documentation comment is for '%s'", doc.Symbol())
			}
			if meta != "command" && doc.HasSection("Returns") {
				return semErrf(doc.Info(),
					"'Returns:' is only valid for commands")
			}
		}

		ifVal, _ := expr.Get("if")
		ifcond, err := condOf(ifVal, info, fmt.Sprintf("%s '%s'", meta, name))
		if err != nil {
			return err
		}
		featVal, _ := expr.Get("features")
		features, err := s.makeFeatures(featVal, info)
		if err != nil {
			return err
		}

		switch meta {
		case "enum":
			err = s.defEnumType(expr, info, doc, string(name), ifcond, features)
		case "struct":
			err = s.defStructType(expr, info, doc, string(name), ifcond, features)
		case "union":
			err = s.defUnionType(expr, info, doc, string(name), ifcond, features)
		case "alternate":
			err = s.defAlternateType(expr, info, doc, string(name), ifcond, features)
		case "command":
			err = s.defCommand(expr, info, doc, string(name), ifcond, features)
		case "event":
			err = s.defEvent(expr, info, doc, string(name), ifcond, features)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// check validates every entity, binds documentation, then partitions the
// checked entities into modules by originating file.
func (s *Schema) check() error {
	for _, ent := range s.entityList {
		if err := ent.check(s); err != nil {
			return err
		}
		if err := ent.connectDoc(nil); err != nil {
			return err
		}
		if err := ent.checkDoc(); err != nil {
			return err
		}
	}
	for _, ent := range s.entityList {
		info := ent.Info()
		if arr, ok := ent.(*ArrayType); ok && arr.elementType != nil {
			// Array types go with their element type
			info = arr.elementType.Info()
		}
		fname := ""
		if info != nil {
			fname = info.Fname()
		}
		s.module(s.moduleName(fname)).add(ent)
	}
	return nil
}
