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

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"go.qapic.dev/qapic/internal/ctxlog"
	"go.qapic.dev/qapic/schema"
	"go.qapic.dev/qapic/source"
)

type cmdTree struct {
	outPath  string
	implicit bool
	verbose  bool
}

func (*cmdTree) help() *commandHelp {
	return &commandHelp{
		usage:   "tree SCHEMA",
		summary: "Print the semantic model of a schema document",
	}
}

func (cmd *cmdTree) flags(flags *pflag.FlagSet) {
	flags.StringVarP(&cmd.outPath, "output", "o", "", "write output to a file")
	flags.BoolVar(&cmd.implicit, "implicit", false,
		"include implicitly defined entities")
	flags.BoolVarP(&cmd.verbose, "verbose", "v", false, "enable debug logging")
}

func (cmd *cmdTree) run(ctx context.Context, argv []string) int {
	if len(argv) != 1 {
		fmt.Fprintln(os.Stderr, "usage: qapic tree SCHEMA")
		return 1
	}
	ctx = ctxlog.With(ctx, newLogger(cmd.verbose))

	s, err := schema.Load(argv[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	ctxlog.FromContext(ctx).Debug("schema checked",
		"schema", argv[0], "entities", len(s.Entities()))

	var buf bytes.Buffer
	s.Visit(&treePrinter{w: &buf, implicit: cmd.implicit})

	if cmd.outPath == "" {
		if _, err := os.Stdout.Write(buf.Bytes()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	if err := os.WriteFile(cmd.outPath, buf.Bytes(), 0o666); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// treePrinter renders the model one line per entity, with indented detail
// lines for members, branches, conditions, and features.
type treePrinter struct {
	schema.BaseVisitor
	w        io.Writer
	implicit bool
}

func (t *treePrinter) VisitNeeded(ent schema.Entity) bool {
	return t.implicit || !ent.IsImplicit()
}

func (t *treePrinter) VisitModule(name string) {
	if name == "" {
		name = "<builtin>"
	}
	fmt.Fprintf(t.w, "module %s\n", name)
}

func (t *treePrinter) VisitInclude(name string, info *source.Info) {
	fmt.Fprintf(t.w, "include %s\n", name)
}

func (t *treePrinter) VisitBuiltinType(name string, info *source.Info,
	jsonType string) {
	fmt.Fprintf(t.w, "builtin %s json=%s\n", name, jsonType)
}

func (t *treePrinter) VisitEnumType(name string, info *source.Info,
	ifcond []string, features []*schema.Feature,
	members []*schema.EnumMember, prefix string) {
	fmt.Fprintf(t.w, "enum %s\n", name)
	if prefix != "" {
		fmt.Fprintf(t.w, "    prefix %s\n", prefix)
	}
	for _, m := range members {
		fmt.Fprintf(t.w, "    value %s%s\n", m.Name(), condSuffix(m.IfCond()))
	}
	t.printTail(ifcond, features)
}

func (t *treePrinter) VisitArrayType(name string, info *source.Info,
	ifcond []string, elementType schema.Type) {
	fmt.Fprintf(t.w, "array %s %s\n", name, elementType.Name())
	t.printTail(ifcond, nil)
}

func (t *treePrinter) VisitObjectType(name string, info *source.Info,
	ifcond []string, features []*schema.Feature, base *schema.ObjectType,
	members []*schema.ObjectMember, variants *schema.Variants) {
	fmt.Fprintf(t.w, "object %s\n", name)
	if base != nil {
		fmt.Fprintf(t.w, "    base %s\n", base.Name())
	}
	for _, m := range members {
		t.printMember(m)
	}
	if variants != nil {
		if variants.TagName() != "" {
			fmt.Fprintf(t.w, "    tag %s\n", variants.TagName())
		}
		for _, v := range variants.Variants() {
			fmt.Fprintf(t.w, "    case %s: %s%s\n",
				v.Name(), v.Type().Name(), condSuffix(v.IfCond()))
		}
	}
	t.printTail(ifcond, features)
}

func (t *treePrinter) VisitAlternateType(name string, info *source.Info,
	ifcond []string, features []*schema.Feature, variants *schema.Variants) {
	fmt.Fprintf(t.w, "alternate %s\n", name)
	for _, v := range variants.Variants() {
		fmt.Fprintf(t.w, "    case %s: %s%s\n",
			v.Name(), v.Type().Name(), condSuffix(v.IfCond()))
	}
	t.printTail(ifcond, features)
}

func (t *treePrinter) VisitCommand(name string, info *source.Info,
	ifcond []string, features []*schema.Feature, argType *schema.ObjectType,
	retType schema.Type, cmd *schema.Command) {
	fmt.Fprintf(t.w, "command %s", name)
	if argType != nil {
		fmt.Fprintf(t.w, " %s", argType.Name())
	}
	if retType != nil {
		fmt.Fprintf(t.w, " -> %s", retType.Name())
	}
	fmt.Fprintf(t.w, "\n    gen=%t success_response=%t boxed=%t oob=%t"+
		" preconfig=%t coroutine=%t\n",
		cmd.Gen(), cmd.SuccessResponse(), cmd.Boxed(), cmd.AllowOOB(),
		cmd.AllowPreconfig(), cmd.Coroutine())
	t.printTail(ifcond, features)
}

func (t *treePrinter) VisitEvent(name string, info *source.Info,
	ifcond []string, features []*schema.Feature, argType *schema.ObjectType,
	boxed bool) {
	fmt.Fprintf(t.w, "event %s", name)
	if argType != nil {
		fmt.Fprintf(t.w, " %s", argType.Name())
	}
	fmt.Fprintf(t.w, "\n    boxed=%t\n", boxed)
	t.printTail(ifcond, features)
}

func (t *treePrinter) printMember(m *schema.ObjectMember) {
	name := m.Name()
	if m.Optional() {
		name = "*" + name
	}
	fmt.Fprintf(t.w, "    member %s: %s%s\n",
		name, m.Type().Name(), condSuffix(m.IfCond()))
	for _, f := range m.Features() {
		fmt.Fprintf(t.w, "        feature %s%s\n",
			f.Name(), condSuffix(f.IfCond()))
	}
}

func (t *treePrinter) printTail(ifcond []string, features []*schema.Feature) {
	if len(ifcond) > 0 {
		fmt.Fprintf(t.w, "    if [%s]\n", strings.Join(ifcond, ", "))
	}
	for _, f := range features {
		fmt.Fprintf(t.w, "    feature %s%s\n", f.Name(), condSuffix(f.IfCond()))
	}
}

func condSuffix(ifcond []string) string {
	if len(ifcond) == 0 {
		return ""
	}
	return fmt.Sprintf(" if=[%s]", strings.Join(ifcond, ", "))
}
