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

// Package syntax parses schema source files into top-level expressions with
// attached source locations and documentation blocks.
//
// The accepted grammar is deliberately small: objects with single-quoted
// string keys, arrays, single-quoted strings, and the literals true and
// false. 'include' directives are expanded in place, 'pragma' directives
// are folded into the compilation's Pragma.
package syntax

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.qapic.dev/qapic/source"
)

// ParsedExpression is one top-level schema definition: the raw expression
// object, where it was read from, and the documentation block immediately
// preceding it (if any).
type ParsedExpression struct {
	Expr *Object
	Info *source.Info
	Doc  *Doc
}

// Result is the output of parsing one schema document and everything it
// includes.
type Result struct {
	Exprs  []ParsedExpression
	Docs   []*Doc
	Pragma *source.Pragma
}

// ParseFile reads and parses the schema document at fname, expanding
// include directives relative to it. The first error aborts the parse.
func ParseFile(fname string) (*Result, error) {
	pragma := &source.Pragma{}
	p, err := parseFile(fname, nil, nil, pragma, make(map[string]struct{}))
	if err != nil {
		return nil, err
	}
	return &Result{Exprs: p.exprs, Docs: p.docs, Pragma: pragma}, nil
}

// Parser holds the lexer and parser state for a single file. Included
// files get their own Parser, sharing the included-set and pragma of the
// parser that reached them.
type Parser struct {
	fname    string
	included map[string]struct{}
	pragma   *source.Pragma

	// Lexer state (see accept for details)
	src     string
	tok     byte
	pos     int
	cursor  int
	val     Value
	info    *source.Info
	linePos int

	// Parser output
	exprs []ParsedExpression
	docs  []*Doc
}

func parseFile(
	fname string,
	parent *Parser,
	parentInfo *source.Info,
	pragma *source.Pragma,
	included map[string]struct{},
) (*Parser, error) {
	p := &Parser{
		fname:    fname,
		included: included,
		pragma:   pragma,
		info:     source.NewInfo(fname, parentInfo, pragma),
	}
	included[absPath(fname)] = struct{}{}

	data, err := os.ReadFile(fname)
	if err != nil {
		kind := "schema"
		ctx := p.info
		if parent != nil {
			kind = "include"
			ctx = parentInfo
		}
		return nil, errAt(ctx, "can't read %s file '%s': %s",
			kind, fname, ioErrMsg(err))
	}
	p.src = string(data)
	if p.src == "" || p.src[len(p.src)-1] != '\n' {
		p.src += "\n"
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) parse() error {
	var curDoc *Doc

	if err := p.accept(true); err != nil {
		return err
	}
	for p.tok != tokEOF {
		info := p.info
		if p.tok == '#' {
			if err := rejectExprDoc(curDoc); err != nil {
				return err
			}
			docs, err := p.getDoc(info)
			if err != nil {
				return err
			}
			p.docs = append(p.docs, docs...)
			curDoc = docs[len(docs)-1]
			continue
		}

		exprVal, err := p.getExpr(false)
		if err != nil {
			return err
		}
		expr, ok := exprVal.(*Object)
		if !ok {
			return errAt(info, "expecting object statement")
		}

		switch {
		case expr.Has("include"):
			if err := rejectExprDoc(curDoc); err != nil {
				return err
			}
			if err := p.parseInclude(expr, info); err != nil {
				return err
			}
		case expr.Has("pragma"):
			if err := rejectExprDoc(curDoc); err != nil {
				return err
			}
			if err := p.parsePragma(expr, info); err != nil {
				return err
			}
		default:
			if curDoc != nil && curDoc.Symbol() == "" {
				return errAt(curDoc.Info(),
					"definition documentation required")
			}
			p.exprs = append(p.exprs, ParsedExpression{expr, info, curDoc})
		}
		curDoc = nil
	}
	return rejectExprDoc(curDoc)
}

// A named doc block must be immediately followed by the definition it
// names.
func rejectExprDoc(doc *Doc) error {
	if doc != nil && doc.Symbol() != "" {
		return errAt(doc.Info(),
			"documentation for '%s' is not followed by the definition",
			doc.Symbol())
	}
	return nil
}

func (p *Parser) parseInclude(expr *Object, info *source.Info) error {
	if expr.Len() != 1 {
		return errAt(info, "invalid 'include' directive")
	}
	val, _ := expr.Get("include")
	include, ok := val.(String)
	if !ok {
		return errAt(info, "value of 'include' must be a string")
	}
	inclFname := filepath.Join(filepath.Dir(p.fname), string(include))
	p.exprs = append(p.exprs, ParsedExpression{
		Expr: NewObject("include", String(inclFname)),
		Info: info,
	})
	sub, err := p.include(string(include), inclFname)
	if err != nil {
		return err
	}
	if sub != nil {
		p.exprs = append(p.exprs, sub.exprs...)
		p.docs = append(p.docs, sub.docs...)
	}
	return nil
}

// include recursively parses an included file. It returns nil for a file
// that was already included (re-inclusion is idempotent), and fails when
// the file is in the chain of files that led here.
func (p *Parser) include(include, inclFname string) (*Parser, error) {
	inclAbs := absPath(inclFname)

	// catch inclusion cycle
	for inf := p.info; inf != nil; inf = inf.Parent() {
		if inclAbs == absPath(inf.Fname()) {
			return nil, errAt(p.info, "inclusion loop for %s", include)
		}
	}

	// skip multiple include of the same file
	if _, ok := p.included[inclAbs]; ok {
		return nil, nil
	}
	return parseFile(inclFname, p, p.info, p.pragma, p.included)
}

func (p *Parser) parsePragma(expr *Object, info *source.Info) error {
	if expr.Len() != 1 {
		return errAt(info, "invalid 'pragma' directive")
	}
	val, _ := expr.Get("pragma")
	obj, ok := val.(*Object)
	if !ok {
		return errAt(info, "value of 'pragma' must be an object")
	}
	for name, value := range obj.Pairs() {
		switch name {
		case "doc-required":
			b, ok := value.(Bool)
			if !ok {
				return errAt(info,
					"pragma 'doc-required' must be boolean")
			}
			p.pragma.DocRequired = bool(b)
		case "returns-whitelist":
			names, ok := stringList(value)
			if !ok {
				return errAt(info,
					"pragma returns-whitelist must be a list of strings")
			}
			p.pragma.ReturnsWhitelist = names
		case "name-case-whitelist":
			names, ok := stringList(value)
			if !ok {
				return errAt(info,
					"pragma name-case-whitelist must be a list of strings")
			}
			p.pragma.NameCaseWhitelist = names
		default:
			return errAt(info, "unknown pragma '%s'", name)
		}
	}
	return nil
}

func stringList(val Value) ([]string, bool) {
	list, ok := val.(List)
	if !ok {
		return nil, false
	}
	names := make([]string, 0, len(list))
	for _, elem := range list {
		s, ok := elem.(String)
		if !ok {
			return nil, false
		}
		names = append(names, string(s))
	}
	return names, true
}

func (p *Parser) getExpr(nested bool) (Value, error) {
	if p.tok != '{' && !nested {
		return nil, p.parseErrorf("expected '{'")
	}
	switch p.tok {
	case '{':
		if err := p.accept(true); err != nil {
			return nil, err
		}
		return p.getMembers()
	case '[':
		if err := p.accept(true); err != nil {
			return nil, err
		}
		return p.getValues()
	case '\'', 't', 'f':
		val := p.val
		if err := p.accept(true); err != nil {
			return nil, err
		}
		return val, nil
	}
	return nil, p.parseErrorf("expected '{', '[', string, or boolean")
}

func (p *Parser) getMembers() (Value, error) {
	expr := &Object{}
	if p.tok == '}' {
		return expr, p.accept(true)
	}
	if p.tok != '\'' {
		return nil, p.parseErrorf("expected string or '}'")
	}
	for {
		key := string(p.val.(String))
		if err := p.accept(true); err != nil {
			return nil, err
		}
		if p.tok != ':' {
			return nil, p.parseErrorf("expected ':'")
		}
		if err := p.accept(true); err != nil {
			return nil, err
		}
		if expr.Has(key) {
			return nil, p.parseErrorf("duplicate key '%s'", key)
		}
		val, err := p.getExpr(true)
		if err != nil {
			return nil, err
		}
		expr.add(key, val)
		if p.tok == '}' {
			return expr, p.accept(true)
		}
		if p.tok != ',' {
			return nil, p.parseErrorf("expected ',' or '}'")
		}
		if err := p.accept(true); err != nil {
			return nil, err
		}
		if p.tok != '\'' {
			return nil, p.parseErrorf("expected string")
		}
	}
}

func (p *Parser) getValues() (Value, error) {
	expr := List{}
	if p.tok == ']' {
		return expr, p.accept(true)
	}
	if !isValueStart(p.tok) {
		return nil, p.parseErrorf("expected '{', '[', ']', string, or boolean")
	}
	for {
		val, err := p.getExpr(true)
		if err != nil {
			return nil, err
		}
		expr = append(expr, val)
		if p.tok == ']' {
			return expr, p.accept(true)
		}
		if p.tok != ',' {
			return nil, p.parseErrorf("expected ',' or ']'")
		}
		if err := p.accept(true); err != nil {
			return nil, err
		}
	}
}

func isValueStart(tok byte) bool {
	switch tok {
	case '{', '[', '\'', 't', 'f':
		return true
	}
	return false
}

// getDoc parses one run of documentation comment lines. A free-form block
// is split at '# =' heading markup, so a single run may yield several
// docs; a definition block always yields exactly one.
func (p *Parser) getDoc(info *source.Info) ([]*Doc, error) {
	if string(p.val.(String)) != "##" {
		return nil, p.parseErrorf(
			"junk after '##' at start of documentation comment")
	}

	var docs []*Doc
	cur := newDoc(info)
	if err := p.accept(false); err != nil {
		return nil, err
	}
	for p.tok == '#' {
		line := string(p.val.(String))
		if strings.HasPrefix(line, "##") {
			// End of doc comment
			if line != "##" {
				return nil, p.parseErrorf(
					"junk after '##' at end of documentation comment")
			}
			if err := cur.endComment(); err != nil {
				return nil, p.wrapDocError(err)
			}
			docs = append(docs, cur)
			return docs, p.accept(true)
		}
		if strings.HasPrefix(line, "# =") {
			if cur.Symbol() != "" {
				return nil, p.parseErrorf(
					"unexpected '=' markup in definition documentation")
			}
			if cur.body.text != "" {
				if err := cur.endComment(); err != nil {
					return nil, p.wrapDocError(err)
				}
				docs = append(docs, cur)
				cur = newDoc(info)
			}
		}
		if err := cur.append(line); err != nil {
			return nil, p.wrapDocError(err)
		}
		if err := p.accept(false); err != nil {
			return nil, err
		}
	}
	return nil, p.parseErrorf("documentation comment must end with '##'")
}

// Doc markup errors have no position of their own; tie them to the
// parser's position, which is the line being appended.
func (p *Parser) wrapDocError(err error) error {
	var derr *docError
	if errors.As(err, &derr) {
		return p.parseErrorf("%s", derr.msg)
	}
	return err
}

func absPath(fname string) string {
	abs, err := filepath.Abs(fname)
	if err != nil {
		return filepath.Clean(fname)
	}
	return abs
}

func ioErrMsg(err error) string {
	var perr *fs.PathError
	if errors.As(err, &perr) {
		return perr.Err.Error()
	}
	return err.Error()
}
