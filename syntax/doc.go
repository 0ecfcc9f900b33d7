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
	"regexp"
	"strings"

	"go.qapic.dev/qapic/source"
)

// Doc is one documentation comment block, either definition or free-form.
//
// Definition documentation blocks consist of
//
//   - a body section: one line naming the definition, followed by an
//     overview
//   - argument sections, one per documented argument or member
//   - feature sections, one per documented feature flag
//   - additional sections, possibly tagged (Returns, Since, ...)
//
// Free-form documentation blocks consist only of a body section.
type Doc struct {
	info   *source.Info
	symbol string
	body   *docSection

	args      []*docArgSection
	argIndex  map[string]*docArgSection
	features  []*docArgSection
	featIndex map[string]*docArgSection
	sections  []*docSection

	section    *docSection
	appendLine func(line string) error
}

// docSection records one section's text and the indent of its first
// content line; following lines must be indented at least that much.
type docSection struct {
	name   string
	text   string
	indent int
}

// docArgSection is a section for one argument or feature. connected is
// set when the documented name was matched to an actual model member.
type docArgSection struct {
	docSection
	connected bool
}

func newDoc(info *source.Info) *Doc {
	d := &Doc{
		info:      info,
		body:      &docSection{},
		argIndex:  make(map[string]*docArgSection),
		featIndex: make(map[string]*docArgSection),
	}
	d.section = d.body
	d.appendLine = d.appendBodyLine
	return d
}

func (d *Doc) Info() *source.Info { return d.info }

// Symbol is the name of the documented definition, or "" for a free-form
// block.
func (d *Doc) Symbol() string { return d.symbol }

func (d *Doc) Body() string { return d.body.text }

func (d *Doc) Arg(name string) (string, bool) {
	if section, ok := d.argIndex[name]; ok {
		return section.text, true
	}
	return "", false
}

func (d *Doc) FeatureSection(name string) (string, bool) {
	if section, ok := d.featIndex[name]; ok {
		return section.text, true
	}
	return "", false
}

// DocSection is a read-only view of a tagged or untagged additional
// section.
type DocSection struct {
	Name string
	Text string
}

func (d *Doc) Sections() []DocSection {
	sections := make([]DocSection, 0, len(d.sections))
	for _, s := range d.sections {
		sections = append(sections, DocSection{Name: s.name, Text: s.text})
	}
	return sections
}

func (d *Doc) HasSection(name string) bool {
	for _, s := range d.sections {
		if s.name == name {
			return true
		}
	}
	return false
}

func (s *docSection) append(line string) error {
	// Strip leading spaces corresponding to the expected indent level.
	// Blank lines are always OK.
	if line != "" {
		indent := leadingSpaceLen(line)
		if indent < s.indent {
			return docErrorf(
				"unexpected de-indent (expected at least %d spaces)",
				s.indent)
		}
		line = line[s.indent:]
	}
	s.text += strings.TrimRight(line, " \t\r") + "\n"
	return nil
}

var (
	argTagPattern     = regexp.MustCompile(`^@\S*:[ \t]*`)
	sectionTagPattern = regexp.MustCompile(`^\S*:[ \t]*`)
	freeformAtPattern = regexp.MustCompile(`^(@\S+:)`)
)

func isSectionTag(name string) bool {
	switch name {
	case "Returns:", "Since:",
		// those are often singular or plural
		"Note:", "Notes:",
		"Example:", "Examples:",
		"TODO:":
		return true
	}
	return false
}

// append parses one comment line ('#' included) and adds it to the
// documentation. How the line is handled depends on the active section
// kind: body, argument, features, or additional.
func (d *Doc) append(line string) error {
	line = line[1:]
	if line == "" {
		return d.appendFreeform(line)
	}
	if line[0] != ' ' {
		return docErrorf("missing space after #")
	}
	return d.appendLine(line[1:])
}

func (d *Doc) endComment() error {
	return d.endSection()
}

// appendBodyLine handles text in the body section. The first line of the
// block may name a symbol, turning the block into definition
// documentation; in definition documentation a symbol line starts the
// argument sections and a section tag starts an additional section.
func (d *Doc) appendBodyLine(line string) error {
	name := firstWord(line)
	if d.symbol == "" && d.body.text == "" && strings.HasPrefix(line, "@") {
		if !strings.HasSuffix(line, ":") {
			return docErrorf("line should end with ':'")
		}
		d.symbol = line[1 : len(line)-1]
		if d.symbol == "" {
			return docErrorf("invalid name")
		}
		return nil
	}
	if d.symbol != "" {
		// This is a definition documentation block
		switch {
		case isSymbolWord(name):
			d.appendLine = d.appendArgsLine
			return d.appendArgsLine(line)
		case line == "Features:":
			d.appendLine = d.appendFeaturesLine
			return nil
		case isSectionTag(name):
			d.appendLine = d.appendVariousLine
			return d.appendVariousLine(line)
		}
	}
	return d.appendFreeform(line)
}

// appendArgsLine handles text in an argument section. A symbol line
// begins the next argument section; a section tag, or a non-indented line
// after a blank line, begins an additional section.
func (d *Doc) appendArgsLine(line string) error {
	name := firstWord(line)
	switch {
	case isSymbolWord(name):
		indent, rest := splitTagIndent(argTagPattern, line)
		if err := d.startArgsSection(name[1:len(name)-1], indent); err != nil {
			return err
		}
		line = rest
	case isSectionTag(name):
		d.appendLine = d.appendVariousLine
		return d.appendVariousLine(line)
	case d.afterBlankLine() && line != "" && line[0] != ' ' && line[0] != '\t':
		if line == "Features:" {
			d.appendLine = d.appendFeaturesLine
			return nil
		}
		if err := d.startSection("", 0); err != nil {
			return err
		}
		d.appendLine = d.appendVariousLine
		return d.appendVariousLine(line)
	}
	return d.appendFreeform(line)
}

func (d *Doc) appendFeaturesLine(line string) error {
	name := firstWord(line)
	switch {
	case isSymbolWord(name):
		indent, rest := splitTagIndent(argTagPattern, line)
		if err := d.startFeaturesSection(name[1:len(name)-1], indent); err != nil {
			return err
		}
		line = rest
	case isSectionTag(name):
		d.appendLine = d.appendVariousLine
		return d.appendVariousLine(line)
	case d.afterBlankLine() && line != "" && line[0] != ' ' && line[0] != '\t':
		if err := d.startSection("", 0); err != nil {
			return err
		}
		d.appendLine = d.appendVariousLine
		return d.appendVariousLine(line)
	}
	return d.appendFreeform(line)
}

// appendVariousLine handles text in an additional section. A symbol line
// is an error here; a section tag starts the next additional section.
func (d *Doc) appendVariousLine(line string) error {
	name := firstWord(line)
	if isSymbolWord(name) {
		return docErrorf("'%s' can't follow '%s' section",
			name, d.sections[0].name)
	}
	if isSectionTag(name) {
		indent, rest := splitTagIndent(sectionTagPattern, line)
		if err := d.startSection(name[:len(name)-1], indent); err != nil {
			return err
		}
		line = rest
	}
	return d.appendFreeform(line)
}

// splitTagIndent computes the indent expected of an argument or section
// description: the offset of the first word after "@name:" (or "Tag:").
// When the tag is alone on its line, following lines are not indented.
func splitTagIndent(pattern *regexp.Regexp, line string) (int, string) {
	indent := len(pattern.FindString(line))
	rest := line[indent:]
	if rest == "" {
		return 0, ""
	}
	return indent, strings.Repeat(" ", indent) + rest
}

func (d *Doc) startSymbolSection(
	index map[string]*docArgSection,
	name string,
	indent int,
) (*docArgSection, error) {
	if name == "" {
		return nil, docErrorf("invalid parameter name")
	}
	if _, ok := index[name]; ok {
		return nil, docErrorf("'%s' parameter name duplicated", name)
	}
	if err := d.endSection(); err != nil {
		return nil, err
	}
	section := &docArgSection{
		docSection: docSection{name: name, indent: indent},
	}
	index[name] = section
	d.section = &section.docSection
	return section, nil
}

func (d *Doc) startArgsSection(name string, indent int) error {
	section, err := d.startSymbolSection(d.argIndex, name, indent)
	if err != nil {
		return err
	}
	d.args = append(d.args, section)
	return nil
}

func (d *Doc) startFeaturesSection(name string, indent int) error {
	section, err := d.startSymbolSection(d.featIndex, name, indent)
	if err != nil {
		return err
	}
	d.features = append(d.features, section)
	return nil
}

func (d *Doc) startSection(name string, indent int) error {
	if (name == "Returns" || name == "Since") && d.HasSection(name) {
		return docErrorf("duplicated '%s' section", name)
	}
	if err := d.endSection(); err != nil {
		return err
	}
	d.section = &docSection{name: name, indent: indent}
	d.sections = append(d.sections, d.section)
	return nil
}

func (d *Doc) endSection() error {
	if d.section != nil {
		text := strings.TrimSpace(d.section.text)
		d.section.text = text
		if d.section.name != "" && text == "" {
			return docErrorf("empty doc section '%s'", d.section.name)
		}
		d.section = nil
	}
	return nil
}

func (d *Doc) appendFreeform(line string) error {
	if match := freeformAtPattern.FindString(line); match != "" {
		return docErrorf("'%s' not allowed in free-form documentation",
			match)
	}
	return d.section.append(line)
}

// ConnectMember binds the documented argument of the given name to a
// resolved model member. An undocumented member gets an empty synthetic
// section.
func (d *Doc) ConnectMember(name string) {
	section, ok := d.argIndex[name]
	if !ok {
		section = &docArgSection{docSection: docSection{name: name}}
		d.argIndex[name] = section
		d.args = append(d.args, section)
	}
	section.connected = true
}

// ConnectFeature binds the documented feature of the given name to the
// declared feature. It reports whether the feature was documented at all.
func (d *Doc) ConnectFeature(name string) bool {
	section, ok := d.featIndex[name]
	if !ok {
		return false
	}
	section.connected = true
	return true
}

// Check fails if any documented argument or feature was never connected
// to an actual member.
func (d *Doc) Check() error {
	if err := checkConnected(d.info, d.args); err != nil {
		return err
	}
	return checkConnected(d.info, d.features)
}

func checkConnected(info *source.Info, sections []*docArgSection) error {
	var bogus []string
	for _, section := range sections {
		if !section.connected {
			bogus = append(bogus, section.name)
		}
	}
	if len(bogus) == 0 {
		return nil
	}
	plural, verb := "", "does"
	if len(bogus) > 1 {
		plural, verb = "s", "do"
	}
	return errAt(info, "documented member%s '%s' %s not exist",
		plural, strings.Join(bogus, "', '"), verb)
}

// afterBlankLine reports whether the current section's text ends with a
// blank line, which is what allows an untagged additional section to
// start.
func (d *Doc) afterBlankLine() bool {
	return strings.HasSuffix(d.section.text, "\n\n")
}

func firstWord(line string) string {
	if idx := strings.IndexByte(line, ' '); idx >= 0 {
		return line[:idx]
	}
	return line
}

func isSymbolWord(name string) bool {
	return strings.HasPrefix(name, "@") && strings.HasSuffix(name, ":")
}

func leadingSpaceLen(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}
