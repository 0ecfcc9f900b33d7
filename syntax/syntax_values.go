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
	"iter"
)

// Value is a value of the restricted expression grammar: objects, arrays,
// strings, and booleans. There are no numbers and no null.
type Value interface {
	value()
}

type String string

type Bool bool

type List []Value

// Object is an ordered mapping of string keys to values. Declaration order
// is significant throughout the schema language, so a Go map cannot be
// used.
type Object struct {
	pairs []objectPair
}

type objectPair struct {
	key string
	val Value
}

func (String) value()  {}
func (Bool) value()    {}
func (List) value()    {}
func (*Object) value() {}

func (o *Object) Len() int {
	return len(o.pairs)
}

func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

func (o *Object) Get(key string) (Value, bool) {
	for _, p := range o.pairs {
		if p.key == key {
			return p.val, true
		}
	}
	return nil, false
}

// Pairs iterates over the object's entries in declaration order.
func (o *Object) Pairs() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, p := range o.pairs {
			if !yield(p.key, p.val) {
				return
			}
		}
	}
}

func (o *Object) add(key string, val Value) {
	o.pairs = append(o.pairs, objectPair{key, val})
}

// NewObject builds an object from alternating key/value arguments. It is
// intended for tests and for synthesized directives.
func NewObject(pairs ...any) *Object {
	obj := &Object{}
	for ii := 0; ii+1 < len(pairs); ii += 2 {
		obj.add(pairs[ii].(string), pairs[ii+1].(Value))
	}
	return obj
}
