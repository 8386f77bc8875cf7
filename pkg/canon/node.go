// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package canon defines the ordered, JSON-like tree used as the common
// representation of request parameters and decoded response bodies.
//
// A nil *Node is the "missing" value. Every accessor is nil-safe, so
// chained lookups such as n.Get("Error").Get("Code").Text() never panic
// and yield "" when any step is absent.
package canon

import (
	"fmt"
	"strconv"
)

// Kind identifies the variant held by a Node.
type Kind int

const (
	KindMissing Kind = iota
	KindNull
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
)

var kindNames = [...]string{"missing", "null", "string", "number", "bool", "object", "array"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Node is one value in a canonical tree. Objects preserve insertion order
// and hold unique keys. Numbers keep their literal text.
type Node struct {
	kind   Kind
	text   string
	keys   []string
	fields map[string]*Node
	items  []*Node
}

// Null returns a JSON null.
func Null() *Node { return &Node{kind: KindNull} }

// String returns a text leaf.
func String(s string) *Node { return &Node{kind: KindString, text: s} }

// Number returns a numeric leaf holding the given literal.
func Number(literal string) *Node { return &Node{kind: KindNumber, text: literal} }

// Int returns a numeric leaf for v.
func Int(v int64) *Node { return Number(strconv.FormatInt(v, 10)) }

// Bool returns a boolean leaf.
func Bool(b bool) *Node { return &Node{kind: KindBool, text: strconv.FormatBool(b)} }

// NewObject returns an empty object.
func NewObject() *Node {
	return &Node{kind: KindObject, fields: map[string]*Node{}}
}

// NewArray returns an array holding items.
func NewArray(items ...*Node) *Node {
	return &Node{kind: KindArray, items: append([]*Node(nil), items...)}
}

// Kind returns the node's variant. A nil node is KindMissing.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindMissing
	}
	return n.kind
}

// IsMissing reports whether n is the missing value.
func (n *Node) IsMissing() bool { return n == nil }

// IsObject reports whether n is an object.
func (n *Node) IsObject() bool { return n.Kind() == KindObject }

// IsArray reports whether n is an array.
func (n *Node) IsArray() bool { return n.Kind() == KindArray }

// Get returns the named field of an object, or nil.
func (n *Node) Get(key string) *Node {
	if n.Kind() != KindObject {
		return nil
	}
	return n.fields[key]
}

// Path follows a chain of object keys.
func (n *Node) Path(keys ...string) *Node {
	cur := n
	for _, k := range keys {
		cur = cur.Get(k)
	}
	return cur
}

// Index returns the i-th element of an array, or nil.
func (n *Node) Index(i int) *Node {
	if n.Kind() != KindArray || i < 0 || i >= len(n.items) {
		return nil
	}
	return n.items[i]
}

// Text returns the textual form of a scalar: strings as-is, numbers as
// their literal, booleans as true/false and null as "null". Objects,
// arrays and missing nodes yield "".
func (n *Node) Text() string {
	switch n.Kind() {
	case KindNull:
		return "null"
	case KindString, KindNumber, KindBool:
		return n.text
	default:
		return ""
	}
}

// Len returns the number of fields or elements.
func (n *Node) Len() int {
	switch n.Kind() {
	case KindObject:
		return len(n.keys)
	case KindArray:
		return len(n.items)
	default:
		return 0
	}
}

// Keys returns an object's field names in insertion order.
func (n *Node) Keys() []string {
	if n.Kind() != KindObject {
		return nil
	}
	return append([]string(nil), n.keys...)
}

// Items returns an array's elements.
func (n *Node) Items() []*Node {
	if n.Kind() != KindArray {
		return nil
	}
	return append([]*Node(nil), n.items...)
}

// Set stores v under key, keeping the key's original position when it
// already exists. It panics if n is not an object.
func (n *Node) Set(key string, v *Node) *Node {
	if n.Kind() != KindObject {
		panic("canon: Set on " + n.Kind().String())
	}
	if _, ok := n.fields[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = v
	return n
}

// Append adds v to the end of an array. It panics if n is not an array.
func (n *Node) Append(v *Node) *Node {
	if n.Kind() != KindArray {
		panic("canon: Append on " + n.Kind().String())
	}
	n.items = append(n.items, v)
	return n
}

// Equal reports whether two trees are structurally identical, including
// object key order.
func (n *Node) Equal(o *Node) bool {
	if n.Kind() != o.Kind() {
		return false
	}
	switch n.Kind() {
	case KindMissing, KindNull:
		return true
	case KindObject:
		if len(n.keys) != len(o.keys) {
			return false
		}
		for i, k := range n.keys {
			if o.keys[i] != k || !n.fields[k].Equal(o.fields[k]) {
				return false
			}
		}
		return true
	case KindArray:
		if len(n.items) != len(o.items) {
			return false
		}
		for i := range n.items {
			if !n.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	default:
		return n.text == o.text
	}
}

// String returns the compact JSON encoding of n.
func (n *Node) String() string {
	b, err := n.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return string(b)
}
