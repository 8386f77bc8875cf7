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

// Package xmltree converts query and ec2 protocol XML documents into
// canonical trees.
//
// The markup carries no type information, so lists and objects are told
// apart structurally: repeated sibling elements accumulate into an array,
// a wrapper element whose single field is an array collapses to that
// array, and the document root element adds no wrapping level.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"

	"github.com/tombee/genaws/pkg/canon"
	genawserrors "github.com/tombee/genaws/pkg/errors"
)

// DefaultListMembers are the element names AWS uses for list entries.
var DefaultListMembers = []string{"item", "member"}

// Parser holds parse settings. The zero value has no list members; use New.
type Parser struct {
	listMembers map[string]bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithListMembers replaces the set of element names that always start an
// array in their parent, even on a single occurrence. Names are matched
// case-sensitively.
func WithListMembers(names ...string) Option {
	return func(p *Parser) {
		p.listMembers = make(map[string]bool, len(names))
		for _, name := range names {
			p.listMembers[name] = true
		}
	}
}

// New returns a Parser using DefaultListMembers unless overridden.
func New(opts ...Option) *Parser {
	p := &Parser{}
	WithListMembers(DefaultListMembers...)(p)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = New()

// Parse reads one XML document from r using the default parser.
func Parse(r io.Reader) (*canon.Node, error) {
	return defaultParser.Parse(r)
}

// ParseBytes parses an in-memory XML document using the default parser.
func ParseBytes(b []byte) (*canon.Node, error) {
	return defaultParser.Parse(bytes.NewReader(b))
}

type frame struct {
	name    string
	content *canon.Node
}

// Parse reads one XML document from r and returns the content of its root
// element. Attributes, namespaces, comments and processing instructions
// are ignored.
func (p *Parser) Parse(r io.Reader) (*canon.Node, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true

	// stack[0] is the synthetic document frame.
	stack := []*frame{{}}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseErr(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			top := stack[len(stack)-1]
			if !top.content.IsObject() {
				top.content = canon.NewObject()
			}
			stack = append(stack, &frame{name: t.Name.Local})

		case xml.CharData:
			top := stack[len(stack)-1]
			if top.content.IsMissing() && len(stack) > 1 {
				top.content = canon.String(string(t))
			}

		case xml.EndElement:
			popped := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			parent := stack[len(stack)-1]

			if popped.content.IsMissing() {
				popped.content = canon.NewObject()
			}
			if len(stack) == 1 {
				parent.content = popped.content
				continue
			}
			popped.content = collapse(popped.content)
			p.merge(parent.content, popped)
		}
	}

	if len(stack) != 1 {
		return nil, parseErr(io.ErrUnexpectedEOF)
	}
	if stack[0].content.IsMissing() {
		return nil, parseErr(errors.New("document has no root element"))
	}
	return stack[0].content, nil
}

// collapse replaces an object whose only field is an array with that array.
func collapse(n *canon.Node) *canon.Node {
	if n.IsObject() && n.Len() == 1 {
		if only := n.Get(n.Keys()[0]); only.IsArray() {
			return only
		}
	}
	return n
}

// merge adds a finished child element to its parent object.
func (p *Parser) merge(parent *canon.Node, child *frame) {
	existing := parent.Get(child.name)
	switch {
	case existing.IsMissing() && p.listMembers[child.name]:
		parent.Set(child.name, canon.NewArray(child.content))
	case existing.IsMissing(), existing.IsObject() && existing.Len() == 0:
		parent.Set(child.name, child.content)
	case existing.IsArray():
		existing.Append(child.content)
	default:
		parent.Set(child.name, canon.NewArray(existing, child.content))
	}
}

func parseErr(err error) error {
	return &genawserrors.ParseError{Format: "xml", Cause: err}
}
