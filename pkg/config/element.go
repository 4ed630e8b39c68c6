package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Element is a node of the configuration tree.
type Element struct {
	Name     string
	Attrs    map[string]string
	Text     string
	Children []*Element
}

// Attr returns the attribute value or fallback when the attribute is absent.
func (e *Element) Attr(name, fallback string) string {
	if e == nil || e.Attrs == nil {
		return fallback
	}
	if value, ok := e.Attrs[name]; ok {
		return value
	}
	return fallback
}

// Child returns the first direct child with the given tag.
func (e *Element) Child(name string) *Element {
	if e == nil {
		return nil
	}
	for _, child := range e.Children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// ChildrenNamed returns direct children with the given tag in document order.
func (e *Element) ChildrenNamed(name string) []*Element {
	if e == nil {
		return nil
	}
	var out []*Element
	for _, child := range e.Children {
		if child.Name == name {
			out = append(out, child)
		}
	}
	return out
}

// FindAll returns every descendant (not the element itself) with the given
// tag, depth-first in document order.
func (e *Element) FindAll(name string) []*Element {
	if e == nil {
		return nil
	}
	var out []*Element
	var walk func(node *Element)
	walk = func(node *Element) {
		for _, child := range node.Children {
			if child.Name == name {
				out = append(out, child)
			}
			walk(child)
		}
	}
	walk(e)
	return out
}

func parseElementTree(r io.Reader) (*Element, error) {
	decoder := xml.NewDecoder(r)
	var (
		root  *Element
		stack []*Element
	)

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("config: decode xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Element{Name: t.Name.Local}
			if len(t.Attr) > 0 {
				node.Attrs = make(map[string]string, len(t.Attr))
				for _, attr := range t.Attr {
					node.Attrs[attr.Name.Local] = attr.Value
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("config: xml document has more than one root element")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("config: unexpected closing tag %q", t.Name.Local)
			}
			top := stack[len(stack)-1]
			top.Text = strings.TrimSpace(top.Text)
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, ErrEmptyDocument
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("config: unclosed element %q", stack[len(stack)-1].Name)
	}
	return root, nil
}
