package einvoice

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

var ErrEmptyDocument = errors.New("xml document has no root element")

// Node is a namespace-stripped XML element. A scalar value is a node with
// text and no attributes; an amount like <TaxAmount currencyID="EUR">16.91</TaxAmount>
// is a node carrying both.
type Node struct {
	Name     string
	Attrs    map[string]string
	Text     string
	Children []*Node
}

// ParseXML decodes data into a loose tree rooted at the document element.
// Element and attribute names keep only their local part, so rsm:CrossIndustryInvoice
// and CrossIndustryInvoice are the same node name.
func ParseXML(data []byte) (*Node, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader

	var (
		root  *Node
		stack []*Node
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				if n.Attrs == nil {
					n.Attrs = make(map[string]string, len(t.Attr))
				}
				n.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("decode xml: multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, errors.New("decode xml: unbalanced end element")
			}
			n := stack[len(stack)-1]
			n.Text = strings.TrimSpace(n.Text)
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
		return nil, errors.New("decode xml: unexpected end of document")
	}
	return root, nil
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

// Child returns the first direct child named name.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all direct children named name.
func (n *Node) ChildrenNamed(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Path walks the first matching child for each name in turn.
func (n *Node) Path(names ...string) *Node {
	cur := n
	for _, name := range names {
		cur = cur.Child(name)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// First returns the first child present among the given aliases, in preference order.
func (n *Node) First(names ...string) *Node {
	for _, name := range names {
		if c := n.Child(name); c != nil {
			return c
		}
	}
	return nil
}

// TextOf returns the trimmed text of n. Missing nodes and empty text report false.
func TextOf(n *Node) (string, bool) {
	if n == nil || n.Text == "" {
		return "", false
	}
	return n.Text, true
}

// NumberOf parses the text of n as an amount.
func NumberOf(n *Node) *Amount {
	s, ok := TextOf(n)
	if !ok {
		return nil
	}
	return ParseAmount(s)
}

// AttributeOf returns a namespace-stripped attribute of n.
func AttributeOf(n *Node, name string) (string, bool) {
	if n == nil {
		return "", false
	}
	v, ok := n.Attrs[name]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func stringPtr(s string, ok bool) *string {
	if !ok {
		return nil
	}
	return &s
}

// firstAttribute returns name from the first node in nodes that carries it.
func firstAttribute(name string, nodes ...*Node) (string, bool) {
	for _, n := range nodes {
		if v, ok := AttributeOf(n, name); ok {
			return v, true
		}
	}
	return "", false
}
