package tilemap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// element is one node of a parsed XML document. TMX is attribute heavy and
// the loader needs ordered, mixed-tag child iteration (layers are decoded in
// document order), which struct tags can't give us.
type element struct {
	Name     string
	Attrs    []xml.Attr
	Children []*element
	text     strings.Builder
}

// parseTree reads the whole document into an element tree & returns the root.
func parseTree(data []byte) (*element, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader

	var root *element
	stack := []*element{}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			e := &element{Name: t.Name.Local, Attrs: t.Attr}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, e)
			} else if root == nil {
				root = e
			} else {
				return nil, fmt.Errorf("multiple root elements")
			}
			stack = append(stack, e)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("no root element")
	}
	return root, nil
}

// charsetReader covers the single byte encodings old editors wrote.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "iso-8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	}
	return nil, fmt.Errorf("unsupported charset %q", label)
}

func (e *element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (e *element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// String returns the attribute value or "" if unset
func (e *element) String(name string) string {
	v, _ := e.Attr(name)
	return v
}

// Int returns the attribute as an int, 0 if unset or unparsable.
func (e *element) Int(name string) int {
	v, ok := e.Attr(name)
	if !ok {
		return 0
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		// tiled occasionally writes integral values as floats
		f, ferr := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if ferr != nil {
			return 0
		}
		return int(f)
	}
	return i
}

// Float returns the attribute as a float64, 0 if unset or unparsable.
func (e *element) Float(name string) float64 {
	v, ok := e.Attr(name)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}

// Child returns the first child with the given tag, or nil.
func (e *element) Child(name string) *element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (e *element) HasChild(name string) bool {
	return e.Child(name) != nil
}

// ChildrenNamed returns all children with the given tag, in document order.
func (e *element) ChildrenNamed(name string) []*element {
	out := []*element{}
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Text is the concatenated character data directly inside this element.
func (e *element) Text() string {
	return e.text.String()
}
