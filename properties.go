package tilemap

import (
	"strconv"
)

// PropertySet is an ordered name -> value map, as found in a <properties> block.
// see doc.mapeditor.org/en/stable/reference/tmx-map-format/#properties
// Values are kept as the strings written in the file; the typed getters
// convert on read.
type PropertySet struct {
	names  []string
	values map[string]string
}

// NewPropertySet returns an empty property set
func NewPropertySet() *PropertySet {
	return &PropertySet{
		names:  []string{},
		values: map[string]string{},
	}
}

// loadPropertySet reads a <properties> element.
// A property without a value attribute takes its text content (multi-line strings).
func loadPropertySet(el *element) *PropertySet {
	ps := NewPropertySet()
	for _, p := range el.ChildrenNamed("property") {
		value, ok := p.Attr("value")
		if !ok {
			value = p.Text()
		}
		ps.Set(p.String("name"), value)
	}
	return ps
}

// Has returns if the property is set
func (p *PropertySet) Has(name string) bool {
	if p == nil {
		return false
	}
	_, ok := p.values[name]
	return ok
}

// Get returns the value of a property, or "" if it's not set.
func (p *PropertySet) Get(name string) string {
	if p == nil {
		return ""
	}
	return p.values[name]
}

// Set a property. Re-setting an existing name keeps its original position.
func (p *PropertySet) Set(name, value string) {
	if _, ok := p.values[name]; !ok {
		p.names = append(p.names, name)
	}
	p.values[name] = value
}

// Names returns property names in the order they were set
func (p *PropertySet) Names() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

func (p *PropertySet) Len() int {
	if p == nil {
		return 0
	}
	return len(p.names)
}

func (p *PropertySet) Int(name string) (int, bool) {
	v, ok := p.lookup(name)
	if !ok {
		return 0, false
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return int(i), true
}

func (p *PropertySet) Float(name string) (float64, bool) {
	v, ok := p.lookup(name)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (p *PropertySet) Bool(name string) (bool, bool) {
	v, ok := p.lookup(name)
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// Merge properties `o` into this set, `o` wins on conflicts.
func (p *PropertySet) Merge(o *PropertySet) *PropertySet {
	if o == nil {
		return p
	}
	for _, name := range o.names {
		p.Set(name, o.values[name])
	}
	return p
}

// Map returns a copy of the set as a plain map (order is lost).
func (p *PropertySet) Map() map[string]string {
	out := map[string]string{}
	if p == nil {
		return out
	}
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

func (p *PropertySet) lookup(name string) (string, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p.values[name]
	return v, ok
}
