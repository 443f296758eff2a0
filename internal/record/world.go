package record

import "companionforge/internal/formid"

// Location is a named location record.
type Location struct {
	Header
	Name string
}

func (l *Location) Kind() Kind { return KindLocation }

func (l *Location) Refs() []Ref { return nil }

// Placed is a reference placed in a cell. Actor marks placed actors, which
// the engine stores under a different signature.
type Placed struct {
	Header
	Base              formid.ID
	Actor             bool
	InitiallyDisabled bool
}

func (p *Placed) Kind() Kind { return KindPlaced }

func (p *Placed) Refs() []Ref {
	var l refList
	l.add("base", p.Base)
	return l
}

// Cell is an interior cell holding temporary placed references.
type Cell struct {
	Header
	Name     string
	Interior bool
	Location formid.ID
	Placed   []*Placed
}

func (c *Cell) Kind() Kind { return KindCell }

func (c *Cell) Refs() []Ref {
	var l refList
	l.add("location", c.Location)
	for _, p := range c.Placed {
		l = append(l, p.Refs()...)
	}
	return l
}

func (c *Cell) Children() []Record {
	out := make([]Record, 0, len(c.Placed))
	for _, p := range c.Placed {
		out = append(out, p)
	}
	return out
}
