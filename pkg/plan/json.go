package plan

import (
	"fmt"
	"strconv"
	"strings"

	"sclsld/pkg/graph"
)

// escapeJSONString implements the serialization contract's exact escaping
// rules: the standard short escapes, and every other control character
// below 0x20 as a \u00XX sequence. Grounded on the original JsonWriter's
// character-by-character escape table.
func escapeJSONString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 {
				fmt.Fprintf(&b, `\u%04X`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	return b.String()
}

func jsonString(s string) string {
	return `"` + escapeJSONString(s) + `"`
}

// writeOptField omits the field entirely when value is empty, matching the
// contract's "?" optional fields.
func writeOptField(b *strings.Builder, name, value string, wroteAny *bool) {
	if value == "" {
		return
	}
	if *wroteAny {
		b.WriteByte(',')
	}
	b.WriteString(jsonString(name))
	b.WriteByte(':')
	b.WriteString(jsonString(value))
	*wroteAny = true
}

func writeField(b *strings.Builder, name, value string, wroteAny *bool) {
	if *wroteAny {
		b.WriteByte(',')
	}
	b.WriteString(jsonString(name))
	b.WriteByte(':')
	b.WriteString(jsonString(value))
	*wroteAny = true
}

func writeIntField(b *strings.Builder, name string, value int, wroteAny *bool) {
	if *wroteAny {
		b.WriteByte(',')
	}
	b.WriteString(jsonString(name))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(value))
	*wroteAny = true
}

func writeBoolField(b *strings.Builder, name string, value bool, wroteAny *bool) {
	if *wroteAny {
		b.WriteByte(',')
	}
	b.WriteString(jsonString(name))
	b.WriteByte(':')
	b.WriteString(strconv.FormatBool(value))
	*wroteAny = true
}

func writeStringArrayField(b *strings.Builder, name string, values []string, wroteAny *bool) {
	if *wroteAny {
		b.WriteByte(',')
	}
	b.WriteString(jsonString(name))
	b.WriteByte(':')
	b.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(jsonString(v))
	}
	b.WriteByte(']')
	*wroteAny = true
}

// GraphJSON serializes a raw or condensed graph per the contract:
// { "nodes":[{ "id","kind","label"?,"ss"?,"vl"?,"bay"?,"eKind"? }],
//   "edges":[{ "id","from","to","kind","terminal"?,"cn"? }] }.
func GraphJSON(g *graph.Graph) string {
	var b strings.Builder
	b.WriteByte('{')

	b.WriteString(`"nodes":[`)
	for i, id := range g.NodeOrder {
		if i > 0 {
			b.WriteByte(',')
		}
		n := g.Nodes[id]
		b.WriteByte('{')
		wrote := false
		writeField(&b, "id", n.ID, &wrote)
		writeField(&b, "kind", string(n.Kind), &wrote)
		writeOptField(&b, "label", n.Label, &wrote)
		writeOptField(&b, "ss", n.SS, &wrote)
		writeOptField(&b, "vl", n.VL, &wrote)
		writeOptField(&b, "bay", n.Bay, &wrote)
		if n.EquipmentKind != "" {
			writeOptField(&b, "eKind", string(n.EquipmentKind), &wrote)
		}
		b.WriteByte('}')
	}
	b.WriteString(`],`)

	b.WriteString(`"edges":[`)
	for i, e := range g.Edges {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('{')
		wrote := false
		writeField(&b, "id", e.ID, &wrote)
		writeField(&b, "from", e.From, &wrote)
		writeField(&b, "to", e.To, &wrote)
		writeField(&b, "kind", string(e.Kind), &wrote)
		writeOptField(&b, "terminal", e.TerminalName, &wrote)
		writeOptField(&b, "cn", e.CNPath, &wrote)
		b.WriteByte('}')
	}
	b.WriteString(`]`)

	b.WriteByte('}')
	return b.String()
}

// PlanJSON serializes the assembled plan per the contract:
// { "buses":[...], "couplers":[...], "transformers":[...], "feeders":[...] }.
func PlanJSON(p *Plan) string {
	var b strings.Builder
	b.WriteByte('{')

	b.WriteString(`"buses":[`)
	for i, bus := range p.Buses {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('{')
		wrote := false
		writeField(&b, "id", bus.ID, &wrote)
		writeOptField(&b, "ss", bus.SS, &wrote)
		writeOptField(&b, "vl", bus.VL, &wrote)
		writeOptField(&b, "label", bus.Label, &wrote)
		writeStringArrayField(&b, "members", bus.Members, &wrote)
		b.WriteByte('}')
	}
	b.WriteString(`],`)

	b.WriteString(`"couplers":[`)
	for i, c := range p.Couplers {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('{')
		wrote := false
		writeField(&b, "equip", c.Equip, &wrote)
		writeField(&b, "busA", c.BusA, &wrote)
		writeField(&b, "busB", c.BusB, &wrote)
		typ := "DS"
		if c.IsBreaker {
			typ = "CB"
		}
		writeField(&b, "type", typ, &wrote)
		writeOptField(&b, "ss", c.SS, &wrote)
		writeOptField(&b, "vl", c.VL, &wrote)
		b.WriteByte('}')
	}
	b.WriteString(`],`)

	b.WriteString(`"transformers":[`)
	for i, t := range p.Transformers {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('{')
		wrote := false
		writeField(&b, "tr", t.TR, &wrote)
		writeOptField(&b, "busA", t.BusA, &wrote)
		writeOptField(&b, "busB", t.BusB, &wrote)
		writeOptField(&b, "vlA", t.VLA, &wrote)
		writeOptField(&b, "vlB", t.VLB, &wrote)
		writeStringArrayField(&b, "buses", t.Buses, &wrote)
		writeBoolField(&b, "hasTapChanger", t.HasTapChanger, &wrote)
		b.WriteByte('}')
	}
	b.WriteString(`],`)

	b.WriteString(`"feeders":[`)
	for i, f := range p.Feeders {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('{')
		wrote := false
		writeField(&b, "id", f.ID, &wrote)
		writeOptField(&b, "bus", f.BusID, &wrote)
		writeOptField(&b, "ss", f.SS, &wrote)
		writeOptField(&b, "vl", f.VL, &wrote)
		writeIntField(&b, "lane", f.LaneIndex, &wrote)
		writeOptField(&b, "endpoint", f.EndpointType, &wrote)
		writeStringArrayField(&b, "chain", f.Chain, &wrote)
		b.WriteByte('}')
	}
	b.WriteString(`]`)

	b.WriteByte('}')
	return b.String()
}
