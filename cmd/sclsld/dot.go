package main

import (
	"bufio"
	"fmt"
	"strings"

	"sclsld/pkg/plan"
)

// renderDOT renders a plan's buses and feeders as a Graphviz digraph,
// grounded on the teacher's bufio.Writer-over-strings.Builder DOT-writing
// style.
func renderDOT(p *plan.Plan) string {
	var b strings.Builder
	w := bufio.NewWriter(&b)

	fmt.Fprintln(w, "digraph SLD {")
	fmt.Fprintln(w, `  rankdir=TB; node [shape=box, fontname="Arial"];`)

	for _, bus := range p.Buses {
		fmt.Fprintf(w, "  %q [shape=ellipse, style=filled, fillcolor=lightgray, label=%q];\n", bus.ID, bus.Label)
	}

	for _, coupler := range p.Couplers {
		fmt.Fprintf(w, "  %q -> %q [label=%q, dir=none, style=dashed];\n", coupler.BusA, coupler.BusB, coupler.Equip)
	}

	for _, feeder := range p.Feeders {
		prev := feeder.BusID
		for _, eq := range feeder.Chain {
			fmt.Fprintf(w, "  %q -> %q;\n", prev, eq)
			prev = eq
		}
	}

	for _, link := range p.TransLinks {
		fmt.Fprintf(w, "  %q -> %q [label=%q, dir=none, style=bold];\n", link.BusA, link.BusB, link.TransformerID)
	}

	fmt.Fprintln(w, "}")
	w.Flush()
	return b.String()
}
