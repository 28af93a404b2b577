package cluster

import (
	"fmt"

	"sclsld/pkg/graph"
)

// Condense produces the condensed graph (C7) from a raw graph and its bus
// clustering: equipment nodes carry over unchanged, bus nodes replace their
// member connectivity nodes, every CE-to-CN edge whose CN belongs to a
// cluster is rewritten into an Equip-to-Bus edge, and every other CN edge
// (one whose CN never clustered into a bus) is dropped. The raw graph stays
// available to the caller for the feeder walker, which needs the
// un-condensed CN-level detail.
func Condense(raw *graph.Graph, clustering *Clustering) *graph.Graph {
	condensed := graph.New()

	for id, n := range raw.Nodes {
		if n.Kind != graph.NodeEquipment {
			continue
		}
		condensed.AddNode(&graph.Node{
			ID:            id,
			Kind:          graph.NodeEquipment,
			EquipmentKind: n.EquipmentKind,
			SS:            n.SS,
			VL:            n.VL,
			Bay:           n.Bay,
			Label:         n.Label,
			LNodeRefs:     n.LNodeRefs,
			CE:            n.CE,
		})
	}

	for busID, busNode := range clustering.BusNodes {
		condensed.AddNode(&graph.Node{
			ID:    busID,
			Kind:  graph.NodeBus,
			SS:    busNode.SS,
			VL:    busNode.VL,
			Label: busNode.Label,
		})
	}

	edgeSeq := 0
	seen := make(map[string]bool)
	for _, e := range raw.Edges {
		if e.Kind != graph.EdgeCEtoCN {
			continue
		}

		bc, clustered := clustering.CNToCluster[e.To]
		if !clustered {
			continue
		}

		dedupeKey := e.From + "|" + bc.BusNodeID + "|" + e.TerminalName
		if seen[dedupeKey] {
			continue
		}
		seen[dedupeKey] = true

		edgeSeq++
		condensed.AddEdge(&graph.Edge{
			ID:           fmt.Sprintf("CondE:%d", edgeSeq),
			From:         e.From,
			To:           bc.BusNodeID,
			Kind:         graph.EdgeEquipToBus,
			TerminalName: e.TerminalName,
			CNPath:       e.CNPath,
		})
	}

	return condensed
}
