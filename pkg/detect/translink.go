package detect

import (
	"sort"

	"sclsld/pkg/cluster"
	"sclsld/pkg/graph"
	"sclsld/pkg/model"
)

// DetectTransformerLinks finds every transformer equipment in the raw graph
// whose adjacent connectivity nodes resolve to two or more distinct bus
// clusters, and emits a link between the first two in lexicographic order.
func DetectTransformerLinks(raw *graph.Graph, clustering *cluster.Clustering) []TransformerLink {
	var ceIDs []string
	for id, n := range raw.Nodes {
		if n.Kind == graph.NodeEquipment && n.EquipmentKind == model.KindTransformer {
			ceIDs = append(ceIDs, id)
		}
	}
	sort.Strings(ceIDs)

	var links []TransformerLink
	for _, ceID := range ceIDs {
		busSet := make(map[string]bool)
		for _, nb := range raw.Neighbors(ceID) {
			if n, ok := raw.Nodes[nb]; ok && n.Kind == graph.NodeConnectivityNode {
				if bc, clustered := clustering.CNToCluster[nb]; clustered {
					busSet[bc.BusNodeID] = true
				}
			}
		}
		if len(busSet) < 2 {
			continue
		}

		var buses []string
		for b := range busSet {
			buses = append(buses, b)
		}
		sort.Strings(buses)

		busA, busB := buses[0], buses[1]
		nodeA, nodeB := clustering.BusNodes[busA], clustering.BusNodes[busB]

		links = append(links, TransformerLink{
			TransformerID: ceID,
			BusA:          busA,
			BusB:          busB,
			SSA:           nodeA.SS,
			VLA:           nodeA.VL,
			SSB:           nodeB.SS,
			VLB:           nodeB.VL,
		})
	}

	return links
}
