package detect

import (
	"fmt"
	"sort"

	"sclsld/pkg/cluster"
	"sclsld/pkg/config"
	"sclsld/pkg/graph"
	"sclsld/pkg/model"
)

// FeederWalker produces outward radial chains from bus-adjacent equipment to
// a line/cable/transformer endpoint (or Unknown if the chain dead-ends
// first).
type FeederWalker struct {
	cfg config.FeederConfig
}

// NewFeederWalker creates a walker bound to the given walk limits.
func NewFeederWalker(cfg config.FeederConfig) *FeederWalker {
	return &FeederWalker{cfg: cfg}
}

// Walk produces every feeder reachable from the condensed graph's
// bus-adjacent equipment, using the raw graph for CN-level detail and the
// clustering to know which CNs are bus members.
func (fw *FeederWalker) Walk(raw, condensed *graph.Graph, clustering *cluster.Clustering) []Feeder {
	maxDepth := fw.cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 16
	}
	endpointKinds := fw.cfg.EndpointKinds
	if len(endpointKinds) == 0 {
		endpointKinds = []string{"Line", "Cable", "Transformer"}
	}

	var ceIDs []string
	for id, n := range condensed.Nodes {
		if n.Kind == graph.NodeEquipment {
			ceIDs = append(ceIDs, id)
		}
	}
	sort.Strings(ceIDs)

	var feeders []Feeder
	idCounters := make(map[string]int)

	for _, ceID := range ceIDs {
		ce := condensed.Nodes[ceID]

		var adjBuses []string
		for _, nb := range condensed.Neighbors(ceID) {
			if n, ok := condensed.Nodes[nb]; ok && n.Kind == graph.NodeBus {
				adjBuses = append(adjBuses, nb)
			}
		}
		if len(adjBuses) == 0 {
			continue
		}
		if (ce.EquipmentKind == model.KindCB || ce.EquipmentKind == model.KindDS) && len(adjBuses) >= 2 {
			continue
		}
		sort.Strings(adjBuses)
		entryBus := adjBuses[0]

		outwardCN := fw.findOutwardCN(raw, ceID, clustering)
		if outwardCN == "" {
			continue
		}

		chain := []string{ceID}
		visited := map[string]bool{ceID: true, outwardCN: true}
		currentCN := outwardCN
		endpointType := ""

		for step := 0; step < maxDepth; step++ {
			nextCE := fw.findNextCE(raw, condensed, currentCN, visited, entryBus)
			if nextCE == "" {
				break
			}
			chain = append(chain, nextCE)
			visited[nextCE] = true

			kind := string(condensed.Nodes[nextCE].EquipmentKind)
			if containsString(endpointKinds, kind) {
				endpointType = kind
				break
			}

			nextCN := fw.findNextCN(raw, nextCE, visited, clustering)
			if nextCN == "" {
				break
			}
			currentCN = nextCN
			visited[currentCN] = true
		}

		if len(chain) == 1 {
			kind := string(ce.EquipmentKind)
			if containsString(endpointKinds, kind) {
				endpointType = kind
			} else {
				endpointType = "Unknown"
			}
		} else if endpointType == "" {
			endpointType = "Unknown"
		}

		n := idCounters[entryBus]
		idCounters[entryBus] = n + 1

		feeders = append(feeders, Feeder{
			ID:           fmt.Sprintf("FEED:%s#%d", entryBus, n),
			BusID:        entryBus,
			SS:           ce.SS,
			VL:           ce.VL,
			Chain:        chain,
			EndpointType: endpointType,
		})
	}

	assignLaneIndexes(feeders)

	return feeders
}

// findOutwardCN returns a raw-graph CN neighbor of ceID that is not a member
// of any bus cluster, choosing the lexicographically smallest for
// determinism when more than one qualifies.
func (fw *FeederWalker) findOutwardCN(raw *graph.Graph, ceID string, clustering *cluster.Clustering) string {
	var candidates []string
	for _, nb := range raw.Neighbors(ceID) {
		if n, ok := raw.Nodes[nb]; ok && n.Kind == graph.NodeConnectivityNode {
			if _, clustered := clustering.CNToCluster[nb]; !clustered {
				candidates = append(candidates, nb)
			}
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.Strings(candidates)
	return candidates[0]
}

// findNextCE chooses the unvisited CE neighbor of currentCN that is not
// adjacent (in the condensed graph) to any bus other than entryBus.
func (fw *FeederWalker) findNextCE(raw, condensed *graph.Graph, currentCN string, visited map[string]bool, entryBus string) string {
	var candidates []string
	for _, nb := range raw.Neighbors(currentCN) {
		n, ok := raw.Nodes[nb]
		if !ok || n.Kind != graph.NodeEquipment || visited[nb] {
			continue
		}

		onlyEntryBus := true
		for _, busNb := range condensed.Neighbors(nb) {
			if busNode, ok := condensed.Nodes[busNb]; ok && busNode.Kind == graph.NodeBus && busNb != entryBus {
				onlyEntryBus = false
				break
			}
		}
		if onlyEntryBus {
			candidates = append(candidates, nb)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.Strings(candidates)
	return candidates[0]
}

// findNextCN chooses the unvisited, non-bus-member CN neighbor of ceID.
func (fw *FeederWalker) findNextCN(raw *graph.Graph, ceID string, visited map[string]bool, clustering *cluster.Clustering) string {
	var candidates []string
	for _, nb := range raw.Neighbors(ceID) {
		n, ok := raw.Nodes[nb]
		if !ok || n.Kind != graph.NodeConnectivityNode || visited[nb] {
			continue
		}
		if _, clustered := clustering.CNToCluster[nb]; clustered {
			continue
		}
		candidates = append(candidates, nb)
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.Strings(candidates)
	return candidates[0]
}

// assignLaneIndexes assigns lane-index per "<ss>:<vl>|<bus-id>" by emission
// order, mutating feeders in place.
func assignLaneIndexes(feeders []Feeder) {
	lanes := make(map[string]int)
	for i := range feeders {
		key := feeders[i].SS + ":" + feeders[i].VL + "|" + feeders[i].BusID
		feeders[i].LaneIndex = lanes[key]
		lanes[key]++
	}
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
