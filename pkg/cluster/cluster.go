// Package cluster implements the Bus Clusterer (C6): it identifies bus-like
// connectivity nodes by a degree/name/adjacent-busbar heuristic, then merges
// them into bus clusters with a union-find keyed by node id, the same
// disjoint-set shape used for minimum-spanning-tree construction in the
// graph-algorithms example this is grounded on.
package cluster

import (
	"fmt"
	"sort"
	"strings"

	"sclsld/pkg/config"
	"sclsld/pkg/graph"
	"sclsld/pkg/model"
)

// BusCluster is one disjoint set of connectivity nodes merged into a single
// bus.
type BusCluster struct {
	SS, VL    string
	CNMembers []string // CN node ids, sorted
	BusNodeID string
	Label     string
}

// Clustering is the result of bus clustering: the clusters themselves plus
// a lookup from CN node id to the cluster (if any) that absorbed it.
type Clustering struct {
	Clusters    []*BusCluster
	CNToCluster map[string]*BusCluster
	BusNodes    map[string]*graph.Node
}

// Clusterer runs the bus-likeness heuristic and union-find merge.
type Clusterer struct {
	cfg config.ClusterConfig
}

// NewClusterer creates a clusterer bound to the given thresholds.
func NewClusterer(cfg config.ClusterConfig) *Clusterer {
	return &Clusterer{cfg: cfg}
}

// disjointSet is a union-find over node ids with path compression and
// union-by-rank.
type disjointSet struct {
	parent map[string]string
	rank   map[string]int
}

func newDisjointSet(ids []string) *disjointSet {
	ds := &disjointSet{parent: make(map[string]string, len(ids)), rank: make(map[string]int, len(ids))}
	for _, id := range ids {
		ds.parent[id] = id
		ds.rank[id] = 0
	}
	return ds
}

func (ds *disjointSet) find(u string) string {
	if ds.parent[u] != u {
		ds.parent[u] = ds.find(ds.parent[u])
	}
	return ds.parent[u]
}

func (ds *disjointSet) union(u, v string) {
	ru, rv := ds.find(u), ds.find(v)
	if ru == rv {
		return
	}
	if ds.rank[ru] < ds.rank[rv] {
		ds.parent[ru] = rv
	} else {
		ds.parent[rv] = ru
		if ds.rank[ru] == ds.rank[rv] {
			ds.rank[ru]++
		}
	}
}

// Build identifies bus-like CNs in g, merges them via union-find across
// BusbarSection/DS equipment, and materializes one BusCluster per disjoint
// set. It returns the clustering plus any diagnostics accumulated while
// rejecting inter-VL merges.
func (c *Clusterer) Build(g *graph.Graph) (*Clustering, []model.Diagnostic) {
	var diagnostics []model.Diagnostic

	busLike := c.findBusLikeCNs(g)
	if len(busLike) == 0 {
		return &Clustering{CNToCluster: make(map[string]*BusCluster), BusNodes: make(map[string]*graph.Node)}, diagnostics
	}

	ids := make([]string, 0, len(busLike))
	for id := range busLike {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	ds := newDisjointSet(ids)

	var ceIDs []string
	for id, n := range g.Nodes {
		if n.Kind == graph.NodeEquipment && (n.EquipmentKind == model.KindBusbarSection || n.EquipmentKind == model.KindDS) {
			ceIDs = append(ceIDs, id)
		}
	}
	sort.Strings(ceIDs)

	for _, ceID := range ceIDs {
		var candidates []string
		for _, nb := range g.Neighbors(ceID) {
			if busLike[nb] {
				candidates = append(candidates, nb)
			}
		}
		if len(candidates) < 2 {
			continue
		}
		sort.Strings(candidates)

		first := candidates[0]
		firstNode := g.Nodes[first]
		for _, other := range candidates[1:] {
			otherNode := g.Nodes[other]
			if firstNode.SS == otherNode.SS && firstNode.VL == otherNode.VL {
				ds.union(first, other)
			} else {
				diagnostics = append(diagnostics, model.Diagnostic{
					Code:     model.DiagCrossVLMergeRejected,
					Location: "BusClusterer",
					Message:  fmt.Sprintf("rejected merge of %s and %s across voltage levels", first, other),
					Hint:     ceID,
				})
			}
		}
	}

	groups := make(map[string][]string)
	for _, id := range ids {
		root := ds.find(id)
		groups[root] = append(groups[root], id)
	}

	type pending struct {
		root    string
		members []string
		ss, vl  string
	}
	var pendings []pending
	for root, members := range groups {
		sort.Strings(members)
		ss := g.Nodes[members[0]].SS
		vl := g.Nodes[members[0]].VL
		pendings = append(pendings, pending{root: root, members: members, ss: ss, vl: vl})
	}
	sort.Slice(pendings, func(i, j int) bool {
		if pendings[i].ss != pendings[j].ss {
			return pendings[i].ss < pendings[j].ss
		}
		if pendings[i].vl != pendings[j].vl {
			return pendings[i].vl < pendings[j].vl
		}
		return pendings[i].members[0] < pendings[j].members[0]
	})

	result := &Clustering{
		CNToCluster: make(map[string]*BusCluster),
		BusNodes:    make(map[string]*graph.Node),
	}

	counters := make(map[string]int)
	for _, p := range pendings {
		scopeKey := p.ss + "/" + p.vl
		counters[scopeKey]++
		k := counters[scopeKey]

		suffix := lastSegment(p.members[0])
		busCluster := &BusCluster{
			SS:        p.ss,
			VL:        p.vl,
			CNMembers: p.members,
			BusNodeID: fmt.Sprintf("BUS:%s/%s/cluster#%d", p.ss, p.vl, k),
			Label:     fmt.Sprintf("%s-%s", p.vl, suffix),
		}
		result.Clusters = append(result.Clusters, busCluster)

		for _, m := range p.members {
			result.CNToCluster[m] = busCluster
		}

		result.BusNodes[busCluster.BusNodeID] = &graph.Node{
			ID:    busCluster.BusNodeID,
			Kind:  graph.NodeBus,
			SS:    busCluster.SS,
			VL:    busCluster.VL,
			Label: busCluster.Label,
		}
	}

	return result, diagnostics
}

// findBusLikeCNs applies the bus-likeness heuristic: degree threshold, name
// hints on the CN's label or path, or an adjacent BusbarSection.
func (c *Clusterer) findBusLikeCNs(g *graph.Graph) map[string]bool {
	threshold := c.cfg.BusDegreeThreshold
	if threshold <= 0 {
		threshold = 3
	}
	hints := c.cfg.BusNameHints
	if len(hints) == 0 {
		hints = []string{"BUS", "BUSBAR", "BB", "BARRE", "BAR"}
	}

	busLike := make(map[string]bool)
	for id, n := range g.Nodes {
		if n.Kind != graph.NodeConnectivityNode {
			continue
		}

		if g.Degree(id) >= threshold {
			busLike[id] = true
			continue
		}

		if containsHint(id, hints) || containsHint(n.Label, hints) {
			busLike[id] = true
			continue
		}

		for _, nb := range g.Neighbors(id) {
			if ceNode, ok := g.Nodes[nb]; ok && ceNode.Kind == graph.NodeEquipment && ceNode.EquipmentKind == model.KindBusbarSection {
				busLike[id] = true
				break
			}
		}
	}
	return busLike
}

func containsHint(s string, hints []string) bool {
	upper := strings.ToUpper(s)
	for _, h := range hints {
		if strings.Contains(upper, strings.ToUpper(h)) {
			return true
		}
	}
	return false
}

func lastSegment(cnNodeID string) string {
	segments := strings.Split(cnNodeID, "/")
	return segments[len(segments)-1]
}
