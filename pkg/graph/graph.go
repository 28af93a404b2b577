// Package graph holds the SLD stage's graph entities (Node, Edge, Graph) and
// the Raw Graph Builder that produces the bipartite
// equipment<->connectivity-node graph; the Graph Condenser (equipment<->bus)
// lives in pkg/cluster. Adjacency is tracked the way the teacher's pkg/types
// graph tracks host adjacency: a map of node id to its incident edge ids,
// built alongside an insertion-ordered edge slice so iteration order (and
// therefore every id assigned from it) stays deterministic.
package graph

import "sclsld/pkg/model"

// NodeKind discriminates a graph node's role.
type NodeKind string

const (
	NodeConnectivityNode NodeKind = "connectivity-node"
	NodeBus              NodeKind = "bus"
	NodeEquipment        NodeKind = "equipment"
	NodeJunction         NodeKind = "junction"
)

// EdgeKind discriminates a graph edge's role.
type EdgeKind string

const (
	EdgeCEtoCN    EdgeKind = "CE_to_CN"
	EdgeEquipToBus EdgeKind = "Equip_to_Bus"
	EdgeCNMerge    EdgeKind = "CN_Merge"
)

// Node is a graph vertex: a connectivity node, a bus (a merged cluster of
// connectivity nodes), a piece of equipment, or an unclassified junction.
type Node struct {
	ID            string
	Kind          NodeKind
	EquipmentKind model.EquipmentKind
	SS, VL, Bay   string
	Label         string
	LNodeRefs     []model.LNodeRef

	// Back-references borrow the owning domain entity; they are valid only
	// while the model that produced this graph is still alive.
	CE *model.ConductingEquipment
	CN *model.ConnectivityNode
}

// Edge is a graph connection between two nodes.
type Edge struct {
	ID           string
	From, To     string
	Kind         EdgeKind
	TerminalName string
	CNPath       string
}

// Graph is a node map plus an insertion-ordered edge sequence.
type Graph struct {
	Nodes map[string]*Node
	Edges []*Edge

	// NodeOrder records first-insertion order, since Nodes is an unordered
	// map; plan ordering groups equipment by voltage level in this order.
	NodeOrder []string

	adjacency map[string][]int // node id -> indices into Edges incident to it
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		Nodes:     make(map[string]*Node),
		adjacency: make(map[string][]int),
	}
}

// AddNode inserts a node, overwriting any existing node with the same id but
// preserving its original position in NodeOrder.
func (g *Graph) AddNode(n *Node) {
	if _, exists := g.Nodes[n.ID]; !exists {
		g.NodeOrder = append(g.NodeOrder, n.ID)
	}
	g.Nodes[n.ID] = n
}

// AddEdge appends an edge and indexes it against both endpoints.
func (g *Graph) AddEdge(e *Edge) {
	idx := len(g.Edges)
	g.Edges = append(g.Edges, e)
	g.adjacency[e.From] = append(g.adjacency[e.From], idx)
	g.adjacency[e.To] = append(g.adjacency[e.To], idx)
}

// EdgesOf returns every edge incident to nodeID, in insertion order.
func (g *Graph) EdgesOf(nodeID string) []*Edge {
	idxs := g.adjacency[nodeID]
	out := make([]*Edge, 0, len(idxs))
	for _, idx := range idxs {
		out = append(out, g.Edges[idx])
	}
	return out
}

// Neighbors returns the node ids adjacent to nodeID via any edge, in
// insertion order, with duplicates from parallel edges collapsed.
func (g *Graph) Neighbors(nodeID string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range g.EdgesOf(nodeID) {
		other := e.From
		if other == nodeID {
			other = e.To
		}
		if !seen[other] {
			seen[other] = true
			out = append(out, other)
		}
	}
	return out
}

// Degree returns the number of edges incident to nodeID (parallel edges
// counted individually, matching the bus-likeness degree heuristic).
func (g *Graph) Degree(nodeID string) int {
	return len(g.adjacency[nodeID])
}
