package graph

import (
	"fmt"
	"strings"

	"sclsld/pkg/index"
	"sclsld/pkg/model"
)

// RawBuilder constructs the bipartite equipment<->connectivity-node graph
// (C5): one CN node per declared connectivity node, one CE node per
// conducting equipment, and one edge per wired terminal resolved by the
// three-tier CN lookup.
type RawBuilder struct{}

// NewRawBuilder creates a new raw graph builder.
func NewRawBuilder() *RawBuilder {
	return &RawBuilder{}
}

// Build produces the raw graph from a parsed model and its index.
func (rb *RawBuilder) Build(m *model.Model, ix *index.Index) *Graph {
	g := New()

	for fullPath, rec := range ix.CNByFullPath {
		g.AddNode(&Node{
			ID:    CNNodeID(fullPath),
			Kind:  NodeConnectivityNode,
			SS:    rec.SS,
			VL:    rec.VL,
			Bay:   rec.Bay,
			Label: rec.Node.Name,
			CN:    rec.Node,
		})
	}

	edgeSeq := 0
	for _, ss := range m.Substations {
		for _, vl := range ss.VoltageLevels {
			for _, bay := range vl.Bays {
				for _, ce := range bay.Equipments {
					ceNodeID := CENodeID(ss.Name, vl.Name, bay.Name, ce.Name)
					g.AddNode(&Node{
						ID:            ceNodeID,
						Kind:          NodeEquipment,
						EquipmentKind: model.EquipmentKindOf(ce.Type),
						SS:            ss.Name,
						VL:            vl.Name,
						Bay:           bay.Name,
						Label:         ce.Name,
						LNodeRefs:     ce.LNodeRefs,
						CE:            ce,
					})

					for _, t := range ce.Terminals {
						if !t.Wired() {
							continue
						}
						cnFullPath := rb.resolveTerminal(g, ix, ss.Name, vl.Name, bay.Name, t)
						if cnFullPath == "" {
							continue
						}
						edgeSeq++
						g.AddEdge(&Edge{
							ID:           fmt.Sprintf("E:%d", edgeSeq),
							From:         ceNodeID,
							To:           CNNodeID(cnFullPath),
							Kind:         EdgeCEtoCN,
							TerminalName: t.Name,
							CNPath:       cnFullPath,
						})
					}
				}
			}
		}
	}

	return g
}

// resolveTerminal resolves a wired terminal to a CN full path, synthesizing
// an undeclared CN node when the three-tier lookup misses, and returns that
// full path (the caller maps it to a node id via CNNodeID).
func (rb *RawBuilder) resolveTerminal(g *Graph, ix *index.Index, ss, vl, bay string, t model.Terminal) string {
	if t.CNodeRef != "" {
		fullPath := t.CNodeRef
		if _, declared := ix.CNByFullPath[fullPath]; !declared {
			rb.ensureSynthesizedCN(g, fullPath)
		}
		return fullPath
	}

	if t.CNodeName != "" {
		if rec, ok := ix.CNByNameInVL[index.NameInVLKey(ss, vl, t.CNodeName)]; ok {
			return rec.FullPath
		}
		fullPath := fmt.Sprintf("%s/%s/%s/%s", ss, vl, bay, t.CNodeName)
		rb.ensureSynthesizedCN(g, fullPath)
		return fullPath
	}

	return ""
}

// ensureSynthesizedCN materializes a CN node for a full path that the index
// never declared, splitting it as <ss>/<vl>/<bay>/<name>.
func (rb *RawBuilder) ensureSynthesizedCN(g *Graph, fullPath string) {
	id := CNNodeID(fullPath)
	if _, exists := g.Nodes[id]; exists {
		return
	}

	segments := strings.Split(fullPath, "/")
	var ss, vl, bay, name string
	switch {
	case len(segments) >= 4:
		ss, vl, bay, name = segments[0], segments[1], segments[2], segments[3]
	case len(segments) > 0:
		name = segments[len(segments)-1]
	}

	g.AddNode(&Node{
		ID:    id,
		Kind:  NodeConnectivityNode,
		SS:    ss,
		VL:    vl,
		Bay:   bay,
		Label: name,
	})
}

// CNNodeID returns the graph node id for a CN full path.
func CNNodeID(fullPath string) string {
	return "CN:" + fullPath
}

// CENodeID returns the graph node id for a conducting equipment.
func CENodeID(ss, vl, bay, name string) string {
	return fmt.Sprintf("CE:%s/%s/%s/%s", ss, vl, bay, name)
}
