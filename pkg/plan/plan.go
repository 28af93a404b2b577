// Package plan assembles the final single-line-diagram plan (C9, C10): the
// power-transformer integrator synthesizes feeders and a transformer
// summary for every declared PowerTransformer, and plan ordering sorts
// buses and groups equipment deterministically.
package plan

import (
	"fmt"
	"sort"
	"strings"

	"sclsld/pkg/cluster"
	"sclsld/pkg/detect"
	"sclsld/pkg/graph"
	"sclsld/pkg/model"
)

// Bus is a plan-level bus: a materialized cluster plus its CN membership.
type Bus struct {
	ID      string
	SS, VL  string
	Label   string
	Members []string
}

// PlanTransformer summarizes a declared power transformer's bus touches.
type PlanTransformer struct {
	TR            string
	BusA, BusB    string
	VLA, VLB      string
	Buses         []string
	HasTapChanger bool
}

// Plan is the fully assembled output: condensed graph plus every detector's
// results, ordered deterministically.
type Plan struct {
	Condensed     *graph.Graph
	Buses         []Bus
	Couplers      []detect.BusCoupler
	TransLinks    []detect.TransformerLink
	Transformers  []PlanTransformer
	Feeders       []detect.Feeder
	RankTopBus    map[string][]string
	RankMiddleEq  map[string][]string
}

// Builder assembles a Plan from a model, its raw/condensed graphs, and the
// bus clustering.
type Builder struct{}

// NewBuilder creates a plan builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build runs the power-transformer integrator and plan ordering over the
// already-detected couplers, transformer links, and feeders, producing the
// final Plan.
func (b *Builder) Build(m *model.Model, raw, condensed *graph.Graph, clustering *cluster.Clustering, couplers []detect.BusCoupler, transLinks []detect.TransformerLink, feeders []detect.Feeder) *Plan {
	p := &Plan{
		Condensed:    condensed,
		Couplers:     couplers,
		TransLinks:   transLinks,
		Feeders:      feeders,
		RankTopBus:   make(map[string][]string),
		RankMiddleEq: make(map[string][]string),
	}

	for _, bc := range clustering.Clusters {
		p.Buses = append(p.Buses, Bus{
			ID:      bc.BusNodeID,
			SS:      bc.SS,
			VL:      bc.VL,
			Label:   bc.Label,
			Members: append([]string(nil), bc.CNMembers...),
		})
	}

	ptFeeders, ptSummaries := b.integratePowerTransformers(m, clustering)
	p.Feeders = append(p.Feeders, ptFeeders...)
	p.Transformers = ptSummaries

	b.order(p, condensed)

	return p
}

// integratePowerTransformers implements the Power-Transformer Integrator
// (C9): for every declared power transformer, resolves each winding
// terminal to a bus cluster by exact resolved-end CN id, falling back to
// suffix match scoped to the substation, synthesizing a feeder and a
// transformer summary for every bus touched.
func (b *Builder) integratePowerTransformers(m *model.Model, clustering *cluster.Clustering) ([]detect.Feeder, []PlanTransformer) {
	suffixIndex := make(map[string][]string) // "<ss>|<suffix>" -> CN node ids
	for cnID := range clustering.CNToCluster {
		ss := clustering.CNToCluster[cnID].SS
		suffix := lastPathSegment(cnID)
		key := ss + "|" + suffix
		suffixIndex[key] = append(suffixIndex[key], cnID)
	}

	var feeders []detect.Feeder
	var summaries []PlanTransformer
	seenFeederIDs := make(map[string]bool)

	for _, ss := range m.Substations {
		for _, pt := range ss.PowerTransformers {
			trID := fmt.Sprintf("TR:%s/%s", ss.Name, pt.Name)

			busSet := make(map[string]bool)
			hasTap := false
			for _, winding := range pt.Windings {
				if winding.TapChanger != nil {
					hasTap = true
				}
				for _, end := range winding.ResolvedEnds {
					if bus := resolveTransformerEndBus(end, clustering, suffixIndex); bus != "" {
						busSet[bus] = true
					}
				}
			}
			if len(busSet) == 0 {
				continue
			}

			var buses []string
			for bus := range busSet {
				buses = append(buses, bus)
			}
			sort.Strings(buses)

			counters := make(map[string]int)
			for _, busID := range buses {
				counterKey := busID + "|" + pt.Name
				k := counters[counterKey]
				id := fmt.Sprintf("FEED:%s#TR#%s#%d", busID, pt.Name, k)
				for seenFeederIDs[id] {
					k++
					id = fmt.Sprintf("FEED:%s#TR#%s#%d", busID, pt.Name, k)
				}
				counters[counterKey] = k + 1
				seenFeederIDs[id] = true

				busNode := clustering.BusNodes[busID]
				feeders = append(feeders, detect.Feeder{
					ID:           id,
					BusID:        busID,
					SS:           busNode.SS,
					VL:           busNode.VL,
					Chain:        []string{trID},
					EndpointType: "Transformer",
				})
			}

			summary := PlanTransformer{TR: trID, Buses: buses, HasTapChanger: hasTap}
			if len(buses) >= 1 {
				summary.BusA = buses[0]
				summary.VLA = clustering.BusNodes[buses[0]].VL
			}
			if len(buses) >= 2 {
				summary.BusB = buses[1]
				summary.VLB = clustering.BusNodes[buses[1]].VL
			}
			summaries = append(summaries, summary)
		}
	}

	return feeders, summaries
}

func resolveTransformerEndBus(end model.ResolvedEnd, clustering *cluster.Clustering, suffixIndex map[string][]string) string {
	if end.VL != "" && end.Bay != "" && end.CN != "" {
		cnID := graph.CNNodeID(fmt.Sprintf("%s/%s/%s/%s", end.SS, end.VL, end.Bay, end.CN))
		if bc, ok := clustering.CNToCluster[cnID]; ok {
			return bc.BusNodeID
		}
	}

	if end.CN == "" {
		return ""
	}
	key := end.SS + "|" + end.CN
	candidates := suffixIndex[key]
	if len(candidates) == 0 {
		return ""
	}
	sort.Strings(candidates)
	return clustering.CNToCluster[candidates[0]].BusNodeID
}

func lastPathSegment(nodeID string) string {
	stripped := strings.TrimPrefix(nodeID, "CN:")
	segments := strings.Split(stripped, "/")
	return segments[len(segments)-1]
}

// order implements Plan Ordering (C10): buses sorted by (vl, label);
// rank-top-bus populated from that sorted order; rank-middle-eq grouped by
// voltage level in the condensed graph's node insertion order.
func (b *Builder) order(p *Plan, condensed *graph.Graph) {
	sort.Slice(p.Buses, func(i, j int) bool {
		if p.Buses[i].VL != p.Buses[j].VL {
			return p.Buses[i].VL < p.Buses[j].VL
		}
		return p.Buses[i].Label < p.Buses[j].Label
	})

	for _, bus := range p.Buses {
		key := bus.SS + ":" + bus.VL
		p.RankTopBus[key] = append(p.RankTopBus[key], bus.ID)
	}

	for _, id := range condensed.NodeOrder {
		n := condensed.Nodes[id]
		if n.Kind != graph.NodeEquipment {
			continue
		}
		key := n.SS + ":" + n.VL
		p.RankMiddleEq[key] = append(p.RankMiddleEq[key], id)
	}
}
