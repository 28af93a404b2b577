package detect

import (
	"sort"

	"sclsld/pkg/graph"
	"sclsld/pkg/model"
)

// DetectCouplers finds every CB/DS equipment in the condensed graph adjacent
// to two or more buses of the same voltage level, and emits one coupler per
// pair of those buses.
func DetectCouplers(condensed *graph.Graph) []BusCoupler {
	var ceIDs []string
	for id, n := range condensed.Nodes {
		if n.Kind == graph.NodeEquipment && (n.EquipmentKind == model.KindCB || n.EquipmentKind == model.KindDS) {
			ceIDs = append(ceIDs, id)
		}
	}
	sort.Strings(ceIDs)

	var couplers []BusCoupler
	for _, ceID := range ceIDs {
		ce := condensed.Nodes[ceID]

		var buses []string
		for _, nb := range condensed.Neighbors(ceID) {
			if n, ok := condensed.Nodes[nb]; ok && n.Kind == graph.NodeBus {
				buses = append(buses, nb)
			}
		}
		if len(buses) < 2 {
			continue
		}
		sort.Strings(buses)

		ss := condensed.Nodes[buses[0]].SS
		vl := condensed.Nodes[buses[0]].VL
		sameScope := true
		for _, b := range buses[1:] {
			if condensed.Nodes[b].SS != ss || condensed.Nodes[b].VL != vl {
				sameScope = false
				break
			}
		}
		if !sameScope {
			continue
		}

		for i := 0; i < len(buses); i++ {
			for j := i + 1; j < len(buses); j++ {
				couplers = append(couplers, BusCoupler{
					Equip:     ceID,
					BusA:      buses[i],
					BusB:      buses[j],
					IsBreaker: ce.EquipmentKind == model.KindCB,
					SS:        ss,
					VL:        vl,
				})
			}
		}
	}

	return couplers
}
