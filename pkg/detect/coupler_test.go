package detect

import (
	"testing"

	"sclsld/pkg/graph"
	"sclsld/pkg/model"
)

func busNode(id, ss, vl string) *graph.Node {
	return &graph.Node{ID: id, Kind: graph.NodeBus, SS: ss, VL: vl, Label: id}
}

func TestDetectCouplersEmitsNChooseTwoForThreeBuses(t *testing.T) {
	condensed := graph.New()
	condensed.AddNode(busNode("BUS:SS1/VL1/cluster#1", "SS1", "VL1"))
	condensed.AddNode(busNode("BUS:SS1/VL1/cluster#2", "SS1", "VL1"))
	condensed.AddNode(busNode("BUS:SS1/VL1/cluster#3", "SS1", "VL1"))
	condensed.AddNode(&graph.Node{ID: "CE:SS1/VL1/Bay1/QA1", Kind: graph.NodeEquipment, EquipmentKind: model.KindDS, SS: "SS1", VL: "VL1"})

	condensed.AddEdge(&graph.Edge{ID: "e1", From: "CE:SS1/VL1/Bay1/QA1", To: "BUS:SS1/VL1/cluster#1", Kind: graph.EdgeEquipToBus})
	condensed.AddEdge(&graph.Edge{ID: "e2", From: "CE:SS1/VL1/Bay1/QA1", To: "BUS:SS1/VL1/cluster#2", Kind: graph.EdgeEquipToBus})
	condensed.AddEdge(&graph.Edge{ID: "e3", From: "CE:SS1/VL1/Bay1/QA1", To: "BUS:SS1/VL1/cluster#3", Kind: graph.EdgeEquipToBus})

	couplers := DetectCouplers(condensed)

	if len(couplers) != 3 {
		t.Fatalf("expected 3 pairs for 3 buses (3 choose 2), got %d: %+v", len(couplers), couplers)
	}
	for _, c := range couplers {
		if c.IsBreaker {
			t.Errorf("DS equipment should not be flagged as a breaker: %+v", c)
		}
		if c.BusA >= c.BusB {
			t.Errorf("coupler bus pair not in lexicographic order: %+v", c)
		}
	}
}

func TestDetectCouplersSkipsEquipmentAdjacentToDifferentVL(t *testing.T) {
	condensed := graph.New()
	condensed.AddNode(busNode("BUS:SS1/VL1/cluster#1", "SS1", "VL1"))
	condensed.AddNode(busNode("BUS:SS1/VL2/cluster#1", "SS1", "VL2"))
	condensed.AddNode(&graph.Node{ID: "CE:SS1/VL1/Bay1/QA1", Kind: graph.NodeEquipment, EquipmentKind: model.KindCB, SS: "SS1", VL: "VL1"})

	condensed.AddEdge(&graph.Edge{ID: "e1", From: "CE:SS1/VL1/Bay1/QA1", To: "BUS:SS1/VL1/cluster#1", Kind: graph.EdgeEquipToBus})
	condensed.AddEdge(&graph.Edge{ID: "e2", From: "CE:SS1/VL1/Bay1/QA1", To: "BUS:SS1/VL2/cluster#1", Kind: graph.EdgeEquipToBus})

	couplers := DetectCouplers(condensed)
	if len(couplers) != 0 {
		t.Errorf("expected no couplers across voltage levels, got %+v", couplers)
	}
}

func TestDetectCouplersFlagsBreakerOnly(t *testing.T) {
	condensed := graph.New()
	condensed.AddNode(busNode("BUS:SS1/VL1/cluster#1", "SS1", "VL1"))
	condensed.AddNode(busNode("BUS:SS1/VL1/cluster#2", "SS1", "VL1"))
	condensed.AddNode(&graph.Node{ID: "CE:SS1/VL1/Bay1/QB1", Kind: graph.NodeEquipment, EquipmentKind: model.KindCB, SS: "SS1", VL: "VL1"})

	condensed.AddEdge(&graph.Edge{ID: "e1", From: "CE:SS1/VL1/Bay1/QB1", To: "BUS:SS1/VL1/cluster#1", Kind: graph.EdgeEquipToBus})
	condensed.AddEdge(&graph.Edge{ID: "e2", From: "CE:SS1/VL1/Bay1/QB1", To: "BUS:SS1/VL1/cluster#2", Kind: graph.EdgeEquipToBus})

	couplers := DetectCouplers(condensed)
	if len(couplers) != 1 || !couplers[0].IsBreaker {
		t.Errorf("expected one breaker coupler, got %+v", couplers)
	}
}
