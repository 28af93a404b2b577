package detect

import (
	"testing"

	"sclsld/pkg/cluster"
	"sclsld/pkg/config"
	"sclsld/pkg/graph"
	"sclsld/pkg/model"
)

// buildFeederScenario wires bus -> CB -> outward CN -> Line, the minimal
// chain a feeder walk should discover and terminate on at the Line.
func buildFeederScenario() (*graph.Graph, *graph.Graph, *cluster.Clustering) {
	raw := graph.New()
	raw.AddNode(&graph.Node{ID: "CN:SS1/VL1/Bay1/BUS1", Kind: graph.NodeConnectivityNode, SS: "SS1", VL: "VL1"})
	raw.AddNode(&graph.Node{ID: "CE:SS1/VL1/Bay1/QA1", Kind: graph.NodeEquipment, EquipmentKind: model.KindCB, SS: "SS1", VL: "VL1"})
	raw.AddNode(&graph.Node{ID: "CN:SS1/VL1/Bay1/C2", Kind: graph.NodeConnectivityNode, SS: "SS1", VL: "VL1"})
	raw.AddNode(&graph.Node{ID: "CE:SS1/VL1/Bay1/LN1", Kind: graph.NodeEquipment, EquipmentKind: model.KindLine, SS: "SS1", VL: "VL1"})

	raw.AddEdge(&graph.Edge{ID: "e1", From: "CE:SS1/VL1/Bay1/QA1", To: "CN:SS1/VL1/Bay1/BUS1", Kind: graph.EdgeCEtoCN})
	raw.AddEdge(&graph.Edge{ID: "e2", From: "CE:SS1/VL1/Bay1/QA1", To: "CN:SS1/VL1/Bay1/C2", Kind: graph.EdgeCEtoCN})
	raw.AddEdge(&graph.Edge{ID: "e3", From: "CE:SS1/VL1/Bay1/LN1", To: "CN:SS1/VL1/Bay1/C2", Kind: graph.EdgeCEtoCN})

	condensed := graph.New()
	condensed.AddNode(busNode("BUS:SS1/VL1/cluster#1", "SS1", "VL1"))
	condensed.AddNode(&graph.Node{ID: "CE:SS1/VL1/Bay1/QA1", Kind: graph.NodeEquipment, EquipmentKind: model.KindCB, SS: "SS1", VL: "VL1"})
	condensed.AddNode(&graph.Node{ID: "CE:SS1/VL1/Bay1/LN1", Kind: graph.NodeEquipment, EquipmentKind: model.KindLine, SS: "SS1", VL: "VL1"})
	condensed.AddEdge(&graph.Edge{ID: "ce1", From: "CE:SS1/VL1/Bay1/QA1", To: "BUS:SS1/VL1/cluster#1", Kind: graph.EdgeEquipToBus})

	clustering := &cluster.Clustering{
		CNToCluster: map[string]*cluster.BusCluster{
			"CN:SS1/VL1/Bay1/BUS1": {SS: "SS1", VL: "VL1", BusNodeID: "BUS:SS1/VL1/cluster#1"},
		},
		BusNodes: map[string]*graph.Node{
			"BUS:SS1/VL1/cluster#1": {ID: "BUS:SS1/VL1/cluster#1", SS: "SS1", VL: "VL1"},
		},
	}

	return raw, condensed, clustering
}

func TestFeederWalkerReachesLineEndpoint(t *testing.T) {
	raw, condensed, clustering := buildFeederScenario()
	fw := NewFeederWalker(config.FeederConfig{MaxDepth: 16})

	feeders := fw.Walk(raw, condensed, clustering)
	if len(feeders) != 1 {
		t.Fatalf("expected 1 feeder, got %d: %+v", len(feeders), feeders)
	}

	f := feeders[0]
	if f.BusID != "BUS:SS1/VL1/cluster#1" {
		t.Errorf("feeder entry bus = %q", f.BusID)
	}
	if f.Chain[0] != "CE:SS1/VL1/Bay1/QA1" {
		t.Errorf("feeder chain should start with the entry equipment, got %v", f.Chain)
	}
	if f.EndpointType != "Line" {
		t.Errorf("expected endpoint type Line, got %q", f.EndpointType)
	}
	if len(f.Chain) != 2 || f.Chain[1] != "CE:SS1/VL1/Bay1/LN1" {
		t.Errorf("expected chain to end at the line, got %v", f.Chain)
	}
}

func TestFeederWalkerSkipsCouplerEquipment(t *testing.T) {
	raw, condensed, clustering := buildFeederScenario()

	condensed.AddNode(busNode("BUS:SS1/VL1/cluster#2", "SS1", "VL1"))
	condensed.AddEdge(&graph.Edge{ID: "ce2", From: "CE:SS1/VL1/Bay1/QA1", To: "BUS:SS1/VL1/cluster#2", Kind: graph.EdgeEquipToBus})

	fw := NewFeederWalker(config.FeederConfig{MaxDepth: 16})
	feeders := fw.Walk(raw, condensed, clustering)

	for _, f := range feeders {
		if f.Chain[0] == "CE:SS1/VL1/Bay1/QA1" {
			t.Errorf("a CB touching 2 buses is a coupler, not a feeder entry: %+v", f)
		}
	}
}

func TestFeederWalkerDeadEndYieldsSingleElementChain(t *testing.T) {
	raw := graph.New()
	raw.AddNode(&graph.Node{ID: "CN:SS1/VL1/Bay1/BUS1", Kind: graph.NodeConnectivityNode, SS: "SS1", VL: "VL1"})
	raw.AddNode(&graph.Node{ID: "CE:SS1/VL1/Bay1/QA1", Kind: graph.NodeEquipment, EquipmentKind: model.KindDS, SS: "SS1", VL: "VL1"})
	raw.AddNode(&graph.Node{ID: "CN:SS1/VL1/Bay1/C2", Kind: graph.NodeConnectivityNode, SS: "SS1", VL: "VL1"})
	raw.AddEdge(&graph.Edge{ID: "e1", From: "CE:SS1/VL1/Bay1/QA1", To: "CN:SS1/VL1/Bay1/BUS1", Kind: graph.EdgeCEtoCN})
	raw.AddEdge(&graph.Edge{ID: "e2", From: "CE:SS1/VL1/Bay1/QA1", To: "CN:SS1/VL1/Bay1/C2", Kind: graph.EdgeCEtoCN})

	condensed := graph.New()
	condensed.AddNode(busNode("BUS:SS1/VL1/cluster#1", "SS1", "VL1"))
	condensed.AddNode(&graph.Node{ID: "CE:SS1/VL1/Bay1/QA1", Kind: graph.NodeEquipment, EquipmentKind: model.KindDS, SS: "SS1", VL: "VL1"})
	condensed.AddEdge(&graph.Edge{ID: "ce1", From: "CE:SS1/VL1/Bay1/QA1", To: "BUS:SS1/VL1/cluster#1", Kind: graph.EdgeEquipToBus})

	clustering := &cluster.Clustering{
		CNToCluster: map[string]*cluster.BusCluster{
			"CN:SS1/VL1/Bay1/BUS1": {SS: "SS1", VL: "VL1", BusNodeID: "BUS:SS1/VL1/cluster#1"},
		},
		BusNodes: map[string]*graph.Node{
			"BUS:SS1/VL1/cluster#1": {ID: "BUS:SS1/VL1/cluster#1", SS: "SS1", VL: "VL1"},
		},
	}

	fw := NewFeederWalker(config.FeederConfig{MaxDepth: 16})
	feeders := fw.Walk(raw, condensed, clustering)

	if len(feeders) != 1 {
		t.Fatalf("expected 1 feeder, got %d: %+v", len(feeders), feeders)
	}
	if len(feeders[0].Chain) != 1 {
		t.Errorf("dead-end feeder should be a single-element chain, got %v", feeders[0].Chain)
	}
	if feeders[0].EndpointType != "Unknown" {
		t.Errorf("dead-end feeder endpoint type = %q, expected Unknown", feeders[0].EndpointType)
	}
}
