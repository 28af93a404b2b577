package cluster

import (
	"testing"

	"sclsld/pkg/config"
	"sclsld/pkg/graph"
)

func TestCondenseRewritesCEtoCNIntoEquipToBus(t *testing.T) {
	raw := buildTestGraph()
	clustering, _ := NewClusterer(config.ClusterConfig{BusDegreeThreshold: 3, BusNameHints: []string{"BUS"}}).Build(raw)

	condensed := Condense(raw, clustering)

	for _, id := range []string{"CE:SS1/VL1/Bay1/QB1", "CE:SS1/VL1/Bay1/QS1"} {
		if _, ok := condensed.Nodes[id]; !ok {
			t.Errorf("equipment node %q missing from condensed graph", id)
		}
	}

	for _, e := range condensed.Edges {
		if e.Kind != graph.EdgeEquipToBus {
			t.Errorf("condensed edge %q has kind %v, expected Equip_to_Bus", e.ID, e.Kind)
		}
		if _, ok := condensed.Nodes[e.To]; !ok {
			t.Errorf("condensed edge %q points to missing bus node %q", e.ID, e.To)
		}
	}

	if len(condensed.Edges) == 0 {
		t.Fatal("condensed graph has no edges")
	}
}

func TestCondenseDedupesParallelTerminalsOntoSameBus(t *testing.T) {
	raw := graph.New()
	raw.AddNode(&graph.Node{ID: "CN:SS1/VL1/Bay1/BUS1", Kind: graph.NodeConnectivityNode, SS: "SS1", VL: "VL1"})
	raw.AddNode(&graph.Node{ID: "CE:SS1/VL1/Bay1/QA1", Kind: graph.NodeEquipment})
	raw.AddEdge(&graph.Edge{ID: "e1", From: "CE:SS1/VL1/Bay1/QA1", To: "CN:SS1/VL1/Bay1/BUS1", Kind: graph.EdgeCEtoCN, TerminalName: "T1"})
	raw.AddEdge(&graph.Edge{ID: "e2", From: "CE:SS1/VL1/Bay1/QA1", To: "CN:SS1/VL1/Bay1/BUS1", Kind: graph.EdgeCEtoCN, TerminalName: "T1"})

	clustering := &Clustering{
		CNToCluster: map[string]*BusCluster{
			"CN:SS1/VL1/Bay1/BUS1": {SS: "SS1", VL: "VL1", BusNodeID: "BUS:SS1/VL1/cluster#1"},
		},
		BusNodes: map[string]*graph.Node{
			"BUS:SS1/VL1/cluster#1": {ID: "BUS:SS1/VL1/cluster#1", Kind: graph.NodeBus, SS: "SS1", VL: "VL1"},
		},
	}

	condensed := Condense(raw, clustering)
	if len(condensed.Edges) != 1 {
		t.Errorf("expected deduplication to a single edge, got %d: %+v", len(condensed.Edges), condensed.Edges)
	}
}
