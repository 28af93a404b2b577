// Package detect implements the three plan detectors (C8) that read the raw
// and condensed graphs once bus clustering is done: the coupler detector,
// the feeder walker, and the transformer-link detector.
package detect

// BusCoupler is a switching element joining two buses of the same voltage
// level.
type BusCoupler struct {
	Equip     string
	BusA      string
	BusB      string
	IsBreaker bool
	SS        string
	VL        string
}

// TransformerLink records a transformer equipment touching two distinct
// buses.
type TransformerLink struct {
	TransformerID string
	BusA, BusB    string
	SSA, VLA      string
	SSB, VLB      string
}

// Feeder is an outward radial chain of equipment from a bus to an endpoint.
type Feeder struct {
	ID           string
	BusID        string
	SS, VL       string
	Chain        []string // equipment ids, first is bus-adjacent
	EndpointType string   // Unknown, Line, Cable, Transformer
	LaneIndex    int
}
