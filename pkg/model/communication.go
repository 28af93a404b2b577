package model

// GooseMapping is a connected access point's GOOSE control-block binding.
type GooseMapping struct {
	LDInst  string
	CBName  string
	Address map[string]string
}

// SVMapping is a connected access point's Sampled-Values control-block
// binding. Shape mirrors GooseMapping.
type SVMapping struct {
	LDInst  string
	CBName  string
	Address map[string]string
}

// ConnectedAP binds an IED's access point onto a sub-network, carrying its
// own address plus any GOOSE/SV bindings.
type ConnectedAP struct {
	IEDName     string
	APName      string
	Address     map[string]string
	GSEMappings []GooseMapping
	SVMappings  []SVMapping
}

// SubNetwork is a communication sub-network grouping connected access
// points.
type SubNetwork struct {
	Name         string
	Type         string
	Props        map[string]string
	ConnectedAPs []ConnectedAP
}

// Communication is the SCL document's communication section.
type Communication struct {
	SubNetworks []SubNetwork
}
