package index

import (
	"fmt"
	"strings"

	"sclsld/pkg/model"
)

// CNRecord is a declared connectivity node located within its owning
// substation/voltage-level/bay.
type CNRecord struct {
	SS, VL, Bay string
	FullPath    string
	LogicalKey  string
	Node        *model.ConnectivityNode
}

// Index holds every cross-reference table built from a parsed model.
type Index struct {
	Interner *Interner

	IEDByName map[string]*model.IED

	// CNByFullPath resolves absolute-path references (priority 1 lookups).
	CNByFullPath map[string]*CNRecord
	// CNByLogicalKey resolves "<ss>:<vl>:<bay>:<name>" regardless of the
	// pathName attribute's exact formatting.
	CNByLogicalKey map[string]*CNRecord
	// CNBySuffix maps a CN's local name to every full path ending in it, for
	// disambiguation during fallback resolution.
	CNBySuffix map[string][]string
	// CNByNameInVL resolves (ss, vl, name) for priority-2 local-name lookups.
	CNByNameInVL map[string]*CNRecord

	PrimaryToLogicalNode    map[string][]model.LNodeRef
	LogicalNodeKeyToPrimary map[string]string

	GSEEndpoints map[string]model.GSEEndpoint
	SVEndpoints  map[string]model.SVEndpoint
	MMSEndpoints map[string]model.MMSEndpoint

	Diagnostics []model.Diagnostic
}

func newIndex() *Index {
	return &Index{
		Interner:                NewInterner(),
		IEDByName:               make(map[string]*model.IED),
		CNByFullPath:            make(map[string]*CNRecord),
		CNByLogicalKey:          make(map[string]*CNRecord),
		CNBySuffix:              make(map[string][]string),
		CNByNameInVL:            make(map[string]*CNRecord),
		PrimaryToLogicalNode:    make(map[string][]model.LNodeRef),
		LogicalNodeKeyToPrimary: make(map[string]string),
		GSEEndpoints:            make(map[string]model.GSEEndpoint),
		SVEndpoints:             make(map[string]model.SVEndpoint),
		MMSEndpoints:            make(map[string]model.MMSEndpoint),
	}
}

// Builder builds an Index from a parsed Model.
type Builder struct {
	RunID string
}

// NewBuilder creates a new index builder, tagging every diagnostic it
// accumulates with runID for cross-log correlation.
func NewBuilder(runID string) *Builder {
	return &Builder{RunID: runID}
}

// Build walks m and produces the full set of cross-reference indexes plus
// derived communication endpoints.
func (b *Builder) Build(m *model.Model) *Index {
	ix := newIndex()

	for _, ss := range m.Substations {
		ssName := ix.Interner.Intern(ss.Name)
		ix.PrimaryToLogicalNode[ssID(ssName)] = ss.LNodeRefs
		b.indexLogicalNodeRefs(ix, ssID(ssName), ss.LNodeRefs)

		for _, vl := range ss.VoltageLevels {
			vlName := ix.Interner.Intern(vl.Name)
			ix.PrimaryToLogicalNode[vlID(ssName, vlName)] = vl.LNodeRefs
			b.indexLogicalNodeRefs(ix, vlID(ssName, vlName), vl.LNodeRefs)

			for _, bay := range vl.Bays {
				bayName := ix.Interner.Intern(bay.Name)
				ix.PrimaryToLogicalNode[bayID(ssName, vlName, bayName)] = bay.LNodeRefs
				b.indexLogicalNodeRefs(ix, bayID(ssName, vlName, bayName), bay.LNodeRefs)

				for _, cn := range bay.ConnectivityNodes {
					b.indexConnectivityNode(ix, ssName, vlName, bayName, cn)
				}

				for _, ce := range bay.Equipments {
					ceName := ix.Interner.Intern(ce.Name)
					id := ceID(ssName, vlName, bayName, ceName)
					ix.PrimaryToLogicalNode[id] = ce.LNodeRefs
					b.indexLogicalNodeRefs(ix, id, ce.LNodeRefs)
				}
			}
		}
	}

	for _, ied := range m.IEDs {
		ix.IEDByName[ied.Name] = ied
	}

	b.deriveEndpoints(ix, m)

	return ix
}

func (b *Builder) indexConnectivityNode(ix *Index, ss, vl, bay string, cn *model.ConnectivityNode) {
	fullPath := cn.PathName
	if fullPath == "" {
		fullPath = fmt.Sprintf("%s/%s/%s/%s", ss, vl, bay, cn.Name)
	}
	logicalKey := fmt.Sprintf("%s:%s:%s:%s", ss, vl, bay, cn.Name)

	rec := &CNRecord{SS: ss, VL: vl, Bay: bay, FullPath: fullPath, LogicalKey: logicalKey, Node: cn}

	ix.CNByFullPath[fullPath] = rec
	ix.CNByLogicalKey[logicalKey] = rec
	ix.CNByNameInVL[NameInVLKey(ss, vl, cn.Name)] = rec

	suffix := SuffixOf(fullPath)
	ix.CNBySuffix[suffix] = append(ix.CNBySuffix[suffix], fullPath)
}

func (b *Builder) indexLogicalNodeRefs(ix *Index, primaryID string, refs []model.LNodeRef) {
	for _, ref := range refs {
		key := fmt.Sprintf("%s|%s|%s|%s|%s", ref.IEDName, ref.LDInst, ref.Prefix, ref.LNClass, ref.LNInst)
		ix.LogicalNodeKeyToPrimary[key] = primaryID
	}
}

// SuffixOf returns the last "/"-delimited segment of a full CN path.
func SuffixOf(fullPath string) string {
	segments := strings.Split(fullPath, "/")
	return segments[len(segments)-1]
}

// Matches implements the CN-match relation: two full paths refer to the
// same connectivity node if they are byte-equal, their suffixes are equal,
// or they resolve to the same logical key.
func (ix *Index) Matches(a, b string) bool {
	if a == b {
		return true
	}
	if SuffixOf(a) == SuffixOf(b) {
		return true
	}
	recA, okA := ix.CNByFullPath[a]
	recB, okB := ix.CNByFullPath[b]
	if okA && okB && recA.LogicalKey == recB.LogicalKey {
		return true
	}
	return false
}

func ssID(ss string) string               { return fmt.Sprintf("SS:%s", ss) }
func vlID(ss, vl string) string           { return fmt.Sprintf("VL:%s/%s", ss, vl) }
func bayID(ss, vl, bay string) string     { return fmt.Sprintf("BAY:%s/%s/%s", ss, vl, bay) }
func ceID(ss, vl, bay, name string) string { return fmt.Sprintf("CE:%s/%s/%s/%s", ss, vl, bay, name) }

// NameInVLKey is the (ss, vl, local-name) lookup key used to resolve
// priority-2 terminal references (only a local c-node-name present).
func NameInVLKey(ss, vl, name string) string { return fmt.Sprintf("%s/%s/%s", ss, vl, name) }
