// Package sclparse implements the SCL Parser: it maps a pkg/sclxml DOM tree
// onto the pkg/model domain model, resolving transformer winding terminals
// to (substation, voltage level, bay, connectivity node) tuples as it goes.
package sclparse

import (
	"strconv"
	"strings"

	"sclsld/pkg/errs"
	"sclsld/pkg/model"
	"sclsld/pkg/sclxml"
)

// Parser maps sclxml structs onto the domain model.
type Parser struct{}

// NewParser creates a new SCL parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse walks the DOM starting at the SCL root and produces a domain model.
// Structural failures (missing mandatory name attributes) are fatal;
// numeric parse failures for voltage values default silently to 0 with the
// field otherwise populated.
func (p *Parser) Parse(doc *sclxml.SCL) (*model.Model, error) {
	if doc == nil {
		return nil, errs.New(errs.XMLParseError, "missing <SCL> root")
	}

	m := &model.Model{
		Version:  doc.Version,
		Revision: doc.Revision,
	}

	for _, xss := range doc.Substations {
		ss, err := p.parseSubstation(xss)
		if err != nil {
			return nil, err
		}
		m.Substations = append(m.Substations, ss)
	}

	for _, xied := range doc.IEDs {
		ied, err := p.parseIED(xied)
		if err != nil {
			return nil, err
		}
		m.IEDs = append(m.IEDs, ied)
	}

	m.Communication = p.parseCommunication(doc.Communication)

	return m, nil
}

func (p *Parser) parseSubstation(x sclxml.Substation) (*model.Substation, error) {
	if x.Name == "" {
		return nil, errs.New(errs.MissingMandatoryField, "Substation is missing required name attribute")
	}

	ss := &model.Substation{
		Name:      x.Name,
		Desc:      x.Desc,
		LNodeRefs: parseLNodeRefs(x.LNodes),
	}

	for _, xvl := range x.VoltageLevels {
		vl, err := p.parseVoltageLevel(xvl)
		if err != nil {
			return nil, err
		}
		ss.VoltageLevels = append(ss.VoltageLevels, vl)
	}

	for _, xpt := range x.PowerTransformers {
		ss.PowerTransformers = append(ss.PowerTransformers, p.parsePowerTransformer(xpt, ss.Name))
	}

	return ss, nil
}

func (p *Parser) parseVoltageLevel(x sclxml.VoltageLevel) (*model.VoltageLevel, error) {
	if x.Name == "" {
		return nil, errs.New(errs.MissingMandatoryField, "VoltageLevel is missing required name attribute")
	}

	vl := &model.VoltageLevel{
		Name:        x.Name,
		NominalFreq: parseFloatLenient(x.NomFreq),
		LNodeRefs:   parseLNodeRefs(x.LNodes),
	}

	if x.Voltage != nil {
		vl.Voltage = &model.Scalar{
			Value:      parseFloatLenient(x.Voltage.Val.Text),
			Unit:       x.Voltage.Val.Unit,
			Multiplier: model.Multiplier(x.Voltage.Val.Multiplier),
		}
	}

	for _, xbay := range x.Bays {
		bay, err := p.parseBay(xbay)
		if err != nil {
			return nil, err
		}
		vl.Bays = append(vl.Bays, bay)
	}

	return vl, nil
}

func (p *Parser) parseBay(x sclxml.Bay) (*model.Bay, error) {
	if x.Name == "" {
		return nil, errs.New(errs.MissingMandatoryField, "Bay is missing required name attribute")
	}

	bay := &model.Bay{
		Name:      x.Name,
		LNodeRefs: parseLNodeRefs(x.LNodes),
	}

	for _, xcn := range x.ConnectivityNodes {
		bay.ConnectivityNodes = append(bay.ConnectivityNodes, &model.ConnectivityNode{
			Name:     xcn.Name,
			PathName: xcn.PathName,
		})
	}

	for _, xce := range x.ConductingEquipments {
		if xce.Name == "" {
			return nil, errs.New(errs.MissingMandatoryField, "ConductingEquipment is missing required name attribute")
		}

		ce := &model.ConductingEquipment{
			Name:      xce.Name,
			Type:      xce.Type,
			LNodeRefs: parseLNodeRefs(xce.LNodes),
		}
		for _, xt := range xce.Terminals {
			ce.Terminals = append(ce.Terminals, model.Terminal{
				Name:      xt.Name,
				CNodeRef:  xt.ConnectivityNode,
				CNodeName: xt.CNodeName,
			})
		}
		bay.Equipments = append(bay.Equipments, ce)
	}

	return bay, nil
}

func (p *Parser) parsePowerTransformer(x sclxml.PowerTransformer, enclosingSS string) *model.PowerTransformer {
	pt := &model.PowerTransformer{
		Name: x.Name,
		Desc: x.Desc,
		Type: x.Type,
	}

	for _, xw := range x.Windings {
		w := model.TransformerWinding{
			Name: xw.Name,
			Type: xw.Type,
		}
		if xw.TapChanger != nil {
			w.TapChanger = &model.TapChangerInfo{Name: xw.TapChanger.Name, Type: xw.TapChanger.Type}
		}

		for _, xt := range xw.Terminals {
			wt := model.TransformerWindingTerminal{
				Name:             xt.Name,
				CNodeName:        xt.CNodeName,
				ConnectivityPath: xt.ConnectivityPath,
				SubstationName:   xt.SubstationName,
			}
			w.Terminals = append(w.Terminals, wt)
			w.ResolvedEnds = append(w.ResolvedEnds, resolveWindingEnd(wt, enclosingSS))
		}

		pt.Windings = append(pt.Windings, w)
	}

	return pt
}

// resolveWindingEnd computes a winding terminal's resolved end per §4.2: if
// connectivity-path is non-empty, the last three path segments become
// (vl, bay, cn); otherwise cn is the local c-node-name and vl/bay stay
// empty. Substation comes from the terminal's own substation-name if set,
// else the enclosing substation.
func resolveWindingEnd(t model.TransformerWindingTerminal, enclosingSS string) model.ResolvedEnd {
	end := model.ResolvedEnd{SS: enclosingSS}
	if t.SubstationName != "" {
		end.SS = t.SubstationName
	}

	if t.ConnectivityPath != "" {
		segments := strings.Split(t.ConnectivityPath, "/")
		if len(segments) >= 3 {
			n := len(segments)
			end.VL = segments[n-3]
			end.Bay = segments[n-2]
			end.CN = segments[n-1]
		}
		return end
	}

	end.CN = t.CNodeName
	return end
}

func parseLNodeRefs(xs []sclxml.LNode) []model.LNodeRef {
	var refs []model.LNodeRef
	for _, x := range xs {
		refs = append(refs, model.LNodeRef{
			IEDName: x.IEDName,
			LDInst:  x.LDInst,
			Prefix:  x.Prefix,
			LNClass: x.LNClass,
			LNInst:  x.LNInst,
		})
	}
	return refs
}

func parseFloatLenient(raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}
