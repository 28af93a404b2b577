package engine

import (
	"encoding/json"

	"sclsld/pkg/errs"
	"sclsld/pkg/index"
	"sclsld/pkg/model"
)

// DumpModel returns the hierarchical substations + communication debug
// dump described in spec.md §6: the domain model's full structure, with an
// "endpoint" sub-object attached to every GOOSE/SV mapping carrying the
// derived mac/app-id/vlan/vlan-prio/(sample-rate)/dataset-ref when the
// index resolved one.
func (s *Session) DumpModel() (string, error) {
	if s.model == nil {
		return "", errs.New(errs.LogicError, "model not available in state "+string(s.state))
	}

	dump := map[string]interface{}{
		"substations":   dumpSubstations(s.model.Substations),
		"ieds":          dumpIEDs(s.model.IEDs),
		"communication": dumpCommunication(s.model.Communication, s.ix),
	}

	out, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func dumpSubstations(substations []*model.Substation) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(substations))
	for _, ss := range substations {
		out = append(out, map[string]interface{}{
			"name":              ss.Name,
			"desc":              ss.Desc,
			"voltageLevels":     dumpVoltageLevels(ss.VoltageLevels),
			"powerTransformers": dumpPowerTransformers(ss.PowerTransformers),
		})
	}
	return out
}

func dumpVoltageLevels(vls []*model.VoltageLevel) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(vls))
	for _, vl := range vls {
		out = append(out, map[string]interface{}{
			"name":        vl.Name,
			"nominalFreq": vl.NominalFreq,
			"voltage":     vl.Voltage,
			"bays":        dumpBays(vl.Bays),
		})
	}
	return out
}

func dumpBays(bays []*model.Bay) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(bays))
	for _, bay := range bays {
		var cns []string
		for _, cn := range bay.ConnectivityNodes {
			cns = append(cns, cn.Name)
		}
		out = append(out, map[string]interface{}{
			"name":               bay.Name,
			"connectivityNodes":  cns,
			"equipment":          dumpEquipment(bay.Equipments),
		})
	}
	return out
}

func dumpEquipment(equipments []*model.ConductingEquipment) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(equipments))
	for _, ce := range equipments {
		var terminals []map[string]interface{}
		for _, t := range ce.Terminals {
			terminals = append(terminals, map[string]interface{}{
				"name":      t.Name,
				"cNodeRef":  t.CNodeRef,
				"cNodeName": t.CNodeName,
			})
		}
		out = append(out, map[string]interface{}{
			"name":      ce.Name,
			"type":      ce.Type,
			"terminals": terminals,
		})
	}
	return out
}

func dumpPowerTransformers(pts []*model.PowerTransformer) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(pts))
	for _, pt := range pts {
		var windings []map[string]interface{}
		for _, w := range pt.Windings {
			windings = append(windings, map[string]interface{}{
				"name":       w.Name,
				"type":       w.Type,
				"tapChanger": w.TapChanger != nil,
			})
		}
		out = append(out, map[string]interface{}{
			"name":     pt.Name,
			"desc":     pt.Desc,
			"type":     pt.Type,
			"windings": windings,
		})
	}
	return out
}

func dumpIEDs(ieds []*model.IED) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(ieds))
	for _, ied := range ieds {
		out = append(out, map[string]interface{}{
			"name":          ied.Name,
			"manufacturer":  ied.Manufacturer,
			"type":          ied.Type,
			"configVersion": ied.ConfigVersion,
		})
	}
	return out
}

func dumpCommunication(comm model.Communication, ix *index.Index) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(comm.SubNetworks))
	for _, sn := range comm.SubNetworks {
		var conaps []map[string]interface{}
		for _, conap := range sn.ConnectedAPs {
			var gseOut []map[string]interface{}
			for _, gse := range conap.GSEMappings {
				entry := map[string]interface{}{
					"ldInst": gse.LDInst,
					"cbName": gse.CBName,
				}
				key := conap.IEDName + "|" + gse.LDInst + "|" + gse.CBName
				if ix != nil {
					if ep, ok := ix.GSEEndpoints[key]; ok {
						entry["endpoint"] = dumpGSEEndpoint(ep)
					}
				}
				gseOut = append(gseOut, entry)
			}

			var svOut []map[string]interface{}
			for _, sv := range conap.SVMappings {
				entry := map[string]interface{}{
					"ldInst": sv.LDInst,
					"cbName": sv.CBName,
				}
				key := conap.IEDName + "|" + sv.LDInst + "|" + sv.CBName
				if ix != nil {
					if ep, ok := ix.SVEndpoints[key]; ok {
						entry["endpoint"] = dumpSVEndpoint(ep)
					}
				}
				svOut = append(svOut, entry)
			}

			conaps = append(conaps, map[string]interface{}{
				"iedName": conap.IEDName,
				"apName":  conap.APName,
				"gse":     gseOut,
				"smv":     svOut,
			})
		}
		out = append(out, map[string]interface{}{
			"name":         sn.Name,
			"type":         sn.Type,
			"connectedAPs": conaps,
		})
	}
	return out
}

func dumpGSEEndpoint(ep model.GSEEndpoint) map[string]interface{} {
	return map[string]interface{}{
		"mac":        ep.MAC,
		"appId":      ep.AppID,
		"vlanId":     ep.VlanID,
		"vlanPrio":   ep.VlanPrio,
		"datasetRef": ep.DatasetRef,
	}
}

func dumpSVEndpoint(ep model.SVEndpoint) map[string]interface{} {
	return map[string]interface{}{
		"mac":        ep.MAC,
		"appId":      ep.AppID,
		"vlanId":     ep.VlanID,
		"vlanPrio":   ep.VlanPrio,
		"sampleRate": ep.SampleRate,
		"datasetRef": ep.DatasetRef,
	}
}
