package index

import (
	"fmt"

	"sclsld/pkg/model"
)

// deriveEndpoints cross-joins every connected access point's GOOSE/SV
// bindings with the referenced logical device's LN0 control blocks, and
// derives one MMS endpoint per connected access point.
func (b *Builder) deriveEndpoints(ix *Index, m *model.Model) {
	iedsByName := make(map[string]*model.IED, len(m.IEDs))
	for _, ied := range m.IEDs {
		iedsByName[ied.Name] = ied
	}

	for _, sn := range m.Communication.SubNetworks {
		for _, conap := range sn.ConnectedAPs {
			ied, ok := iedsByName[conap.IEDName]

			for _, gse := range conap.GSEMappings {
				ep := model.GSEEndpoint{
					IEDName:  conap.IEDName,
					LDInst:   gse.LDInst,
					CBName:   gse.CBName,
					MAC:      gse.Address["MAC-Address"],
					AppID:    gse.Address["APPID"],
					VlanID:   gse.Address["VLAN-ID"],
					VlanPrio: gse.Address["VLAN-PRIORITY"],
				}
				if ok {
					if ld, found := findLogicalDevice(ied, gse.LDInst); found {
						if ctrl, found := findGSEControl(ld, gse.CBName); found {
							ep.DatasetRef = ctrl.DataSetName
						} else {
							ix.Diagnostics = append(ix.Diagnostics, b.diagnostic(
								model.DiagDatasetNotFound, "LN0.GSEControl",
								fmt.Sprintf("Dataset not found for GSE/SMV control %s", gse.CBName), ""))
						}
					} else {
						ix.Diagnostics = append(ix.Diagnostics, b.diagnostic(
							model.DiagLDeviceNotFound, "Communication.GSE", "LDevice not found", gse.LDInst))
					}
				} else {
					ix.Diagnostics = append(ix.Diagnostics, b.diagnostic(
						model.DiagLDeviceNotFound, "Communication.GSE", "LDevice not found", conap.IEDName))
				}
				ix.GSEEndpoints[ep.Key()] = ep
			}

			for _, sv := range conap.SVMappings {
				ep := model.SVEndpoint{
					IEDName:  conap.IEDName,
					LDInst:   sv.LDInst,
					CBName:   sv.CBName,
					MAC:      sv.Address["MAC-Address"],
					AppID:    sv.Address["APPID"],
					VlanID:   sv.Address["VLAN-ID"],
					VlanPrio: sv.Address["VLAN-PRIORITY"],
				}
				if ok {
					if ld, found := findLogicalDevice(ied, sv.LDInst); found {
						if ctrl, found := findSVControl(ld, sv.CBName); found {
							ep.DatasetRef = ctrl.DataSetName
							ep.SampleRate = ctrl.SampleRate
						} else {
							ix.Diagnostics = append(ix.Diagnostics, b.diagnostic(
								model.DiagDatasetNotFound, "LN0.SampledValueControl",
								fmt.Sprintf("Dataset not found for GSE/SMV control %s", sv.CBName), ""))
						}
					} else {
						ix.Diagnostics = append(ix.Diagnostics, b.diagnostic(
							model.DiagLDeviceNotFound, "Communication.SMV", "LDevice not found", sv.LDInst))
					}
				} else {
					ix.Diagnostics = append(ix.Diagnostics, b.diagnostic(
						model.DiagLDeviceNotFound, "Communication.SMV", "LDevice not found", conap.IEDName))
				}
				ix.SVEndpoints[ep.Key()] = ep
			}

			port := conap.Address["Port"]
			if port == "" {
				port = "102"
			}
			mms := model.MMSEndpoint{
				IEDName: conap.IEDName,
				APName:  conap.APName,
				IP:      conap.Address["IP"],
				Port:    port,
			}
			ix.MMSEndpoints[mms.Key()] = mms
		}
	}
}

func (b *Builder) diagnostic(code, location, message, hint string) model.Diagnostic {
	return model.Diagnostic{Code: code, Location: location, Message: message, Hint: hint, RunID: b.RunID}
}

func findLogicalDevice(ied *model.IED, inst string) (*model.LogicalDevice, bool) {
	for i := range ied.DirectLogicalDevices {
		if ied.DirectLogicalDevices[i].Inst == inst {
			return &ied.DirectLogicalDevices[i], true
		}
	}
	for _, ap := range ied.AccessPoints {
		for i := range ap.LogicalDevices {
			if ap.LogicalDevices[i].Inst == inst {
				return &ap.LogicalDevices[i], true
			}
		}
	}
	return nil, false
}

func findGSEControl(ld *model.LogicalDevice, name string) (*model.GooseControlMeta, bool) {
	for i := range ld.LN0.GSEControls {
		if ld.LN0.GSEControls[i].Name == name {
			return &ld.LN0.GSEControls[i], true
		}
	}
	return nil, false
}

func findSVControl(ld *model.LogicalDevice, name string) (*model.SVControlMeta, bool) {
	for i := range ld.LN0.SVControls {
		if ld.LN0.SVControls[i].Name == name {
			return &ld.LN0.SVControls[i], true
		}
	}
	return nil, false
}
