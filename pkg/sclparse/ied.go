package sclparse

import (
	"sclsld/pkg/model"
	"sclsld/pkg/sclxml"
)

func (p *Parser) parseIED(x sclxml.IED) (*model.IED, error) {
	ied := &model.IED{
		Name:          x.Name,
		Manufacturer:  x.Manufacturer,
		Type:          x.Type,
		ConfigVersion: x.ConfigVersion,
		Owner:         x.Owner,
	}

	for _, xap := range x.AccessPoints {
		ap := model.AccessPoint{
			Name:    xap.Name,
			Address: buildAddressMap(xap.Address),
		}
		if xap.Server != nil {
			for _, xld := range xap.Server.LDevices {
				ap.LogicalDevices = append(ap.LogicalDevices, parseLogicalDevice(xld))
			}
		}
		ied.AccessPoints = append(ied.AccessPoints, ap)
	}

	for _, xld := range x.LDevices {
		ied.DirectLogicalDevices = append(ied.DirectLogicalDevices, parseLogicalDevice(xld))
	}

	return ied, nil
}

func parseLogicalDevice(x sclxml.LDevice) model.LogicalDevice {
	ld := model.LogicalDevice{Inst: x.Inst}

	for _, xln := range x.LNs {
		ld.LogicalNodes = append(ld.LogicalNodes, model.LogicalNode{
			Prefix:  xln.Prefix,
			LNClass: xln.LNClass,
			Inst:    xln.Inst,
		})
	}

	if x.LN0 != nil {
		ld.LN0 = parseLN0(*x.LN0)
	}

	return ld
}

func parseLN0(x sclxml.LN0) model.LN0Info {
	info := model.LN0Info{}

	for _, xds := range x.DataSets {
		ds := model.DataSet{Name: xds.Name}
		for _, xf := range xds.FCDAs {
			ds.Members = append(ds.Members, model.FCDA{
				LDInst:  xf.LDInst,
				LNClass: xf.LNClass,
				LNInst:  xf.LNInst,
				DOName:  xf.DOName,
				DAName:  xf.DAName,
				FC:      xf.FC,
			})
		}
		info.DataSets = append(info.DataSets, ds)
	}

	for _, xg := range x.GSEControls {
		info.GSEControls = append(info.GSEControls, model.GooseControlMeta{
			Name:        xg.Name,
			DataSetName: xg.DatSet,
			AppID:       xg.AppID,
		})
	}

	for _, xs := range x.SampledValueControls {
		info.SVControls = append(info.SVControls, model.SVControlMeta{
			Name:        xs.Name,
			DataSetName: xs.DatSet,
			AppID:       xs.AppID,
			SampleRate:  xs.SmpRate,
		})
	}

	return info
}

func buildAddressMap(addr *sclxml.Address) map[string]string {
	m := make(map[string]string)
	if addr == nil {
		return m
	}
	for _, p := range addr.P {
		if p.Type == "" {
			continue
		}
		m[p.Type] = p.Value
	}
	return m
}

func (p *Parser) parseCommunication(x sclxml.Communication) model.Communication {
	comm := model.Communication{}

	for _, xsn := range x.SubNetworks {
		sn := model.SubNetwork{
			Name:  xsn.Name,
			Type:  xsn.Type,
			Props: make(map[string]string),
		}
		for _, prop := range xsn.P {
			if prop.Type == "" {
				continue
			}
			sn.Props[prop.Type] = prop.Value
		}

		for _, xcap := range xsn.ConnectedAPs {
			connAP := model.ConnectedAP{
				IEDName: xcap.IEDName,
				APName:  xcap.APName,
				Address: buildAddressMap(xcap.Address),
			}
			for _, xgse := range xcap.GSEs {
				connAP.GSEMappings = append(connAP.GSEMappings, model.GooseMapping{
					LDInst:  xgse.LDInst,
					CBName:  xgse.CBName,
					Address: buildAddressMap(xgse.Address),
				})
			}
			for _, xsmv := range xcap.SMVs {
				connAP.SVMappings = append(connAP.SVMappings, model.SVMapping{
					LDInst:  xsmv.LDInst,
					CBName:  xsmv.CBName,
					Address: buildAddressMap(xsmv.Address),
				})
			}
			sn.ConnectedAPs = append(sn.ConnectedAPs, connAP)
		}

		comm.SubNetworks = append(comm.SubNetworks, sn)
	}

	return comm
}
