package sclxml

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleSCL = `<?xml version="1.0" encoding="UTF-8"?>
<SCL version="2007" revision="B">
  <Substation name="SS1" desc="test substation">
    <VoltageLevel name="VL1" nomFreq="50">
      <Voltage multiplier="k" unit="V">110</Voltage>
      <Bay name="Bay1">
        <ConnectivityNode name="L1" pathName="SS1/VL1/Bay1/L1"/>
        <ConductingEquipment name="QA1" type="CBR">
          <Terminal name="T1" cNodeName="L1"/>
        </ConductingEquipment>
      </Bay>
    </VoltageLevel>
  </Substation>
</SCL>`

func TestLoadBufferParsesSubstationTopology(t *testing.T) {
	doc, err := NewReader().LoadBuffer([]byte(sampleSCL))
	if err != nil {
		t.Fatalf("LoadBuffer failed: %v", err)
	}

	if doc.Version != "2007" {
		t.Errorf("Version = %q, expected 2007", doc.Version)
	}
	if len(doc.Substations) != 1 || doc.Substations[0].Name != "SS1" {
		t.Fatalf("expected one substation named SS1, got %+v", doc.Substations)
	}

	vl := doc.Substations[0].VoltageLevels[0]
	if vl.Name != "VL1" || vl.Voltage == nil || vl.Voltage.Val.Text != "110" {
		t.Errorf("voltage level not parsed correctly: %+v", vl)
	}

	bay := vl.Bays[0]
	if len(bay.ConductingEquipments) != 1 || bay.ConductingEquipments[0].Terminals[0].CNodeName != "L1" {
		t.Errorf("bay equipment/terminal not parsed correctly: %+v", bay)
	}
}

func TestLoadPathMissingFileReturnsError(t *testing.T) {
	_, err := NewReader().LoadPath(filepath.Join(t.TempDir(), "does-not-exist.scd"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadBufferEmptyDocumentReturnsError(t *testing.T) {
	_, err := NewReader().LoadBuffer([]byte(""))
	if err == nil {
		t.Fatal("expected an error for an empty document")
	}
}

func TestLoadPathReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.scd")
	if err := os.WriteFile(path, []byte(sampleSCL), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	doc, err := NewReader().LoadPath(path)
	if err != nil {
		t.Fatalf("LoadPath failed: %v", err)
	}
	if len(doc.Substations) != 1 {
		t.Errorf("expected 1 substation from disk-loaded file, got %d", len(doc.Substations))
	}
}
