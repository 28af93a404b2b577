package sclxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"sclsld/pkg/errs"
)

// Reader loads an SCL document from a filesystem path or an in-memory
// buffer. It performs no semantic validation beyond well-formed XML — it
// hands back a DOM-shaped struct tree for pkg/sclparse to interpret.
type Reader struct{}

// NewReader creates a new XML reader.
func NewReader() *Reader {
	return &Reader{}
}

// LoadPath reads and parses the SCL document at path.
func (r *Reader) LoadPath(path string) (*SCL, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(err, errs.FileNotFound, "SCL file not found").WithContext("path", path)
		}
		return nil, errs.Wrap(err, errs.FileNotFound, "failed to read SCL file").WithContext("path", path)
	}
	return r.LoadBuffer(data)
}

// LoadBuffer parses the SCL document from an in-memory buffer.
func (r *Reader) LoadBuffer(data []byte) (*SCL, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var doc SCL
	if err := decoder.Decode(&doc); err != nil {
		offset := decoder.InputOffset()
		if err == io.EOF {
			return nil, errs.New(errs.XMLParseError, "empty XML document").WithContext("offset", offset)
		}
		return nil, errs.Wrap(err, errs.XMLParseError, fmt.Sprintf("XML parse error: %v", err)).WithContext("offset", offset)
	}

	return &doc, nil
}
