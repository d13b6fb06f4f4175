// Package ingest loads activity documents (contracts, products and labor
// data) from JSON or YAML and converts them into calculation inputs.
//
// Decoding is lenient about numbers: blank, null or non-numeric values read
// as zero so partially filled documents still load. Enumerations are not
// lenient; an unknown manufacturing or labor mode is an error.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of an activity document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	// ErrUnknownFormat is returned for a format name that is neither JSON nor YAML.
	ErrUnknownFormat = errors.New("unknown document format")

	// ErrNoProducts is returned when a document contains no product.
	ErrNoProducts = errors.New("document contains no products")
)

// Document is the decoded form of an activity file. Products may appear
// under contract.products, the top-level products list, or a single
// top-level product; all of them are gathered into one contract.
type Document struct {
	Year     Number       `json:"year"               yaml:"year"`
	Contract *ContractDoc `json:"contract,omitempty" yaml:"contract,omitempty"`
	Products []ProductDoc `json:"products,omitempty" yaml:"products,omitempty"`
	Product  *ProductDoc  `json:"product,omitempty"  yaml:"product,omitempty"`
	Labor    *LaborDoc    `json:"labor,omitempty"    yaml:"labor,omitempty"`
}

// ContractDoc is a contract entry.
type ContractDoc struct {
	ID       ID           `json:"id"       yaml:"id"`
	Name     string       `json:"name"     yaml:"name"`
	Products []ProductDoc `json:"products" yaml:"products"`
}

// ProductDoc is a product entry.
type ProductDoc struct {
	ID                  ID               `json:"id"                  yaml:"id"`
	Name                string           `json:"name"                yaml:"name"`
	Year                Number           `json:"year"                yaml:"year"`
	HasFullData         bool             `json:"hasFullData"         yaml:"hasFullData"`
	TotalOverride       Number           `json:"totalOverride"       yaml:"totalOverride"`
	Materials           []MaterialDoc    `json:"materials"           yaml:"materials"`
	UpstreamTransport   []UpstreamDoc    `json:"upstreamTransport"   yaml:"upstreamTransport"`
	Manufacturing       ManufacturingDoc `json:"manufacturing"       yaml:"manufacturing"`
	DownstreamTransport Legs             `json:"downstreamTransport" yaml:"downstreamTransport"`
}

// MaterialDoc is a material line.
type MaterialDoc struct {
	ID           ID     `json:"id"           yaml:"id"`
	Name         string `json:"name"         yaml:"name"`
	Weight       Number `json:"weight"       yaml:"weight"`
	FactorID     ID     `json:"factorId"     yaml:"factorId"`
	CustomFactor Number `json:"customFactor" yaml:"customFactor"`
	UseDB        bool   `json:"useDb"        yaml:"useDb"`
	CustomUnit   string `json:"customUnit"   yaml:"customUnit,omitempty"`
}

// UpstreamDoc is an upstream transport leg.
type UpstreamDoc struct {
	ID         ID     `json:"id"         yaml:"id"`
	MaterialID ID     `json:"materialId" yaml:"materialId"`
	Weight     Number `json:"weight"     yaml:"weight"`
	Distance   Number `json:"distance"   yaml:"distance"`
	VehicleID  ID     `json:"vehicleId"  yaml:"vehicleId"`
}

// LegDoc is a downstream transport leg.
type LegDoc struct {
	Weight    Number `json:"weight"    yaml:"weight"`
	Distance  Number `json:"distance"  yaml:"distance"`
	VehicleID ID     `json:"vehicleId" yaml:"vehicleId"`
}

// ManufacturingDoc is the manufacturing electricity block. A missing
// totalOutput keeps the default production run size.
type ManufacturingDoc struct {
	Mode              string  `json:"mode"              yaml:"mode"`
	ElectricityUsage  Number  `json:"electricityUsage"  yaml:"electricityUsage"`
	ElectricityFactor Number  `json:"electricityFactor" yaml:"electricityFactor"`
	TotalOutput       *Number `json:"totalOutput"       yaml:"totalOutput"`
}

// LaborDoc is the labor allocation block. An empty mode means mode A.
type LaborDoc struct {
	Mode              string `json:"mode"              yaml:"mode"`
	ContractHours     Number `json:"contractHours"     yaml:"contractHours"`
	TotalCompanyHours Number `json:"totalCompanyHours" yaml:"totalCompanyHours"`
	TotalEmissionsA   Number `json:"totalEmissionsA"   yaml:"totalEmissionsA"`
	ElecUsage         Number `json:"elecUsage"         yaml:"elecUsage"`
	GasolineUsage     Number `json:"gasolineUsage"     yaml:"gasolineUsage"`
	DieselUsage       Number `json:"dieselUsage"       yaml:"dieselUsage"`
	DieselMobileUsage Number `json:"dieselMobileUsage" yaml:"dieselMobileUsage"`
}

// Legs is a list of downstream legs that also accepts a single leg object.
type Legs []LegDoc

// UnmarshalJSON implements json.Unmarshaler.
func (l *Legs) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*l = nil
		return nil
	case b[0] == '{':
		var leg LegDoc
		if err := json.Unmarshal(b, &leg); err != nil {
			return fmt.Errorf("decoding downstream leg: %w", err)
		}
		*l = Legs{leg}
		return nil
	}
	var legs []LegDoc
	if err := json.Unmarshal(b, &legs); err != nil {
		return fmt.Errorf("decoding downstream legs: %w", err)
	}
	*l = legs
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *Legs) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.MappingNode:
		var leg LegDoc
		if err := value.Decode(&leg); err != nil {
			return fmt.Errorf("decoding downstream leg: %w", err)
		}
		*l = Legs{leg}
		return nil
	case yaml.SequenceNode:
		var legs []LegDoc
		if err := value.Decode(&legs); err != nil {
			return fmt.Errorf("decoding downstream legs: %w", err)
		}
		*l = legs
		return nil
	default:
		*l = nil
		return nil
	}
}

// ParseFormat maps a format name or file extension to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// DetectFormat picks a format from the file extension, falling back to the
// first non-blank byte of data when the extension is not recognised.
func DetectFormat(path string, data []byte) Format {
	if f, err := ParseFormat(filepath.Ext(path)); err == nil {
		return f
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// ParseDocument decodes data in the given format.
func ParseDocument(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing activity JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing activity YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return &doc, nil
}
