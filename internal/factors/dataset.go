package factors

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/greenledger/pcfcalc/internal/emissions"
	"github.com/greenledger/pcfcalc/internal/logging"
)

// SupportedDatasetVersion is the dataset schema version written by this build.
// Files with the same major version are accepted.
const SupportedDatasetVersion = "1.0.0"

// Dataset is the on-disk form of a reference data bundle.
//
//	version: 1.0.0
//	materials:
//	  - {id: m1, name: Aluminum alloy, factor: 6.7, unit1: kgCO2e, unit2: kg}
//	transport:
//	  - {id: t1, name: Heavy truck (diesel), factor: 0.131, unit: kgCO2e/t-km}
//	electricity:
//	  2024: 0.474
//
// Sections left out of the file keep the built-in defaults.
type Dataset struct {
	Version     string                      `yaml:"version"`
	Materials   []emissions.MaterialFactor  `yaml:"materials,omitempty"`
	Transport   []emissions.TransportFactor `yaml:"transport,omitempty"`
	Electricity map[int]float64             `yaml:"electricity,omitempty"`
}

// ParseDataset decodes and validates a YAML dataset.
func ParseDataset(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parsing dataset YAML: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Validate checks the version gate and every entry.
func (d *Dataset) Validate() error {
	if err := checkDatasetVersion(d.Version); err != nil {
		return err
	}
	for i, m := range d.Materials {
		if m.ID == "" {
			return fmt.Errorf("%w: materials[%d] has no id", ErrInvalidDataset, i)
		}
		if math.IsNaN(m.Factor) || math.IsInf(m.Factor, 0) || m.Factor < 0 {
			return fmt.Errorf("%w: material %q factor %v", ErrInvalidDataset, m.ID, m.Factor)
		}
	}
	for i, v := range d.Transport {
		if v.ID == "" {
			return fmt.Errorf("%w: transport[%d] has no id", ErrInvalidDataset, i)
		}
		if math.IsNaN(v.Factor) || math.IsInf(v.Factor, 0) || v.Factor < 0 {
			return fmt.Errorf("%w: vehicle %q factor %v", ErrInvalidDataset, v.ID, v.Factor)
		}
	}
	for year, f := range d.Electricity {
		if f <= 0 || math.IsInf(f, 0) {
			return fmt.Errorf("%w: electricity factor for %d must be positive, got %v", ErrInvalidDataset, year, f)
		}
	}
	return nil
}

func checkDatasetVersion(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: version is required", ErrUnsupportedDataset)
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("%w: %q is not a semantic version: %w", ErrUnsupportedDataset, raw, err)
	}
	supported := semver.MustParse(SupportedDatasetVersion)
	if v.Major() != supported.Major() {
		return fmt.Errorf("%w: %s (this build reads %d.x)", ErrUnsupportedDataset, v, supported.Major())
	}
	return nil
}

// Apply overlays the dataset on base and returns the resulting set.
func (d *Dataset) Apply(base *Set) *Set {
	out := *base
	out.Version = d.Version
	if len(d.Materials) > 0 {
		out.Materials = emissions.NewMaterialTable(d.Materials)
	}
	if len(d.Transport) > 0 {
		out.Transport = emissions.NewTransportTable(d.Transport)
	}
	if len(d.Electricity) > 0 {
		out.Electricity = ElectricityFactors(d.Electricity)
	}
	return &out
}

// LoadDataset reads a dataset file and overlays it on the built-in defaults.
func LoadDataset(ctx context.Context, path string) (*Set, error) {
	log := logging.FromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	ds, err := ParseDataset(data)
	if err != nil {
		return nil, fmt.Errorf("loading dataset %s: %w", path, err)
	}

	log.Debug().Ctx(ctx).
		Str("component", "factors").
		Str("operation", "load_dataset").
		Str("path", path).
		Str("version", ds.Version).
		Int("materials", len(ds.Materials)).
		Int("vehicles", len(ds.Transport)).
		Int("years", len(ds.Electricity)).
		Msg("dataset loaded")

	return ds.Apply(Defaults()), nil
}

// MarshalDefaults renders the built-in reference data as a dataset file.
func MarshalDefaults() ([]byte, error) {
	ds := Dataset{
		Version:     SupportedDatasetVersion,
		Materials:   DefaultMaterials(),
		Transport:   DefaultTransport(),
		Electricity: DefaultElectricityFactors(),
	}
	return yaml.Marshal(&ds)
}
