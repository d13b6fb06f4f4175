package ingest

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/greenledger/pcfcalc/internal/emissions"
	"github.com/greenledger/pcfcalc/internal/logging"
)

// Activity is a fully decoded, calculation-ready activity document.
type Activity struct {
	// Year is the document-level reporting year; zero when unset.
	Year     int
	Contract emissions.Contract
	// Labor is nil when the document has no labor block.
	Labor *emissions.LaborInputs
}

// Activity converts the document into calculation inputs. Products without
// a year take the document year, then emissions.DefaultYear. Missing product
// ids are numbered p1, p2, ... in document order.
func (d *Document) Activity() (*Activity, error) {
	act := &Activity{Year: int(d.Year.Float())}

	var docs []ProductDoc
	if d.Contract != nil {
		act.Contract.ID = d.Contract.ID.String()
		act.Contract.Name = d.Contract.Name
		docs = append(docs, d.Contract.Products...)
	}
	docs = append(docs, d.Products...)
	if d.Product != nil {
		docs = append(docs, *d.Product)
	}
	if len(docs) == 0 {
		return nil, ErrNoProducts
	}

	act.Contract.Products = make([]emissions.Product, 0, len(docs))
	for i := range docs {
		p, err := docs[i].product(i, act.Year)
		if err != nil {
			return nil, err
		}
		act.Contract.Products = append(act.Contract.Products, p)
	}

	if d.Labor != nil {
		labor, err := d.Labor.inputs()
		if err != nil {
			return nil, err
		}
		act.Labor = &labor
	}
	return act, nil
}

func (pd *ProductDoc) product(index, docYear int) (emissions.Product, error) {
	id := pd.ID.String()
	if id == "" {
		id = "p" + strconv.Itoa(index+1)
	}
	year := int(pd.Year.Float())
	if year == 0 {
		year = docYear
	}

	mode := emissions.ManufacturingPerUnit
	if m := strings.TrimSpace(pd.Manufacturing.Mode); m != "" {
		parsed, err := emissions.ParseManufacturingMode(m)
		if err != nil {
			return emissions.Product{}, fmt.Errorf("product %s: %w", id, err)
		}
		mode = parsed
	}
	totalOutput := emissions.DefaultTotalOutput
	if pd.Manufacturing.TotalOutput != nil {
		totalOutput = pd.Manufacturing.TotalOutput.Float()
	}

	p := emissions.NewProduct(id, pd.Name, year)
	p.HasFullData = pd.HasFullData
	p.TotalOverride = pd.TotalOverride.Float()
	p.Manufacturing = emissions.ManufacturingConfig{
		Mode:              mode,
		ElectricityUsage:  pd.Manufacturing.ElectricityUsage.Float(),
		ElectricityFactor: pd.Manufacturing.ElectricityFactor.Float(),
		TotalOutput:       totalOutput,
	}

	for j, m := range pd.Materials {
		mid := m.ID.String()
		if mid == "" {
			mid = id + "-m" + strconv.Itoa(j+1)
		}
		p.Materials = append(p.Materials, emissions.MaterialItem{
			ID:           mid,
			Name:         m.Name,
			Weight:       m.Weight.Float(),
			FactorID:     m.FactorID.String(),
			CustomFactor: m.CustomFactor.Float(),
			UseDB:        m.UseDB,
			CustomUnit:   m.CustomUnit,
		})
	}
	for j, u := range pd.UpstreamTransport {
		uid := u.ID.String()
		if uid == "" {
			uid = id + "-u" + strconv.Itoa(j+1)
		}
		p.UpstreamTransport = append(p.UpstreamTransport, emissions.UpstreamTransport{
			ID:         uid,
			MaterialID: u.MaterialID.String(),
			Weight:     u.Weight.Float(),
			Distance:   u.Distance.Float(),
			VehicleID:  u.VehicleID.String(),
		})
	}

	p.DownstreamTransport = make([]emissions.TransportLeg, 0, len(pd.DownstreamTransport))
	for _, l := range pd.DownstreamTransport {
		p.DownstreamTransport = append(p.DownstreamTransport, emissions.TransportLeg{
			Weight:    l.Weight.Float(),
			Distance:  l.Distance.Float(),
			VehicleID: l.VehicleID.String(),
		})
	}
	return p, nil
}

func (ld *LaborDoc) inputs() (emissions.LaborInputs, error) {
	mode := emissions.LaborModeDirect
	if m := strings.ToUpper(strings.TrimSpace(ld.Mode)); m != "" {
		parsed, err := emissions.ParseLaborMode(m)
		if err != nil {
			return emissions.LaborInputs{}, fmt.Errorf("labor: %w", err)
		}
		mode = parsed
	}
	return emissions.LaborInputs{
		Mode:              mode,
		ContractHours:     ld.ContractHours.Float(),
		TotalCompanyHours: ld.TotalCompanyHours.Float(),
		TotalEmissionsA:   ld.TotalEmissionsA.Float(),
		ElecUsage:         ld.ElecUsage.Float(),
		GasolineUsage:     ld.GasolineUsage.Float(),
		DieselUsage:       ld.DieselUsage.Float(),
		DieselMobileUsage: ld.DieselMobileUsage.Float(),
	}, nil
}

// Parse decodes data and converts it into an Activity.
func Parse(ctx context.Context, data []byte, format Format) (*Activity, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Ctx(ctx).
		Str("component", "ingest").
		Str("operation", "parse_activity").
		Str("format", string(format)).
		Int("data_size_bytes", len(data)).
		Msg("parsing activity document")

	doc, err := ParseDocument(data, format)
	if err != nil {
		log.Error().
			Ctx(ctx).
			Str("component", "ingest").
			Str("operation", "parse_activity").
			Err(err).
			Msg("failed to decode activity document")
		return nil, err
	}
	act, err := doc.Activity()
	if err != nil {
		return nil, err
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "ingest").
		Str("contract_id", act.Contract.ID).
		Int("product_count", len(act.Contract.Products)).
		Bool("has_labor", act.Labor != nil).
		Msg("activity document parsed")
	return act, nil
}

// Load reads and parses the activity file at path. The format comes from
// the extension, or from the content when the extension is unknown.
func Load(ctx context.Context, path string) (*Activity, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Ctx(ctx).
		Str("component", "ingest").
		Str("operation", "load_activity").
		Str("activity_path", path).
		Msg("loading activity document")

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().
			Ctx(ctx).
			Str("component", "ingest").
			Err(err).
			Str("activity_path", path).
			Msg("failed to read activity file")
		return nil, fmt.Errorf("reading activity file: %w", err)
	}
	act, err := Parse(ctx, data, DetectFormat(path, data))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return act, nil
}

// Template renders a starter YAML document holding one default product
// for the given year.
func Template(year int) ([]byte, error) {
	p := emissions.NewProduct("p1", "New product", year)
	out := Number(p.Manufacturing.TotalOutput)
	legs := make(Legs, 0, len(p.DownstreamTransport))
	for _, l := range p.DownstreamTransport {
		legs = append(legs, LegDoc{
			Weight:    Number(l.Weight),
			Distance:  Number(l.Distance),
			VehicleID: ID(l.VehicleID),
		})
	}
	doc := Document{
		Year: Number(p.Year),
		Contract: &ContractDoc{
			ID:   "c1",
			Name: "New contract",
			Products: []ProductDoc{{
				ID:                  ID(p.ID),
				Name:                p.Name,
				Materials:           []MaterialDoc{},
				UpstreamTransport:   []UpstreamDoc{},
				Manufacturing:       ManufacturingDoc{Mode: string(p.Manufacturing.Mode), TotalOutput: &out},
				DownstreamTransport: legs,
			}},
		},
		Labor: &LaborDoc{Mode: string(emissions.LaborModeDirect)},
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("rendering template: %w", err)
	}
	return data, nil
}
