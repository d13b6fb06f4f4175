package emissions

// MaterialLine itemizes the stage A contribution of one material.
type MaterialLine struct {
	Item   MaterialItem `json:"item"`
	Factor float64      `json:"factor"`
	// Unit1 and Unit2 describe Factor, e.g. kgCO2e per kg.
	Unit1 string `json:"unit1"`
	Unit2 string `json:"unit2"`
	// Resolved is false when UseDB is set and FactorID is not in the table.
	Resolved bool    `json:"resolved"`
	Emission float64 `json:"emission"`
}

// TransportLine itemizes one upstream or downstream leg.
type TransportLine struct {
	// MaterialID is empty for downstream legs and unlinked upstream legs.
	MaterialID  string  `json:"materialId,omitempty"`
	Weight      float64 `json:"weight"`
	Distance    float64 `json:"distance"`
	VehicleID   string  `json:"vehicleId"`
	VehicleName string  `json:"vehicleName"`
	Resolved    bool    `json:"resolved"`
	Factor      float64 `json:"factor"`
	TonneKm     float64 `json:"tonneKm"`
	Emission    float64 `json:"emission"`
}

// ManufacturingLine itemizes stage C.
type ManufacturingLine struct {
	Mode ManufacturingMode `json:"mode"`
	// Usage is the configured electricity in kWh.
	Usage float64 `json:"usage"`
	// UnitUsage is the kWh attributed to one product unit.
	UnitUsage float64 `json:"unitUsage"`
	Factor    float64 `json:"factor"`
	Emission  float64 `json:"emission"`
}

// Breakdown is the itemized calculation of one product. Its Totals equal
// ProductTotal for the same inputs.
type Breakdown struct {
	Totals        StageTotals       `json:"totals"`
	Overridden    bool              `json:"overridden"`
	Materials     []MaterialLine    `json:"materials"`
	Upstream      []TransportLine   `json:"upstream"`
	Manufacturing ManufacturingLine `json:"manufacturing"`
	Downstream    []TransportLine   `json:"downstream"`
}

// ProductBreakdown itemizes every contribution to the product total. Lines
// of an overridden product are still listed, with the totals taken from the
// override.
func (c *Calculator) ProductBreakdown(p *Product, electricityFactor float64) Breakdown {
	if p == nil {
		return Breakdown{}
	}

	out := Breakdown{
		Totals:     c.ProductTotal(p, electricityFactor),
		Overridden: p.IsOverridden(),
		Materials:  make([]MaterialLine, 0, len(p.Materials)),
		Upstream:   make([]TransportLine, 0, len(p.UpstreamTransport)),
		Downstream: make([]TransportLine, 0, len(p.DownstreamTransport)),
	}

	for i := range p.Materials {
		out.Materials = append(out.Materials, c.materialLine(&p.Materials[i]))
	}
	for _, t := range p.UpstreamTransport {
		line := c.transportLine(t.Weight, t.Distance, t.VehicleID)
		line.MaterialID = t.MaterialID
		out.Upstream = append(out.Upstream, line)
	}
	out.Manufacturing = c.manufacturingLine(p.Manufacturing, electricityFactor)
	for _, leg := range p.DownstreamTransport {
		out.Downstream = append(out.Downstream, c.transportLine(leg.Weight, leg.Distance, leg.VehicleID))
	}
	return out
}

func (c *Calculator) materialLine(m *MaterialItem) MaterialLine {
	factor, emission := c.materialEmission(m)
	line := MaterialLine{
		Item:     *m,
		Factor:   factor,
		Unit1:    DefaultEmissionUnit,
		Unit2:    DefaultDeclarationUnit,
		Resolved: true,
		Emission: emission,
	}
	if m.UseDB {
		ref, ok := c.materials.Lookup(m.FactorID)
		line.Resolved = ok
		if ok {
			if ref.Unit1 != "" {
				line.Unit1 = ref.Unit1
			}
			if ref.Unit2 != "" {
				line.Unit2 = ref.Unit2
			}
		}
		return line
	}
	// A custom unit names the declared unit only.
	if m.CustomUnit != "" {
		line.Unit2 = m.CustomUnit
	}
	return line
}

func (c *Calculator) transportLine(weight, distance float64, vehicleID string) TransportLine {
	ref, ok := c.transport.Lookup(vehicleID)
	tkm := tonneKm(weight, distance)
	factor := finite(ref.Factor)
	return TransportLine{
		Weight:      finite(weight),
		Distance:    finite(distance),
		VehicleID:   vehicleID,
		VehicleName: ref.Name,
		Resolved:    ok,
		Factor:      factor,
		TonneKm:     tkm,
		Emission:    tkm * factor,
	}
}

func (c *Calculator) manufacturingLine(m ManufacturingConfig, electricityFactor float64) ManufacturingLine {
	usage := finite(m.ElectricityUsage)
	unit := usage
	if m.Mode != ManufacturingPerUnit {
		unit = safeDiv(usage, m.TotalOutput)
	}
	return ManufacturingLine{
		Mode:      m.Mode,
		Usage:     usage,
		UnitUsage: unit,
		Factor:    c.ManufacturingFactor(electricityFactor),
		Emission:  c.manufacturingEmission(m, electricityFactor),
	}
}

// ReferenceKind names the table a MissingReference points into.
type ReferenceKind string

// Reference kinds.
const (
	ReferenceMaterial ReferenceKind = "material"
	ReferenceVehicle  ReferenceKind = "vehicle"
)

// MissingReference is an input that points at a factor the tables do not
// hold. Such inputs contribute zero emissions.
type MissingReference struct {
	Stage  string        `json:"stage"`
	Kind   ReferenceKind `json:"kind"`
	ItemID string        `json:"itemId"`
	RefID  string        `json:"refId"`
}

// MissingReferences lists every database material and vehicle reference of p
// that the calculator's tables cannot resolve, in stage order.
func (c *Calculator) MissingReferences(p *Product) []MissingReference {
	if p == nil || p.IsOverridden() {
		return nil
	}
	var out []MissingReference
	for _, m := range p.Materials {
		if !m.UseDB {
			continue
		}
		if _, ok := c.materials.Lookup(m.FactorID); !ok {
			out = append(out, MissingReference{Stage: "A", Kind: ReferenceMaterial, ItemID: m.ID, RefID: m.FactorID})
		}
	}
	for _, t := range p.UpstreamTransport {
		if _, ok := c.transport.Lookup(t.VehicleID); !ok {
			out = append(out, MissingReference{Stage: "B", Kind: ReferenceVehicle, ItemID: t.ID, RefID: t.VehicleID})
		}
	}
	for _, leg := range p.DownstreamTransport {
		if _, ok := c.transport.Lookup(leg.VehicleID); !ok {
			out = append(out, MissingReference{Stage: "D", Kind: ReferenceVehicle, RefID: leg.VehicleID})
		}
	}
	return out
}
