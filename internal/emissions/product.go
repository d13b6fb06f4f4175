package emissions

import "fmt"

// ManufacturingFactorPolicy decides which grid factor stage C applies.
type ManufacturingFactorPolicy string

const (
	// ManufacturingFactorFixed applies the calculator's fixed factor
	// (DefaultManufacturingFactor unless configured otherwise) regardless of
	// the assessment year.
	ManufacturingFactorFixed ManufacturingFactorPolicy = "fixed"

	// ManufacturingFactorYear applies the electricity factor supplied by the
	// caller, normally the factor of the assessment year.
	ManufacturingFactorYear ManufacturingFactorPolicy = "year"
)

// ParseManufacturingFactorPolicy validates a policy name. The empty string
// selects ManufacturingFactorFixed.
func ParseManufacturingFactorPolicy(s string) (ManufacturingFactorPolicy, error) {
	switch ManufacturingFactorPolicy(s) {
	case "", ManufacturingFactorFixed:
		return ManufacturingFactorFixed, nil
	case ManufacturingFactorYear:
		return ManufacturingFactorYear, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFactorPolicy, s)
	}
}

// ParseManufacturingMode validates a manufacturing mode name.
func ParseManufacturingMode(s string) (ManufacturingMode, error) {
	switch ManufacturingMode(s) {
	case ManufacturingPerUnit, ManufacturingTotalAllocated:
		return ManufacturingMode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownManufacturingMode, s)
	}
}

// Calculator computes product emissions against a fixed set of reference
// tables. It is immutable and safe for concurrent use.
type Calculator struct {
	materials   *MaterialTable
	transport   *TransportTable
	policy      ManufacturingFactorPolicy
	fixedFactor float64
}

// NewCalculator returns a calculator over the given tables using the fixed
// manufacturing factor policy. Nil tables behave as empty tables.
func NewCalculator(materials *MaterialTable, transport *TransportTable) *Calculator {
	return &Calculator{
		materials:   materials,
		transport:   transport,
		policy:      ManufacturingFactorFixed,
		fixedFactor: DefaultManufacturingFactor,
	}
}

// WithManufacturingFactor returns a copy of c that applies policy to stage C.
// fixedFactor is used by ManufacturingFactorFixed; a non-positive value keeps
// DefaultManufacturingFactor.
func (c *Calculator) WithManufacturingFactor(
	policy ManufacturingFactorPolicy,
	fixedFactor float64,
) *Calculator {
	cp := *c
	cp.policy = policy
	if finite(fixedFactor) > 0 {
		cp.fixedFactor = fixedFactor
	} else {
		cp.fixedFactor = DefaultManufacturingFactor
	}
	return &cp
}

// Materials returns the material table the calculator resolves against.
func (c *Calculator) Materials() *MaterialTable { return c.materials }

// Transport returns the vehicle table the calculator resolves against.
func (c *Calculator) Transport() *TransportTable { return c.transport }

// Policy returns the manufacturing factor policy.
func (c *Calculator) Policy() ManufacturingFactorPolicy { return c.policy }

// ManufacturingFactor returns the grid factor stage C applies given the
// caller's electricity factor.
func (c *Calculator) ManufacturingFactor(electricityFactor float64) float64 {
	if c.policy == ManufacturingFactorYear {
		return finite(electricityFactor)
	}
	return c.fixedFactor
}

// ProductTotal returns the stage subtotals and total of p.
//
// An overridden product (see Product.IsOverridden) reports zero for every
// stage and TotalOverride as total. A nil product yields all zeros.
func (c *Calculator) ProductTotal(p *Product, electricityFactor float64) StageTotals {
	if p == nil {
		return StageTotals{}
	}
	if p.IsOverridden() {
		return StageTotals{Total: finite(p.TotalOverride)}
	}

	var a, b, d float64
	for i := range p.Materials {
		_, e := c.materialEmission(&p.Materials[i])
		a += e
	}
	for i := range p.UpstreamTransport {
		t := &p.UpstreamTransport[i]
		b += c.legEmission(t.Weight, t.Distance, t.VehicleID)
	}
	cStage := c.manufacturingEmission(p.Manufacturing, electricityFactor)
	for _, leg := range p.DownstreamTransport {
		d += c.legEmission(leg.Weight, leg.Distance, leg.VehicleID)
	}

	return StageTotals{A: a, B: b, C: cStage, D: d, Total: a + b + cStage + d}
}

// materialEmission resolves the effective factor of m and its contribution.
func (c *Calculator) materialEmission(m *MaterialItem) (factor, emission float64) {
	if m.UseDB {
		factor = c.materials.Factor(m.FactorID)
	} else {
		factor = finite(m.CustomFactor)
	}
	return factor, finite(m.Weight) * factor
}

// legEmission applies the tonne-km formula to one transport leg.
func (c *Calculator) legEmission(weight, distance float64, vehicleID string) float64 {
	return tonneKm(weight, distance) * c.transport.Factor(vehicleID)
}

// manufacturingEmission computes stage C for one product unit.
func (c *Calculator) manufacturingEmission(m ManufacturingConfig, electricityFactor float64) float64 {
	run := finite(m.ElectricityUsage) * c.ManufacturingFactor(electricityFactor)
	if m.Mode == ManufacturingPerUnit {
		return run
	}
	return safeDiv(run, m.TotalOutput)
}
