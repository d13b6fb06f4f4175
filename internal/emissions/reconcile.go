package emissions

// TransportValidation reports how well the upstream legs of one material
// cover its declared weight.
type TransportValidation struct {
	OriginalWeight       float64 `json:"originalWeight"`
	TotalTransportWeight float64 `json:"totalTransportWeight"`
	LegCount             int     `json:"legCount"`
	// IsValid is true when the legs carry at least CoverageTolerance of
	// OriginalWeight. A zero-weight material is valid even without legs.
	IsValid bool `json:"isValid"`
	// IsMissing is true when no leg references the material.
	IsMissing bool `json:"isMissing"`
}

// Covered reports whether the material has at least one leg and the legs
// carry its weight.
func (v TransportValidation) Covered() bool {
	return v.IsValid && !v.IsMissing
}

// Shortfall returns how many kilograms are not covered by transport legs, or
// zero when the material is fully covered.
func (v TransportValidation) Shortfall() float64 {
	if gap := v.OriginalWeight - v.TotalTransportWeight; gap > 0 {
		return gap
	}
	return 0
}

// ValidateTransportCoverage checks, per material ID, that the upstream legs
// referencing the material carry its declared weight. Legs are matched on
// exact MaterialID equality; legs with an empty or unknown MaterialID are
// ignored here (see UnlinkedLegs).
func ValidateTransportCoverage(p *Product) map[string]TransportValidation {
	if p == nil {
		return map[string]TransportValidation{}
	}

	sums := make(map[string]float64, len(p.Materials))
	counts := make(map[string]int, len(p.Materials))
	for _, t := range p.UpstreamTransport {
		if t.MaterialID == "" {
			continue
		}
		sums[t.MaterialID] += finite(t.Weight)
		counts[t.MaterialID]++
	}

	out := make(map[string]TransportValidation, len(p.Materials))
	for _, m := range p.Materials {
		weight := finite(m.Weight)
		n := counts[m.ID]
		total := sums[m.ID]
		out[m.ID] = TransportValidation{
			OriginalWeight:       weight,
			TotalTransportWeight: total,
			LegCount:             n,
			IsMissing:            n == 0,
			IsValid:              total >= weight*CoverageTolerance,
		}
	}
	return out
}

// UnlinkedLegs returns the upstream legs whose MaterialID is empty or names
// no material of p. They still count toward stage B.
func UnlinkedLegs(p *Product) []UpstreamTransport {
	if p == nil {
		return nil
	}
	known := make(map[string]struct{}, len(p.Materials))
	for _, m := range p.Materials {
		known[m.ID] = struct{}{}
	}
	var out []UpstreamTransport
	for _, t := range p.UpstreamTransport {
		if _, ok := known[t.MaterialID]; !ok || t.MaterialID == "" {
			out = append(out, t)
		}
	}
	return out
}

// CoverageComplete reports whether every material in the validation map is
// covered.
func CoverageComplete(results map[string]TransportValidation) bool {
	for _, v := range results {
		if !v.Covered() {
			return false
		}
	}
	return true
}
