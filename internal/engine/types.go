package engine

import (
	"maps"
	"slices"

	"github.com/greenledger/pcfcalc/internal/emissions"
)

// ProductResult is the full evaluation of one product.
type ProductResult struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	// Year is the resolved assessment year.
	Year              int     `json:"year"`
	ElectricityFactor float64 `json:"electricityFactor"`
	// ManufacturingFactor is the grid factor stage C applied.
	ManufacturingFactor float64                                  `json:"manufacturingFactor"`
	Totals              emissions.StageTotals                    `json:"totals"`
	Shares              emissions.StageShares                    `json:"shares"`
	Breakdown           emissions.Breakdown                      `json:"breakdown"`
	Coverage            map[string]emissions.TransportValidation `json:"coverage"`
	CoverageComplete    bool                                     `json:"coverageComplete"`
	UnlinkedLegs        []emissions.UpstreamTransport            `json:"unlinkedLegs,omitempty"`
	MissingReferences   []emissions.MissingReference             `json:"missingReferences,omitempty"`
}

// UnderCovered returns the sorted material IDs whose transport coverage is
// not valid or that have no legs.
func (r *ProductResult) UnderCovered() []string {
	var out []string
	for _, id := range slices.Sorted(maps.Keys(r.Coverage)) {
		if !r.Coverage[id].Covered() {
			out = append(out, id)
		}
	}
	return out
}

// Result is the evaluation of a contract.
type Result struct {
	// Year is the contract-level assessment year.
	Year int `json:"year"`
	// ElectricityFactor is the factor of Year, used for labor mode B.
	ElectricityFactor float64                           `json:"electricityFactor"`
	FactorPolicy      emissions.ManufacturingFactorPolicy `json:"factorPolicy"`
	Products          []ProductResult                   `json:"products"`
	Rollup            emissions.Rollup                  `json:"rollup"`
}

// CoverageComplete reports whether every material of every product is
// fully covered by upstream transport.
func (r *Result) CoverageComplete() bool {
	for i := range r.Products {
		if !r.Products[i].CoverageComplete {
			return false
		}
	}
	return true
}

// MissingReferenceCount returns the number of unresolved references across
// all products.
func (r *Result) MissingReferenceCount() int {
	n := 0
	for i := range r.Products {
		n += len(r.Products[i].MissingReferences)
	}
	return n
}
