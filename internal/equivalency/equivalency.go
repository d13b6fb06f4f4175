// Package equivalency expresses a kgCO2e total as everyday activities
// (miles driven, smartphone charges, tree seedlings, days of home
// electricity) using EPA conversion factors.
package equivalency

import (
	"fmt"
	"math"
)

// Kind is a category of equivalency.
type Kind string

// Supported equivalencies, in display order.
const (
	MilesDriven        Kind = "miles_driven"
	SmartphonesCharged Kind = "smartphones_charged"
	TreeSeedlings      Kind = "tree_seedlings"
	HomeDays           Kind = "home_days"
)

//nolint:gochecknoglobals // Compile-time constant lookup table.
var kinds = []struct {
	kind   Kind
	factor float64
	label  string
}{
	{MilesDriven, MilesDrivenFactor, "miles driven"},
	{SmartphonesCharged, SmartphoneChargeFactor, "smartphones charged"},
	{TreeSeedlings, TreeSeedlingFactor, "tree seedlings grown for 10 years"},
	{HomeDays, HomeDayFactor, "days of home electricity"},
}

// Result is one calculated equivalency.
type Result struct {
	Kind      Kind    `json:"kind"`
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
	Label     string  `json:"label"`
}

// Output is the set of equivalencies for one total.
type Output struct {
	InputKg float64  `json:"inputKg"`
	Results []Result `json:"results,omitempty"`
	// Text is a one-line summary, e.g.
	// "Equivalent to driving ~511 miles or charging ~11,949 smartphones".
	Text    string `json:"text,omitempty"`
	IsEmpty bool   `json:"isEmpty"`
}

// Get returns the result of kind k, if present.
func (o Output) Get(k Kind) (Result, bool) {
	for _, r := range o.Results {
		if r.Kind == k {
			return r, true
		}
	}
	return Result{}, false
}

// FromKg computes equivalencies for a kgCO2e total. Totals below
// MinThresholdKg, negative or non-finite values give an empty output.
func FromKg(kg float64) Output {
	if math.IsNaN(kg) || math.IsInf(kg, 0) || kg < MinThresholdKg {
		if kg < 0 || math.IsNaN(kg) || math.IsInf(kg, 0) {
			kg = 0
		}
		return Output{InputKg: kg, IsEmpty: true}
	}

	out := Output{InputKg: kg, Results: make([]Result, 0, len(kinds))}
	for _, k := range kinds {
		v := kg / k.factor
		out.Results = append(out.Results, Result{
			Kind:      k.kind,
			Value:     v,
			Formatted: FormatLarge(v),
			Label:     k.label,
		})
	}
	out.Text = fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones",
		out.Results[0].Formatted, out.Results[1].Formatted)
	return out
}

// FromValue normalizes value in unit to kilograms and calls FromKg.
func FromValue(value float64, unit string) (Output, error) {
	kg, err := NormalizeToKg(value, unit)
	if err != nil {
		return Output{IsEmpty: true}, err
	}
	return FromKg(kg), nil
}
