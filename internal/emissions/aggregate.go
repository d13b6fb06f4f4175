package emissions

// ProductRollup is one product's line in a contract rollup.
type ProductRollup struct {
	ProductID string      `json:"productId"`
	Name      string      `json:"name"`
	Totals    StageTotals `json:"totals"`
}

// Rollup aggregates the products of a contract and, optionally, the
// contract's labor allocation.
type Rollup struct {
	ContractID string          `json:"contractId"`
	Name       string          `json:"name"`
	Products   []ProductRollup `json:"products"`
	// Stages sums the stage subtotals of all products. Overridden products
	// contribute only to Stages.Total.
	Stages        StageTotals  `json:"stages"`
	ProductsTotal float64      `json:"productsTotal"`
	Labor         *LaborResult `json:"labor,omitempty"`
	LaborTotal    float64      `json:"laborTotal"`
	GrandTotal    float64      `json:"grandTotal"`
}

// SumTotals reduces stage totals in slice order.
func SumTotals(totals []StageTotals) StageTotals {
	var sum StageTotals
	for _, t := range totals {
		sum = sum.Add(t)
	}
	return sum
}

// NewRollup assembles a rollup from per-product results, summing in the given
// order so that identical inputs produce bit-identical totals.
func NewRollup(contract *Contract, products []ProductRollup, labor *LaborResult) Rollup {
	r := Rollup{Products: products}
	if contract != nil {
		r.ContractID = contract.ID
		r.Name = contract.Name
	}
	totals := make([]StageTotals, len(products))
	for i, p := range products {
		totals[i] = p.Totals
	}
	r.Stages = SumTotals(totals)
	r.ProductsTotal = r.Stages.Total
	if labor != nil {
		l := *labor
		r.Labor = &l
		r.LaborTotal = l.FinalResult
	}
	r.GrandTotal = r.ProductsTotal + r.LaborTotal
	return r
}

// ContractRollup computes every product of c sequentially and folds in the
// labor allocation when labor is non-nil.
func (c *Calculator) ContractRollup(contract *Contract, labor *LaborInputs, electricityFactor float64) Rollup {
	if contract == nil {
		return NewRollup(nil, nil, nil)
	}
	products := make([]ProductRollup, len(contract.Products))
	for i := range contract.Products {
		p := &contract.Products[i]
		products[i] = ProductRollup{
			ProductID: p.ID,
			Name:      p.Name,
			Totals:    c.ProductTotal(p, electricityFactor),
		}
	}
	var lr *LaborResult
	if labor != nil {
		res := LaborAllocation(*labor, electricityFactor)
		lr = &res
	}
	return NewRollup(contract, products, lr)
}
