// Package engine orchestrates emissions calculations over whole contracts:
// it resolves the electricity factor of each product's year, evaluates
// products concurrently, checks transport coverage and reference integrity,
// and folds the results into a contract rollup.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/greenledger/pcfcalc/internal/emissions"
	"github.com/greenledger/pcfcalc/internal/engine/batch"
	"github.com/greenledger/pcfcalc/internal/factors"
	"github.com/greenledger/pcfcalc/internal/logging"
)

// ErrNilContract is returned when Evaluate is called without a contract.
var ErrNilContract = errors.New("contract cannot be nil")

// Engine evaluates contracts against one reference data set. It is safe
// for concurrent use.
type Engine struct {
	set         *factors.Set
	calc        *emissions.Calculator
	defaultYear int
	workers     int
	batchSize   int
	onProgress  batch.ProgressCallback
}

// Option configures an Engine.
type Option func(*Engine)

// WithFactorPolicy selects the manufacturing factor policy and fixed factor.
func WithFactorPolicy(policy emissions.ManufacturingFactorPolicy, fixedFactor float64) Option {
	return func(e *Engine) {
		e.calc = e.calc.WithManufacturingFactor(policy, fixedFactor)
	}
}

// WithDefaultYear sets the year used for products and labor without one.
func WithDefaultYear(year int) Option {
	return func(e *Engine) {
		if year > 0 {
			e.defaultYear = year
		}
	}
}

// WithWorkers bounds the number of products evaluated at once.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithBatchSize sets how many products one worker takes at a time.
func WithBatchSize(n int) Option {
	return func(e *Engine) {
		if n >= batch.MinBatchSize && n <= batch.MaxBatchSize {
			e.batchSize = n
		}
	}
}

// WithProgress registers fn to receive a snapshot after each batch of
// products finishes. fn may be called from several goroutines at once.
func WithProgress(fn batch.ProgressCallback) Option {
	return func(e *Engine) {
		e.onProgress = fn
	}
}

// New returns an engine over set. A nil set means the built-in defaults.
func New(set *factors.Set, opts ...Option) *Engine {
	if set == nil {
		set = factors.Defaults()
	}
	e := &Engine{
		set:         set,
		calc:        set.Calculator(),
		defaultYear: emissions.DefaultYear,
		workers:     batch.DefaultWorkers,
		batchSize:   batch.DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Calculator returns the underlying calculator.
func (e *Engine) Calculator() *emissions.Calculator { return e.calc }

// Factors returns the reference data set.
func (e *Engine) Factors() *factors.Set { return e.set }

// DefaultYear returns the fallback assessment year.
func (e *Engine) DefaultYear() int { return e.defaultYear }

// ResolveYear returns year, or the engine default when year is not positive.
func (e *Engine) ResolveYear(year int) int {
	if year > 0 {
		return year
	}
	return e.defaultYear
}

// ElectricityFactor returns the grid factor for year, falling back to the
// default year when year is zero and to factors.FallbackElectricityFactor
// when the year is unknown.
func (e *Engine) ElectricityFactor(year int) float64 {
	return e.set.Electricity.ForYear(e.ResolveYear(year))
}

// EvaluateProduct computes one product in full.
func (e *Engine) EvaluateProduct(p *emissions.Product) ProductResult {
	year := e.ResolveYear(p.Year)
	ef := e.set.Electricity.ForYear(year)
	bd := e.calc.ProductBreakdown(p, ef)
	coverage := emissions.ValidateTransportCoverage(p)
	return ProductResult{
		ProductID:           p.ID,
		Name:                p.Name,
		Year:                year,
		ElectricityFactor:   ef,
		ManufacturingFactor: e.calc.ManufacturingFactor(ef),
		Totals:              bd.Totals,
		Shares:              bd.Totals.Shares(),
		Breakdown:           bd,
		Coverage:            coverage,
		CoverageComplete:    emissions.CoverageComplete(coverage),
		UnlinkedLegs:        emissions.UnlinkedLegs(p),
		MissingReferences:   e.calc.MissingReferences(p),
	}
}

// Evaluate computes every product of contract concurrently and folds in
// the labor allocation when labor is non-nil. year is the contract-level
// assessment year; it selects the electricity factor used for labor mode B.
// Products are summed in contract order, so the result does not depend on
// scheduling.
func (e *Engine) Evaluate(
	ctx context.Context,
	contract *emissions.Contract,
	labor *emissions.LaborInputs,
	year int,
) (*Result, error) {
	if contract == nil {
		return nil, ErrNilContract
	}
	log := logging.FromContext(ctx)
	start := time.Now()
	year = e.ResolveYear(year)

	log.Debug().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "evaluate_contract").
		Str("contract_id", contract.ID).
		Int("product_count", len(contract.Products)).
		Int("workers", e.workers).
		Int("year", year).
		Msg("starting contract evaluation")

	proc, err := batch.NewProcessor[*emissions.Product](e.batchSize, e.workers)
	if err != nil {
		return nil, fmt.Errorf("creating processor: %w", err)
	}
	proc.WithProgressCallback(func(s batch.ProgressSnapshot) {
		log.Debug().
			Ctx(ctx).
			Str("component", "engine").
			Str("operation", "evaluate_contract").
			Str("contract_id", contract.ID).
			Int("products_done", s.ProcessedItems).
			Int("product_count", s.TotalItems).
			Int("batches_done", s.ProcessedBatches).
			Int("batch_count", s.TotalBatches).
			Msg("product batch evaluated")
		if e.onProgress != nil {
			e.onProgress(s)
		}
	})
	items := make([]*emissions.Product, len(contract.Products))
	for i := range contract.Products {
		items[i] = &contract.Products[i]
	}
	results, err := batch.Map(ctx, proc, items,
		func(_ context.Context, _ int, p *emissions.Product) (ProductResult, error) {
			return e.EvaluateProduct(p), nil
		})
	if err != nil {
		log.Error().
			Ctx(ctx).
			Str("component", "engine").
			Str("operation", "evaluate_contract").
			Err(err).
			Msg("contract evaluation aborted")
		return nil, err
	}

	rollups := make([]emissions.ProductRollup, len(results))
	for i := range results {
		rollups[i] = emissions.ProductRollup{
			ProductID: results[i].ProductID,
			Name:      results[i].Name,
			Totals:    results[i].Totals,
		}
		e.logProductIssues(ctx, &results[i])
	}

	ef := e.set.Electricity.ForYear(year)
	var lr *emissions.LaborResult
	if labor != nil {
		res := emissions.LaborAllocation(*labor, ef)
		lr = &res
	}

	out := &Result{
		Year:              year,
		ElectricityFactor: ef,
		FactorPolicy:      e.calc.Policy(),
		Products:          results,
		Rollup:            emissions.NewRollup(contract, rollups, lr),
	}

	log.Info().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "evaluate_contract").
		Str("contract_id", contract.ID).
		Float64("grand_total_kg", out.Rollup.GrandTotal).
		Dur("duration", time.Since(start)).
		Msg("contract evaluated")
	return out, nil
}

func (e *Engine) logProductIssues(ctx context.Context, r *ProductResult) {
	log := logging.FromContext(ctx)
	for _, ref := range r.MissingReferences {
		log.Warn().
			Ctx(ctx).
			Str("component", "engine").
			Str("product_id", r.ProductID).
			Str("stage", ref.Stage).
			Str("item_id", ref.ItemID).
			Str("ref_id", ref.RefID).
			Msg("reference not found, contribution counted as zero")
	}
	for _, id := range r.UnderCovered() {
		v := r.Coverage[id]
		log.Debug().
			Ctx(ctx).
			Str("component", "engine").
			Str("product_id", r.ProductID).
			Str("material_id", id).
			Float64("shortfall_kg", v.Shortfall()).
			Bool("missing", v.IsMissing).
			Msg("material transport weight not fully covered")
	}
}
