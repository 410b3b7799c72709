// Package engine projects an insurance portfolio's assets, liabilities
// and derived valuation metrics over a multi-year horizon and assembles
// the tabular reports built on them.
//
// An Engine owns a Config and a market data store. Derived results are
// computed lazily, cached per configuration epoch, and dropped wholesale
// whenever the configuration changes. Prerequisites auto-compute with the
// configured default maturity when a downstream result is requested first.
package engine

import (
	"fmt"
	"sync"

	"github.com/meenmo/almlib/bond"
	"github.com/meenmo/almlib/curve"
	"github.com/meenmo/almlib/marketdata"
)

// NormalSource draws standard-normal shocks for the stochastic stock
// path. *rand.Rand satisfies it. A nil source selects the deterministic
// expected-return path.
type NormalSource interface {
	NormFloat64() float64
}

// Engine is the ALM calculation engine for one scenario.
//
// Safe for concurrent report requests: all computation and cache access
// happens under a single mutex.
type Engine struct {
	mu      sync.Mutex
	cfg     Config
	store   *marketdata.Store
	normals NormalSource
	epoch   uint64
	res     results
	diags   []string
}

// results is the per-epoch cache. The discount curve is keyed by its
// maturity; recomputing it for a new maturity drops everything downstream
// of it.
type results struct {
	curve      *curve.Discount
	neutral    *bond.NeutralResult
	assets     *AssetProjection
	liability  *LiabilityProjection
	valuation  *ValuationResult
	pnl        *PnLResult
	vif        *VIFResult
	guarantees *GuaranteesResult
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithNormalSource injects the random source for the stock-return path.
func WithNormalSource(src NormalSource) Option {
	return func(e *Engine) { e.normals = src }
}

// New builds an engine for a validated configuration. The store may be
// nil for runs that only exercise synthetic defaults, but any operation
// needing a forward curve will then fail with missing curve data.
func New(cfg Config, store *marketdata.Store, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine.New: %w", err)
	}
	e := &Engine{cfg: cfg, store: store}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns a copy of the active configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Years returns the projection grid.
func (e *Engine) Years() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Years()
}

// Epoch returns the configuration epoch; it increases on every override
// or reset.
func (e *Engine) Epoch() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.epoch
}

// Override applies named parameter overrides, invalidating all cached
// results. Unknown keys are rejected and the active config is untouched.
func (e *Engine) Override(params map[string]float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	cfg, err := e.cfg.Apply(params)
	if err != nil {
		return fmt.Errorf("Override: %w", err)
	}
	e.cfg = cfg
	e.bumpEpoch()
	return nil
}

// Reset reconstructs the configuration from DefaultConfig, keeping the
// loaded market data.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = DefaultConfig
	e.bumpEpoch()
}

// SetStore swaps the market data store, invalidating all cached results.
func (e *Engine) SetStore(store *marketdata.Store) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store = store
	e.bumpEpoch()
}

// bumpEpoch drops the whole result cache. Callers hold e.mu.
func (e *Engine) bumpEpoch() {
	e.epoch++
	e.res = results{}
	e.diags = nil
}

// Diagnostics returns the non-fatal notes recorded since the last config
// change (calibration mismatches, auto-computed prerequisites).
func (e *Engine) Diagnostics() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.diags...)
}

func (e *Engine) note(format string, args ...any) {
	e.diags = append(e.diags, fmt.Sprintf(format, args...))
}

// DiscountCurve bootstraps (or returns the cached) discount curve for
// the given maturity tenor. An empty maturity keeps the currently
// selected curve, falling back to the configured default when no curve
// has been built yet.
func (e *Engine) DiscountCurve(maturity string) (*curve.Discount, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ensureCurve(maturity)
}

// ensureCurve resolves the curve prerequisite. Callers hold e.mu.
//
// An empty maturity means "whatever curve is selected": downstream
// consumers reuse the cached curve at its own tenor, and the default
// maturity applies only when no curve has been built yet. Switching
// maturity explicitly rebuilds the curve and drops everything derived
// from it; the liability projection survives (it only depends on
// mortality and redemption assumptions).
func (e *Engine) ensureCurve(maturity string) (*curve.Discount, error) {
	if maturity == "" {
		if e.res.curve != nil {
			return e.res.curve, nil
		}
		maturity = e.cfg.DefaultMaturity
		e.note("discount curve auto-computed with default maturity %s", maturity)
	}
	if e.res.curve != nil && e.res.curve.Maturity == maturity {
		return e.res.curve, nil
	}
	if e.store == nil {
		return nil, fmt.Errorf("ensureCurve: no market data store: %w", ErrMissingPrerequisite)
	}

	d, err := curve.Build(e.store, e.cfg.Years(), maturity, e.cfg.RiskPremiumMultiplier)
	if err != nil {
		return nil, fmt.Errorf("ensureCurve: %w", err)
	}

	liability := e.res.liability
	e.res = results{curve: d, liability: liability}
	return d, nil
}

// NeutralRisk calibrates the neutral-risk factor against the reference
// bond's observed market value, computing the discount curve first if
// needed.
func (e *Engine) NeutralRisk(maturity string) (*bond.NeutralResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ensureNeutral(maturity)
}

func (e *Engine) ensureNeutral(maturity string) (*bond.NeutralResult, error) {
	d, err := e.ensureCurve(maturity)
	if err != nil {
		return nil, err
	}
	if e.res.neutral != nil {
		return e.res.neutral, nil
	}

	cfs := bond.Cashflows(e.cfg.Nominal, e.cfg.CouponRate, d.Len())
	res, err := bond.CalibrateNeutral(cfs, d.Deflator, e.cfg.BondsInitialMV)
	if err != nil {
		return nil, fmt.Errorf("NeutralRisk: %w", err)
	}
	if res.Mismatch {
		e.note("neutral risk calibration mismatch: pv %.2f vs market value %.2f",
			res.PVCheck, e.cfg.BondsInitialMV)
	}
	e.res.neutral = res
	return res, nil
}

// Assets projects the asset portfolio, computing the discount curve with
// the default maturity first if needed.
func (e *Engine) Assets() (*AssetProjection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ensureAssets()
}

func (e *Engine) ensureAssets() (*AssetProjection, error) {
	if e.res.assets != nil {
		return e.res.assets, nil
	}
	d, err := e.ensureCurve("")
	if err != nil {
		return nil, err
	}
	e.res.assets = projectAssets(&e.cfg, d, e.normals)
	return e.res.assets, nil
}

// Liabilities projects the liability cash flows.
func (e *Engine) Liabilities() (*LiabilityProjection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ensureLiabilities()
}

func (e *Engine) ensureLiabilities() (*LiabilityProjection, error) {
	if e.res.liability != nil {
		return e.res.liability, nil
	}
	e.res.liability = projectLiabilities(&e.cfg, e.store)
	return e.res.liability, nil
}

// Valuation computes the Best Estimate Liability block.
func (e *Engine) Valuation() (*ValuationResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ensureValuation()
}

// PnL computes the local-GAAP profit and loss path.
func (e *Engine) PnL() (*PnLResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ensurePnL()
}

// VIF computes the Value in Force block.
func (e *Engine) VIF() (*VIFResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ensureVIF()
}

// Guarantees values the embedded minimum-benefit guarantees.
func (e *Engine) Guarantees() (*GuaranteesResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ensureGuarantees()
}
