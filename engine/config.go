package engine

import (
	"fmt"
	"math"
	"sort"
)

// Config holds every scalar parameter of a projection scenario.
//
// A Config is immutable per engine epoch: the engine copies it at
// construction and replaces it wholesale on override or reset. The model
// constants at the bottom were historically hard-coded; they are plain
// fields here with the historical values as defaults.
type Config struct {
	// Projection grid.
	OpeningYear       int // first projection year
	ContractsMaturity int // projection horizon in years

	// Insured portfolio.
	InsuredNumber  int     // number of contracts
	InsuredPremium float64 // annual premium per contract
	AverageAge     int     // average policyholder age at opening

	// Fees and charges.
	ChargesRate        float64 // proportional charge on premium income
	FeePctPremium      float64 // acquisition fee as a fraction of premium
	FixedFee           float64 // fixed annual administration fee
	FixedCostInflation float64 // inflation applied to the fixed fee
	RedemptionRate     float64 // annual surrender (lapse) rate

	// Guarantees and provisions.
	GuaranteedMinimumRate float64 // credited floor rate on reserves
	RiskAdjustment        float64 // book-value liability risk adjustment
	CapitalReserve        float64 // solvency buffer
	PPE                   float64 // property, plant & equipment

	TaxRate float64

	// Bond portfolio.
	Nominal        float64 // face value per bond
	CouponRate     float64
	BondsInitialMV float64
	BondsInitialBV float64 // amortized cost

	// Stock portfolio.
	StocksInitialMV float64
	StocksInitialBV float64

	// Asset allocation; the three fractions must sum to 1.
	AllocBonds  float64
	AllocStocks float64
	AllocCash   float64

	// Model constants with historical defaults.
	DeathBenefitMultiple     float64 // death benefit as a multiple of premium
	SurrenderValueMultiple   float64 // surrender value as a multiple of premium
	ReserveFundingRate       float64 // share of premium funding new reserves
	CostOfCapital            float64 // risk-margin cost-of-capital rate
	RiskDiscountRate         float64 // VIF discount rate
	NewBusinessStrainRate    float64 // first-year strain as a share of premium volume
	ExpectedStockReturn      float64
	DividendYield            float64
	CashYield                float64
	RealizationRate          float64 // share of unrealized gains realized per year
	RiskPremiumMultiplier    float64 // volatility multiplier in risk-adjusted rates
	GuaranteedWithdrawalRate float64 // GMWB annual withdrawal guarantee

	// DefaultMaturity is the benchmark tenor used when a curve is needed
	// and the caller did not select one.
	DefaultMaturity string
}

// DefaultConfig is the reference scenario. Treat as immutable: engines
// copy it, never point into it.
var DefaultConfig = Config{
	OpeningYear:       2015,
	ContractsMaturity: 20,

	InsuredNumber:  10000,
	InsuredPremium: 50000,
	AverageAge:     45,

	ChargesRate:        0.015,
	FeePctPremium:      0.025,
	FixedFee:           500.0,
	FixedCostInflation: 0.025,
	RedemptionRate:     0.05,

	GuaranteedMinimumRate: 0.025,
	RiskAdjustment:        50000,
	CapitalReserve:        500000,
	PPE:                   100000,

	TaxRate: 0.22,

	Nominal:        1000000,
	CouponRate:     0.035,
	BondsInitialMV: 950000,
	BondsInitialBV: 980000,

	StocksInitialMV: 1200000,
	StocksInitialBV: 1100000,

	AllocBonds:  0.60,
	AllocStocks: 0.30,
	AllocCash:   0.10,

	DeathBenefitMultiple:     10,
	SurrenderValueMultiple:   8,
	ReserveFundingRate:       0.80,
	CostOfCapital:            0.06,
	RiskDiscountRate:         0.12,
	NewBusinessStrainRate:    0.10,
	ExpectedStockReturn:      0.08,
	DividendYield:            0.03,
	CashYield:                0.02,
	RealizationRate:          0.10,
	RiskPremiumMultiplier:    1.5,
	GuaranteedWithdrawalRate: 0.05,

	DefaultMaturity: "5Y",
}

const allocTolerance = 1e-9

// Validate checks the construction invariants.
func (c *Config) Validate() error {
	if c.ContractsMaturity <= 0 {
		return fmt.Errorf("Validate: horizon %d: %w", c.ContractsMaturity, ErrInvalidConfig)
	}
	if sum := c.AllocBonds + c.AllocStocks + c.AllocCash; math.Abs(sum-1) > allocTolerance {
		return fmt.Errorf("Validate: allocations sum to %g, want 1: %w", sum, ErrInvalidConfig)
	}
	if c.AllocBonds < 0 || c.AllocStocks < 0 || c.AllocCash < 0 {
		return fmt.Errorf("Validate: negative allocation: %w", ErrInvalidConfig)
	}
	if c.InsuredNumber < 0 {
		return fmt.Errorf("Validate: negative contract count: %w", ErrInvalidConfig)
	}
	if c.Nominal <= 0 {
		return fmt.Errorf("Validate: nominal %g must be positive: %w", c.Nominal, ErrInvalidConfig)
	}
	for name, v := range map[string]float64{
		"insured_premium": c.InsuredPremium,
		"charges_rate":    c.ChargesRate,
		"fee_pct_premium": c.FeePctPremium,
		"fixed_fee":       c.FixedFee,
		"redemption_rate": c.RedemptionRate,
		"tax_rate":        c.TaxRate,
	} {
		if v < 0 {
			return fmt.Errorf("Validate: %s %g must be non-negative: %w", name, v, ErrInvalidConfig)
		}
	}
	if c.DefaultMaturity == "" {
		return fmt.Errorf("Validate: empty default maturity: %w", ErrInvalidConfig)
	}
	return nil
}

// Years materializes the projection grid.
func (c *Config) Years() []int {
	years := make([]int, c.ContractsMaturity)
	for i := range years {
		years[i] = c.OpeningYear + i
	}
	return years
}

// paramSchema maps override names to field setters. Names follow the
// scenario-file convention (snake_case).
var paramSchema = map[string]func(*Config, float64){
	"opening_year":               func(c *Config, v float64) { c.OpeningYear = int(v) },
	"contracts_maturity":         func(c *Config, v float64) { c.ContractsMaturity = int(v) },
	"insured_number":             func(c *Config, v float64) { c.InsuredNumber = int(v) },
	"insured_premium":            func(c *Config, v float64) { c.InsuredPremium = v },
	"average_age":                func(c *Config, v float64) { c.AverageAge = int(v) },
	"charges_rate":               func(c *Config, v float64) { c.ChargesRate = v },
	"fee_pct_premium":            func(c *Config, v float64) { c.FeePctPremium = v },
	"fixed_fee":                  func(c *Config, v float64) { c.FixedFee = v },
	"fixed_cost_inflation":       func(c *Config, v float64) { c.FixedCostInflation = v },
	"redemption_rate":            func(c *Config, v float64) { c.RedemptionRate = v },
	"guaranteed_minimum_rate":    func(c *Config, v float64) { c.GuaranteedMinimumRate = v },
	"risk_adjustment":            func(c *Config, v float64) { c.RiskAdjustment = v },
	"capital_reserve":            func(c *Config, v float64) { c.CapitalReserve = v },
	"ppe":                        func(c *Config, v float64) { c.PPE = v },
	"tax_rate":                   func(c *Config, v float64) { c.TaxRate = v },
	"nominal":                    func(c *Config, v float64) { c.Nominal = v },
	"coupon_rate":                func(c *Config, v float64) { c.CouponRate = v },
	"bonds_initial_mv":           func(c *Config, v float64) { c.BondsInitialMV = v },
	"bonds_initial_bv":           func(c *Config, v float64) { c.BondsInitialBV = v },
	"stocks_initial_mv":          func(c *Config, v float64) { c.StocksInitialMV = v },
	"stocks_initial_bv":          func(c *Config, v float64) { c.StocksInitialBV = v },
	"alloc_bonds":                func(c *Config, v float64) { c.AllocBonds = v },
	"alloc_stocks":               func(c *Config, v float64) { c.AllocStocks = v },
	"alloc_cash":                 func(c *Config, v float64) { c.AllocCash = v },
	"death_benefit_multiple":     func(c *Config, v float64) { c.DeathBenefitMultiple = v },
	"surrender_value_multiple":   func(c *Config, v float64) { c.SurrenderValueMultiple = v },
	"reserve_funding_rate":       func(c *Config, v float64) { c.ReserveFundingRate = v },
	"cost_of_capital":            func(c *Config, v float64) { c.CostOfCapital = v },
	"risk_discount_rate":         func(c *Config, v float64) { c.RiskDiscountRate = v },
	"new_business_strain_rate":   func(c *Config, v float64) { c.NewBusinessStrainRate = v },
	"expected_stock_return":      func(c *Config, v float64) { c.ExpectedStockReturn = v },
	"dividend_yield":             func(c *Config, v float64) { c.DividendYield = v },
	"cash_yield":                 func(c *Config, v float64) { c.CashYield = v },
	"realization_rate":           func(c *Config, v float64) { c.RealizationRate = v },
	"risk_premium_multiplier":    func(c *Config, v float64) { c.RiskPremiumMultiplier = v },
	"guaranteed_withdrawal_rate": func(c *Config, v float64) { c.GuaranteedWithdrawalRate = v },
}

// ParameterNames lists the valid override keys, sorted.
func ParameterNames() []string {
	names := make([]string, 0, len(paramSchema))
	for name := range paramSchema {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply merges named overrides onto a copy of the config and validates
// the result. Unknown keys are rejected before anything is applied.
func (c Config) Apply(overrides map[string]float64) (Config, error) {
	for name := range overrides {
		if _, ok := paramSchema[name]; !ok {
			return Config{}, fmt.Errorf("Apply: %q: %w", name, ErrUnknownParameter)
		}
	}
	for name, v := range overrides {
		paramSchema[name](&c, v)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("Apply: %w", err)
	}
	return c, nil
}
