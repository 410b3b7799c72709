package engine

import (
	"math"
	"time"

	"github.com/meenmo/almlib/marketdata"
)

// LiabilityProjection holds the year-by-year liability cash flows and the
// in-force count they derive from.
type LiabilityProjection struct {
	Years []int

	ContractsInForce  []float64
	PremiumIncome     []float64
	BenefitPayments   []float64
	SurrenderBenefits []float64
	TechnicalReserves []float64
	Expenses          []float64

	// Assumptions actually applied per year, for reporting.
	MortalityRates  []float64
	RedemptionRates []float64
}

// TotalOutflows sums benefits, surrenders and expenses per year.
func (l *LiabilityProjection) TotalOutflows() []float64 {
	out := make([]float64, len(l.Years))
	for t := range out {
		out[t] = l.BenefitPayments[t] + l.SurrenderBenefits[t] + l.Expenses[t]
	}
	return out
}

// projectLiabilities rolls the insured portfolio forward.
//
// Contracts in force shrink multiplicatively by the year's mortality and
// redemption rates from year 1 on. Death benefits pay a premium multiple
// on the mortality decrement, surrenders a lower multiple on the lapse
// decrement. Technical reserves accrue the guaranteed minimum rate, take
// in a fixed share of premium and pay out claims.
func projectLiabilities(cfg *Config, store *marketdata.Store) *LiabilityProjection {
	n := cfg.ContractsMaturity
	l := &LiabilityProjection{
		Years:             cfg.Years(),
		ContractsInForce:  make([]float64, n),
		PremiumIncome:     make([]float64, n),
		BenefitPayments:   make([]float64, n),
		SurrenderBenefits: make([]float64, n),
		TechnicalReserves: make([]float64, n),
		Expenses:          make([]float64, n),
		MortalityRates:    make([]float64, n),
		RedemptionRates:   make([]float64, n),
	}

	contracts := float64(cfg.InsuredNumber)
	deathBenefit := cfg.InsuredPremium * cfg.DeathBenefitMultiple
	surrenderValue := cfg.InsuredPremium * cfg.SurrenderValueMultiple

	for t := 0; t < n; t++ {
		age := cfg.AverageAge + t
		qx := store.Qx(age)
		redemption := redemptionRate(cfg, store, l.Years[t])

		if t > 0 {
			contracts *= 1 - qx - redemption
		}
		if contracts < 0 {
			contracts = 0
		}

		l.MortalityRates[t] = qx
		l.RedemptionRates[t] = redemption
		l.ContractsInForce[t] = contracts
		l.PremiumIncome[t] = contracts * cfg.InsuredPremium
		l.BenefitPayments[t] = contracts * qx * deathBenefit
		l.SurrenderBenefits[t] = contracts * redemption * surrenderValue

		if t == 0 {
			l.TechnicalReserves[t] = l.PremiumIncome[t] * cfg.ReserveFundingRate
		} else {
			interest := l.TechnicalReserves[t-1] * cfg.GuaranteedMinimumRate
			newReserves := l.PremiumIncome[t] * cfg.ReserveFundingRate
			claims := l.BenefitPayments[t] + l.SurrenderBenefits[t]
			l.TechnicalReserves[t] = l.TechnicalReserves[t-1] + interest + newReserves - claims
		}

		fixed := cfg.FixedFee * math.Pow(1+cfg.FixedCostInflation, float64(t))
		l.Expenses[t] = fixed + l.PremiumIncome[t]*cfg.ChargesRate
	}
	return l
}

// redemptionRate prefers the repurchase-rate table at the year's date and
// falls back to the scalar configuration rate.
func redemptionRate(cfg *Config, store *marketdata.Store, year int) float64 {
	date := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	if rate, ok := store.RepurchaseRate(date); ok && !math.IsNaN(rate) {
		return rate
	}
	return cfg.RedemptionRate
}
