package token

import (
	"fmt"
	"math"
	"math/big"
)

// ToBaseUnits converts a human readable amount to integer base units,
// truncating toward zero. Callers must reject negative or non-finite
// amounts before calling.
func ToBaseUnits(human float64, decimals int) uint64 {
	precision := new(big.Float).SetFloat64(math.Pow10(decimals))
	scaled := new(big.Float).Mul(new(big.Float).SetFloat64(human), precision)

	base, _ := scaled.Int(nil)
	if base.Sign() < 0 {
		return 0
	}
	return base.Uint64()
}

// FromBaseUnits converts integer base units back to a human readable
// amount using the token's decimal precision.
func FromBaseUnits(base uint64, decimals int) float64 {
	da := new(big.Float).SetUint64(base)
	precision := new(big.Float).SetFloat64(math.Pow10(decimals))

	result := new(big.Float).Quo(da, precision)
	res, _ := result.Float64()

	return res
}

// ValidAmount reports whether a human amount may be converted to base
// units: strictly positive and finite.
func ValidAmount(human float64) bool {
	return human > 0 && !math.IsInf(human, 0) && !math.IsNaN(human)
}

// FormatPriceImpact renders an aggregator-supplied impact fraction as a
// percentage with 4 decimal places, e.g. 0.0123 -> "1.2300%".
func FormatPriceImpact(fraction float64) string {
	return fmt.Sprintf("%.4f%%", fraction*100)
}

// ImpactBands holds the presentation thresholds for price impact,
// expressed as fractions of 1.
type ImpactBands struct {
	Medium float64
	High   float64
}

func DefaultImpactBands() ImpactBands {
	return ImpactBands{Medium: 0.01, High: 0.03}
}

// ImpactBand classifies an impact fraction as "low", "medium" or "high".
func ImpactBand(fraction float64, bands ImpactBands) string {
	if bands.Medium <= 0 || bands.High <= 0 || bands.High < bands.Medium {
		bands = DefaultImpactBands()
	}

	switch {
	case fraction < bands.Medium:
		return "low"
	case fraction <= bands.High:
		return "medium"
	default:
		return "high"
	}
}
