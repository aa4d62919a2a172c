package services

import (
	"math"

	intconfig "safareasy/internal/config"
)

// FeePolicy computes the settlement split for a trip's total revenue. All
// amounts are integer cents. Implementations must keep the four components
// summing to the total; the settlement engine re-checks before persisting.
type FeePolicy interface {
	Split(totalRevenueCents int64) (systemFee, saccoFee, driverCut, ownerCut int64)
}

// ConfigFeePolicy is the deployment-configured schedule: a min/max-bounded
// percentage system fee, a SACCO percentage share, and the remainder split
// between driver and owner. The owner cut absorbs rounding so the split is
// exact by construction.
type ConfigFeePolicy struct {
	SystemFeePercent   float64
	SystemFeeMinCents  int64
	SystemFeeMaxCents  int64
	SaccoSharePercent  float64
	DriverSharePercent float64
}

func NewConfigFeePolicy(env intconfig.Env) ConfigFeePolicy {
	return ConfigFeePolicy{
		SystemFeePercent:   env.SystemFeePercent,
		SystemFeeMinCents:  env.SystemFeeMinCents,
		SystemFeeMaxCents:  env.SystemFeeMaxCents,
		SaccoSharePercent:  env.SaccoSharePercent,
		DriverSharePercent: env.DriverSharePercent,
	}
}

func (p ConfigFeePolicy) Split(total int64) (systemFee, saccoFee, driverCut, ownerCut int64) {
	if total <= 0 {
		return 0, 0, 0, 0
	}

	systemFee = percentOf(total, p.SystemFeePercent)
	if systemFee < p.SystemFeeMinCents {
		systemFee = p.SystemFeeMinCents
	}
	if systemFee > p.SystemFeeMaxCents {
		systemFee = p.SystemFeeMaxCents
	}
	if systemFee > total {
		systemFee = total
	}

	saccoFee = percentOf(total, p.SaccoSharePercent)
	if saccoFee > total-systemFee {
		saccoFee = total - systemFee
	}

	remainder := total - systemFee - saccoFee
	driverCut = percentOf(remainder, p.DriverSharePercent)
	if driverCut > remainder {
		driverCut = remainder
	}
	ownerCut = remainder - driverCut
	return systemFee, saccoFee, driverCut, ownerCut
}

func percentOf(amount int64, percent float64) int64 {
	return int64(math.Round(float64(amount) * percent / 100.0))
}
