package usecase

import (
	"fmt"
	"math"

	"bidpilot/internal/core/domain"
)

const (
	// defaultAdjustmentPct is used when the caller picks a percentage
	// outside the allowed set.
	defaultAdjustmentPct = 2

	// Target band: below spendLowPct the bid goes up, above spendHighPct
	// it comes down. Inside the band the bid is left alone.
	spendLowPct  = 90.0
	spendHighPct = 100.0
)

// NormalizeAdjustment maps the caller-selected percentage onto the closed
// set {2, 5, 10}; anything else becomes 2.
func NormalizeAdjustment(pct float64) float64 {
	switch pct {
	case 2, 5, 10:
		return pct
	default:
		return defaultAdjustmentPct
	}
}

// Recommend is the pure recommendation rule. Given the campaign's daily
// budget, its current bid and the trailing average daily spend, it returns
// a bid adjustment or nil. The same percentage delta applies in both
// directions, and the recommended bid is rounded to 2 decimal places.
// Zero/negative bid or budget yields no recommendation, as does spend
// inside the 90-100% band.
func Recommend(dailyBudget, currentBid, dailySpend, adjustPct float64) *domain.Recommendation {
	adjustPct = NormalizeAdjustment(adjustPct)
	if currentBid <= 0 || dailyBudget <= 0 {
		return nil
	}
	spendPct := dailySpend / dailyBudget * 100

	switch {
	case spendPct < spendLowPct:
		return &domain.Recommendation{
			Action:         domain.ActionIncrease,
			CurrentBid:     currentBid,
			RecommendedBid: round2(currentBid * (1 + adjustPct/100)),
			AdjustmentPct:  adjustPct,
			SpendPct:       round2(spendPct),
			Reason: fmt.Sprintf("spend is at %.1f%% of daily budget, below the %.0f%% target; raise bid by %.0f%%",
				spendPct, spendLowPct, adjustPct),
		}
	case spendPct > spendHighPct:
		return &domain.Recommendation{
			Action:         domain.ActionDecrease,
			CurrentBid:     currentBid,
			RecommendedBid: round2(currentBid * (1 - adjustPct/100)),
			AdjustmentPct:  adjustPct,
			SpendPct:       round2(spendPct),
			Reason: fmt.Sprintf("spend is at %.1f%% of daily budget, above the %.0f%% cap; lower bid by %.0f%%",
				spendPct, spendHighPct, adjustPct),
		}
	default:
		return nil
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
