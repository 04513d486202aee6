package domain

// Action is the direction of a bid adjustment.
type Action string

const (
	ActionIncrease Action = "increase"
	ActionDecrease Action = "decrease"
)

// Recommendation is a derived, immutable bid adjustment proposal. A nil
// *Recommendation means "leave the bid alone".
type Recommendation struct {
	Action         Action
	CurrentBid     float64
	RecommendedBid float64
	AdjustmentPct  float64
	SpendPct       float64
	Reason         string
}
