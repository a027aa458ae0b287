package finance

import "math"

// PaybackStatus qualifies a payback period.
type PaybackStatus string

const (
	PaybackReached       PaybackStatus = "reached"
	PaybackBeyondHorizon PaybackStatus = "beyond_horizon"
	PaybackNotApplicable PaybackStatus = "not_applicable"
)

// PaybackResult is a payback period in fractional years. Years is only
// meaningful when Status is reached.
type PaybackResult struct {
	Years  float64
	Status PaybackStatus
}

// Payback walks the cumulative sum and interpolates the year in which it
// turns non-negative.
func Payback(flows []float64) PaybackResult {
	if len(flows) == 0 || flows[0] >= 0 {
		return PaybackResult{Status: PaybackNotApplicable}
	}

	cum := flows[0]
	for i := 1; i < len(flows); i++ {
		prev := cum
		cum += flows[i]
		if cum >= 0 {
			return PaybackResult{
				Years:  float64(i-1) + math.Abs(prev)/flows[i],
				Status: PaybackReached,
			}
		}
	}
	return PaybackResult{Status: PaybackBeyondHorizon}
}

// ROIResult is a return on investment in percent.
type ROIResult struct {
	Percent    float64
	Applicable bool
}

// ROI is the total nominal profit of flows divided by the initial outflow, in percent.
func ROI(flows []float64) ROIResult {
	if len(flows) == 0 || flows[0] >= 0 {
		return ROIResult{}
	}
	return ROIResult{Percent: Sum(flows) / math.Abs(flows[0]) * 100, Applicable: true}
}
