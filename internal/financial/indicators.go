package financial

import (
	"fmt"
	"math"
)

func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the population standard deviation.
func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var acc float64
	for _, v := range values {
		acc += (v - m) * (v - m)
	}
	return math.Sqrt(acc / float64(len(values)))
}

// latestNonZero scans from the most recent year backward.
func latestNonZero(values []float64) (float64, bool) {
	for i := len(values) - 1; i >= 0; i-- {
		if values[i] != 0 {
			return values[i], true
		}
	}
	return 0, false
}

// longestLossRun is the longest run of negative values from start onward.
func longestLossRun(profits []float64, start int) int {
	if start < 0 {
		start = 0
	}
	longest, run := 0, 0
	for i := start; i < len(profits); i++ {
		if profits[i] < 0 {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return longest
}

// averageMargin is the mean of profit/revenue per year, counting years with
// zero revenue as a zero margin.
func averageMargin(revenues, profits []float64) float64 {
	n := min(len(revenues), len(profits))
	if n == 0 {
		return 0
	}
	margins := make([]float64, n)
	for i := range n {
		if revenues[i] != 0 {
			margins[i] = profits[i] / revenues[i]
		}
	}
	return mean(margins)
}

// growthRates returns the year-over-year growth, 0 where the prior year is 0.
func growthRates(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	rates := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		if prev := values[i-1]; prev != 0 {
			rates[i-1] = (values[i] - prev) / prev
		}
	}
	return rates
}

func volatility(values []float64) float64 {
	return stddev(growthRates(values))
}

// longestStagnation is the longest run of years whose value does not exceed
// the previous year.
func longestStagnation(values []float64) int {
	longest, run := 0, 0
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return longest
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// countSwings counts sign changes whose relative magnitude reaches threshold.
// A change away from zero has unbounded magnitude and always counts.
func countSwings(values []float64, threshold float64) int {
	swings := 0
	for i := 1; i < len(values); i++ {
		prev, cur := values[i-1], values[i]
		if sign(prev) == sign(cur) {
			continue
		}
		if prev == 0 || math.Abs(cur-prev)/math.Abs(prev) >= threshold {
			swings++
		}
	}
	return swings
}
