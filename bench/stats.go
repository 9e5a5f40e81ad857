package bench

import (
	"math"
	"sort"
)

// MedianStats picks the median run by elapsed time from multiple runs.
func MedianStats(runs []Summary) Summary {
	if len(runs) == 1 {
		return runs[0]
	}
	sorted := make([]Summary, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Elapsed < sorted[j].Elapsed })
	return sorted[len(sorted)/2]
}

// SteadyState checks if QPS variance across runs is within tolerance.
func SteadyState(runs []Summary, tolerance float64) (bool, float64) {
	if len(runs) < 2 {
		return true, 0
	}
	var sum float64
	for _, r := range runs {
		sum += r.QPS
	}
	mean := sum / float64(len(runs))
	if mean == 0 {
		return false, 0
	}

	var maxDev float64
	for _, r := range runs {
		dev := math.Abs(r.QPS-mean) / mean
		if dev > maxDev {
			maxDev = dev
		}
	}
	return maxDev <= tolerance, maxDev
}
