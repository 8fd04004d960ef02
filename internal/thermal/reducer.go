package thermal

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Reducer is the strategy pair used everywhere the pipeline needs a central
// tendency or a spread measure: profile collapse, spatial filtering, global
// and local detection statistics, and per-section medians.
//
// The production default is FastReducer (mean / population standard
// deviation), a deliberate performance substitute for the exact median/MAD
// pair which is available as ExactReducer. Selecting the pair at construction
// keeps detection logic identical across both.
type Reducer interface {
	// Central returns the central tendency of xs, or 0 for an empty slice.
	Central(xs []float64) float64
	// Spread returns the dispersion of xs, or 0 for fewer than two samples.
	Spread(xs []float64) float64
}

// FastReducer approximates median with mean and MAD with population standard
// deviation.
type FastReducer struct{}

func (FastReducer) Central(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

func (FastReducer) Spread(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return math.Sqrt(stat.PopVariance(xs, nil))
}

// ExactReducer computes the true median and median absolute deviation.
type ExactReducer struct{}

func (ExactReducer) Central(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

func (ExactReducer) Spread(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	med := ExactReducer{}.Central(xs)
	dev := make([]float64, len(xs))
	for i, x := range xs {
		dev[i] = math.Abs(x - med)
	}
	return ExactReducer{}.Central(dev)
}
