package thermal

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// analyseSections partitions the detected span into three contiguous
// sections, pools all band-row cells per section, and computes per-section
// statistics plus the lateral gradient across the full span.
//
// Section boundaries come from float division truncated to integers, so the
// three widths need not be equal (nor sum to the span width exactly); the
// right section absorbs the remainder.
func analyseSections(b band, span Span, red Reducer) TyreAnalysis {
	width := span.Width()
	if width <= 0 {
		return TyreAnalysis{}
	}

	sectionWidth := float64(width) / 3.0
	bounds := []struct{ start, end int }{
		{0, int(sectionWidth)},
		{int(sectionWidth), int(2 * sectionWidth)},
		{int(2 * sectionWidth), width},
	}

	pools := make([][]float64, 3)
	for _, row := range b {
		region := row[span.Start:span.End]
		for i, sb := range bounds {
			if sb.start < sb.end && sb.start < width {
				end := min(sb.end, width)
				pools[i] = append(pools[i], region[sb.start:end]...)
			}
		}
	}

	var stats [3]SectionStats
	for i, temps := range pools {
		stats[i] = sectionStats(temps, red)
	}

	// Lateral gradient: spread of per-column band means over the span.
	var minMean, maxMean float64
	col := make([]float64, len(b))
	for c := span.Start; c < span.End; c++ {
		for r := range b {
			col[r] = b[r][c]
		}
		mean := stat.Mean(col, nil)
		if c == span.Start || mean < minMean {
			minMean = mean
		}
		if c == span.Start || mean > maxMean {
			maxMean = mean
		}
	}

	return TyreAnalysis{
		Left:            stats[0],
		Centre:          stats[1],
		Right:           stats[2],
		LateralGradient: maxMean - minMean,
	}
}

// sectionStats computes avg, central tendency, min, max, and population
// standard deviation for one pooled section. An empty pool yields zero stats.
func sectionStats(temps []float64, red Reducer) SectionStats {
	if len(temps) == 0 {
		return SectionStats{}
	}

	minVal, maxVal := temps[0], temps[0]
	for _, t := range temps[1:] {
		if t < minVal {
			minVal = t
		}
		if t > maxVal {
			maxVal = t
		}
	}

	return SectionStats{
		Avg:    stat.Mean(temps, nil),
		Median: red.Central(temps),
		Min:    minVal,
		Max:    maxVal,
		Std:    math.Sqrt(stat.PopVariance(temps, nil)),
	}
}
