package thermal

import "fmt"

// generateWarnings derives the ordered diagnostic strings for one frame.
// Conditions are non-exclusive; the emission order is fixed so downstream
// consumers can rely on it.
func generateWarnings(cfg Config, analysis TyreAnalysis, detection Detection) []string {
	var warnings []string

	if detection.Confidence < cfg.MinConfidenceWarning {
		warnings = append(warnings, fmt.Sprintf("Low confidence: %d%%", int(detection.Confidence*100)))
	}

	// Spread across section averages, ignoring zero-valued placeholder
	// sections. Needs at least two valid averages to be meaningful.
	valid := validTemps(analysis.Left.Avg, analysis.Centre.Avg, analysis.Right.Avg)
	if len(valid) >= 2 {
		diff := maxOf(valid) - minOf(valid)
		if diff > 5 {
			warnings = append(warnings, fmt.Sprintf("Temp diff: %.1fC across tyre", diff))
		}
	}

	if detection.Method == MethodHeldUniform {
		warnings = append(warnings, "Uniform temp - using previous detection")
	}

	if detection.Inverted {
		warnings = append(warnings, "Inverted: Cold tyre on warm ground")
	}

	if detection.Clipped != ClipNone {
		warnings = append(warnings, fmt.Sprintf("Clipped at %s", detection.Clipped))
	}

	if maxes := validTemps(analysis.Left.Max, analysis.Centre.Max, analysis.Right.Max); len(maxes) > 0 {
		if peak := maxOf(maxes); peak > 50 {
			warnings = append(warnings, fmt.Sprintf("High temp: %.1fC", peak))
		}
	}

	if analysis.LateralGradient > 10 {
		warnings = append(warnings, fmt.Sprintf("High gradient: %.1fC", analysis.LateralGradient))
	}

	return warnings
}

// validTemps filters out non-positive placeholder values.
func validTemps(temps ...float64) []float64 {
	var out []float64
	for _, t := range temps {
		if t > 0 {
			out = append(out, t)
		}
	}
	return out
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
