package thermal

import "gonum.org/v1/gonum/stat"

// confidenceScorer combines heuristic multipliers into a bounded confidence
// value and keeps a short informational history of past scores.
type confidenceScorer struct {
	cfg     Config
	history *ring[float64]
}

func newConfidenceScorer(cfg Config) *confidenceScorer {
	return &confidenceScorer{
		cfg:     cfg,
		history: newRing[float64](10),
	}
}

// Score starts from 1.0 and multiplies penalties and boosts together. The
// contrast boost can push the intermediate value above 1.0; the result is
// clamped into [0,1] before recording.
func (s *confidenceScorer) Score(profile []float64, span Span, madGlobal float64, method string) float64 {
	confidence := 1.0

	width := span.Width()
	if width <= s.cfg.MinTyreWidth+2 {
		confidence *= 0.7
	} else if width >= s.cfg.MaxTyreWidth-2 {
		confidence *= 0.8
	}

	if madGlobal < 1.0 {
		confidence *= 0.6
	}

	// Contrast against the background: columns outside the span less a
	// buffer column each side. Skipped entirely when no background
	// columns qualify.
	if width > 0 {
		tyreMean := stat.Mean(profile[span.Start:span.End], nil)

		var background []float64
		if span.Start > 2 {
			background = append(background, profile[:span.Start-1]...)
		}
		if span.End < len(profile)-2 {
			background = append(background, profile[span.End+1:]...)
		}

		if len(background) > 0 {
			diff := tyreMean - stat.Mean(background, nil)
			if diff < 0 {
				diff = -diff
			}
			if diff > s.cfg.TempDiffForHighConfidence {
				confidence *= 1.2
			} else if diff < 1.0 {
				confidence *= 0.7
			}
		}
	}

	if method == MethodHeldUniform {
		confidence *= 0.5
	}

	if confidence > 1.0 {
		confidence = 1.0
	} else if confidence < 0.0 {
		confidence = 0.0
	}

	s.history.Add(confidence)
	return confidence
}

// History returns past scores ordered oldest first.
func (s *confidenceScorer) History() []float64 {
	return s.history.Items()
}

// Reset discards the score history.
func (s *confidenceScorer) Reset() {
	s.history.Reset()
}
