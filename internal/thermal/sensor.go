// Package thermal implements the tyre surface temperature pipeline: it takes
// calibrated thermal-camera frames, detects the lateral span occupied by the
// tyre, tracks that span across frames, and produces per-section statistics
// and diagnostic warnings for downstream telemetry consumers.
package thermal

import (
	"context"
	"fmt"
)

// Sensor is the per-camera pipeline instance. It owns all cross-frame state
// (EMA profile, previous span, persistence buffer, confidence history) and
// runs the full pipeline once per Read call.
//
// A Sensor is not safe for concurrent use: read cycles are sequential by
// design and serialisation is the caller's responsibility. State is mutated
// only after a cycle's capture has succeeded, so a failed cycle leaves every
// carried-over value exactly as after the last successful one.
type Sensor struct {
	cfg    Config
	red    Reducer
	source FrameSource

	frameCount int
	ema        emaFilter
	detector   *spanDetector
	scorer     *confidenceScorer
}

// NewSensor builds a sensor over the given frame source. A nil reducer
// selects FastReducer, the production default. Configuration problems are
// reported here rather than surfacing mid-stream.
func NewSensor(cfg Config, source FrameSource, red Reducer) (*Sensor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sensor config: %w", err)
	}
	if source == nil {
		return nil, fmt.Errorf("invalid sensor config: nil frame source")
	}
	if red == nil {
		red = FastReducer{}
	}

	return &Sensor{
		cfg:      cfg,
		red:      red,
		source:   source,
		ema:      emaFilter{alpha: cfg.EMAAlpha},
		detector: newSpanDetector(cfg, red),
		scorer:   newConfidenceScorer(cfg),
	}, nil
}

// Read runs one complete cycle: capture, row aggregation, spatial and
// temporal filtering, span detection, confidence scoring, section analysis,
// and warning derivation. A capture failure is returned as a CaptureError
// and produces no output; everything after a successful capture is
// infallible.
func (s *Sensor) Read(ctx context.Context) (*FrameResult, error) {
	frame, err := s.source.NextFrame(ctx)
	if err != nil {
		return nil, &CaptureError{Err: err}
	}
	if frame.Rows != s.cfg.SensorHeight || frame.Cols != s.cfg.SensorWidth {
		return nil, &CaptureError{Err: fmt.Errorf("frame is %dx%d, want %dx%d",
			frame.Rows, frame.Cols, s.cfg.SensorHeight, s.cfg.SensorWidth)}
	}

	s.frameCount++

	b := extractBand(frame, s.cfg, s.red)
	profile := spatialFilter(b.collapse(s.cfg, s.red), s.cfg, s.red)
	smoothed := s.ema.Update(profile)

	detection := s.detector.Detect(smoothed)
	span := Span{Start: detection.SpanStart, End: detection.SpanEnd}
	detection.Confidence = s.scorer.Score(smoothed, span, detection.MADGlobal, detection.Method)

	analysis := analyseSections(b, span, s.red)

	return &FrameResult{
		FrameNumber:        s.frameCount,
		Analysis:           analysis,
		Detection:          detection,
		TemperatureProfile: smoothed,
		Warnings:           generateWarnings(s.cfg, analysis, detection),
	}, nil
}

// Reset clears all detector state and restarts the frame counter. The next
// successful cycle is frame 1 with a freshly seeded EMA.
func (s *Sensor) Reset() {
	s.frameCount = 0
	s.ema.Reset()
	s.detector.Reset()
	s.scorer.Reset()
}

// Config returns the construction-time configuration.
func (s *Sensor) Config() Config {
	return s.cfg
}

// ConfidenceHistory returns up to the last ten confidence scores, oldest
// first. Informational only.
func (s *Sensor) ConfidenceHistory() []float64 {
	return s.scorer.History()
}
