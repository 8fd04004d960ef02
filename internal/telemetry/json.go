// Package telemetry contains the output encodings consumed by transport
// collaborators: the full JSON form, the compact CSV line, and the 16-byte
// register map for bus reads.
package telemetry

import (
	"encoding/json"
	"math"

	"github.com/banshee-data/tyre.report/internal/thermal"
)

// wireSection carries one section's statistics at 2dp.
type wireSection struct {
	Avg    float64 `json:"avg"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Std    float64 `json:"std"`
}

type wireAnalysis struct {
	Left            wireSection `json:"left"`
	Centre          wireSection `json:"centre"`
	Right           wireSection `json:"right"`
	LateralGradient float64     `json:"lateral_gradient"`
}

type wireDetection struct {
	Method         string  `json:"method"`
	SpanStart      int     `json:"span_start"`
	SpanEnd        int     `json:"span_end"`
	Width          int     `json:"width"`
	Confidence     float64 `json:"confidence"`
	Inverted       bool    `json:"inverted"`
	Clipped        string  `json:"clipped"`
	MADGlobal      float64 `json:"mad_global"`
	MedianTemp     float64 `json:"median_temp"`
	CentreTemp     float64 `json:"centre_temp"`
	ThresholdDelta float64 `json:"threshold_delta"`
}

type wireResult struct {
	FrameNumber        int           `json:"frame_number"`
	Analysis           wireAnalysis  `json:"analysis"`
	Detection          wireDetection `json:"detection"`
	TemperatureProfile []float64     `json:"temperature_profile"`
	Warnings           []string      `json:"warnings"`
}

// EncodeJSON renders a frame result in the full wire form: section stats and
// detection temperatures at 2dp, confidence at 3dp, the profile at 1dp.
// Floats are rounded before marshalling, so decoding reproduces each field to
// its stated precision rather than bit-exactly.
func EncodeJSON(r *thermal.FrameResult) ([]byte, error) {
	w := wireResult{
		FrameNumber: r.FrameNumber,
		Analysis: wireAnalysis{
			Left:            roundSection(r.Analysis.Left),
			Centre:          roundSection(r.Analysis.Centre),
			Right:           roundSection(r.Analysis.Right),
			LateralGradient: round2(r.Analysis.LateralGradient),
		},
		Detection: wireDetection{
			Method:         r.Detection.Method,
			SpanStart:      r.Detection.SpanStart,
			SpanEnd:        r.Detection.SpanEnd,
			Width:          r.Detection.Width,
			Confidence:     round3(r.Detection.Confidence),
			Inverted:       r.Detection.Inverted,
			Clipped:        r.Detection.Clipped,
			MADGlobal:      round2(r.Detection.MADGlobal),
			MedianTemp:     round2(r.Detection.MedianTemp),
			CentreTemp:     round2(r.Detection.CentreTemp),
			ThresholdDelta: round2(r.Detection.ThresholdDelta),
		},
		TemperatureProfile: make([]float64, len(r.TemperatureProfile)),
		Warnings:           append([]string{}, r.Warnings...),
	}
	for i, t := range r.TemperatureProfile {
		w.TemperatureProfile[i] = round1(t)
	}

	return json.Marshal(w)
}

// DecodeJSON parses the full wire form back into a frame result.
func DecodeJSON(data []byte) (*thermal.FrameResult, error) {
	var w wireResult
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}

	return &thermal.FrameResult{
		FrameNumber: w.FrameNumber,
		Analysis: thermal.TyreAnalysis{
			Left:            thermal.SectionStats(w.Analysis.Left),
			Centre:          thermal.SectionStats(w.Analysis.Centre),
			Right:           thermal.SectionStats(w.Analysis.Right),
			LateralGradient: w.Analysis.LateralGradient,
		},
		Detection: thermal.Detection{
			Method:         w.Detection.Method,
			SpanStart:      w.Detection.SpanStart,
			SpanEnd:        w.Detection.SpanEnd,
			Width:          w.Detection.Width,
			Confidence:     w.Detection.Confidence,
			Inverted:       w.Detection.Inverted,
			Clipped:        w.Detection.Clipped,
			MADGlobal:      w.Detection.MADGlobal,
			MedianTemp:     w.Detection.MedianTemp,
			CentreTemp:     w.Detection.CentreTemp,
			ThresholdDelta: w.Detection.ThresholdDelta,
		},
		TemperatureProfile: w.TemperatureProfile,
		Warnings:           w.Warnings,
	}, nil
}

func roundSection(s thermal.SectionStats) wireSection {
	return wireSection{
		Avg:    round2(s.Avg),
		Median: round2(s.Median),
		Min:    round2(s.Min),
		Max:    round2(s.Max),
		Std:    round2(s.Std),
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
