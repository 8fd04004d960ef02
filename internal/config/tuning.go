// Package config loads optional JSON tuning overlays for the thermal
// pipeline. Fields omitted from the file keep their defaults, so partial
// configs are safe.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/tyre.report/internal/thermal"
)

// TuningConfig mirrors the detection parameters of thermal.Config as
// optional JSON fields. Pointer fields distinguish "absent" from zero.
type TuningConfig struct {
	// Row band
	MiddleRows *int `json:"middle_rows,omitempty"`
	StartRow   *int `json:"start_row,omitempty"`

	// Temperature limits
	MinTemp            *float64 `json:"min_temp,omitempty"`
	MaxTemp            *float64 `json:"max_temp,omitempty"`
	BrakeTempThreshold *float64 `json:"brake_temp_threshold,omitempty"`

	// Spread thresholds
	MADUniformThreshold *float64 `json:"mad_uniform_threshold,omitempty"`
	KFloor              *float64 `json:"k_floor,omitempty"`
	KMultiplier         *float64 `json:"k_multiplier,omitempty"`
	DeltaFloor          *float64 `json:"delta_floor,omitempty"`
	DeltaMultiplier     *float64 `json:"delta_multiplier,omitempty"`

	// Region growing
	MaxFailCount *int `json:"max_fail_count,omitempty"`
	CentreCol    *int `json:"centre_col,omitempty"`

	// Geometry
	MinTyreWidth        *int     `json:"min_tyre_width,omitempty"`
	MaxTyreWidth        *int     `json:"max_tyre_width,omitempty"`
	MaxWidthChangeRatio *float64 `json:"max_width_change_ratio,omitempty"`

	// Smoothing
	EMAAlpha          *float64 `json:"ema_alpha,omitempty"`
	SpatialFilterSize *int     `json:"spatial_filter_size,omitempty"`
	PersistenceFrames *int     `json:"persistence_frames,omitempty"`

	// Confidence
	MinConfidenceWarning      *float64 `json:"min_confidence_warning,omitempty"`
	TempDiffForHighConfidence *float64 `json:"temp_diff_for_high_confidence,omitempty"`
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file must have
// a .json extension and stay under 1MB.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &TuningConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return cfg, nil
}

// Apply overlays the set fields onto base and validates the combined result.
func (t *TuningConfig) Apply(base thermal.Config) (thermal.Config, error) {
	cfg := base

	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}

	setInt(&cfg.MiddleRows, t.MiddleRows)
	setInt(&cfg.StartRow, t.StartRow)

	setFloat(&cfg.MinTemp, t.MinTemp)
	setFloat(&cfg.MaxTemp, t.MaxTemp)
	setFloat(&cfg.BrakeTempThreshold, t.BrakeTempThreshold)

	setFloat(&cfg.MADUniformThreshold, t.MADUniformThreshold)
	setFloat(&cfg.KFloor, t.KFloor)
	setFloat(&cfg.KMultiplier, t.KMultiplier)
	setFloat(&cfg.DeltaFloor, t.DeltaFloor)
	setFloat(&cfg.DeltaMultiplier, t.DeltaMultiplier)

	setInt(&cfg.MaxFailCount, t.MaxFailCount)
	setInt(&cfg.CentreCol, t.CentreCol)

	setInt(&cfg.MinTyreWidth, t.MinTyreWidth)
	setInt(&cfg.MaxTyreWidth, t.MaxTyreWidth)
	setFloat(&cfg.MaxWidthChangeRatio, t.MaxWidthChangeRatio)

	setFloat(&cfg.EMAAlpha, t.EMAAlpha)
	setInt(&cfg.SpatialFilterSize, t.SpatialFilterSize)
	setInt(&cfg.PersistenceFrames, t.PersistenceFrames)

	setFloat(&cfg.MinConfidenceWarning, t.MinConfidenceWarning)
	setFloat(&cfg.TempDiffForHighConfidence, t.TempDiffForHighConfidence)

	if err := cfg.Validate(); err != nil {
		return thermal.Config{}, fmt.Errorf("invalid tuning overlay: %w", err)
	}
	return cfg, nil
}
