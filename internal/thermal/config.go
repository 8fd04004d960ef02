package thermal

import "fmt"

// Config holds the tyre detection tuning parameters. All values are fixed at
// construction; Sensor never mutates its Config.
type Config struct {
	// Sensor geometry
	SensorWidth  int // columns per frame
	SensorHeight int // rows per frame
	MiddleRows   int // height of the contact-patch band
	StartRow     int // first row of the band

	// Temperature limits (°C)
	MinTemp            float64
	MaxTemp            float64
	BrakeTempThreshold float64 // cells above this are treated as brake plume

	// Spread thresholds
	MADUniformThreshold float64 // below this the profile is considered uniform
	KFloor              float64 // minimum region-growing tolerance
	KMultiplier         float64 // tolerance per unit of local spread
	DeltaFloor          float64 // minimum global contrast threshold
	DeltaMultiplier     float64 // contrast threshold per unit of global spread

	// Region growing
	MaxFailCount int // consecutive rejections before growth stops
	CentreCol    int // seed column (assumes mechanical alignment)

	// Geometry constraints
	MinTyreWidth        int
	MaxTyreWidth        int
	MaxWidthChangeRatio float64 // per-frame width change cap, fraction of previous width

	// Smoothing
	EMAAlpha          float64
	SpatialFilterSize int
	PersistenceFrames int

	// Confidence
	MinConfidenceWarning      float64
	TempDiffForHighConfidence float64
}

// DefaultConfig returns the production tuning for the 24x32 MLX90640 layout.
func DefaultConfig() Config {
	return Config{
		SensorWidth:  32,
		SensorHeight: 24,
		MiddleRows:   4,
		StartRow:     10,

		MinTemp:            0,
		MaxTemp:            180,
		BrakeTempThreshold: 180,

		MADUniformThreshold: 0.5,
		KFloor:              5.0,
		KMultiplier:         2.0,
		DeltaFloor:          3.0,
		DeltaMultiplier:     1.8,

		MaxFailCount: 2,
		CentreCol:    16,

		MinTyreWidth:        6,
		MaxTyreWidth:        28,
		MaxWidthChangeRatio: 0.3,

		EMAAlpha:          0.3,
		SpatialFilterSize: 3,
		PersistenceFrames: 2,

		MinConfidenceWarning:      0.5,
		TempDiffForHighConfidence: 3.0,
	}
}

// Validate checks the configuration for values that cannot produce a working
// detector. Construction fails fast on any of these rather than degrading at
// runtime.
func (c Config) Validate() error {
	if c.SensorWidth <= 0 || c.SensorHeight <= 0 {
		return fmt.Errorf("invalid sensor dimensions %dx%d: must be positive", c.SensorHeight, c.SensorWidth)
	}
	if c.MiddleRows <= 0 {
		return fmt.Errorf("invalid middle rows %d: must be positive", c.MiddleRows)
	}
	if c.StartRow < 0 || c.StartRow+c.MiddleRows > c.SensorHeight {
		return fmt.Errorf("row band [%d,%d) outside sensor height %d", c.StartRow, c.StartRow+c.MiddleRows, c.SensorHeight)
	}
	if c.CentreCol < 0 || c.CentreCol >= c.SensorWidth {
		return fmt.Errorf("centre column %d outside sensor width %d", c.CentreCol, c.SensorWidth)
	}
	if c.MinTemp >= c.MaxTemp {
		return fmt.Errorf("temperature limits inverted: min %.1f >= max %.1f", c.MinTemp, c.MaxTemp)
	}
	if c.MinTyreWidth <= 0 || c.MinTyreWidth > c.MaxTyreWidth {
		return fmt.Errorf("tyre width bounds [%d,%d] out of order", c.MinTyreWidth, c.MaxTyreWidth)
	}
	if c.MaxTyreWidth > c.SensorWidth {
		return fmt.Errorf("max tyre width %d exceeds sensor width %d", c.MaxTyreWidth, c.SensorWidth)
	}
	if c.EMAAlpha <= 0 || c.EMAAlpha > 1 {
		return fmt.Errorf("ema alpha %.3f outside (0,1]", c.EMAAlpha)
	}
	if c.SpatialFilterSize <= 0 {
		return fmt.Errorf("spatial filter size %d: must be positive", c.SpatialFilterSize)
	}
	if c.PersistenceFrames <= 0 {
		return fmt.Errorf("persistence frames %d: must be positive", c.PersistenceFrames)
	}
	if c.MaxWidthChangeRatio < 0 {
		return fmt.Errorf("max width change ratio %.3f: must be non-negative", c.MaxWidthChangeRatio)
	}
	if c.MaxFailCount <= 0 {
		return fmt.Errorf("max fail count %d: must be positive", c.MaxFailCount)
	}
	return nil
}
