package thermal

// Detection method values.
const (
	MethodRegionGrowing = "region_growing"
	MethodHeldUniform   = "held_uniform"
)

// Clipping classifications for a span touching the sensor field-of-view edge.
const (
	ClipNone      = "none"
	ClipLeftEdge  = "left_edge"
	ClipRightEdge = "right_edge"
	ClipBothEdges = "both_edges"
)

// Span is a contiguous lateral column range [Start, End) identified as the
// tyre. End is exclusive.
type Span struct {
	Start int
	End   int
}

// Width returns the span width in columns.
func (s Span) Width() int {
	return s.End - s.Start
}

// Detection describes one frame's span detection outcome. Values are frozen
// once produced.
type Detection struct {
	Method         string
	SpanStart      int
	SpanEnd        int
	Width          int
	Confidence     float64
	Inverted       bool
	Clipped        string
	MADGlobal      float64
	MedianTemp     float64
	CentreTemp     float64
	ThresholdDelta float64
}

// SectionStats holds temperature statistics for one tyre section.
type SectionStats struct {
	Avg    float64
	Median float64
	Min    float64
	Max    float64
	Std    float64
}

// TyreAnalysis partitions the detected span into three sections plus the
// lateral gradient across the full span.
type TyreAnalysis struct {
	Left            SectionStats
	Centre          SectionStats
	Right           SectionStats
	LateralGradient float64
}

// FrameResult is the complete output of one successful read cycle. It is
// immutable once returned; TemperatureProfile is the post-filter snapshot.
type FrameResult struct {
	FrameNumber        int
	Analysis           TyreAnalysis
	Detection          Detection
	TemperatureProfile []float64
	Warnings           []string
}
