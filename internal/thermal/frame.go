package thermal

import (
	"context"
	"fmt"
)

// Frame is one calibrated temperature grid from the thermal camera, row-major
// with Rows*Cols cells in °C. Frames are ephemeral: the pipeline reads one per
// cycle and never retains it.
type Frame struct {
	Rows  int
	Cols  int
	Temps []float64
}

// NewFrame allocates a zeroed frame of the given dimensions.
func NewFrame(rows, cols int) *Frame {
	return &Frame{
		Rows:  rows,
		Cols:  cols,
		Temps: make([]float64, rows*cols),
	}
}

// At returns the temperature at row r, column c.
func (f *Frame) At(r, c int) float64 {
	return f.Temps[r*f.Cols+c]
}

// Set writes the temperature at row r, column c.
func (f *Frame) Set(r, c int, v float64) {
	f.Temps[r*f.Cols+c] = v
}

// Row returns a copy of row r.
func (f *Frame) Row(r int) []float64 {
	out := make([]float64, f.Cols)
	copy(out, f.Temps[r*f.Cols:(r+1)*f.Cols])
	return out
}

// FrameSource supplies one frame per read cycle. Implementations own any
// retry behaviour below the frame boundary; a returned error is fatal to the
// cycle and is wrapped in a CaptureError by the sensor.
type FrameSource interface {
	NextFrame(ctx context.Context) (*Frame, error)
}

// CaptureError wraps a FrameSource failure. The cycle that hit it produced no
// output and left all carried-over detector state untouched.
type CaptureError struct {
	Err error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("frame capture failed: %v", e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}
