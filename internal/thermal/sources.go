package thermal

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
)

// SyntheticSource generates deterministic frames of a warm tyre band over a
// cooler background, with optional per-cell noise from a seeded generator.
// Used for dev mode and tests; no hardware required.
type SyntheticSource struct {
	rows, cols int
	band       Span
	tyreTemp   float64
	groundTemp float64
	noise      float64
	rng        *rand.Rand
}

// NewSyntheticSource builds a generator for rows x cols frames with the tyre
// occupying the given column span. noise is the peak-to-peak amplitude of the
// uniform jitter added to every cell; zero disables it.
func NewSyntheticSource(rows, cols int, tyre Span, tyreTemp, groundTemp, noise float64, seed int64) *SyntheticSource {
	return &SyntheticSource{
		rows:       rows,
		cols:       cols,
		band:       tyre,
		tyreTemp:   tyreTemp,
		groundTemp: groundTemp,
		noise:      noise,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// NextFrame produces the next synthetic frame.
func (s *SyntheticSource) NextFrame(ctx context.Context) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := NewFrame(s.rows, s.cols)
	for r := 0; r < s.rows; r++ {
		for c := 0; c < s.cols; c++ {
			temp := s.groundTemp
			if c >= s.band.Start && c < s.band.End {
				temp = s.tyreTemp
			}
			if s.noise > 0 {
				temp += (s.rng.Float64() - 0.5) * s.noise
			}
			f.Set(r, c, temp)
		}
	}
	return f, nil
}

// ReplaySource replays captured frames from a newline-delimited JSON stream,
// one row-major temperature array per line. Exhausting the stream surfaces
// io.EOF, which the supervisor treats like any other terminal capture
// failure.
type ReplaySource struct {
	rows, cols int
	scanner    *bufio.Scanner
	line       int
}

// NewReplaySource wraps the reader; each line must decode to rows*cols
// floats.
func NewReplaySource(r io.Reader, rows, cols int) *ReplaySource {
	scanner := bufio.NewScanner(r)
	// Full-precision 768-float lines run well past the default buffer.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &ReplaySource{
		rows:    rows,
		cols:    cols,
		scanner: scanner,
	}
}

// NextFrame decodes the next recorded frame.
func (s *ReplaySource) NextFrame(ctx context.Context) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading frame after line %d: %w", s.line, err)
		}
		return nil, io.EOF
	}
	s.line++

	var temps []float64
	if err := json.Unmarshal(s.scanner.Bytes(), &temps); err != nil {
		return nil, fmt.Errorf("line %d: %w", s.line, err)
	}
	if len(temps) != s.rows*s.cols {
		return nil, fmt.Errorf("line %d: got %d cells, want %d", s.line, len(temps), s.rows*s.cols)
	}

	return &Frame{Rows: s.rows, Cols: s.cols, Temps: temps}, nil
}
