package thermal

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource replays a fixed sequence of frames and errors.
type scriptedSource struct {
	steps []scriptedStep
	idx   int
}

type scriptedStep struct {
	frame *Frame
	err   error
}

func (s *scriptedSource) NextFrame(ctx context.Context) (*Frame, error) {
	if s.idx >= len(s.steps) {
		return nil, errors.New("script exhausted")
	}
	step := s.steps[s.idx]
	s.idx++
	return step.frame, step.err
}

func frames(fs ...*Frame) *scriptedSource {
	s := &scriptedSource{}
	for _, f := range fs {
		s.steps = append(s.steps, scriptedStep{frame: f})
	}
	return s
}

func TestSensorRead(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	ctx := context.Background()

	t.Run("warm band end to end", func(t *testing.T) {
		t.Parallel()
		f := testFrame(cfg, Span{10, 21}, 60, 20)
		sensor, err := NewSensor(cfg, frames(f), nil)
		require.NoError(t, err)

		got, err := sensor.Read(ctx)
		require.NoError(t, err)

		assert.Equal(t, 1, got.FrameNumber)
		assert.Equal(t, MethodRegionGrowing, got.Detection.Method)
		// The spatial filter blurs the band edges one column inward.
		assert.Equal(t, 11, got.Detection.SpanStart)
		assert.Equal(t, 20, got.Detection.SpanEnd)
		assert.Equal(t, 9, got.Detection.Width)
		assert.False(t, got.Detection.Inverted)
		assert.Equal(t, ClipNone, got.Detection.Clipped)
		assert.Equal(t, 1.0, got.Detection.Confidence)
		assert.Equal(t, []string{"High temp: 60.0C"}, got.Warnings)
		assert.Len(t, got.TemperatureProfile, cfg.SensorWidth)

		// Sections come from the raw band, fully inside the plateau.
		assert.Equal(t, 60.0, got.Analysis.Left.Avg)
		assert.Equal(t, 60.0, got.Analysis.Centre.Avg)
		assert.Equal(t, 60.0, got.Analysis.Right.Avg)
		assert.Zero(t, got.Analysis.LateralGradient)
	})

	t.Run("frame numbers count successful cycles only", func(t *testing.T) {
		t.Parallel()
		f := testFrame(cfg, Span{10, 21}, 60, 20)
		source := &scriptedSource{steps: []scriptedStep{
			{frame: f},
			{err: errors.New("bus glitch")},
			{frame: f},
		}}
		sensor, err := NewSensor(cfg, source, nil)
		require.NoError(t, err)

		first, err := sensor.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, first.FrameNumber)

		_, err = sensor.Read(ctx)
		var capErr *CaptureError
		require.ErrorAs(t, err, &capErr)
		assert.ErrorContains(t, capErr, "bus glitch")

		third, err := sensor.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, third.FrameNumber)
	})

	t.Run("failed capture leaves detector state untouched", func(t *testing.T) {
		t.Parallel()
		f1 := testFrame(cfg, Span{10, 21}, 60, 20)
		f2 := testFrame(cfg, Span{11, 22}, 58, 21)

		flaky, err := NewSensor(cfg, &scriptedSource{steps: []scriptedStep{
			{frame: f1},
			{err: errors.New("checksum mismatch")},
			{frame: f2},
		}}, nil)
		require.NoError(t, err)

		control, err := NewSensor(cfg, frames(f1, f2), nil)
		require.NoError(t, err)

		r1, err := flaky.Read(ctx)
		require.NoError(t, err)
		c1, err := control.Read(ctx)
		require.NoError(t, err)
		require.Empty(t, cmp.Diff(c1, r1))

		_, err = flaky.Read(ctx)
		require.Error(t, err)

		r2, err := flaky.Read(ctx)
		require.NoError(t, err)
		c2, err := control.Read(ctx)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(c2, r2))
	})

	t.Run("wrong frame dimensions are a capture error", func(t *testing.T) {
		t.Parallel()
		sensor, err := NewSensor(cfg, frames(NewFrame(8, 8)), nil)
		require.NoError(t, err)

		_, err = sensor.Read(ctx)

		var capErr *CaptureError
		require.ErrorAs(t, err, &capErr)
		assert.ErrorContains(t, err, "8x8")
	})

	t.Run("reset restarts from frame one", func(t *testing.T) {
		t.Parallel()
		f := testFrame(cfg, Span{10, 21}, 60, 20)
		sensor, err := NewSensor(cfg, frames(f, f, f), nil)
		require.NoError(t, err)

		fresh, err := NewSensor(cfg, frames(f), nil)
		require.NoError(t, err)

		_, err = sensor.Read(ctx)
		require.NoError(t, err)
		_, err = sensor.Read(ctx)
		require.NoError(t, err)

		sensor.Reset()

		got, err := sensor.Read(ctx)
		require.NoError(t, err)
		want, err := fresh.Read(ctx)
		require.NoError(t, err)

		assert.Equal(t, 1, got.FrameNumber)
		assert.Empty(t, cmp.Diff(want, got))
	})

	t.Run("identical inputs give identical outputs", func(t *testing.T) {
		t.Parallel()
		a, err := NewSensor(cfg, NewSyntheticSource(cfg.SensorHeight, cfg.SensorWidth,
			Span{10, 21}, 60, 20, 1.0, 42), nil)
		require.NoError(t, err)
		b, err := NewSensor(cfg, NewSyntheticSource(cfg.SensorHeight, cfg.SensorWidth,
			Span{10, 21}, 60, 20, 1.0, 42), nil)
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			ra, err := a.Read(ctx)
			require.NoError(t, err)
			rb, err := b.Read(ctx)
			require.NoError(t, err)
			require.Empty(t, cmp.Diff(ra, rb))
		}
	})

	t.Run("converged uniform signal falls back to the held span", func(t *testing.T) {
		t.Parallel()
		band := testFrame(cfg, Span{10, 21}, 60, 20)
		uniform := testFrame(cfg, Span{0, 0}, 0, 40)

		fs := []*Frame{band}
		for i := 0; i < 15; i++ {
			fs = append(fs, uniform)
		}
		sensor, err := NewSensor(cfg, frames(fs...), nil)
		require.NoError(t, err)

		prev, err := sensor.Read(ctx)
		require.NoError(t, err)

		var last *FrameResult
		for i := 0; i < 15; i++ {
			last, err = sensor.Read(ctx)
			require.NoError(t, err)
			if last.Detection.Method == MethodHeldUniform {
				break
			}
			prev = last
		}

		require.Equal(t, MethodHeldUniform, last.Detection.Method)
		assert.Equal(t, prev.Detection.SpanStart, last.Detection.SpanStart)
		assert.Equal(t, prev.Detection.SpanEnd, last.Detection.SpanEnd)
		assert.Contains(t, last.Warnings, "Uniform temp - using previous detection")
	})

	t.Run("confidence history caps at ten", func(t *testing.T) {
		t.Parallel()
		f := testFrame(cfg, Span{10, 21}, 60, 20)
		fs := make([]*Frame, 12)
		for i := range fs {
			fs[i] = f
		}
		sensor, err := NewSensor(cfg, frames(fs...), nil)
		require.NoError(t, err)

		for i := 0; i < 12; i++ {
			_, err := sensor.Read(ctx)
			require.NoError(t, err)
		}

		history := sensor.ConfidenceHistory()
		assert.Len(t, history, 10)
		for _, c := range history {
			assert.GreaterOrEqual(t, c, 0.0)
			assert.LessOrEqual(t, c, 1.0)
		}
	})
}

func TestNewSensor(t *testing.T) {
	t.Parallel()

	t.Run("rejects invalid config", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.EMAAlpha = 2.0

		_, err := NewSensor(cfg, frames(), nil)

		assert.ErrorContains(t, err, "invalid sensor config")
	})

	t.Run("rejects nil source", func(t *testing.T) {
		t.Parallel()
		_, err := NewSensor(DefaultConfig(), nil, nil)
		assert.ErrorContains(t, err, "nil frame source")
	})

	t.Run("exposes the construction config", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		sensor, err := NewSensor(cfg, frames(), ExactReducer{})
		require.NoError(t, err)

		assert.Equal(t, cfg, sensor.Config())
	})
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default is valid", func(c *Config) {}, ""},
		{"zero width", func(c *Config) { c.SensorWidth = 0 }, "sensor dimensions"},
		{"band past bottom", func(c *Config) { c.StartRow = 22 }, "row band"},
		{"centre outside width", func(c *Config) { c.CentreCol = 32 }, "centre column"},
		{"inverted temp limits", func(c *Config) { c.MinTemp = 200 }, "temperature limits inverted"},
		{"width bounds out of order", func(c *Config) { c.MinTyreWidth = 30 }, "width bounds"},
		{"max width past sensor", func(c *Config) { c.MaxTyreWidth = 40 }, "exceeds sensor width"},
		{"alpha above one", func(c *Config) { c.EMAAlpha = 1.5 }, "ema alpha"},
		{"zero filter size", func(c *Config) { c.SpatialFilterSize = 0 }, "spatial filter size"},
		{"zero persistence", func(c *Config) { c.PersistenceFrames = 0 }, "persistence frames"},
		{"negative change ratio", func(c *Config) { c.MaxWidthChangeRatio = -0.1 }, "change ratio"},
		{"zero fail count", func(c *Config) { c.MaxFailCount = 0 }, "fail count"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
