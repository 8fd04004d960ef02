package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/tyre.report/internal/thermal"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "tyre.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testResult(frame int) *thermal.FrameResult {
	return &thermal.FrameResult{
		FrameNumber: frame,
		Analysis: thermal.TyreAnalysis{
			Left:            thermal.SectionStats{Avg: 58.1, Median: 58.0, Min: 55.0, Max: 61.0, Std: 1.2},
			Centre:          thermal.SectionStats{Avg: 60.9, Median: 61.0, Min: 58.5, Max: 63.2, Std: 1.5},
			Right:           thermal.SectionStats{Avg: 59.5, Median: 59.5, Min: 57.0, Max: 62.0, Std: 1.1},
			LateralGradient: 2.8,
		},
		Detection: thermal.Detection{
			Method:     thermal.MethodRegionGrowing,
			SpanStart:  10,
			SpanEnd:    21,
			Width:      11,
			Confidence: 0.85,
			Clipped:    thermal.ClipNone,
		},
		TemperatureProfile: []float64{20.0, 60.0, 20.0},
		Warnings:           []string{"High temp: 63.2C"},
	}
}

func TestStoreSessions(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	first, err := s.StartSession("morning run")
	require.NoError(t, err)
	second, err := s.StartSession("afternoon run")
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestStoreRecordFrame(t *testing.T) {
	t.Parallel()

	t.Run("records and counts frames per session", func(t *testing.T) {
		t.Parallel()
		s := openTestStore(t)

		session, err := s.StartSession("test")
		require.NoError(t, err)
		other, err := s.StartSession("other")
		require.NoError(t, err)

		require.NoError(t, s.RecordFrame(session, testResult(1)))
		require.NoError(t, s.RecordFrame(session, testResult(2)))
		require.NoError(t, s.RecordFrame(other, testResult(1)))

		n, err := s.FrameCount(session)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = s.FrameCount(other)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("duplicate frame numbers are rejected", func(t *testing.T) {
		t.Parallel()
		s := openTestStore(t)

		session, err := s.StartSession("test")
		require.NoError(t, err)

		require.NoError(t, s.RecordFrame(session, testResult(1)))
		assert.Error(t, s.RecordFrame(session, testResult(1)))
	})
}

func TestStoreLoadFrame(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	session, err := s.StartSession("test")
	require.NoError(t, err)

	orig := testResult(7)
	require.NoError(t, s.RecordFrame(session, orig))

	got, err := s.LoadFrame(session, 7)
	require.NoError(t, err)

	assert.Equal(t, orig.FrameNumber, got.FrameNumber)
	assert.Equal(t, orig.Detection.Method, got.Detection.Method)
	assert.Equal(t, orig.Detection.SpanStart, got.Detection.SpanStart)
	assert.Equal(t, orig.Detection.SpanEnd, got.Detection.SpanEnd)
	assert.Equal(t, orig.Warnings, got.Warnings)
	assert.InDelta(t, orig.Detection.Confidence, got.Detection.Confidence, 0.0005)
	assert.InDelta(t, orig.Analysis.Centre.Avg, got.Analysis.Centre.Avg, 0.005)

	_, err = s.LoadFrame(session, 99)
	assert.Error(t, err)
}
