package telemetry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/banshee-data/tyre.report/internal/thermal"
)

// CompactRecord is the low-bandwidth per-frame summary carried by the CSV
// line form. It omits the profile and detection detail.
type CompactRecord struct {
	FrameNumber  int
	LeftAvg      float64
	CentreAvg    float64
	RightAvg     float64
	Confidence   float64
	WarningCount int
}

// CompactLine renders the newline-terminated CSV form:
// frame_number,left_avg,centre_avg,right_avg,confidence,warnings_count
// with temperatures at 1dp and confidence at 2dp.
func CompactLine(r *thermal.FrameResult) string {
	return fmt.Sprintf("%d,%.1f,%.1f,%.1f,%.2f,%d\n",
		r.FrameNumber,
		r.Analysis.Left.Avg,
		r.Analysis.Centre.Avg,
		r.Analysis.Right.Avg,
		r.Detection.Confidence,
		len(r.Warnings))
}

// ParseCompactLine parses one CSV line back into a CompactRecord. Trailing
// newline is tolerated.
func ParseCompactLine(line string) (CompactRecord, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != 6 {
		return CompactRecord{}, fmt.Errorf("compact line has %d fields, want 6", len(fields))
	}

	var rec CompactRecord
	var err error

	if rec.FrameNumber, err = strconv.Atoi(fields[0]); err != nil {
		return CompactRecord{}, fmt.Errorf("frame number %q: %w", fields[0], err)
	}
	if rec.LeftAvg, err = strconv.ParseFloat(fields[1], 64); err != nil {
		return CompactRecord{}, fmt.Errorf("left avg %q: %w", fields[1], err)
	}
	if rec.CentreAvg, err = strconv.ParseFloat(fields[2], 64); err != nil {
		return CompactRecord{}, fmt.Errorf("centre avg %q: %w", fields[2], err)
	}
	if rec.RightAvg, err = strconv.ParseFloat(fields[3], 64); err != nil {
		return CompactRecord{}, fmt.Errorf("right avg %q: %w", fields[3], err)
	}
	if rec.Confidence, err = strconv.ParseFloat(fields[4], 64); err != nil {
		return CompactRecord{}, fmt.Errorf("confidence %q: %w", fields[4], err)
	}
	if rec.WarningCount, err = strconv.Atoi(fields[5]); err != nil {
		return CompactRecord{}, fmt.Errorf("warnings count %q: %w", fields[5], err)
	}

	return rec, nil
}
