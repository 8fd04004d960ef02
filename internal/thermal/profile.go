package thermal

// band is the extracted contact-patch row band: cfg.MiddleRows rows of
// cfg.SensorWidth columns, hot-pixel suppressed.
type band [][]float64

// extractBand copies the middle rows out of the frame and suppresses
// brake-plume contamination: any cell above BrakeTempThreshold is replaced by
// the central tendency of its up-to-8 in-band neighbours that are themselves
// at or below the threshold. Cells with no qualifying neighbour are left as
// read. The scan mutates the band in place row-major, so a replacement can
// feed the neighbourhood of a later hot cell.
func extractBand(f *Frame, cfg Config, red Reducer) band {
	rows := make(band, cfg.MiddleRows)
	for i := 0; i < cfg.MiddleRows; i++ {
		rows[i] = f.Row(cfg.StartRow + i)
	}

	for r := range rows {
		for c := range rows[r] {
			if rows[r][c] <= cfg.BrakeTempThreshold {
				continue
			}
			var neighbours []float64
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					nr, nc := r+dr, c+dc
					if nr < 0 || nr >= len(rows) || nc < 0 || nc >= len(rows[nr]) {
						continue
					}
					if rows[nr][nc] <= cfg.BrakeTempThreshold {
						neighbours = append(neighbours, rows[nr][nc])
					}
				}
			}
			if len(neighbours) > 0 {
				rows[r][c] = red.Central(neighbours)
			}
		}
	}

	return rows
}

// collapse reduces the band to a single lateral profile, one value per
// column.
func (b band) collapse(cfg Config, red Reducer) []float64 {
	profile := make([]float64, cfg.SensorWidth)
	col := make([]float64, len(b))
	for c := 0; c < cfg.SensorWidth; c++ {
		for r := range b {
			col[r] = b[r][c]
		}
		profile[c] = red.Central(col)
	}
	return profile
}

// spatialFilter clamps each sample into [MinTemp, MaxTemp] and then applies a
// sliding window of SpatialFilterSize using the reducer's central tendency.
// The window shrinks at the array edges; there is no wraparound.
func spatialFilter(profile []float64, cfg Config, red Reducer) []float64 {
	clamped := make([]float64, len(profile))
	for i, t := range profile {
		clamped[i] = clamp(t, cfg.MinTemp, cfg.MaxTemp)
	}

	out := make([]float64, len(clamped))
	half := cfg.SpatialFilterSize / 2
	for i := range clamped {
		lo := max(0, i-half)
		hi := min(len(clamped), i+half+1)
		out[i] = red.Central(clamped[lo:hi])
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
