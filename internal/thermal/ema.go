package thermal

// emaFilter is the per-column exponential moving average across frames. The
// first observed profile seeds the state verbatim; subsequent updates blend
// pointwise with alpha.
type emaFilter struct {
	alpha   float64
	profile []float64
}

// Update folds the new profile into the EMA state and returns a snapshot
// copy. Callers never see the internal slice.
func (e *emaFilter) Update(profile []float64) []float64 {
	if e.profile == nil {
		e.profile = make([]float64, len(profile))
		copy(e.profile, profile)
	} else {
		for i := range profile {
			e.profile[i] = e.alpha*profile[i] + (1-e.alpha)*e.profile[i]
		}
	}

	snapshot := make([]float64, len(e.profile))
	copy(snapshot, e.profile)
	return snapshot
}

// Reset discards the EMA state; the next update seeds it afresh.
func (e *emaFilter) Reset() {
	e.profile = nil
}

// Seeded reports whether the filter has observed at least one profile.
func (e *emaFilter) Seeded() bool {
	return e.profile != nil
}
