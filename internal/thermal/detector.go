package thermal

// spanDetector finds the lateral tyre span in a smoothed profile and carries
// the cross-frame state that stabilises it: the previous span and width plus
// the persistence buffer of recent constrained spans.
type spanDetector struct {
	cfg Config
	red Reducer

	prevSpan     *Span
	prevWidth    int
	hasPrevWidth bool
	persistence  *ring[Span]
}

func newSpanDetector(cfg Config, red Reducer) *spanDetector {
	return &spanDetector{
		cfg:         cfg,
		red:         red,
		persistence: newRing[Span](cfg.PersistenceFrames),
	}
}

// Detect runs adaptive-threshold region growing (or the uniform-signal
// fallback) over the smoothed profile. It never fails: the worst case reuses
// the previous span. Confidence is scored separately by the sensor.
func (d *spanDetector) Detect(profile []float64) Detection {
	medianTemp := d.red.Central(profile)
	madGlobal := d.red.Spread(profile)

	var (
		span     Span
		method   string
		inverted bool
		delta    float64
	)
	centreTemp := profile[d.cfg.CentreCol]

	if madGlobal < d.cfg.MADUniformThreshold && d.prevSpan != nil {
		// Near-uniform signal carries no edge information; hold the last
		// span rather than chase noise.
		span = *d.prevSpan
		method = MethodHeldUniform
	} else {
		delta = d.cfg.DeltaFloor
		if scaled := d.cfg.DeltaMultiplier * madGlobal; scaled > delta {
			delta = scaled
		}
		inverted = centreTemp < medianTemp-delta

		span = d.growRegion(profile, medianTemp, delta, inverted)
		span = d.applyConstraints(span)
		span = d.smoothSpan(span)
		method = MethodRegionGrowing
	}

	d.prevSpan = &Span{Start: span.Start, End: span.End}
	d.prevWidth = span.Width()
	d.hasPrevWidth = true

	return Detection{
		Method:         method,
		SpanStart:      span.Start,
		SpanEnd:        span.End,
		Width:          span.Width(),
		Inverted:       inverted,
		Clipped:        d.classifyClipping(span),
		MADGlobal:      madGlobal,
		MedianTemp:     medianTemp,
		CentreTemp:     centreTemp,
		ThresholdDelta: delta,
	}
}

// growRegion expands independently left and right from the seed column. A
// column is accepted when it is within the local tolerance k of the seed
// temperature, or when it clears the global contrast criterion. Growth in a
// direction halts after MaxFailCount consecutive rejections, which tolerates
// isolated noise columns but stops quickly at true background.
func (d *spanDetector) growRegion(profile []float64, medianTemp, delta float64, inverted bool) Span {
	centre := d.cfg.CentreCol
	seedTemp := profile[centre]

	// Local spread over a symmetric 5-column window around the seed.
	const localWindow = 5
	lo := max(0, centre-localWindow/2)
	hi := min(len(profile), centre+localWindow/2+1)
	localSpread := d.red.Spread(profile[lo:hi])

	k := d.cfg.KFloor
	if scaled := d.cfg.KMultiplier * localSpread; scaled > k {
		k = scaled
	}

	accepts := func(temp float64) bool {
		if temp-seedTemp <= k && seedTemp-temp <= k {
			return true
		}
		if inverted {
			return temp <= medianTemp-delta
		}
		return temp >= medianTemp+delta
	}

	left, right := centre, centre

	failCount := 0
	for col := centre - 1; col >= 0; col-- {
		if accepts(profile[col]) {
			left = col
			failCount = 0
		} else {
			failCount++
			if failCount >= d.cfg.MaxFailCount {
				break
			}
		}
	}

	failCount = 0
	for col := centre + 1; col < len(profile); col++ {
		if accepts(profile[col]) {
			right = col
			failCount = 0
		} else {
			failCount++
			if failCount >= d.cfg.MaxFailCount {
				break
			}
		}
	}

	return Span{Start: left, End: right + 1}
}

// applyConstraints enforces the absolute width bounds and then the bounded
// per-frame width-change rate against the previous frame.
func (d *spanDetector) applyConstraints(span Span) Span {
	left, right := span.Start, span.End
	width := right - left

	if width < d.cfg.MinTyreWidth {
		centre := (left + right) / 2
		half := d.cfg.MinTyreWidth / 2
		left = max(0, centre-half)
		right = min(d.cfg.SensorWidth, left+d.cfg.MinTyreWidth)
	} else if width > d.cfg.MaxTyreWidth {
		// Odd excess comes off the right.
		excess := width - d.cfg.MaxTyreWidth
		left += excess / 2
		right -= excess - excess/2
	}

	if d.hasPrevWidth {
		newWidth := right - left
		maxChange := int(float64(d.prevWidth) * d.cfg.MaxWidthChangeRatio)

		if newWidth > d.prevWidth+maxChange {
			shrink := newWidth - (d.prevWidth + maxChange)
			left += shrink / 2
			right -= shrink - shrink/2
		} else if newWidth < d.prevWidth-maxChange {
			capped := d.prevWidth - maxChange
			centre := (left + right) / 2
			left = max(0, centre-capped/2)
			right = min(d.cfg.SensorWidth, left+capped)
		}
	}

	return Span{Start: left, End: right}
}

// smoothSpan appends the constrained span to the persistence buffer and
// returns the recency-weighted average of the buffered spans. Weights grow
// quadratically with recency; boundaries are floored to integer columns. A
// single-sample buffer returns its span unchanged.
func (d *spanDetector) smoothSpan(span Span) Span {
	d.persistence.Add(span)
	if d.persistence.Len() < 2 {
		return span
	}

	var weightedLeft, weightedRight, totalWeight float64
	for i, s := range d.persistence.Items() {
		w := float64((i + 1) * (i + 1))
		weightedLeft += float64(s.Start) * w
		weightedRight += float64(s.End) * w
		totalWeight += w
	}

	return Span{
		Start: int(weightedLeft / totalWeight),
		End:   int(weightedRight / totalWeight),
	}
}

func (d *spanDetector) classifyClipping(span Span) string {
	switch {
	case span.Start == 0 && span.End == d.cfg.SensorWidth:
		return ClipBothEdges
	case span.Start == 0:
		return ClipLeftEdge
	case span.End == d.cfg.SensorWidth:
		return ClipRightEdge
	default:
		return ClipNone
	}
}

// Reset clears all cross-frame detection state.
func (d *spanDetector) Reset() {
	d.prevSpan = nil
	d.prevWidth = 0
	d.hasPrevWidth = false
	d.persistence.Reset()
}
