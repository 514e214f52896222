package extract

// Plan returns the frame indices to sample from a video with totalFrames
// frames so that requested frames are spread evenly across it.
//
// The sample interval is totalFrames / requested, truncated. Indices step
// from zero by that interval while they stay below totalFrames. When
// totalFrames is not a multiple of requested the tail of the video still
// gets sampled, so the plan may hold more than requested entries.
func Plan(totalFrames, requested int) ([]int, error) {
	if requested <= 0 {
		return nil, &InvalidPlanError{TotalFrames: totalFrames, Requested: requested}
	}
	interval := totalFrames / requested
	if interval == 0 {
		return nil, &InvalidPlanError{TotalFrames: totalFrames, Requested: requested}
	}

	indices := make([]int, 0, (totalFrames+interval-1)/interval)
	for i := 0; i < totalFrames; i += interval {
		indices = append(indices, i)
	}
	return indices, nil
}

// PlanCapped is Plan truncated to at most requested indices.
func PlanCapped(totalFrames, requested int) ([]int, error) {
	indices, err := Plan(totalFrames, requested)
	if err != nil {
		return nil, err
	}
	if len(indices) > requested {
		indices = indices[:requested]
	}
	return indices, nil
}
