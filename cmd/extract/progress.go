package main

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// newBar renders percent progress for jobs videos. Each job contributes
// 100 steps so several jobs can share one bar.
func newBar(w io.Writer, jobs int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(jobs*100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionSetPredictTime(false),
	)
}

// barObserver forwards one job's progress to a shared bar.
type barObserver struct {
	bar  *progressbar.ProgressBar
	last int
}

func (o *barObserver) OnProgress(progress float64) {
	pct := int(progress * 100)
	if pct <= o.last {
		return
	}
	_ = o.bar.Add(pct - o.last)
	o.last = pct
}
