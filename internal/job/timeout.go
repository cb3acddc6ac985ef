package job

import (
	"context"
	"time"
)

// withStepTimeout derives a context bounded by timeoutMinutes, the
// wall-clock budget spec §4.3 assigns to a single step.
func withStepTimeout(parent context.Context, timeoutMinutes float64) (context.Context, context.CancelFunc) {
	if timeoutMinutes <= 0 {
		return context.WithCancel(parent)
	}
	d := time.Duration(timeoutMinutes * float64(time.Minute))
	return context.WithTimeout(parent, d)
}
