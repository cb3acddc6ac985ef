// Package progress decouples the Scheduler from any particular UI: it emits
// to a Reporter interface, grounded directly on the teacher's
// packages/core/progress.Reporter, re-keyed from "workflow prepare/run"
// events to this domain's job/step events.
package progress

import "time"

// Reporter receives scheduler lifecycle events. A CLI can implement this
// with colored terminal output; tests use NoOp.
type Reporter interface {
	OnJobStart(id, name string)
	OnJobSkip(id, name, reason string)
	OnStepStart(jobID string, index int, command string)
	OnStepFinish(jobID string, index, returnCode int)
	OnJobFinish(id, name string, returnCode int, duration time.Duration)
	OnError(err error)
}

// NoOp is a Reporter that does nothing, the default when no caller supplies
// one (e.g. in tests or non-interactive batch submission).
type NoOp struct{}

func (NoOp) OnJobStart(id, name string)                                               {}
func (NoOp) OnJobSkip(id, name, reason string)                                        {}
func (NoOp) OnStepStart(jobID string, index int, command string)                      {}
func (NoOp) OnStepFinish(jobID string, index, returnCode int)                         {}
func (NoOp) OnJobFinish(id, name string, returnCode int, duration time.Duration)       {}
func (NoOp) OnError(err error)                                                        {}
