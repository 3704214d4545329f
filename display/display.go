// Package display holds the display-injection contract and the
// cancellation/pause primitives every top-level solver loop polls.
//
// Grounded on original_source/router/src/display_injection.rs and
// command_flags.rs.
package display

import "sync/atomic"

// CommandLevel encodes how granularly the worker thread pauses for
// visualization: level 0 blocks at every A* node expansion, level 4 runs to
// completion without blocking.
type CommandLevel uint8

const (
	// AstarFrontierOrUpdatePosterior blocks at every A* node expansion or
	// posterior-update round.
	AstarFrontierOrUpdatePosterior CommandLevel = iota
	// AstarInOut blocks once per A* invocation (start/end).
	AstarInOut
	// UpdatePosteriorResult blocks once per posterior-update pass result.
	UpdatePosteriorResult
	// ProbaModelResult blocks once per probabilistic-model rebuild.
	ProbaModelResult
	// Auto runs to completion without blocking.
	Auto
)

// Level returns the numeric level (0-4) used to compare against the
// process-wide TargetCommandLevel.
func (c CommandLevel) Level() int { return int(c) }

// TargetCommandLevel is the process-wide atomic target pause granularity
// (spec.md §5's "global atomic target command level").
var TargetCommandLevel int32 = int32(Auto)

// ShouldBlock reports whether a loop running at taskLevel should render and
// block, given the current TargetCommandLevel.
func ShouldBlock(taskLevel CommandLevel) bool {
	return atomic.LoadInt32(&TargetCommandLevel) <= int32(taskLevel)
}

// Injection is the three-function display/cancellation contract passed
// through every core entry point, avoiding a callback-of-callback tower
// (spec.md §9 Design Notes).
type Injection struct {
	StopRequested        *int32 // atomic flag; non-zero means cancelled.
	CanSubmitRenderModel func() bool
	SubmitRenderModel    func(interface{})
	BlockUntilSignal     func()
}

// NewNoop returns an Injection whose callbacks are all no-ops and whose
// stop flag starts cleared (RequestStop can still set it) — useful for
// headless runs (tests, the CLI's default
// mode) where no shell is attached.
func NewNoop() *Injection {
	var stop int32
	return &Injection{
		StopRequested:        &stop,
		CanSubmitRenderModel: func() bool { return false },
		SubmitRenderModel:    func(interface{}) {},
		BlockUntilSignal:     func() {},
	}
}

// Cancelled reports whether the stop flag has been observed.
func (inj *Injection) Cancelled() bool {
	return atomic.LoadInt32(inj.StopRequested) != 0
}

// RequestStop sets the stop flag.
func (inj *Injection) RequestStop() {
	atomic.StoreInt32(inj.StopRequested, 1)
}

// DisplayWhenNecessary renders (and blocks, if the target level requires
// it for taskLevel) the current render model, built lazily by buildModel
// only when a render is actually going to be submitted. Grounded on the
// `display_when_necessary` closure duplicated across proba_model.rs,
// bayesian_backtrack_algo.rs and naive_backtrack_algo.rs.
func (inj *Injection) DisplayWhenNecessary(taskLevel CommandLevel, buildModel func() interface{}) {
	if ShouldBlock(taskLevel) {
		inj.SubmitRenderModel(buildModel())
		inj.BlockUntilSignal()
		return
	}
	if inj.CanSubmitRenderModel() {
		inj.SubmitRenderModel(buildModel())
	}
}
