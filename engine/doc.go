// Package engine implements the fixed execution lifecycle shared by read
// and write pipelines:
//
//	VALIDATE → CONTEXT_INIT → STEP_LOOP → BUILD_RESPONSE → [POST_EXECUTION] → DONE
//
// Any phase can instead terminate the invocation with a *flowstep.Error.
// The step list is produced exactly once, before the loop starts, by a pure
// function of the request and the fresh context; conditional step
// selection can therefore depend only on request fields, never on another
// step's output. The first failed outcome short-circuits the loop.
//
// The engine catches panics and unexpected runtime faults only at the
// Execute boundary and collapses them into the fixed generic System error;
// internal fault detail is logged, never surfaced.
//
// [WritePipeline] differs from [ReadPipeline] in two hook points: a
// context-init hook that attaches audit metadata before the loop, and a
// post-execution hook that runs after the response has been built,
// intended to drain the context's events to an external dispatcher.
package engine
