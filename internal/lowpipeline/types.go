package lowpipeline

import "time"

// Stage describes a high-level phase of lowering one function.
type Stage string

const (
	// StageMangle covers name mangling and function-builder instantiation.
	StageMangle Stage = "mangle"
	// StageLower covers visiting the function body.
	StageLower Stage = "lower"
	// StageFinalize covers builder.Build and package registration.
	StageFinalize Stage = "finalize"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the function is waiting for its wave to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the function is currently being lowered.
	StatusWorking Status = "working"
	// StatusDone indicates the function finished lowering successfully.
	StatusDone Status = "done"
	// StatusError indicates lowering failed for this function.
	StatusError Status = "error"
)

// Event reports progress for one function within one dependency wave.
type Event struct {
	Func    string
	Mangled string
	Wave    int
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events emitted while Run walks a
// module's functions in dependency order.
type ProgressSink interface {
	OnEvent(Event)
}

// NopSink discards every event; the zero value is ready to use.
type NopSink struct{}

func (NopSink) OnEvent(Event) {}

// emit reports ev to sink if sink is non-nil.
func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
