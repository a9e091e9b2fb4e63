package conversion

// State is a stage of the batch state machine
type State int

const (
	StateIdle State = iota
	StateClearing
	StateProcessing
	StateBundling
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateClearing:
		return "clearing"
	case StateProcessing:
		return "processing"
	case StateBundling:
		return "bundling"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Progress is an observation emitted while a batch runs
type Progress struct {
	State     State
	Completed int
	Total     int
	Current   string // Name of the item being processed, empty outside processing
}

// ProgressObserver receives progress notifications. Implementations must not block.
type ProgressObserver interface {
	OnProgress(Progress)
}

// ProgressFunc adapts a function to ProgressObserver
type ProgressFunc func(Progress)

// OnProgress implements ProgressObserver
func (f ProgressFunc) OnProgress(p Progress) {
	f(p)
}
