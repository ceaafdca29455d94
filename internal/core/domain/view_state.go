package domain

// ViewStatus is the lifecycle phase of the derived-view state machine.
type ViewStatus string

const (
	StatusIdle    ViewStatus = "IDLE"
	StatusLoading ViewStatus = "LOADING"
	StatusReady   ViewStatus = "READY"
	StatusError   ViewStatus = "ERROR"
)

// ViewState is the single surface exposed to presentation layers. On error
// Data and Report are nil: a statement derived from an incomplete decrypt is
// never displayed.
type ViewState struct {
	Status ViewStatus
	Data   *DecryptedAccountingData
	Report *BooksReport
	Err    error
}

// IsLoading reports whether a load is in flight.
func (s ViewState) IsLoading() bool {
	return s.Status == StatusLoading
}

// ViewEvent is an input to the view-state transition function.
type ViewEvent interface {
	isViewEvent()
}

// EventLoadStarted transitions the state machine into loading. Raised when
// the period, currency or decryption key changes.
type EventLoadStarted struct{}

// EventLoadSucceeded commits a successfully derived result.
type EventLoadSucceeded struct {
	Data   *DecryptedAccountingData
	Report *BooksReport
}

// EventLoadFailed records a fetch, decryption or derivation failure.
type EventLoadFailed struct {
	Err error
}

// EventReset returns the state machine to idle, dropping any held data.
type EventReset struct{}

func (EventLoadStarted) isViewEvent()   {}
func (EventLoadSucceeded) isViewEvent() {}
func (EventLoadFailed) isViewEvent()    {}
func (EventReset) isViewEvent()         {}

// Reduce is the pure transition function of the idle → loading → ready|error
// machine. Any UI framework can render the result via subscription.
func Reduce(state ViewState, event ViewEvent) ViewState {
	switch ev := event.(type) {
	case EventLoadStarted:
		// Held data is dropped immediately so a slow load can never be
		// presented next to a stale statement.
		return ViewState{Status: StatusLoading}
	case EventLoadSucceeded:
		return ViewState{Status: StatusReady, Data: ev.Data, Report: ev.Report}
	case EventLoadFailed:
		return ViewState{Status: StatusError, Err: ev.Err}
	case EventReset:
		return ViewState{Status: StatusIdle}
	default:
		return state
	}
}
