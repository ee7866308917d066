package delivery

// State is a step of the per-recipient delivery machine.
type State string

const (
	StateNavigating         State = "NAVIGATING"
	StateAwaitingChat       State = "AWAITING_CHAT"
	StateAttaching          State = "ATTACHING"
	StateAwaitingFileDialog State = "AWAITING_FILE_DIALOG"
	StateFileSet            State = "FILE_SET"
	StateAwaitingSendReady  State = "AWAITING_SEND_READY"
	StateSending            State = "SENDING"
	StateConfirmed          State = "CONFIRMED"

	// Terminal failure states.
	StateRejected        State = "REJECTED"
	StateChatUnavailable State = "CHAT_UNAVAILABLE"
	StateTimeout         State = "TIMEOUT"
	StateError           State = "ERROR"
)

func (s State) String() string { return string(s) }

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool {
	switch s {
	case StateConfirmed, StateRejected, StateChatUnavailable, StateTimeout, StateError:
		return true
	}
	return false
}

// Status is the coarse outcome reported to operators and the status sink.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
	StatusError   Status = "ERROR"
)

func (s Status) String() string { return string(s) }

// Valid reports whether s is one of the three reportable statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusError:
		return true
	}
	return false
}

// Kind classifies why an attempt did not succeed.
type Kind string

const (
	KindNone                 Kind = ""
	KindValidation           Kind = "VALIDATION"
	KindNotFound             Kind = "NOT_FOUND"
	KindUnreachableRecipient Kind = "UNREACHABLE_RECIPIENT"
	KindTimeout              Kind = "TIMEOUT"
	KindTransient            Kind = "TRANSIENT_ERROR"
	KindReportingFailure     Kind = "REPORTING_FAILURE"
)

func (k Kind) String() string { return string(k) }

// Permanent reports whether retrying the same recipient cannot help.
func (k Kind) Permanent() bool {
	switch k {
	case KindValidation, KindNotFound, KindUnreachableRecipient:
		return true
	}
	return false
}
