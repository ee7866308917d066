package delivery

import (
	"errors"
	"fmt"
)

// Messages reported for the fixed failure classes.
const (
	MessageSent             = "Message sent"
	MessageInvalidNumber    = "Invalid phone number"
	MessageNotOnWhatsApp    = "Number not on WhatsApp"
	MessageChatLoadTimeout  = "Chat load timeout"
	messageArtifactNotFound = "PDF not found: %s"
)

// Outcome is the terminal result of one delivery attempt.
//
// A CONFIRMED outcome means the send control was clicked and no error was
// observed during the confirmation delay. The remote UI exposes no delivery
// signal at this layer, so it is not proof of delivery.
type Outcome struct {
	State   State
	Kind    Kind
	Message string
	// FailedAt is the state that was active when the attempt failed.
	FailedAt State
	Err      error
}

// Status maps the terminal state to the reportable status.
func (o Outcome) Status() Status {
	switch o.State {
	case StateConfirmed:
		return StatusSuccess
	case StateError:
		return StatusError
	default:
		return StatusFailed
	}
}

// OK reports whether the attempt was confirmed.
func (o Outcome) OK() bool { return o.State == StateConfirmed }

func (o Outcome) String() string {
	if o.FailedAt != "" {
		return fmt.Sprintf("%s at %s: %s", o.State, o.FailedAt, o.Message)
	}
	return fmt.Sprintf("%s: %s", o.State, o.Message)
}

// Confirmed builds the success outcome.
func Confirmed() Outcome {
	return Outcome{State: StateConfirmed, Message: MessageSent}
}

// InvalidNumber builds the outcome for a number that failed normalization.
func InvalidNumber() Outcome {
	return Outcome{State: StateRejected, Kind: KindValidation, Message: MessageInvalidNumber}
}

// ArtifactMissing builds the outcome for a recipient without a document.
func ArtifactMissing(path string) Outcome {
	return Outcome{
		State:   StateRejected,
		Kind:    KindNotFound,
		Message: fmt.Sprintf(messageArtifactNotFound, path),
	}
}

// Failed wraps err as an ERROR outcome raised while in state at.
// The message is the error text, unmodified; callers that need the failing
// step add it to Err.
func Failed(at State, err error) Outcome {
	if err == nil {
		err = errors.New("unknown error")
	}
	return Outcome{
		State:    StateError,
		Kind:     KindTransient,
		Message:  err.Error(),
		FailedAt: at,
		Err:      err,
	}
}
