package protocol

import "fmt"

// DecodeErrorKind enumerates the classes of malformed backend output.
// These are fatal to the daemon: a desynchronised codec cannot safely
// continue reading the backend's byte stream.
type DecodeErrorKind string

const (
	InvalidXML             DecodeErrorKind = "InvalidXML"
	InvalidUnit            DecodeErrorKind = "InvalidUnit"
	InvalidList            DecodeErrorKind = "InvalidList"
	InvalidPair            DecodeErrorKind = "InvalidPair"
	InvalidOption          DecodeErrorKind = "InvalidOption"
	InvalidStateId         DecodeErrorKind = "InvalidStateId"
	InvalidValue           DecodeErrorKind = "InvalidValue"
	InvalidRichPP          DecodeErrorKind = "InvalidRichPP"
	InvalidFeedback        DecodeErrorKind = "InvalidFeedback"
	InvalidFeedbackContent DecodeErrorKind = "InvalidFeedbackContent"
	InvalidGoals           DecodeErrorKind = "InvalidGoals"
	InvalidGoal            DecodeErrorKind = "InvalidGoal"
)

// DecodeError is a ProtocolDecodeError: the backend sent something the
// codec cannot interpret. Detail carries a human-readable hint; Kind is
// what callers should switch on.
type DecodeError struct {
	Kind   DecodeErrorKind
	Detail string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("protocol decode error (%s): %s", e.Kind, e.Detail)
}

func newDecodeError(kind DecodeErrorKind, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
