package neohub

import (
	"errors"
	"fmt"
)

var (
	ErrConfig    = errors.New("neohub: invalid configuration")
	ErrTransport = errors.New("neohub: transport error")
	ErrTimeout   = errors.New("neohub: timed out")
	ErrProtocol  = errors.New("neohub: protocol error")
	ErrPayload   = errors.New("neohub: unexpected response payload")
	ErrClosed    = errors.New("neohub: session closed")
	ErrRejected  = errors.New("neohub: command rejected by hub")

	// ErrSessionUnusable is returned once an exchange timed out or the stream
	// failed. The hub may still send the late reply, so the connection cannot
	// be trusted to be in sync.
	ErrSessionUnusable = errors.New("neohub: session unusable after failed exchange")
)

// ProtocolError reports a reply frame that violates the envelope contract.
type ProtocolError struct {
	Reason   string
	Frame    []byte
	Response *Response
	Err      error
}

func (e *ProtocolError) Error() string {
	if e.Response != nil {
		return fmt.Sprintf("%v: %s: %+v", ErrProtocol, e.Reason, *e.Response)
	}
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v (frame %q)", ErrProtocol, e.Reason, e.Err, e.Frame)
	}
	return fmt.Sprintf("%v: %s (frame %q)", ErrProtocol, e.Reason, e.Frame)
}

func (e *ProtocolError) Is(target error) bool { return target == ErrProtocol }

func (e *ProtocolError) Unwrap() error { return e.Err }

// PayloadError reports a response that does not fit the caller's result type.
type PayloadError struct {
	Command string
	Raw     string
	Err     error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("%v: reading %q response %q: %v", ErrPayload, e.Command, e.Raw, e.Err)
}

func (e *PayloadError) Is(target error) bool { return target == ErrPayload }

func (e *PayloadError) Unwrap() error { return e.Err }
