package beaconhttp

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every way a beacon API interaction can fail. Nothing
// is ever swallowed: each failure path produces exactly one *ApiError that
// reaches the caller as a value.
type ErrorKind uint8

const (
	KindNetwork ErrorKind = iota + 1 // transport failure, likely transient
	KindHTTPStatus                   // server explicitly rejected the request
	KindDecode                       // body or event payload did not match the expected shape
	KindUnrecognizedEvent            // event tag outside the known taxonomy
	KindStreamClosed                 // terminal state of a subscription
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTPStatus:
		return "http status"
	case KindDecode:
		return "decode"
	case KindUnrecognizedEvent:
		return "unrecognized event"
	case KindStreamClosed:
		return "stream closed"
	default:
		return "unknown"
	}
}

type ApiError struct {
	Kind    ErrorKind
	Code    int    // HTTP status, set for KindHTTPStatus
	Message string // server-provided message or local context
	Body    []byte // raw body or payload fragment, preserved for diagnosis
	Err     error  // underlying cause, if any
}

func (e *ApiError) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("beacon api: http status %d: %s", e.Code, e.Message)
	case KindUnrecognizedEvent:
		return fmt.Sprintf("beacon api: unrecognized event %q", e.Message)
	default:
		if e.Err != nil {
			return fmt.Sprintf("beacon api: %s: %s: %v", e.Kind, e.Message, e.Err)
		}
		return fmt.Sprintf("beacon api: %s: %s", e.Kind, e.Message)
	}
}

func (e *ApiError) Unwrap() error { return e.Err }

// Is allows errors.Is checks against kind sentinels.
func (e *ApiError) Is(target error) bool {
	t, ok := target.(*ApiError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Code == 0 || t.Code == e.Code)
}

// Kind sentinels for errors.Is.
var (
	ErrNetwork           = &ApiError{Kind: KindNetwork}
	ErrHTTPStatus        = &ApiError{Kind: KindHTTPStatus}
	ErrDecode            = &ApiError{Kind: KindDecode}
	ErrUnrecognizedEvent = &ApiError{Kind: KindUnrecognizedEvent}
	ErrStreamClosed      = &ApiError{Kind: KindStreamClosed}
)

func NewNetworkError(message string, err error) *ApiError {
	return &ApiError{Kind: KindNetwork, Message: message, Err: err}
}

func NewHTTPStatusError(code int, message string, body []byte) *ApiError {
	return &ApiError{Kind: KindHTTPStatus, Code: code, Message: message, Body: body}
}

func NewDecodeError(context string, fragment []byte, err error) *ApiError {
	return &ApiError{Kind: KindDecode, Message: context, Body: fragment, Err: err}
}

func NewUnrecognizedEventError(tag string, payload []byte) *ApiError {
	return &ApiError{Kind: KindUnrecognizedEvent, Message: tag, Body: payload}
}

func NewStreamClosedError(reason string, err error) *ApiError {
	return &ApiError{Kind: KindStreamClosed, Message: reason, Err: err}
}

// AsApiError unwraps err into an *ApiError, or wraps it as a network error
// if it is something else entirely.
func AsApiError(err error) *ApiError {
	e := &ApiError{}
	if errors.As(err, &e) {
		return e
	}
	return NewNetworkError("transport", err)
}

// EndpointError is the structured error body the beacon API serves on
// non-2xx responses.
type EndpointError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e EndpointError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Message)
}
