package analysis

import (
	"errors"
	"fmt"
)

// Sentinels for matching the analysis error kinds with errors.Is.
var (
	ErrInput     = errors.New("analysis: invalid input")
	ErrService   = errors.New("analysis: no usable response")
	ErrParse     = errors.New("analysis: malformed response")
	ErrTransport = errors.New("analysis: transport failure")
)

const (
	// MissingInputMessage is returned when neither text nor image is supplied.
	MissingInputMessage = "Please provide an image or a text description."
	// NoResponseMessage is returned when the model replies with an empty body.
	NoResponseMessage = "No response from AI"
)

// InputError is detected locally before any request is sent.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

// Is matches ErrInput.
func (e *InputError) Is(target error) bool { return target == ErrInput }

// ServiceError means the call succeeded but carried no payload.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

// Is matches ErrService.
func (e *ServiceError) Is(target error) bool { return target == ErrService }

// ParseError means a payload arrived but is not valid JSON or does not match
// the result schema.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse analysis response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is matches ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// TransportError wraps a network, auth or provider failure.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("analysis request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is matches ErrTransport.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }
