package oaipmh

import "fmt"

// Code is an error condition a repository may report inside an
// otherwise well-formed envelope (3.6 Error and Exception Conditions).
type Code string

const (
	CodeBadArgument             Code = "badArgument"
	CodeBadResumptionToken      Code = "badResumptionToken"
	CodeBadVerb                 Code = "badVerb"
	CodeCannotDisseminateFormat Code = "cannotDisseminateFormat"
	CodeIDDoesNotExist          Code = "idDoesNotExist"
	CodeNoRecordsMatch          Code = "noRecordsMatch"
	CodeNoMetadataFormats       Code = "noMetadataFormats"
	CodeNoSetHierarchy          Code = "noSetHierarchy"
)

// Error wraps an OAI error code and the server supplied message. Codes
// outside the enumerated set are preserved verbatim, they match none
// of the sentinels below.
type Error struct {
	Code    Code
	Message string
}

// Error to satisfy the interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches protocol errors by code, so errors.Is(err,
// oaipmh.ErrNoRecordsMatch) holds regardless of the server message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Sentinels for the enumerated conditions, usable with errors.Is. A
// condition with an unrecognized code is still an *Error and can be
// caught with errors.As.
var (
	ErrBadArgument             = &Error{Code: CodeBadArgument}
	ErrBadResumptionToken      = &Error{Code: CodeBadResumptionToken}
	ErrBadVerb                 = &Error{Code: CodeBadVerb}
	ErrCannotDisseminateFormat = &Error{Code: CodeCannotDisseminateFormat}
	ErrIDDoesNotExist          = &Error{Code: CodeIDDoesNotExist}
	ErrNoRecordsMatch          = &Error{Code: CodeNoRecordsMatch}
	ErrNoMetadataFormats       = &Error{Code: CodeNoMetadataFormats}
	ErrNoSetHierarchy          = &Error{Code: CodeNoSetHierarchy}
)

// TransportError reports a failed HTTP round trip: a connection
// failure, or a non-success status.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error to satisfy the interface.
func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport: %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("transport: %s: unexpected status %d", e.URL, e.StatusCode)
}

// Unwrap exposes the underlying connection error, if any.
func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError reports a response body that is not
// well-formed XML.
type MalformedResponseError struct {
	Err error
}

// Error to satisfy the interface.
func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %v", e.Err)
}

// Unwrap exposes the decoder error.
func (e *MalformedResponseError) Unwrap() error { return e.Err }

// StructuralError reports a well-formed envelope that carries neither
// an error element nor the element mandatory for the request verb.
type StructuralError struct {
	Verb    Verb
	Missing string
}

// Error to satisfy the interface.
func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s response: missing %s element", e.Verb, e.Missing)
}
