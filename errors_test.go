package oaipmh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMapping(t *testing.T) {
	var tests = []struct {
		code     string
		sentinel *Error
	}{
		{"badArgument", ErrBadArgument},
		{"badResumptionToken", ErrBadResumptionToken},
		{"badVerb", ErrBadVerb},
		{"cannotDisseminateFormat", ErrCannotDisseminateFormat},
		{"idDoesNotExist", ErrIDDoesNotExist},
		{"noRecordsMatch", ErrNoRecordsMatch},
		{"noMetadataFormats", ErrNoMetadataFormats},
		{"noSetHierarchy", ErrNoSetHierarchy},
	}

	sentinels := make([]*Error, 0, len(tests))
	for _, test := range tests {
		sentinels = append(sentinels, test.sentinel)
	}

	for _, test := range tests {
		err := &Error{Code: Code(test.code), Message: "server message"}
		assert.True(t, errors.Is(err, test.sentinel), test.code)
		for _, other := range sentinels {
			if other != test.sentinel {
				assert.False(t, errors.Is(err, other), "%s must not match %s", test.code, other.Code)
			}
		}
	}
}

func TestErrorUnrecognizedCode(t *testing.T) {
	err := error(&Error{Code: "somethingNew", Message: "未知"})
	assert.False(t, errors.Is(err, ErrBadArgument))

	// still catchable as a protocol error, code preserved verbatim
	var oaiErr *Error
	require.True(t, errors.As(err, &oaiErr))
	assert.Equal(t, Code("somethingNew"), oaiErr.Code)
	assert.Equal(t, "未知", oaiErr.Message)
}

func TestErrorStrings(t *testing.T) {
	assert.Equal(t, "noRecordsMatch", (&Error{Code: CodeNoRecordsMatch}).Error())
	assert.Equal(t, "badVerb: nope", (&Error{Code: CodeBadVerb, Message: "nope"}).Error())
	assert.Equal(t, "Identify response: missing Identify element",
		(&StructuralError{Verb: VerbIdentify, Missing: "Identify"}).Error())
}

func TestTransportErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &TransportError{URL: "http://example.com/oai", Err: cause}
	assert.True(t, errors.Is(err, cause))

	status := &TransportError{URL: "http://example.com/oai", StatusCode: 503}
	assert.Contains(t, status.Error(), "503")
}
