package oaipmh

import "time"

// DatestampLayout is the second granularity UTC form required for
// from and until arguments (3.3.1 UTCdatetime).
const DatestampLayout = "2006-01-02T15:04:05Z"

// Datestamp is a from or until argument value: either a raw, already
// protocol-valid string, or a point in time that is normalized to UTC
// second granularity on serialization.
type Datestamp struct {
	raw string
	t   time.Time
}

// Date wraps a time value. Serialization converts to UTC, so a value
// constructed in time.UTC and its equivalent in any other location
// yield the identical datestamp.
func Date(t time.Time) Datestamp {
	return Datestamp{t: t}
}

// RawDatestamp passes a preformatted datestamp through unchanged. The
// caller asserts validity, e.g. a plain date for day granularity
// repositories.
func RawDatestamp(s string) Datestamp {
	return Datestamp{raw: s}
}

// IsZero reports whether the datestamp is unset and must be omitted
// from a request.
func (d Datestamp) IsZero() bool {
	return d.raw == "" && d.t.IsZero()
}

// String serializes the datestamp for the wire.
func (d Datestamp) String() string {
	if d.raw != "" {
		return d.raw
	}
	if d.t.IsZero() {
		return ""
	}
	return d.t.UTC().Format(DatestampLayout)
}
