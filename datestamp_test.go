package oaipmh

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, time.UTC)
}

func TestDatestampString(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)

	var tests = []struct {
		d Datestamp
		s string
	}{
		{Datestamp{}, ""},
		{RawDatestamp("2024-01-01"), "2024-01-01"},
		{RawDatestamp("2024-01-01T12:00:00Z"), "2024-01-01T12:00:00Z"},
		{Date(date(2024, 1, 1, 12, 0, 0)), "2024-01-01T12:00:00Z"},
		// an aware value converts to UTC
		{Date(time.Date(2024, 1, 1, 13, 0, 0, 0, berlin)), "2024-01-01T12:00:00Z"},
		// sub-second precision is dropped
		{Date(time.Date(2024, 1, 1, 12, 0, 0, 999999999, time.UTC)), "2024-01-01T12:00:00Z"},
	}

	for _, test := range tests {
		assert.Equal(t, test.s, test.d.String())
	}
}

func TestDatestampEquivalence(t *testing.T) {
	// a UTC value and its zone shifted counterpart format identically
	utc := Date(date(2024, 6, 15, 8, 30, 0))
	shifted := Date(time.Date(2024, 6, 15, 10, 30, 0, 0, time.FixedZone("EET", 2*3600)))
	assert.Equal(t, utc.String(), shifted.String())
}

func TestDatestampIsZero(t *testing.T) {
	assert.True(t, Datestamp{}.IsZero())
	assert.False(t, RawDatestamp("2024-01-01").IsZero())
	assert.False(t, Date(date(2024, 1, 1, 0, 0, 0)).IsZero())
}
