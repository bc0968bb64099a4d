package oaipmh

import (
	"errors"
	"time"

	"github.com/jinzhu/now"
)

const oneDay = 24 * time.Hour

// ErrInvalidDateRange is returned when from lies after until.
var ErrInvalidDateRange = errors.New("invalid date range")

// Window represents a span of time, from and until inclusive.
type Window struct {
	From  time.Time
	Until time.Time
}

type timeShiftFunc func(time.Time) time.Time

func (w Window) makeWindows(left, right timeShiftFunc) ([]Window, error) {
	var ws []Window
	if w.From.After(w.Until) {
		return ws, ErrInvalidDateRange
	}
	var start, end time.Time
	from := w.From
	for {
		switch {
		case len(ws) == 0:
			start = now.New(w.From).BeginningOfDay()
		default:
			start = left(from)
		}
		end = right(from)
		if end.After(w.Until) {
			// discard end and use the end of day of until
			ws = append(ws, Window{From: start, Until: now.New(w.Until).EndOfDay()})
			break
		}
		ws = append(ws, Window{From: start, Until: end})
		from = end.Add(oneDay)
	}
	return ws, nil
}

// Monthly splits the window along month boundaries.
func (w Window) Monthly() ([]Window, error) {
	shiftLeft := func(t time.Time) time.Time {
		return now.New(t).BeginningOfMonth()
	}
	shiftRight := func(t time.Time) time.Time {
		return now.New(t).EndOfMonth()
	}
	return w.makeWindows(shiftLeft, shiftRight)
}

// Weekly splits the window along week boundaries. Smaller windows
// reduce the cost of a failed harvest and make cache entries
// reusable across runs.
func (w Window) Weekly() ([]Window, error) {
	shiftLeft := func(t time.Time) time.Time {
		return now.New(t).BeginningOfWeek()
	}
	shiftRight := func(t time.Time) time.Time {
		return now.New(t).EndOfWeek()
	}
	return w.makeWindows(shiftLeft, shiftRight)
}

// selection converts the window into day granularity from and until
// arguments, the least common denominator among repositories.
func (w Window) selection(set string) Selection {
	return Selection{
		From:  RawDatestamp(w.From.Format("2006-01-02")),
		Until: RawDatestamp(w.Until.Format("2006-01-02")),
		Set:   set,
	}
}
