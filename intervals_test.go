package oaipmh

import (
	"reflect"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func endOfDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 23, 59, 59, 999999999, time.UTC)
}

func TestWindowMonthly(t *testing.T) {
	var tests = []struct {
		w   Window
		ws  []Window
		err error
	}{
		{
			w: Window{From: day(2000, 1, 1), Until: day(2000, 1, 1)},
			ws: []Window{
				{From: day(2000, 1, 1), Until: endOfDay(2000, 1, 1)},
			},
		},
		{
			w: Window{From: day(2000, 1, 1), Until: day(2000, 3, 2)},
			ws: []Window{
				{From: day(2000, 1, 1), Until: endOfDay(2000, 1, 31)},
				{From: day(2000, 2, 1), Until: endOfDay(2000, 2, 29)},
				{From: day(2000, 3, 1), Until: endOfDay(2000, 3, 2)},
			},
		},
		{
			w: Window{From: time.Date(2001, 12, 11, 9, 0, 0, 0, time.UTC), Until: time.Date(2002, 1, 16, 12, 0, 0, 0, time.UTC)},
			ws: []Window{
				{From: day(2001, 12, 11), Until: endOfDay(2001, 12, 31)},
				{From: day(2002, 1, 1), Until: endOfDay(2002, 1, 16)},
			},
		},
		{
			w:   Window{From: day(2010, 4, 1), Until: day(2010, 3, 2)},
			err: ErrInvalidDateRange,
		},
	}

	for _, test := range tests {
		result, err := test.w.Monthly()
		if err != test.err {
			t.Errorf("Monthly() got error %v, want %v", err, test.err)
		}
		if test.err == nil && !reflect.DeepEqual(result, test.ws) {
			t.Errorf("Monthly() got %v, want %v", result, test.ws)
		}
	}
}

func TestWindowWeekly(t *testing.T) {
	var tests = []struct {
		w  Window
		ws []Window
	}{
		{
			w: Window{From: day(2000, 1, 1), Until: day(2000, 1, 1)},
			ws: []Window{
				{From: day(2000, 1, 1), Until: endOfDay(2000, 1, 1)},
			},
		},
		{
			w: Window{From: day(2000, 1, 1), Until: day(2000, 2, 1)},
			ws: []Window{
				{From: day(2000, 1, 1), Until: endOfDay(2000, 1, 1)},
				{From: day(2000, 1, 2), Until: endOfDay(2000, 1, 8)},
				{From: day(2000, 1, 9), Until: endOfDay(2000, 1, 15)},
				{From: day(2000, 1, 16), Until: endOfDay(2000, 1, 22)},
				{From: day(2000, 1, 23), Until: endOfDay(2000, 1, 29)},
				{From: day(2000, 1, 30), Until: endOfDay(2000, 2, 1)},
			},
		},
	}

	for _, test := range tests {
		result, err := test.w.Weekly()
		if err != nil {
			t.Errorf("Weekly() got error %v", err)
		}
		if !reflect.DeepEqual(result, test.ws) {
			t.Errorf("Weekly() got %v, want %v", result, test.ws)
		}
	}
}

func TestWindowSelection(t *testing.T) {
	w := Window{From: day(2010, 1, 1), Until: endOfDay(2010, 1, 7)}
	sel := w.selection("physics")
	if got, want := sel.From.String(), "2010-01-01"; got != want {
		t.Errorf("selection() from got %v, want %v", got, want)
	}
	if got, want := sel.Until.String(), "2010-01-07"; got != want {
		t.Errorf("selection() until got %v, want %v", got, want)
	}
	if sel.Set != "physics" {
		t.Errorf("selection() set got %v, want physics", sel.Set)
	}
}
