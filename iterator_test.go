package oaipmh

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pages(pp ...[]int) fetchFunc[int] {
	tokens := map[string]int{"": 0}
	for i := range pp {
		if i+1 < len(pp) {
			tokens[tokenFor(i)] = i + 1
		}
	}
	return func(ctx context.Context, token string) ([]int, *ResumptionToken, error) {
		i, ok := tokens[token]
		if !ok {
			return nil, nil, &Error{Code: CodeBadResumptionToken}
		}
		if i+1 < len(pp) {
			return pp[i], &ResumptionToken{Value: tokenFor(i)}, nil
		}
		return pp[i], nil, nil
	}
}

func tokenFor(i int) string {
	return string(rune('a' + i))
}

func TestIteratorOrder(t *testing.T) {
	it := newIterator(context.Background(), "", 0, pages([]int{1, 2}, []int{3}, []int{4, 5}))
	got, err := it.Collect()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
	assert.Equal(t, 3, it.requests)
}

func TestIteratorEmptyMiddlePage(t *testing.T) {
	it := newIterator(context.Background(), "", 0, pages([]int{1}, nil, []int{2}))
	got, err := it.Collect()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got)
}

func TestIteratorPageError(t *testing.T) {
	fetch := func(ctx context.Context, token string) ([]int, *ResumptionToken, error) {
		if token == "" {
			return []int{1}, &ResumptionToken{Value: "next"}, nil
		}
		return nil, nil, &Error{Code: CodeBadResumptionToken, Message: "expired"}
	}
	it := newIterator(context.Background(), "", 0, fetch)

	// the first page stays valid, the failure surfaces afterwards
	require.True(t, it.Next())
	assert.Equal(t, 1, it.Item())
	assert.False(t, it.Next())
	assert.True(t, errors.Is(it.Err(), ErrBadResumptionToken))

	// the iterator stays failed
	assert.False(t, it.Next())
}

func TestIteratorRequestCap(t *testing.T) {
	fetch := func(ctx context.Context, token string) ([]int, *ResumptionToken, error) {
		// a broken repository that never stops issuing tokens
		return []int{1}, &ResumptionToken{Value: "again"}, nil
	}
	it := newIterator(context.Background(), "", 3, fetch)

	var n int
	for it.Next() {
		n++
	}
	assert.Equal(t, 3, n)
	assert.True(t, errors.Is(it.Err(), ErrTooManyRequests))
}

func TestIteratorAll(t *testing.T) {
	it := newIterator(context.Background(), "", 0, pages([]int{1, 2}, []int{3}))

	var got []int
	for v, err := range it.All() {
		require.NoError(t, err)
		got = append(got, v)
	}
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestIteratorAllStopsEarly(t *testing.T) {
	requests := 0
	fetch := func(ctx context.Context, token string) ([]int, *ResumptionToken, error) {
		requests++
		return []int{1, 2}, &ResumptionToken{Value: "next"}, nil
	}
	it := newIterator(context.Background(), "", 0, fetch)

	for v := range it.All() {
		_ = v
		break
	}
	assert.Equal(t, 1, requests)
}
