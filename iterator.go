package oaipmh

import (
	"context"
	"errors"
	"iter"
)

// DefaultMaxRequests caps the number of HTTP requests a single list
// traversal may issue. Some repositories ship broken resumptionToken
// implementations that never terminate.
const DefaultMaxRequests = 1024

// ErrTooManyRequests is returned when a traversal exceeds its request
// cap.
var ErrTooManyRequests = errors.New("too many requests")

// fetchFunc retrieves one page of a list response. An empty token
// requests the first page; the returned token is nil or empty on the
// last page.
type fetchFunc[T any] func(ctx context.Context, token string) (items []T, next *ResumptionToken, err error)

// Iterator is a lazy, single pass traversal of a paginated list
// response. Pages are fetched on demand, items are yielded in document
// order within a page and in page order across pages. Stopping early
// issues no further requests. An Iterator is not safe for concurrent
// use; start a new verb call to traverse again.
type Iterator[T any] struct {
	ctx      context.Context
	fetch    fetchFunc[T]
	buf      []T
	cur      T
	token    string
	last     *ResumptionToken
	requests int
	max      int
	done     bool
	err      error
}

func newIterator[T any](ctx context.Context, start string, max int, fetch fetchFunc[T]) *Iterator[T] {
	if max <= 0 {
		max = DefaultMaxRequests
	}
	return &Iterator[T]{ctx: ctx, token: start, fetch: fetch, max: max}
}

// Next advances to the next item, fetching the next page when the
// current one is exhausted. It returns false when the list ends or a
// page fails; consult Err afterwards.
func (it *Iterator[T]) Next() bool {
	if it.err != nil {
		return false
	}
	for len(it.buf) == 0 {
		if it.done {
			return false
		}
		if it.requests >= it.max {
			it.err = ErrTooManyRequests
			return false
		}
		items, next, err := it.fetch(it.ctx, it.token)
		it.requests++
		if err != nil {
			it.err = err
			return false
		}
		it.buf, it.last = items, next
		it.token = ""
		if next != nil {
			it.token = next.Value
		}
		it.done = it.token == ""
	}
	it.cur, it.buf = it.buf[0], it.buf[1:]
	return true
}

// Item returns the item Next advanced to.
func (it *Iterator[T]) Item() T { return it.cur }

// Err returns the first error encountered during traversal. Items
// yielded before the failing page remain valid.
func (it *Iterator[T]) Err() error { return it.err }

// Token returns the resumption token of the most recently fetched
// page with its flow control attributes, or nil before the first page
// and on final pages without one. Its value may be handed to a later
// traversal through Selection.ResumptionToken.
func (it *Iterator[T]) Token() *ResumptionToken { return it.last }

// All adapts the iterator for range-over-func loops. A non-nil error
// is yielded at most once, as the final pair.
func (it *Iterator[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for it.Next() {
			if !yield(it.cur, nil) {
				return
			}
		}
		if it.err != nil {
			var zero T
			yield(zero, it.err)
		}
	}
}

// Collect drains the iterator into a slice. This is potentially very
// memory consuming on large repositories.
func (it *Iterator[T]) Collect() ([]T, error) {
	var items []T
	for it.Next() {
		items = append(items, it.cur)
	}
	return items, it.err
}
