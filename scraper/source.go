// Package scraper defines the job-board adapters the fetch loop calls.
package scraper

import (
	"context"
	"fmt"

	"job-aggregator/models"
)

// Query is a single (term, location) search against a job board.
type Query struct {
	Term          string
	Location      string
	HoursOld      int
	ResultsWanted int
	Country       string
}

// Source returns the postings matching a query as a raw provider table.
// Implementations carry no session state between calls.
type Source interface {
	Name() string
	Search(ctx context.Context, q Query) (*models.Table, error)
}

// Error reports a failed search. The fetch loop never retries it.
type Error struct {
	Source   string
	Term     string
	Location string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s search %q in %q: %s: %v", e.Source, e.Term, e.Location, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s search %q in %q: %s", e.Source, e.Term, e.Location, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError builds an Error for the query.
func NewError(source string, q Query, msg string, cause error) *Error {
	return &Error{Source: source, Term: q.Term, Location: q.Location, Message: msg, Cause: cause}
}
