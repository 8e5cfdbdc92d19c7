// Package source observes case status timelines. Browser renders the status
// site in headless Chrome; Dir replays saved page text from disk.
package source

import (
	"context"
	"errors"

	"casetrack/internal/timeline"
)

// ErrNoTimeline is returned when a page was read but held no timeline entries.
var ErrNoTimeline = errors.New("no timeline entries found")

// Fetcher returns the status timeline of one case.
type Fetcher interface {
	Fetch(ctx context.Context, caseID string) ([]timeline.Entry, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, caseID string) ([]timeline.Entry, error)

func (f FetcherFunc) Fetch(ctx context.Context, caseID string) ([]timeline.Entry, error) {
	return f(ctx, caseID)
}

// entriesFrom extracts timeline entries from page text, failing with
// ErrNoTimeline when none are found.
func entriesFrom(pageText string) ([]timeline.Entry, error) {
	entries := timeline.Extract(pageText)
	if len(entries) == 0 {
		return nil, ErrNoTimeline
	}
	return entries, nil
}
