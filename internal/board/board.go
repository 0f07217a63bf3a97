// Package board keeps the current set of listings in memory and refreshes
// it from the configured ICS feeds.
package board

import (
	"context"
	"errors"
	"sync"
	"time"

	"streetartlist/internal/datefmt"
	"streetartlist/internal/ics"
	appLog "streetartlist/internal/log"
	"streetartlist/internal/model"
)

// Fetcher is the part of ics.Fetcher the board needs.
type Fetcher interface {
	FetchAll(ctx context.Context, sources []ics.Source) ([]ics.FetchResult, error)
}

// Options configures a Board.
type Options struct {
	Fetcher   Fetcher
	Sources   []ics.Source
	Formatter *datefmt.Formatter
	// Horizon bounds recurring listing expansion into the future.
	Horizon time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// Board is safe for concurrent use.
type Board struct {
	opts Options

	mu        sync.RWMutex
	listings  []model.Listing
	updatedAt time.Time
}

func New(opts Options) *Board {
	if opts.Formatter == nil {
		opts.Formatter = datefmt.New(nil)
	}
	if opts.Horizon <= 0 {
		opts.Horizon = 365 * 24 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Board{opts: opts}
}

// Formatter returns the formatter cards are rendered with.
func (b *Board) Formatter() *datefmt.Formatter {
	return b.opts.Formatter
}

// Refresh fetches, parses and expands every feed, then swaps the snapshot.
// Per-feed failures are returned joined; the snapshot is still replaced
// with whatever did load, unless every configured feed failed to fetch or
// every fetched body failed to parse.
func (b *Board) Refresh(ctx context.Context) error {
	if b.opts.Fetcher == nil {
		return errors.New("board: no fetcher configured")
	}

	results, fetchErr := b.opts.Fetcher.FetchAll(ctx, b.opts.Sources)
	if len(results) == 0 && len(b.opts.Sources) > 0 {
		return fetchErr
	}

	var parsed []ics.ParsedListing
	var errs []error
	for _, res := range results {
		pl, err := ics.ParseFeed(res.Source, res.Body)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		parsed = append(parsed, pl...)
	}
	if len(results) > 0 && len(errs) == len(results) {
		appLog.Warn("board refresh: no feed parsed, keeping previous snapshot", "feeds", len(results))
		return errors.Join(append([]error{fetchErr}, errs...)...)
	}

	now := b.opts.Now()
	expanded, err := ics.Expand(parsed, ics.ExpandConfig{
		RangeStart: now.AddDate(0, 0, -1),
		RangeEnd:   now.Add(b.opts.Horizon),
	})
	if err != nil {
		return err
	}

	b.SetListings(expanded.Listings)
	appLog.Info("board refreshed", "sources", len(b.opts.Sources), "listings", len(expanded.Listings), "truncated", len(expanded.Truncated))

	return errors.Join(append([]error{fetchErr}, errs...)...)
}

// SetListings replaces the snapshot.
func (b *Board) SetListings(listings []model.Listing) {
	cp := make([]model.Listing, len(listings))
	copy(cp, listings)

	b.mu.Lock()
	b.listings = cp
	b.updatedAt = b.opts.Now()
	b.mu.Unlock()
}

// Listings returns a copy of the current snapshot.
func (b *Board) Listings() []model.Listing {
	b.mu.RLock()
	defer b.mu.RUnlock()
	cp := make([]model.Listing, len(b.listings))
	copy(cp, b.listings)
	return cp
}

func (b *Board) UpdatedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.updatedAt
}

// Cards renders the current snapshot for v.
func (b *Board) Cards(v View) []Card {
	return BuildCards(b.Listings(), b.opts.Formatter, v)
}
