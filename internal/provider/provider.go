// Package provider is the addressable read/write surface over the phone
// location store.
//
// Every operation takes an address, resolves it with the router and hands
// the resulting match to the store. Failures come back as *Fault so callers
// can tell routing problems, caller misuse, bad input and storage failures
// apart without string matching.
package provider

import (
	"context"
	"log/slog"

	"github.com/roach88/phoneloc/internal/queryir"
	"github.com/roach88/phoneloc/internal/route"
	"github.com/roach88/phoneloc/internal/store"
)

// ItemType is the content type of a single phone location entry.
const ItemType = "vnd/phonelocation-entry"

// Provider routes addressed requests to a Store.
type Provider struct {
	store  *store.Store
	router *route.Router
	logger *slog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithRouter overrides the default router.
func WithRouter(r *route.Router) Option {
	return func(p *Provider) { p.router = r }
}

// WithLogger sets the logger used for storage failures.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// New creates a Provider over s.
func New(s *store.Store, opts ...Option) *Provider {
	p := &Provider{
		store:  s,
		router: route.NewDefault(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Query returns the records selected by address and opts.Filter, ordered by
// opts.Sort or update_time when no sort is given. The result is never nil.
//
// Storage failures are logged and reported as a storage fault wrapping
// ErrQueryFailed.
func (p *Provider) Query(ctx context.Context, address string, opts store.QueryOptions) ([]store.Record, error) {
	m := p.router.Resolve(address)
	recs, err := p.store.Query(ctx, m, opts)
	if err != nil {
		f := classify("query", address, err)
		if f.Kind == KindStorage {
			p.logger.Error("query failed", "address", address, "error", err)
			f.Err = ErrQueryFailed
		}
		return nil, f
	}
	return recs, nil
}

// Insert adds a record through the collection address. It returns the new
// record's item address. When a record with the same number already exists
// nothing is written and inserted is false.
func (p *Provider) Insert(ctx context.Context, address string, v store.Values) (itemAddress string, inserted bool, err error) {
	m := p.router.Resolve(address)
	id, inserted, err := p.store.Insert(ctx, m, v)
	if err != nil {
		return "", false, classify("insert", address, err)
	}
	if !inserted {
		return "", false, nil
	}
	return route.ItemAddress(id), true, nil
}

// Update writes v to the records selected by address and filter and returns
// the affected count. A number address upserts and rejects any filter as
// misuse. Only the collection and number addresses accept updates; the
// others are misuse too. Empty values are rejected before storage is touched.
func (p *Provider) Update(ctx context.Context, address string, v store.Values, filter queryir.Predicate) (int64, error) {
	if len(v) == 0 {
		return 0, &Fault{Kind: KindValidation, Op: "update", Address: address, Err: store.ErrInvalidValues}
	}
	m := p.router.Resolve(address)
	count, err := p.store.Update(ctx, m, v, filter)
	if err != nil {
		return 0, classify("update", address, err)
	}
	return count, nil
}

// Delete removes nothing and returns 0 for every address and filter.
func (p *Provider) Delete(ctx context.Context, address string, filter queryir.Predicate) int64 {
	count, err := p.store.Delete(ctx, p.router.Resolve(address), filter)
	if err != nil {
		p.logger.Warn("delete failed", "address", address, "error", err)
		return 0
	}
	return count
}

// Type returns ItemType for any routable address and "" otherwise.
func (p *Provider) Type(address string) string {
	if !p.router.Resolve(address).Matched() {
		return ""
	}
	return ItemType
}
