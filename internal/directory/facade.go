package directory

import (
	"context"
	"errors"
	"strings"

	"github.com/biruk-1/Health-coach-sub000/internal/domain"
	"github.com/biruk-1/Health-coach-sub000/internal/metrics"
	"github.com/biruk-1/Health-coach-sub000/internal/remote"
	"github.com/biruk-1/Health-coach-sub000/pkg/log"
)

const (
	opSearch = "search"
	opGet    = "get"
)

// Fallback reasons.
const (
	ReasonTimeout     = "timeout"
	ReasonUnavailable = "unavailable"
	ReasonStatus      = "status"
	ReasonMalformed   = "malformed"
	ReasonEmpty       = "empty"
	ReasonNotFound    = "not_found"
	ReasonError       = "error"
)

// RemoteDirectory is the upstream directory API.
type RemoteDirectory interface {
	ListCoaches(ctx context.Context, q domain.SearchQuery) (*domain.PageResult, error)
	GetCoach(ctx context.Context, id string) (*domain.CoachRecord, error)
}

// FacadeOptions configures fallback policy.
type FacadeOptions struct {
	// EmptyResultIsFallbackTrigger makes a successful remote page with no
	// coaches fall back to the cache, as if the remote had failed.
	EmptyResultIsFallbackTrigger bool
	Metrics                      *metrics.Metrics
}

// Facade answers directory reads from the remote API and falls back to the
// local cache when the remote cannot. A single call is answered by exactly
// one tier.
type Facade struct {
	remote  RemoteDirectory
	cache   *Cache
	opts    FacadeOptions
	metrics *metrics.Metrics
}

// NewFacade creates a facade. A nil remote serves everything from cache.
func NewFacade(remote RemoteDirectory, cache *Cache, opts FacadeOptions) *Facade {
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}
	return &Facade{
		remote:  remote,
		cache:   cache,
		opts:    opts,
		metrics: m,
	}
}

// Search returns one page of coaches matching q. It never fails.
func (f *Facade) Search(ctx context.Context, q domain.SearchQuery) domain.PageResult {
	q = q.Normalize()

	if f.remote == nil {
		return f.searchCache(ctx, q)
	}

	res, err := f.remote.ListCoaches(ctx, q)
	switch {
	case err != nil:
		reason := fallbackReason(err)
		logger := log.Ctx(ctx)
		logger.Warn().
			Err(err).
			Str(log.FieldOperation, opSearch).
			Str(log.FieldReason, reason).
			Msg("remote search failed, falling back to local cache")
		f.metrics.RecordFallback(opSearch, reason)
	case len(res.Coaches) == 0 && f.opts.EmptyResultIsFallbackTrigger:
		logger := log.Ctx(ctx)
		logger.Info().
			Str(log.FieldOperation, opSearch).
			Str(log.FieldReason, ReasonEmpty).
			Msg("remote search returned no coaches, falling back to local cache")
		f.metrics.RecordFallback(opSearch, ReasonEmpty)
	default:
		res.Source = domain.SourceRemote
		f.metrics.RecordResponse(opSearch, domain.SourceRemote)
		return *res
	}

	return f.searchCache(ctx, q)
}

func (f *Facade) searchCache(ctx context.Context, q domain.SearchQuery) domain.PageResult {
	res := f.cache.Query(ctx, q)
	f.metrics.RecordResponse(opSearch, domain.SourceCache)
	return res
}

// GetByID returns the coach with the given id, or nil when no tier knows it.
//
// A remote 404 and a remote timeout are answered from memory and the
// hand-authored set only; other remote errors go through Cache.GetByID.
func (f *Facade) GetByID(ctx context.Context, id string) *domain.CoachRecord {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}

	if f.remote == nil {
		return f.cache.GetByID(ctx, id)
	}

	logger := log.Ctx(ctx).With().Str(log.FieldCoachID, id).Str(log.FieldOperation, opGet).Logger()

	rec, err := f.remote.GetCoach(ctx, id)
	switch {
	case err == nil && rec != nil:
		f.metrics.RecordRemoteLookup("found")
		f.metrics.RecordResponse(opGet, domain.SourceRemote)
		return rec
	case err == nil:
		f.metrics.RecordRemoteLookup(ReasonNotFound)
		return f.fromCache(opGet, ReasonNotFound, f.cache.Peek(id))
	case errors.Is(err, remote.ErrLookupTimeout):
		logger.Warn().Err(err).Str(log.FieldReason, ReasonTimeout).Msg("remote coach lookup timed out, falling back to local cache")
		f.metrics.RecordRemoteLookup(ReasonTimeout)
		return f.fromCache(opGet, ReasonTimeout, f.cache.Peek(id))
	default:
		reason := fallbackReason(err)
		logger.Warn().Err(err).Str(log.FieldReason, reason).Msg("remote coach lookup failed, falling back to local cache")
		f.metrics.RecordRemoteLookup(ReasonError)
		return f.fromCache(opGet, reason, f.cache.GetByID(ctx, id))
	}
}

func (f *Facade) fromCache(op, reason string, rec *domain.CoachRecord) *domain.CoachRecord {
	f.metrics.RecordFallback(op, reason)
	if rec != nil {
		f.metrics.RecordResponse(op, domain.SourceCache)
	}
	return rec
}

// All returns the complete local dataset.
func (f *Facade) All(ctx context.Context) []domain.CoachRecord {
	return f.cache.All(ctx)
}

// Stats reports the local cache state.
func (f *Facade) Stats() Stats {
	return f.cache.Stats()
}

func fallbackReason(err error) string {
	var (
		statusErr *remote.StatusError
		parseErr  *remote.ParseError
	)
	switch {
	case errors.Is(err, remote.ErrLookupTimeout):
		return ReasonTimeout
	case errors.Is(err, remote.ErrUnavailable):
		return ReasonUnavailable
	case errors.As(err, &statusErr):
		return ReasonStatus
	case errors.As(err, &parseErr):
		return ReasonMalformed
	default:
		return ReasonError
	}
}
