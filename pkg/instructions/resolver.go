package instructions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Source identifies which tier satisfied a resolution.
type Source string

// Resolution source tags.
const (
	SourceCache   Source = "cache"
	SourceRemote  Source = "remote"
	SourceLocal   Source = "local"
	SourceGeneric Source = "generic"
)

// Result is the envelope returned by Resolve: the document plus the tier
// that produced it and the canonical identifier it was stored under.
type Result struct {
	Instructions *DriverInstructions
	Source       Source
	CanonicalID  string
}

// ResolutionError is the terminal failure raised when even the generic
// document cannot be loaded. It carries the originally requested driver name
// for diagnostics.
type ResolutionError struct {
	Driver string
	Cause  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving instructions for %q: %v", e.Driver, e.Cause)
}

func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

// Resolver resolves raw driver names to instruction documents through an
// ordered series of tiers: cache, remote service, packaged local documents,
// and the generic fallback. The first tier that produces a document wins and
// its result is cached.
type Resolver struct {
	cache      *Cache
	remote     *RemoteSource
	local      *LocalStore
	logger     *slog.Logger
	defaultTTL time.Duration
	genericTTL time.Duration
}

// ResolverConfig configures a Resolver. Remote may be nil (tier skipped).
// Zero TTLs select the package defaults.
type ResolverConfig struct {
	Cache      *Cache
	Remote     *RemoteSource
	Local      *LocalStore
	Logger     *slog.Logger
	DefaultTTL time.Duration
	GenericTTL time.Duration
}

// NewResolver creates a resolver. Cache and Local default to fresh instances
// when nil so a zero config is usable in tests.
func NewResolver(cfg ResolverConfig) *Resolver {
	if cfg.Cache == nil {
		cfg.Cache = NewCache(cfg.DefaultTTL)
	}
	if cfg.Local == nil {
		cfg.Local = NewLocalStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = DefaultTTL
	}
	if cfg.GenericTTL <= 0 {
		cfg.GenericTTL = GenericTTL
	}
	return &Resolver{
		cache:      cfg.Cache,
		remote:     cfg.Remote,
		local:      cfg.Local,
		logger:     cfg.Logger,
		defaultTTL: cfg.DefaultTTL,
		genericTTL: cfg.GenericTTL,
	}
}

// Cache exposes the resolver's cache so the owner can start its sweep
// routine and close it on shutdown.
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// tier is one candidate source of instruction data. Non-terminal tiers fall
// through silently on failure; the terminal tier raises a ResolutionError.
type tier struct {
	source   Source
	terminal bool
	fetch    func(ctx context.Context) (*DriverInstructions, error)
}

// Resolve normalizes rawName, consults the cache, and on a miss walks the
// remaining tiers in order, caching the first document produced. connID is
// an optional caller-supplied correlation token carried into every log line
// alongside a per-call resolution id.
//
// Concurrent calls for the same driver are not deduplicated; each may walk
// the full chain and race to write the cache. Writes are idempotent
// overwrites, so the race is an accepted inefficiency.
func (r *Resolver) Resolve(ctx context.Context, rawName, connID string) (*Result, error) {
	canonicalID := Normalize(rawName)

	logger := r.logger.With(
		"driver", rawName,
		"canonical_id", canonicalID,
		"resolution_id", uuid.NewString(),
	)
	if connID != "" {
		logger = logger.With("connection_id", connID)
	}

	if doc, ok := r.cache.Get(canonicalID); ok {
		logger.Debug("instruction cache hit")
		return &Result{Instructions: doc, Source: SourceCache, CanonicalID: canonicalID}, nil
	}

	for _, t := range r.tiers(canonicalID) {
		doc, err := t.fetch(ctx)
		if err != nil {
			if t.terminal {
				logger.Error("generic instruction document unavailable", "error", err)
				return nil, &ResolutionError{Driver: rawName, Cause: err}
			}
			logger.Debug("instruction tier failed, falling through", "tier", string(t.source), "error", err)
			continue
		}
		if doc == nil {
			logger.Debug("instruction tier produced nothing", "tier", string(t.source))
			continue
		}

		ttl := r.defaultTTL
		if t.source == SourceGeneric {
			ttl = r.genericTTL
		}
		r.cache.Set(canonicalID, doc, ttl)

		logger.Debug("instructions resolved", "tier", string(t.source), "ttl", ttl)
		return &Result{Instructions: doc, Source: t.source, CanonicalID: canonicalID}, nil
	}

	// Unreachable: the generic tier either returns a document or errors.
	return nil, &ResolutionError{Driver: rawName, Cause: fmt.Errorf("no instruction tier produced a document")}
}

// tiers builds the ordered fallback chain for one canonical identifier.
func (r *Resolver) tiers(canonicalID string) []tier {
	var chain []tier

	if r.remote != nil {
		chain = append(chain, tier{
			source: SourceRemote,
			fetch: func(ctx context.Context) (*DriverInstructions, error) {
				return r.remote.Fetch(ctx, canonicalID)
			},
		})
	}

	chain = append(chain,
		tier{
			source: SourceLocal,
			fetch: func(context.Context) (*DriverInstructions, error) {
				return r.local.Load(canonicalID)
			},
		},
		tier{
			source:   SourceGeneric,
			terminal: true,
			fetch: func(context.Context) (*DriverInstructions, error) {
				return r.local.Load(GenericDriver)
			},
		},
	)

	return chain
}
