package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/boxplan/pkg/cache"
	"github.com/matzehuels/boxplan/pkg/errors"
	"github.com/matzehuels/boxplan/pkg/floorplan"
	"github.com/matzehuels/boxplan/pkg/layout"
	"github.com/matzehuels/boxplan/pkg/observability"
)

// Runner wraps Synthesize with result caching and batch execution. CLI and
// API share it so caching behaves the same everywhere.
//
// A Runner holds no per-run state; one value may serve concurrent calls.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Hooks receives pipeline events. Nil logs them through Logger.
	Hooks observability.PipelineHooks
	// CacheHooks receives cache events. Nil discards them.
	CacheHooks observability.CacheHooks
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer uses
// cache.DefaultKeyer and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Outcome is the result of one Runner call.
type Outcome struct {
	Layout   layout.Result
	CacheHit bool
	Duration time.Duration
}

// Run synthesizes plan, serving and storing results through the cache.
// Cache failures are logged and never fail the run.
func (r *Runner) Run(ctx context.Context, plan floorplan.Plan, opts Options) (*Outcome, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := contextErr(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	key := r.Keyer.LayoutKey(PlanHash(plan), opts.Hash())
	cacheHooks := r.cacheHooks()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		} else if hit {
			if res, err := layout.Unmarshal(data); err == nil {
				cacheHooks.OnCacheHit(ctx, "layout")
				return &Outcome{Layout: res, CacheHit: true, Duration: time.Since(start)}, nil
			}
			r.Logger.Debug("discarding unreadable cache entry", "key", key)
		}
		cacheHooks.OnCacheMiss(ctx, "layout")
	}

	res, err := Synthesize(plan, opts, r.hooks())
	if err != nil {
		return nil, err
	}

	if data, err := layout.Marshal(res); err == nil {
		if err := r.Cache.Set(context.WithoutCancel(ctx), key, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			cacheHooks.OnCacheSet(ctx, "layout", len(data))
		}
	}
	// Synthesis does not observe ctx. A result that finished past the
	// deadline is cached above so a retry is served from it.
	if err := contextErr(ctx); err != nil {
		return nil, err
	}

	r.Logger.Info("synthesized layout",
		"units", res.Stats.PlacedCount,
		"corridors", res.Stats.CorridorCount,
		"zones", res.Stats.ZoneCount,
		"duration", time.Since(start))
	return &Outcome{Layout: res, Duration: time.Since(start)}, nil
}

// ZoneOutcome is the result of one RunZones call.
type ZoneOutcome struct {
	Zones    layout.ZoneResult
	CacheHit bool
	Duration time.Duration
}

// RunZones runs zone extraction only, cached separately from full layouts.
func (r *Runner) RunZones(ctx context.Context, plan floorplan.Plan, opts Options) (*ZoneOutcome, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := contextErr(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	key := r.Keyer.ZonesKey(PlanHash(plan), opts.Hash())
	cacheHooks := r.cacheHooks()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		} else if hit {
			var zr layout.ZoneResult
			if err := json.Unmarshal(data, &zr); err == nil {
				cacheHooks.OnCacheHit(ctx, "zones")
				return &ZoneOutcome{Zones: zr, CacheHit: true, Duration: time.Since(start)}, nil
			}
		}
		cacheHooks.OnCacheMiss(ctx, "zones")
	}

	s, err := ExtractZones(plan, opts, r.hooks())
	if err != nil {
		return nil, err
	}
	zr := s.ZoneResult()
	if data, err := json.Marshal(zr); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLZones); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			cacheHooks.OnCacheSet(ctx, "zones", len(data))
		}
	}
	return &ZoneOutcome{Zones: zr, Duration: time.Since(start)}, nil
}

// RunBatch runs one synthesis per plan (one per floor, typically) in
// parallel, bounded by GOMAXPROCS. Outcomes keep the input order. The first
// error cancels the remaining runs.
func (r *Runner) RunBatch(ctx context.Context, plans []floorplan.Plan, opts Options) ([]*Outcome, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	out := make([]*Outcome, len(plans))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range plans {
		g.Go(func() error {
			o, err := r.Run(ctx, p, opts)
			if err != nil {
				return fmt.Errorf("floor %d: %w", i, err)
			}
			out[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// contextErr reports a done ctx. An expired deadline becomes a TIMEOUT error
// that still matches context.DeadlineExceeded; cancellation passes through.
func contextErr(ctx context.Context) error {
	err := ctx.Err()
	if err == context.DeadlineExceeded {
		return errors.Wrap(errors.ErrCodeTimeout, err, "run deadline exceeded")
	}
	return err
}

func (r *Runner) hooks() observability.PipelineHooks {
	if r.Hooks != nil {
		return r.Hooks
	}
	return observability.NewLogHooks(r.Logger)
}

func (r *Runner) cacheHooks() observability.CacheHooks {
	if r.CacheHooks != nil {
		return r.CacheHooks
	}
	return observability.NoopCacheHooks{}
}
