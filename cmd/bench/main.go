// Command bench runs a synthetic workload (or replays a key trace) against
// the cache and exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/evictcache/cache"
	"github.com/IvanBrykalov/evictcache/cache/trace"
	pmet "github.com/IvanBrykalov/evictcache/metrics/prom"
)

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	log := newLogger(cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg, log); err != nil {
		log.Error("bench failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg *Config, log *slog.Logger) error {
	// ---- pprof server (on DefaultServeMux) ----
	if addr := cfg.HTTP.Pprof; addr != "" {
		go func() {
			log.Info("pprof: serving", "addr", addr)
			log.Warn("pprof server stopped", "err", http.ListenAndServe(addr, nil))
		}()
	}

	switch cfg.Workload.Mode {
	case "replay":
		return replay(cfg, log)
	default:
		return load(cfg, log)
	}
}

// load runs the Zipf read/write mix against a sharded cache.
func load(cfg *Config, log *slog.Logger) error {
	// ---- Prometheus metrics ----
	metrics := pmet.New(nil, "evictcache", "bench",
		prometheus.Labels{"policy": cfg.Cache.Policy.String()})
	if addr := cfg.HTTP.Metrics; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			log.Info("metrics: serving", "addr", addr)
			log.Warn("metrics server stopped", "err", http.ListenAndServe(addr, mux))
		}()
	}

	// ---- Build cache ----
	c, err := cache.NewSharded(cache.Options[string, string]{
		Capacity: cfg.Cache.Capacity,
		Shards:   cfg.Cache.Shards,
		Policy:   cfg.Cache.Policy,
		Metrics:  metrics,
	})
	if err != nil {
		return fmt.Errorf("build cache: %w", err)
	}
	log.Debug("cache ready", "policy", c.Policy(), "cap", c.Cap(), "shards", c.Shards())

	// ---- Preload half capacity to get a realistic hit-rate ----
	pl := cfg.Workload.Preload
	if pl == 0 {
		pl = cfg.Cache.Capacity / 2
	}
	for i := 0; i < pl; i++ {
		c.Put("k:"+strconv.Itoa(i), "v"+strconv.Itoa(i))
	}

	// ---- Load generation ----
	w := cfg.Workload
	var reads, writes, hits, total atomic.Uint64
	ctx, cancel := context.WithTimeout(context.Background(), w.Duration)
	defer cancel()

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for id := 0; id < w.Workers; id++ {
		g.Go(func() error {
			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			r := rand.New(rand.NewSource(w.Seed + int64(id)*9973))
			zipf := rand.NewZipf(r, w.ZipfS, w.ZipfV, uint64(w.Keys-1))
			key := func() string { return "k:" + strconv.FormatUint(zipf.Uint64(), 10) }

			for ctx.Err() == nil {
				total.Add(1)
				if int(r.Int31n(100)) < w.ReadPct {
					reads.Add(1)
					if _, ok := c.Get(key()); ok {
						hits.Add(1)
					}
				} else {
					writes.Add(1)
					c.Put(key(), "v"+strconv.Itoa(r.Int()))
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	// ---- Report ----
	ops, readsN, hitsN := total.Load(), reads.Load(), hits.Load()
	hitRate := 0.0
	if readsN > 0 {
		hitRate = float64(hitsN) / float64(readsN) * 100
	}
	st := c.Stats()
	log.Info("load finished",
		"policy", c.Policy(), "cap", c.Cap(), "shards", c.Shards(),
		"workers", w.Workers, "keys", w.Keys, "dur", elapsed, "seed", w.Seed)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d\n",
		ops, float64(ops)/elapsed.Seconds(), readsN, writes.Load())
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%  evictions=%d\n",
		hitsN, readsN-hitsN, hitRate, st.Evictions)
	fmt.Printf("Len()=%d\n", c.Len())
	return nil
}

// replay feeds the trace file through the configured policy.
func replay(cfg *Config, log *slog.Logger) error {
	b, err := os.ReadFile(cfg.Workload.Trace)
	if err != nil {
		return fmt.Errorf("read trace: %w", err)
	}
	refs := strings.Fields(string(b))

	res, err := trace.Simulate(cfg.Cache.Policy, cfg.Cache.Capacity, refs)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}
	log.Info("replay finished", "policy", cfg.Cache.Policy, "frames", cfg.Cache.Capacity, "refs", res.Refs)
	fmt.Printf("refs=%d  hits=%d  faults=%d  evictions=%d  hit-ratio=%.2f%%\n",
		res.Refs, res.Hits, res.Faults, res.Evictions, res.HitRatio()*100)
	return nil
}
