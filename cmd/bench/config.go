package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/IvanBrykalov/evictcache/policy"
)

// Config drives one bench run. Flags set the defaults; a YAML file given
// with -config overrides them field by field.
type Config struct {
	Cache struct {
		Capacity int         `yaml:"capacity"`
		Shards   int         `yaml:"shards"`
		Policy   policy.Kind `yaml:"policy"`
	} `yaml:"cache"`

	Workload struct {
		Mode     string        `yaml:"mode"` // "load" or "replay"
		Workers  int           `yaml:"workers"`
		Duration time.Duration `yaml:"duration"`
		ReadPct  int           `yaml:"read_pct"`
		Keys     int           `yaml:"keys"`
		ZipfS    float64       `yaml:"zipf_s"`
		ZipfV    float64       `yaml:"zipf_v"`
		Seed     int64         `yaml:"seed"`
		Preload  int           `yaml:"preload"`
		Trace    string        `yaml:"trace"` // whitespace-separated keys, replay mode
	} `yaml:"workload"`

	HTTP struct {
		Metrics string `yaml:"metrics"`
		Pprof   string `yaml:"pprof"`
	} `yaml:"http"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// parseConfig reads flags from args and overlays the optional YAML file.
func parseConfig(args []string) (*Config, error) {
	var cfg Config
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)

	configPath := fs.String("config", "", "YAML config file (overrides flags)")
	fs.IntVar(&cfg.Cache.Capacity, "cap", 100_000, "cache capacity (entries)")
	fs.IntVar(&cfg.Cache.Shards, "shards", 0, "number of shards (0=auto, 1=single lock)")
	fs.Var(&cfg.Cache.Policy, "policy", "eviction policy: lru | lfu")

	fs.StringVar(&cfg.Workload.Mode, "mode", "load", "load | replay")
	fs.IntVar(&cfg.Workload.Workers, "workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
	fs.DurationVar(&cfg.Workload.Duration, "duration", 10*time.Second, "benchmark duration")
	fs.IntVar(&cfg.Workload.ReadPct, "reads", 80, "read percentage [0..100]")
	fs.IntVar(&cfg.Workload.Keys, "keys", 1_000_000, "keyspace size")
	fs.Float64Var(&cfg.Workload.ZipfS, "zipf_s", 1.1, "Zipf s > 1 (skew)")
	fs.Float64Var(&cfg.Workload.ZipfV, "zipf_v", 1.0, "Zipf v >= 1")
	fs.Int64Var(&cfg.Workload.Seed, "seed", time.Now().UnixNano(), "random seed")
	fs.IntVar(&cfg.Workload.Preload, "preload", 0, "preload entries (0 = cap/2)")
	fs.StringVar(&cfg.Workload.Trace, "trace", "", "trace file for replay mode")

	fs.StringVar(&cfg.HTTP.Metrics, "http", ":8080", "serve Prometheus metrics at addr; empty = disabled")
	fs.StringVar(&cfg.HTTP.Pprof, "pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")

	fs.StringVar(&cfg.Log.Level, "log_level", "info", "debug | info | warn | error")
	fs.StringVar(&cfg.Log.Format, "log_format", "text", "text | json")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *configPath != "" {
		b, err := os.ReadFile(*configPath)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", *configPath, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if err := policy.CheckCapacity(c.Cache.Capacity); err != nil {
		errs = append(errs, err)
	}
	switch c.Workload.Mode {
	case "load":
		if c.Workload.ReadPct < 0 || c.Workload.ReadPct > 100 {
			errs = append(errs, fmt.Errorf("read_pct must be in [0,100], got %d", c.Workload.ReadPct))
		}
		if c.Workload.Keys < 1 {
			errs = append(errs, fmt.Errorf("keys must be >= 1, got %d", c.Workload.Keys))
		}
		if c.Workload.ZipfS <= 1 || c.Workload.ZipfV < 1 {
			errs = append(errs, fmt.Errorf("zipf needs s > 1 and v >= 1, got s=%v v=%v", c.Workload.ZipfS, c.Workload.ZipfV))
		}
		if c.Workload.Duration <= 0 {
			errs = append(errs, fmt.Errorf("duration must be > 0, got %v", c.Workload.Duration))
		}
	case "replay":
		if c.Workload.Trace == "" {
			errs = append(errs, errors.New("replay mode needs a trace file"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown mode %q (use load or replay)", c.Workload.Mode))
	}
	if c.Workload.Workers <= 0 {
		c.Workload.Workers = 1
	}
	return errors.Join(errs...)
}

// newLogger builds the slog logger described by the Log section.
func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(h)
}
