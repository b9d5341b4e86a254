package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/geoknoesis/aspect-rdf/encoder"
)

const defaultDebounce = 100 * time.Millisecond

func watchCmd(flags *globalFlags) *cobra.Command {
	var (
		output      string
		debounce    time.Duration
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "watch <document>",
		Short: "Re-encode a model document whenever it changes",
		Long: `Watch encodes the document once, then again every time a model
document (*.yaml, *.yml) changes in its directory or in the directories of
the --external documents.

When a metrics address is configured, Prometheus metrics are served on
/metrics and a liveness probe on /health.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.setup()
			if err != nil {
				return err
			}
			if metricsAddr != "" {
				cfg.Metrics.Addr = metricsAddr
			}

			registry := prometheus.NewRegistry()
			encMetrics, err := encoder.NewMetrics(registry)
			if err != nil {
				return fmt.Errorf("register metrics: %w", err)
			}
			runs, err := newRunMetrics(registry)
			if err != nil {
				return fmt.Errorf("register metrics: %w", err)
			}

			p, err := newPipeline(cfg, logger, encMetrics)
			if err != nil {
				return err
			}
			defer p.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if cfg.Metrics.Addr != "" {
				srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: metricsMux(registry)}
				go func() {
					logger.Info("Metrics server listening", slog.String("addr", cfg.Metrics.Addr))
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("Metrics server failed", slog.String("error", err.Error()))
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
			}

			encode := func() {
				summary, err := encodeTo(p, args[0], output, cmd.OutOrStdout())
				runs.record(summary, err)
				if err != nil {
					logger.Error("Encoding failed", slog.String("path", args[0]), slog.String("error", err.Error()))
				}
			}

			dirs, err := watchDirs(args[0], cfg.Model.External)
			if err != nil {
				return err
			}
			w, err := newWatcher(logger, debounce, encode)
			if err != nil {
				return err
			}
			if output != "" && output != "-" {
				w.ignore(output)
			}

			encode()
			return w.run(ctx, dirs)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "Delay used to coalesce file events")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Listen address for /metrics (overrides metrics.addr)")
	return cmd
}

// watcher coalesces file events on model documents and calls onChange once
// per debounce interval in which something changed.
type watcher struct {
	fsw      *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration
	onChange func()
	ignored  map[string]bool
	pending  map[string]fsnotify.Op // path → most recent operation
}

func newWatcher(logger *slog.Logger, debounce time.Duration, onChange func()) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &watcher{
		fsw:      fsw,
		logger:   logger,
		debounce: debounce,
		onChange: onChange,
		ignored:  make(map[string]bool),
		pending:  make(map[string]fsnotify.Op),
	}, nil
}

// ignore drops events for path.
func (w *watcher) ignore(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		w.ignored[abs] = true
	}
}

// run watches dirs until ctx is done, then closes the watcher.
func (w *watcher) run(ctx context.Context, dirs []string) error {
	defer w.fsw.Close()
	for _, dir := range dirs {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.logger.Debug("Watching directory", slog.String("path", dir))
	}
	w.logger.Info("File watcher started",
		slog.Int("directories", len(dirs)),
		slog.Duration("debounce", w.debounce))

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", slog.String("error", err.Error()))

		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *watcher) handle(event fsnotify.Event) {
	if !isModelDocument(event.Name) || event.Op == fsnotify.Chmod {
		return
	}
	if abs, err := filepath.Abs(event.Name); err == nil && w.ignored[abs] {
		return
	}
	w.pending[event.Name] = event.Op
	w.logger.Debug("File change detected",
		slog.String("path", event.Name),
		slog.String("op", event.Op.String()))
}

func (w *watcher) flush() {
	if len(w.pending) == 0 {
		return
	}
	w.logger.Info("Model documents changed", slog.Int("files", len(w.pending)))
	w.pending = make(map[string]fsnotify.Op)
	w.onChange()
}

func isModelDocument(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// watchDirs returns the directory of the document, the static base directory
// of every external pattern and the directories of its current matches.
func watchDirs(document string, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string
	addDir := func(dir string) {
		if seen[dir] {
			return
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}

	docAbs, err := filepath.Abs(document)
	if err != nil {
		return nil, err
	}
	addDir(filepath.Dir(docAbs))

	for _, pattern := range patterns {
		absPattern, err := filepath.Abs(pattern)
		if err != nil {
			return nil, err
		}
		base, _ := doublestar.SplitPattern(filepath.ToSlash(absPattern))
		addDir(filepath.FromSlash(base))
		matches, err := doublestar.FilepathGlob(absPattern)
		if err != nil {
			return nil, fmt.Errorf("external pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			addDir(filepath.Dir(match))
		}
	}
	return dirs, nil
}

// runMetrics counts watch-triggered encoding runs.
type runMetrics struct {
	runs       *prometheus.CounterVec // By result
	statements prometheus.Gauge
}

func newRunMetrics(reg prometheus.Registerer) (*runMetrics, error) {
	m := &runMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aspectrdf",
			Subsystem: "watch",
			Name:      "runs_total",
			Help:      "Total number of encoding runs",
		}, []string{"result"}),

		statements: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aspectrdf",
			Subsystem: "watch",
			Name:      "statements",
			Help:      "Number of statements written by the last successful run",
		}),
	}
	for _, c := range []prometheus.Collector{m.runs, m.statements} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *runMetrics) record(summary *Summary, err error) {
	if err != nil {
		m.runs.WithLabelValues("error").Inc()
		return
	}
	m.runs.WithLabelValues("ok").Inc()
	m.statements.Set(float64(summary.Statements))
}

// metricsMux serves the registry on /metrics and a liveness probe on /health.
func metricsMux(registry *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return mux
}
