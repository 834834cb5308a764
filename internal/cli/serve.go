package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archlens/pkg/cache"
	"github.com/matzehuels/archlens/pkg/coverage"
	"github.com/matzehuels/archlens/pkg/graph"
	"github.com/matzehuels/archlens/pkg/layout"
	"github.com/matzehuels/archlens/pkg/observability"
	"github.com/matzehuels/archlens/pkg/transform"
)

// reloadDebounce coalesces rapid file events (editors often write twice).
const reloadDebounce = 250 * time.Millisecond

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string // listen address
	backend string // cache backend override
	noWatch bool   // disable model file watching
}

// newServeCmd creates the serve command.
func newServeCmd(configPath *string) *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [model.json]",
		Short: "Serve scenes over HTTP with live model reloading",
		Long: `Serve transformed scenes over HTTP.

The server loads the model file once, watches it for changes, and exposes
scene and coverage endpoints. Scenes are cached per parameter combination;
a model change invalidates cached scenes by rotating the graph hash.
The model path may come from the argument or from "model" in the [server]
config section; the argument wins.

Endpoints:
  GET /healthz              liveness probe
  GET /api/scene            transformed scene (query: zoom, algorithm, types,
                            relations, center, bundling, threshold)
  GET /api/coverage         goal coverage summary
  GET /api/stats            layout cache statistics
  DELETE /api/cache         drop all cached scenes`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			modelPath, err := resolveModelPath(args, cfg)
			if err != nil {
				return err
			}
			if opts.addr == "" {
				opts.addr = cfg.Server.Addr
			}
			if opts.backend != "" {
				cfg.Cache.Backend = opts.backend
			}
			return runServe(cmd.Context(), modelPath, opts, cfg)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&opts.backend, "cache-backend", "", "scene cache backend: none, memory, file, redis, mongo")
	cmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "disable model file watching")

	return cmd
}

// resolveModelPath picks the model file to serve: the positional argument
// when given, else the server.model config value.
func resolveModelPath(args []string, cfg Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Server.Model != "" {
		return cfg.Server.Model, nil
	}
	return "", fmt.Errorf("no model file: pass one as an argument or set server.model in the config")
}

// runServe wires the server, the cache backend, and the file watcher, then
// blocks until ctx is canceled or the listener fails.
func runServe(ctx context.Context, modelPath string, opts serveOpts, cfg Config) error {
	logger := loggerFromContext(ctx)

	backend, err := newCacheBackend(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer backend.Close()

	srv, err := newServer(modelPath, backend, cfg, logger)
	if err != nil {
		return err
	}

	if !opts.noWatch {
		stop, err := srv.watch(ctx)
		if err != nil {
			logger.Warnf("File watching disabled: %v", err)
		} else {
			defer stop()
		}
	}

	httpSrv := &http.Server{
		Addr:              opts.addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Serving %s on %s", modelPath, opts.addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// server holds the shared state behind the HTTP handlers. The model and its
// hash swap atomically under mu when the watched file changes.
type server struct {
	mu        sync.RWMutex
	model     *graph.TypedGraph
	modelHash string

	modelPath   string
	transformer *transform.Transformer
	cache       cache.Cache
	keyer       cache.Keyer
	cfg         Config
	logger      *charmlog.Logger
}

func newServer(modelPath string, backend cache.Cache, cfg Config, logger *charmlog.Logger) (*server, error) {
	s := &server{
		modelPath:   modelPath,
		transformer: transform.New(transform.WithLogger(logger)),
		cache:       backend,
		keyer:       cache.NewDefaultKeyer(),
		cfg:         cfg,
		logger:      logger,
	}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// reload reads the model file and swaps it in. The hash of the raw bytes
// scopes every cache key, so stale scenes become unreachable after a swap.
func (s *server) reload() error {
	data, err := os.ReadFile(s.modelPath)
	if err != nil {
		return fmt.Errorf("read model %s: %w", s.modelPath, err)
	}
	g, err := graph.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("parse model %s: %w", s.modelPath, err)
	}

	s.mu.Lock()
	s.model = g
	s.modelHash = cache.Hash(data)
	s.mu.Unlock()

	s.logger.Infof("Loaded model: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	return nil
}

// snapshot returns the current model and its hash.
func (s *server) snapshot() (*graph.TypedGraph, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model, s.modelHash
}

// watch watches the model file's directory and reloads on changes.
// Watching the directory rather than the file survives editors that
// replace the file via rename.
func (s *server) watch(ctx context.Context) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	dir := filepath.Dir(s.modelPath)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	target, err := filepath.Abs(s.modelPath)
	if err != nil {
		target = s.modelPath
	}

	go func() {
		var timer *time.Timer
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				abs, err := filepath.Abs(event.Name)
				if err != nil || abs != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(reloadDebounce, func() {
					if err := s.reload(); err != nil {
						s.logger.Warnf("Model reload failed, keeping previous model: %v", err)
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warnf("Watcher error: %v", err)
			}
		}
	}()

	s.logger.Debugf("Watching %s for changes", s.modelPath)
	return func() { watcher.Close() }, nil
}

// routes builds the chi router with request ID tagging.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/scene", s.handleScene)
	r.Get("/api/coverage", s.handleCoverage)
	r.Get("/api/stats", s.handleStats)
	r.Delete("/api/cache", s.handleCacheClear)

	return r
}

// requestID tags each request with a UUID for log correlation.
func (s *server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		ctx := withLogger(r.Context(), s.logger.With("request_id", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScene transforms the current model using query parameters and caches
// the encoded result per parameter combination.
func (s *server) handleScene(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := loggerFromContext(ctx)

	g, hash := s.snapshot()
	opts, keyOpts, err := sceneParams(r, s.cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	key := s.keyer.SceneKey(hash, keyOpts)
	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, key)
		logger.Debugf("Scene cache hit: %s", key)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "hit")
		_, _ = w.Write(data)
		return
	}
	observability.Cache().OnCacheMiss(ctx, key)

	opts.Logger = logger

	start := time.Now()
	observability.Transform().OnTransformStart(ctx, g.NodeCount(), g.EdgeCount())
	scene, err := s.transformer.Transform(g, opts)
	if err != nil {
		observability.Transform().OnTransformComplete(ctx, 0, 0, time.Since(start), err)
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	observability.Transform().OnTransformComplete(ctx, len(scene.Nodes), len(scene.Edges), time.Since(start), nil)

	data, err := json.Marshal(scene)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if err := s.cache.Set(ctx, key, data, cache.TTLScene); err != nil {
		logger.Warnf("Scene cache write failed: %v", err)
	} else {
		observability.Cache().OnCacheSet(ctx, key, len(data))
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "miss")
	_, _ = w.Write(data)
}

func (s *server) handleCoverage(w http.ResponseWriter, r *http.Request) {
	g, _ := s.snapshot()

	expected := s.cfg.Transform.ExpectedLinks
	if expected <= 0 {
		expected = coverage.DefaultExpectedLinks
	}
	coverages := coverage.NewAnalyzer(expected).AnalyzeGraph(g)

	writeJSON(w, http.StatusOK, map[string]any{
		"goals":   coverages,
		"summary": coverage.Summarize(coverages),
	})
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	g, hash := s.snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"model_hash":      hash,
		"nodes":           g.NodeCount(),
		"edges":           g.EdgeCount(),
		"layout_hit_rate": s.transformer.CacheHitRate(),
	})
}

func (s *server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	s.transformer.ClearLayoutCache()
	// Scene entries are keyed by model hash and expire via TTL; rotating the
	// layout cache is enough to force fresh computation.
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// sceneParams parses scene query parameters into transform options and the
// matching cache key fields.
func sceneParams(r *http.Request, cfg Config) (transform.Options, cache.SceneKeyOpts, error) {
	q := r.URL.Query()

	opts := transformOpts{
		algorithm: q.Get("algorithm"),
		center:    q.Get("center"),
		types:     q.Get("types"),
		relations: q.Get("relations"),
		zoom:      -1,
		format:    formatJSON,
	}

	if v := q.Get("zoom"); v != "" {
		zoom, err := strconv.ParseFloat(v, 64)
		if err != nil || zoom <= 0 {
			return transform.Options{}, cache.SceneKeyOpts{}, fmt.Errorf("invalid zoom %q", v)
		}
		opts.zoom = zoom
	}
	if v := q.Get("bundling"); v == "false" || v == "0" {
		opts.noBundling = true
	}
	if v := q.Get("threshold"); v != "" {
		threshold, err := strconv.Atoi(v)
		if err != nil || threshold < 0 {
			return transform.Options{}, cache.SceneKeyOpts{}, fmt.Errorf("invalid threshold %q", v)
		}
		opts.threshold = threshold
	}
	applyTransformDefaults(&opts, cfg)

	tOpts := transform.Options{
		ZoomLevel:       opts.zoom,
		CenterNodeID:    opts.center,
		DisableBundling: opts.noBundling,
		BundleThreshold: opts.threshold,
	}
	tOpts.Algorithm = layout.Kind(opts.algorithm)
	for _, s := range splitList(opts.types) {
		tOpts.ElementTypes = append(tOpts.ElementTypes, graph.ElementType(s))
	}
	for _, s := range splitList(opts.relations) {
		tOpts.RelationTypes = append(tOpts.RelationTypes, graph.RelationType(s))
	}

	keyOpts := cache.SceneKeyOpts{
		Algorithm:    opts.algorithm,
		ZoomLevel:    opts.zoom,
		Bundling:     !opts.noBundling,
		ElementTypes: splitList(opts.types),
		Relations:    splitList(opts.relations),
		CenterNodeID: opts.center,
	}

	return tOpts, keyOpts, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
