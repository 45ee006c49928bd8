package server

import (
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/gzhttp"
	gocache "github.com/patrickmn/go-cache"

	"github.com/hupe1980/clusterviz"
	"github.com/hupe1980/clusterviz/codec"
	"github.com/hupe1980/clusterviz/internal/pointcloud"
	"github.com/hupe1980/clusterviz/internal/resource"
	"github.com/hupe1980/clusterviz/internal/session"
	"github.com/hupe1980/clusterviz/internal/telemetry"
)

// Request defaults, matching the browser client.
const (
	DefaultNumClusters = 3
	DefaultInitMethod  = "random"
)

type options struct {
	logger   *clusterviz.Logger
	codec    codec.Codec
	metrics  *telemetry.Collector
	rc       *resource.Controller
	cloud    pointcloud.Config
	cacheTTL time.Duration
	runWait  time.Duration
	gzip     bool
	rng      *rand.Rand
}

// Option configures a Server.
type Option func(*options)

// WithLogger sets the request logger.
func WithLogger(l *clusterviz.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithCodec sets the codec for responses and websocket frames.
func WithCodec(c codec.Codec) Option {
	return func(o *options) { o.codec = c }
}

// WithMetrics records requests in c and serves it on /metrics.
func WithMetrics(c *telemetry.Collector) Option {
	return func(o *options) { o.metrics = c }
}

// WithResourceController applies rate limiting and run admission from rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) { o.rc = rc }
}

// WithPointCloud sets the shape of generated datasets.
func WithPointCloud(cfg pointcloud.Config) Option {
	return func(o *options) { o.cloud = cfg }
}

// WithResultCache caches manual runs for ttl. Zero disables the cache.
func WithResultCache(ttl time.Duration) Option {
	return func(o *options) { o.cacheTTL = ttl }
}

// WithRunWaitTimeout bounds how long a request waits for a free run slot.
func WithRunWaitTimeout(d time.Duration) Option {
	return func(o *options) { o.runWait = d }
}

// WithGzip toggles response compression.
func WithGzip(enabled bool) Option {
	return func(o *options) { o.gzip = enabled }
}

// WithSeed makes generated datasets reproducible.
func WithSeed(seed int64) Option {
	return func(o *options) { o.rng = rand.New(rand.NewSource(seed)) }
}

// Server serves the clustering API.
type Server struct {
	opts      options
	clusterer *clusterviz.Clusterer
	sessions  *session.Store
	results   *gocache.Cache // nil when caching is disabled
	upgrader  websocket.Upgrader

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// New creates a Server around a Clusterer and a session store.
func New(clusterer *clusterviz.Clusterer, sessions *session.Store, optFns ...Option) *Server {
	opts := options{
		logger:  clusterviz.NoopLogger(),
		codec:   codec.Default,
		cloud:   pointcloud.DefaultConfig(),
		runWait: 2 * time.Second,
		gzip:    true,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.logger == nil {
		opts.logger = clusterviz.NoopLogger()
	}
	if opts.codec == nil {
		opts.codec = codec.Default
	}

	rng := opts.rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Server{
		opts:      opts,
		clusterer: clusterer,
		sessions:  sessions,
		rng:       rng,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	if opts.cacheTTL > 0 {
		s.results = gocache.New(opts.cacheTTL, 2*opts.cacheTTL)
	}
	return s
}

// Handler returns the routed, instrumented handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /initial_data", s.compress(http.HandlerFunc(s.handleInitialData)))
	mux.Handle("POST /kmeans", s.compress(http.HandlerFunc(s.handleKMeans)))
	mux.Handle("GET /chart", s.compress(http.HandlerFunc(s.handleChart)))
	mux.HandleFunc("DELETE /session", s.handleDeleteSession)
	// The websocket handshake needs the raw connection, so it bypasses gzip.
	mux.HandleFunc("GET /ws/kmeans", s.handleWebSocket)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.opts.metrics != nil {
		mux.Handle("GET /metrics", s.opts.metrics.Handler())
	}

	return s.instrument(s.limit(mux))
}

// Close drops cached results.
func (s *Server) Close() error {
	if s.results != nil {
		s.results.Flush()
	}
	return nil
}

func (s *Server) compress(h http.Handler) http.Handler {
	if !s.opts.gzip {
		return h
	}
	return gzhttp.GzipHandler(h)
}

func (s *Server) generate() (*pointcloud.Cloud, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pointcloud.Generate(s.rng, s.opts.cloud)
}
