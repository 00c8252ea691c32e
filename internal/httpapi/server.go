// Package httpapi implements the request-serving pipeline (spec §4.6/§9):
// a single fallback route decodes a Base65536-wrapped, HMAC-signed
// protobuf payload from the request path, renders or replays a cached
// PNG, paces the response, and writes it back.
package httpapi

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/seismic-render/renderer/internal/cache"
	"github.com/seismic-render/renderer/internal/config"
	"github.com/seismic-render/renderer/internal/names"
	"github.com/seismic-render/renderer/internal/payload"
	"github.com/seismic-render/renderer/internal/ratelimit"
	"github.com/seismic-render/renderer/internal/render"
	"github.com/seismic-render/renderer/internal/worker"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Server holds everything the render pipeline needs: signing/bypass
// configuration, the single-flight render cache, the response-pacing
// limiter, and a handle to the dedicated render worker.
type Server struct {
	cfg     *config.Config
	cache   *cache.RenderCache
	limiter *ratelimit.Limiter
	worker  *worker.Worker

	mux *http.ServeMux
}

func NewServer(cfg *config.Config, c *cache.RenderCache, l *ratelimit.Limiter, w *worker.Worker) *Server {
	return &Server{cfg: cfg, cache: c, limiter: l, worker: w}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400 && statusCode < 500:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 500:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)

		portPrefix := ""
		if host := r.Host; host != "" {
			if _, p, err := net.SplitHostPort(host); err == nil {
				portPrefix = ":" + p
			}
		}
		if portPrefix == "" {
			if p := r.URL.Port(); p != "" {
				portPrefix = ":" + p
			}
		}
		requestTarget := fmt.Sprintf("%s%s", portPrefix, r.RequestURI)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, requestTarget, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

// ServeMux lazily builds and returns the route table: "/" for the root
// landing page, "/demo" for the fixed-sample render (gated on
// cfg.AllowDemo), and everything else falls through to the render
// handler, which treats the path itself as the encoded payload.
func (s *Server) ServeMux() *http.ServeMux {
	if s.mux != nil {
		return s.mux
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.rootHandler)
	mux.HandleFunc("GET /demo", s.demoHandler)
	mux.HandleFunc("/", s.renderHandler)
	s.mux = mux
	return s.mux
}

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<html><body><h1>%s</h1><p>POST a signed report path to render it.</p></body></html>", s.cfg.InstanceName)
}

// demoHandler renders a fixed sample report, bypassing the cache
// entirely (there is nothing to key a cache lookup on) but still
// subject to the rate limiter, keyed on the zero fingerprint.
func (s *Server) demoHandler(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.AllowDemo {
		http.Error(w, "demo endpoint is disabled", http.StatusNotFound)
		return
	}

	requestID := names.Generate()
	identity := names.DemoIdentity(requestID)
	ctx := demoContext(identity)

	var fp render.Fingerprint

	data, err := s.worker.Submit(r.Context(), ctx)
	if err != nil {
		log.Printf("demo render for %q failed: %v", identity, err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	s.respondPaced(w, r, fp, identity, data)
}

// renderHandler implements the full request pipeline: path-slice
// extraction, Base65536 decode, HMAC verification, protobuf decode,
// single-flight cache lookup, then response pacing. This composition
// order is load-bearing: cache lookup-or-compute always happens before
// the rate-limit schedule, which always happens before the pacing
// sleep — never interleaved differently.
func (s *Server) renderHandler(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.EscapedPath()
	if len(raw) > 0 && raw[0] == '/' {
		raw = raw[1:]
	}
	if raw == "" {
		http.NotFound(w, r)
		return
	}

	encoded, err := url.PathUnescape(raw)
	if err != nil {
		http.Error(w, "malformed path encoding", http.StatusBadRequest)
		return
	}

	bin, err := payload.DecodeBase65536(encoded)
	if err != nil {
		http.Error(w, "invalid payload encoding", http.StatusBadRequest)
		return
	}

	version, hmacGiven, body, err := payload.Decode(bin)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if version != payload.SupportedVersion {
		http.Error(w, fmt.Sprintf("unsupported protocol version %d", version), http.StatusBadRequest)
		return
	}

	var fp render.Fingerprint
	if s.cfg.BypassHMAC {
		fp = render.Fingerprint(payload.ComputeHMAC([]byte(s.cfg.HMACKey), body))
	} else {
		if !payload.VerifyHMAC([]byte(s.cfg.HMACKey), body, hmacGiven) {
			http.Error(w, "HMAC verification failed", http.StatusUnauthorized)
			return
		}
		fp = render.Fingerprint(hmacGiven)
	}

	var decoded payload.QuakePrefectureData
	if err := decoded.Unmarshal(body); err != nil {
		http.Error(w, "malformed report payload", http.StatusBadRequest)
		return
	}

	requestID := names.Generate()
	identity := names.Identity(fp, requestID)
	log.Printf("render request %s", identity)

	renderCtx := quakeToContext(decoded, identity)

	data, err := s.cache.GetOrRender(fp, func() ([]byte, error) {
		return s.worker.Submit(context.Background(), renderCtx)
	})
	if err != nil {
		log.Printf("render for %q failed: %v", identity, err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	s.respondPaced(w, r, fp, identity, data)
}

// respondPaced schedules this fingerprint's response slot, sleeps until
// it, then writes the PNG. ctx cancellation (client disconnect) aborts
// the wait early; the already-computed bytes are simply discarded.
func (s *Server) respondPaced(w http.ResponseWriter, r *http.Request, fp render.Fingerprint, identity string, data []byte) {
	respondAt := s.limiter.Schedule(fp, identity)
	if !sleepUntil(r.Context(), respondAt) {
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Instance-Name", s.cfg.InstanceName)
	w.Write(data)
}

func sleepUntil(ctx context.Context, at time.Time) bool {
	d := time.Until(at)
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// quakeToContext maps the wire payload onto the worker's render.Context.
func quakeToContext(d payload.QuakePrefectureData, identity string) render.V0Intensity {
	areaCodes := make(map[render.IntensityLevel][]uint16)
	assign := func(level render.IntensityLevel, ac *payload.AreaCodes) {
		if ac == nil || len(ac.Codes) == 0 {
			return
		}
		codes := make([]uint16, len(ac.Codes))
		for i, c := range ac.Codes {
			codes[i] = uint16(c)
		}
		areaCodes[level] = codes
	}
	assign(render.Intensity1, d.One)
	assign(render.Intensity2, d.Two)
	assign(render.Intensity3, d.Three)
	assign(render.Intensity4, d.Four)
	assign(render.Intensity5Minus, d.FiveMinus)
	assign(render.Intensity5Plus, d.FivePlus)
	assign(render.Intensity6Minus, d.SixMinus)
	assign(render.Intensity6Plus, d.SixPlus)
	assign(render.Intensity7, d.Seven)

	var epicenter *render.Epicenter
	if d.Epicenter != nil {
		epicenter = &render.Epicenter{
			Lat: float64(d.Epicenter.LatX10) / 10,
			Lon: float64(d.Epicenter.LonX10) / 10,
		}
	}

	return render.V0Intensity{
		Time:      time.Unix(int64(d.Time), 0).UTC(),
		Epicenter: epicenter,
		AreaCodes: areaCodes,
		Identity:  identity,
	}
}

// demoContext is a fixed sample report used by the demo endpoint: a
// moderate quake centred near the Noto Peninsula.
func demoContext(identity string) render.V0Intensity {
	return render.V0Intensity{
		Time:      time.Date(2024, 1, 1, 16, 10, 0, 0, time.UTC),
		Epicenter: &render.Epicenter{Lat: 37.5, Lon: 137.2},
		AreaCodes: map[render.IntensityLevel][]uint16{
			render.Intensity3:      {130, 140, 150},
			render.Intensity4:      {160, 170},
			render.Intensity5Minus: {180},
		},
		Identity: identity,
	}
}

// Start runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.cfg.Listen,
		Handler: LoggingMiddleware(s.ServeMux()),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
			if err := server.Close(); err != nil {
				log.Printf("HTTP server force close error: %v", err)
			}
		}
		return nil
	case err := <-errCh:
		return err
	}
}
