package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/salonsuite/bella"
	"github.com/salonsuite/bella/application/service"
	"github.com/salonsuite/bella/internal/config"
)

// streamRow is one record in the large-output demo streams.
type streamRow struct {
	ID           int    `json:"id"`
	BusinessType string `json:"business_type"`
	City         string `json:"city"`
	Day          int    `json:"day"`
	Activity     string `json:"activity"`
	Script       string `json:"script"`
	Hashtags     string `json:"hashtags"`
	GeneratedAt  string `json:"generated_at"`
	Branding     string `json:"branding"`
}

var (
	streamBusinessTypes = []string{"nail salon", "hair salon", "spa", "barbershop", "beauty clinic"}
	streamCities        = []string{"Miami", "Dallas", "Phoenix", "Seattle", "Denver"}
	streamActivities    = []string{"Behind the Scenes", "Client Testimonial", "Before & After", "Educational Tip"}
)

// rowAt deterministically produces the i-th demo row without materializing
// the full dataset.
func rowAt(i int, now time.Time) streamRow {
	day := (i % 30) + 1
	return streamRow{
		ID:           i + 1,
		BusinessType: streamBusinessTypes[i%len(streamBusinessTypes)],
		City:         streamCities[i%len(streamCities)],
		Day:          day,
		Activity:     streamActivities[i%len(streamActivities)],
		Script:       fmt.Sprintf("Professional beauty services in your city - Day %d", day),
		Hashtags:     fmt.Sprintf("#beauty #salon #professional #local #day%d", day),
		GeneratedAt:  now.Format(time.RFC3339),
		Branding:     "Powered by Salon Suite Digital Studio",
	}
}

// StreamRouter serves the large-output compatibility surface: chunked text,
// NDJSON, pagination, file export, SSE, health, and the demo page. These
// handlers write and flush incrementally and must not sit behind chi's
// Timeout middleware, which wraps the ResponseWriter.
type StreamRouter struct {
	client  *bella.Client
	cfg     config.StreamConfig
	version string
	logger  *slog.Logger
}

// NewStreamRouter creates a new StreamRouter.
func NewStreamRouter(client *bella.Client, cfg config.StreamConfig, version string) *StreamRouter {
	return &StreamRouter{
		client:  client,
		cfg:     cfg,
		version: version,
		logger:  client.Logger(),
	}
}

// Register wires the streaming endpoints onto the given router at its root.
// Registered directly rather than via Mount so the rest of the root mount
// stays free for other route groups.
func (s *StreamRouter) Register(router chi.Router) {
	router.Get("/health", s.Health)
	router.Get("/stream", s.StreamText)
	router.Get("/ndjson", s.StreamNDJSON)
	router.Get("/paginate", s.Paginate)
	router.Get("/export", s.Export)
	router.Get("/events", s.Events)
	router.Get("/demo", s.Demo)
}

// Routes returns a standalone chi router with the streaming endpoints.
func (s *StreamRouter) Routes() chi.Router {
	router := chi.NewRouter()
	s.Register(router)
	return router
}

// Health handles GET /health.
func (s *StreamRouter) Health(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	database := "connected"
	var totalCalendars int64
	if _, total, err := s.client.Calendars.List(ctx, service.CalendarListParams{Limit: 1}); err != nil {
		database = "error"
		s.logger.Warn("health check database probe failed", slog.String("error", err.Error()))
	} else {
		totalCalendars = total
	}

	status := "healthy"
	code := http.StatusOK
	if database != "connected" {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]any{
		"status":          status,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
		"database":        database,
		"total_calendars": totalCalendars,
		"version":         s.version,
	})
}

// StreamText handles GET /stream. Calendar-style text lines are flushed in
// chunks of roughly ChunkSize bytes.
func (s *StreamRouter) StreamText(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	now := time.Now()

	var buf strings.Builder
	for i := 0; i < s.cfg.NDJSONRows(); i++ {
		select {
		case <-req.Context().Done():
			return
		default:
		}

		row := rowAt(i, now)
		buf.WriteString(fmt.Sprintf("Day %d: %s %s\n", row.Day, row.Script, row.Hashtags))

		if buf.Len() >= s.cfg.ChunkSize() {
			if _, err := io.WriteString(w, buf.String()); err != nil {
				return
			}
			buf.Reset()
			if flusher != nil {
				flusher.Flush()
			}
		}
	}

	if buf.Len() > 0 {
		_, _ = io.WriteString(w, buf.String())
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// StreamNDJSON handles GET /ndjson. One JSON object per line.
func (s *StreamRouter) StreamNDJSON(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	encoder := json.NewEncoder(w)
	now := time.Now()

	for i := 0; i < s.cfg.NDJSONRows(); i++ {
		select {
		case <-req.Context().Done():
			return
		default:
		}

		if err := encoder.Encode(rowAt(i, now)); err != nil {
			return
		}
		if flusher != nil && (i+1)%500 == 0 {
			flusher.Flush()
		}
	}
	if flusher != nil {
		flusher.Flush()
	}
}

// Paginate handles GET /paginate. Returns only the requested slice of the
// demo dataset; page or limit outside 1..1000 is a 400.
func (s *StreamRouter) Paginate(w http.ResponseWriter, req *http.Request) {
	page, errPage := intQuery(req, "page", 1)
	limit, errLimit := intQuery(req, "limit", 100)
	if errPage != nil || errLimit != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Page and limit must be integers"})
		return
	}
	if page < 1 || limit < 1 || limit > 1000 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid page or limit parameters"})
		return
	}

	totalRows := s.cfg.ExportRows()
	offset := (page - 1) * limit
	now := time.Now()

	results := make([]streamRow, 0, limit)
	for i := offset; i < totalRows && len(results) < limit; i++ {
		results = append(results, rowAt(i, now))
	}

	totalPages := (totalRows + limit - 1) / limit
	writeJSON(w, http.StatusOK, map[string]any{
		"page":        page,
		"limit":       limit,
		"total_pages": totalPages,
		"has_next":    page < totalPages,
		"has_prev":    page > 1,
		"results":     results,
	})
}

// Export handles GET /export. The dataset is written to a temp file as one
// JSON array and served as an attachment, then the temp file is removed.
func (s *StreamRouter) Export(w http.ResponseWriter, req *http.Request) {
	tmp, err := os.CreateTemp("", "bella_export_*.json")
	if err != nil {
		s.logger.Error("export temp file", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Export failed"})
		return
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if err := s.writeExport(tmp); err != nil {
		s.logger.Error("export write", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Export failed"})
		return
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Export failed"})
		return
	}

	filename := fmt.Sprintf("bella_export_%s.json", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, tmp)
}

func (s *StreamRouter) writeExport(f *os.File) error {
	now := time.Now()
	if _, err := f.WriteString("[\n"); err != nil {
		return err
	}
	for i := 0; i < s.cfg.ExportRows(); i++ {
		if i > 0 {
			if _, err := f.WriteString(",\n"); err != nil {
				return err
			}
		}
		data, err := json.Marshal(rowAt(i, now))
		if err != nil {
			return err
		}
		if _, err := f.Write(data); err != nil {
			return err
		}
	}
	_, err := f.WriteString("\n]")
	return err
}

// Events handles GET /events. SSE: one connection event, a fixed number of
// counter events with a heartbeat comment every 10, then a completion event.
func (s *StreamRouter) Events(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	emit := func(payload string) bool {
		if _, err := io.WriteString(w, payload); err != nil {
			return false
		}
		if flusher != nil {
			flusher.Flush()
		}
		return true
	}

	if !emit("data: {\"type\": \"connection\", \"message\": \"Connected to bella live stream\"}\n\n") {
		return
	}

	start := time.Now()
	total := s.cfg.SSEEventCount()
	for counter := 1; counter <= total; counter++ {
		select {
		case <-req.Context().Done():
			return
		case <-time.After(s.cfg.SSEInterval()):
		}

		event, err := json.Marshal(map[string]any{
			"type":         "counter",
			"counter":      counter,
			"elapsed_time": time.Since(start).Round(10 * time.Millisecond).Seconds(),
			"timestamp":    time.Now().Format(time.RFC3339),
			"message":      fmt.Sprintf("Live update #%d", counter),
		})
		if err != nil {
			return
		}
		if !emit(fmt.Sprintf("data: %s\n\n", event)) {
			return
		}

		if counter%10 == 0 {
			if !emit(fmt.Sprintf(": heartbeat at %s\n\n", time.Now().Format(time.RFC3339))) {
				return
			}
		}
	}

	emit(fmt.Sprintf("data: {\"type\": \"complete\", \"total_events\": %d}\n\n", total))
}

// Demo handles GET /demo: a self-contained page linking the endpoints.
func (s *StreamRouter) Demo(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, demoHTML)
}

func intQuery(req *http.Request, key string, fallback int) (int, error) {
	raw := req.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

const demoHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>bella Large Output Demo</title>
    <style>
        body { font-family: sans-serif; margin: 40px auto; max-width: 720px; color: #333; }
        h1 { color: #b5436a; }
        .card { border: 1px solid #ddd; border-radius: 6px; padding: 16px; margin: 12px 0; }
        .card h2 { margin-top: 0; font-size: 1.1em; }
        a { color: #b5436a; margin-right: 12px; }
    </style>
</head>
<body>
    <h1>bella</h1>
    <p>Large-output handling demo: streaming, pagination, export, and live events.</p>
    <div class="card">
        <h2>Chunked text stream</h2>
        <a href="/stream">View Stream</a>
    </div>
    <div class="card">
        <h2>NDJSON stream</h2>
        <a href="/ndjson">Raw NDJSON</a>
    </div>
    <div class="card">
        <h2>Pagination</h2>
        <a href="/paginate?page=1&amp;limit=50">Page 1 (50 items)</a>
        <a href="/paginate?page=5&amp;limit=25">Page 5 (25 items)</a>
    </div>
    <div class="card">
        <h2>File export</h2>
        <a href="/export">Download Export</a>
    </div>
    <div class="card">
        <h2>Server-sent events</h2>
        <a href="/events">View Events</a>
    </div>
    <div class="card">
        <h2>API</h2>
        <a href="/health">Health</a>
        <a href="/docs">API Docs</a>
    </div>
</body>
</html>
`
