package web

import (
	"context"
	"crypto/subtle"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"streetartlist/internal/board"
	"streetartlist/internal/config"
	"streetartlist/internal/datefmt"
	"streetartlist/internal/ics"
	appLog "streetartlist/internal/log"
	"streetartlist/internal/model"
	"streetartlist/internal/recap"
)

//go:embed templates/board.html
var templatesFS embed.FS

var boardTemplate = template.Must(template.ParseFS(templatesFS, "templates/board.html"))

// Server exposes the board, the formatter and the exports over HTTP.
type Server struct {
	cfg   *config.Config
	board *board.Board

	// now is overridden in tests.
	now func() time.Time
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, b *board.Board) *Server {
	s := &Server{
		cfg:   cfg,
		board: b,
		now:   time.Now,
	}
	return s
}

// Handler builds the router. /health stays public; everything else sits
// behind basic auth when it is configured.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.basicAuthEnabled() {
			appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
			r.Use(s.basicAuthMiddleware)
		}

		r.Route("/api", func(r chi.Router) {
			r.Get("/listings", s.handleListings)
			r.Get("/format/range", s.handleFormatRange)
			r.Get("/format/deadline", s.handleFormatDeadline)
			r.Get("/recap", s.handleRecap)
		})
		r.Get("/calendar.ics", s.handleCalendar)
		r.Get("/board", s.handleBoard)
		r.Get("/preview.png", s.handlePreview)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware rejects requests without the configured credentials.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="StreetArtList", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// listingsResponse is the JSON response shape for /api/listings.
type listingsResponse struct {
	Cards     []board.Card     `json:"cards"`
	UpdatedAt *time.Time       `json:"updated_at,omitempty"`
	Device    model.Device     `json:"device"`
	Screen    model.ScreenSize `json:"screen"`
	Timezone  string           `json:"timezone"`
}

// handleListings returns the board cards rendered for one display mode.
//
// GET /api/listings?device=mobile&screen=tablet
//   - device: mobile | desktop (default from config)
//   - screen: mobile | tablet | desktop | xl_desktop (default from config)
func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	v := s.viewFor(r)

	resp := listingsResponse{
		Cards:    s.board.Cards(v),
		Device:   v.Device,
		Screen:   v.Screen,
		Timezone: s.board.Formatter().Zone("").String(),
	}
	if at := s.board.UpdatedAt(); !at.IsZero() {
		at = at.UTC()
		resp.UpdatedAt = &at
	}
	writeJSON(w, http.StatusOK, resp)
}

type labelResponse struct {
	Label string `json:"label"`
}

// handleFormatRange formats one event date range.
//
// GET /api/format/range?start=2025-06-01&end=2025-06-07&format=dated&device=mobile&preview=1
func (s *Server) handleFormatRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := datefmt.DisplayMode{
		Device:  s.deviceFor(q.Get("device")),
		Preview: parseBool(q.Get("preview")),
	}
	label := s.board.Formatter().FormatRange(q.Get("start"), q.Get("end"), model.ParseEventFormat(q.Get("format")), mode)
	writeJSON(w, http.StatusOK, labelResponse{Label: label})
}

// handleFormatDeadline formats one open-call deadline.
//
// GET /api/format/deadline?end=2025-06-15T23:59:59Z&tz=America/New_York&type=Fixed&preview=1&screen=tablet
func (s *Server) handleFormatDeadline(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := datefmt.DeadlineOptions{
		Preview:     parseBool(q.Get("preview")),
		WeeklyRecap: parseBool(q.Get("recap")),
		Screen:      s.screenFor(q.Get("screen")),
		Superscript: parseBool(q.Get("sup")),
	}
	label := s.board.Formatter().FormatDeadline(q.Get("end"), q.Get("tz"), model.ParseCallType(q.Get("type")), opts)
	writeJSON(w, http.StatusOK, labelResponse{Label: label})
}

// handleRecap returns the digest of Fixed calls closing in the next days.
//
// GET /api/recap?days=7 (1 to config.MaxRecapDays)
func (s *Server) handleRecap(w http.ResponseWriter, r *http.Request) {
	days := s.cfg.RecapDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		if n > config.MaxRecapDays {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("days must be at most %d", config.MaxRecapDays))
			return
		}
		days = n
	}
	rc := recap.Build(s.board.Listings(), s.board.Formatter(), s.now(), time.Duration(days)*24*time.Hour)
	writeJSON(w, http.StatusOK, rc)
}

// handleCalendar serves every Fixed deadline as a subscribable calendar.
func (s *Server) handleCalendar(w http.ResponseWriter, _ *http.Request) {
	body := ics.ExportDeadlines(s.board.Listings(), s.board.Formatter(), s.now())
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="deadlines.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

type boardPage struct {
	Cards     []board.Card
	UpdatedAt string
	Device    model.Device
	Screen    model.ScreenSize
}

// handleBoard renders the HTML board. The capture job screenshots this page
// once the body carries data-ready="true".
func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	v := s.viewFor(r)
	page := boardPage{
		Cards:  s.board.Cards(v),
		Device: v.Device,
		Screen: v.Screen,
	}
	if at := s.board.UpdatedAt(); !at.IsZero() {
		page.UpdatedAt = at.In(s.board.Formatter().Zone("")).Format("Jan 2, 3:04pm MST")
	}

	var b strings.Builder
	if err := boardTemplate.Execute(&b, page); err != nil {
		appLog.Error("board template failed", err)
		http.Error(w, "failed to render board", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(b.String()))
}

// handlePreview serves the last captured share card from disk.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	// http.ServeFile answers 404 for a missing file.
	http.ServeFile(w, r, s.cfg.Capture.Output)
}

func (s *Server) viewFor(r *http.Request) board.View {
	q := r.URL.Query()
	return board.View{
		Device: s.deviceFor(q.Get("device")),
		Screen: s.screenFor(q.Get("screen")),
	}
}

func (s *Server) deviceFor(v string) model.Device {
	if v == "" {
		return s.cfg.Device
	}
	return model.ParseDevice(v)
}

func (s *Server) screenFor(v string) model.ScreenSize {
	if v == "" {
		return s.cfg.Screen
	}
	return model.ParseScreenSize(v)
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
