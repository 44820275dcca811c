// Package server exposes roster conversion over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bryan-cox/aimsledger/internal/airframe"
	"github.com/bryan-cox/aimsledger/internal/crew"
	"github.com/bryan-cox/aimsledger/internal/metrics"
	"github.com/bryan-cox/aimsledger/internal/model"
	"github.com/bryan-cox/aimsledger/internal/report"
	"github.com/bryan-cox/aimsledger/internal/roster"
)

// maxRosterBytes caps the size of a conversion request.
const maxRosterBytes = 10 << 20

// Request options.
const (
	OptionAllDayEvents = "ade"
	OptionFirstOfficer = "fo"
)

// Config wires the server's dependencies.
type Config struct {
	Addr     string
	MinRest  time.Duration
	Location *time.Location
	// Airframes may be nil to skip registration lookups.
	Airframes *airframe.Client
	Metrics   *metrics.Collector
}

// ConvertRequest is the body of POST /convert.
type ConvertRequest struct {
	Roster  string   `json:"roster"`
	Format  string   `json:"format"`
	Options []string `json:"options"`
}

// Server serves the conversion API.
type Server struct {
	cfg        Config
	router     chi.Router
	httpServer *http.Server
}

// New constructs the server and its routes.
func New(cfg Config) *Server {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewCollector()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	s := &Server{cfg: cfg, router: router}
	router.Post("/convert", s.handleConvert)
	router.Get("/healthz", s.handleHealth)
	router.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", s.cfg.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRosterBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if !slices.Contains(report.Formats(), req.Format) {
		writeJSON(w, http.StatusBadRequest, "unknown format: "+req.Format)
		return
	}

	start := time.Now()
	parsed, err := roster.ParseString(req.Roster, roster.Options{MinRest: s.cfg.MinRest})
	if err != nil {
		var inputErr *model.InputFileError
		switch {
		case errors.As(err, &inputErr):
			s.cfg.Metrics.RecordRejected()
			writeJSON(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, roster.ErrColumnGap), errors.Is(err, crew.ErrBadCrewLine):
			writeJSON(w, http.StatusUnprocessableEntity, err.Error())
		default:
			slog.Error("failed to convert roster", "error", err, "request_id", middleware.GetReqID(r.Context()))
			writeJSON(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	s.cfg.Metrics.RecordParsed(parsed, time.Since(start))
	for _, d := range parsed.Diagnostics {
		slog.Warn(d.Message, "date", d.Date.Format("2006-01-02"), "block", d.Block, "request_id", middleware.GetReqID(r.Context()))
	}

	opts := report.Options{
		Location:     s.cfg.Location,
		FirstOfficer: slices.Contains(req.Options, OptionFirstOfficer),
		AllDayEvents: slices.Contains(req.Options, OptionAllDayEvents),
	}
	if req.Format == report.FormatCSV || req.Format == report.FormatEFJ {
		opts.Airframes = s.cfg.Airframes.Resolve(r.Context(), parsed)
	}

	var out bytes.Buffer
	if err := report.Render(&out, req.Format, parsed, opts); err != nil {
		slog.Error("failed to render roster", "error", err, "format", req.Format)
		writeJSON(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, out.String())
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
