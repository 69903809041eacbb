package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"playgate/internal/entitlement"
	"playgate/internal/playgate/service"
	"playgate/internal/playgate/store"
	"playgate/internal/playgate/types"
	"playgate/internal/scan"
)

// Request headers carrying caller credentials.
const (
	adminSecretHeader = "X-Admin-Secret"
	userTokenHeader   = "X-User-Token"
)

// maxRequestBody caps request bodies.  Publish payloads carry a base64
// image compressed client-side to ~800px JPEG, so a few MiB is generous.
const maxRequestBody = 8 << 20

type Dependencies struct {
	Logger  *log.Logger
	Addr    string
	Plays   *service.PlayService
	Gate    *entitlement.Gate
	Scanner *scan.Client // nil when slip scanning is not configured
}

type Server struct {
	httpServer *http.Server
	logger     *log.Logger
	mux        *http.ServeMux
	plays      *service.PlayService
	gate       *entitlement.Gate
	scanner    *scan.Client
}

func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger:  d.Logger,
		mux:     mux,
		plays:   d.Plays,
		gate:    d.Gate,
		scanner: d.Scanner,
	}

	mux.HandleFunc("GET /v1/play", s.handleGetPlay)
	mux.HandleFunc("POST /v1/play", s.handlePublishPlay)
	mux.HandleFunc("DELETE /v1/play", s.handleDeletePlay)
	mux.HandleFunc("POST /v1/scan", s.handleScan)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	handler := loggingMiddleware(d.Logger, mux)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ── Public read ──────────────────────────────────────────────────────────────

func (s *Server) handleGetPlay(w http.ResponseWriter, r *http.Request) {
	access := s.gate.CheckAccess(r.Context(), r.Header.Get(userTokenHeader))
	rec, present := s.plays.Current(r.Context())
	view := service.Resolve(rec, present, access.HasAccess, time.Now().UTC())

	resp := types.PlayResponse{
		Play:      playForView(rec, present, view),
		State:     string(view.State),
		Countdown: view.Countdown,
		Access: types.Access{
			Authenticated: access.Authenticated,
			HasAccess:     access.HasAccess,
		},
	}
	writeJSON(w, http.StatusOK, resp)
}

// playForView maps the stored record to the wire shape.  Existence is
// public; the image payload itself is withheld until unlocked.
func playForView(rec store.PlayRecord, present bool, view service.View) *types.Play {
	if !present {
		return nil
	}
	p := &types.Play{
		GameTime:  rec.GameTime.UTC().Format(time.RFC3339),
		Title:     rec.Title,
		UpdatedAt: rec.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if view.State == service.StateUnlocked {
		p.ImageBase64 = rec.ImageBase64
	}
	return p
}

// ── Admin writes ─────────────────────────────────────────────────────────────

func (s *Server) handlePublishPlay(w http.ResponseWriter, r *http.Request) {
	if !s.gate.CheckAdmin(r.Header.Get(adminSecretHeader)) {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req types.PublishRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	rec, err := s.plays.Publish(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageRequired):
			writeError(w, http.StatusBadRequest, "image_required", err.Error())
		case errors.Is(err, service.ErrGameTimeRequired):
			writeError(w, http.StatusBadRequest, "game_time_required", err.Error())
		case errors.Is(err, service.ErrBadGameTime):
			writeError(w, http.StatusBadRequest, "bad_game_time", err.Error())
		default:
			// Storage failures surface to the admin so they know the
			// publish did not take effect.
			s.logger.Printf("publish error: %v", err)
			writeError(w, http.StatusInternalServerError, "storage_failure", "failed to save play")
		}
		return
	}

	writeJSON(w, http.StatusOK, types.PublishResponse{
		Success:   true,
		UpdatedAt: rec.UpdatedAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleDeletePlay(w http.ResponseWriter, r *http.Request) {
	if !s.gate.CheckAdmin(r.Header.Get(adminSecretHeader)) {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	if err := s.plays.Remove(r.Context()); err != nil {
		s.logger.Printf("delete error: %v", err)
		writeError(w, http.StatusInternalServerError, "storage_failure", "failed to delete play")
		return
	}

	writeJSON(w, http.StatusOK, types.PublishResponse{Success: true})
}

// ── Slip scan ────────────────────────────────────────────────────────────────

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if !s.gate.CheckAdmin(r.Header.Get(adminSecretHeader)) {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	if s.scanner == nil {
		writeError(w, http.StatusServiceUnavailable, "scan_unavailable", "slip scanning is not configured")
		return
	}

	var req types.ScanRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.ImageBase64) == "" {
		writeError(w, http.StatusBadRequest, "image_required", "no image provided")
		return
	}

	result, err := s.scanner.Scan(r.Context(), req.ImageBase64)
	if err != nil {
		s.logger.Printf("scan error: %v", err)
		writeError(w, http.StatusBadGateway, "scan_failed", "failed to scan slip")
		return
	}

	writeJSON(w, http.StatusOK, types.ScanResponse{Success: true, Data: result})
}

// ── Health ───────────────────────────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
