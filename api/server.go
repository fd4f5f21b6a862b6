package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/wricardo/pcb-editor/game/config"
	"github.com/wricardo/pcb-editor/game/pcb"
	"github.com/wricardo/pcb-editor/game/pcbfile"
	"github.com/wricardo/pcb-editor/game/service"
	"github.com/wricardo/pcb-editor/transport/websocket"
)

// maxBodyBytes bounds request bodies, imports included
const maxBodyBytes = 1 << 20

// Server represents the REST API server
type Server struct {
	service service.BoardService
	hub     *websocket.Hub
	router  *mux.Router
	handler http.Handler
	logger  *zap.Logger
}

// NewServer creates a new API server. Browsers from allowedOrigins may call
// it cross-origin; an empty list allows every origin.
func NewServer(svc service.BoardService, hub *websocket.Hub, logger *zap.Logger, allowedOrigins []string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		service: svc,
		hub:     hub,
		router:  mux.NewRouter(),
		logger:  logger,
	}

	s.setupRoutes()
	s.handler = newCORS(allowedOrigins).Handler(s.router)
	return s
}

func newCORS(allowedOrigins []string) *cors.Cors {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	})
}

// OriginChecker reports whether a websocket handshake comes from an allowed
// origin. Requests without an Origin header are not from a browser and pass.
func OriginChecker(allowedOrigins []string) func(r *http.Request) bool {
	c := newCORS(allowedOrigins)
	return func(r *http.Request) bool {
		if r.Header.Get("Origin") == "" {
			return true
		}
		return c.OriginAllowed(r)
	}
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	// Must be registered before the {id} pattern
	api.HandleFunc("/sessions/import", s.handleImportSession).Methods("POST")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Board state
	api.HandleFunc("/sessions/{id}/board", s.handleGetBoard).Methods("GET")
	api.HandleFunc("/sessions/{id}/export", s.handleExport).Methods("GET")
	api.HandleFunc("/sessions/{id}/history", s.handleGetHistory).Methods("GET")

	// Editing
	api.HandleFunc("/sessions/{id}/preview/reshape", s.handlePreviewReshape).Methods("POST")
	api.HandleFunc("/sessions/{id}/preview/etch", s.handlePreviewEtch).Methods("POST")
	api.HandleFunc("/sessions/{id}/extend", s.handleRect(service.BoardService.Extend)).Methods("POST")
	api.HandleFunc("/sessions/{id}/erase", s.handleRect(service.BoardService.Erase)).Methods("POST")
	api.HandleFunc("/sessions/{id}/etch", s.handleEtch(service.BoardService.Etch)).Methods("POST")
	api.HandleFunc("/sessions/{id}/unetch", s.handleEtch(service.BoardService.Unetch)).Methods("POST")
	api.HandleFunc("/sessions/{id}/parts", s.handlePlace).Methods("POST")
	api.HandleFunc("/sessions/{id}/parts/remove", s.handleRemovePart).Methods("POST")
	api.HandleFunc("/sessions/{id}/lock", s.handleLock).Methods("POST")
	api.HandleFunc("/sessions/{id}/undo", s.handleHistoryStep(service.BoardService.Undo)).Methods("POST")
	api.HandleFunc("/sessions/{id}/redo", s.handleHistoryStep(service.BoardService.Redo)).Methods("POST")

	// Configuration
	api.HandleFunc("/presets", s.handleListPresets).Methods("GET")
	api.HandleFunc("/presets/{name}", s.handleGetPreset).Methods("GET")
	api.HandleFunc("/partdefs", s.handleListParts).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors onto HTTP statuses
func respondServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, config.ErrPresetNotFound):
		status = http.StatusNotFound
	case errors.Is(err, pcbfile.ErrCorrupt):
		status = http.StatusBadRequest
	}
	respondError(w, status, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// respondOperation logs an edit, pushes applied ones to watchers and writes
// the result
func (s *Server) respondOperation(w http.ResponseWriter, sessionID string, result *service.OperationResult) {
	if result.Applied && s.hub != nil {
		s.hub.BroadcastBoard(sessionID, result.Board)
	}

	s.logger.Info("operation",
		zap.String("session", sessionID),
		zap.String("operation", result.Operation),
		zap.Bool("applied", result.Applied),
		zap.String("reason", result.Reason),
		zap.Int("width", result.Board.Width),
		zap.Int("height", result.Board.Height),
		zap.Int("points", result.Board.Points))

	respondJSON(w, http.StatusOK, result)
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PresetID string `json:"preset_id,omitempty"`
	}

	if r.Body != nil {
		// An empty body selects the default preset
		json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)
	}

	session, err := s.service.CreateSession(r.Context(), req.PresetID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleImportSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Data string `json:"data"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Data) == "" {
		respondError(w, http.StatusBadRequest, "Board data is required")
		return
	}

	session, err := s.service.ImportSession(r.Context(), strings.TrimSpace(req.Data))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	total := len(sessions)

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else { // "accessed"
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj) // desc
	})

	limit := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			limit = l
		}
	}
	sessions = sessions[:limit]

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(sessionID, websocket.EventSessionDeleted, nil)
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Board Handlers

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	board, err := s.service.GetBoard(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, board)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	export, err := s.service.Export(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.SessionID+".pcb"))
		fmt.Fprintln(w, export.Data)
		return
	}

	respondJSON(w, http.StatusOK, export)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}

	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetHistory(r.Context(), sessionID, opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// Editing Handlers

type rectRequest struct {
	From *pcb.Coord `json:"from"`
	To   *pcb.Coord `json:"to"`
}

// decodeRect reads a from/to pair. A missing "to" selects the single cell at
// "from".
func decodeRect(w http.ResponseWriter, r *http.Request) (service.Rect, bool) {
	var req rectRequest
	if !decodeBody(w, r, &req) {
		return service.Rect{}, false
	}
	if req.From == nil {
		respondError(w, http.StatusBadRequest, "from is required")
		return service.Rect{}, false
	}
	if req.To == nil {
		req.To = req.From
	}
	return service.Rect{From: *req.From, To: *req.To}, true
}

func (s *Server) handlePreviewReshape(w http.ResponseWriter, r *http.Request) {
	rect, ok := decodeRect(w, r)
	if !ok {
		return
	}

	preview, err := s.service.PreviewReshape(r.Context(), mux.Vars(r)["id"], rect)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, preview)
}

func (s *Server) handlePreviewEtch(w http.ResponseWriter, r *http.Request) {
	rect, ok := decodeRect(w, r)
	if !ok {
		return
	}

	preview, err := s.service.PreviewEtch(r.Context(), mux.Vars(r)["id"], rect.From, rect.To)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, preview)
}

// Operations are BoardService method expressions
type rectOperation func(svc service.BoardService, ctx context.Context, sessionID string, rect service.Rect) (*service.OperationResult, error)

func (s *Server) handleRect(op rectOperation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := mux.Vars(r)["id"]
		rect, ok := decodeRect(w, r)
		if !ok {
			return
		}

		result, err := op(s.service, r.Context(), sessionID, rect)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		s.respondOperation(w, sessionID, result)
	}
}

type etchOperation func(svc service.BoardService, ctx context.Context, sessionID string, from, to pcb.Coord) (*service.OperationResult, error)

func (s *Server) handleEtch(op etchOperation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := mux.Vars(r)["id"]
		rect, ok := decodeRect(w, r)
		if !ok {
			return
		}

		result, err := op(s.service, r.Context(), sessionID, rect.From, rect.To)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		s.respondOperation(w, sessionID, result)
	}
}

type cellRequest struct {
	At *pcb.Coord `json:"at"`
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		cellRequest
		Part          string `json:"part"`
		Configuration int    `json:"configuration"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Part == "" || req.At == nil {
		respondError(w, http.StatusBadRequest, "part and at are required")
		return
	}

	result, err := s.service.Place(r.Context(), sessionID, req.Part, req.Configuration, *req.At)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.respondOperation(w, sessionID, result)
}

func (s *Server) handleRemovePart(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req cellRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.At == nil {
		respondError(w, http.StatusBadRequest, "at is required")
		return
	}

	result, err := s.service.RemovePart(r.Context(), sessionID, *req.At)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.respondOperation(w, sessionID, result)
}

func (s *Server) handleLock(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		cellRequest
		Locked *bool `json:"locked"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.At == nil {
		respondError(w, http.StatusBadRequest, "at is required")
		return
	}
	locked := true
	if req.Locked != nil {
		locked = *req.Locked
	}

	result, err := s.service.SetLocked(r.Context(), sessionID, *req.At, locked)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.respondOperation(w, sessionID, result)
}

type historyOperation func(svc service.BoardService, ctx context.Context, sessionID string) (*service.OperationResult, error)

func (s *Server) handleHistoryStep(op historyOperation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := mux.Vars(r)["id"]

		result, err := op(s.service, r.Context(), sessionID)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		s.respondOperation(w, sessionID, result)
	}
}

// Configuration Handlers

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.service.ListPresets(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, presets)
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		name = strings.TrimSuffix(name, ext)
	}

	preset, err := s.service.LoadPreset(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, preset)
}

func (s *Server) handleListParts(w http.ResponseWriter, r *http.Request) {
	parts, err := s.service.ListParts(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, parts)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "websocket updates are disabled", http.StatusServiceUnavailable)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	board, err := s.service.GetBoard(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID, board)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
