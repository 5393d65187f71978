package web

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/whalehub/internal/domain"
	"github.com/vadiminshakov/whalehub/internal/orchestrator"
	"github.com/vadiminshakov/whalehub/internal/session"
)

const (
	pollInterval      = 1 * time.Second
	heartbeatInterval = 30 * time.Second
	maxRequestBody    = 1 << 16
)

type actionRunner interface {
	Connect(ctx context.Context, sess *session.Session, walletID domain.WalletID) error
	Logout(sess *session.Session)
	Refresh(ctx context.Context, sess *session.Session) error
	Dispatch(ctx context.Context, sess *session.Session, req orchestrator.Request) error
}

type notificationReader interface {
	NotificationsAfter(index uint64) ([]domain.NotificationRecord, error)
}

// routes maps URL slugs to action kinds.
var routes = map[string]domain.ActionKind{
	"lock":               domain.ActionLock,
	"provide-liquidity":  domain.ActionProvideLiquidity,
	"unstake":            domain.ActionUnstake,
	"withdraw-liquidity": domain.ActionWithdrawLiquidity,
	"redeem-reward":      domain.ActionRedeemReward,
}

// Server exposes the session, the action endpoints and an SSE stream of notifications.
type Server struct {
	Addr          string
	Session       *session.Session
	Actions       actionRunner
	Notifications notificationReader
	Overview      Overview
	logger        *zap.Logger
}

// NewServer creates a new web server instance.
func NewServer(addr string, sess *session.Session, actions actionRunner, notifications notificationReader, overview Overview, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if overview.Now == nil {
		overview.Now = time.Now
	}
	return &Server{
		Addr:          addr,
		Session:       sess,
		Actions:       actions,
		Notifications: notifications,
		Overview:      overview,
		logger:        logger,
	}
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /session", s.handleSession)
	mux.HandleFunc("GET /session/stream", s.handleSessionStream)
	mux.HandleFunc("POST /wallet/connect", s.handleConnect)
	mux.HandleFunc("POST /wallet/logout", s.handleLogout)
	mux.HandleFunc("POST /refresh", s.handleRefresh)
	mux.HandleFunc("POST /actions/{action}", s.handleAction)
	mux.HandleFunc("GET /notifications/stream", s.handleNotificationStream)
	return mux
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("web server listening", zap.String("addr", s.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type errorResponse struct {
	Error    string `json:"error"`
	Category string `json:"category,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: domain.UserMessage(err)}
	if category := domain.Classify(err); category != nil {
		resp.Category = category.Error()
	}
	s.writeJSON(w, statusFor(err), resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrActionPending), errors.Is(err, domain.ErrAlreadyConnected):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotConnected):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUserInput), errors.Is(err, domain.ErrUnsupportedWallet):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrServerValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrWallet):
		return http.StatusForbidden
	default:
		return http.StatusBadGateway
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(v); err != nil {
		return domain.Failure(domain.ErrUserInput, "Malformed request body.", err)
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func (s *Server) view() sessionResponse {
	return s.Overview.describe(s.Session.View())
}

func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.view())
}

type connectRequest struct {
	WalletID domain.WalletID `json:"walletId"`
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.Actions.Connect(r.Context(), s.Session, req.WalletID); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.Actions.Logout(s.Session)
	s.writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.Actions.Refresh(r.Context(), s.Session); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	kind, ok := routes[r.PathValue("action")]
	if !ok {
		http.NotFound(w, r)
		return
	}

	var req orchestrator.Request
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	req.Kind = kind

	if err := s.Actions.Dispatch(r.Context(), s.Session, req); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]string{"action": string(kind), "state": domain.StatePending.String()})
}

func (s *Server) handleSessionStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	startStream(w)

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()
	pollTicker := time.NewTicker(pollInterval)
	defer pollTicker.Stop()

	var last sessionResponse
	sent := false
	sendView := func() error {
		view := s.view()
		// action states live in the tracker and do not bump the version
		if sent && view.Version == last.Version && maps.Equal(view.Actions, last.Actions) {
			return nil
		}
		if err := writeEvent(w, "session", strconv.FormatUint(view.Version, 10), view); err != nil {
			return err
		}
		flusher.Flush()
		last, sent = view, true
		return nil
	}

	if err := sendView(); err != nil {
		s.logger.Warn("session stream initial write", zap.Error(err))
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			if err := sendView(); err != nil {
				s.logger.Warn("session stream write", zap.Error(err))
				return
			}
		}
	}
}

func (s *Server) handleNotificationStream(w http.ResponseWriter, r *http.Request) {
	if s.Notifications == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "notification journal not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	lastIndex := resumeIndex(r)
	sendNotifications := func() error {
		records, err := s.Notifications.NotificationsAfter(lastIndex)
		if err != nil {
			return err
		}
		for _, record := range records {
			if err := writeEvent(w, "notification", strconv.FormatUint(record.Index, 10), record.Notification); err != nil {
				return err
			}
			lastIndex = record.Index
		}
		if len(records) > 0 {
			flusher.Flush()
		}
		return nil
	}

	startStream(w)
	if err := sendNotifications(); err != nil {
		s.logger.Warn("notification stream initial load", zap.Error(err))
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()
	pollTicker := time.NewTicker(pollInterval)
	defer pollTicker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			if err := sendNotifications(); err != nil {
				s.logger.Warn("notification stream poll", zap.Error(err))
			}
		}
	}
}

// resumeIndex reads the journal index to resume after from Last-Event-ID or ?after=.
func resumeIndex(r *http.Request) uint64 {
	raw := r.Header.Get("Last-Event-ID")
	if raw == "" {
		raw = r.URL.Query().Get("after")
	}
	index, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return index
}

func startStream(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

func writeEvent(w http.ResponseWriter, event, id string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", id, event, payload)
	return err
}
