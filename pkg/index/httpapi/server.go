// Package httpapi serves an index.Service over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"tableflip.dev/codecanvas/pkg/index"
)

const maxSaveBytes = 16 << 20

// Server exposes the manifest, content, activity and change feed endpoints.
type Server struct {
	svc    index.Service
	broker *Broker
	log    logrus.FieldLogger
}

// New returns a server for svc.
func New(svc index.Service, log logrus.FieldLogger) *Server {
	log = log.WithField("component", "httpapi")
	return &Server{svc: svc, broker: NewBroker(log), log: log}
}

// Broker exposes the change feed fan-out.
func (s *Server) Broker() *Broker {
	return s.broker
}

// Start begins forwarding the service's change stream to subscribers.
func (s *Server) Start(ctx context.Context) error {
	return s.broker.Start(ctx, s.svc)
}

// Router returns the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprintln(w, "OK")
	}).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/manifest", s.handleManifest).Methods(http.MethodGet)
	v1.HandleFunc("/content", s.handleContent).Methods(http.MethodGet)
	v1.HandleFunc("/content", s.handleSave).Methods(http.MethodPut)
	v1.HandleFunc("/activity", s.handleActivity).Methods(http.MethodGet)
	v1.HandleFunc("/changes", s.handleChanges).Methods(http.MethodGet)
	return r
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string, onListening func(net.Addr)) error {
	if err := s.Start(ctx); err != nil {
		return fmt.Errorf("httpapi: start change feed: %w", err)
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("httpapi: listen %s: %w", addr, err)
	}
	if onListening != nil {
		onListening(ln.Addr())
	}
	srv := &http.Server{Handler: s.Router(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	asOf, err := index.ParseAsOf(r.URL.Query().Get("as_of"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rows, err := s.svc.Manifest(r.Context(), asOf)
	if err != nil {
		s.fail(w, "manifest", err)
		return
	}
	writeJSON(w, rows)
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path := strings.TrimSpace(q.Get("path"))
	if path == "" {
		http.Error(w, "missing path", http.StatusBadRequest)
		return
	}
	asOf, err := index.ParseAsOf(q.Get("as_of"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c, err := s.svc.Content(r.Context(), path, asOf)
	if err != nil {
		s.fail(w, "content", err)
		return
	}
	writeJSON(w, c)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSpace(r.URL.Query().Get("path"))
	if path == "" {
		http.Error(w, "missing path", http.StatusBadRequest)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSaveBytes+1))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(body) > maxSaveBytes {
		http.Error(w, "content too large", http.StatusRequestEntityTooLarge)
		return
	}
	if err := s.svc.Save(r.Context(), path, string(body)); err != nil {
		s.fail(w, "save", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.Activity(r.Context())
	if err != nil {
		s.fail(w, "activity", err)
		return
	}
	writeJSON(w, summary)
}

func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	id, ch := s.broker.Subscribe()
	defer s.broker.Unsubscribe(id)

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	enc := json.NewEncoder(w)
	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if err := enc.Encode(ev); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, index.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.log.WithError(err).WithField("op", op).Error("request failed")
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
