// Package httpapi is the thin HTTP adapter around the decision pipeline.
// It owns request decoding, the legacy /suggest translation, and response
// encoding; no decision logic lives here.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"chatbrain/internal/audit"
	"chatbrain/internal/candidates"
	"chatbrain/internal/catalog"
	"chatbrain/internal/contracts"
	"chatbrain/internal/pipeline"
)

const (
	serviceName    = "chatbrain"
	serviceVersion = "1.2.0"
)

// Server wires the HTTP routes to the pipeline.
type Server struct {
	log     *zap.Logger
	audit   *audit.Logger
	catalog []contracts.CatalogItem
}

// NewServer builds a Server. The audit logger may be nil to disable audit
// writes. defaultCatalog is used for requests that carry no catalog of their
// own; when nil, the demo set applies.
func NewServer(log *zap.Logger, auditLog *audit.Logger, defaultCatalog []contracts.CatalogItem) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{log: log, audit: auditLog, catalog: defaultCatalog}
}

// ensureCatalog resolves the catalog for one request: the caller's own set
// wins, then the server's configured default, then the demo seed.
func (s *Server) ensureCatalog(items []contracts.CatalogItem) []contracts.CatalogItem {
	if len(items) > 0 {
		return items
	}
	if len(s.catalog) > 0 {
		return s.catalog
	}
	return catalog.Demo()
}

// Routes returns the route table for the service.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("POST /decide", s.handleDecide)
	mux.HandleFunc("POST /auto_decide", s.handleAutoDecide)
	mux.HandleFunc("POST /suggest", s.handleSuggest)
	mux.HandleFunc("GET /demo/auto_payload", s.handleDemoPayload)
	return mux
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"service": serviceName,
		"version": serviceVersion,
	})
}

func (s *Server) handleDecide(w http.ResponseWriter, r *http.Request) {
	var in contracts.BrainInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.writeError(w, http.StatusBadRequest, "decode request: "+err.Error())
		return
	}
	s.decide(w, in)
}

func (s *Server) handleAutoDecide(w http.ResponseWriter, r *http.Request) {
	var in contracts.AutoInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.writeError(w, http.StatusBadRequest, "decode request: "+err.Error())
		return
	}
	in.Catalog = s.ensureCatalog(in.Catalog)

	decision, err := pipeline.AutoDecide(in, s.log)
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}
	s.recordDecision(decision)
	writeJSON(w, http.StatusOK, decision)
}

func (s *Server) decide(w http.ResponseWriter, in contracts.BrainInput) {
	decision, err := pipeline.Decide(in, s.log)
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}
	s.recordDecision(decision)
	writeJSON(w, http.StatusOK, decision)
}

func (s *Server) respondPipelineError(w http.ResponseWriter, err error) {
	var vErrs contracts.ValidationErrors
	if errors.As(err, &vErrs) {
		s.writeError(w, http.StatusBadRequest, vErrs.Error())
		return
	}
	if errors.Is(err, candidates.ErrNoCandidates) {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) recordDecision(d contracts.Decision) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogEvent(d.DecisionID, audit.EventDecision, d); err != nil {
		s.log.Warn("audit write failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.Int("status", status), zap.String("detail", detail))
	}
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
