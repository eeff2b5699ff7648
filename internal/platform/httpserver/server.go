package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	grantservice "repogrant/contexts/access-grant/grant-service"
	granthttp "repogrant/contexts/access-grant/grant-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "repogrant/internal/platform/httpserver/docs"
)

// Options carries the transport-level configuration: which origins may call
// the service from a browser and where to send purchasers after a
// successful mutation.
type Options struct {
	AllowedOrigins []string
	RedirectURL    string
}

type Server struct {
	mux     *http.ServeMux
	logger  *slog.Logger
	addr    string
	grants  grantservice.Module
	options Options
}

func New(grants grantservice.Module, logger *slog.Logger, addr string, options Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		addr:    addr,
		grants:  grants,
		options: options,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.HandleFunc("/", s.handleReconcile)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReconcile serves the single grant route. GET previews, POST
// mutates; every other aspect of the request shape is identical. The mux
// "/" pattern is a catch-all, so unknown paths are rejected here with an
// empty 400.
func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	s.applyCORS(w, r)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.URL.Path != "/" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	req, ok := s.extractRequest(w, r)
	if !ok {
		return
	}
	modify := r.Method == http.MethodPost

	resp, err := s.grants.Handler.ReconcileHandler(r.Context(), req, modify)
	if err != nil {
		writeGrantDomainError(w, err)
		return
	}

	if resp.Mutated && s.options.RedirectURL != "" {
		w.Header().Set("Location", s.options.RedirectURL+"?resource="+url.QueryEscape(resp.Resource))
		w.WriteHeader(http.StatusMovedPermanently)
		return
	}
	writeJSON(w, http.StatusAccepted, resp)
}

func (s *Server) extractRequest(w http.ResponseWriter, r *http.Request) (granthttp.GrantRequest, bool) {
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			writeGrantError(w, http.StatusBadRequest, "invalid_form", "request body must be form-encoded")
			return granthttp.GrantRequest{}, false
		}
		return granthttp.GrantRequest{
			PurchaseID:     r.PostFormValue("purchaseId"),
			Principal:      r.PostFormValue("principal"),
			ChallengeToken: r.PostFormValue("challengeToken"),
		}, true
	}
	query := r.URL.Query()
	return granthttp.GrantRequest{
		PurchaseID:     query.Get("purchaseId"),
		Principal:      query.Get("principal"),
		ChallengeToken: query.Get("challengeToken"),
	}, true
}

func (s *Server) applyCORS(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return
	}
	for _, allowed := range s.options.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			w.Header().Set("Access-Control-Allow-Origin", allowed)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
