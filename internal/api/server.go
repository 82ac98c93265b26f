package api

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// CallbackFunc receives the payment reference delivered by the hosted
// checkout redirect.
type CallbackFunc func(reference string)

// Server is the small local HTTP surface of the client: health, metrics,
// and the landing endpoint the hosted checkout redirects the browser to.
type Server struct {
	logger   *logrus.Logger
	registry *prometheus.Registry
	callback CallbackFunc
	mux      *http.ServeMux
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(registry *prometheus.Registry, callback CallbackFunc, logger *logrus.Logger) *Server {
	s := &Server{logger: logger, registry: registry, callback: callback, mux: http.NewServeMux()}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	s.mux.HandleFunc("GET /payment/callback", s.handlePaymentCallback)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePaymentCallback is where the hosted checkout sends the browser
// after payment. It hands the reference to the checkout flow and shows a
// plain confirmation; verification happens against the backend, never from
// redirect parameters.
func (s *Server) handlePaymentCallback(w http.ResponseWriter, r *http.Request) {
	reference := r.URL.Query().Get("reference")
	if reference == "" {
		reference = r.URL.Query().Get("trxref")
	}
	if reference == "" {
		s.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "missing payment reference"})
		return
	}

	s.logger.WithFields(logrus.Fields{"reference": reference}).Info("Payment callback received")
	if s.callback != nil {
		s.callback(reference)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Payment received. You can return to the MeetMart terminal.\n"))
}
