package httpapi

import (
	"context"
	"encoding/json"
	"github.com/callebjorkell/ws281x-node/internal/strip"
	"github.com/callebjorkell/ws281x-node/internal/transport"
	log "github.com/sirupsen/logrus"
	"net/http"
	"time"
)

const DefaultListen = ":8090"

type Config struct {
	Listen string `yaml:"listen"`
}

// Strip is what the server needs from the node.
type Strip interface {
	SetLeds(ctx context.Context, colors []strip.Color) (strip.Result, error)
	SetGamma(ctx context.Context, gamma [strip.GammaUpdateLen]byte) (strip.Result, error)
	State(ctx context.Context) (strip.Report, error)
}

type Server struct {
	server http.Server
	strip  Strip
	hub    *hub
}

func NewServer(addr string, s Strip) *Server {
	srv := &Server{
		strip: s,
		hub:   newHub(),
	}
	srv.server = http.Server{
		Addr:    addr,
		Handler: srv.Handler(),
	}
	return srv
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/set_leds", s.setLeds)
	mux.HandleFunc("/set_gamma", s.setGamma)
	mux.HandleFunc("/strip_state", s.stripState)
	mux.HandleFunc("/strip_state/ws", s.hub.serveWS)
	return mux
}

// Listen blocks until the server is closed.
func (s *Server) Listen() error {
	log.Infof("Starting HTTP server on %v", s.server.Addr)

	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	log.Debug("Closing HTTP server...")
	s.hub.close()
	return s.server.Shutdown(ctx)
}

// Publish pushes a report to every websocket listener.
func (s *Server) Publish(r strip.Report) {
	s.hub.broadcast(r)
}

func (s *Server) setLeds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	req := transport.LedsRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.strip.SetLeds(r.Context(), req.Leds)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) setGamma(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	req := transport.GammaRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	gamma, err := req.Values()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.strip.SetGamma(r.Context(), gamma)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, transport.GammaResponse{Success: res.Success})
}

func (s *Server) stripState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	report, err := s.strip.State(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn("Unable to write response: ", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, strip.Result{Success: false, Message: err.Error()})
}
