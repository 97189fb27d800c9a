package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/FCamaggi/aLittleWordy/apps/server/internal/auth"
	"github.com/FCamaggi/aLittleWordy/apps/server/internal/lobby"
	"github.com/FCamaggi/aLittleWordy/wordy"
	"github.com/FCamaggi/aLittleWordy/wordy/npc"
)

const (
	requestTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 16
)

type Options struct {
	Lobby *lobby.Lobby
	Auth  auth.Service

	// Personas lists the selectable bot opponents; nil hides bot rooms.
	Personas *npc.PersonaRegistry

	// WebSocket is mounted at /ws outside the request timeout.
	WebSocket http.Handler

	ClientOrigin string
}

// Server is the HTTP surface: REST room lifecycle plus the websocket mount.
type Server struct {
	r    *chi.Mux
	opts Options
}

func New(opts Options) *Server {
	s := &Server{r: chi.NewRouter(), opts: opts}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(cors(opts.ClientOrigin))

	if opts.WebSocket != nil {
		s.r.Handle("/ws", opts.WebSocket)
	}

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))
		r.Use(jsonContentType)

		r.Get("/health", s.handleHealth)
		r.Route("/api", func(r chi.Router) {
			r.Get("/personas", s.handlePersonas)
			r.Post("/rooms", s.handleCreateRoom)
			r.Route("/rooms/{code}", func(r chi.Router) {
				r.Get("/", s.handleGetRoom)
				r.Delete("/", s.handleDeleteRoom)
				r.Post("/join", s.handleJoinRoom)
				r.Get("/events", s.handleEvents)
			})
		})
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, "not found")
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.r.ServeHTTP(w, r) }

// Router exposes the router for tests.
func (s *Server) Router() chi.Router { return s.r }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":    true,
		"rooms": len(s.opts.Lobby.Codes()),
	})
}

func (s *Server) handlePersonas(w http.ResponseWriter, r *http.Request) {
	items := []*npc.Persona{}
	if s.opts.Personas != nil {
		items = s.opts.Personas.All()
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// statusFor maps the engine taxonomy onto HTTP.
func statusFor(err error) int {
	switch wordy.KindOf(err) {
	case wordy.KindValidation:
		return http.StatusBadRequest
	case wordy.KindNotFound:
		return http.StatusNotFound
	case wordy.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeRuleError(w http.ResponseWriter, err error) {
	kind := wordy.KindOf(err)
	msg := err.Error()
	if kind == wordy.KindInternal {
		msg = wordy.ErrInternal.Msg
	}
	writeJSON(w, statusFor(err), errorResponse{Error: msg, Kind: kind.String()})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
}

func parseUint(raw string) uint64 {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func parseLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
