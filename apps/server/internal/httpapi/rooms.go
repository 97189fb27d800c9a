package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/FCamaggi/aLittleWordy/apps/server/internal/auth"
	"github.com/FCamaggi/aLittleWordy/apps/server/internal/room"
	"github.com/FCamaggi/aLittleWordy/apps/server/internal/store"
	"github.com/FCamaggi/aLittleWordy/wordy"
)

type createRoomRequest struct {
	PlayerName string `json:"playerName"`
	VsBot      bool   `json:"vsBot"`
	Persona    string `json:"persona"`
}

type joinRoomRequest struct {
	PlayerName string `json:"playerName"`
}

// seatResponse is returned by create and join. Token authenticates join_room
// on the websocket.
type seatResponse struct {
	RoomCode string     `json:"roomCode"`
	Room     wordy.View `json:"room"`
	PlayerID int        `json:"playerId"`
	Token    string     `json:"token"`
}

type eventsResponse struct {
	RoomCode string              `json:"roomCode"`
	Events   []store.EventRecord `json:"events"`
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.VsBot && s.opts.Personas == nil {
		writeError(w, http.StatusBadRequest, "bot rooms are disabled")
		return
	}

	rm, seat, err := s.opts.Lobby.Create(r.Context(), req.PlayerName, req.VsBot, req.Persona)
	if err != nil {
		writeRuleError(w, err)
		return
	}
	s.writeSeat(w, http.StatusCreated, rm, seat)
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	var req joinRoomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	rm, seat, err := s.opts.Lobby.Join(r.Context(), chi.URLParam(r, "code"), req.PlayerName)
	if err != nil {
		writeRuleError(w, err)
		return
	}
	s.writeSeat(w, http.StatusOK, rm, seat)
}

func (s *Server) writeSeat(w http.ResponseWriter, status int, rm *room.Room, seat wordy.Seat) {
	view := rm.View(seat)
	name := view.Players[seat].Name
	token, err := s.opts.Auth.Issue(rm.Code(), name, seat)
	if err != nil {
		log.Error().Err(err).Str("room", rm.Code()).Msg("issue seat token failed")
		writeError(w, http.StatusInternalServerError, wordy.ErrInternal.Msg)
		return
	}
	writeJSON(w, status, seatResponse{
		RoomCode: rm.Code(),
		Room:     view,
		PlayerID: int(seat),
		Token:    token,
	})
}

// handleGetRoom serves the public view, or the caller's own view when a seat
// token for this room is presented.
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	rm, err := s.opts.Lobby.Get(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeRuleError(w, err)
		return
	}
	if claims, ok := s.seatFor(r, rm.Code()); ok {
		writeJSON(w, http.StatusOK, rm.View(claims.Seat))
		return
	}
	writeJSON(w, http.StatusOK, rm.PublicView())
}

func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	code := wordy.NormalizeCode(chi.URLParam(r, "code"))
	if _, ok := s.seatFor(r, code); !ok {
		writeError(w, http.StatusUnauthorized, "a seat token for this room is required")
		return
	}
	if err := s.opts.Lobby.Delete(r.Context(), code); err != nil {
		writeRuleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	code := wordy.NormalizeCode(chi.URLParam(r, "code"))
	q := r.URL.Query()
	events, err := s.opts.Lobby.Events(r.Context(), code, parseUint(q.Get("after")), parseLimit(q.Get("limit")))
	if err != nil {
		writeRuleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{RoomCode: code, Events: events})
}

func (s *Server) seatFor(r *http.Request, code string) (auth.SeatClaims, bool) {
	token := auth.BearerToken(r)
	if token == "" {
		return auth.SeatClaims{}, false
	}
	claims, err := s.opts.Auth.Resolve(token)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidToken) {
			log.Warn().Err(err).Msg("resolve seat token failed")
		}
		return auth.SeatClaims{}, false
	}
	if claims.Room != wordy.NormalizeCode(code) {
		return auth.SeatClaims{}, false
	}
	return claims, true
}
