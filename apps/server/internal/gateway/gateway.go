package gateway

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/FCamaggi/aLittleWordy/apps/server/internal/auth"
	"github.com/FCamaggi/aLittleWordy/apps/server/internal/codec"
	"github.com/FCamaggi/aLittleWordy/apps/server/internal/lobby"
	"github.com/FCamaggi/aLittleWordy/wordy"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 65536
	sendBuffer     = 256
)

type binding struct {
	room string
	seat wordy.Seat
}

// Gateway manages websocket connections and routes room envelopes to the
// connections bound to each seat.
type Gateway struct {
	lobby    *lobby.Lobby
	auth     auth.Service
	upgrader websocket.Upgrader

	mu          sync.RWMutex
	connections map[string]*Connection
	seats       map[binding]map[string]*Connection
}

// New creates the gateway and installs it as the lobby's delivery callback.
func New(lby *lobby.Lobby, authService auth.Service, allowedOrigin string) *Gateway {
	g := &Gateway{
		lobby:       lby,
		auth:        authService,
		connections: make(map[string]*Connection),
		seats:       make(map[binding]map[string]*Connection),
	}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(allowedOrigin),
	}
	lby.SetDeliver(g.Deliver)
	return g
}

func originChecker(allowed string) func(r *http.Request) bool {
	allowed = strings.TrimSpace(allowed)
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return allowed == "" || allowed == "*" || origin == "" || strings.EqualFold(origin, allowed)
	}
}

// ServeHTTP upgrades the request and starts the connection pumps.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &Connection{
		ID:      uuid.NewString(),
		Conn:    ws,
		Send:    make(chan []byte, sendBuffer),
		gateway: g,
		seat:    wordy.NoSeat,
	}
	c.log = log.With().Str("conn", c.ID).Logger()

	g.mu.Lock()
	g.connections[c.ID] = c
	total := len(g.connections)
	g.mu.Unlock()

	c.log.Info().Str("remote", r.RemoteAddr).Int("total", total).Msg("client connected")

	go c.writePump()
	go c.readPump()
}

// Deliver encodes env once per format and queues it on every connection
// bound to seat. Full buffers drop the frame; the client resyncs with
// get_state.
func (g *Gateway) Deliver(room string, seat wordy.Seat, env codec.Envelope) {
	key := binding{room: wordy.NormalizeCode(room), seat: seat}

	g.mu.RLock()
	conns := make([]*Connection, 0, len(g.seats[key]))
	for _, c := range g.seats[key] {
		conns = append(conns, c)
	}
	g.mu.RUnlock()

	frames := make(map[codec.Format][]byte, 2)
	for _, c := range conns {
		f := c.Format()
		data, ok := frames[f]
		if !ok {
			var err error
			data, err = codec.Encode(env, f)
			if err != nil {
				log.Error().Err(err).Str("room", key.room).Str("type", env.Type).Msg("encode envelope failed")
				return
			}
			frames[f] = data
		}
		c.queue(data, env.Type)
	}

	if env.Type == codec.TypeRoomClosed {
		g.mu.Lock()
		for _, c := range g.seats[key] {
			c.clearBinding(key)
		}
		delete(g.seats, key)
		g.mu.Unlock()
	}
}

// bind attaches c to key, detaching it from any previous seat. It returns the
// previous binding when c was the last connection on it.
func (g *Gateway) bind(c *Connection, key binding) (binding, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	prev, hadPrev := c.current()
	lastOnPrev := false
	if hadPrev {
		lastOnPrev = g.unbindLocked(c, prev)
	}
	conns := g.seats[key]
	if conns == nil {
		conns = make(map[string]*Connection)
		g.seats[key] = conns
	}
	conns[c.ID] = c
	c.setBinding(key)
	return prev, hadPrev && lastOnPrev && prev != key
}

// unbind detaches c and reports whether it was the last connection on its
// seat.
func (g *Gateway) unbind(c *Connection) (binding, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	key, ok := c.current()
	if !ok {
		return binding{}, false
	}
	last := g.unbindLocked(c, key)
	c.clearBinding(key)
	return key, last
}

func (g *Gateway) unbindLocked(c *Connection, key binding) bool {
	conns := g.seats[key]
	if conns == nil {
		return false
	}
	delete(conns, c.ID)
	if len(conns) == 0 {
		delete(g.seats, key)
		return true
	}
	return false
}

func (g *Gateway) removeConnection(c *Connection) {
	key, last := g.unbind(c)

	g.mu.Lock()
	delete(g.connections, c.ID)
	total := len(g.connections)
	g.mu.Unlock()

	c.log.Info().Int("total", total).Msg("client disconnected")
	if last {
		g.markOffline(key)
	}
}

// markOffline flips the seat's presence once its last connection is gone.
func (g *Gateway) markOffline(key binding) {
	rm, ok := g.lobby.Live(key.room)
	if !ok {
		return
	}
	if err := rm.SetPresence(key.seat, false); err != nil {
		log.Debug().Err(err).Str("room", key.room).Int("seat", int(key.seat)).Msg("presence update skipped")
	}
}

// Count returns the number of live connections.
func (g *Gateway) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.connections)
}

// Close drops every connection.
func (g *Gateway) Close() {
	g.mu.RLock()
	conns := make([]*Connection, 0, len(g.connections))
	for _, c := range g.connections {
		conns = append(conns, c)
	}
	g.mu.RUnlock()
	for _, c := range conns {
		_ = c.Conn.Close()
	}
}
