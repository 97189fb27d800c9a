package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/FCamaggi/aLittleWordy/apps/server/internal/auth"
	"github.com/FCamaggi/aLittleWordy/apps/server/internal/codec"
	"github.com/FCamaggi/aLittleWordy/apps/server/internal/room"
	"github.com/FCamaggi/aLittleWordy/wordy"
)

const joinTimeout = 5 * time.Second

var (
	errNotJoined     = &wordy.Error{Kind: wordy.KindConflict, Msg: "join a room first"}
	errOtherRoom     = &wordy.Error{Kind: wordy.KindConflict, Msg: "connection is bound to another room"}
	errBadToken      = &wordy.Error{Kind: wordy.KindValidation, Msg: "invalid seat token"}
	errMissingCode   = &wordy.Error{Kind: wordy.KindValidation, Msg: "room code is required"}
	errBadFrame      = &wordy.Error{Kind: wordy.KindValidation, Msg: "invalid message format"}
	errTokenMismatch = &wordy.Error{Kind: wordy.KindValidation, Msg: "seat token belongs to another room"}
)

// Connection is one websocket client. It speaks the format of its first
// frame and is bound to at most one seat.
type Connection struct {
	ID      string
	Conn    *websocket.Conn
	Send    chan []byte
	gateway *Gateway
	log     zerolog.Logger

	mu        sync.Mutex
	format    codec.Format
	formatSet bool
	room      string
	seat      wordy.Seat
	closed    bool
}

func (c *Connection) Format() codec.Format {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.format
}

func (c *Connection) adoptFormat(f codec.Format) {
	c.mu.Lock()
	if !c.formatSet {
		c.format = f
		c.formatSet = true
	}
	c.mu.Unlock()
}

func (c *Connection) current() (binding, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.room == "" {
		return binding{}, false
	}
	return binding{room: c.room, seat: c.seat}, true
}

func (c *Connection) setBinding(key binding) {
	c.mu.Lock()
	c.room, c.seat = key.room, key.seat
	c.mu.Unlock()
}

func (c *Connection) clearBinding(key binding) {
	c.mu.Lock()
	if c.room == key.room && c.seat == key.seat {
		c.room, c.seat = "", wordy.NoSeat
	}
	c.mu.Unlock()
}

// queue never blocks: the caller may be a room actor.
func (c *Connection) queue(data []byte, typ string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
		c.log.Warn().Str("type", typ).Msg("send buffer full, frame dropped")
	}
}

func (c *Connection) readPump() {
	defer func() {
		c.gateway.removeConnection(c)
		c.mu.Lock()
		c.closed = true
		close(c.Send)
		c.mu.Unlock()
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.log.Warn().Err(err).Msg("read failed")
			}
			return
		}
		f := codec.FormatJSON
		if messageType == websocket.BinaryMessage {
			f = codec.FormatProto
		}
		c.adoptFormat(f)
		c.handleMessage(data, f)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			frameType := websocket.TextMessage
			if c.Format() == codec.FormatProto {
				frameType = websocket.BinaryMessage
			}
			if err := c.Conn.WriteMessage(frameType, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Connection) handleMessage(data []byte, f codec.Format) {
	msg, err := codec.DecodeClient(data, f)
	if err != nil {
		c.log.Debug().Err(err).Msg("undecodable frame")
		c.sendError("", 0, errBadFrame)
		return
	}

	if msg.Type == codec.TypeJoinRoom {
		c.handleJoinRoom(msg)
		return
	}
	c.handleRoomMessage(msg)
}

// handleJoinRoom binds the connection to a seat. A seat token binds to its
// seat unconditionally; a bare player name only claims a seat that is offline.
func (c *Connection) handleJoinRoom(msg codec.ClientMessage) {
	g := c.gateway
	code := wordy.NormalizeCode(msg.Room)

	var claims auth.SeatClaims
	withToken := msg.Token != ""
	if withToken {
		var err error
		if claims, err = g.auth.Resolve(msg.Token); err != nil {
			c.sendError(code, 0, errBadToken)
			return
		}
		if code == "" {
			code = claims.Room
		}
		if code != claims.Room {
			c.sendError(code, 0, errTokenMismatch)
			return
		}
	}
	if code == "" {
		c.sendError("", 0, errMissingCode)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), joinTimeout)
	defer cancel()
	rm, err := g.lobby.Get(ctx, code)
	if err != nil {
		c.sendError(code, 0, err)
		return
	}

	name := msg.Name
	if withToken {
		name = claims.Name
	}
	seat, ok := rm.SeatByName(name)
	if !ok || (withToken && seat != claims.Seat) {
		c.sendError(code, rm.Version(), wordy.ErrPlayerNotFound)
		return
	}

	key := binding{room: code, seat: seat}
	exclusive := !withToken
	if cur, bound := c.current(); bound && cur == key {
		exclusive = false
	}
	if prev, release := g.bind(c, key); release {
		g.markOffline(prev)
	}
	if err := rm.Attach(seat, exclusive); err != nil {
		g.unbind(c)
		c.sendError(code, rm.Version(), err)
		return
	}
	c.log.Info().Str("room", code).Int("seat", int(seat)).Bool("token", withToken).Msg("connection bound")
}

func (c *Connection) handleRoomMessage(msg codec.ClientMessage) {
	key, ok := c.current()
	if !ok {
		c.sendError(wordy.NormalizeCode(msg.Room), 0, errNotJoined)
		return
	}
	if msg.Room != "" && wordy.NormalizeCode(msg.Room) != key.room {
		c.sendError(key.room, 0, errOtherRoom)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), joinTimeout)
	rm, err := c.gateway.lobby.Get(ctx, key.room)
	cancel()
	if err != nil {
		c.gateway.unbind(c)
		c.sendError(key.room, 0, err)
		return
	}

	ev := room.Event{Seat: key.seat}
	switch msg.Type {
	case codec.TypePlayerReady:
		ev.Type = room.EventReady
	case codec.TypeSubmitWord:
		ev.Type, ev.Word = room.EventSubmitWord, msg.Word
	case codec.TypeSwapTiles:
		ev.Type, ev.TileIDs = room.EventSwapTiles, msg.TileIDs
	case codec.TypeUseCard:
		ev.Type, ev.CardID, ev.Input = room.EventUseCard, msg.CardID, msg.Input
	case codec.TypeRespondToCard:
		ev.Type, ev.Response = room.EventRespond, msg.Response
	case codec.TypeGuessWord:
		ev.Type, ev.Word = room.EventGuess, msg.Word
	case codec.TypeResetRoom:
		ev.Type = room.EventReset
	case codec.TypeGetState:
		ev.Type = room.EventAttach
	default:
		c.sendError(key.room, rm.Version(), &wordy.Error{
			Kind: wordy.KindValidation,
			Msg:  fmt.Sprintf("unknown message type %q", msg.Type),
		})
		return
	}

	if _, err := rm.SubmitEvent(ev); err != nil {
		c.sendError(key.room, rm.Version(), err)
	}
}

// sendError answers the requesting connection only. Internal failures carry
// a generic message.
func (c *Connection) sendError(code string, seq uint64, err error) {
	kind := wordy.KindOf(err)
	msg := err.Error()
	if kind == wordy.KindInternal {
		c.log.Error().Err(err).Str("room", code).Msg("request failed")
		msg = wordy.ErrInternal.Msg
	}
	env, werr := codec.WrapServerEnvelope(code, seq, codec.TypeError, codec.ErrorPayload{
		Message: msg,
		Kind:    kind.String(),
	})
	if werr != nil {
		c.log.Error().Err(werr).Msg("wrap error envelope failed")
		return
	}
	data, werr := codec.Encode(env, c.Format())
	if werr != nil {
		c.log.Error().Err(werr).Msg("encode error envelope failed")
		return
	}
	c.queue(data, codec.TypeError)
}
