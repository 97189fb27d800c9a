package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Format is the frame encoding a connection speaks. Clients that send
// binary frames get binary frames back.
type Format int

const (
	FormatJSON Format = iota
	FormatProto
)

func (f Format) String() string {
	if f == FormatProto {
		return "proto"
	}
	return "json"
}

// Envelope is every server-to-client message.
type Envelope struct {
	Type    string          `json:"type"`
	Room    string          `json:"room,omitempty"`
	Seq     uint64          `json:"seq"`
	TsMs    int64           `json:"tsMs"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ClientMessage is every client-to-server message. Unused fields stay zero.
type ClientMessage struct {
	Type     string   `json:"type"`
	Room     string   `json:"roomCode,omitempty"`
	Name     string   `json:"playerName,omitempty"`
	Token    string   `json:"token,omitempty"`
	Word     string   `json:"word,omitempty"`
	CardID   string   `json:"cardId,omitempty"`
	Input    string   `json:"input,omitempty"`
	Response string   `json:"response,omitempty"`
	TileIDs  []string `json:"tileIds,omitempty"`

	// Informational only; the responder is always the sending connection.
	ResponderID *int `json:"responderId,omitempty"`
}

// WrapServerEnvelope builds an envelope around payload.
func WrapServerEnvelope(room string, seq uint64, typ string, payload any) (Envelope, error) {
	env := Envelope{
		Type: typ,
		Room: room,
		Seq:  seq,
		TsMs: time.Now().UnixMilli(),
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Envelope{}, fmt.Errorf("encode %s payload: %w", typ, err)
		}
		env.Payload = raw
	}
	return env, nil
}

// Encode renders env as a single frame in format f.
func Encode(env Envelope, f Format) ([]byte, error) {
	raw, err := json.Marshal(env)
	if err != nil {
		return nil, err
	}
	if f == FormatJSON {
		return raw, nil
	}
	st := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, st); err != nil {
		return nil, fmt.Errorf("envelope to struct: %w", err)
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(st)
}

// DecodeEnvelope is the inverse of Encode, used by clients and tests.
func DecodeEnvelope(data []byte, f Format) (Envelope, error) {
	raw, err := toJSON(data, f)
	if err != nil {
		return Envelope{}, err
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}

// DecodeClient parses one client frame.
func DecodeClient(data []byte, f Format) (ClientMessage, error) {
	raw, err := toJSON(data, f)
	if err != nil {
		return ClientMessage{}, err
	}
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("decode message: %w", err)
	}
	if msg.Type == "" {
		return ClientMessage{}, fmt.Errorf("message type is required")
	}
	return msg, nil
}

// EncodeClient renders msg in format f.
func EncodeClient(msg ClientMessage, f Format) ([]byte, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	if f == FormatJSON {
		return raw, nil
	}
	st := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, st); err != nil {
		return nil, err
	}
	return proto.Marshal(st)
}

func toJSON(data []byte, f Format) ([]byte, error) {
	if f == FormatJSON {
		return data, nil
	}
	st := &structpb.Struct{}
	if err := proto.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("decode binary frame: %w", err)
	}
	return protojson.Marshal(st)
}
