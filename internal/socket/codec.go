package socket

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec frames named events on the wire.
type Codec interface {
	Name() string
	// Encode returns the websocket message type and frame for one event.
	Encode(event string, payload any) (int, []byte, error)
	// Decode splits a frame into its event name and a lazy payload decoder.
	Decode(frame []byte) (string, DecodeFunc, error)
}

// DecodeFunc unmarshals an event payload into v.
type DecodeFunc = func(v any) error

// CodecByName returns the codec for "json" (the default) or "msgpack".
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSON, nil
	case "msgpack":
		return MsgPack, nil
	default:
		return nil, fmt.Errorf("unknown socket codec: %s", name)
	}
}

var (
	JSON    Codec = jsonCodec{}
	MsgPack Codec = msgpackCodec{}
)

type jsonEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Encode(event string, payload any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	frame, err := json.Marshal(jsonEnvelope{Event: event, Data: data})
	return websocket.TextMessage, frame, err
}

func (jsonCodec) Decode(frame []byte) (string, DecodeFunc, error) {
	var env jsonEnvelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return "", nil, err
	}
	if env.Event == "" {
		return "", nil, fmt.Errorf("frame has no event name")
	}
	data := env.Data
	return env.Event, func(v any) error {
		if len(data) == 0 {
			return nil
		}
		return json.Unmarshal(data, v)
	}, nil
}

// msgpack frames are ~30-50% smaller than JSON, which matters for the
// per-keystroke sentence_autocomplete traffic.
type msgpackEnvelope struct {
	Event string             `msgpack:"event"`
	Data  msgpack.RawMessage `msgpack:"data,omitempty"`
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string { return "msgpack" }

func (msgpackCodec) Encode(event string, payload any) (int, []byte, error) {
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	frame, err := msgpack.Marshal(msgpackEnvelope{Event: event, Data: data})
	return websocket.BinaryMessage, frame, err
}

func (msgpackCodec) Decode(frame []byte) (string, DecodeFunc, error) {
	var env msgpackEnvelope
	if err := msgpack.Unmarshal(frame, &env); err != nil {
		return "", nil, err
	}
	if env.Event == "" {
		return "", nil, fmt.Errorf("frame has no event name")
	}
	data := env.Data
	return env.Event, func(v any) error {
		if len(data) == 0 {
			return nil
		}
		return msgpack.Unmarshal(data, v)
	}, nil
}
