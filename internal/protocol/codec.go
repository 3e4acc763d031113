package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrBadEnvelope = errors.New("bad envelope")
	ErrBadPayload  = errors.New("bad payload")
	ErrUnknownType = errors.New("unknown event type")
)

// Decode parses one inbound frame. The returned error wraps ErrBadEnvelope,
// ErrUnknownType or ErrBadPayload; for a bad payload the event type is
// still reported so callers can answer it.
func Decode(frame []byte) (Inbound, EventType, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrBadEnvelope, err)
	}

	var (
		in  Inbound
		err error
	)
	switch env.Type {
	case TypeJoin:
		var p Join
		err = decodeData(env.Data, &p)
		in = p
	case TypeCameraStatus:
		var on bool
		err = decodeData(env.Data, &on)
		in = CameraStatus{On: on}
	case TypeSendMessage:
		var p SendMessage
		err = decodeData(env.Data, &p)
		in = p
	case TypeMakeAdmin:
		var p MakeAdmin
		err = decodeData(env.Data, &p)
		in = p
	case TypeMuteUser:
		var p MuteUser
		err = decodeData(env.Data, &p)
		in = p
	case TypeRemoveUser:
		var p RemoveUser
		err = decodeData(env.Data, &p)
		in = p
	case TypeBlockIP:
		var p BlockIP
		err = decodeData(env.Data, &p)
		in = p
	case TypeOffer, TypeAnswer, TypeICECandidate:
		p := Relay{Type: env.Type}
		err = decodeData(env.Data, &p)
		if err == nil && p.To == "" {
			err = errors.New("missing recipient")
		}
		in = p
	case TypePing:
		in = Ping{}
	default:
		return nil, env.Type, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
	if err != nil {
		return nil, env.Type, fmt.Errorf("%w: %s: %v", ErrBadPayload, env.Type, err)
	}
	return in, env.Type, nil
}

func decodeData(raw json.RawMessage, v any) error {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return errors.New("missing data")
	}
	return json.Unmarshal(raw, v)
}

// Encode builds an outbound frame. A nil data produces an envelope without
// a data field.
func Encode(t EventType, data any) ([]byte, error) {
	env := Envelope{Type: t}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", t, err)
		}
		env.Data = raw
	}
	return json.Marshal(env)
}
