package chat

import "context"

// EventTyping is the socket event carrying presence transitions.
const EventTyping = "typing"

// TypingPayload is the body of a typing event.
type TypingPayload struct {
	ReceiverID string `json:"receiverId" msgpack:"receiverId"`
	Typing     bool   `json:"typing" msgpack:"typing"`
}

// Emitter is the outbound half of a named-event socket.
type Emitter interface {
	Emit(event string, payload any) error
}

// Presence reports typing state for one conversation over a socket.
type Presence struct {
	emitter    Emitter
	receiverID string
}

func NewPresence(emitter Emitter, receiverID string) *Presence {
	return &Presence{emitter: emitter, receiverID: receiverID}
}

func (p *Presence) SetTyping(ctx context.Context, typing bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.emitter.Emit(EventTyping, TypingPayload{ReceiverID: p.receiverID, Typing: typing})
}
