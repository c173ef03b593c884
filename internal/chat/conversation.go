package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Tarynjenifer/smartgrow-ai/internal/clock"
	"github.com/Tarynjenifer/smartgrow-ai/internal/delay"
	"github.com/Tarynjenifer/smartgrow-ai/internal/telemetry"
)

var ErrEmptyMessage = errors.New("message is empty")

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

type Kind string

const (
	KindNormal     Kind = "normal"
	KindSuggestion Kind = "suggestion"
)

type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	Kind      Kind      `json:"type"`
}

// Conversation is one chat history. A bot reply is only appended if no
// newer message or Clear arrived while it was "typing".
type Conversation struct {
	mu       sync.Mutex
	messages []Message

	greeting   string
	responder  *Responder
	slot       *delay.Slot
	clock      clock.Clock
	replyDelay time.Duration
	events     telemetry.Recorder
	logger     *zap.Logger
	newID      func() string
}

func newConversation(s *Service) *Conversation {
	c := &Conversation{
		greeting:   s.script.Greeting,
		responder:  s.responder,
		slot:       delay.NewSlot(s.clock),
		clock:      s.clock,
		replyDelay: s.replyDelay,
		events:     s.events,
		logger:     s.logger,
		newID:      uuid.NewString,
	}
	c.messages = c.initial()
	return c
}

func (c *Conversation) initial() []Message {
	return greetingMessages(c.greeting, c.clock.Now())
}

func greetingMessages(greeting string, now time.Time) []Message {
	if greeting == "" {
		return []Message{}
	}
	return []Message{{
		ID:        "1",
		Text:      greeting,
		Sender:    SenderBot,
		Timestamp: now,
		Kind:      KindNormal,
	}}
}

func (c *Conversation) record(t telemetry.EventType, md telemetry.EventMetadata) {
	if err := c.events.RecordEvent(t, md); err != nil {
		c.logger.Warn("record event failed", zap.String("event", string(t)), zap.Error(err))
	}
}

// Send appends the user's message, waits for the reply delay and appends
// the bot's answer. If a newer Send or a Clear supersedes it, the reply is
// dropped and delay.ErrSuperseded or delay.ErrCancelled is returned along
// with the user message that was recorded.
func (c *Conversation) Send(ctx context.Context, text string) (Message, Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, Message{}, ErrEmptyMessage
	}

	user := Message{
		ID:        c.newID(),
		Text:      text,
		Sender:    SenderUser,
		Timestamp: c.clock.Now(),
		Kind:      KindNormal,
	}
	c.mu.Lock()
	c.messages = append(c.messages, user)
	c.mu.Unlock()
	c.record(telemetry.EventChatMessage, telemetry.EventMetadata{"length": len(text)})

	var reply Message
	err := c.slot.Do(ctx, c.replyDelay, func() error {
		rule, matched := c.responder.Match(text)
		answer := c.responder.Fallback()
		name := "fallback"
		if matched {
			answer = rule.Response
			name = rule.Name
		}
		reply = Message{
			ID:        c.newID(),
			Text:      answer,
			Sender:    SenderBot,
			Timestamp: c.clock.Now(),
			Kind:      KindNormal,
		}
		c.mu.Lock()
		c.messages = append(c.messages, reply)
		c.mu.Unlock()
		c.record(telemetry.EventChatReply, telemetry.EventMetadata{"rule": name})
		return nil
	})
	if err != nil {
		if errors.Is(err, delay.ErrSuperseded) || errors.Is(err, delay.ErrCancelled) {
			c.record(telemetry.EventChatReplySuperseded, telemetry.EventMetadata{"reason": err.Error()})
		}
		return user, Message{}, err
	}
	return user, reply, nil
}

// Clear drops any pending reply and resets the history to the greeting.
func (c *Conversation) Clear() {
	c.slot.Cancel()

	c.mu.Lock()
	c.messages = c.initial()
	c.mu.Unlock()
	c.record(telemetry.EventChatCleared, nil)
}

// Typing reports whether a bot reply is pending.
func (c *Conversation) Typing() bool {
	return c.slot.Pending()
}

func (c *Conversation) History() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}
