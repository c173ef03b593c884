package chat

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Tarynjenifer/smartgrow-ai/internal/clock"
	"github.com/Tarynjenifer/smartgrow-ai/internal/telemetry"
)

const (
	DefaultReplyDelay       = 1500 * time.Millisecond
	DefaultMaxConversations = 1024
)

type Options struct {
	Script     Script
	Clock      clock.Clock
	ReplyDelay time.Duration
	Events     telemetry.Recorder
	Logger     *zap.Logger
	// MaxConversations caps the stored conversations. When full, the least
	// recently used idle conversation is evicted.
	MaxConversations int
}

type convEntry struct {
	conv *Conversation
	used uint64
}

// Service owns the responder and the conversations, keyed by id.
type Service struct {
	script     Script
	responder  *Responder
	clock      clock.Clock
	replyDelay time.Duration
	events     telemetry.Recorder
	logger     *zap.Logger
	maxConvs   int

	mu    sync.Mutex
	tick  uint64
	convs map[string]*convEntry
}

func NewService(opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Events == nil {
		opts.Events = telemetry.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ReplyDelay < 0 {
		opts.ReplyDelay = DefaultReplyDelay
	}
	if opts.MaxConversations <= 0 {
		opts.MaxConversations = DefaultMaxConversations
	}
	return &Service{
		script:     opts.Script,
		responder:  NewResponder(opts.Script.Rules, opts.Script.Fallback),
		clock:      opts.Clock,
		replyDelay: opts.ReplyDelay,
		events:     opts.Events,
		logger:     opts.Logger,
		maxConvs:   opts.MaxConversations,
		convs:      map[string]*convEntry{},
	}
}

func (s *Service) Responder() *Responder { return s.responder }

func (s *Service) QuickQuestions() []string {
	return append([]string(nil), s.script.QuickQuestions...)
}

// Conversation returns the conversation for id, starting a new one on
// first use.
func (s *Service) Conversation(id string) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tick++
	if e, ok := s.convs[id]; ok {
		e.used = s.tick
		return e.conv
	}
	if len(s.convs) >= s.maxConvs {
		s.evictLocked()
	}
	c := newConversation(s)
	s.convs[id] = &convEntry{conv: c, used: s.tick}
	s.logger.Debug("conversation started", zap.String("conversation", id))
	return c
}

// Lookup returns the conversation for id without starting one.
func (s *Service) Lookup(id string) (*Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.convs[id]
	if !ok {
		return nil, false
	}
	s.tick++
	e.used = s.tick
	return e.conv, true
}

// Greeting is the history of a conversation that has not started yet.
func (s *Service) Greeting() []Message {
	return greetingMessages(s.script.Greeting, s.clock.Now())
}

func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.convs)
}

// evictLocked drops the least recently used conversation that is not
// waiting on a reply. With every conversation typing, nothing is dropped.
func (s *Service) evictLocked() {
	var (
		victim string
		oldest *convEntry
	)
	for id, e := range s.convs {
		if e.conv.Typing() {
			continue
		}
		if oldest == nil || e.used < oldest.used {
			victim, oldest = id, e
		}
	}
	if oldest == nil {
		return
	}
	delete(s.convs, victim)
	s.logger.Debug("conversation evicted", zap.String("conversation", victim))
}
