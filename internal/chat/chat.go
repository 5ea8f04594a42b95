package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/plantcare/internal/ai"
	"github.com/vbonduro/plantcare/internal/domain"
)

const (
	WelcomeText    = "Hello! I'm your PlantCareAI assistant. I can help you with plant care, disease identification, watering schedules, and more. What would you like to know?"
	ApologyText    = "I apologize, but I encountered an error. Please try again."
	EmptyReplyText = "I apologize, but I couldn't generate a response. Please try again."
)

// QuickQuestions are suggested openers shown while the transcript holds only
// the welcome message.
var QuickQuestions = []string{
	"How often should I water my plants?",
	"My plant has yellow leaves, what's wrong?",
	"What's the best fertilizer for houseplants?",
	"How do I increase humidity for my plants?",
}

// ErrBusy is returned when a send is attempted while another is in flight.
var ErrBusy = errors.New("a message is already being answered")

// Exchange is the outcome of one SendUserText call. Err holds the classified
// gateway failure, if any; Reply is always appended regardless.
type Exchange struct {
	User  domain.ChatMessage
	Reply domain.ChatMessage
	Err   error
}

type Option func(*Session)

// WithClock overrides the time source used for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithIDGenerator overrides the message id source.
func WithIDGenerator(newID func() string) Option {
	return func(s *Session) { s.newID = newID }
}

// Session is an append-only chat transcript bound to one gateway. At most
// one send is in flight at a time.
type Session struct {
	gateway ai.Gateway
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string

	mu       sync.Mutex
	messages []domain.ChatMessage
	thinking bool
}

func NewSession(gateway ai.Gateway, logger *slog.Logger, opts ...Option) *Session {
	s := &Session{
		gateway: gateway,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.messages = []domain.ChatMessage{s.newMessage(WelcomeText, domain.SenderAssistant)}
	return s
}

// newMessage must be called with mu held (or before the session is shared).
func (s *Session) newMessage(text string, sender domain.Sender) domain.ChatMessage {
	ts := s.now()
	if n := len(s.messages); n > 0 && ts.Before(s.messages[n-1].Timestamp) {
		ts = s.messages[n-1].Timestamp
	}
	return domain.ChatMessage{ID: s.newID(), Text: text, Sender: sender, Timestamp: ts}
}

// Messages returns a copy of the transcript in insertion order.
func (s *Session) Messages() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Thinking reports whether a send is waiting on the gateway.
func (s *Session) Thinking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.thinking
}

// Fresh reports whether the transcript still holds only the welcome message.
func (s *Session) Fresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages) == 1
}

// Append adds a message at the tail of the transcript.
func (s *Session) Append(msg domain.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// SendUserText runs one question/answer exchange. Blank text is rejected
// with ai.ErrEmptyInput before anything is appended. Otherwise the transcript
// grows by exactly two messages: the user's text, then either the reply or
// ApologyText.
func (s *Session) SendUserText(ctx context.Context, credential, text string) (*Exchange, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ai.ErrEmptyInput
	}

	s.mu.Lock()
	if s.thinking {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	user := s.newMessage(text, domain.SenderUser)
	s.messages = append(s.messages, user)
	s.thinking = true
	s.mu.Unlock()

	reply, err := s.invoke(ctx, credential, text)
	switch {
	case err != nil:
		s.logger.Error("chat request failed", "error", err)
		reply = ApologyText
	case strings.TrimSpace(reply) == "":
		s.logger.Warn("chat reply was empty")
		reply = EmptyReplyText
	}

	s.mu.Lock()
	assistant := s.newMessage(reply, domain.SenderAssistant)
	s.messages = append(s.messages, assistant)
	s.thinking = false
	s.mu.Unlock()

	return &Exchange{User: user, Reply: assistant, Err: err}, nil
}

// invoke calls the gateway, converting a panic into an error so the
// transcript always receives its assistant message.
func (s *Session) invoke(ctx context.Context, credential, text string) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gateway panic: %v", r)
		}
	}()
	return s.gateway.Invoke(ctx, ai.Request{
		Capability: ai.CapabilityChat,
		Credential: credential,
		Prompt:     ai.CarePrompt(text),
	})
}
