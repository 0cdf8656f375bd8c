// Package chat implements the dashboard's assistant: it keeps the
// conversation, composes prompts around the current room readings and maps
// generation failures to readable replies.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/luki/coldroom/internal/status"
)

// Role identifies who wrote a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Greeting opens every conversation.
const Greeting = "Hi! I'm the assistant for the ice cream cold room dashboard. " +
	"I can help you understand the current room conditions. What would you like to know?"

// Message is one entry in the conversation log.
type Message struct {
	ID      uuid.UUID
	Role    Role
	Content string
	At      time.Time
}

// Mode selects how history reaches the model.
type Mode string

const (
	// ModeTranscript flattens the conversation into a single prompt.
	ModeTranscript Mode = "transcript"
	// ModeTurns sends the conversation as structured turns.
	ModeTurns Mode = "turns"
)

// RoomContext is the live state embedded in every prompt.
type RoomContext struct {
	Temperature float64
	Humidity    float64
	Band        status.Band
	Condition   status.Condition
}

// Request is what a Generator receives.
type Request struct {
	Prompt  string
	History []Message // only set in ModeTurns
	Mode    Mode
}

// Generator produces a reply for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

var (
	// ErrEmpty is returned for blank input.
	ErrEmpty = errors.New("empty message")
	// ErrBusy is returned while a reply is pending.
	ErrBusy = errors.New("reply pending")
)

// Conversation is the chat log plus the pending-reply flag.
type Conversation struct {
	mu       sync.Mutex
	messages []Message
	pending  bool
	mode     Mode
	now      func() time.Time
}

// NewConversation starts a conversation with the greeting.
func NewConversation(mode Mode) *Conversation {
	if mode != ModeTurns {
		mode = ModeTranscript
	}
	c := &Conversation{mode: mode, now: time.Now}
	c.messages = append(c.messages, c.newMessage(RoleAssistant, Greeting))
	return c
}

func (c *Conversation) newMessage(role Role, content string) Message {
	return Message{ID: uuid.New(), Role: role, Content: content, At: c.now()}
}

// Messages returns a copy of the log.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Pending reports whether a reply is outstanding.
func (c *Conversation) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Begin appends the user's message and returns the request to send. Blank
// input and input while a reply is pending are refused.
func (c *Conversation) Begin(text string, room RoomContext) (Request, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Request{}, ErrEmpty
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending {
		return Request{}, ErrBusy
	}

	prior := make([]Message, len(c.messages))
	copy(prior, c.messages)

	c.messages = append(c.messages, c.newMessage(RoleUser, text))
	c.pending = true

	req := Request{Mode: c.mode}
	switch c.mode {
	case ModeTurns:
		req.Prompt = roomContext(room) + "\n\nUser question: " + text
		req.History = prior
	default:
		req.Prompt = transcriptPrompt(room, prior, text)
	}
	return req, nil
}

// Complete records the outcome of the pending request. A failure becomes
// an assistant message describing it.
func (c *Conversation) Complete(reply string, err error) Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	content := reply
	if err != nil {
		content = FailureMessage(err)
	}
	m := c.newMessage(RoleAssistant, content)
	c.messages = append(c.messages, m)
	c.pending = false
	return m
}

// Send runs a full exchange against gen.
func (c *Conversation) Send(ctx context.Context, gen Generator, text string, room RoomContext) (Message, error) {
	req, err := c.Begin(text, room)
	if err != nil {
		return Message{}, err
	}
	reply, genErr := gen.Generate(ctx, req)
	return c.Complete(reply, genErr), genErr
}

func roomContext(room RoomContext) string {
	return strings.TrimSpace(fmt.Sprintf(`
Current room information:
- Temperature: %.1f°C (Status: %s)
- Humidity: %.0f%%
- Condition: %s
- Recommended ice cream storage temperature: -18°C to -23°C

You are the AI assistant for an ice cream cold-storage monitoring dashboard. Help the user understand the room conditions and give advice when needed. Answer in a friendly, professional tone.`,
		room.Temperature, room.Band, room.Humidity, room.Condition.Summary()))
}

func transcriptPrompt(room RoomContext, prior []Message, input string) string {
	var sb strings.Builder
	sb.WriteString(roomContext(room))
	sb.WriteString("\n\n")

	var lines []string
	for _, m := range prior {
		who := "Assistant"
		if m.Role == RoleUser {
			who = "User"
		}
		lines = append(lines, who+": "+m.Content)
	}
	if len(lines) > 0 {
		sb.WriteString("Conversation so far:\n")
		sb.WriteString(strings.Join(lines, "\n\n"))
		sb.WriteString("\n\n")
	}

	sb.WriteString("User: ")
	sb.WriteString(input)
	sb.WriteString("\n\nAnswer the user's question in a friendly and informative way.")
	return sb.String()
}
