package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/luki/coldroom/internal/status"
)

type fakeGen struct {
	mu    sync.Mutex
	reqs  []Request
	reply string
	err   error
}

func (f *fakeGen) Generate(_ context.Context, req Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	return f.reply, f.err
}

var room = RoomContext{
	Temperature: 4.2,
	Humidity:    55,
	Band:        status.Caution,
	Condition:   status.ConditionCold,
}

func TestNewConversationGreets(t *testing.T) {
	c := NewConversation(ModeTranscript)
	msgs := c.Messages()
	if len(msgs) != 1 || msgs[0].Role != RoleAssistant || msgs[0].Content != Greeting {
		t.Fatalf("messages = %+v", msgs)
	}
	if c.Pending() {
		t.Error("new conversation is pending")
	}
}

func TestSendTranscript(t *testing.T) {
	gen := &fakeGen{reply: "Looks fine."}
	c := NewConversation(ModeTranscript)

	m, err := c.Send(context.Background(), gen, "  how is the room?  ", room)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if m.Role != RoleAssistant || m.Content != "Looks fine." {
		t.Errorf("reply = %+v", m)
	}

	msgs := c.Messages()
	if len(msgs) != 3 || msgs[1].Role != RoleUser || msgs[1].Content != "how is the room?" {
		t.Fatalf("messages = %+v", msgs)
	}

	req := gen.reqs[0]
	if req.History != nil {
		t.Error("transcript mode sent structured history")
	}
	for _, want := range []string{"4.2°C", "Caution", "55%", "-18°C to -23°C", "Assistant: " + Greeting, "User: how is the room?"} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, req.Prompt)
		}
	}
}

func TestSendTurns(t *testing.T) {
	gen := &fakeGen{reply: "ok"}
	c := NewConversation(ModeTurns)

	if _, err := c.Send(context.Background(), gen, "first", room); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Send(context.Background(), gen, "second", room); err != nil {
		t.Fatal(err)
	}

	req := gen.reqs[1]
	if len(req.History) != 3 {
		t.Fatalf("history has %d messages, want 3", len(req.History))
	}
	if !strings.HasSuffix(req.Prompt, "User question: second") {
		t.Errorf("prompt = %q", req.Prompt)
	}
	if strings.Contains(req.Prompt, "first") {
		t.Error("turns prompt repeats earlier messages")
	}
}

func TestBeginRefusals(t *testing.T) {
	c := NewConversation(ModeTranscript)
	if _, err := c.Begin("   ", room); !errors.Is(err, ErrEmpty) {
		t.Errorf("blank input err = %v", err)
	}
	if _, err := c.Begin("hello", room); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Begin("again", room); !errors.Is(err, ErrBusy) {
		t.Errorf("input while pending err = %v", err)
	}
	c.Complete("hi", nil)
	if c.Pending() {
		t.Error("still pending after Complete")
	}
	if n := len(c.Messages()); n != 3 {
		t.Errorf("%d messages, want 3", n)
	}
}

func TestFailureMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Failure
	}{
		{"missing key", ErrMissingKey, FailureMissingKey},
		{"wrapped safety", fmt.Errorf("chat: reply %w", ErrSafety), FailureSafety},
		{"invalid key text", errors.New("Error 400, Message: API key not valid. Please pass a valid API key."), FailureInvalidKey},
		{"quota text", errors.New("Error 429, Message: You exceeded your current quota, Status: RESOURCE_EXHAUSTED"), FailureQuota},
		{"safety text", errors.New("candidate blocked: SAFETY"), FailureSafety},
		{"other", errors.New("connection reset"), FailureOther},
	}

	seen := map[string]bool{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify = %v, want %v", got, tt.want)
			}
			msg := FailureMessage(tt.err)
			if !strings.HasSuffix(msg, "Error: "+tt.err.Error()) {
				t.Errorf("message %q does not carry the error", msg)
			}
			seen[strings.SplitN(msg, " Error: ", 2)[0]] = true
		})
	}
	if len(seen) != 5 {
		t.Errorf("%d distinct messages, want 5", len(seen))
	}
}

func TestFailureBecomesReply(t *testing.T) {
	c := NewConversation(ModeTranscript)
	m, err := c.Send(context.Background(), Missing{}, "hello", room)
	if !errors.Is(err, ErrMissingKey) {
		t.Fatalf("err = %v", err)
	}
	if m.Role != RoleAssistant || !strings.Contains(m.Content, "not configured") {
		t.Errorf("reply = %+v", m)
	}
	if c.Pending() {
		t.Error("pending after failed send")
	}
}

func TestTurnsSkipsLeadingGreeting(t *testing.T) {
	c := NewConversation(ModeTurns)
	c.Begin("hi", room)
	c.Complete("hello", nil)

	got := turns(c.Messages())
	if len(got) != 2 || got[0].Role != "user" || got[1].Role != "model" {
		t.Fatalf("turns = %+v", got)
	}
	if got[0].Parts[0].Text != "hi" {
		t.Errorf("first turn = %q", got[0].Parts[0].Text)
	}
}

func TestNewGeneratorWithoutKey(t *testing.T) {
	gen, err := NewGenerator(context.Background(), "", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := gen.(Missing); !ok {
		t.Errorf("generator = %T, want Missing", gen)
	}
}
