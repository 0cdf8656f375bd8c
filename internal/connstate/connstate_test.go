package connstate

import (
	"errors"
	"testing"
	"time"
)

func TestTransitions(t *testing.T) {
	m := New()
	if m.State() != Connecting {
		t.Fatalf("initial state = %s, want Connecting", m.State())
	}

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	boom := errors.New("connection refused")

	steps := []struct {
		err  error
		want State
	}{
		{nil, Online},
		{boom, Offline},
		{boom, Offline},
		{nil, Online},
		{nil, Online},
		{boom, Offline},
	}
	for i, s := range steps {
		at := now.Add(time.Duration(i) * 5 * time.Second)
		if got := m.Observe(at, s.err); got != s.want {
			t.Fatalf("step %d: state = %s, want %s", i, got, s.want)
		}
		if m.State() == Connecting {
			t.Fatalf("step %d: Connecting re-entered without Reset", i)
		}
	}

	if !errors.Is(m.Err(), boom) {
		t.Errorf("Err() = %v, want %v", m.Err(), boom)
	}
	if want := now.Add(25 * time.Second); !m.LastFailure().Equal(want) {
		t.Errorf("LastFailure() = %v, want %v", m.LastFailure(), want)
	}
	if want := now.Add(20 * time.Second); !m.LastSuccess().Equal(want) {
		t.Errorf("LastSuccess() = %v, want %v", m.LastSuccess(), want)
	}
}

func TestSucceedClearsError(t *testing.T) {
	m := New()
	m.Fail(time.Now(), errors.New("timeout"))
	m.Succeed(time.Now())
	if m.Err() != nil {
		t.Errorf("Err() after success = %v, want nil", m.Err())
	}
}

func TestReset(t *testing.T) {
	m := New()
	m.Succeed(time.Now())
	m.Reset()
	if m.State() != Connecting {
		t.Errorf("state after Reset = %s, want Connecting", m.State())
	}
	if !m.LastSuccess().IsZero() {
		t.Error("Reset kept LastSuccess")
	}
}
