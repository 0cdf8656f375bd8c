// Package connstate tracks whether the sensor feed is reachable.
package connstate

import "time"

// State is the feed connectivity as shown on the dashboard badge.
type State string

const (
	Connecting State = "Connecting"
	Online     State = "Online"
	Offline    State = "Offline"
)

// Machine flips between Online and Offline on every poll outcome. There is
// no hysteresis: one failure is enough to go Offline.
type Machine struct {
	state       State
	lastSuccess time.Time
	lastFailure time.Time
	lastErr     error
}

// New returns a machine in the Connecting state.
func New() *Machine {
	return &Machine{state: Connecting}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Succeed records a successful poll.
func (m *Machine) Succeed(at time.Time) {
	m.state = Online
	m.lastSuccess = at
	m.lastErr = nil
}

// Fail records a failed poll.
func (m *Machine) Fail(at time.Time, err error) {
	m.state = Offline
	m.lastFailure = at
	m.lastErr = err
}

// Observe records a poll outcome; a nil error is a success.
func (m *Machine) Observe(at time.Time, err error) State {
	if err != nil {
		m.Fail(at, err)
	} else {
		m.Succeed(at)
	}
	return m.state
}

// Reset re-enters Connecting. Only done when a view is mounted.
func (m *Machine) Reset() {
	*m = Machine{state: Connecting}
}

// LastSuccess returns when the feed last answered.
func (m *Machine) LastSuccess() time.Time { return m.lastSuccess }

// LastFailure returns when the feed last failed.
func (m *Machine) LastFailure() time.Time { return m.lastFailure }

// Err returns the error of the most recent failed poll, cleared on success.
func (m *Machine) Err() error { return m.lastErr }
