package input

import (
	"time"

	"github.com/valerio/go-chiptrack/chiptrack/backend"
	"github.com/valerio/go-chiptrack/chiptrack/input/action"
)

// DefaultDebounce is the minimum time between two debounced events of the same action and value.
const DefaultDebounce = 300 * time.Millisecond

type key struct {
	act   action.Action
	value int
}

// Manager handles input actions and their associated callbacks
type Manager struct {
	handlers      map[action.Action][]func(value int)
	lastTriggered map[key]time.Time
	debounce      time.Duration
	now           func() time.Time
}

type ManagerOption func(*Manager)

// WithDebounce overrides DefaultDebounce. Zero disables debouncing.
func WithDebounce(d time.Duration) ManagerOption { return func(m *Manager) { m.debounce = d } }

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) ManagerOption { return func(m *Manager) { m.now = now } }

func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		handlers:      make(map[action.Action][]func(int)),
		lastTriggered: make(map[key]time.Time),
		debounce:      DefaultDebounce,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// On registers a callback for an action
func (m *Manager) On(act action.Action, callback func(value int)) {
	m.handlers[act] = append(m.handlers[act], callback)
}

// Trigger runs the callbacks for act. Toggles repeated within the debounce
// window are dropped; it reports whether the event was handled.
func (m *Manager) Trigger(act action.Action, value int) bool {
	if m.debounce > 0 && action.GetInfo(act).Debounce {
		k := key{act, value}
		now := m.now()
		if last, ok := m.lastTriggered[k]; ok && now.Sub(last) < m.debounce {
			return false
		}
		m.lastTriggered[k] = now
	}

	callbacks := m.handlers[act]
	for _, callback := range callbacks {
		callback(value)
	}
	return len(callbacks) > 0
}

// Dispatch triggers every event in order.
func (m *Manager) Dispatch(events []backend.Event) {
	for _, evt := range events {
		m.Trigger(evt.Action, evt.Value)
	}
}
