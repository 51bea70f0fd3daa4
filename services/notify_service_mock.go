package services

import "sync"

// NotifiedEvent records one Notify call made against the mock.
type NotifiedEvent struct {
	UserID string
	Event  interface{}
}

// MockNotifier is an in-memory Notifier for testing
type MockNotifier struct {
	events []NotifiedEvent
	mu     sync.Mutex
}

// NewMockNotifier creates a new mock notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Notify records the event instead of publishing it
func (m *MockNotifier) Notify(userID string, event interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, NotifiedEvent{UserID: userID, Event: event})
}

// Close is a no-op for the mock
func (m *MockNotifier) Close() error {
	return nil
}

// Events returns a copy of the recorded events (for testing assertions)
func (m *MockNotifier) Events() []NotifiedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]NotifiedEvent, len(m.events))
	copy(events, m.events)
	return events
}

// EventsFor returns the recorded events for a single user
func (m *MockNotifier) EventsFor(userID string) []NotifiedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var events []NotifiedEvent
	for _, e := range m.events {
		if e.UserID == userID {
			events = append(events, e)
		}
	}
	return events
}
