package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/nats-io/nats.go"
)

// Notifier pushes real-time events to a specific user's connected clients.
// Delivery is fire-and-forget: no acknowledgement, no guarantee.
type Notifier interface {
	Notify(userID string, event interface{})
	Close() error
}

// NotifySubjectPrefix is the per-user NATS subject prefix.
const NotifySubjectPrefix = "taskman.notify."

// NATSNotifier publishes user events to per-user NATS subjects.
type NATSNotifier struct {
	conn *nats.Conn
}

// NewNATSNotifier connects to the given NATS server.
func NewNATSNotifier(url string) (*NATSNotifier, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSNotifier{conn: conn}, nil
}

// Notify publishes the event to the user's subject. Errors are logged and
// dropped; a lost notification never fails the triggering operation.
func (n *NATSNotifier) Notify(userID string, event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("notify: failed to marshal event for user %s: %v", userID, err)
		return
	}
	if err := n.conn.Publish(NotifySubjectPrefix+userID, payload); err != nil {
		log.Printf("notify: failed to publish event for user %s: %v", userID, err)
	}
}

// Close drains the NATS connection.
func (n *NATSNotifier) Close() error {
	n.conn.Close()
	return nil
}
