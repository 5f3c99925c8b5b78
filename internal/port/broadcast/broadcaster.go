// Package broadcast defines the port for pushing task progress events to
// connected clients.
package broadcast

import "context"

// Broadcaster fans a typed event out to every connected client.
// Implementations must never block pipeline execution on a slow client.
type Broadcaster interface {
	BroadcastEvent(ctx context.Context, eventType string, payload any)
}
