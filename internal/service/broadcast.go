package service

// Broadcaster pushes game events to connected clients. Implemented by
// the WebSocket hub; NoopBroadcaster is used when no hub is wired.
type Broadcaster interface {
	BroadcastGameEvent(gameID, eventType string, data any)
}

// NoopBroadcaster discards all events.
type NoopBroadcaster struct{}

func (NoopBroadcaster) BroadcastGameEvent(gameID, eventType string, data any) {}
