package handler

// BroadcastGameEvent satisfies service.Broadcaster, bridging the
// service layer to the WebSocket hub without a handler import cycle.
func (h *Hub) BroadcastGameEvent(gameID, eventType string, data any) {
	ev := WSEvent{Type: eventType, GameID: gameID, Data: data}
	h.BroadcastToGame(gameID, ev)
}
