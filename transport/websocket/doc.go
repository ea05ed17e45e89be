// Package websocket provides WebSocket transport for Roundup viewers.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - Automatic state broadcasting on every session change
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Client bookkeeping happens only on the goroutine
// running Hub.Run; each connection gets its own read and write pumps.
//
// Message Protocol:
//
// Viewers are read-only. Every outgoing frame is a JSON Message carrying the
// session ID, the event ("new_game" or "move"), the board being played, the
// full game state and, for moves, how the move resolved.
//
// Session Integration:
//
// Clients pick a session with a query parameter (/ws?session=abc1). The Hub
// implements service.Broadcaster, so the game service pushes updates for a
// session only to its own viewers.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	svc := service.NewGameService(sessions, catalog, service.WithBroadcaster(hub))
package websocket
