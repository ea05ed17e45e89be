// Package service provides the business logic layer for Roundup.
//
// The service package implements:
//   - Multi-session game management
//   - Board selection from the catalog or a custom layout
//   - Move processing and validation
//   - Change notification for observers and remote viewers
//   - Leaderboard recording of solved games
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// BoardCatalog and BoardCursor describe the predefined boards and which one a
// session is playing. LeaderboardStore persists solved games.
//
// Architecture:
//
// The service layer sits between the front ends (console, HTTP, WebSocket,
// MCP) and the game engine. Each session owns its own engine; the service
// mutex serializes every mutation, so engines never see concurrent calls.
// Observers registered with Subscribe run synchronously under that lock and
// must not call back into the service.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	catalog := config.NewManager()
//	gameService := service.NewGameService(sessionMgr, catalog,
//		service.WithLeaderboard(store))
//
//	info, err := gameService.CreateSession(ctx, service.CreateOptions{Board: 3})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, info.ID, 3, 2, "right")
package service
