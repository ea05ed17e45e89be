// Package api provides HTTP REST API handlers for Roundup.
//
// The api package implements:
//   - RESTful endpoints for game operations
//   - Session management endpoints
//   - Board catalog listing and board validation
//   - Leaderboard access
//   - WebSocket upgrade handling for read-only viewers
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"id", "board", "layout"}, all optional)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/move - {"row":3,"col":2,"direction":"right"} or {"move":"32R"}
//   - POST /api/sessions/{id}/bulk-move - {"moves":["14D","32R"]} or {"sequence":"14D32R"}
//   - POST /api/sessions/{id}/restart - Start the current board over
//   - POST /api/sessions/{id}/next - Advance to the next catalog board
//   - POST /api/sessions/{id}/select - {"board":7}
//   - POST /api/sessions/{id}/custom - {"layout":"31 32R 35 11 15 55"}
//   - GET /api/sessions/{id}/solve - Shortest winning sequence from here
//   - POST /api/sessions/{id}/save - Record the win in the leaderboard
//
// Boards and Leaderboard:
//   - GET /api/boards - The board catalog
//   - POST /api/validate - {"layout":"..."}; reports every failed rule
//   - GET /api/leaderboard - Saved wins, as records and as text lines
//   - DELETE /api/leaderboard - Clear the leaderboard
//
// Viewers:
//   - GET /ws?session={id} - WebSocket stream of session updates
//
// Error Handling:
//
// Errors are returned as JSON with an HTTP status derived from the
// underlying sentinel error (404 for unknown sessions or boards, 400 for
// rejected moves and layouts, 409 for leaderboard conflicts):
//
//	{
//	  "error": "error message"
//	}
package api
