// Package mcp provides the Model Context Protocol interface for Roundup.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions mirroring the REST API
//   - Text renderings of boards, moves and the hall of fame
//   - Stdio and HTTP transport modes
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - create_session, list_sessions, get_session, delete_session
//   - game_state: Board rendering with move count and status
//   - move: Single move, as "32R" or as row, col and direction
//   - bulk_move: Several moves, as a list or a concatenated sequence
//   - restart_game, next_board, select_board, custom_board
//   - hint: Shortest winning sequence from the current position
//   - save_win, leaderboard, clear_leaderboard
//   - list_boards, validate_board, describe_cell, game_instructions
//
// Architecture:
//
// Client is a thin proxy: every tool call becomes a request against the
// REST API at the configured base URL, so agents and the other front ends
// share the same sessions.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// Stdio mode
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP mode
//	mux.Handle("/mcp", client.HTTPHandler())
package mcp
