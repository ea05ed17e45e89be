// Package session provides session management for Roundup.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager stores service.Session values, each owning its own game engine
// and a board cursor into the catalog. Sessions are kept in memory only;
// a game in progress does not survive a restart.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Lookups are
// case-insensitive.
//
// Usage:
//
//	catalog := config.NewManager()
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", catalog.NewCursor())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
// Cleanup:
//
// RunCleanup removes sessions that have not been accessed for a while; it
// runs until its context is cancelled.
package session
