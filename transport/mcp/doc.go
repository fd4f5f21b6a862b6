// Package mcp exposes the board editor to AI agents over the Model Context
// Protocol.
//
// The Client registers one tool per editing operation and forwards every
// call to the REST API, so agents and browsers share the same sessions and
// see each other's edits. Results are rendered as text: board rows under a
// column ruler, placed parts and etched connections.
//
// Tools:
//   - create_session, import_board, list_sessions, get_session, delete_session
//   - get_board, export_board, operation_history
//   - preview_reshape, extend, erase
//   - preview_etch, etch, unetch
//   - place_part, remove_part, lock_point
//   - undo, redo
//   - list_presets, list_parts, editor_instructions
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: POST /mcp handled with GetMCPServer().HandleMessage
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
