// Package api exposes the board editor over HTTP.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions               create from {"preset_id": "..."} (empty for the default)
//   - POST   /api/sessions/import        create from {"data": "<board text>"}
//   - GET    /api/sessions               list, with sort=created|accessed, order=asc|desc, limit=N
//   - GET    /api/sessions/{id}          session info and board
//   - DELETE /api/sessions/{id}
//
// Board:
//   - GET /api/sessions/{id}/board
//   - GET /api/sessions/{id}/export     JSON, or the bare text with format=text
//   - GET /api/sessions/{id}/history    page=N, limit=N, order=asc|desc
//
// Editing takes {"from": {"x":0,"y":0}, "to": {"x":2,"y":1}} or a single cell
// {"at": {...}}:
//   - POST /api/sessions/{id}/preview/reshape
//   - POST /api/sessions/{id}/preview/etch
//   - POST /api/sessions/{id}/extend
//   - POST /api/sessions/{id}/erase
//   - POST /api/sessions/{id}/etch
//   - POST /api/sessions/{id}/unetch
//   - POST /api/sessions/{id}/parts         {"part": "meter", "configuration": 0, "at": {...}}
//   - POST /api/sessions/{id}/parts/remove  {"at": {...}}
//   - POST /api/sessions/{id}/lock          {"at": {...}, "locked": false}
//   - POST /api/sessions/{id}/undo
//   - POST /api/sessions/{id}/redo
//
// Configuration:
//   - GET /api/presets
//   - GET /api/presets/{name}
//   - GET /api/partdefs
//
// Live updates are served on /ws?session={id}.
//
// Edits the board refuses still answer 200 with "applied": false and a
// "reason". Errors are JSON objects with an "error" field: 404 for unknown
// sessions and presets, 400 for bad bodies and corrupt imports.
package api
