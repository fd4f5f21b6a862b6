// Package session keeps the editing sessions of the board editor.
//
// Manager is the in-memory registry of sessions. Each session owns one
// editor.Editor built from a preset, plus its operation log. Session IDs are
// the first group of a random UUID and are matched case-insensitively.
//
// A Manager may be backed by a SessionPersistence:
//
//   - FilePersistence writes one JSON document per session, holding the
//     board in its base64 text form.
//   - SQLitePersistence keeps a sessions table with the board as a
//     compressed blob.
//
// Sessions are saved on creation and after every service operation, and
// are loaded lazily on Get. Undo history is not persisted.
//
//	persistence, err := session.NewSQLitePersistence("sessions.db", registry, logger)
//	if err != nil {
//		return err
//	}
//	manager := session.NewManagerWithPersistence(persistence, registry, logger)
//	if err := manager.LoadPersistedSessions(); err != nil {
//		logger.Warn("failed to load sessions", zap.Error(err))
//	}
package session
