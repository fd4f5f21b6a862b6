// Package service provides the business logic layer of the board editor.
//
// BoardService is the facade every transport talks to. It resolves sessions
// through a SessionManager, starting boards through a PresetManager, and
// turns each request into one editor operation:
//
//	svc := service.NewBoardService(sessions, presets, logger)
//
//	info, err := svc.CreateSession(ctx, "workbench")
//	if err != nil {
//		return err
//	}
//
//	// Grow the board one column to the right
//	res, err := svc.Extend(ctx, info.ID, service.Rect{
//		From: pcb.Coord{X: 8, Y: 0},
//		To:   pcb.Coord{X: 8, Y: 2},
//	})
//
// A rejected edit is not an error. The result carries Applied=false and the
// reason, and the board is left unchanged. Errors are reserved for missing
// sessions, missing presets and persistence failures.
//
// Every call holds the service mutex for its duration, so editors are never
// touched by two goroutines at once.
package service
